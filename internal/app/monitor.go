// Package app contains the monitoring core: the polling loop, the
// filter predicate, the dedup ledger and the dispatch fan-out. It
// depends only on domain types and consumer-side interfaces, so every
// collaborator can be faked in tests.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ZTwicket/Twicketer/internal/clock"
	"github.com/ZTwicket/Twicketer/internal/domain"
)

// SessionProvider supplies a valid marketplace credential on demand.
type SessionProvider interface {
	Acquire(ctx context.Context) (domain.Credential, error)
	Invalidate()
}

// FeedClient fetches the current listings for one event.
type FeedClient interface {
	Fetch(ctx context.Context, eventID string, cred domain.Credential) ([]domain.Listing, error)
}

// ListingDispatcher triggers the side effects for one qualifying
// listing.
type ListingDispatcher interface {
	Dispatch(ctx context.Context, l domain.Listing) DispatchResult
}

// Reporter receives user-facing progress from the loop. Implementations
// must not block.
type Reporter interface {
	Status(msg string)
	Warn(msg string)
	Activity(result DispatchResult)
	Cycle(stats Stats)
}

// Stats is a running summary of the monitor's work.
type Stats struct {
	StartedAt    time.Time
	Cycles       int
	ListingsSeen int
	Dispatched   int
}

const (
	defaultBackoffCap  = 2 * time.Minute
	defaultMaxFailures = 10
)

// Monitor runs the fetch → filter → dedup → dispatch cycle for one
// event on a fixed cadence. One monitor is one sequential worker: it
// suspends only at network boundaries and the inter-cycle sleep.
type Monitor struct {
	eventID    string
	cadence    time.Duration
	filter     domain.FilterConfig
	session    SessionProvider
	feed       FeedClient
	dispatcher ListingDispatcher
	ledger     *Ledger
	reporter   Reporter
	clock      clock.Clock
	sleeper    clock.Sleeper
	logger     *slog.Logger

	backoffCap  time.Duration
	maxFailures int
	jitter      func(time.Duration) time.Duration

	stats Stats
}

// MonitorOption customises a Monitor.
type MonitorOption func(*Monitor)

// WithBackoffCap bounds the longest delay between retries after
// consecutive failures.
func WithBackoffCap(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.backoffCap = d
		}
	}
}

// WithMaxConsecutiveFailures sets the failure streak that triggers an
// operator warning. The loop keeps retrying at the backoff cap.
func WithMaxConsecutiveFailures(n int) MonitorOption {
	return func(m *Monitor) {
		if n > 0 {
			m.maxFailures = n
		}
	}
}

// WithJitter overrides the cadence jitter, mainly for tests.
func WithJitter(fn func(time.Duration) time.Duration) MonitorOption {
	return func(m *Monitor) {
		if fn != nil {
			m.jitter = fn
		}
	}
}

// NewMonitor wires a monitor for one event.
func NewMonitor(
	eventID string,
	cadence time.Duration,
	filter domain.FilterConfig,
	session SessionProvider,
	feed FeedClient,
	dispatcher ListingDispatcher,
	ledger *Ledger,
	reporter Reporter,
	clk clock.Clock,
	sleeper clock.Sleeper,
	logger *slog.Logger,
	opts ...MonitorOption,
) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{
		eventID:     eventID,
		cadence:     cadence,
		filter:      filter,
		session:     session,
		feed:        feed,
		dispatcher:  dispatcher,
		ledger:      ledger,
		reporter:    reporter,
		clock:       clk,
		sleeper:     sleeper,
		logger:      logger,
		backoffCap:  defaultBackoffCap,
		maxFailures: defaultMaxFailures,
		// Cadence is jittered uniformly into [d, 1.5d] so the poll
		// rhythm is not perfectly regular.
		jitter: func(d time.Duration) time.Duration {
			return d + time.Duration(rand.Int63n(int64(d)/2+1))
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run polls until the context is cancelled (returns nil) or a fatal
// condition is hit (returns the classified error). Transient and
// rate-limit failures never terminate the loop; they only stretch the
// delay before the next attempt.
func (m *Monitor) Run(ctx context.Context) error {
	m.stats.StartedAt = m.clock.Now()
	m.reporter.Status("entering monitoring loop")

	retry := newBackoff(m.cadence, m.backoffCap)
	for {
		err := m.cycle(ctx)
		switch {
		case err == nil:
			retry.reset()
			if serr := m.sleeper.Sleep(ctx, m.jitter(m.cadence)); serr != nil {
				return nil
			}

		case ctx.Err() != nil:
			// Cancellation surfaces through whichever call was in
			// flight; shutdown is graceful, not an error.
			return nil

		case errors.Is(err, domain.ErrInvalidEvent):
			m.reporter.Warn("event not found: check event id")
			return err

		case errors.Is(err, domain.ErrLoginFailed), errors.Is(err, domain.ErrAuth):
			// cycle already spent its one forced re-authentication.
			m.reporter.Warn("authentication failed: check credentials")
			return err

		case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrTransient):
			delay := retry.next()
			m.logger.Warn("cycle failed, backing off", "delay", delay, "consecutive", retry.consecutive(), "error", err)
			m.reporter.Status(fmt.Sprintf("temporary problem, retrying in %s", delay.Round(time.Second)))
			if retry.consecutive() == m.maxFailures {
				m.reporter.Warn(fmt.Sprintf("%d consecutive failures, marketplace may be down", m.maxFailures))
			}
			if serr := m.sleeper.Sleep(ctx, delay); serr != nil {
				return nil
			}

		default:
			return fmt.Errorf("monitor cycle: %w", err)
		}
	}
}

// cycle performs one fetch → filter → dedup → dispatch pass. An
// ErrAuth from the feed gets exactly one invalidate + re-acquire
// retry; if the retry also fails with ErrAuth the error escapes as
// fatal.
func (m *Monitor) cycle(ctx context.Context) error {
	cred, err := m.session.Acquire(ctx)
	if err != nil {
		return err
	}

	listings, err := m.feed.Fetch(ctx, m.eventID, cred)
	if errors.Is(err, domain.ErrAuth) {
		m.logger.Warn("credential rejected, re-authenticating")
		m.session.Invalidate()
		if cred, err = m.session.Acquire(ctx); err != nil {
			return err
		}
		listings, err = m.feed.Fetch(ctx, m.eventID, cred)
	}
	if err != nil {
		return err
	}

	m.stats.Cycles++
	m.stats.ListingsSeen += len(listings)

	if len(listings) == 0 {
		m.reporter.Status("no listings found")
	} else {
		m.reporter.Status(fmt.Sprintf("%d listing(s) found", len(listings)))
	}

	// Dispatch follows feed response order; the ledger guarantees
	// at-most-once per id.
	for _, listing := range listings {
		if !Matches(listing, m.filter) {
			continue
		}
		if !m.ledger.Admit(listing.ID) {
			continue
		}
		m.logger.Info("new qualifying listing", "id", listing.ID, "detail", listing.Describe())
		result := m.dispatcher.Dispatch(ctx, listing)
		m.stats.Dispatched++
		m.reporter.Activity(result)
	}

	m.reporter.Cycle(m.stats)
	return nil
}

// Stats returns a copy of the running counters.
func (m *Monitor) Stats() Stats {
	return m.stats
}
