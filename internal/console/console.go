// Package console renders monitor progress as styled terminal lines:
// a status stream while running and a summary panel on shutdown.
package console

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZTwicket/Twicketer/internal/app"
	"github.com/ZTwicket/Twicketer/internal/clock"
)

// recentEntries bounds the status ring kept for the shutdown summary.
const recentEntries = 10

var (
	timestampStyle = lipgloss.NewStyle().Faint(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	foundStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	linkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type entry struct {
	at   time.Time
	line string
}

// Console is an app.Reporter writing styled lines to a terminal.
// Safe for concurrent use.
type Console struct {
	out   io.Writer
	clock clock.Clock

	mu     sync.Mutex
	recent []entry
	stats  app.Stats
}

// New creates a console reporter.
func New(out io.Writer, clk clock.Clock) *Console {
	return &Console{out: out, clock: clk}
}

// Status prints a routine progress line.
func (c *Console) Status(msg string) {
	c.emit(statusStyle.Render(msg))
}

// Warn prints an attention-grabbing line.
func (c *Console) Warn(msg string) {
	c.emit(warnStyle.Render(msg))
}

// Activity prints the outcome of one dispatch: listing details, which
// side effects landed, and the purchase link.
func (c *Console) Activity(result app.DispatchResult) {
	l := result.Listing
	tag := foundStyle.Render("[opened]")
	switch {
	case !result.Opened && !result.Notified:
		tag = failStyle.Render("[dispatch failed]")
	case !result.Opened:
		tag = failStyle.Render("[open failed]")
	case !result.Notified:
		tag = warnStyle.Render("[notify failed]")
	}
	c.emit(fmt.Sprintf("%s %s %s", tag, l.Describe(), linkStyle.Render(l.PurchaseURL)))
}

// Cycle records the latest counters for the shutdown summary.
func (c *Console) Cycle(stats app.Stats) {
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
}

func (c *Console) emit(line string) {
	now := c.clock.Now()

	c.mu.Lock()
	c.recent = append(c.recent, entry{at: now, line: line})
	if len(c.recent) > recentEntries {
		c.recent = c.recent[1:]
	}
	c.mu.Unlock()

	fmt.Fprintf(c.out, "%s %s\n", timestampStyle.Render(now.Format("15:04:05")), line)
}

// Summary renders a closing panel with run statistics and the last
// few status lines.
func (c *Console) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	runtime := time.Duration(0)
	if !c.stats.StartedAt.IsZero() {
		runtime = c.clock.Now().Sub(c.stats.StartedAt).Round(time.Second)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Runtime: %s\n", runtime)
	fmt.Fprintf(&b, "Cycles: %d\n", c.stats.Cycles)
	fmt.Fprintf(&b, "Listings seen: %d\n", c.stats.ListingsSeen)
	fmt.Fprintf(&b, "Dispatched: %d", c.stats.Dispatched)
	for _, e := range c.recent {
		fmt.Fprintf(&b, "\n%s %s", timestampStyle.Render(e.at.Format("15:04:05")), e.line)
	}
	return panelStyle.Render(b.String())
}

// Logging is an app.Reporter that mirrors progress to slog only, for
// non-interactive runs.
type Logging struct {
	logger *slog.Logger
}

// NewLogging creates a log-only reporter.
func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger}
}

func (l *Logging) Status(msg string) {
	l.logger.Info(msg)
}

func (l *Logging) Warn(msg string) {
	l.logger.Warn(msg)
}

func (l *Logging) Activity(result app.DispatchResult) {
	l.logger.Info("dispatched listing",
		"id", result.Listing.ID,
		"detail", result.Listing.Describe(),
		"url", result.Listing.PurchaseURL,
		"opened", result.Opened,
		"notified", result.Notified,
	)
}

func (l *Logging) Cycle(stats app.Stats) {
	l.logger.Debug("cycle complete",
		"cycles", stats.Cycles,
		"listings_seen", stats.ListingsSeen,
		"dispatched", stats.Dispatched,
	)
}
