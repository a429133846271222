package console

import (
	"strings"
	"testing"
	"time"

	"github.com/ZTwicket/Twicketer/internal/app"
	"github.com/ZTwicket/Twicketer/internal/clock"
	"github.com/ZTwicket/Twicketer/internal/domain"
)

func TestConsole(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 19, 30, 0, 0, time.UTC)

	t.Run("status lines carry timestamp and message", func(t *testing.T) {
		var out strings.Builder
		c := New(&out, clock.NewFixed(now))

		c.Status("3 listing(s) found")

		got := out.String()
		if !strings.Contains(got, "19:30:00") {
			t.Fatalf("expected timestamp in output, got %q", got)
		}
		if !strings.Contains(got, "3 listing(s) found") {
			t.Fatalf("expected message in output, got %q", got)
		}
	})

	t.Run("activity includes listing details and link", func(t *testing.T) {
		var out strings.Builder
		c := New(&out, clock.NewFixed(now))

		c.Activity(app.DispatchResult{
			Listing: domain.Listing{
				ID:          "B1",
				SeatCount:   2,
				Price:       4500,
				Section:     "A1",
				Row:         "5",
				PurchaseURL: "https://example.test/app/block/B1,2",
				Available:   true,
			},
			Notified: true,
			Opened:   true,
		})

		got := out.String()
		for _, want := range []string{"A1", "£45.00", "https://example.test/app/block/B1,2"} {
			if !strings.Contains(got, want) {
				t.Fatalf("expected %q in activity line, got %q", want, got)
			}
		}
	})

	t.Run("summary reports counters and bounds the status ring", func(t *testing.T) {
		var out strings.Builder
		c := New(&out, clock.NewFixed(now))

		for i := 0; i < recentEntries+5; i++ {
			c.Status("tick")
		}
		c.Cycle(app.Stats{
			StartedAt:    now.Add(-90 * time.Second),
			Cycles:       12,
			ListingsSeen: 34,
			Dispatched:   2,
		})

		summary := c.Summary()
		for _, want := range []string{"1m30s", "12", "34", "2"} {
			if !strings.Contains(summary, want) {
				t.Fatalf("expected %q in summary, got %q", want, summary)
			}
		}
		if got := strings.Count(summary, "tick"); got != recentEntries {
			t.Fatalf("expected %d recent entries, got %d", recentEntries, got)
		}
	})
}
