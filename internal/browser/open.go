// Package browser presents purchase URLs to the operator by opening
// them in the system browser.
package browser

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Opener launches the platform URL handler. In headless mode the URL
// is logged instead of opened, so the monitor stays usable on machines
// without a display.
type Opener struct {
	headless bool
	logger   *slog.Logger

	// run is swapped in tests.
	run func(name string, args ...string) error
}

// New creates an opener.
func New(headless bool, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		headless: headless,
		logger:   logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open presents the URL for immediate human action.
func (o *Opener) Open(url string) error {
	if o.headless {
		o.logger.Info("headless mode, not opening browser", "url", url)
		return nil
	}

	name, args := openCommand(url)
	if name == "" {
		return fmt.Errorf("no browser opener for %s", runtime.GOOS)
	}
	if err := o.run(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func openCommand(url string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "linux":
		return "xdg-open", []string{url}
	default:
		return "", nil
	}
}
