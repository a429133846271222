package app

import "sync"

// Ledger records listing ids that have already been dispatched,
// enforcing at-most-once action per id for the process lifetime. It
// only grows: a sold-then-relisted id stays suppressed. Safe for
// concurrent use; the check-and-insert is a single atomic step so two
// workers can never both admit the same id.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// Admit returns true and records id the first time it is seen, false
// on every later call with the same id.
func (l *Ledger) Admit(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[id]; ok {
		return false
	}
	l.seen[id] = struct{}{}
	return true
}

// Len reports how many ids have been admitted.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
