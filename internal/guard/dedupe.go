package guard

import (
	"context"
	"sync"
)

// Result is the outcome of a guard check.
type Result struct {
	Allowed bool
	Reason  string
	Guard   string
}

// DedupeGuard deduplicates fraud-alert writes by fingerprint. It is a cheap
// in-process filter in front of the unique index on fraud_alerts(fingerprint);
// the database remains the source of truth across instances.
type DedupeGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewDedupeGuard creates a new in-memory dedupe guard.
func NewDedupeGuard() *DedupeGuard {
	return &DedupeGuard{
		seen: make(map[string]bool),
	}
}

// Check returns whether the given fingerprint has already been processed.
func (g *DedupeGuard) Check(_ context.Context, fingerprint string) Result {
	if fingerprint == "" {
		return Result{Allowed: true}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seen[fingerprint] {
		return Result{
			Allowed: false,
			Reason:  "duplicate alert: fingerprint already processed",
			Guard:   "dedupe",
		}
	}

	g.seen[fingerprint] = true
	return Result{Allowed: true}
}

// Remove deletes a fingerprint from the seen set (for retry scenarios,
// e.g. when the database insert failed after the guard admitted it).
func (g *DedupeGuard) Remove(fingerprint string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, fingerprint)
}
