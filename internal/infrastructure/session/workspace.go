package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"pricetable/internal/domain/filter"
	"pricetable/internal/domain/lookup"
	"pricetable/internal/domain/pricetable"
	"pricetable/internal/domain/product"
)

// Workspace is everything one browser tab owns: the product table, its
// filter coordinator, the barcode lookup flow and the field errors the
// lookup reported. Both the search bar and the modal drive the same Lookup.
type Workspace struct {
	ID        string
	CreatedAt time.Time

	Table   *pricetable.Store
	Filters *filter.Coordinator
	Lookup  *lookup.Flow
	Fields  *FieldErrors

	lastUsed atomic.Int64 // Unix timestamp
	refCount atomic.Int32 // Active requests using this workspace
}

// Touch updates last used timestamp.
func (w *Workspace) Touch() {
	w.lastUsed.Store(time.Now().Unix())
}

// LastUsed returns when the workspace was last touched.
func (w *Workspace) LastUsed() time.Time {
	return time.Unix(w.lastUsed.Load(), 0)
}

// AcquireRef increments reference count (for tracking active requests).
func (w *Workspace) AcquireRef() {
	w.refCount.Add(1)
}

// ReleaseRef decrements reference count.
func (w *Workspace) ReleaseRef() {
	w.refCount.Add(-1)
}

// Wait blocks until the table and lookup have no fetch in flight.
func (w *Workspace) Wait() {
	w.Table.Wait()
	w.Lookup.Wait()
}

// FieldErrors collects the violations of the last rejected barcode.
type FieldErrors struct {
	mu         sync.RWMutex
	violations []product.Violation
}

// Compile-time check that FieldErrors implements lookup.FieldErrorReporter.
var _ lookup.FieldErrorReporter = (*FieldErrors)(nil)

// ReportFieldErrors replaces the collected violations.
func (f *FieldErrors) ReportFieldErrors(_ context.Context, violations []product.Violation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.violations = violations
}

// Violations returns a copy of the collected violations.
func (f *FieldErrors) Violations() []product.Violation {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]product.Violation, len(f.violations))
	copy(out, f.violations)
	return out
}

// Clear drops the collected violations.
func (f *FieldErrors) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.violations = nil
}
