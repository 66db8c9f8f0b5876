package errormap

import (
	"fmt"
	"sync"
)

// Entry is a declarative mapping rule from a downstream error code to an
// HTTP error. The same gateway action can fail for many domain-specific
// reasons, so an operation usually registers several entries.
type Entry struct {
	// Code is the downstream domain error code.
	Code string

	// Status is the HTTP status to return.
	Status int

	// Message is the user-facing message. When empty, the code itself is
	// used.
	Message string
}

// tableKey identifies one mapping rule.
type tableKey struct {
	operation string
	code      string
}

// Table holds the mapping entries for all operations. It is safe for
// concurrent use; route registration writes it at startup and on config
// reload, requests only read it.
type Table struct {
	mu      sync.RWMutex
	entries map[tableKey]Entry
}

// NewTable creates an empty mapping table.
func NewTable() *Table {
	return &Table{
		entries: make(map[tableKey]Entry),
	}
}

// Register adds mapping entries for an operation. Exactly one entry may
// exist per (operation, code) pair; duplicates are rejected.
func (t *Table) Register(operation string, entries ...Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range entries {
		if e.Code == "" {
			return fmt.Errorf("operation %s: mapping entry with empty code", operation)
		}
		if e.Status == 0 {
			return fmt.Errorf("operation %s: mapping entry %s with no status", operation, e.Code)
		}
		key := tableKey{operation: operation, code: e.Code}
		if _, exists := t.entries[key]; exists {
			return fmt.Errorf("operation %s: duplicate mapping entry for code %s", operation, e.Code)
		}
		t.entries[key] = e
	}

	return nil
}

// MustRegister adds mapping entries and panics on conflict. Intended for
// static route tables built at startup.
func (t *Table) MustRegister(operation string, entries ...Entry) {
	if err := t.Register(operation, entries...); err != nil {
		panic(err)
	}
}

// Lookup returns the entry for an (operation, code) pair.
func (t *Table) Lookup(operation, code string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[tableKey{operation: operation, code: code}]
	return e, ok
}

// Len returns the number of registered entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
