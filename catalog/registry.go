package catalog

import (
	"fmt"
	"sync"
	"time"
)

// Registry manages the collection of registered signal declarations with
// metadata.
type Registry struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

// NewRegistry creates a new declaration registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Register adds a declaration to the registry
func (r *Registry) Register(decl Declaration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if decl == nil {
		return &Error{
			Type:    ErrorValidationFailed,
			Message: "cannot register nil declaration",
		}
	}

	name := decl.Name()
	if name == "" {
		return &Error{
			Type:    ErrorValidationFailed,
			Signal:  name,
			Message: "signal name cannot be empty",
		}
	}

	// Check for duplicate registration
	if _, exists := r.entries[name]; exists {
		return &Error{
			Type:    ErrorDuplicateRegistration,
			Signal:  name,
			Owner:   decl.Owner(),
			Message: fmt.Sprintf("signal already declared: %s", name),
		}
	}

	r.entries[name] = &Entry{
		Declaration:  decl,
		RegisteredAt: time.Now(),
		Owner:        decl.Owner(),
		UsageCount:   0,
	}
	return nil
}

// Get retrieves a declaration by name
func (r *Registry) Get(name string) (Declaration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return nil, false
	}

	// Increment usage count outside the read lock
	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if entry, exists := r.entries[name]; exists {
			entry.UsageCount++
		}
	}()

	return entry.Declaration, true
}

// GetEntry retrieves a registry entry by signal name
func (r *Registry) GetEntry(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return nil, false
	}

	// Return a copy to prevent external modification
	entryCopy := &Entry{
		Declaration:  entry.Declaration,
		RegisteredAt: entry.RegisteredAt,
		Owner:        entry.Owner,
		UsageCount:   entry.UsageCount,
	}

	return entryCopy, true
}

// List returns all registered declarations
func (r *Registry) List() []Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decls := make([]Declaration, 0, len(r.entries))
	for _, entry := range r.entries {
		decls = append(decls, entry.Declaration)
	}
	return decls
}

// ListByOwner returns declarations for a specific owner
func (r *Registry) ListByOwner(owner string) []Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var decls []Declaration
	for _, entry := range r.entries {
		if entry.Owner == owner {
			decls = append(decls, entry.Declaration)
		}
	}
	return decls
}

// Count returns the number of registered declarations
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Reset removes all registered declarations (primarily for testing)
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]*Entry)
}

// GetStats returns registry statistics
func (r *Registry) GetStats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		TotalSignals:   len(r.entries),
		OwnerBreakdown: make(map[string]int),
	}

	for _, entry := range r.entries {
		if entry.Owner != "" {
			stats.OwnerBreakdown[entry.Owner]++
		}
	}

	return stats
}

// RegistryStats provides statistics about the registry
type RegistryStats struct {
	TotalSignals   int            `json:"total_signals"`
	OwnerBreakdown map[string]int `json:"owner_breakdown"`
}
