package catalog

import (
	"fmt"
	"strings"
	"sync"
)

// Manager provides the main API for the signal catalog, pairing a registry
// with a validator.
type Manager struct {
	registry  *Registry
	validator *Validator
}

// NewManager creates a new catalog manager with registry and validator
func NewManager() *Manager {
	return &Manager{
		registry:  NewRegistry(),
		validator: NewValidator(),
	}
}

// NewDeclaration creates a typed declaration from a config. The declaration
// is validated at registration, not here.
func NewDeclaration(config Config) Declaration {
	return &TypedDeclaration{
		name:        config.Name,
		owner:       config.Owner,
		description: config.Description,
		payload:     config.Payload,
		example:     config.Example,
		metadata:    config.Metadata,
	}
}

// Register validates a declaration and adds it to the catalog
func (m *Manager) Register(decl Declaration) error {
	if err := m.validator.ValidateDefinition(decl); err != nil {
		name, owner := "", ""
		if decl != nil {
			name, owner = decl.Name(), decl.Owner()
		}
		return &Error{
			Type:    ErrorValidationFailed,
			Signal:  name,
			Owner:   owner,
			Message: "signal validation failed",
			Cause:   err,
		}
	}

	return m.registry.Register(decl)
}

// MustRegister registers a declaration and panics on error. Declarations are
// normally package-level vars, so a bad one should stop the program at init.
func (m *Manager) MustRegister(decl Declaration) {
	if err := m.Register(decl); err != nil {
		panic(fmt.Sprintf("failed to register signal %s: %v", decl.Name(), err))
	}
}

// Get retrieves a declaration by name
func (m *Manager) Get(name string) (Declaration, bool) {
	return m.registry.Get(name)
}

// GetEntry retrieves a registry entry, with bookkeeping metadata, by name
func (m *Manager) GetEntry(name string) (*Entry, bool) {
	return m.registry.GetEntry(name)
}

// Lookup retrieves a declaration by name, returning a structured error when
// it is not declared.
func (m *Manager) Lookup(name string) (Declaration, error) {
	decl, ok := m.registry.Get(name)
	if !ok {
		return nil, &Error{
			Type:    ErrorSignalNotFound,
			Signal:  name,
			Message: fmt.Sprintf("signal not declared: %s", name),
		}
	}
	return decl, nil
}

// List returns all registered declarations
func (m *Manager) List() []Declaration {
	return m.registry.List()
}

// ListByOwner returns declarations for a specific owner
func (m *Manager) ListByOwner(owner string) []Declaration {
	return m.registry.ListByOwner(owner)
}

// ListOwners returns all unique owner names that have declared signals
func (m *Manager) ListOwners() []string {
	ownerSet := make(map[string]bool)
	for _, decl := range m.registry.List() {
		if decl.Owner() != "" {
			ownerSet[decl.Owner()] = true
		}
	}

	owners := make([]string, 0, len(ownerSet))
	for owner := range ownerSet {
		owners = append(owners, owner)
	}
	return owners
}

// ListByPrefix returns declarations whose names start with the given prefix
func (m *Manager) ListByPrefix(prefix string) []Declaration {
	var matches []Declaration
	for _, decl := range m.registry.List() {
		if strings.HasPrefix(decl.Name(), prefix) {
			matches = append(matches, decl)
		}
	}
	return matches
}

// Find searches for declarations matching a pattern. A trailing * matches
// any suffix; a bare * matches everything.
func (m *Manager) Find(pattern string) []Declaration {
	var matches []Declaration
	for _, decl := range m.registry.List() {
		if matchesPattern(decl.Name(), pattern) {
			matches = append(matches, decl)
		}
	}
	return matches
}

// ValidateName checks if a signal name is valid without declaring it
func (m *Manager) ValidateName(name string) error {
	if err := m.validator.ValidateName(name); err != nil {
		return &Error{
			Type:    ErrorInvalidName,
			Signal:  name,
			Message: "invalid signal name",
			Cause:   err,
		}
	}
	return nil
}

// ValidateConfig validates a declaration config before creating it
func (m *Manager) ValidateConfig(config Config) error {
	if err := m.validator.ValidateConfig(config); err != nil {
		return &Error{
			Type:    ErrorValidationFailed,
			Signal:  config.Name,
			Owner:   config.Owner,
			Message: "signal config validation failed",
			Cause:   err,
		}
	}
	return nil
}

// Count returns the total number of registered declarations
func (m *Manager) Count() int {
	return m.registry.Count()
}

// Stats returns catalog statistics
func (m *Manager) Stats() RegistryStats {
	return m.registry.GetStats()
}

// Reset removes all registered declarations (primarily for testing)
func (m *Manager) Reset() {
	m.registry.Reset()
}

// matchesPattern performs simple pattern matching with a trailing wildcard.
func matchesPattern(name, pattern string) bool {
	if pattern == "*" {
		return true
	}

	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, "*"))
	}

	return name == pattern
}

// Global manager instance
var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// Default returns the default global catalog
func Default() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// Package-level convenience functions that use the default catalog

// Register registers a declaration with the default catalog
func Register(decl Declaration) error {
	return Default().Register(decl)
}

// MustRegister registers a declaration with the default catalog and panics
// on error
func MustRegister(decl Declaration) {
	Default().MustRegister(decl)
}

// Get retrieves a declaration from the default catalog
func Get(name string) (Declaration, bool) {
	return Default().Get(name)
}

// Lookup retrieves a declaration from the default catalog with a structured
// not-found error
func Lookup(name string) (Declaration, error) {
	return Default().Lookup(name)
}

// List returns all declarations from the default catalog
func List() []Declaration {
	return Default().List()
}

// ListByOwner returns declarations for an owner from the default catalog
func ListByOwner(owner string) []Declaration {
	return Default().ListByOwner(owner)
}

// ListOwners returns all owner names from the default catalog
func ListOwners() []string {
	return Default().ListOwners()
}

// ListByPrefix returns declarations by name prefix from the default catalog
func ListByPrefix(prefix string) []Declaration {
	return Default().ListByPrefix(prefix)
}

// Find searches the default catalog for declarations matching a pattern
func Find(pattern string) []Declaration {
	return Default().Find(pattern)
}

// ValidateName checks a signal name against the default catalog's rules
func ValidateName(name string) error {
	return Default().ValidateName(name)
}

// ValidateConfig validates a config against the default catalog's rules
func ValidateConfig(config Config) error {
	return Default().ValidateConfig(config)
}

// Count returns the number of declarations in the default catalog
func Count() int {
	return Default().Count()
}

// Stats returns statistics for the default catalog
func Stats() RegistryStats {
	return Default().Stats()
}
