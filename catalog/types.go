package catalog

import (
	"time"
)

// Declaration describes one declared signal: its identity and documentation,
// independent of any live connection.
type Declaration interface {
	// Name returns the unique dotted identifier for this signal
	Name() string

	// Owner returns the component that owns this signal (empty when the name
	// has no owning prefix)
	Owner() string

	// Description returns human-readable documentation
	Description() string

	// Payload returns the name of the payload type the signal carries
	Payload() string

	// Example returns a usage example
	Example() string

	// Metadata returns additional declaration information
	Metadata() map[string]any
}

// TypedDeclaration is the standard Declaration implementation built from a
// Config.
type TypedDeclaration struct {
	name        string
	owner       string
	description string
	payload     string
	example     string
	metadata    map[string]any
}

// Compile-time interface compliance check
var _ Declaration = (*TypedDeclaration)(nil)

// Config holds configuration for creating a new signal declaration. The
// validate tags are checked by ValidateConfig.
type Config struct {
	Name        string         `json:"name" validate:"required,signalname"`        // Unique dotted identifier
	Owner       string         `json:"owner" validate:"omitempty,ownername"`       // Owning component (empty for unscoped signals)
	Description string         `json:"description" validate:"required"`            // Human-readable description
	Payload     string         `json:"payload" validate:"required"`                // Payload type name
	Example     string         `json:"example,omitempty"`                          // Usage example
	Metadata    map[string]any `json:"metadata,omitempty"`                         // Additional data
}

// Entry represents a declaration in the registry with bookkeeping metadata.
type Entry struct {
	Declaration  Declaration `json:"declaration"`
	RegisteredAt time.Time   `json:"registered_at"`
	Owner        string      `json:"owner"`
	UsageCount   int64       `json:"usage_count"`
}

// Error represents structured errors in the signal catalog.
type Error struct {
	Type    ErrorType `json:"type"`
	Signal  string    `json:"signal"`
	Owner   string    `json:"owner"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// ErrorType defines the type of catalog error
type ErrorType string

const (
	ErrorSignalNotFound        ErrorType = "signal_not_found"
	ErrorDuplicateRegistration ErrorType = "duplicate_registration"
	ErrorInvalidName           ErrorType = "invalid_name"
	ErrorValidationFailed      ErrorType = "validation_failed"
)

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Implementation of Declaration for TypedDeclaration

// Name returns the declaration's unique identifier
func (d *TypedDeclaration) Name() string {
	return d.name
}

// Owner returns the component that owns this signal
func (d *TypedDeclaration) Owner() string {
	return d.owner
}

// Description returns human-readable documentation
func (d *TypedDeclaration) Description() string {
	return d.description
}

// Payload returns the name of the payload type the signal carries
func (d *TypedDeclaration) Payload() string {
	return d.payload
}

// Example returns a usage example
func (d *TypedDeclaration) Example() string {
	return d.example
}

// Metadata returns additional declaration information
func (d *TypedDeclaration) Metadata() map[string]any {
	if d.metadata == nil {
		return make(map[string]any)
	}
	// Return a copy to prevent external modification
	result := make(map[string]any, len(d.metadata))
	for k, v := range d.metadata {
		result[k] = v
	}
	return result
}

// String returns the declaration name for easy debugging
func (d *TypedDeclaration) String() string {
	return d.name
}
