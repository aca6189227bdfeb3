package script

import (
	"time"
)

// ErrorType categorizes different types of script errors
type ErrorType string

const (
	ErrorTypeCompilation ErrorType = "compilation"
	ErrorTypeExecution   ErrorType = "execution"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeNotFound    ErrorType = "not_found"
)

// Script represents a script file with metadata
type Script struct {
	Name         string
	Path         string
	Content      string
	LastModified time.Time
	Checksum     string
}

// Output contains the results of script execution
type Output struct {
	Result  any
	Logs    []string
	Metrics ExecutionMetrics
}

// ExecutionMetrics tracks performance and execution data
type ExecutionMetrics struct {
	CompilationTime time.Duration
	ExecutionTime   time.Duration
	Success         bool
}

// SecurityLimits defines resource constraints for script execution
type SecurityLimits struct {
	MaxExecutionTime time.Duration
	AllowedModules   []string
}

// DefaultSecurityLimits provides safe default constraints for script execution
var DefaultSecurityLimits = SecurityLimits{
	MaxExecutionTime: 5 * time.Second,
	AllowedModules: []string{
		"fmt",
		"text",
		"math",
		"rand",
	},
}

// GetDefaultSecurityLimits returns a copy of the default security limits
func GetDefaultSecurityLimits() SecurityLimits {
	limits := DefaultSecurityLimits
	limits.AllowedModules = make([]string, len(DefaultSecurityLimits.AllowedModules))
	copy(limits.AllowedModules, DefaultSecurityLimits.AllowedModules)
	return limits
}

// Error represents script-related errors with context
type Error struct {
	Type      ErrorType
	Script    string
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given parameters
func NewError(errorType ErrorType, scriptName, message string, cause error) *Error {
	return &Error{
		Type:      errorType,
		Script:    scriptName,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}
