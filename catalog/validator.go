package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// namePattern defines valid signal names: dotted, lowercase segments that may
// contain digits and underscores after the leading letter.
// Examples: room.message.posted, sensor.reading, door.opened
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)

// ownerPattern defines valid owner names: a single lowercase identifier.
var ownerPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// configValidator is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var configValidator = validator.New()

// init registers custom validation functions with the validator instance.
func init() {
	_ = configValidator.RegisterValidation("signalname", validateSignalName)
	_ = configValidator.RegisterValidation("ownername", validateOwnerName)
}

// validateSignalName backs the "signalname" struct tag on Config.
func validateSignalName(fl validator.FieldLevel) bool {
	return namePattern.MatchString(fl.Field().String())
}

// validateOwnerName backs the "ownername" struct tag on Config.
func validateOwnerName(fl validator.FieldLevel) bool {
	return ownerPattern.MatchString(fl.Field().String())
}

// Validator provides validation for signal declarations and names.
type Validator struct{}

// NewValidator creates a new declaration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition validates a complete signal declaration
func (v *Validator) ValidateDefinition(decl Declaration) error {
	if decl == nil {
		return fmt.Errorf("declaration cannot be nil")
	}

	if err := v.ValidateName(decl.Name()); err != nil {
		return fmt.Errorf("invalid signal name: %w", err)
	}

	if strings.TrimSpace(decl.Description()) == "" {
		return fmt.Errorf("signal description cannot be empty")
	}

	if strings.TrimSpace(decl.Payload()) == "" {
		return fmt.Errorf("signal payload type cannot be empty")
	}

	if owner := decl.Owner(); owner != "" {
		if err := v.validateOwner(owner); err != nil {
			return fmt.Errorf("invalid owner: %w", err)
		}
	}

	return nil
}

// ValidateConfig validates a Config via its struct tags before a declaration
// is created from it.
func (v *Validator) ValidateConfig(config Config) error {
	if err := configValidator.Struct(config); err != nil {
		return fmt.Errorf("invalid signal config: %w", err)
	}
	// Struct tags cannot see across fields; the reserved-prefix rule needs
	// the full name.
	return v.ValidateName(config.Name)
}

// ValidateName checks if a signal name follows the naming convention
func (v *Validator) ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if len(name) > 100 {
		return fmt.Errorf("name too long (max 100 characters)")
	}

	if !namePattern.MatchString(name) {
		return fmt.Errorf("name must follow pattern: owner.subject.event (lowercase, alphanumeric, dots only)")
	}

	// Check for reserved prefixes
	reservedPrefixes := []string{"system.", "internal.", "debug."}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return fmt.Errorf("name cannot start with reserved prefix: %s", prefix)
		}
	}

	return nil
}

// validateOwner validates an owner name
func (v *Validator) validateOwner(owner string) error {
	if len(owner) > 50 {
		return fmt.Errorf("owner name too long (max 50 characters)")
	}

	if !ownerPattern.MatchString(owner) {
		return fmt.Errorf("owner name must be lowercase alphanumeric with underscores")
	}

	return nil
}
