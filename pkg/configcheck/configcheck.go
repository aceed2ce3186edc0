// Package configcheck derives a node's configuration flags from its config
// map and operator spec. Completeness is presence-based, error flagging is
// value-based; the two are independent and a node can carry both.
package configcheck

import (
	"regexp"

	"github.com/pipestudio/pipestudio/pkg/models"
)

// Secret values must reference a stored secret, never carry plaintext.
var secretRefPattern = regexp.MustCompile(`^\$secret:.+$`)

// Result holds the two derived node flags.
type Result struct {
	IsConfigured bool
	HasErrors    bool
}

// Evaluate computes the configuration flags for a config map against an
// operator spec. IsConfigured is true iff every required field has a
// present, non-empty value. HasErrors is true iff any secret field holds a
// non-empty value that is not a "$secret:<key>" reference. Deeper schema
// validation happens at compile time, not here.
func Evaluate(config map[string]any, spec *models.OperatorSpec) Result {
	result := Result{IsConfigured: true}

	for _, field := range spec.RequiredConfig {
		if !present(config[field.Name]) {
			result.IsConfigured = false

			break
		}
	}

	for _, field := range allFields(spec) {
		if field.FieldType != models.FieldTypeSecret {
			continue
		}

		value, ok := config[field.Name].(string)
		if !ok || value == "" {
			continue
		}

		if !secretRefPattern.MatchString(value) {
			result.HasErrors = true

			break
		}
	}

	return result
}

// ValidSecretRef reports whether a secret value is a well-formed reference.
func ValidSecretRef(value string) bool {
	return secretRefPattern.MatchString(value)
}

func allFields(spec *models.OperatorSpec) []models.ConfigFieldSpec {
	fields := make([]models.ConfigFieldSpec, 0, len(spec.RequiredConfig)+len(spec.OptionalConfig))
	fields = append(fields, spec.RequiredConfig...)
	fields = append(fields, spec.OptionalConfig...)

	return fields
}

// present reports whether a config value counts as filled in. Empty strings
// are absent; zero numbers and false booleans are deliberate values.
func present(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	default:
		return true
	}
}
