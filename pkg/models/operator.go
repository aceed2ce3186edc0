package models

// FieldType enumerates the kinds of values a configuration field accepts.
type FieldType string

const (
	FieldTypeString      FieldType = "string"
	FieldTypeInteger     FieldType = "integer"
	FieldTypeFloat       FieldType = "float"
	FieldTypeBoolean     FieldType = "boolean"
	FieldTypeSecret      FieldType = "secret"
	FieldTypeSelect      FieldType = "select"
	FieldTypeModelSelect FieldType = "model_select"
	FieldTypeText        FieldType = "text"
)

// ConfigFieldSpec describes a single configuration field of an operator.
// Instances are supplied by the catalog and never mutated.
type ConfigFieldSpec struct {
	Name       string    `json:"name"              validate:"required"`
	FieldType  FieldType `json:"field_type"        validate:"required"`
	Required   bool      `json:"required"`
	Default    any       `json:"default,omitempty"`
	Options    []string  `json:"options,omitempty"`
	Capability string    `json:"capability,omitempty"`
}

// OperatorSpec is the full configuration contract for one operator kind.
type OperatorSpec struct {
	OperatorID     string            `json:"operator_id" validate:"required"`
	Category       Category          `json:"category"    validate:"required"`
	Version        string            `json:"version"`
	InputType      DataType          `json:"input_type"  validate:"required"`
	OutputType     DataType          `json:"output_type" validate:"required"`
	RequiredConfig []ConfigFieldSpec `json:"required_config"`
	OptionalConfig []ConfigFieldSpec `json:"optional_config"`
}

// ConfigSchema renders the spec as a JSON Schema document for deep
// validation of node configuration at compile time.
func (s *OperatorSpec) ConfigSchema() map[string]any {
	properties := make(map[string]any)
	required := make([]string, 0, len(s.RequiredConfig))

	for _, field := range s.RequiredConfig {
		properties[field.Name] = field.schemaProperty()
		required = append(required, field.Name)
	}

	for _, field := range s.OptionalConfig {
		properties[field.Name] = field.schemaProperty()
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

func (f ConfigFieldSpec) schemaProperty() map[string]any {
	prop := map[string]any{}

	switch f.FieldType {
	case FieldTypeInteger:
		prop["type"] = "integer"
	case FieldTypeFloat:
		prop["type"] = "number"
	case FieldTypeBoolean:
		prop["type"] = "boolean"
	case FieldTypeSelect, FieldTypeModelSelect:
		prop["type"] = "string"

		if len(f.Options) > 0 {
			enum := make([]any, len(f.Options))
			for i, opt := range f.Options {
				enum[i] = opt
			}

			prop["enum"] = enum
		}
	case FieldTypeString, FieldTypeSecret, FieldTypeText:
		prop["type"] = "string"
	default:
		prop["type"] = "string"
	}

	if f.Default != nil {
		prop["default"] = f.Default
	}

	return prop
}

// CatalogEntry is one operator as listed in the palette, grouped by category.
type CatalogEntry struct {
	OperatorID  string   `json:"operator_id"  validate:"required"`
	Category    Category `json:"category"     validate:"required"`
	DisplayName string   `json:"display_name" validate:"required,min=1"`
	InputType   DataType `json:"input_type"   validate:"required"`
	OutputType  DataType `json:"output_type"  validate:"required"`
	Dimension   *int     `json:"dimension,omitempty"` // Embedding dimension, embedders only
}
