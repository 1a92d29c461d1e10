package registry

import (
	"fmt"
	"strconv"
	"strings"

	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
)

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindURL      FieldKind = "url"
	KindEmail    FieldKind = "email"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindNumber   FieldKind = "number"
	KindColor    FieldKind = "color"
	KindImage    FieldKind = "image"
)

type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldDescriptor struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Kind        FieldKind      `json:"kind"`
	Options     []SelectOption `json:"options,omitempty"`
	Default     interface{}    `json:"default,omitempty"`
	Min         *float64       `json:"min,omitempty"`
	Max         *float64       `json:"max,omitempty"`
	Step        *float64       `json:"step,omitempty"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required,omitempty"`
}

// Registry maps a widget type to its ordered settings schema. It is a plain
// constructed object so tests can register fake widget types without touching
// the builtin catalog.
type Registry struct {
	types map[string][]FieldDescriptor
	names []string
}

// New returns a registry seeded with the builtin widget catalog.
func New() *Registry {
	r := NewEmpty()
	for _, entry := range builtinCatalog {
		r.Register(entry.name, entry.fields)
	}
	return r
}

func NewEmpty() *Registry {
	return &Registry{types: make(map[string][]FieldDescriptor)}
}

func (r *Registry) Register(widgetType string, fields []FieldDescriptor) {
	key := strings.TrimSpace(widgetType)
	if key == "" {
		return
	}
	if _, exists := r.types[key]; !exists {
		r.names = append(r.names, key)
	}
	r.types[key] = fields
}

func (r *Registry) Has(widgetType string) bool {
	_, ok := r.types[widgetType]
	return ok
}

// Types returns registered widget type names in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Registry) Fields(widgetType string) ([]FieldDescriptor, error) {
	fields, ok := r.types[widgetType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErr.ErrUnknownWidgetType, widgetType)
	}
	out := make([]FieldDescriptor, len(fields))
	copy(out, fields)
	return out, nil
}

// Defaults returns the declared default for every field that has one. Defaults
// are applied at render time only; stored settings never bake them in.
func (r *Registry) Defaults(widgetType string) (map[string]interface{}, error) {
	fields, ok := r.types[widgetType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErr.ErrUnknownWidgetType, widgetType)
	}
	defaults := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		if field.Default != nil {
			defaults[field.Name] = field.Default
		}
	}
	return defaults, nil
}

// CoerceSettings validates raw form input against the widget type's schema.
// Declared fields present in the input are coerced per their kind; undeclared
// keys are dropped; declared fields absent from the input stay absent.
func (r *Registry) CoerceSettings(widgetType string, raw map[string]interface{}) (map[string]interface{}, error) {
	fields, ok := r.types[widgetType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErr.ErrUnknownWidgetType, widgetType)
	}
	settings := make(map[string]interface{})
	for _, field := range fields {
		value, present := raw[field.Name]
		if !present {
			continue
		}
		coerced, ok := coerceValue(field, value)
		if !ok {
			continue
		}
		settings[field.Name] = coerced
	}
	return settings, nil
}

func coerceValue(field FieldDescriptor, value interface{}) (interface{}, bool) {
	switch field.Kind {
	case KindCheckbox:
		return coerceBool(value), true
	case KindNumber:
		number, ok := coerceNumber(value)
		if !ok {
			return nil, false
		}
		if field.Min != nil && number < *field.Min {
			number = *field.Min
		}
		if field.Max != nil && number > *field.Max {
			number = *field.Max
		}
		return number, true
	default:
		return coerceString(value), true
	}
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		return lower == "1" || lower == "true" || lower == "on" || lower == "yes"
	default:
		return false
	}
}

func coerceNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}
