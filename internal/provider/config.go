package provider

import (
	"fmt"
	"sort"

	"github.com/oakmere/homebus-core/internal/domain"
)

// ConfigField describes one configuration field a descriptor accepts.
// The ordered field list is the descriptor's configuration schema; it
// both drives configuration surfaces (forms, CLIs) and backs
// ValidateConfig. Field types reuse the domain catalog's fixed type
// enumeration.
type ConfigField struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	Description string           `json:"description,omitempty"`
	Type        domain.FieldType `json:"type"`
	Required    bool             `json:"required"`

	// Secret marks values that must be masked on configuration surfaces
	// (passwords, tokens).
	Secret bool `json:"secret,omitempty"`

	// Default is applied by the factory when the field is absent.
	Default any `json:"default,omitempty"`

	// Min and Max bound number fields; Enum restricts string fields.
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Enum []string `json:"enum,omitempty"`
}

// validateFields checks a raw configuration map against an ordered field
// list and returns human-readable problems. A nil map is treated as
// empty configuration, not an error in itself; missing required fields
// are what get reported. The walk never panics: malformed values are
// themselves problems to report.
func validateFields(fields []ConfigField, cfg map[string]any) []string {
	var problems []string

	known := make(map[string]ConfigField, len(fields))
	for _, f := range fields {
		known[f.Name] = f
	}

	for _, f := range fields {
		value, present := cfg[f.Name]
		if !present || value == nil {
			if f.Required {
				problems = append(problems, fmt.Sprintf("%s is required", f.Name))
			}
			continue
		}
		problems = append(problems, checkFieldValue(f, value)...)
	}

	// Map iteration order is randomised; sort so the same input always
	// yields the same problem list.
	var unknown []string
	for name := range cfg {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		problems = append(problems, fmt.Sprintf("unknown field %q", name))
	}

	return problems
}

// checkFieldValue validates a single present value against its field.
func checkFieldValue(f ConfigField, value any) []string {
	var problems []string

	switch f.Type {
	case domain.FieldBoolean:
		if _, ok := value.(bool); !ok {
			problems = append(problems, fmt.Sprintf("%s must be a boolean", f.Name))
		}

	case domain.FieldNumber:
		n, ok := toFloat(value)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s must be a number", f.Name))
			break
		}
		if f.Min != nil && n < *f.Min {
			problems = append(problems, fmt.Sprintf("%s must be at least %v", f.Name, *f.Min))
		}
		if f.Max != nil && n > *f.Max {
			problems = append(problems, fmt.Sprintf("%s must be at most %v", f.Name, *f.Max))
		}

	case domain.FieldString:
		s, ok := value.(string)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s must be a string", f.Name))
			break
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			problems = append(problems, fmt.Sprintf("%s must be one of %v", f.Name, f.Enum))
		}

	case domain.FieldObject:
		switch value.(type) {
		case map[string]any, []any:
		default:
			problems = append(problems, fmt.Sprintf("%s must be a structured value", f.Name))
		}
	}

	return problems
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// toFloat normalises the numeric types YAML and JSON decoding produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
