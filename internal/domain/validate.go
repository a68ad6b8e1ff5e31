package domain

import "fmt"

// ValidatePayload checks a command payload against the domain's command
// fields. Unknown fields, type mismatches, and numeric values outside a
// declared range are rejected. This is the command-issuing layer's guard;
// providers receive only payloads that passed it.
//
// Note the asymmetry with reported state: extra state fields are tolerated
// (providers may report more than the schema declares), command payloads
// are not.
func ValidatePayload(d Domain, payload map[string]any) error {
	if d.ReadOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnlyDomain, d.Name)
	}

	for name, value := range payload {
		spec, ok := d.CommandFields[name]
		if !ok {
			return fmt.Errorf("%w: %q is not a command field of domain %s", ErrUnknownField, name, d.Name)
		}
		if err := checkValue(name, spec, value); err != nil {
			return err
		}
	}
	return nil
}

// checkValue validates a single value against its field spec.
func checkValue(name string, spec FieldSpec, value any) error {
	switch spec.Type {
	case FieldBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %q must be a boolean", ErrInvalidFieldType, name)
		}

	case FieldNumber:
		n, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("%w: %q must be a number", ErrInvalidFieldType, name)
		}
		if spec.Min != nil && n < *spec.Min {
			return fmt.Errorf("%w: %q = %v is below minimum %v", ErrFieldOutOfRange, name, n, *spec.Min)
		}
		if spec.Max != nil && n > *spec.Max {
			return fmt.Errorf("%w: %q = %v is above maximum %v", ErrFieldOutOfRange, name, n, *spec.Max)
		}

	case FieldString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: %q must be a string", ErrInvalidFieldType, name)
		}

	case FieldObject:
		switch value.(type) {
		case map[string]any, []any:
		default:
			return fmt.Errorf("%w: %q must be a structured value", ErrInvalidFieldType, name)
		}
	}

	return nil
}

// toFloat normalises the numeric types JSON and YAML decoding produce.
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
