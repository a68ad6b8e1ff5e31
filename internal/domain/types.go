package domain

// FieldType identifies the wire type of a state, command, or query field.
type FieldType string

// FieldType constants. This enumeration is fixed; schemas must not invent
// new type tags.
const (
	FieldBoolean FieldType = "boolean"
	FieldNumber  FieldType = "number"
	FieldString  FieldType = "string"
	FieldObject  FieldType = "object"
)

// AllFieldTypes returns all valid field type values.
func AllFieldTypes() []FieldType {
	return []FieldType{FieldBoolean, FieldNumber, FieldString, FieldObject}
}

// FieldSpec describes a single named field in a schema.
type FieldSpec struct {
	Type        FieldType `json:"type"`
	Description string    `json:"description,omitempty"`

	// Min and Max bound numeric fields. Nil means unbounded on that side.
	// Ignored for non-number types.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// FieldSchema maps field names to their specifications.
type FieldSchema map[string]FieldSpec

// QuerySpec is the optional range-query extension for domains whose state
// is a time-ranged collection (calendar entries, log windows) rather than
// a flat snapshot.
type QuerySpec struct {
	Params      FieldSchema `json:"params"`
	ItemFields  FieldSchema `json:"item_fields"`
	Description string      `json:"description,omitempty"`
}

// Domain is a named capability schema.
//
// Instances are defined in catalog.go and must be treated as read-only;
// the maps and slices they carry are shared across the process.
type Domain struct {
	Name          string      `json:"name"`
	DisplayName   string      `json:"display_name"`
	StateFields   FieldSchema `json:"state_fields"`
	CommandFields FieldSchema `json:"command_fields"`
	Features      []string    `json:"features,omitempty"`
	Roles         []string    `json:"roles,omitempty"`
	Query         *QuerySpec  `json:"query,omitempty"`
}

// ReadOnly reports whether the domain accepts no commands.
func (d Domain) ReadOnly() bool {
	return len(d.CommandFields) == 0
}

// Queryable reports whether the domain exposes the range-query extension.
func (d Domain) Queryable() bool {
	return d.Query != nil
}

// HasFeature reports whether the domain declares the given feature tag.
func (d Domain) HasFeature(feature string) bool {
	for _, f := range d.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// HasRole reports whether the domain declares the given role tag.
func (d Domain) HasRole(role string) bool {
	for _, r := range d.Roles {
		if r == role {
			return true
		}
	}
	return false
}
