package domain

import "errors"

// Domain errors for the domain package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, domain.ErrFieldOutOfRange) {
//	    // reject with a range message
//	}
var (
	// ErrReadOnlyDomain is returned when a command payload is validated
	// against a domain that declares no command fields.
	ErrReadOnlyDomain = errors.New("domain: read-only domain accepts no commands")

	// ErrUnknownField is returned when a payload carries a field the
	// schema does not declare.
	ErrUnknownField = errors.New("domain: unknown field")

	// ErrInvalidFieldType is returned when a payload value does not match
	// the declared field type.
	ErrInvalidFieldType = errors.New("domain: invalid field type")

	// ErrFieldOutOfRange is returned when a numeric value falls outside
	// the declared [min, max] bounds.
	ErrFieldOutOfRange = errors.New("domain: field out of range")
)
