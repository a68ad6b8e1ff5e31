// Package domain provides the Property Domain Catalog for Homebus Core.
//
// A property domain is a named capability schema shared by a class of
// devices: which state fields they report, which command payload fields
// they accept, and which feature and role tags they may advertise. The
// catalog is assembled once at process start and is immutable afterwards,
// so lookups are safe for unsynchronised concurrent reads.
//
// # Key Types
//
//   - Domain: a named schema (state fields, command fields, features, roles)
//   - FieldSpec: the type, description, and optional numeric range of a field
//   - QuerySpec: the range-query extension for collection-shaped domains
//
// Domains with an empty CommandFields map are read-only (pure sensors).
// Domains carrying a QuerySpec expose a secondary read contract: a
// time-ranged query returning items shaped by QuerySpec.ItemFields, in
// addition to the flat state snapshot.
//
// # Usage
//
//	water, ok := domain.Get("water")
//	if !ok {
//	    return fmt.Errorf("unknown domain")
//	}
//	if err := domain.ValidatePayload(water, params); err != nil {
//	    // reject command before it reaches a provider
//	}
package domain
