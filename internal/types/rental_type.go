package types

import "strings"

// RentalType classifies the guaranteed lease. The zero value means unset.
type RentalType string

const (
	// RentalTypeFixed is a lease with fixed monthly rent.
	RentalTypeFixed RentalType = "F"
	// RentalTypeUnique is a single lump-sum lease.
	RentalTypeUnique RentalType = "U"
	// RentalTypeCommercial is a commercial lease.
	RentalTypeCommercial RentalType = "C"
)

// ParseRentalType normalizes raw input to a known rental type.
// Anything other than F, U or C (case-insensitive) yields the unset value.
func ParseRentalType(raw string) RentalType {
	switch rt := RentalType(strings.ToUpper(strings.TrimSpace(raw))); rt {
	case RentalTypeFixed, RentalTypeUnique, RentalTypeCommercial:
		return rt
	default:
		return ""
	}
}

// IsSet reports whether the rental type holds one of the known codes.
func (r RentalType) IsSet() bool {
	return ParseRentalType(string(r)) != ""
}

// Label returns a human-readable name for the rental type.
func (r RentalType) Label() string {
	switch r {
	case RentalTypeFixed:
		return "fijo"
	case RentalTypeUnique:
		return "único"
	case RentalTypeCommercial:
		return "comercial"
	default:
		return "sin definir"
	}
}
