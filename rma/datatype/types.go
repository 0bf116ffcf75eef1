package datatype

import (
	"fmt"
	"strings"
)

// Datatype tags an accumulate element type.
type Datatype int

// Values match the ARMCI_ACC_* tags so numeric tags pass through unchanged.
const (
	AccInt      Datatype = -1
	AccDouble   Datatype = -3
	AccFloat    Datatype = -4
	AccComplex  Datatype = -5
	AccDComplex Datatype = -6
	AccLong     Datatype = -7
)

var names = map[Datatype]string{
	AccInt:      "int",
	AccLong:     "long",
	AccFloat:    "float",
	AccDouble:   "double",
	AccComplex:  "complex",
	AccDComplex: "dcomplex",
}

var aliases = map[string]Datatype{
	"int": AccInt, "i32": AccInt, "acc_int": AccInt,
	"long": AccLong, "lng": AccLong, "i64": AccLong, "acc_lng": AccLong,
	"float": AccFloat, "flt": AccFloat, "f32": AccFloat, "acc_flt": AccFloat,
	"double": AccDouble, "dbl": AccDouble, "f64": AccDouble, "acc_dbl": AccDouble,
	"complex": AccComplex, "cpl": AccComplex, "c64": AccComplex, "acc_cpl": AccComplex,
	"dcomplex": AccDComplex, "dcp": AccDComplex, "c128": AccDComplex, "acc_dcp": AccDComplex,
}

func (d Datatype) String() string {
	if n, ok := names[d]; ok {
		return n
	}
	return fmt.Sprintf("Datatype(%d)", int(d))
}

// Valid reports whether d is one of the six supported tags.
func (d Datatype) Valid() bool {
	_, ok := names[d]
	return ok
}

// Width returns the byte width of one element of d, or 0 for an unknown tag.
func Width(d Datatype) int {
	switch d {
	case AccInt, AccFloat:
		return 4
	case AccLong, AccDouble, AccComplex:
		return 8
	case AccDComplex:
		return 16
	default:
		return 0
	}
}

// ParseDatatype resolves a tag name such as "dbl" or "dcomplex".
func ParseDatatype(s string) (Datatype, error) {
	if d, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDatatype, s)
}
