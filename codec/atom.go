package codec

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Coords is a point in the structure's coordinate frame.
type Coords struct {
	X, Y, Z float64
}

// Atom is either a named atom ("CA", "NZ") or, for pseudo-atoms such as ring
// centroids, the coordinates of the point.
type Atom struct {
	name     string
	coords   Coords
	isCoords bool
}

// AtomName builds a named atom.
func AtomName(name string) Atom { return Atom{name: name} }

// AtomCoords builds a coordinate atom.
func AtomCoords(x, y, z float64) Atom {
	return Atom{coords: Coords{X: x, Y: y, Z: z}, isCoords: true}
}

// Name returns the atom name when the atom is named.
func (a Atom) Name() (string, bool) { return a.name, !a.isCoords }

// Coords returns the coordinates when the atom is a point.
func (a Atom) Coords() (Coords, bool) { return a.coords, a.isCoords }

// ParseAtom decodes an atom reference. A string of exactly three
// comma-separated fields is coordinates and every field must be a float; any
// other field count makes the whole string an atom name. A three-field string
// with a non-numeric field is therefore an error, not a name.
func ParseAtom(s string) (Atom, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return AtomName(s), nil
	}
	var xyz [3]float64
	for i, f := range fields {
		v, err := parseDecimal(f)
		if err != nil {
			return Atom{}, wrap("atom", s, err)
		}
		xyz[i] = v
	}
	return AtomCoords(xyz[0], xyz[1], xyz[2]), nil
}

// String renders the wire form: the name, or "x,y,z".
func (a Atom) String() string {
	if !a.isCoords {
		return a.name
	}
	return formatFloat(a.coords.X) + "," + formatFloat(a.coords.Y) + "," + formatFloat(a.coords.Z)
}

func (a Atom) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Atom) UnmarshalText(b []byte) error {
	v, err := ParseAtom(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

var (
	errHexFloat  = errors.New("hexadecimal notation not allowed")
	errNonFinite = errors.New("value is not finite")
)

// parseDecimal is strconv.ParseFloat restricted to finite decimal numbers.
// strconv also takes "0x1p1", "NaN" and "Inf", none of which the service sends.
func parseDecimal(s string) (float64, error) {
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, &DecodeError{Code: CodeInvalidNumber, Type: "number", Input: s, Cause: errHexFloat}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &DecodeError{Code: CodeInvalidNumber, Type: "number", Input: s, Cause: errNonFinite}
	}
	return f, nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
