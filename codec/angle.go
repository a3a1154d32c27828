package codec

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// AngleSentinel is the number the service sends when an edge has no angle.
const AngleSentinel = -999.9

const angleSentinelText = "-999.9"

// Angle is an optional angle in degrees.
type Angle struct {
	Degrees float64
	Valid   bool
}

// SomeAngle returns a present angle.
func SomeAngle(deg float64) Angle { return Angle{Degrees: deg, Valid: true} }

// ParseAngle decodes a JSON number. Exactly -999.9 means no angle; any other
// finite integer or float is the angle itself.
func ParseAngle(n json.Number) (Angle, error) {
	f, err := parseDecimal(string(n))
	if err != nil {
		return Angle{}, wrap("angle", string(n), err)
	}
	if f == AngleSentinel {
		return Angle{}, nil
	}
	return SomeAngle(f), nil
}

// ParseAngleString is ParseAngle for an angle that arrives as text.
func ParseAngleString(s string) (Angle, error) { return ParseAngle(json.Number(s)) }

// String renders the wire form, using the sentinel when the angle is absent.
func (a Angle) String() string {
	if !a.Valid {
		return angleSentinelText
	}
	return formatFloat(a.Degrees)
}

func (a Angle) MarshalJSON() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalJSON accepts a JSON number. null is treated like the sentinel.
func (a *Angle) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = Angle{}
		return nil
	}
	v, err := ParseAngle(json.Number(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
