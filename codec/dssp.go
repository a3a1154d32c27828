package codec

import "github.com/samber/lo"

// DSSP is a secondary structure class as assigned by DSSP.
type DSSP uint8

const (
	Coil       DSSP = iota // No structure; a single space on the wire.
	AlphaHelix             // H
	BetaBridge             // B
	Strand                 // E
	Helix310               // G
	PiHelix                // I
	Turn                   // T
	Bend                   // S
)

var dsspTokens = map[DSSP]string{
	Coil:       " ",
	AlphaHelix: "H",
	BetaBridge: "B",
	Strand:     "E",
	Helix310:   "G",
	PiHelix:    "I",
	Turn:       "T",
	Bend:       "S",
}

var dsspByToken = lo.Invert(dsspTokens)

// ParseDSSP maps a single-character DSSP code. The literal single space is
// Coil; the empty string is an error.
func ParseDSSP(s string) (DSSP, error) {
	d, ok := dsspByToken[s]
	if !ok {
		return Coil, &DecodeError{Code: CodeInvalidEnum, Type: "dssp code", Input: s}
	}
	return d, nil
}

func (d DSSP) String() string {
	if s, ok := dsspTokens[d]; ok {
		return s
	}
	return dsspTokens[Coil]
}

func (d DSSP) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DSSP) UnmarshalText(b []byte) error {
	v, err := ParseDSSP(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
