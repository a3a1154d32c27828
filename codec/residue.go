package codec

import "github.com/samber/lo"

// Residue is an amino acid as named by the service's 3-letter tokens.
type Residue uint8

const (
	Unknown Residue = iota
	Ala
	Arg
	Asn
	Asp
	Cys
	Gln
	Glu
	Gly
	His
	Ile
	Leu
	Lys
	Met
	Phe
	Pro
	Ser
	Thr
	Trp
	Tyr
	Val
	Sec // Selenocysteine.
	Pyl // Pyrrolysine.
	Asx // Asparagine or aspartic acid.
	Glx // Glutamine or glutamic acid.
	Xle // Leucine or isoleucine.
)

var residueTokens = map[Residue]string{
	Unknown: "UNK",
	Ala:     "ALA",
	Arg:     "ARG",
	Asn:     "ASN",
	Asp:     "ASP",
	Cys:     "CYS",
	Gln:     "GLN",
	Glu:     "GLU",
	Gly:     "GLY",
	His:     "HIS",
	Ile:     "ILE",
	Leu:     "LEU",
	Lys:     "LYS",
	Met:     "MET",
	Phe:     "PHE",
	Pro:     "PRO",
	Ser:     "SER",
	Thr:     "THR",
	Trp:     "TRP",
	Tyr:     "TYR",
	Val:     "VAL",
	Sec:     "SEC",
	Pyl:     "PYL",
	Asx:     "ASX",
	Glx:     "GLX",
	Xle:     "XLE",
}

var residuesByToken = lo.Invert(residueTokens)

// ParseResidue maps a 3-letter wire token to its Residue. Matching is exact.
func ParseResidue(s string) (Residue, error) {
	r, ok := residuesByToken[s]
	if !ok {
		return Unknown, &DecodeError{Code: CodeInvalidEnum, Type: "residue", Input: s}
	}
	return r, nil
}

// String returns the wire token.
func (r Residue) String() string {
	if s, ok := residueTokens[r]; ok {
		return s
	}
	return residueTokens[Unknown]
}

func (r Residue) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Residue) UnmarshalText(b []byte) error {
	v, err := ParseResidue(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
