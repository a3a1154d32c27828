package codec

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// NoInsertion is the insertion code the service uses when a residue has none.
const NoInsertion = '_'

// NodeID identifies a residue in the interaction graph. Its wire form is
// "chain:position:insertion:residue", e.g. "A:42:_:HIS".
type NodeID struct {
	Chain         rune
	Position      int // PDB numbering; may be zero or negative.
	InsertionCode rune
	Residue       Residue
}

// ParseNodeID decodes the four colon-separated fields of a node id.
func ParseNodeID(s string) (NodeID, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 4 {
		return NodeID{}, fieldCountError("node id", s, 4, len(fields))
	}
	chain, err := parseChar(fields[0])
	if err != nil {
		return NodeID{}, wrap("node id", s, err)
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return NodeID{}, wrap("node id", s, err)
	}
	ins, err := parseChar(fields[2])
	if err != nil {
		return NodeID{}, wrap("node id", s, err)
	}
	res, err := ParseResidue(fields[3])
	if err != nil {
		return NodeID{}, wrap("node id", s, err)
	}
	return NodeID{Chain: chain, Position: pos, InsertionCode: ins, Residue: res}, nil
}

// String renders the canonical wire form. The fields are not escaped, so an id
// whose Chain or InsertionCode is ':' renders with five fields and does not
// parse back; PDB chain and insertion codes never use it.
func (id NodeID) String() string {
	var b strings.Builder
	b.WriteRune(id.Chain)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(id.Position))
	b.WriteByte(':')
	b.WriteRune(id.InsertionCode)
	b.WriteByte(':')
	b.WriteString(id.Residue.String())
	return b.String()
}

func (id NodeID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *NodeID) UnmarshalText(b []byte) error {
	v, err := ParseNodeID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// NullNodeID is a NodeID that may be absent. The service sends the empty
// string for roles (donor, positive, cation) that do not apply to an edge.
type NullNodeID struct {
	NodeID NodeID
	Valid  bool
}

// ParseNullNodeID decodes s, mapping the empty string to an invalid
// NullNodeID instead of an error.
func ParseNullNodeID(s string) (NullNodeID, error) {
	if s == "" {
		return NullNodeID{}, nil
	}
	id, err := ParseNodeID(s)
	if err != nil {
		return NullNodeID{}, err
	}
	return NullNodeID{NodeID: id, Valid: true}, nil
}

// String renders the node id, or the empty string when absent.
func (n NullNodeID) String() string {
	if !n.Valid {
		return ""
	}
	return n.NodeID.String()
}

func (n NullNodeID) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *NullNodeID) UnmarshalText(b []byte) error {
	v, err := ParseNullNodeID(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

func parseChar(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return 0, &DecodeError{Code: CodeInvalidChar, Type: "character", Input: s, Detail: "expected exactly one character"}
	}
	return r, nil
}
