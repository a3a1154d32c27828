package codec

import "context"

// Codec performs bidirectional transformation between the wire
// representation A and the domain representation B.
type Codec[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error) // wire -> domain
	Encode(ctx context.Context, b B) (A, error) // domain -> wire
}

// Text returns a Codec over compact strings built from a parse/render pair.
// Rendering never fails.
func Text[T any](parse func(string) (T, error), render func(T) string) Codec[string, T] {
	return &textCodec[T]{parse: parse, render: render}
}

type textCodec[T any] struct {
	parse  func(string) (T, error)
	render func(T) string
}

func (c *textCodec[T]) Decode(ctx context.Context, a string) (T, error) { return c.parse(a) }
func (c *textCodec[T]) Encode(ctx context.Context, b T) (string, error) { return c.render(b), nil }

// Ready-made codecs for the compact strings found in result payloads.
var (
	NodeIDs      = Text(ParseNodeID, NodeID.String)
	NullNodeIDs  = Text(ParseNullNodeID, NullNodeID.String)
	Interactions = Text(ParseInteraction, Interaction.String)
	Atoms        = Text(ParseAtom, Atom.String)
	Residues     = Text(ParseResidue, Residue.String)
	DSSPCodes    = Text(ParseDSSP, DSSP.String)
)
