package engine

import "errors"

// ErrTooDeep is returned when a container exceeds Guard.MaxDepth and
// TooDeep does not supply its own error.
var ErrTooDeep = errors.New("engine: nesting too deep")

// Guard bounds the nested values DecodeMembers accepts. P is the caller's
// path type; the engine only extends it through Field and Index, so any
// pointer builder fits. The zero Guard accepts everything.
//
// Repeated keys of the top-level object are not reported: DecodeMembers
// returns them as separate members and the caller sees them in order.
type Guard[P any] struct {
	Root  P
	Field func(P, string) P
	Index func(P, int) P

	// MaxDepth counts the top-level object as 1. Zero means unlimited.
	MaxDepth int
	// TooDeep is called with the path of the first container nested beyond
	// MaxDepth. Decoding stops with its error, or ErrTooDeep when it is nil
	// or returns nil.
	TooDeep func(at P) error

	// Duplicate is called with the path of every repeated key inside a nested
	// object. A nil error keeps going and the last value wins.
	Duplicate func(at P) error
}

func (g Guard[P]) field(p P, key string) P {
	if g.Field == nil {
		return p
	}
	return g.Field(p, key)
}

func (g Guard[P]) index(p P, i int) P {
	if g.Index == nil {
		return p
	}
	return g.Index(p, i)
}

func (g Guard[P]) checkDepth(p P, depth int) error {
	if g.MaxDepth <= 0 || depth <= g.MaxDepth {
		return nil
	}
	if g.TooDeep != nil {
		if err := g.TooDeep(p); err != nil {
			return err
		}
	}
	return ErrTooDeep
}

func (g Guard[P]) duplicate(at P) error {
	if g.Duplicate == nil {
		return nil
	}
	return g.Duplicate(at)
}
