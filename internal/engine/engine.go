package engine

import (
	"errors"
	"io"

	json "github.com/goccy/go-json"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is one streaming token. String holds keys and string values, Number
// the literal text of a number.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
}

// ErrNotObject is returned by DecodeMembers when the input is not a JSON object.
var ErrNotObject = errors.New("engine: top-level value is not an object")

// Member is one key/value pair of the top-level object, in input order.
type Member struct {
	Key   string
	Value any
}

// DecodeMembers reads a single object and returns its members in the order
// they appear, duplicates included. Nested values become plain maps and
// slices with numbers as json.Number; g decides what happens to repeated
// keys and deep nesting below the top level.
func DecodeMembers[P any](src TokenSource, g Guard[P]) ([]Member, error) {
	w := walker[P]{src: src, g: g}
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != KindBeginObject {
		return nil, ErrNotObject
	}
	var out []Member
	for {
		key, done, err := w.key()
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		v, err := w.next(g.field(g.Root, key), 2)
		if err != nil {
			return nil, err
		}
		out = append(out, Member{Key: key, Value: v})
	}
}

type walker[P any] struct {
	src TokenSource
	g   Guard[P]
}

// key reads the next member key of the current object; done reports the end
// of the object.
func (w *walker[P]) key() (key string, done bool, err error) {
	tok, err := w.src.NextToken()
	if err != nil {
		return "", false, err
	}
	switch tok.Kind {
	case KindEndObject:
		return "", true, nil
	case KindKey:
		return tok.String, false, nil
	}
	return "", false, io.ErrUnexpectedEOF
}

// next reads one value at path p. depth is the depth a container starting
// here would have; the top-level object is 1.
func (w *walker[P]) next(p P, depth int) (any, error) {
	tok, err := w.src.NextToken()
	if err != nil {
		return nil, err
	}
	return w.value(p, tok, depth)
}

func (w *walker[P]) value(p P, tok Token, depth int) (any, error) {
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		if err := w.g.checkDepth(p, depth); err != nil {
			return nil, err
		}
		if tok.Kind == KindBeginObject {
			return w.object(p, depth)
		}
		return w.array(p, depth)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	}
	return nil, io.ErrUnexpectedEOF
}

func (w *walker[P]) object(p P, depth int) (any, error) {
	m := make(map[string]any)
	for {
		key, done, err := w.key()
		if err != nil {
			return nil, err
		}
		if done {
			return m, nil
		}
		at := w.g.field(p, key)
		if _, dup := m[key]; dup {
			if err := w.g.duplicate(at); err != nil {
				return nil, err
			}
		}
		v, err := w.next(at, depth+1)
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
}

func (w *walker[P]) array(p P, depth int) (any, error) {
	arr := []any{}
	for i := 0; ; i++ {
		tok, err := w.src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := w.value(w.g.index(p, i), tok, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}
