// Package gojson adapts goccy/go-json's streaming decoder to the engine's
// token model.
package gojson

import (
	"bytes"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/ringws/internal/engine"
)

// go-json reports keys and string values alike; the source tells them apart
// by remembering, per open object, whether a key is due.
type frame struct {
	object     bool
	keyPending bool
}

type source struct {
	dec   *j.Decoder
	stack []frame
}

// NewBytes returns a TokenSource over a complete JSON document. Numbers keep
// their literal text.
func NewBytes(b []byte) eng.TokenSource {
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return &source{dec: dec}
}

func (s *source) push(object bool) {
	s.stack = append(s.stack, frame{object: object, keyPending: object})
}

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

// valueDone makes the enclosing object expect a key again.
func (s *source) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1].object {
		s.stack[n-1].keyPending = true
	}
}

func (s *source) NextToken() (eng.Token, error) {
	raw, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := raw.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.push(true)
			return eng.Token{Kind: eng.KindBeginObject}, nil
		case '[':
			s.push(false)
			return eng.Token{Kind: eng.KindBeginArray}, nil
		case '}':
			s.pop()
			return eng.Token{Kind: eng.KindEndObject}, nil
		default:
			s.pop()
			return eng.Token{Kind: eng.KindEndArray}, nil
		}
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1].keyPending {
			s.stack[n-1].keyPending = false
			return eng.Token{Kind: eng.KindKey, String: v}, nil
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v}, nil
	case j.Number:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v)}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull}, nil
}
