package multipart

import (
	"errors"
	"strings"
)

// Sentinel causes carried by EncodingError. Match them with errors.Is.
var (
	ErrNotMapLike       = errors.New("top-level value must be a record")
	ErrNestedMap        = errors.New("records may only appear at the top level")
	ErrUnsupportedShape = errors.New("shape cannot be represented as a form part")
	ErrIncompleteFile   = errors.New("file composite needs contents and a file name")
	ErrKeyWithoutValue  = errors.New("key without a value")
	ErrValueWithoutKey  = errors.New("value without a key")
)

// EncodingError reports why a value could not be flattened into a Form.
type EncodingError struct {
	Err    error  // One of the sentinels above.
	Key    string // Pending key when the error occurred, if any.
	Detail string // Optional description of the offending shape.
}

func (e *EncodingError) Error() string {
	var b strings.Builder
	b.WriteString("multipart: ")
	b.WriteString(e.Err.Error())
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	if e.Key != "" {
		b.WriteString(" at key ")
		b.WriteString(quote(e.Key))
	}
	return b.String()
}

func (e *EncodingError) Unwrap() error { return e.Err }

func quote(s string) string { return `"` + s + `"` }
