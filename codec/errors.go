package codec

import "strconv"

// Decode error codes.
const (
	CodeFieldCount    = "field_count"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidNumber = "invalid_number"
	CodeInvalidChar   = "invalid_char"
)

// DecodeError reports a compact string that does not match its grammar.
// Input always holds the offending raw string.
type DecodeError struct {
	Code   string
	Type   string // Name of the type being decoded, e.g. "node id".
	Input  string
	Detail string
	Cause  error
}

func (e *DecodeError) Error() string {
	msg := "codec: invalid " + e.Type + " " + strconv.Quote(e.Input)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func fieldCountError(typ, input string, want, got int) *DecodeError {
	return &DecodeError{
		Code:   CodeFieldCount,
		Type:   typ,
		Input:  input,
		Detail: "expected " + strconv.Itoa(want) + " fields, got " + strconv.Itoa(got),
	}
}

// wrap attaches the outer input to a component error so the whole raw string
// is reported while the component failure stays reachable through Unwrap.
func wrap(typ, input string, err error) *DecodeError {
	code := CodeInvalidNumber
	if de, ok := err.(*DecodeError); ok {
		code = de.Code
	}
	return &DecodeError{Code: code, Type: typ, Input: input, Cause: err}
}
