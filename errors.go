package ringws

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/reoring/ringws/codec"
	"github.com/reoring/ringws/i18n"
)

// Issue codes reported while decoding service responses.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeDuplicateKey  = "duplicate_key"
	CodeMaxDepth      = "max_depth"
	CodeTruncated     = "truncated"
	CodeParseError    = "parse_error"
	CodeInvalidStatus = "invalid_status"
	// Compact-string failures carry the codec's own code.
	CodeFieldCount    = codec.CodeFieldCount
	CodeInvalidEnum   = codec.CodeInvalidEnum
	CodeInvalidNumber = codec.CodeInvalidNumber
	CodeInvalidChar   = codec.CodeInvalidChar
)

// Issue represents a single decoding problem.
type Issue struct {
	Path    string // JSON Pointer (for example: /edges/3/Interaction).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// InputFragment is the offending raw value when it is a string or number.
	InputFragment string
	// Params carries structured parameters (e.g., {"expected":"string"}) for i18n.
	Params map[string]any
}

// Issues is a collection of decoding errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.InputFragment != "" {
			fmt.Fprintf(b, " (%q)", it.InputFragment)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.As can reach a *codec.DecodeError.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssueAt creates an Issue at the given path with a translated message.
func IssueAt(p PathRef, code string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: i18n.T(code, stringParams(params)), Params: params}
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// APIError is returned by the client when the service answers with a non-2xx
// status.
type APIError struct {
	StatusCode int
	Status     string
	Method     string
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("ringws: %s %s: %s", e.Method, e.URL, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsServerError reports whether err is an APIError with a 5xx status.
func IsServerError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}

// Errors returned by Client.Wait.
var (
	ErrJobFailed   = errors.New("ringws: job failed")
	ErrWaitTimeout = errors.New("ringws: timed out waiting for job")
)
