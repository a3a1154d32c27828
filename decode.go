package ringws

import (
	"errors"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/reoring/ringws/codec"
	"github.com/reoring/ringws/i18n"
	eng "github.com/reoring/ringws/internal/engine"
	"github.com/reoring/ringws/source/gojson"
)

// decoder accumulates issues while a response is walked. Once stop is set
// every helper returns immediately with a zero value.
type decoder struct {
	opt      DecodeOptions
	issues   Issues
	warnings Issues
	stop     bool
}

func newDecoder(opts []DecodeOptions) *decoder {
	return &decoder{opt: lastDecodeOptions(opts)}
}

func (d *decoder) add(it Issue) {
	if it.Message == "" {
		it.Message = i18n.T(it.Code, stringParams(it.Params))
	}
	d.issues = append(d.issues, it)
	if d.opt.FailFast {
		d.stop = true
	}
}

func (d *decoder) err() error {
	if len(d.issues) == 0 {
		return nil
	}
	return d.issues
}

// errStop aborts the token walk once the decoder has recorded why.
var errStop = errors.New("ringws: decoding stopped")

// members reads the top-level object. Nested duplicates and excess depth are
// reported by the engine while it walks; top-level repeats come back as
// separate members and are checked here.
func (d *decoder) members(data []byte) []eng.Member {
	if d.opt.MaxBytes > 0 && int64(len(data)) > d.opt.MaxBytes {
		d.add(Issue{Path: "/", Code: CodeTruncated, Params: map[string]any{"max": d.opt.MaxBytes, "got": len(data)}})
		d.stop = true
		return nil
	}
	g := eng.Guard[PathRef]{
		Root:     Root(),
		Field:    PathRef.Field,
		Index:    PathRef.Index,
		MaxDepth: d.opt.MaxDepth,
		TooDeep:  d.tooDeep,
	}
	if d.opt.OnDuplicateKey != Ignore {
		g.Duplicate = d.duplicate
	}
	ms, err := eng.DecodeMembers(gojson.NewBytes(data), g)
	if err != nil {
		if !errors.Is(err, errStop) && !errors.Is(err, eng.ErrTooDeep) {
			d.add(Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err})
		}
		d.stop = true
		return nil
	}
	if g.Duplicate == nil {
		return ms
	}
	seen := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		if _, dup := seen[m.Key]; dup {
			if d.duplicate(Root().Field(m.Key)) != nil {
				d.stop = true
				return nil
			}
			continue
		}
		seen[m.Key] = struct{}{}
	}
	return ms
}

// duplicate records a repeated key. Under Warn it only collects a warning
// and the walk goes on with the last value winning.
func (d *decoder) duplicate(p PathRef) error {
	it := p.Issue(CodeDuplicateKey, nil)
	if d.opt.OnDuplicateKey == Warn && !d.opt.FailFast {
		d.warnings = append(d.warnings, it)
		return nil
	}
	d.add(it)
	return errStop
}

func (d *decoder) tooDeep(p PathRef) error {
	d.add(p.Issue(CodeMaxDepth, map[string]any{"max": d.opt.MaxDepth}))
	return errStop
}

func (d *decoder) invalidType(p PathRef, expected string) {
	d.add(p.Issue(CodeInvalidType, map[string]any{"expected": expected}))
}

func (d *decoder) str(p PathRef, v any) (string, bool) {
	if d.stop {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		d.invalidType(p, "string")
		return "", false
	}
	return s, true
}

func (d *decoder) number(p PathRef, v any) (json.Number, bool) {
	if d.stop {
		return "", false
	}
	n, ok := v.(json.Number)
	if !ok {
		d.invalidType(p, "number")
		return "", false
	}
	return n, true
}

func (d *decoder) float(p PathRef, v any) float64 {
	n, ok := d.number(p, v)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		d.add(Issue{Path: p.Pointer(), Code: CodeInvalidNumber, InputFragment: string(n), Cause: err})
		return 0
	}
	return f
}

// optFloat maps null to nil.
func (d *decoder) optFloat(p PathRef, v any) *float64 {
	if v == nil {
		return nil
	}
	f := d.float(p, v)
	return &f
}

func (d *decoder) integer(p PathRef, v any) int {
	n, ok := d.number(p, v)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(string(n))
	if err != nil {
		d.add(Issue{Path: p.Pointer(), Code: CodeInvalidNumber, InputFragment: string(n), Cause: err})
		return 0
	}
	return i
}

// compact routes a string member through one of the compact-string codecs.
func compact[T any](d *decoder, p PathRef, v any, parse func(string) (T, error)) T {
	var zero T
	s, ok := d.str(p, v)
	if !ok {
		return zero
	}
	t, err := parse(s)
	if err != nil {
		d.codecIssue(p, s, err)
		return zero
	}
	return t
}

func (d *decoder) codecIssue(p PathRef, input string, err error) {
	code := CodeParseError
	params := map[string]any{}
	var de *codec.DecodeError
	if errors.As(err, &de) {
		code = de.Code
		params["type"] = de.Type
	}
	d.add(Issue{Path: p.Pointer(), Code: code, InputFragment: input, Cause: err, Params: params})
}

// scalarText stringifies an echoed scalar member. Objects, arrays and null
// have no flattened form.
func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return string(t), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}
