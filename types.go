package ringws

import "fmt"

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOptions bounds and tunes response decoding. The zero value ignores
// duplicate keys and applies no limits.
type DecodeOptions struct {
	OnDuplicateKey Severity `yaml:"onDuplicateKey" json:"onDuplicateKey"` // Warn records an issue and keeps the last value.
	MaxDepth       int      `yaml:"maxDepth" json:"maxDepth"`
	MaxBytes       int64    `yaml:"maxBytes" json:"maxBytes"`
	FailFast       bool     `yaml:"failFast" json:"failFast"` // Stop at the first issue.
}

func lastDecodeOptions(opts []DecodeOptions) DecodeOptions {
	if len(opts) == 0 {
		return DecodeOptions{}
	}
	return opts[len(opts)-1]
}

var severityNames = [...]string{Ignore: "ignore", Warn: "warn", Error: "error"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	for i, name := range severityNames {
		if name == string(b) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("ringws: invalid severity %q", b)
}
