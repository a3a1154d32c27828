package ringws

import "fmt"

// JobID identifies a submitted job.
type JobID string

func (id JobID) String() string { return string(id) }

// JobStatus is the phase a job is in.
type JobStatus uint8

const (
	StatusInProgress JobStatus = iota
	// StatusPartial means part of the results are available, typically
	// because the MSA is still running.
	StatusPartial
	StatusComplete
	StatusFailed
)

var jobStatusTokens = [...]string{
	StatusInProgress: "db",
	StatusPartial:    "partial",
	StatusComplete:   "complete",
	StatusFailed:     "error",
}

// ParseJobStatus maps the service's status token.
func ParseJobStatus(s string) (JobStatus, error) {
	for i, tok := range jobStatusTokens {
		if tok == s {
			return JobStatus(i), nil
		}
	}
	return 0, fmt.Errorf("ringws: unknown job status %q", s)
}

// Token returns the wire token, e.g. "db" for StatusInProgress.
func (s JobStatus) Token() string {
	if int(s) < len(jobStatusTokens) {
		return jobStatusTokens[s]
	}
	return ""
}

func (s JobStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in progress"
	case StatusPartial:
		return "partial"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("JobStatus(%d)", uint8(s))
}

// Done reports whether the job will not change status any more.
func (s JobStatus) Done() bool { return s == StatusComplete || s == StatusFailed }

func (s JobStatus) MarshalText() ([]byte, error) { return []byte(s.Token()), nil }

func (s *JobStatus) UnmarshalText(b []byte) error {
	v, err := ParseJobStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
