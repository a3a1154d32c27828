package ringws

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	json "github.com/goccy/go-json"

	"github.com/reoring/ringws/multipart"
)

// Request is one call to the service.
type Request interface {
	Method() string
	// Endpoint is the path below the base URL, query included.
	Endpoint() string
	// Body returns the encoded request body. A zero Body means none.
	Body() (Body, error)
}

// Body is an encoded request body.
type Body struct {
	ContentType string
	Data        []byte
}

const (
	contentTypeJSON = "application/json"
	fieldPDBName    = "pdbName"
	fieldFile       = "file"
)

// SubmitID submits a job for a structure known to the PDB.
type SubmitID struct {
	PDBID    string
	Settings Settings
}

func (SubmitID) Method() string   { return http.MethodPost }
func (SubmitID) Endpoint() string { return "/submit" }

// Body is a JSON object holding pdbName followed by the flattened settings.
func (r SubmitID) Body() (Body, error) {
	m := NewWireMap()
	m.Set(fieldPDBName, r.PDBID)
	r.Settings.AppendWire(m)
	data, err := json.Marshal(m)
	if err != nil {
		return Body{}, fmt.Errorf("ringws: encode submit: %w", err)
	}
	return Body{ContentType: contentTypeJSON, Data: data}, nil
}

// SubmitStructure submits a job for an uploaded structure file.
type SubmitStructure struct {
	Contents string
	FileName string
	Settings Settings
}

// SubmitStructureFromFile reads a PDB file from disk.
func SubmitStructureFromFile(path string, settings Settings) (SubmitStructure, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SubmitStructure{}, fmt.Errorf("ringws: read structure: %w", err)
	}
	return SubmitStructure{Contents: string(b), FileName: filepath.Base(path), Settings: settings}, nil
}

func (SubmitStructure) Method() string   { return http.MethodPost }
func (SubmitStructure) Endpoint() string { return "/submit" }

// Value is the request as a multipart record: the file first, then every
// settings wire entry as text.
func (r SubmitStructure) Value() multipart.Value {
	wire := r.Settings.ToWire()
	fields := make([]multipart.Field, 0, wire.Len()+1)
	fields = append(fields, multipart.Entry(fieldFile, multipart.File(r.Contents, r.FileName)))
	for pair := wire.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, multipart.Entry(pair.Key, multipart.String(pair.Value)))
	}
	return multipart.Record(fields...)
}

// Form encodes the request into multipart parts.
func (r SubmitStructure) Form() (*multipart.Form, error) {
	return multipart.Encode(r.Value())
}

func (r SubmitStructure) Body() (Body, error) {
	form, err := r.Form()
	if err != nil {
		return Body{}, fmt.Errorf("ringws: encode structure: %w", err)
	}
	data, contentType, err := form.Body()
	if err != nil {
		return Body{}, fmt.Errorf("ringws: encode structure: %w", err)
	}
	return Body{ContentType: contentType, Data: data}, nil
}

// StatusRequest asks for the status of a job.
type StatusRequest struct {
	JobID JobID
}

func (StatusRequest) Method() string      { return http.MethodGet }
func (r StatusRequest) Endpoint() string  { return "/status/" + url.PathEscape(string(r.JobID)) }
func (StatusRequest) Body() (Body, error) { return Body{}, nil }

// ResultRequest fetches the interaction graph of a finished job.
type ResultRequest struct {
	JobID JobID
}

func (ResultRequest) Method() string { return http.MethodGet }

func (r ResultRequest) Endpoint() string {
	q := url.Values{"engine": {"d3"}}
	return "/results/" + url.PathEscape(string(r.JobID)) + "?" + q.Encode()
}

func (ResultRequest) Body() (Body, error) { return Body{}, nil }

var pdbIDPattern = regexp.MustCompile(`^[0-9][A-Za-z0-9]{3}$`)

// LooksLikePDBID reports whether s has the shape of a four character PDB
// identifier such as "1jsu". It says nothing about whether the entry exists.
func LooksLikePDBID(s string) bool { return pdbIDPattern.MatchString(s) }
