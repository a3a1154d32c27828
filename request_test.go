package ringws_test

import (
	"bytes"
	"errors"
	"io"
	"mime"
	stdmultipart "mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	ringws "github.com/reoring/ringws"
	"github.com/reoring/ringws/multipart"
)

func TestSubmitID_Body(t *testing.T) {
	req := ringws.SubmitID{PDBID: "1jsu", Settings: ringws.DefaultSettings()}
	if req.Method() != "POST" || req.Endpoint() != "/submit" {
		t.Fatalf("route: %s %s", req.Method(), req.Endpoint())
	}
	body, err := req.Body()
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.ContentType != "application/json" {
		t.Fatalf("content type: %s", body.ContentType)
	}
	if !bytes.HasPrefix(body.Data, []byte(`{"pdbName":"1jsu","ringmd":"false","chain":"all"`)) {
		t.Fatalf("body: %s", body.Data)
	}
	var flat map[string]string
	if err := json.Unmarshal(body.Data, &flat); err != nil {
		t.Fatalf("every value must be a string: %v", err)
	}
	if flat["seqSeparation"] != "3" || flat["nowater"] != "true" {
		t.Fatalf("flat: %v", flat)
	}
}

func TestSubmitStructure_Form(t *testing.T) {
	s := ringws.DefaultSettings()
	s.PerformMSA = true
	req := ringws.SubmitStructure{Contents: "ATOM      1  N   MET A   1\n", FileName: "x.pdb", Settings: s}
	form, err := req.Form()
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	parts := form.Parts()
	if parts[0].Kind != multipart.PartFile || parts[0].Key != "file" || parts[0].FileName != "x.pdb" || string(parts[0].Bytes) != req.Contents {
		t.Fatalf("file part: %+v", parts[0])
	}
	keys := form.Keys()
	want := append([]string{"file"}, wireKeysOf(s)...)
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("keys %v, want %v", keys, want)
	}
	for _, p := range parts[1:] {
		if p.Kind != multipart.PartText {
			t.Fatalf("settings part %q is not text", p.Key)
		}
	}
}

func wireKeysOf(s ringws.Settings) []string {
	var keys []string
	m := s.ToWire()
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func TestSubmitStructure_Body(t *testing.T) {
	req := ringws.SubmitStructure{Contents: "ATOM", FileName: "y.pdb", Settings: ringws.DefaultSettings()}
	body, err := req.Body()
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	mediaType, params, err := mime.ParseMediaType(body.ContentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("content type %q: %v", body.ContentType, err)
	}
	mr := stdmultipart.NewReader(bytes.NewReader(body.Data), params["boundary"])
	p, err := mr.NextPart()
	if err != nil {
		t.Fatalf("first part: %v", err)
	}
	if p.FormName() != "file" || p.FileName() != "y.pdb" {
		t.Fatalf("first part: %s %s", p.FormName(), p.FileName())
	}
	b, _ := io.ReadAll(p)
	if string(b) != "ATOM" {
		t.Fatalf("contents: %q", b)
	}
	n := 1
	for {
		_, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("part: %v", err)
		}
		n++
	}
	if n != 9 {
		t.Fatalf("expected file + 8 settings parts, got %d", n)
	}
}

func TestSubmitStructureFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "3s6a.pdb")
	if err := os.WriteFile(path, []byte("HEADER"), 0o600); err != nil {
		t.Fatal(err)
	}
	req, err := ringws.SubmitStructureFromFile(path, ringws.DefaultSettings())
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	if req.FileName != "3s6a.pdb" || req.Contents != "HEADER" {
		t.Fatalf("req: %+v", req)
	}
	if _, err := ringws.SubmitStructureFromFile(filepath.Join(dir, "missing.pdb"), ringws.DefaultSettings()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestStatusAndResultRequests(t *testing.T) {
	st := ringws.StatusRequest{JobID: "5c1f2b"}
	if st.Method() != "GET" || st.Endpoint() != "/status/5c1f2b" {
		t.Fatalf("status: %s %s", st.Method(), st.Endpoint())
	}
	if b, err := st.Body(); err != nil || b.Data != nil {
		t.Fatalf("status body: %+v %v", b, err)
	}
	rr := ringws.ResultRequest{JobID: "5c1f2b"}
	if rr.Endpoint() != "/results/5c1f2b?engine=d3" {
		t.Fatalf("result: %s", rr.Endpoint())
	}
}

func TestLooksLikePDBID(t *testing.T) {
	for _, s := range []string{"1jsu", "3S6A", "9xyz"} {
		if !ringws.LooksLikePDBID(s) {
			t.Errorf("%q should look like a PDB id", s)
		}
	}
	for _, s := range []string{"", "jsu1", "1js", "1jsu2", "1js_", "x.pdb"} {
		if ringws.LooksLikePDBID(s) {
			t.Errorf("%q should not look like a PDB id", s)
		}
	}
}
