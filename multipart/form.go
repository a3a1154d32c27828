package multipart

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// PartKind distinguishes text parts from file parts.
type PartKind uint8

const (
	PartText PartKind = iota
	PartFile
)

// Part is one named field of a form.
type Part struct {
	Kind     PartKind
	Key      string
	Value    string // Text parts only.
	Bytes    []byte // File parts only.
	FileName string // File parts only; empty when the producer supplied none.
}

// Form is an ordered sequence of parts. Duplicate keys are allowed.
type Form struct {
	parts []Part
}

// Text appends a text part.
func (f *Form) Text(key, value string) {
	f.parts = append(f.parts, Part{Kind: PartText, Key: key, Value: value})
}

// File appends a file part.
func (f *Form) File(key string, data []byte, fileName string) {
	f.parts = append(f.parts, Part{Kind: PartFile, Key: key, Bytes: data, FileName: fileName})
}

// Parts returns a copy of the parts in order.
func (f *Form) Parts() []Part { return append([]Part(nil), f.parts...) }

// Len returns the number of parts.
func (f *Form) Len() int { return len(f.parts) }

// Keys returns the part keys in order.
func (f *Form) Keys() []string {
	keys := make([]string, len(f.parts))
	for i, p := range f.parts {
		keys[i] = p.Key
	}
	return keys
}

// Write renders the form as multipart/form-data with a random boundary and
// returns the matching Content-Type.
func (f *Form) Write(w io.Writer) (contentType string, err error) {
	return f.write(multipart.NewWriter(w))
}

// WriteWithBoundary is Write with a caller-chosen boundary, for reproducible
// bodies.
func (f *Form) WriteWithBoundary(w io.Writer, boundary string) (contentType string, err error) {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return "", fmt.Errorf("multipart: %w", err)
	}
	return f.write(mw)
}

// Body renders the form into memory.
func (f *Form) Body() (data []byte, contentType string, err error) {
	var buf bytes.Buffer
	contentType, err = f.Write(&buf)
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), contentType, nil
}

func (f *Form) write(mw *multipart.Writer) (string, error) {
	for _, p := range f.parts {
		var err error
		switch p.Kind {
		case PartText:
			err = mw.WriteField(p.Key, p.Value)
		case PartFile:
			err = writeFilePart(mw, p)
		}
		if err != nil {
			return "", fmt.Errorf("multipart: writing part %q: %w", p.Key, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("multipart: closing form: %w", err)
	}
	return mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, p Part) error {
	h := make(textproto.MIMEHeader)
	disposition := `form-data; name="` + quoteEscaper.Replace(p.Key) + `"`
	if p.FileName != "" {
		disposition += `; filename="` + quoteEscaper.Replace(p.FileName) + `"`
	}
	h.Set("Content-Disposition", disposition)
	h.Set("Content-Type", "application/octet-stream")
	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = w.Write(p.Bytes)
	return err
}
