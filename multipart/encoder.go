package multipart

type state uint8

const (
	stateIdle state = iota
	stateInRecord
	stateInFile
	stateDone
)

// Encoder flattens a single record into a Form, one event at a time. The zero
// value is ready to use. After the first error every method returns that
// error again.
//
// Event order for a record with one text field and one file:
//
//	enc.BeginRecord()
//	enc.Key(multipart.String("pdbName"))
//	enc.Value(multipart.String("1jsu"))
//	enc.Key(multipart.String("file"))
//	enc.BeginFile()
//	enc.FileField("ATOM ...")
//	enc.FileField("x.pdb")
//	enc.EndFile()
//	enc.EndRecord()
//	form, err := enc.Form()
type Encoder struct {
	state  state
	key    string
	hasKey bool
	file   []string
	form   Form
	err    error
}

// Encode flattens v, which must be a Record, into a Form. Parts appear in
// field order.
func Encode(v Value) (*Form, error) {
	var enc Encoder
	if v.Kind() != KindRecord {
		return nil, enc.fail(ErrNotMapLike, "got "+v.Kind().String())
	}
	if err := enc.BeginRecord(); err != nil {
		return nil, err
	}
	for _, f := range v.Fields() {
		if err := enc.Key(f.Key); err != nil {
			return nil, err
		}
		if err := enc.Value(f.Value); err != nil {
			return nil, err
		}
	}
	if err := enc.EndRecord(); err != nil {
		return nil, err
	}
	return enc.Form()
}

// BeginRecord opens the top-level record.
func (e *Encoder) BeginRecord() error {
	if e.err != nil {
		return e.err
	}
	switch e.state {
	case stateIdle:
		e.state = stateInRecord
		return nil
	case stateDone:
		return e.fail(ErrUnsupportedShape, "record already closed")
	default:
		return e.fail(ErrNestedMap, "")
	}
}

// Key sets the key for the next value. Scalars render to text; blobs, files,
// sequences and records cannot be keys.
func (e *Encoder) Key(k Value) error {
	if err := e.expectRecord(); err != nil {
		return err
	}
	if e.hasKey {
		return e.fail(ErrKeyWithoutValue, "two keys in a row")
	}
	switch k.kind {
	case KindRecord:
		return e.fail(ErrNestedMap, "record used as key")
	case KindBytes, KindFile, KindSeq:
		return e.fail(ErrUnsupportedShape, k.kind.String()+" used as key")
	}
	s, ok := k.text()
	if !ok {
		return e.fail(ErrUnsupportedShape, k.kind.String()+" used as key")
	}
	e.key, e.hasKey = s, true
	return nil
}

// Value emits the part for the pending key.
func (e *Encoder) Value(v Value) error {
	if err := e.expectRecord(); err != nil {
		return err
	}
	if !e.hasKey {
		return e.fail(ErrValueWithoutKey, v.Kind().String())
	}
	switch v.Kind() {
	case KindBytes:
		e.form.File(e.key, v.blob, "")
		e.clearKey()
		return nil
	case KindOption:
		if inner, ok := v.Elem(); ok {
			return e.Value(inner)
		}
	case KindFile:
		nf, _ := v.NamedFile()
		if err := e.BeginFile(); err != nil {
			return err
		}
		if err := e.FileField(nf.Contents); err != nil {
			return err
		}
		if err := e.FileField(nf.FileName); err != nil {
			return err
		}
		return e.EndFile()
	case KindRecord:
		return e.fail(ErrNestedMap, "")
	case KindSeq:
		return e.fail(ErrUnsupportedShape, "unkeyed sequence")
	}
	s, ok := v.text()
	if !ok {
		return e.fail(ErrUnsupportedShape, v.Kind().String())
	}
	e.form.Text(e.key, s)
	e.clearKey()
	return nil
}

// BeginFile starts a file composite as the value of the pending key.
func (e *Encoder) BeginFile() error {
	if e.err != nil {
		return e.err
	}
	switch e.state {
	case stateIdle:
		return e.fail(ErrNotMapLike, "file at top level")
	case stateInFile:
		return e.fail(ErrUnsupportedShape, "file inside file")
	case stateDone:
		return e.fail(ErrUnsupportedShape, "record already closed")
	}
	if !e.hasKey {
		return e.fail(ErrUnsupportedShape, "file used as key")
	}
	e.state = stateInFile
	e.file = e.file[:0]
	return nil
}

// FileField supplies the next component of the open file composite: first
// the contents, then the file name.
func (e *Encoder) FileField(s string) error {
	if e.err != nil {
		return e.err
	}
	if e.state != stateInFile {
		return e.fail(ErrUnsupportedShape, "file field outside file")
	}
	if len(e.file) == 2 {
		return e.fail(ErrUnsupportedShape, "file takes exactly two fields")
	}
	e.file = append(e.file, s)
	return nil
}

// EndFile closes the file composite and emits its part.
func (e *Encoder) EndFile() error {
	if e.err != nil {
		return e.err
	}
	if e.state != stateInFile {
		return e.fail(ErrUnsupportedShape, "no open file")
	}
	switch len(e.file) {
	case 0:
		return e.fail(ErrIncompleteFile, "missing contents")
	case 1:
		return e.fail(ErrIncompleteFile, "missing file name")
	}
	e.form.File(e.key, []byte(e.file[0]), e.file[1])
	e.state = stateInRecord
	e.clearKey()
	return nil
}

// EndRecord closes the top-level record.
func (e *Encoder) EndRecord() error {
	if err := e.expectRecord(); err != nil {
		return err
	}
	if e.hasKey {
		return e.fail(ErrKeyWithoutValue, "record ended")
	}
	e.state = stateDone
	return nil
}

// Form returns the encoded form once the record has been closed.
func (e *Encoder) Form() (*Form, error) {
	if e.err != nil {
		return nil, e.err
	}
	switch e.state {
	case stateIdle:
		return nil, e.fail(ErrNotMapLike, "nothing encoded")
	case stateInFile:
		return nil, e.fail(ErrIncompleteFile, "file not closed")
	case stateInRecord:
		if e.hasKey {
			return nil, e.fail(ErrKeyWithoutValue, "record not closed")
		}
		return nil, e.fail(ErrUnsupportedShape, "record not closed")
	}
	out := Form{parts: append([]Part(nil), e.form.parts...)}
	return &out, nil
}

func (e *Encoder) expectRecord() error {
	if e.err != nil {
		return e.err
	}
	switch e.state {
	case stateIdle:
		return e.fail(ErrNotMapLike, "")
	case stateInFile:
		return e.fail(ErrUnsupportedShape, "file takes only FileField events")
	case stateDone:
		return e.fail(ErrUnsupportedShape, "record already closed")
	}
	return nil
}

func (e *Encoder) clearKey() {
	e.key, e.hasKey = "", false
}

func (e *Encoder) fail(cause error, detail string) error {
	e.err = &EncodingError{Err: cause, Key: e.key, Detail: detail}
	return e.err
}
