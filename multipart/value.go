package multipart

import "strconv"

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindInt
	KindFloat
	KindChar
	KindString
	KindBytes
	KindOption
	KindFile
	KindRecord
	KindSeq
)

var kindNames = [...]string{
	KindUnit:   "unit",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindChar:   "char",
	KindString: "string",
	KindBytes:  "bytes",
	KindOption: "option",
	KindFile:   "file",
	KindRecord: "record",
	KindSeq:    "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// NamedFile is textual file contents paired with the file name the server
// should see.
type NamedFile struct {
	Contents string
	FileName string
}

// Field is one key/value pair of a record. Keys are usually strings, but any
// scalar renders to text.
type Field struct {
	Key   Value
	Value Value
}

// Entry builds a string-keyed Field.
func Entry(key string, v Value) Field { return Field{Key: String(key), Value: v} }

// Value is the closed set of shapes accepted by the encoder. The zero Value is
// Unit.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	c      rune
	s      string
	blob   []byte
	elem   *Value // Option payload, nil for None.
	file   NamedFile
	fields []Field
	items  []Value
}

func Unit() Value                  { return Value{kind: KindUnit} }
func Bool(b bool) Value            { return Value{kind: KindBool, b: b} }
func Int(i int64) Value            { return Value{kind: KindInt, i: i} }
func Float(f float64) Value        { return Value{kind: KindFloat, f: f} }
func Char(c rune) Value            { return Value{kind: KindChar, c: c} }
func String(s string) Value        { return Value{kind: KindString, s: s} }
func Bytes(b []byte) Value         { return Value{kind: KindBytes, blob: b} }
func None() Value                  { return Value{kind: KindOption} }
func Seq(items ...Value) Value     { return Value{kind: KindSeq, items: items} }
func Record(fields ...Field) Value { return Value{kind: KindRecord, fields: fields} }

// Some wraps v as a present optional value.
func Some(v Value) Value { return Value{kind: KindOption, elem: &v} }

// File builds the two-field file composite: contents first, then file name.
func File(contents, fileName string) Value {
	return Value{kind: KindFile, file: NamedFile{Contents: contents, FileName: fileName}}
}

// Kind reports the shape of v.
func (v Value) Kind() Kind { return v.kind }

// Fields returns the record fields in insertion order. It is nil for
// non-record values.
func (v Value) Fields() []Field { return v.fields }

// Elem returns the payload of a present Option.
func (v Value) Elem() (Value, bool) {
	if v.kind != KindOption || v.elem == nil {
		return Value{}, false
	}
	return *v.elem, true
}

// NamedFile returns the file composite held by a File value.
func (v Value) NamedFile() (NamedFile, bool) {
	if v.kind != KindFile {
		return NamedFile{}, false
	}
	return v.file, true
}

// text renders a scalar the way it appears in a text part. ok is false for
// shapes that have no textual form.
func (v Value) text() (s string, ok bool) {
	switch v.kind {
	case KindUnit:
		return "null", true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64), true
	case KindChar:
		return string(v.c), true
	case KindString:
		return v.s, true
	case KindOption:
		if v.elem == nil {
			return "null", true
		}
		return v.elem.text()
	}
	return "", false
}
