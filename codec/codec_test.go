package codec_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/ringws/codec"
)

func TestNodeID_RoundTrip(t *testing.T) {
	ids := []codec.NodeID{
		{Chain: 'A', Position: 42, InsertionCode: codec.NoInsertion, Residue: codec.His},
		{Chain: 'B', Position: 0, InsertionCode: 'A', Residue: codec.Gly},
		{Chain: 'Z', Position: -7, InsertionCode: codec.NoInsertion, Residue: codec.Unknown},
		{Chain: 'c', Position: 1000, InsertionCode: 'B', Residue: codec.Xle},
	}
	for _, id := range ids {
		s := id.String()
		got, err := codec.ParseNodeID(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got != id {
			t.Fatalf("round trip %q: got %+v want %+v", s, got, id)
		}
	}
}

func TestNodeID_Canonical(t *testing.T) {
	id, err := codec.ParseNodeID("A:-3:_:ALA")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.Chain != 'A' || id.Position != -3 || id.InsertionCode != '_' || id.Residue != codec.Ala {
		t.Fatalf("unexpected id: %+v", id)
	}
	if id.String() != "A:-3:_:ALA" {
		t.Fatalf("render: %q", id.String())
	}
}

func TestNodeID_Errors(t *testing.T) {
	cases := []struct {
		in   string
		code string
	}{
		{"A:42:_", codec.CodeFieldCount},
		{"A:42:_:HIS:X", codec.CodeFieldCount},
		{"", codec.CodeFieldCount},
		{"A:forty:_:HIS", codec.CodeInvalidNumber},
		{"AB:42:_:HIS", codec.CodeInvalidChar},
		{"A:42::HIS", codec.CodeInvalidChar},
		{"A:42:_:his", codec.CodeInvalidEnum},
		{"A:42:_:FOO", codec.CodeInvalidEnum},
	}
	for _, tc := range cases {
		_, err := codec.ParseNodeID(tc.in)
		var de *codec.DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%q: expected *DecodeError, got %v", tc.in, err)
		}
		if de.Code != tc.code {
			t.Errorf("%q: code %q, want %q", tc.in, de.Code, tc.code)
		}
		if de.Input != tc.in {
			t.Errorf("%q: error carries input %q", tc.in, de.Input)
		}
	}
}

// A colon chain or insertion code cannot be told apart from the separator.
func TestNodeID_ColonDoesNotRoundTrip(t *testing.T) {
	for _, id := range []codec.NodeID{
		{Chain: ':', Position: 1, InsertionCode: codec.NoInsertion, Residue: codec.Ala},
		{Chain: 'A', Position: 1, InsertionCode: ':', Residue: codec.Ala},
	} {
		_, err := codec.ParseNodeID(id.String())
		var de *codec.DecodeError
		if !errors.As(err, &de) || de.Code != codec.CodeFieldCount {
			t.Fatalf("%q: expected field_count, got %v", id.String(), err)
		}
	}
}

func TestNodeID_BadPositionUnwrapsToStrconv(t *testing.T) {
	_, err := codec.ParseNodeID("A:x:_:HIS")
	var ne *strconv.NumError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *strconv.NumError in chain, got %v", err)
	}
}

func TestNullNodeID(t *testing.T) {
	n, err := codec.ParseNullNodeID("")
	if err != nil || n.Valid {
		t.Fatalf("empty: %+v %v", n, err)
	}
	if n.String() != "" {
		t.Fatalf("render empty: %q", n.String())
	}
	n, err = codec.ParseNullNodeID("A:1:_:LYS")
	if err != nil || !n.Valid || n.NodeID.Residue != codec.Lys {
		t.Fatalf("present: %+v %v", n, err)
	}
	if _, err := codec.ParseNullNodeID("A:1"); err == nil {
		t.Fatalf("expected error for malformed non-empty id")
	}
}

func TestInteraction_RoundTrip(t *testing.T) {
	mains := []codec.InteractionMainType{codec.HydrogenBond, codec.VanDerWaals, codec.Disulphide, codec.Ionic, codec.PiPiStack, codec.PiCation}
	subs := []codec.InteractionSubType{codec.MainChain, codec.SideChain, codec.Ligand}
	for _, m := range mains {
		for _, s1 := range subs {
			for _, s2 := range subs {
				in := codec.Interaction{Main: m, Subtype1: s1, Subtype2: s2}
				got, err := codec.ParseInteraction(in.String())
				if err != nil {
					t.Fatalf("parse %q: %v", in.String(), err)
				}
				if got != in {
					t.Fatalf("round trip %q: got %+v", in.String(), got)
				}
			}
		}
	}
}

func TestInteraction_Errors(t *testing.T) {
	cases := []struct {
		in   string
		code string
	}{
		{"HBOND_MC_SC", codec.CodeFieldCount},
		{"HBOND:MC:SC", codec.CodeFieldCount},
		{"HBOND:MC_SC_LIG", codec.CodeFieldCount},
		{"HBOND:MCSC", codec.CodeFieldCount},
		{"HYDRO:MC_SC", codec.CodeInvalidEnum},
		{"HBOND:MC_XX", codec.CodeInvalidEnum},
	}
	for _, tc := range cases {
		_, err := codec.ParseInteraction(tc.in)
		var de *codec.DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%q: expected *DecodeError, got %v", tc.in, err)
		}
		if de.Code != tc.code {
			t.Errorf("%q: code %q, want %q", tc.in, de.Code, tc.code)
		}
	}
}

func TestAtom(t *testing.T) {
	a, err := codec.ParseAtom("12.5,3.0,-4.25")
	if err != nil {
		t.Fatalf("coords: %v", err)
	}
	c, ok := a.Coords()
	if !ok || c != (codec.Coords{X: 12.5, Y: 3.0, Z: -4.25}) {
		t.Fatalf("coords: %+v ok=%v", c, ok)
	}

	a, err = codec.ParseAtom("CA")
	if name, ok := a.Name(); err != nil || !ok || name != "CA" {
		t.Fatalf("name: %q ok=%v err=%v", name, ok, err)
	}

	// Four fields fall back to a name.
	a, err = codec.ParseAtom("1,2,3,4")
	if name, ok := a.Name(); err != nil || !ok || name != "1,2,3,4" {
		t.Fatalf("four fields: %q ok=%v err=%v", name, ok, err)
	}

	a, err = codec.ParseAtom("1,2")
	if name, ok := a.Name(); err != nil || !ok || name != "1,2" {
		t.Fatalf("two fields: %q ok=%v err=%v", name, ok, err)
	}
}

// Three non-numeric fields are an error, not a name. The service never sends
// such names, and callers rely on the error to spot corrupt coordinates.
func TestAtom_ThreeFieldQuirk(t *testing.T) {
	_, err := codec.ParseAtom("a,b,c")
	var de *codec.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if de.Code != codec.CodeInvalidNumber || de.Input != "a,b,c" {
		t.Fatalf("unexpected error: %+v", de)
	}
}

func TestAtom_DecimalOnly(t *testing.T) {
	for _, in := range []string{"0x1p1,1,1", "1,-0X2p0,1", "NaN,0,0", "1,Inf,2"} {
		_, err := codec.ParseAtom(in)
		var de *codec.DecodeError
		if !errors.As(err, &de) || de.Code != codec.CodeInvalidNumber || de.Input != in {
			t.Fatalf("%q: expected invalid_number, got %v", in, err)
		}
	}
	a, err := codec.ParseAtom("+0.5,-0,1e2")
	if c, ok := a.Coords(); err != nil || !ok || c != (codec.Coords{X: 0.5, Y: 0, Z: 100}) {
		t.Fatalf("decimal forms: %+v %v", a, err)
	}
}

func TestAtom_RoundTrip(t *testing.T) {
	atoms := []codec.Atom{
		codec.AtomName("NZ"),
		codec.AtomName("1,2"),
		codec.AtomCoords(1.5, -2, 0.125),
	}
	for _, a := range atoms {
		got, err := codec.ParseAtom(a.String())
		if err != nil {
			t.Fatalf("parse %q: %v", a.String(), err)
		}
		if got != a {
			t.Fatalf("round trip %q: got %+v want %+v", a.String(), got, a)
		}
	}
}

func TestAngle(t *testing.T) {
	if got := (codec.Angle{}).String(); got != "-999.9" {
		t.Fatalf("render none: %q", got)
	}
	a, err := codec.ParseAngle(json.Number("-999.9"))
	if err != nil || a.Valid {
		t.Fatalf("sentinel: %+v %v", a, err)
	}
	a, err = codec.ParseAngle(json.Number("45.0"))
	if err != nil || a != codec.SomeAngle(45) {
		t.Fatalf("float: %+v %v", a, err)
	}
	a, err = codec.ParseAngle(json.Number("90"))
	if err != nil || a != codec.SomeAngle(90) {
		t.Fatalf("integer: %+v %v", a, err)
	}
	a, err = codec.ParseAngle(json.Number("-999"))
	if err != nil || a != codec.SomeAngle(-999) {
		t.Fatalf("near sentinel: %+v %v", a, err)
	}
}

func TestAngleString(t *testing.T) {
	a, err := codec.ParseAngleString("-999.9")
	if err != nil || a.Valid {
		t.Fatalf("sentinel: %+v %v", a, err)
	}
	a, err = codec.ParseAngleString("90")
	if err != nil || a != codec.SomeAngle(90) {
		t.Fatalf("integer: %+v %v", a, err)
	}
	for _, in := range []string{"abc", "", "NaN", "-Inf", "+Inf", "0x1p5"} {
		_, err := codec.ParseAngleString(in)
		var de *codec.DecodeError
		if !errors.As(err, &de) || de.Code != codec.CodeInvalidNumber || de.Input != in {
			t.Fatalf("%q: expected invalid_number, got %v", in, err)
		}
	}
}

func TestAngle_JSON(t *testing.T) {
	var v struct {
		A codec.Angle `json:"a"`
		B codec.Angle `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":-999.9,"b":12.5}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A.Valid || !v.B.Valid || v.B.Degrees != 12.5 {
		t.Fatalf("decoded: %+v", v)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":-999.9,"b":12.5}` {
		t.Fatalf("marshal: %s", out)
	}
}

func TestResidueAndDSSP(t *testing.T) {
	for _, tok := range []string{"ALA", "ASX", "GLX", "XLE", "UNK", "SEC"} {
		r, err := codec.ParseResidue(tok)
		if err != nil || r.String() != tok {
			t.Fatalf("residue %q: %v %v", tok, r, err)
		}
	}
	d, err := codec.ParseDSSP(" ")
	if err != nil || d != codec.Coil {
		t.Fatalf("space dssp: %v %v", d, err)
	}
	if codec.Coil.String() != " " {
		t.Fatalf("coil renders %q", codec.Coil.String())
	}
	if _, err := codec.ParseDSSP(""); err == nil {
		t.Fatalf("empty dssp should fail")
	}
	if d, _ := codec.ParseDSSP("H"); d != codec.AlphaHelix {
		t.Fatalf("H parsed as %v", d)
	}
}

func TestTextCodec(t *testing.T) {
	ctx := context.Background()
	id, err := codec.NodeIDs.Decode(ctx, "A:5:_:CYS")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s, err := codec.NodeIDs.Encode(ctx, id)
	if err != nil || s != "A:5:_:CYS" {
		t.Fatalf("encode: %q %v", s, err)
	}
	if _, err := codec.Interactions.Decode(ctx, "VDW"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTextMarshaling(t *testing.T) {
	var v struct {
		ID   codec.NodeID      `json:"id"`
		Kind codec.Interaction `json:"kind"`
		Atom codec.Atom        `json:"atom"`
	}
	in := `{"id":"A:1:_:ARG","kind":"IONIC:SC_SC","atom":"1,2,3"}`
	if err := json.Unmarshal([]byte(in), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.ID.Residue != codec.Arg || v.Kind.Main != codec.Ionic {
		t.Fatalf("decoded: %+v", v)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("marshal: %s", out)
	}
}
