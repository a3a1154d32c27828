// Package codec parses and renders the compact strings that the RING service
// packs into single JSON string fields.
//
// Each grammar is strict and fails fast on the field count before looking at
// the components:
//
//	node id      "A:42:_:HIS"       chain:position:insertion:residue
//	interaction  "HBOND:MC_SC"      main:sub1_sub2
//	atom         "CA" or "1.5,2,3"  name, or exactly three floats
//	angle        -999.9             JSON number; the sentinel means absent
//
// Parse functions return *DecodeError carrying the offending raw string;
// String methods are total and produce the canonical form, so
// Parse(x.String()) == x for well-formed values.
//
// One asymmetry is kept for compatibility with the service: an atom string
// whose comma count is not two is a name, but a three-field string with a
// non-numeric field is an error rather than a name.
package codec
