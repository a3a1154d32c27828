package ringws_test

import (
	"errors"
	"testing"

	ringws "github.com/reoring/ringws"
	"github.com/reoring/ringws/codec"
)

const resultJSON = `{
	"_id": "5c1f2b",
	"status": "complete",
	"pdbName": "1jsu",
	"fileName": null,
	"ringmd": "false",
	"chain": "A",
	"networkPolicy": "ca",
	"seqSeparation": 5,
	"thresholds": "{\"hbond\":5.5,\"vdw\":0.8,\"ionic\":5,\"pipi\":7,\"pication\":7,\"disulphide\":3}",
	"nohetero": "false",
	"nowater": true,
	"noenergy": "true",
	"allEdges": "true",
	"submitted": "2019-03-01",
	"nodes": [
		{"NodeId": "A:42:_:HIS", "Residue": "HIS", "Chain": "A", "Position": 42, "pdbFileName": "1jsu#42.A",
		 "Bfactor_CA": 12.5, "Degree": 3, "Accessibility": 0.25, "Tap": -1.5, "Rapdf": null,
		 "x": 1.0, "y": -2.5, "z": 3, "Dssp": " ", "Entropy": null, "MIcomulative": 0.75},
		{"NodeId": "A:-1:A:GLY", "Residue": "GLY", "Chain": "A", "Position": -1, "Dssp": "H", "extra": [1,2]}
	],
	"edges": [
		{"source": "A:42:_:HIS", "target": "A:-1:A:GLY", "Interaction": "HBOND:SC_MC", "Distance": 2.9,
		 "Angle": 156.2, "Energy": 17.0, "Atom1": "NE2", "Atom2": "O", "Donor": "A:42:_:HIS", "Positive": "",
		 "Cation": "", "Orientation": ""},
		{"source": "A:42:_:HIS", "target": "A:-1:A:GLY", "Interaction": "PIPISTACK:SC_SC", "Distance": 5.1,
		 "Angle": -999.9, "Energy": 9, "Atom1": "1.5,2.5,3.5", "Atom2": "-1,0,1", "Donor": "", "Positive": "",
		 "Cation": "", "Orientation": "P"}
	]
}`

func TestDecodeResultResponse(t *testing.T) {
	res, err := ringws.DecodeResultResponse([]byte(resultJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.JobID != "5c1f2b" || res.Status != ringws.StatusComplete || res.PDBID != "1jsu" || res.FileName != "" {
		t.Fatalf("envelope: %+v", res.StatusResponse)
	}

	want := ringws.Settings{
		Chain:              ringws.ChainID('A'),
		NetworkPolicy:      ringws.CAlpha,
		Interactions:       ringws.All,
		Thresholds:         ringws.RelaxedThresholds(),
		SequenceSeparation: 5,
		SkipHetero:         false,
		SkipWater:          true,
		SkipEnergy:         true,
	}
	if res.Settings != want {
		t.Fatalf("settings:\n got %+v\nwant %+v", res.Settings, want)
	}
	if v, ok := res.Echo.Get("submitted"); !ok || v != "2019-03-01" {
		t.Fatalf("unknown scalar members are echoed: %v %v", v, ok)
	}
	if _, ok := res.Echo.Get("nodes"); ok {
		t.Fatalf("nodes must not be echoed")
	}

	if len(res.Nodes) != 2 {
		t.Fatalf("nodes: %d", len(res.Nodes))
	}
	n := res.Nodes[0]
	if n.ID != (codec.NodeID{Chain: 'A', Position: 42, InsertionCode: '_', Residue: codec.His}) {
		t.Fatalf("node id: %+v", n.ID)
	}
	if n.Degree != 3 || n.BFactorCA != 12.5 || n.Z != 3 || n.DSSP != codec.Coil {
		t.Fatalf("node: %+v", n)
	}
	if n.TapEnergy == nil || *n.TapEnergy != -1.5 || n.RapdfEnergy != nil || n.Entropy != nil {
		t.Fatalf("optional energies: %+v", n)
	}
	if n.MutualInformation == nil || *n.MutualInformation != 0.75 {
		t.Fatalf("MIcomulative: %v", n.MutualInformation)
	}
	if res.Nodes[1].Position != -1 || res.Nodes[1].ID.InsertionCode != 'A' || res.Nodes[1].DSSP != codec.AlphaHelix {
		t.Fatalf("second node: %+v", res.Nodes[1])
	}

	if len(res.Edges) != 2 {
		t.Fatalf("edges: %d", len(res.Edges))
	}
	e := res.Edges[0]
	if e.Interaction != (codec.Interaction{Main: codec.HydrogenBond, Subtype1: codec.SideChain, Subtype2: codec.MainChain}) {
		t.Fatalf("interaction: %+v", e.Interaction)
	}
	if e.Angle != codec.SomeAngle(156.2) || !e.Donor.Valid || e.Positive.Valid {
		t.Fatalf("edge: %+v", e)
	}
	if name, ok := e.Atom1.Name(); !ok || name != "NE2" {
		t.Fatalf("atom1: %v", e.Atom1)
	}
	e2 := res.Edges[1]
	if e2.Angle.Valid {
		t.Fatalf("sentinel angle must be absent: %+v", e2.Angle)
	}
	if c, ok := e2.Atom1.Coords(); !ok || c != (codec.Coords{X: 1.5, Y: 2.5, Z: 3.5}) {
		t.Fatalf("atom1 coords: %v", e2.Atom1)
	}
	if e2.Energy != 9 || e2.Orientation != "P" {
		t.Fatalf("edge 2: %+v", e2)
	}
}

func TestDecodeResultResponse_CollectsIssues(t *testing.T) {
	data := []byte(`{"_id":"j","status":"complete","nodes":[{"NodeId":"A:1:_","Residue":"ALA","Chain":"A","Position":1}],
		"edges":[{"source":"A:1:_:ALA","target":"A:2:_:GLY","Interaction":"HBOND_MC_SC"},
		         {"source":"A:1:_:ALA","target":"A:2:_:GLY","Interaction":"VDW:MC_SC","Atom1":"a,b,c"}]}`)
	res, err := ringws.DecodeResultResponse(data)
	iss, ok := ringws.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	byPath := map[string]ringws.Issue{}
	for _, it := range iss {
		byPath[it.Path] = it
	}
	if it := byPath["/nodes/0/NodeId"]; it.Code != ringws.CodeFieldCount || it.InputFragment != "A:1:_" {
		t.Fatalf("node id issue: %+v (all: %v)", it, iss)
	}
	if it := byPath["/edges/0/Interaction"]; it.Code != ringws.CodeFieldCount || it.InputFragment != "HBOND_MC_SC" {
		t.Fatalf("interaction issue: %+v (all: %v)", it, iss)
	}
	if it := byPath["/edges/1/Atom1"]; it.Code != ringws.CodeInvalidNumber {
		t.Fatalf("atom issue: %+v (all: %v)", it, iss)
	}
	if len(iss) != 3 {
		t.Fatalf("issues: %v", iss)
	}
	var de *codec.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("codec errors must stay reachable through errors.As")
	}
	if len(res.Edges) != 2 || res.Edges[1].Interaction.Main != codec.VanDerWaals {
		t.Fatalf("partial result: %+v", res.Edges)
	}
}

func TestDecodeResultResponse_FailFast(t *testing.T) {
	data := []byte(`{"_id":"j","status":"complete","edges":[{"source":"x","target":"y","Interaction":"z"}]}`)
	_, err := ringws.DecodeResultResponse(data, ringws.DecodeOptions{FailFast: true})
	iss, ok := ringws.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "/edges/0/source" {
		t.Fatalf("fail fast: %v", err)
	}
}

func TestDecodeResultResponse_TypeAndRequired(t *testing.T) {
	data := []byte(`{"status":"db","nodes":[{"NodeId":"A:1:_:ALA","Residue":"ALA","Chain":"A","Position":"one"}],"edges":{}}`)
	_, err := ringws.DecodeResultResponse(data)
	iss, ok := ringws.AsIssues(err)
	if !ok {
		t.Fatalf("expected issues, got %v", err)
	}
	codes := map[string]string{}
	for _, it := range iss {
		codes[it.Path] = it.Code
	}
	if codes["/nodes/0/Position"] != ringws.CodeInvalidType {
		t.Fatalf("position: %v", iss)
	}
	if codes["/edges"] != ringws.CodeInvalidType {
		t.Fatalf("edges: %v", iss)
	}
	if codes["/_id"] != ringws.CodeRequired {
		t.Fatalf("_id: %v", iss)
	}
}

func TestDecodeSubmitResponse(t *testing.T) {
	sub, err := ringws.DecodeSubmitResponse([]byte(`{"jobid":"abc123","status":"db"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.JobID != "abc123" || sub.Status != ringws.StatusInProgress {
		t.Fatalf("submit: %+v", sub)
	}
	_, err = ringws.DecodeSubmitResponse([]byte(`{"jobid":"abc123","status":"running"}`))
	iss, ok := ringws.AsIssues(err)
	if !ok || iss[0].Code != ringws.CodeInvalidStatus || iss[0].InputFragment != "running" {
		t.Fatalf("unknown status: %v", err)
	}
}

func TestDecodeStatusResponse_Duplicates(t *testing.T) {
	data := []byte(`{"_id":"j","status":"db","status":"partial"}`)

	st, err := ringws.DecodeStatusResponse(data)
	if err != nil || st.Status != ringws.StatusPartial {
		t.Fatalf("ignore: %+v %v", st, err)
	}

	st, err = ringws.DecodeStatusResponse(data, ringws.DecodeOptions{OnDuplicateKey: ringws.Warn})
	if err != nil || len(st.Warnings) != 1 || st.Warnings[0].Path != "/status" {
		t.Fatalf("warn: %+v %v", st.Warnings, err)
	}

	_, err = ringws.DecodeStatusResponse(data, ringws.DecodeOptions{OnDuplicateKey: ringws.Error})
	iss, ok := ringws.AsIssues(err)
	if !ok || iss[0].Code != ringws.CodeDuplicateKey {
		t.Fatalf("error: %v", err)
	}
}

func TestDecodeStatusResponse_Limits(t *testing.T) {
	_, err := ringws.DecodeStatusResponse([]byte(`{"_id":"j","status":"db","x":{"y":{}}}`), ringws.DecodeOptions{MaxDepth: 2})
	if iss, ok := ringws.AsIssues(err); !ok || iss[0].Code != ringws.CodeMaxDepth {
		t.Fatalf("depth: %v", err)
	}
	_, err = ringws.DecodeStatusResponse([]byte(`{"_id":"j","status":"db"}`), ringws.DecodeOptions{MaxBytes: 4})
	if iss, ok := ringws.AsIssues(err); !ok || iss[0].Code != ringws.CodeTruncated {
		t.Fatalf("bytes: %v", err)
	}
	_, err = ringws.DecodeStatusResponse([]byte(`{"_id":`))
	if iss, ok := ringws.AsIssues(err); !ok || iss[0].Code != ringws.CodeParseError {
		t.Fatalf("syntax: %v", err)
	}
	_, err = ringws.DecodeStatusResponse([]byte(`[]`))
	if iss, ok := ringws.AsIssues(err); !ok || iss[0].Code != ringws.CodeParseError {
		t.Fatalf("array: %v", err)
	}
}

func TestDecodeStatusResponse_SettingsPresence(t *testing.T) {
	st, err := ringws.DecodeStatusResponse([]byte(`{"_id":"j","status":"db","chain":null,"nowater":"false","msa":null,"comment":null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	pm := st.SettingsPresence
	if !pm.Has(ringws.WireChain, ringws.PresenceSeen|ringws.PresenceWasNull|ringws.PresenceDefaultApplied) {
		t.Fatalf("chain: %b", pm[ringws.WireChain])
	}
	if st.Settings.Chain != ringws.AllChains() {
		t.Fatalf("null chain must keep the default: %v", st.Settings.Chain)
	}
	if !pm.Has(ringws.WireMSA, ringws.PresenceSeen|ringws.PresenceWasNull) || st.Settings.PerformMSA {
		t.Fatalf("msa: %b %v", pm[ringws.WireMSA], st.Settings.PerformMSA)
	}
	if pm.Has(ringws.WireNoWater, ringws.PresenceWasNull) || !pm.Has(ringws.WireNoWater, ringws.PresenceSeen) || st.Settings.SkipWater {
		t.Fatalf("nowater: %b %v", pm[ringws.WireNoWater], st.Settings.SkipWater)
	}
	if _, ok := pm["comment"]; ok {
		t.Fatalf("unknown keys carry no presence")
	}
	if _, ok := st.Echo.Get("chain"); ok {
		t.Fatalf("null members are not echoed")
	}
}

func TestDecodeResultResponse_NestedDuplicate(t *testing.T) {
	data := []byte(`{"_id":"j","status":"complete","nodes":[],"edges":[{"source":"A:1:_:ALA","target":"A:5:_:GLY","Interaction":"VDW:MC_SC","Distance":3.9,"Distance":4.1}]}`)
	res, err := ringws.DecodeResultResponse(data, ringws.DecodeOptions{OnDuplicateKey: ringws.Warn})
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Path != "/edges/0/Distance" {
		t.Fatalf("warnings: %+v", res.Warnings)
	}
	if len(res.Edges) != 1 || res.Edges[0].Distance != 4.1 {
		t.Fatalf("last value wins: %+v", res.Edges)
	}

	_, err = ringws.DecodeResultResponse(data, ringws.DecodeOptions{OnDuplicateKey: ringws.Error})
	iss, ok := ringws.AsIssues(err)
	if !ok || iss[0].Code != ringws.CodeDuplicateKey || iss[0].Path != "/edges/0/Distance" {
		t.Fatalf("error: %v", err)
	}
}
