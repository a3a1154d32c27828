package ringws

import (
	"github.com/reoring/ringws/codec"
	eng "github.com/reoring/ringws/internal/engine"
)

// SubmitResponse is the answer to a submission.
type SubmitResponse struct {
	JobID  JobID
	Status JobStatus // Usually StatusInProgress.
}

// StatusResponse describes a job. The service echoes the submitted settings
// as flattened top-level members; Echo keeps every scalar member that is not
// part of the envelope, in input order, and Settings is rebuilt from it.
type StatusResponse struct {
	JobID    JobID
	Status   JobStatus
	PDBID    string // Set when the job was submitted by PDB id.
	FileName string // Set when the job was submitted as a file.
	Settings Settings
	// SettingsPresence records, per wire key, whether the echoed setting was
	// present, null or defaulted.
	SettingsPresence PresenceMap
	Echo             *WireMap
	// Warnings holds non-fatal issues such as duplicate keys under Warn.
	Warnings Issues
}

// ResultResponse is the interaction graph of a finished job.
type ResultResponse struct {
	StatusResponse
	Nodes []Node
	Edges []Edge
}

// Node is a residue of the interaction graph.
type Node struct {
	ID            codec.NodeID
	Residue       codec.Residue
	Chain         string
	Position      int // PDB numbering; may be zero or negative.
	PDBFileName   string
	BFactorCA     float64
	Degree        int
	Accessibility float64 // Relative solvent accessibility.
	TapEnergy     *float64
	RapdfEnergy   *float64
	X, Y, Z       float64
	DSSP          codec.DSSP
	Entropy       *float64 // Only with PerformMSA.
	// MutualInformation is the cumulative mutual information, sent as
	// "MIcomulative". Only with PerformMSA.
	MutualInformation *float64
}

// Edge is an interaction between two residues.
type Edge struct {
	Source      codec.NodeID
	Target      codec.NodeID
	Interaction codec.Interaction
	Distance    float64
	Angle       codec.Angle
	Energy      float64
	Atom1       codec.Atom
	Atom2       codec.Atom
	Donor       codec.NullNodeID
	Positive    codec.NullNodeID
	Cation      codec.NullNodeID
	Orientation string
}

type memberField[T any] struct {
	key      string
	required bool
	set      func(d *decoder, p PathRef, v any, dst *T)
}

var nodeFields = []memberField[Node]{
	{"NodeId", true, func(d *decoder, p PathRef, v any, n *Node) { n.ID = compact(d, p, v, codec.ParseNodeID) }},
	{"Residue", true, func(d *decoder, p PathRef, v any, n *Node) { n.Residue = compact(d, p, v, codec.ParseResidue) }},
	{"Chain", true, func(d *decoder, p PathRef, v any, n *Node) { n.Chain, _ = d.str(p, v) }},
	{"Position", true, func(d *decoder, p PathRef, v any, n *Node) { n.Position = d.integer(p, v) }},
	{"pdbFileName", false, func(d *decoder, p PathRef, v any, n *Node) { n.PDBFileName, _ = d.str(p, v) }},
	{"Bfactor_CA", false, func(d *decoder, p PathRef, v any, n *Node) { n.BFactorCA = d.float(p, v) }},
	{"Degree", false, func(d *decoder, p PathRef, v any, n *Node) { n.Degree = d.integer(p, v) }},
	{"Accessibility", false, func(d *decoder, p PathRef, v any, n *Node) { n.Accessibility = d.float(p, v) }},
	{"Tap", false, func(d *decoder, p PathRef, v any, n *Node) { n.TapEnergy = d.optFloat(p, v) }},
	{"Rapdf", false, func(d *decoder, p PathRef, v any, n *Node) { n.RapdfEnergy = d.optFloat(p, v) }},
	{"x", false, func(d *decoder, p PathRef, v any, n *Node) { n.X = d.float(p, v) }},
	{"y", false, func(d *decoder, p PathRef, v any, n *Node) { n.Y = d.float(p, v) }},
	{"z", false, func(d *decoder, p PathRef, v any, n *Node) { n.Z = d.float(p, v) }},
	{"Dssp", false, func(d *decoder, p PathRef, v any, n *Node) { n.DSSP = compact(d, p, v, codec.ParseDSSP) }},
	{"Entropy", false, func(d *decoder, p PathRef, v any, n *Node) { n.Entropy = d.optFloat(p, v) }},
	{"MIcomulative", false, func(d *decoder, p PathRef, v any, n *Node) { n.MutualInformation = d.optFloat(p, v) }},
}

var edgeFields = []memberField[Edge]{
	{"source", true, func(d *decoder, p PathRef, v any, e *Edge) { e.Source = compact(d, p, v, codec.ParseNodeID) }},
	{"target", true, func(d *decoder, p PathRef, v any, e *Edge) { e.Target = compact(d, p, v, codec.ParseNodeID) }},
	{"Interaction", true, func(d *decoder, p PathRef, v any, e *Edge) { e.Interaction = compact(d, p, v, codec.ParseInteraction) }},
	{"Distance", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Distance = d.float(p, v) }},
	{"Angle", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Angle = d.angle(p, v) }},
	{"Energy", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Energy = d.float(p, v) }},
	{"Atom1", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Atom1 = compact(d, p, v, codec.ParseAtom) }},
	{"Atom2", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Atom2 = compact(d, p, v, codec.ParseAtom) }},
	{"Donor", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Donor = compact(d, p, v, codec.ParseNullNodeID) }},
	{"Positive", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Positive = compact(d, p, v, codec.ParseNullNodeID) }},
	{"Cation", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Cation = compact(d, p, v, codec.ParseNullNodeID) }},
	{"Orientation", false, func(d *decoder, p PathRef, v any, e *Edge) { e.Orientation, _ = d.str(p, v) }},
}

// angle treats null like the sentinel.
func (d *decoder) angle(p PathRef, v any) codec.Angle {
	if v == nil {
		return codec.Angle{}
	}
	n, ok := d.number(p, v)
	if !ok {
		return codec.Angle{}
	}
	a, err := codec.ParseAngle(n)
	if err != nil {
		d.codecIssue(p, string(n), err)
	}
	return a
}

// object decodes one graph element. Unknown members are ignored.
func object[T any](d *decoder, p PathRef, v any, fields []memberField[T]) (T, bool) {
	var out T
	m, ok := v.(map[string]any)
	if !ok {
		d.invalidType(p, "object")
		return out, false
	}
	for _, f := range fields {
		if d.stop {
			break
		}
		raw, present := m[f.key]
		if !present {
			if f.required {
				d.add(p.Field(f.key).Issue(CodeRequired, map[string]any{"key": f.key}))
			}
			continue
		}
		f.set(d, p.Field(f.key), raw, &out)
	}
	return out, true
}

func list[T any](d *decoder, p PathRef, v any, fields []memberField[T]) []T {
	arr, ok := v.([]any)
	if !ok {
		d.invalidType(p, "array")
		return nil
	}
	out := make([]T, 0, len(arr))
	for i, el := range arr {
		if d.stop {
			break
		}
		if t, ok := object(d, p.Index(i), el, fields); ok {
			out = append(out, t)
		}
	}
	return out
}

// envelope fills the status part of a response from the top-level members.
// extra receives members the envelope does not know; it returns true when it
// consumed the member.
func (d *decoder) envelope(ms []eng.Member, sr *StatusResponse, extra func(eng.Member) bool) {
	sr.Echo = NewWireMap()
	var sawID, sawStatus bool
	var nulls []string
	root := Root()
	for _, m := range ms {
		if d.stop {
			return
		}
		p := root.Field(m.Key)
		switch m.Key {
		case "_id", "jobid":
			if s, ok := d.str(p, m.Value); ok {
				sr.JobID = JobID(s)
				sawID = true
			}
		case "status":
			s, ok := d.str(p, m.Value)
			if !ok {
				continue
			}
			sawStatus = true
			st, err := ParseJobStatus(s)
			if err != nil {
				d.add(Issue{Path: p.Pointer(), Code: CodeInvalidStatus, InputFragment: s, Cause: err})
				continue
			}
			sr.Status = st
		case "pdbName":
			if m.Value != nil {
				sr.PDBID, _ = d.str(p, m.Value)
			}
		case "fileName":
			if m.Value != nil {
				sr.FileName, _ = d.str(p, m.Value)
			}
		default:
			if extra != nil && extra(m) {
				continue
			}
			if m.Value == nil {
				nulls = append(nulls, m.Key)
			} else if s, ok := scalarText(m.Value); ok {
				sr.Echo.Set(m.Key, s)
			}
		}
	}
	if d.stop {
		return
	}
	if !sawID {
		d.add(root.Field("_id").Issue(CodeRequired, map[string]any{"key": "_id"}))
	}
	if !sawStatus && !d.stop {
		d.add(root.Field("status").Issue(CodeRequired, map[string]any{"key": "status"}))
	}
	dm := settingsFromEcho(sr.Echo, nulls)
	sr.Settings, sr.SettingsPresence = dm.Value, dm.Presence
	sr.Warnings = d.warnings
}

// DecodeSubmitResponse decodes the answer of the submit endpoint.
func DecodeSubmitResponse(data []byte, opts ...DecodeOptions) (SubmitResponse, error) {
	d := newDecoder(opts)
	var sr StatusResponse
	d.envelope(d.members(data), &sr, nil)
	return SubmitResponse{JobID: sr.JobID, Status: sr.Status}, d.err()
}

// DecodeStatusResponse decodes the answer of the status endpoint. On error
// the partially decoded response is returned together with Issues.
func DecodeStatusResponse(data []byte, opts ...DecodeOptions) (StatusResponse, error) {
	d := newDecoder(opts)
	var sr StatusResponse
	d.envelope(d.members(data), &sr, nil)
	return sr, d.err()
}

// DecodeResultResponse decodes the answer of the results endpoint. Every
// compact string of every node and edge goes through the codecs, so one
// malformed edge yields an Issue pointing at it, e.g. /edges/3/Interaction.
// On error the partially decoded response is returned together with Issues.
func DecodeResultResponse(data []byte, opts ...DecodeOptions) (ResultResponse, error) {
	d := newDecoder(opts)
	var rr ResultResponse
	d.envelope(d.members(data), &rr.StatusResponse, func(m eng.Member) bool {
		switch m.Key {
		case "nodes":
			rr.Nodes = list(d, Root().Field("nodes"), m.Value, nodeFields)
		case "edges":
			rr.Edges = list(d, Root().Field("edges"), m.Value, edgeFields)
		default:
			return false
		}
		return true
	})
	return rr, d.err()
}
