package ringws

import (
	"strconv"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// WireMap is the flattened, string-valued form of Settings. Iteration order is
// insertion order.
type WireMap = orderedmap.OrderedMap[string, string]

// NewWireMap returns an empty WireMap.
func NewWireMap() *WireMap { return orderedmap.New[string, string]() }

// Wire keys understood by the service.
const (
	WireRingMD        = "ringmd"
	WireChain         = "chain"
	WireNetworkPolicy = "networkPolicy"
	WireSeqSeparation = "seqSeparation"
	WireThresholds    = "thresholds"
	WireNoHetero      = "nohetero"
	WireNoWater       = "nowater"
	WireNoEnergy      = "noenergy"
	WireMSA           = "msa"
	WireAllEdges      = "allEdges"
	WireOnlyFirstEdge = "onlyFirstEdge"
	WireNoSpecific    = "nospecific"
)

var interactionFlags = map[InteractionType]string{
	All:           WireAllEdges,
	MostEnergetic: WireOnlyFirstEdge,
	NoSpecific:    WireNoSpecific,
}

// ToWire renders s in the service's flattened form. Keys always appear in the
// same order; msa and the interaction flag are present only when set.
func (s Settings) ToWire() *WireMap {
	m := NewWireMap()
	s.AppendWire(m)
	return m
}

// AppendWire writes the wire entries of s into m after whatever m holds.
func (s Settings) AppendWire(m *WireMap) {
	m.Set(WireRingMD, "false")
	m.Set(WireChain, s.Chain.String())
	m.Set(WireNetworkPolicy, s.NetworkPolicy.String())
	m.Set(WireSeqSeparation, strconv.Itoa(s.SequenceSeparation))
	m.Set(WireThresholds, s.Thresholds.wireJSON())
	m.Set(WireNoHetero, strconv.FormatBool(s.SkipHetero))
	m.Set(WireNoWater, strconv.FormatBool(s.SkipWater))
	m.Set(WireNoEnergy, strconv.FormatBool(s.SkipEnergy))
	if s.PerformMSA {
		m.Set(WireMSA, "true")
	}
	if key, ok := interactionFlags[s.Interactions]; ok {
		m.Set(key, "true")
	}
}

func (t Thresholds) wireJSON() string {
	b, err := json.Marshal(t)
	if err != nil {
		// Six plain float fields always marshal.
		panic("ringws: marshal thresholds: " + err.Error())
	}
	return string(b)
}

// SettingsFromWire rebuilds Settings from the flattened form. It never fails:
// unknown keys are ignored and missing or malformed values fall back to the
// defaults.
func SettingsFromWire(m *WireMap) Settings {
	return SettingsFromWireWithMeta(m).Value
}

// SettingsFromWireWithMeta is SettingsFromWire plus a PresenceMap keyed by wire
// key. Recognised keys that were read are marked PresenceSeen; defaulted
// fields are marked PresenceDefaultApplied, including those that were present
// but could not be parsed.
func SettingsFromWireWithMeta(m *WireMap) Decoded[Settings] {
	s := DefaultSettings()
	pm := PresenceMap{}
	if m != nil {
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if !s.applyWire(pair.Key, pair.Value) {
				if _, known := wireDefaulted[pair.Key]; known {
					pm[pair.Key] |= PresenceSeen | PresenceDefaultApplied
				}
				continue
			}
			pm[pair.Key] |= PresenceSeen
		}
	}
	for key := range wireDefaulted {
		if pm[key]&PresenceSeen == 0 {
			pm[key] |= PresenceDefaultApplied
		}
	}
	return Decoded[Settings]{Value: s, Presence: pm}
}

// settingsFromEcho rebuilds the echoed settings of a status response. nulls
// names the top-level members that were sent as null; recognised ones are
// marked PresenceSeen|PresenceWasNull and keep their default.
func settingsFromEcho(m *WireMap, nulls []string) Decoded[Settings] {
	dm := SettingsFromWireWithMeta(m)
	for _, key := range nulls {
		if isWireKey(key) {
			dm.Presence[key] |= PresenceSeen | PresenceWasNull
		}
	}
	return dm
}

func isWireKey(key string) bool {
	switch key {
	case WireRingMD, WireChain, WireNetworkPolicy, WireSeqSeparation, WireThresholds,
		WireNoHetero, WireNoWater, WireNoEnergy, WireMSA, WireAllEdges, WireOnlyFirstEdge, WireNoSpecific:
		return true
	}
	return false
}

// wireDefaulted lists the keys whose absence means "use the default" rather
// than "off".
var wireDefaulted = map[string]struct{}{
	WireChain:         {},
	WireNetworkPolicy: {},
	WireSeqSeparation: {},
	WireThresholds:    {},
	WireNoHetero:      {},
	WireNoWater:       {},
	WireNoEnergy:      {},
}

// applyWire sets the field named by key. It returns false for unknown keys
// and for values that do not parse, leaving s unchanged.
func (s *Settings) applyWire(key, value string) bool {
	switch key {
	case WireRingMD:
		return true
	case WireChain:
		c, err := ParseChain(value)
		if err != nil {
			return false
		}
		s.Chain = c
	case WireNetworkPolicy:
		p, err := ParseNetworkPolicy(value)
		if err != nil {
			return false
		}
		s.NetworkPolicy = p
	case WireSeqSeparation:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return false
		}
		s.SequenceSeparation = n
	case WireThresholds:
		t := StrictThresholds()
		if err := json.Unmarshal([]byte(value), &t); err != nil {
			return false
		}
		s.Thresholds = t
	case WireNoHetero, WireNoWater, WireNoEnergy:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		switch key {
		case WireNoHetero:
			s.SkipHetero = b
		case WireNoWater:
			s.SkipWater = b
		default:
			s.SkipEnergy = b
		}
	case WireMSA:
		s.PerformMSA = flagOn(value)
	case WireAllEdges, WireOnlyFirstEdge, WireNoSpecific:
		if !flagOn(value) {
			return true
		}
		for t, k := range interactionFlags {
			if k == key {
				s.Interactions = t
			}
		}
	default:
		return false
	}
	return true
}

// flagOn interprets a presence-as-flag key. Only an explicit "false" turns
// the flag off.
func flagOn(value string) bool { return value != "false" }
