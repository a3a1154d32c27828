package ringws

import (
	"fmt"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Settings are the job parameters sent with a submission and echoed back by
// the status and result endpoints. The zero value is not the service default;
// use DefaultSettings.
type Settings struct {
	Chain              Chain           `yaml:"chain" json:"chain"`
	NetworkPolicy      NetworkPolicy   `yaml:"networkPolicy" json:"networkPolicy"`
	Interactions       InteractionType `yaml:"interactions" json:"interactions"`
	Thresholds         Thresholds      `yaml:"thresholds" json:"thresholds"`
	SequenceSeparation int             `yaml:"sequenceSeparation" json:"sequenceSeparation"`
	SkipHetero         bool            `yaml:"skipHetero" json:"skipHetero"`
	SkipWater          bool            `yaml:"skipWater" json:"skipWater"`
	SkipEnergy         bool            `yaml:"skipEnergy" json:"skipEnergy"`
	PerformMSA         bool            `yaml:"performMSA" json:"performMSA"` // Slow: runs BLAST.
}

// DefaultSettings returns the settings the service applies when none are given.
func DefaultSettings() Settings {
	return Settings{
		Chain:              AllChains(),
		NetworkPolicy:      Closest,
		Interactions:       Multiple,
		Thresholds:         StrictThresholds(),
		SequenceSeparation: 3,
		SkipHetero:         false,
		SkipWater:          true,
		SkipEnergy:         true,
		PerformMSA:         false,
	}
}

// Chain selects either every chain of the structure or a single one. The
// zero value means all chains.
type Chain struct {
	id rune
}

const allChainsToken = "all"

// AllChains selects every chain.
func AllChains() Chain { return Chain{} }

// ChainID selects a single chain.
func ChainID(id rune) Chain { return Chain{id: id} }

// ID returns the selected chain, or false when all chains are selected.
func (c Chain) ID() (rune, bool) { return c.id, c.id != 0 }

// ParseChain accepts "all" or exactly one character.
func ParseChain(s string) (Chain, error) {
	if s == allChainsToken {
		return AllChains(), nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return Chain{}, fmt.Errorf("ringws: invalid chain %q", s)
	}
	return ChainID(r), nil
}

func (c Chain) String() string {
	if c.id == 0 {
		return allChainsToken
	}
	return string(c.id)
}

func (c Chain) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Chain) UnmarshalText(b []byte) error {
	v, err := ParseChain(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// NetworkPolicy chooses which atoms are measured when looking for contacts.
type NetworkPolicy uint8

const (
	Closest  NetworkPolicy = iota // All atoms of both residues.
	Lollipop                      // Centers of mass.
	CAlpha                        // Alpha carbons.
	CBeta                         // Beta carbons.
)

var networkPolicyTokens = map[NetworkPolicy]string{
	Closest:  "closest",
	Lollipop: "lollipop",
	CAlpha:   "ca",
	CBeta:    "cb",
}

var networkPoliciesByToken = lo.Invert(networkPolicyTokens)

// ParseNetworkPolicy maps one of closest, lollipop, ca or cb.
func ParseNetworkPolicy(s string) (NetworkPolicy, error) {
	p, ok := networkPoliciesByToken[s]
	if !ok {
		return 0, fmt.Errorf("ringws: invalid network policy %q", s)
	}
	return p, nil
}

func (p NetworkPolicy) String() string { return networkPolicyTokens[p] }

func (p NetworkPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *NetworkPolicy) UnmarshalText(b []byte) error {
	v, err := ParseNetworkPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// InteractionType says how many interactions are reported per residue pair.
type InteractionType uint8

const (
	Multiple      InteractionType = iota // One per interaction type.
	All                                  // Every interaction found.
	MostEnergetic                        // Only the strongest, whatever its type.
	NoSpecific                           // Only generic contacts.
)

var interactionTypeNames = map[InteractionType]string{
	Multiple:      "multiple",
	All:           "all",
	MostEnergetic: "most_energetic",
	NoSpecific:    "no_specific",
}

var interactionTypesByName = lo.Invert(interactionTypeNames)

// ParseInteractionType maps the names used in configuration files.
func ParseInteractionType(s string) (InteractionType, error) {
	t, ok := interactionTypesByName[s]
	if !ok {
		return 0, fmt.Errorf("ringws: invalid interaction type %q", s)
	}
	return t, nil
}

func (t InteractionType) String() string { return interactionTypeNames[t] }

func (t InteractionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *InteractionType) UnmarshalText(b []byte) error {
	v, err := ParseInteractionType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Thresholds are the maximum distances, in angstrom, at which two atoms are
// considered to interact.
type Thresholds struct {
	HydrogenBond float64 `json:"hbond" yaml:"hbond"`
	VanDerWaals  float64 `json:"vdw" yaml:"vdw"`
	Ionic        float64 `json:"ionic" yaml:"ionic"`
	PiPi         float64 `json:"pipi" yaml:"pipi"`
	PiCation     float64 `json:"pication" yaml:"pication"`
	Disulphide   float64 `json:"disulphide" yaml:"disulphide"`
}

// StrictThresholds yields a reliable network. It is the default.
func StrictThresholds() Thresholds {
	return Thresholds{HydrogenBond: 3.5, VanDerWaals: 0.5, Ionic: 4.0, PiPi: 6.5, PiCation: 5.0, Disulphide: 2.5}
}

// RelaxedThresholds yields an inclusive network.
func RelaxedThresholds() Thresholds {
	return Thresholds{HydrogenBond: 5.5, VanDerWaals: 0.8, Ionic: 5.0, PiPi: 7.0, PiCation: 7.0, Disulphide: 3.0}
}
