package codec

import (
	"strings"

	"github.com/samber/lo"
)

// InteractionMainType is the kind of bond an edge represents.
type InteractionMainType uint8

const (
	HydrogenBond InteractionMainType = iota
	VanDerWaals
	Disulphide
	Ionic
	PiPiStack
	PiCation
)

var mainTypeTokens = map[InteractionMainType]string{
	HydrogenBond: "HBOND",
	VanDerWaals:  "VDW",
	Disulphide:   "SSBOND",
	Ionic:        "IONIC",
	PiPiStack:    "PIPISTACK",
	PiCation:     "PICATION",
}

var mainTypesByToken = lo.Invert(mainTypeTokens)

// ParseInteractionMainType maps a main type token such as "HBOND".
func ParseInteractionMainType(s string) (InteractionMainType, error) {
	t, ok := mainTypesByToken[s]
	if !ok {
		return 0, &DecodeError{Code: CodeInvalidEnum, Type: "interaction type", Input: s}
	}
	return t, nil
}

func (t InteractionMainType) String() string { return mainTypeTokens[t] }

// InteractionSubType says which part of a residue takes part in a bond.
type InteractionSubType uint8

const (
	MainChain InteractionSubType = iota // MC
	SideChain                           // SC
	Ligand                              // LIG
)

var subTypeTokens = map[InteractionSubType]string{
	MainChain: "MC",
	SideChain: "SC",
	Ligand:    "LIG",
}

var subTypesByToken = lo.Invert(subTypeTokens)

// ParseInteractionSubType maps a sub type token such as "SC".
func ParseInteractionSubType(s string) (InteractionSubType, error) {
	t, ok := subTypesByToken[s]
	if !ok {
		return 0, &DecodeError{Code: CodeInvalidEnum, Type: "interaction subtype", Input: s}
	}
	return t, nil
}

func (t InteractionSubType) String() string { return subTypeTokens[t] }

// Interaction describes an edge, e.g. "HBOND:MC_SC" is a hydrogen bond
// between the main chain of the source and the side chain of the target.
type Interaction struct {
	Main     InteractionMainType
	Subtype1 InteractionSubType
	Subtype2 InteractionSubType
}

// ParseInteraction decodes "MAIN:SUB1_SUB2". Exactly one colon and exactly
// one underscore after it are required.
func ParseInteraction(s string) (Interaction, error) {
	halves := strings.Split(s, ":")
	if len(halves) != 2 {
		return Interaction{}, fieldCountError("interaction", s, 2, len(halves))
	}
	subs := strings.Split(halves[1], "_")
	if len(subs) != 2 {
		return Interaction{}, fieldCountError("interaction", s, 2, len(subs))
	}
	main, err := ParseInteractionMainType(halves[0])
	if err != nil {
		return Interaction{}, wrap("interaction", s, err)
	}
	sub1, err := ParseInteractionSubType(subs[0])
	if err != nil {
		return Interaction{}, wrap("interaction", s, err)
	}
	sub2, err := ParseInteractionSubType(subs[1])
	if err != nil {
		return Interaction{}, wrap("interaction", s, err)
	}
	return Interaction{Main: main, Subtype1: sub1, Subtype2: sub2}, nil
}

func (i Interaction) String() string {
	return i.Main.String() + ":" + i.Subtype1.String() + "_" + i.Subtype2.String()
}

func (i Interaction) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Interaction) UnmarshalText(b []byte) error {
	v, err := ParseInteraction(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
