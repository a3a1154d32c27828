package ringws

// Presence is the bit flag collected by the WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Key appeared in the input.
	PresenceWasNull                             // Key value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps keys to Presence flags.
type PresenceMap map[string]Presence

// Has reports whether every bit of p is set for key.
func (pm PresenceMap) Has(key string, p Presence) bool { return pm[key]&p == p }

// Decoded carries the parsed value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}
