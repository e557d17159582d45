// Package refresh keeps overlapping list fetches from clobbering each other.
// Every fetch takes a token from the section's Guard; by the time a response
// arrives, only the holder of the newest token may apply it. Responses to
// superseded fetches are discarded no matter what order they complete in.
package refresh

// Guard issues monotonically increasing tokens per section. The zero value is
// ready to use. Not safe for concurrent use; in practice it lives inside a
// single update loop.
type Guard struct {
	tokens map[Section]uint64
}

// Begin starts a fetch for section and returns its token. Any token issued
// earlier for the same section is superseded immediately.
func (g *Guard) Begin(section Section) uint64 {
	if g.tokens == nil {
		g.tokens = make(map[Section]uint64)
	}
	g.tokens[section]++
	return g.tokens[section]
}

// Admit reports whether a response carrying token is still the newest fetch
// for section.
func (g *Guard) Admit(section Section, token uint64) bool {
	return token != 0 && g.tokens[section] == token
}

// Current returns the newest token issued for section, 0 if none.
func (g *Guard) Current(section Section) uint64 {
	return g.tokens[section]
}

// Reset invalidates all outstanding tokens. In-flight responses from before
// the reset will never be admitted.
func (g *Guard) Reset() {
	g.tokens = nil
}
