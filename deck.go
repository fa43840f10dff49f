package callibella

import (
	"math/rand"
	"sort"
)

// CardFilter narrows a deck by story, language and register. Zero-valued
// fields match everything; set fields compose as a conjunction.
type CardFilter struct {
	StoryID  string
	Language string
	Register Register
}

// Matches reports whether the card passes the filter.
func (f CardFilter) Matches(c *Flashcard) bool {
	if f.StoryID != "" && c.StoryID != f.StoryID {
		return false
	}
	if f.Language != "" && c.Language != f.Language {
		return false
	}
	if f.Register != "" && c.Register != f.Register {
		return false
	}
	return true
}

// FilterCards returns the cards passing the filter, preserving order.
func FilterCards(cards []Flashcard, f CardFilter) []Flashcard {
	out := make([]Flashcard, 0, len(cards))
	for i := range cards {
		if f.Matches(&cards[i]) {
			out = append(out, cards[i])
		}
	}
	return out
}

// DeletedSet is the persisted set of soft-hidden card ids.
type DeletedSet map[string]struct{}

// NewDeletedSet builds a set from persisted ids.
func NewDeletedSet(ids []string) DeletedSet {
	s := make(DeletedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether the card id is marked deleted.
func (s DeletedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add marks a card id as deleted.
func (s DeletedSet) Add(id string) { s[id] = struct{}{} }

// Remove restores a card id.
func (s DeletedSet) Remove(id string) { delete(s, id) }

// IDs returns the ids in sorted order for stable persistence.
func (s DeletedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ActiveDeck returns the cards not marked deleted.
func ActiveDeck(cards []Flashcard, deleted DeletedSet) []Flashcard {
	out := make([]Flashcard, 0, len(cards))
	for i := range cards {
		if !deleted.Has(cards[i].ID) {
			out = append(out, cards[i])
		}
	}
	return out
}

// DeletedDeck returns the cards marked deleted, for the restore view.
func DeletedDeck(cards []Flashcard, deleted DeletedSet) []Flashcard {
	out := make([]Flashcard, 0)
	for i := range cards {
		if deleted.Has(cards[i].ID) {
			out = append(out, cards[i])
		}
	}
	return out
}

// Session is one practice run over a deck: a card order fixed at session
// start and a wrapping cursor. The order is a random permutation when a
// random source is supplied, otherwise the deck order.
type Session struct {
	Order  []string // card ids in session order
	Cursor int
}

// NewSession starts a session over the given cards. Pass a *rand.Rand to
// shuffle (injectable so tests are deterministic); pass nil to keep deck
// order.
func NewSession(cards []Flashcard, rng *rand.Rand) *Session {
	order := make([]string, len(cards))
	for i := range cards {
		order[i] = cards[i].ID
	}
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return &Session{Order: order}
}

// Len returns the session length.
func (s *Session) Len() int { return len(s.Order) }

// Current returns the card id under the cursor, or "" for an empty session.
func (s *Session) Current() string {
	if len(s.Order) == 0 {
		return ""
	}
	return s.Order[s.Cursor]
}

// Advance moves the cursor by delta with wraparound, so the last card wraps
// to the first and paging backwards from the first lands on the last.
func (s *Session) Advance(delta int) {
	if len(s.Order) == 0 {
		return
	}
	n := len(s.Order)
	s.Cursor = ((s.Cursor+delta)%n + n) % n
}
