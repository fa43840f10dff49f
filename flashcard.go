package callibella

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MaskMarker replaces the target span's content in a flashcard's masked
// context.
const MaskMarker = "____"

// Flashcard is one practice card derived from a stored document: a single
// variant of a single span, with enough context to drill it.
type Flashcard struct {
	ID            string   `json:"id"`
	StoryID       string   `json:"storyId"`
	StoryTitle    string   `json:"storyTitle"`
	Language      string   `json:"language"`
	SpanID        string   `json:"spanId"`
	SpanSource    string   `json:"spanSource"`
	VariantID     string   `json:"variantId"`
	Register      Register `json:"register"`
	Text          string   `json:"text"`
	Note          string   `json:"note,omitempty"`
	MaskedContext string   `json:"maskedContext,omitempty"`
}

// CardID builds the composite card identity. It is stable across
// re-derivation, so per-card soft-delete marks persisted by id continue to
// apply after the story data changes elsewhere.
func CardID(storyID, language, spanID, variantID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", storyID, language, spanID, variantID)
}

// DeriveCards builds the full practice deck from the story collection: one
// card per (story, translation with a document, span, variant) whose text is
// non-empty after trimming. With filtering enabled, vulgar variants are
// excluded. The result is sorted by story title, then language code, then
// span source text, with span and variant ids as stable tie-breaks.
func DeriveCards(stories []*Story, filtered bool) []Flashcard {
	var cards []Flashcard
	for _, story := range stories {
		cards = append(cards, deriveStoryCards(story, filtered)...)
	}
	sortCards(cards)
	return cards
}

// parallelThreshold is the story count above which DeriveCardsParallel
// actually fans out.
const parallelThreshold = 4

// DeriveCardsParallel derives cards with per-story concurrency. The output
// is identical to DeriveCards; the final sort restores the total order
// regardless of completion order.
func DeriveCardsParallel(stories []*Story, filtered bool) []Flashcard {
	if len(stories) < parallelThreshold {
		return DeriveCards(stories, filtered)
	}

	perStory := make([][]Flashcard, len(stories))
	var wg sync.WaitGroup
	for i, story := range stories {
		wg.Add(1)
		go func(i int, story *Story) {
			defer wg.Done()
			perStory[i] = deriveStoryCards(story, filtered)
		}(i, story)
	}
	wg.Wait()

	var cards []Flashcard
	for _, batch := range perStory {
		cards = append(cards, batch...)
	}
	sortCards(cards)
	return cards
}

func deriveStoryCards(story *Story, filtered bool) []Flashcard {
	if story == nil {
		return nil
	}
	var cards []Flashcard
	for lang, tr := range story.Translations {
		if tr == nil || tr.Doc == nil {
			continue
		}
		doc := tr.Doc
		for spanID, sp := range doc.Spans {
			if sp == nil {
				continue
			}
			context := maskedContext(doc, spanID, filtered)
			for i := range sp.Variants {
				v := &sp.Variants[i]
				if strings.TrimSpace(v.Text) == "" {
					continue
				}
				if filtered && v.Register == RegisterVulgar {
					continue
				}
				cards = append(cards, Flashcard{
					ID:            CardID(story.ID, lang, spanID, v.ID),
					StoryID:       story.ID,
					StoryTitle:    story.Title,
					Language:      lang,
					SpanID:        spanID,
					SpanSource:    sp.SourceText,
					VariantID:     v.ID,
					Register:      v.Register,
					Text:          v.Text,
					Note:          v.Note,
					MaskedContext: context,
				})
			}
		}
	}
	return cards
}

// maskedContext renders the block enclosing the span with the span itself
// blanked out and every other span resolved by its active-variant index.
// With filtering on, another span whose active variant is vulgar substitutes
// its first non-vulgar variant. Returns "" when the span is not referenced
// by any token; the card is still valid and falls back to bare source text.
func maskedContext(doc *InteractiveDoc, targetSpanID string, filtered bool) string {
	blockIndex := doc.blockIndexOf(targetSpanID)
	if blockIndex < 0 {
		return ""
	}
	block := doc.Blocks()[blockIndex]
	return doc.renderTokens(block, func(sp *Span) string {
		if sp.ID == targetSpanID {
			return MaskMarker
		}
		if filtered {
			if v := sp.ActiveVariant(); v != nil && v.Register == RegisterVulgar {
				for i := range sp.Variants {
					if sp.Variants[i].Register != RegisterVulgar {
						return sp.Variants[i].Text
					}
				}
			}
		}
		return activeText(sp)
	})
}

func sortCards(cards []Flashcard) {
	sort.Slice(cards, func(i, j int) bool {
		a, b := &cards[i], &cards[j]
		if a.StoryTitle != b.StoryTitle {
			return a.StoryTitle < b.StoryTitle
		}
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		if a.SpanSource != b.SpanSource {
			return a.SpanSource < b.SpanSource
		}
		if a.SpanID != b.SpanID {
			return a.SpanID < b.SpanID
		}
		return a.VariantID < b.VariantID
	})
}
