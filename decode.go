package callibella

import "encoding/json"

// DecodeStories decodes the persisted story collection, sniffing the schema
// through a defined fallback chain: the current flat array, then the
// versioned wrapper older builds wrote, then the single-translation legacy
// story shape, else an empty collection. The transform is pure so each
// schema path is testable in isolation; entries that decode but carry no id
// are dropped.
func DecodeStories(raw []byte) []*Story {
	if len(raw) == 0 {
		return nil
	}

	if stories := decodeCurrent(raw); stories != nil {
		return stories
	}
	if stories := decodeWrapped(raw); stories != nil {
		return stories
	}
	if stories := decodeLegacyFlat(raw); stories != nil {
		return stories
	}
	return nil
}

// decodeCurrent handles the current schema: a JSON array of Story objects.
func decodeCurrent(raw []byte) []*Story {
	var stories []*Story
	if err := json.Unmarshal(raw, &stories); err != nil {
		return nil
	}
	out := validStories(stories)
	if len(out) == 0 {
		return nil
	}
	return out
}

// decodeWrapped handles the versioned wrapper schema:
// {"version": N, "stories": [...]}.
func decodeWrapped(raw []byte) []*Story {
	var wrapper struct {
		Version int      `json:"version"`
		Stories []*Story `json:"stories"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil
	}
	return validStories(wrapper.Stories)
}

// legacyStory is the oldest persisted shape: one translation inline, the
// source text under "text" and the target language under "language".
type legacyStory struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Language  string          `json:"language"`
	Doc       *InteractiveDoc `json:"doc"`
	CreatedAt int64           `json:"createdAt"`
}

// decodeLegacyFlat handles the single-translation legacy array schema,
// lifting each entry into the current Story shape.
func decodeLegacyFlat(raw []byte) []*Story {
	var legacy []legacyStory
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil
	}

	var out []*Story
	for _, ls := range legacy {
		if ls.ID == "" || ls.Text == "" {
			continue
		}
		story := &Story{
			ID:           ls.ID,
			Title:        ls.Title,
			CreatedAt:    ls.CreatedAt,
			UpdatedAt:    ls.CreatedAt,
			SourceText:   ls.Text,
			Translations: make(map[string]*StoryTranslation),
		}
		if ls.Language != "" && ls.Doc != nil {
			lang := NormalizeLanguage(ls.Language)
			story.Translations[lang] = &StoryTranslation{
				Language:  lang,
				CreatedAt: ls.CreatedAt,
				Doc:       ls.Doc,
			}
		}
		out = append(out, story)
	}
	return out
}

func validStories(stories []*Story) []*Story {
	var out []*Story
	for _, s := range stories {
		if s == nil || s.ID == "" || s.SourceText == "" {
			continue
		}
		if s.Translations == nil {
			s.Translations = make(map[string]*StoryTranslation)
		}
		out = append(out, s)
	}
	return out
}
