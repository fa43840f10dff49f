package callibella

import "time"

// Story is a persisted source text together with every translation the user
// has requested for it. Category is a free-form label; empty means
// uncategorized. Timestamps are epoch milliseconds.
type Story struct {
	ID             string                       `json:"id"`
	Title          string                       `json:"title"`
	Category       string                       `json:"category,omitempty"`
	CreatedAt      int64                        `json:"createdAt"`
	UpdatedAt      int64                        `json:"updatedAt"`
	SourceText     string                       `json:"sourceText"`
	SourceLanguage string                       `json:"sourceLanguage,omitempty"`
	Translations   map[string]*StoryTranslation `json:"translations,omitempty"`
}

// StoryTranslation holds the translation state for one target language.
// Job and Doc are nil until the corresponding events arrive; the doc
// persists independently of the job, so after a reload the job reference may
// be nil while the doc remains.
type StoryTranslation struct {
	Language     string          `json:"language"`
	CreatedAt    int64           `json:"createdAt"`
	Job          *TranslationJob `json:"job,omitempty"`
	Doc          *InteractiveDoc `json:"doc,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// Clone returns a deep copy of the story.
func (s *Story) Clone() *Story {
	if s == nil {
		return nil
	}
	out := *s
	if s.Translations != nil {
		out.Translations = make(map[string]*StoryTranslation, len(s.Translations))
		for lang, tr := range s.Translations {
			out.Translations[lang] = tr.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the translation.
func (t *StoryTranslation) Clone() *StoryTranslation {
	if t == nil {
		return nil
	}
	out := *t
	out.Job = t.Job.Clone()
	out.Doc = t.Doc.Clone()
	return &out
}

// Translation returns the entry for a language, or nil when the story has
// not been translated into it.
func (s *Story) Translation(lang string) *StoryTranslation {
	if s == nil || s.Translations == nil {
		return nil
	}
	return s.Translations[lang]
}

// NowMillis returns the current time as epoch milliseconds, the timestamp
// unit used throughout persisted records.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
