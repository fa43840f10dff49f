package callibella

import (
	"encoding/json"
	"sync"
)

// BlobStore is the opaque key-value persistence interface the library reads
// and writes. Implementations live in the store subpackage. A failed read is
// reported as a miss; the library tolerates missing or malformed blobs and
// falls back to defaults per key, so corruption of one key never blocks the
// others.
type BlobStore interface {
	// Get retrieves a blob. Returns nil and false when absent or unreadable.
	Get(key string) ([]byte, bool)

	// Set stores a blob.
	Set(key string, value []byte) error

	// Delete removes a blob. Deleting an absent key is not an error.
	Delete(key string) error
}

// Persistence keys. Each key holds an independent JSON blob.
const (
	KeyStories      = "stories"
	KeyDraft        = "draft"
	KeySettings     = "settings"
	KeyDeletedCards = "deleted-cards"
	KeyMyLanguages  = "my-languages"
)

// Library is the single-writer owner of all persisted application state:
// the story collection, user settings, the draft story text, the deleted
// flashcard ids and the my-languages list. Reads return deep copies so
// callers hold immutable snapshots; every mutation is written back to the
// store before the method returns. Store write failures are swallowed; the
// in-memory state stays authoritative for the running session.
type Library struct {
	mu          sync.Mutex
	store       BlobStore
	ids         IDSource
	stories     []*Story
	settings    Settings
	deleted     DeletedSet
	draft       string
	myLanguages []string
}

// LibraryOption is a functional option for configuring the Library.
type LibraryOption func(*Library)

// WithLibraryIDSource sets the id generator used for new stories.
func WithLibraryIDSource(ids IDSource) LibraryOption {
	return func(l *Library) {
		l.ids = ids
	}
}

// OpenLibrary loads all persisted state from the store. Every key is read
// independently and tolerantly: a missing or malformed blob yields that
// key's default (empty collection, default settings) without affecting the
// other keys.
func OpenLibrary(store BlobStore, opts ...LibraryOption) *Library {
	l := &Library{
		store:    store,
		ids:      UUIDSource{},
		settings: DefaultSettings(),
		deleted:  make(DeletedSet),
	}
	for _, opt := range opts {
		opt(l)
	}

	if raw, ok := store.Get(KeyStories); ok {
		l.stories = DecodeStories(raw)
	}
	if raw, ok := store.Get(KeySettings); ok {
		var s Settings
		if err := json.Unmarshal(raw, &s); err == nil {
			l.settings = s
		}
	}
	if raw, ok := store.Get(KeyDeletedCards); ok {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err == nil {
			l.deleted = NewDeletedSet(ids)
		}
	}
	if raw, ok := store.Get(KeyDraft); ok {
		var draft string
		if err := json.Unmarshal(raw, &draft); err == nil {
			l.draft = draft
		}
	}
	if raw, ok := store.Get(KeyMyLanguages); ok {
		var langs []string
		if err := json.Unmarshal(raw, &langs); err == nil {
			l.myLanguages = langs
		}
	}

	return l
}

// Stories returns a snapshot of the story collection.
func (l *Library) Stories() []*Story {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Story, len(l.stories))
	for i, s := range l.stories {
		out[i] = s.Clone()
	}
	return out
}

// Story returns a snapshot of one story, or nil when absent.
func (l *Library) Story(id string) *Story {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.find(id).Clone()
}

// AddStory creates and persists a new story from submitted source text.
func (l *Library) AddStory(title, category, sourceText, sourceLanguage string) *Story {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := NowMillis()
	story := &Story{
		ID:             l.ids.NewID("story"),
		Title:          title,
		Category:       category,
		CreatedAt:      now,
		UpdatedAt:      now,
		SourceText:     sourceText,
		SourceLanguage: NormalizeLanguage(sourceLanguage),
		Translations:   make(map[string]*StoryTranslation),
	}
	l.stories = append(l.stories, story)
	l.saveStories()
	return story.Clone()
}

// DeleteStory removes a story from the collection.
func (l *Library) DeleteStory(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.stories {
		if s.ID == id {
			l.stories = append(l.stories[:i], l.stories[i+1:]...)
			l.saveStories()
			return
		}
	}
}

// RenameStory updates a story's title.
func (l *Library) RenameStory(id, title string) {
	l.mutateStory(id, func(s *Story) {
		s.Title = title
	})
}

// SetStoryCategory updates a story's category; empty means uncategorized.
func (l *Library) SetStoryCategory(id, category string) {
	l.mutateStory(id, func(s *Story) {
		s.Category = category
	})
}

// EnsureTranslation creates the translation entry for a target language the
// moment the language is chosen, with job and doc still unset. Idempotent.
func (l *Library) EnsureTranslation(storyID, language string) {
	l.mutateStory(storyID, func(s *Story) {
		if s.Translations == nil {
			s.Translations = make(map[string]*StoryTranslation)
		}
		if _, ok := s.Translations[language]; !ok {
			s.Translations[language] = &StoryTranslation{
				Language:  language,
				CreatedAt: NowMillis(),
			}
		}
	})
}

// AttachJob records a job progress update for a translation.
func (l *Library) AttachJob(storyID, language string, job *TranslationJob) {
	l.mutateTranslation(storyID, language, func(tr *StoryTranslation) {
		tr.Job = job.Clone()
		tr.ErrorMessage = ""
	})
}

// AttachDoc merges an incoming full-replacement document into the stored
// translation, preserving user-selected active-variant indices for spans
// present in both documents.
func (l *Library) AttachDoc(storyID, language string, doc *InteractiveDoc) {
	l.mutateTranslation(storyID, language, func(tr *StoryTranslation) {
		tr.Doc = MergeDocs(tr.Doc, doc)
	})
}

// SetTranslationError attaches a backend error message to the translation
// it concerns, leaving all other state untouched.
func (l *Library) SetTranslationError(storyID, language, message string) {
	l.mutateTranslation(storyID, language, func(tr *StoryTranslation) {
		tr.ErrorMessage = message
	})
}

// SetActiveVariant records a user's register selection for one span.
// Unknown story, language or span ids are ignored; in particular a
// selection for a language with no translation entry must not create one.
// An out-of-range index is stored as-is and degrades to the placeholder at
// render time.
func (l *Library) SetActiveVariant(storyID, language, spanID string, index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.find(storyID)
	if s == nil {
		return
	}
	tr := s.Translations[language]
	if tr == nil {
		return
	}
	sp := tr.Doc.Span(spanID)
	if sp == nil {
		return
	}
	sp.ActiveVariantIndex = index
	s.UpdatedAt = NowMillis()
	l.saveStories()
}

// Settings returns the current settings.
func (l *Library) Settings() Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settings
}

// SetSettings replaces the settings. A content-filter transition from off
// to on runs the re-selection pass over every stored document.
func (l *Library) SetSettings(s Settings) {
	l.mu.Lock()
	defer l.mu.Unlock()
	enabling := s.ContentFilter && !l.settings.ContentFilter
	l.settings = s
	l.save(KeySettings, s)
	if enabling {
		l.filterAllDocs()
	}
}

// SetContentFilter flips the content-filter flag. Enabling it reassigns any
// vulgar-register selection in every stored document to a non-vulgar
// fallback; the pass runs once per transition.
func (l *Library) SetContentFilter(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.settings.ContentFilter == enabled {
		return
	}
	l.settings.ContentFilter = enabled
	l.save(KeySettings, l.settings)
	if enabled {
		l.filterAllDocs()
	}
}

// Draft returns the in-progress story text.
func (l *Library) Draft() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draft
}

// SetDraft persists the in-progress story text.
func (l *Library) SetDraft(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.draft = text
	l.save(KeyDraft, text)
}

// MyLanguages returns the user's language list.
func (l *Library) MyLanguages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.myLanguages))
	copy(out, l.myLanguages)
	return out
}

// SetMyLanguages persists the user's language list.
func (l *Library) SetMyLanguages(langs []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.myLanguages = append([]string(nil), langs...)
	l.save(KeyMyLanguages, l.myLanguages)
}

// DeletedCards returns a snapshot of the soft-hidden card id set.
func (l *Library) DeletedCards() DeletedSet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return NewDeletedSet(l.deleted.IDs())
}

// MarkCardDeleted soft-hides a flashcard by id.
func (l *Library) MarkCardDeleted(cardID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deleted.Add(cardID)
	l.save(KeyDeletedCards, l.deleted.IDs())
}

// RestoreCard un-hides a flashcard by id.
func (l *Library) RestoreCard(cardID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deleted.Remove(cardID)
	l.save(KeyDeletedCards, l.deleted.IDs())
}

// Cards derives the practice deck from the current collection, respecting
// the content-filter setting. Derivation runs on a deep snapshot taken
// under the lock, so concurrent mutations never touch the stories it reads.
func (l *Library) Cards() []Flashcard {
	l.mu.Lock()
	stories := make([]*Story, len(l.stories))
	for i, s := range l.stories {
		stories[i] = s.Clone()
	}
	filtered := l.settings.ContentFilter
	l.mu.Unlock()
	return DeriveCardsParallel(stories, filtered)
}

func (l *Library) find(id string) *Story {
	for _, s := range l.stories {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (l *Library) mutateStory(id string, mutate func(*Story)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.find(id)
	if s == nil {
		return
	}
	mutate(s)
	s.UpdatedAt = NowMillis()
	l.saveStories()
}

func (l *Library) mutateTranslation(storyID, language string, mutate func(*StoryTranslation)) {
	l.mutateStory(storyID, func(s *Story) {
		if s.Translations == nil {
			s.Translations = make(map[string]*StoryTranslation)
		}
		tr, ok := s.Translations[language]
		if !ok {
			tr = &StoryTranslation{Language: language, CreatedAt: NowMillis()}
			s.Translations[language] = tr
		}
		mutate(tr)
	})
}

// filterAllDocs runs the content-filter pass over every stored document.
// Must be called with the lock held.
func (l *Library) filterAllDocs() {
	changed := false
	for _, s := range l.stories {
		for _, tr := range s.Translations {
			if tr == nil || tr.Doc == nil {
				continue
			}
			if out := ApplyContentFilter(tr.Doc); out != tr.Doc {
				tr.Doc = out
				changed = true
			}
		}
	}
	if changed {
		l.saveStories()
	}
}

// saveStories persists the collection. Must be called with the lock held.
func (l *Library) saveStories() {
	l.save(KeyStories, l.stories)
}

// save marshals and writes one key. Write failures are ignored; the worst
// outcome of a broken store is state that does not survive a restart.
func (l *Library) save(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = l.store.Set(key, data)
}
