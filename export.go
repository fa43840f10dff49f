package callibella

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// BackupFormat is the JSON structure for library export/import: the full
// story collection plus settings in one portable file.
type BackupFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Stories    []*Story          `json:"stories"`
	Settings   Settings          `json:"settings"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Export writes the library contents to a writer in JSON format.
func (l *Library) Export(w io.Writer, metadata map[string]string) error {
	backup := BackupFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Stories:    l.Stories(),
		Settings:   l.Settings(),
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the library to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (l *Library) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return l.Export(f, metadata)
}

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Skipped  int
}

// Import reads a backup and merges its stories into the library. Stories
// whose id already exists are skipped; settings are not overwritten.
func (l *Library) Import(r io.Reader) (*ImportResult, error) {
	var backup BackupFormat
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  backup.Version,
		Metadata: backup.Metadata,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, story := range validStories(backup.Stories) {
		if l.find(story.ID) != nil {
			result.Skipped++
			continue
		}
		l.stories = append(l.stories, story.Clone())
		result.Imported++
	}
	if result.Imported > 0 {
		l.saveStories()
	}

	return result, nil
}

// ImportFromFile imports a backup from a file.
// The path is provided by the caller and is intentionally user-controlled.
func (l *Library) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return l.Import(f)
}
