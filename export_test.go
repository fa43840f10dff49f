package callibella

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestExportImport_RoundTrip(t *testing.T) {
	src := OpenLibrary(newMemStore(), WithLibraryIDSource(&fixedIDs{}))
	story := src.AddStory("Title", "folk", "Hello.", "en")

	doc := NewDoc()
	doc.Tokens = []DocToken{SpanToken("s1")}
	doc.Spans["s1"] = spanWithRegisters("s1", RegisterNeutral, RegisterFormal)
	src.AttachDoc(story.ID, "es", doc)

	var buf bytes.Buffer
	if err := src.Export(&buf, map[string]string{"device": "laptop"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := OpenLibrary(newMemStore())
	result, err := dst.Import(&buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Version != "1.0" {
		t.Errorf("Version = %q", result.Version)
	}
	if result.Imported != 1 || result.Skipped != 0 {
		t.Errorf("Imported/Skipped = %d/%d, want 1/0", result.Imported, result.Skipped)
	}
	if result.Metadata["device"] != "laptop" {
		t.Errorf("Metadata = %v", result.Metadata)
	}

	imported := dst.Story(story.ID)
	if imported == nil {
		t.Fatal("Imported story should be present")
	}
	if imported.Translation("es") == nil || imported.Translation("es").Doc == nil {
		t.Error("Imported story should carry its translations")
	}
}

func TestImport_SkipsExisting(t *testing.T) {
	src := OpenLibrary(newMemStore(), WithLibraryIDSource(&fixedIDs{}))
	src.AddStory("Title", "", "Hello.", "")

	var buf bytes.Buffer
	if err := src.Export(&buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	backup := buf.Bytes()

	dst := OpenLibrary(newMemStore())
	if _, err := dst.Import(bytes.NewReader(backup)); err != nil {
		t.Fatalf("First import failed: %v", err)
	}

	result, err := dst.Import(bytes.NewReader(backup))
	if err != nil {
		t.Fatalf("Second import failed: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 1 {
		t.Errorf("Imported/Skipped = %d/%d, want 0/1", result.Imported, result.Skipped)
	}
	if len(dst.Stories()) != 1 {
		t.Error("Re-import must not duplicate stories")
	}
}

func TestImport_DoesNotOverwriteSettings(t *testing.T) {
	src := OpenLibrary(newMemStore(), WithLibraryIDSource(&fixedIDs{}))
	s := src.Settings()
	s.TargetLanguage = "ja"
	src.SetSettings(s)
	src.AddStory("Title", "", "Hello.", "")

	var buf bytes.Buffer
	if err := src.Export(&buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := OpenLibrary(newMemStore())
	local := dst.Settings()
	local.TargetLanguage = "fr"
	dst.SetSettings(local)

	if _, err := dst.Import(&buf); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if got := dst.Settings().TargetLanguage; got != "fr" {
		t.Errorf("Import must not overwrite settings, got %q", got)
	}
}

func TestImport_InvalidJSON(t *testing.T) {
	lib := OpenLibrary(newMemStore())

	if _, err := lib.Import(bytes.NewReader([]byte("{nope"))); err == nil {
		t.Error("Expected error for invalid backup JSON")
	}
}

func TestImport_DropsInvalidStories(t *testing.T) {
	backup := BackupFormat{
		Version: "1.0",
		Stories: []*Story{
			{ID: "", SourceText: "no id"},
			{ID: "ok", SourceText: "kept"},
		},
	}
	data, _ := json.Marshal(backup)

	lib := OpenLibrary(newMemStore())
	result, err := lib.Import(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want only the valid story", result.Imported)
	}
}

func TestExportImport_Files(t *testing.T) {
	src := OpenLibrary(newMemStore(), WithLibraryIDSource(&fixedIDs{}))
	src.AddStory("Title", "", "Hello.", "")

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := src.ExportToFile(path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	dst := OpenLibrary(newMemStore())
	result, err := dst.ImportFromFile(path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
}
