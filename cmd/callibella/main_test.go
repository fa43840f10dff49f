package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "callibella") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_MissingLang(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing --lang")
	}

	if !strings.Contains(err.Error(), "--lang is required") {
		t.Errorf("expected '--lang is required' error, got: %v", err)
	}
}

func TestRun_DryRun(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "story.txt")
	os.WriteFile(inputFile, []byte("Hello there. How are you?"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es", "--dry-run", inputFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Hello there.") {
		t.Error("dry-run should show the first segment")
	}
	if !strings.Contains(output, "How are you?") {
		t.Error("dry-run should show the second segment")
	}
	if !strings.Contains(output, "2 segments") {
		t.Errorf("dry-run should show segment count, got: %s", output)
	}
}

func TestRun_DryRunJSON(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "story.txt")
	os.WriteFile(inputFile, []byte("Hello there."), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es", "--dry-run", "--json", inputFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run JSON failed: %v", err)
	}

	var result struct {
		SegmentCount int      `json:"segment_count"`
		Segments     []string `json:"segments"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if result.SegmentCount != 1 {
		t.Errorf("expected 1 segment, got %d", result.SegmentCount)
	}
	if len(result.Segments) != 1 || result.Segments[0] != "Hello there." {
		t.Errorf("expected ['Hello there.'], got %v", result.Segments)
	}
}

func TestRun_DryRunFromHTML(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "page.html")
	os.WriteFile(inputFile, []byte("<html><head><title>T</title></head><body><p>Hello there.</p></body></html>"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es", "--html", "--dry-run", inputFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Hello there.") {
		t.Error("HTML input should be extracted before segmenting")
	}
}

func TestRun_EmptyInput(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "empty.txt")
	os.WriteFile(inputFile, []byte("   \n"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es", inputFile}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !strings.Contains(err.Error(), "no story text") {
		t.Errorf("expected 'no story text' error, got: %v", err)
	}
}

func TestRun_CardsRequiresData(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--cards"}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for --cards without --data")
	}
	if !strings.Contains(err.Error(), "--data") {
		t.Errorf("expected '--data' error, got: %v", err)
	}
}

func TestRun_CardsEmptyLibrary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--cards", "--data", t.TempDir()}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("cards failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "0 flashcards") {
		t.Errorf("expected empty deck, got: %s", stdout.String())
	}
}

func TestRun_UnknownPreset(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "story.txt")
	os.WriteFile(inputFile, []byte("Hello there."), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es", "--provider", "palm", inputFile}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for unknown preset")
	}
	if !strings.Contains(err.Error(), "unknown provider preset") {
		t.Errorf("expected preset error, got: %v", err)
	}
}
