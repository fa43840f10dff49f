package provider

import (
	"context"
	"testing"

	"github.com/billy-and-the-oceans/callibella"
)

// End-to-end run of the streaming pipeline against the mock backend,
// checking that the pieces compose: segmentation, per-segment translation,
// block planning, variant generation, document assembly and card derivation.
func TestPipeline_MockProviderEndToEnd(t *testing.T) {
	mock := NewMockProvider()

	var jobs []*callibella.TranslationJob
	var docs []*callibella.InteractiveDoc

	result, err := callibella.RunTranslation(context.Background(), mock, callibella.TranslationArgs{
		StoryText: "Hello.\n\nHow are you?",
		JobID:     "job-test",
		OnJob:     func(j *callibella.TranslationJob) { jobs = append(jobs, j) },
		OnDoc:     func(d *callibella.InteractiveDoc) { docs = append(docs, d) },
	})
	if err != nil {
		t.Fatalf("RunTranslation failed: %v", err)
	}

	if !result.Job.Ready {
		t.Error("Job should be ready after a clean run")
	}
	if len(result.Job.Segments) != 2 {
		t.Fatalf("Segments = %d, want 2", len(result.Job.Segments))
	}
	if got := result.Job.Segments[0].BaseText; got != "Hola." {
		t.Errorf("Segment 1 base = %q", got)
	}
	if got := result.Job.Segments[1].BaseText; got != "¿Cómo estás?" {
		t.Errorf("Segment 2 base = %q", got)
	}

	if got := result.Doc.Text(callibella.RegisterNeutral); got != "Hola.\n\n¿Cómo estás?" {
		t.Errorf("Neutral text = %q", got)
	}
	if got := result.Doc.Text(callibella.RegisterFormal); got != "Hola. (formal)\n\n¿Cómo estás? (formal)" {
		t.Errorf("Formal text = %q", got)
	}
	if len(result.Doc.Spans) != 2 {
		t.Errorf("Spans = %d, want 2", len(result.Doc.Spans))
	}

	if len(jobs) == 0 || len(docs) == 0 {
		t.Fatal("Expected streamed job and doc events")
	}
	if jobs[0].Ready {
		t.Error("First job event should still be pending")
	}
	last := jobs[len(jobs)-1]
	if !last.Ready {
		t.Error("Last job event should be ready")
	}

	// Derive cards from the finished translation.
	story := &callibella.Story{
		ID:    "s1",
		Title: "Greetings",
		Translations: map[string]*callibella.StoryTranslation{
			"es": {Language: "es", Doc: result.Doc},
		},
	}
	cards := callibella.DeriveCards([]*callibella.Story{story}, true)
	if len(cards) != 6 {
		t.Errorf("Cards = %d, want 6 (2 spans x 3 registers)", len(cards))
	}
}

func TestPipeline_EngineWithMockProvider(t *testing.T) {
	mock := NewMockProvider()
	engine := callibella.NewEngine(mock)

	done := make(chan *callibella.TranslationJob, 1)
	jobID := engine.Start(context.Background(), callibella.StartRequest{
		Slot:      callibella.TranslationSlot("s1", "es"),
		StoryText: "Hello.",
		OnJob: func(j *callibella.TranslationJob) {
			if j.Ready {
				select {
				case done <- j:
				default:
				}
			}
		},
		OnError: func(id string, err error) {
			t.Errorf("Unexpected error for %s: %v", id, err)
		},
	})

	final := <-done
	if final.ID != jobID {
		t.Errorf("Job ID = %q, want %q", final.ID, jobID)
	}
	if len(final.Segments) != 1 || final.Segments[0].BaseText != "Hola." {
		t.Errorf("Final job = %+v", final)
	}
}
