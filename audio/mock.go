package audio

import (
	"context"
	"encoding/base64"
	"errors"
)

// MockSynthesizer is a deterministic TTS engine for tests: it "renders"
// text as the base64 of its bytes at a fixed 60ms per character.
type MockSynthesizer struct {
	Loaded    bool
	Fail      error // returned by Synthesize when set
	CallCount int
}

// NewMockSynthesizer creates a loaded mock engine.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{Loaded: true}
}

// Synthesize implements Synthesizer.
func (m *MockSynthesizer) Synthesize(ctx context.Context, req Request, progress func(Stage, string)) (Ready, error) {
	m.CallCount++
	if !m.Loaded {
		return Ready{}, errors.New("TTS model not loaded, call Preload first")
	}
	if m.Fail != nil {
		return Ready{}, m.Fail
	}
	if err := ctx.Err(); err != nil {
		return Ready{}, err
	}

	progress(StageGenerating, "Generating speech...")
	progress(StageEncoding, "Encoding audio...")

	return Ready{
		AudioBase64: base64.StdEncoding.EncodeToString([]byte(req.Text)),
		DurationMs:  int64(len(req.Text)) * 60,
		SampleRate:  24000,
	}, nil
}

// Status implements Synthesizer.
func (m *MockSynthesizer) Status() ModelStatus {
	return ModelStatus{Downloaded: m.Loaded, Ready: m.Loaded}
}

// Preload implements Synthesizer.
func (m *MockSynthesizer) Preload(ctx context.Context) error {
	m.Loaded = true
	return nil
}

// Verify MockSynthesizer implements Synthesizer
var _ Synthesizer = (*MockSynthesizer)(nil)
