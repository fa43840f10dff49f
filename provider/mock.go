package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/billy-and-the-oceans/callibella"
)

// MockProvider is a deterministic provider for testing. Translations can be
// scripted per segment; unscripted segments come back bracketed so tests can
// tell translated output from passthrough.
type MockProvider struct {
	Translations map[string]string // source segment to translation
	AdultMode    bool              // include a vulgar variant

	TranslateErr error // returned by TranslateSegment when set
	PlanErr      error // returned by PlanBlock when set
	VariantsErr  error // returned by SpanVariants when set

	CallCount   int
	LastSegment string
}

// NewMockProvider creates a mock provider with a few default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello.":            "Hola.",
			"How are you?":      "¿Cómo estás?",
			"See you tomorrow.": "Hasta mañana.",
		},
	}
}

// TranslateSegment returns the scripted translation, or the segment wrapped
// in brackets when none is scripted.
func (m *MockProvider) TranslateSegment(ctx context.Context, fullStory, segment string) (string, error) {
	m.CallCount++
	m.LastSegment = segment
	if m.TranslateErr != nil {
		return "", m.TranslateErr
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if translation, ok := m.Translations[segment]; ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s]", segment), nil
}

// PlanBlock splits the translated text on its last word: everything before
// it is static, the last word becomes the single swappable span.
func (m *MockProvider) PlanBlock(ctx context.Context, baseText string) (PlannedBlock, error) {
	if m.PlanErr != nil {
		return PlannedBlock{}, m.PlanErr
	}
	if err := ctx.Err(); err != nil {
		return PlannedBlock{}, err
	}

	idx := strings.LastIndexByte(strings.TrimRight(baseText, " "), ' ')
	if idx < 0 {
		return PlannedBlock{
			Segments: []PlannedSegment{
				{Span: &PlannedSpan{Variants: []PlannedVariant{neutralVariant(baseText)}}},
			},
		}, nil
	}

	return PlannedBlock{
		Segments: []PlannedSegment{
			{Static: baseText[:idx+1]},
			{Span: &PlannedSpan{Variants: []PlannedVariant{neutralVariant(baseText[idx+1:])}}},
		},
	}, nil
}

// SpanVariants derives one variant per register from the anchor text.
func (m *MockProvider) SpanVariants(ctx context.Context, segmentContext, anchor string) ([]PlannedVariant, error) {
	if m.VariantsErr != nil {
		return nil, m.VariantsErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	variants := []PlannedVariant{
		neutralVariant(anchor),
		{Text: anchor + " (formal)", Register: string(callibella.RegisterFormal), Difficulty: 3},
		{Text: anchor + " (casual)", Register: string(callibella.RegisterCasual), Difficulty: 2},
	}
	if m.AdultMode {
		variants = append(variants, PlannedVariant{
			Text:       anchor + " (vulgar)",
			Register:   string(callibella.RegisterVulgar),
			Difficulty: 4,
		})
	}
	return variants, nil
}

// Reset clears the call counters.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastSegment = ""
}

func neutralVariant(text string) PlannedVariant {
	return PlannedVariant{Text: text, Register: string(callibella.RegisterNeutral), Difficulty: 2}
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
