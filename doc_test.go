package callibella

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// twoBlockDoc builds "The cat <span-1>." + separator + "It <span-2> all day."
// with span-1 carrying neutral/formal/vulgar variants and span-2 casual only.
func twoBlockDoc() *InteractiveDoc {
	doc := NewDoc()
	doc.Tokens = []DocToken{
		TextToken("The cat "),
		SpanToken("span-1"),
		TextToken("."),
		TextToken(BlockSeparator),
		TextToken("It "),
		SpanToken("span-2"),
		TextToken(" all day."),
	}
	doc.Spans["span-1"] = &Span{
		ID:         "span-1",
		SourceText: "sleeps",
		Variants: []Variant{
			{ID: "span-1-neutral", Register: RegisterNeutral, Text: "sleeps"},
			{ID: "span-1-formal", Register: RegisterFormal, Text: "slumbers"},
			{ID: "span-1-vulgar", Register: RegisterVulgar, Text: "sleeps the hell in"},
		},
	}
	doc.Spans["span-2"] = &Span{
		ID:         "span-2",
		SourceText: "naps",
		Variants: []Variant{
			{ID: "span-2-casual", Register: RegisterCasual, Text: "naps"},
		},
	}
	return doc
}

func TestBlocks(t *testing.T) {
	doc := twoBlockDoc()

	blocks := doc.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if len(blocks[0]) != 3 || len(blocks[1]) != 3 {
		t.Errorf("Block sizes = %d, %d; want 3, 3", len(blocks[0]), len(blocks[1]))
	}
	for _, block := range blocks {
		for _, tok := range block {
			if tok.IsSeparator() {
				t.Error("Separator token should be consumed, not included")
			}
		}
	}
}

func TestBlocks_NoSeparator(t *testing.T) {
	doc := NewDoc()
	doc.Tokens = []DocToken{TextToken("Hello.")}

	if got := len(doc.Blocks()); got != 1 {
		t.Errorf("Expected 1 block, got %d", got)
	}
}

func TestBlocks_SeparatorCount(t *testing.T) {
	// N separator tokens always yield N+1 blocks, even when empty.
	doc := NewDoc()
	doc.Tokens = []DocToken{
		TextToken(BlockSeparator),
		TextToken(BlockSeparator),
	}

	if got := len(doc.Blocks()); got != 3 {
		t.Errorf("Expected 3 blocks, got %d", got)
	}
}

func TestRenderRegister_FallbackChain(t *testing.T) {
	doc := twoBlockDoc()

	tests := []struct {
		name  string
		block int
		reg   Register
		want  string
	}{
		{"exact match", 0, RegisterFormal, "The cat slumbers."},
		{"neutral fallback", 0, RegisterCasual, "The cat sleeps."},
		{"first variant fallback", 1, RegisterFormal, "It naps all day."},
		{"vulgar exact", 0, RegisterVulgar, "The cat sleeps the hell in."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.RenderRegister(tt.block, tt.reg); got != tt.want {
				t.Errorf("RenderRegister(%d, %s) = %q, want %q", tt.block, tt.reg, got, tt.want)
			}
		})
	}
}

func TestRenderRegister_OutOfRange(t *testing.T) {
	doc := twoBlockDoc()

	if got := doc.RenderRegister(-1, RegisterNeutral); got != "" {
		t.Errorf("Negative block index should render empty, got %q", got)
	}
	if got := doc.RenderRegister(5, RegisterNeutral); got != "" {
		t.Errorf("Out-of-range block index should render empty, got %q", got)
	}
}

func TestRenderRegister_EmptySpan(t *testing.T) {
	doc := NewDoc()
	doc.Tokens = []DocToken{SpanToken("s1")}
	doc.Spans["s1"] = &Span{ID: "s1", SourceText: "x"}

	if got := doc.RenderRegister(0, RegisterNeutral); got != Placeholder {
		t.Errorf("Span with no variants should render the placeholder, got %q", got)
	}
}

func TestRenderRegister_DanglingReference(t *testing.T) {
	doc := NewDoc()
	doc.Tokens = []DocToken{TextToken("A "), SpanToken("missing")}

	if got := doc.RenderRegister(0, RegisterNeutral); got != "A "+Placeholder {
		t.Errorf("Dangling span reference should render the placeholder, got %q", got)
	}
}

func TestRenderActive(t *testing.T) {
	doc := twoBlockDoc()

	if got := doc.RenderActive(0); got != "The cat sleeps." {
		t.Errorf("Default active index should select the first variant, got %q", got)
	}

	doc.Spans["span-1"].ActiveVariantIndex = 1
	if got := doc.RenderActive(0); got != "The cat slumbers." {
		t.Errorf("Active index 1 should select the formal variant, got %q", got)
	}
}

func TestRenderActive_Fallbacks(t *testing.T) {
	doc := NewDoc()
	doc.Tokens = []DocToken{SpanToken("s1"), TextToken(" and "), SpanToken("s2")}
	doc.Spans["s1"] = &Span{ID: "s1", SourceText: "source", ActiveVariantIndex: 7}
	doc.Spans["s2"] = &Span{ID: "s2", ActiveVariantIndex: -1}

	// Out-of-range index falls back to source text, then to the placeholder.
	if got := doc.RenderActive(0); got != "source and "+Placeholder {
		t.Errorf("RenderActive = %q", got)
	}
}

func TestText(t *testing.T) {
	doc := twoBlockDoc()

	want := "The cat slumbers." + BlockSeparator + "It naps all day."
	if got := doc.Text(RegisterFormal); got != want {
		t.Errorf("Text(formal) = %q, want %q", got, want)
	}
}

func TestActiveVariant_Bounds(t *testing.T) {
	sp := &Span{Variants: []Variant{{ID: "v1", Text: "a"}}}

	if v := sp.ActiveVariant(); v == nil || v.ID != "v1" {
		t.Error("Index 0 should resolve the first variant")
	}
	sp.ActiveVariantIndex = 1
	if sp.ActiveVariant() != nil {
		t.Error("Out-of-range index should resolve to nil")
	}
	sp.ActiveVariantIndex = -1
	if sp.ActiveVariant() != nil {
		t.Error("Negative index should resolve to nil")
	}
}

func TestDocClone_Independence(t *testing.T) {
	doc := twoBlockDoc()
	clone := doc.Clone()

	clone.Spans["span-1"].ActiveVariantIndex = 2
	clone.Spans["span-1"].Variants[0].Text = "mutated"
	clone.Tokens[0] = TextToken("mutated")

	if doc.Spans["span-1"].ActiveVariantIndex != 0 {
		t.Error("Clone should not share span state")
	}
	if doc.Spans["span-1"].Variants[0].Text != "sleeps" {
		t.Error("Clone should not share variant slices")
	}
	if doc.Tokens[0].Text != "The cat " {
		t.Error("Clone should not share the token slice")
	}
}

func TestDocToken_WireShape(t *testing.T) {
	data, err := json.Marshal([]DocToken{TextToken("hi"), SpanToken("s1")})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `[{"type":"text","value":"hi"},{"type":"span","spanId":"s1"}]`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var tokens []DocToken
	if err := json.Unmarshal([]byte(want), &tokens); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(tokens) != 2 || tokens[0].Text != "hi" || tokens[1].SpanID != "s1" {
		t.Errorf("Unmarshal = %+v", tokens)
	}

	if err := json.Unmarshal([]byte(`{"type":"bogus"}`), &tokens[0]); err == nil {
		t.Error("Unknown token type should fail to decode")
	}
}

func TestDocJSONRoundTrip(t *testing.T) {
	doc := twoBlockDoc()
	doc.Spans["span-1"].ActiveVariantIndex = 1

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded InteractiveDoc
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Text(RegisterFormal) != doc.Text(RegisterFormal) {
		t.Error("Round-tripped document should render identically")
	}
	if decoded.Spans["span-1"].ActiveVariantIndex != 1 {
		t.Error("Active index should survive the round trip")
	}
}

func BenchmarkRenderRegister(b *testing.B) {
	doc := NewDoc()
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("s%d", i)
		doc.Tokens = append(doc.Tokens, TextToken("word "), SpanToken(id))
		doc.Spans[id] = &Span{
			ID: id,
			Variants: []Variant{
				{Register: RegisterNeutral, Text: "neutral"},
				{Register: RegisterFormal, Text: "formal"},
			},
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc.RenderRegister(0, RegisterFormal)
	}
}

func TestIsSeparator(t *testing.T) {
	if !TextToken(BlockSeparator).IsSeparator() {
		t.Error("Literal separator text token should be a separator")
	}
	if TextToken("\n").IsSeparator() {
		t.Error("Single newline is not a separator")
	}
	if SpanToken("s1").IsSeparator() {
		t.Error("Span token is never a separator")
	}
	if !strings.Contains(BlockSeparator, "\n\n") {
		t.Error("Separator must be the blank-line delimiter")
	}
}
