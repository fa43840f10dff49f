package callibella

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BlockSeparator is the literal text token that delimits paragraph blocks.
// Producers that want paragraph structure to survive rendering must emit it
// verbatim as its own token.
const BlockSeparator = "\n\n"

// Placeholder is rendered wherever a span cannot be resolved to any text.
const Placeholder = "…"

// Span is a swappable unit of text within a document. The variant list is
// the canonical enumeration of registers present; ActiveVariantIndex selects
// the variant currently displayed and is the only mutable field.
type Span struct {
	ID                 string    `json:"id"`
	SourceText         string    `json:"sourceText"`
	Variants           []Variant `json:"variants"`
	ActiveVariantIndex int       `json:"activeVariantIndex"`
}

// ActiveVariant returns the currently selected variant, or nil when the span
// has no variants or the index is out of range.
func (s *Span) ActiveVariant() *Variant {
	if s == nil || s.ActiveVariantIndex < 0 || s.ActiveVariantIndex >= len(s.Variants) {
		return nil
	}
	return &s.Variants[s.ActiveVariantIndex]
}

// VariantForRegister resolves a variant by register with the single fallback
// chain used everywhere registers are rendered: exact match, then neutral,
// then the first variant. Returns nil for an empty span.
func (s *Span) VariantForRegister(reg Register) *Variant {
	if s == nil || len(s.Variants) == 0 {
		return nil
	}
	for i := range s.Variants {
		if s.Variants[i].Register == reg {
			return &s.Variants[i]
		}
	}
	for i := range s.Variants {
		if s.Variants[i].Register == RegisterNeutral {
			return &s.Variants[i]
		}
	}
	return &s.Variants[0]
}

// clone returns a deep copy of the span.
func (s *Span) clone() *Span {
	if s == nil {
		return nil
	}
	out := *s
	out.Variants = make([]Variant, len(s.Variants))
	copy(out.Variants, s.Variants)
	return &out
}

// DocToken is one element of a document: either a literal text fragment or a
// reference to a span by id. Exactly one of the two is set.
type DocToken struct {
	Text   string
	SpanID string
}

// TextToken creates a literal text token.
func TextToken(text string) DocToken { return DocToken{Text: text} }

// SpanToken creates a span reference token.
func SpanToken(spanID string) DocToken { return DocToken{SpanID: spanID} }

// IsSpan reports whether the token references a span.
func (t DocToken) IsSpan() bool { return t.SpanID != "" }

// IsSeparator reports whether the token is the literal block separator.
func (t DocToken) IsSeparator() bool { return !t.IsSpan() && t.Text == BlockSeparator }

type docTokenJSON struct {
	Type   string `json:"type"`
	Value  string `json:"value,omitempty"`
	SpanID string `json:"spanId,omitempty"`
}

// MarshalJSON encodes the token in the backend wire shape:
// {"type":"text","value":…} or {"type":"span","spanId":…}.
func (t DocToken) MarshalJSON() ([]byte, error) {
	if t.IsSpan() {
		return json.Marshal(docTokenJSON{Type: "span", SpanID: t.SpanID})
	}
	return json.Marshal(docTokenJSON{Type: "text", Value: t.Text})
}

// UnmarshalJSON decodes the backend wire shape.
func (t *DocToken) UnmarshalJSON(data []byte) error {
	var raw docTokenJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "text":
		*t = DocToken{Text: raw.Value}
	case "span":
		*t = DocToken{SpanID: raw.SpanID}
	default:
		return fmt.Errorf("unknown doc token type %q", raw.Type)
	}
	return nil
}

// InteractiveDoc is an ordered token sequence plus the span lookup table.
// A span-reference token without a matching map entry is a soft error:
// rendering degrades to the placeholder, never panics.
type InteractiveDoc struct {
	Tokens []DocToken       `json:"tokens"`
	Spans  map[string]*Span `json:"spans"`
}

// NewDoc creates an empty document.
func NewDoc() *InteractiveDoc {
	return &InteractiveDoc{Spans: make(map[string]*Span)}
}

// Clone returns a deep copy. Consumers treat documents as immutable
// snapshots; every update path produces a fresh copy.
func (d *InteractiveDoc) Clone() *InteractiveDoc {
	if d == nil {
		return nil
	}
	out := &InteractiveDoc{
		Tokens: make([]DocToken, len(d.Tokens)),
		Spans:  make(map[string]*Span, len(d.Spans)),
	}
	copy(out.Tokens, d.Tokens)
	for id, sp := range d.Spans {
		out.Spans[id] = sp.clone()
	}
	return out
}

// Span looks up a span by id, returning nil when absent.
func (d *InteractiveDoc) Span(id string) *Span {
	if d == nil || d.Spans == nil {
		return nil
	}
	return d.Spans[id]
}

// Blocks partitions the token sequence into paragraph blocks at every
// literal "\n\n" token. The separator is consumed, not included in either
// block. A document with no separator yields exactly one block.
func (d *InteractiveDoc) Blocks() [][]DocToken {
	if d == nil {
		return nil
	}
	blocks := [][]DocToken{nil}
	for _, tok := range d.Tokens {
		if tok.IsSeparator() {
			blocks = append(blocks, nil)
			continue
		}
		blocks[len(blocks)-1] = append(blocks[len(blocks)-1], tok)
	}
	return blocks
}

// RenderRegister renders one block under the requested register, resolving
// each span through the register fallback chain. An unresolvable span or a
// dangling reference renders as the placeholder. An out-of-range block index
// yields an empty string.
func (d *InteractiveDoc) RenderRegister(blockIndex int, reg Register) string {
	blocks := d.Blocks()
	if blockIndex < 0 || blockIndex >= len(blocks) {
		return ""
	}
	return d.renderTokens(blocks[blockIndex], func(sp *Span) string {
		if v := sp.VariantForRegister(reg); v != nil {
			return v.Text
		}
		return Placeholder
	})
}

// RenderActive renders one block using each span's active-variant index.
// A span whose active variant is absent falls back to its source text, then
// to the placeholder.
func (d *InteractiveDoc) RenderActive(blockIndex int) string {
	blocks := d.Blocks()
	if blockIndex < 0 || blockIndex >= len(blocks) {
		return ""
	}
	return d.renderTokens(blocks[blockIndex], activeText)
}

// Text renders the whole document under one register, blocks joined by the
// block separator.
func (d *InteractiveDoc) Text(reg Register) string {
	blocks := d.Blocks()
	parts := make([]string, len(blocks))
	for i := range blocks {
		parts[i] = d.renderTokens(blocks[i], func(sp *Span) string {
			if v := sp.VariantForRegister(reg); v != nil {
				return v.Text
			}
			return Placeholder
		})
	}
	return strings.Join(parts, BlockSeparator)
}

// blockIndexOf returns the index of the block containing the span reference,
// or -1 when the span is not referenced by any token.
func (d *InteractiveDoc) blockIndexOf(spanID string) int {
	for i, block := range d.Blocks() {
		for _, tok := range block {
			if tok.SpanID == spanID {
				return i
			}
		}
	}
	return -1
}

func (d *InteractiveDoc) renderTokens(tokens []DocToken, resolve func(*Span) string) string {
	var b strings.Builder
	for _, tok := range tokens {
		if !tok.IsSpan() {
			b.WriteString(tok.Text)
			continue
		}
		sp := d.Span(tok.SpanID)
		if sp == nil {
			b.WriteString(Placeholder)
			continue
		}
		b.WriteString(resolve(sp))
	}
	return b.String()
}

func activeText(sp *Span) string {
	if v := sp.ActiveVariant(); v != nil {
		return v.Text
	}
	if sp.SourceText != "" {
		return sp.SourceText
	}
	return Placeholder
}
