package callibella

import "strings"

// Register is a formality/tone category a span variant can be rendered in.
type Register string

const (
	// RegisterFormal is polished language suitable for official contexts.
	RegisterFormal Register = "formal"
	// RegisterLiterary is elevated, written-prose language.
	RegisterLiterary Register = "literary"
	// RegisterNeutral is the universal fallback register.
	RegisterNeutral Register = "neutral"
	// RegisterCasual is relaxed, everyday spoken language.
	RegisterCasual Register = "casual"
	// RegisterColloquial is slangy, regional spoken language.
	RegisterColloquial Register = "colloquial"
	// RegisterVulgar is crude language, subject to the content filter.
	RegisterVulgar Register = "vulgar"
)

// Registers lists all registers in canonical display order.
var Registers = []Register{
	RegisterFormal,
	RegisterLiterary,
	RegisterNeutral,
	RegisterCasual,
	RegisterColloquial,
	RegisterVulgar,
}

var registerLabels = map[Register]string{
	RegisterFormal:     "Formal",
	RegisterLiterary:   "Literary",
	RegisterNeutral:    "Neutral",
	RegisterCasual:     "Casual",
	RegisterColloquial: "Colloquial",
	RegisterVulgar:     "Vulgar",
}

// Label returns the display label for the register.
func (r Register) Label() string {
	if l, ok := registerLabels[r]; ok {
		return l
	}
	return string(r)
}

// VisibleRegisters returns the registers available for selection.
// With filtering enabled the vulgar register is excluded.
func VisibleRegisters(filtered bool) []Register {
	if !filtered {
		out := make([]Register, len(Registers))
		copy(out, Registers)
		return out
	}
	out := make([]Register, 0, len(Registers)-1)
	for _, r := range Registers {
		if r != RegisterVulgar {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeRegister maps a free-form register name from a provider response
// to one of the fixed registers. Unknown names map to neutral.
func NormalizeRegister(s string) Register {
	switch Register(strings.ToLower(strings.TrimSpace(s))) {
	case RegisterFormal, RegisterLiterary, RegisterNeutral, RegisterCasual, RegisterColloquial, RegisterVulgar:
		return Register(strings.ToLower(strings.TrimSpace(s)))
	default:
		return RegisterNeutral
	}
}

// Variant is one register-specific rendering of a span.
// Variants are created by the translation pipeline and never mutated;
// a re-merge replaces them wholesale.
type Variant struct {
	ID         string   `json:"id"`
	Register   Register `json:"register"`
	Text       string   `json:"text"`
	Note       string   `json:"note,omitempty"`
	Difficulty int      `json:"difficulty,omitempty"` // ordinal, 0 = unspecified
}
