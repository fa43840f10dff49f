package provider

import (
	"fmt"

	"github.com/billy-and-the-oceans/callibella"
)

func baseTranslationSystemPrompt(targetLanguage, sourceLanguage string, adultMode bool) string {
	langName := callibella.LanguageName(targetLanguage)

	registerNote := "Keep it family-friendly. Colloquial is fine, vulgar is not."
	if adultMode {
		registerNote = "Keep tone authentic; slang/profanity is allowed if it's in the source."
	}

	sourceNote := ""
	if sourceLanguage != "" {
		sourceNote = fmt.Sprintf("The source text is written in %s. ", callibella.LanguageName(sourceLanguage))
	}

	return fmt.Sprintf(`You are a %s translation expert. %sTranslate the requested segment into %s.

Guidelines:
- Translate naturally, not literally.
- Preserve meaning, tone, and speaker intent.
- Keep punctuation and sentence boundaries natural.
- Return ONLY the translated text for the segment. No quotes, no markdown, no commentary.

Tone note:
%s`, langName, sourceNote, langName, registerNote)
}

func blockPlanSystemPrompt(targetLanguage string, denseSpans bool) string {
	langName := callibella.LanguageName(targetLanguage)

	densityInstruction := "Aim for 1-2 swappable spans."
	if denseSpans {
		densityInstruction = "Aim for 3-5 swappable spans."
	}

	return fmt.Sprintf(`You are a %s language expert creating interactive learning materials.

You will receive a single translated segment in %s. Your job is to turn it into an interactive block with static text + swappable spans.

Output format:
Return a JSON array with EXACTLY one block in this schema:

[
  {
    "id": "b1",
    "segments": [
      { "type": "static", "text": "..." },
      { "type": "swappable", "id": "s1", "variants": [
        { "text": "...", "register": "neutral", "note": "", "difficulty": 2 }
      ]}
    ]
  }
]

Rules:
- The block must preserve the meaning of the segment.
- Each swappable span MUST include a neutral variant that matches the exact text from the segment.
- Variants arrays should contain ONLY the neutral variant for now (register: "neutral").
- %s

Return ONLY the JSON array. No markdown.`, langName, langName, densityInstruction)
}

func spanVariantsSystemPrompt(targetLanguage string, adultMode bool) string {
	langName := callibella.LanguageName(targetLanguage)

	registerInstruction := `Generate variants across these registers:
- formal
- literary
- neutral
- casual
- colloquial

Keep all variants family-friendly.`
	if adultMode {
		registerInstruction = `Generate variants across the FULL register spectrum:
- formal
- literary
- neutral
- casual
- colloquial
- vulgar`
	}

	return fmt.Sprintf(`You are a %s language expert. You will be given a segment context and an anchor phrase within it.

Return a JSON array of variants. Each item:
{ "text": "...", "register": "neutral|formal|literary|casual|colloquial|vulgar", "note": "English learner note", "difficulty": 1-5 }

Rules:
- The FIRST variant MUST be the most natural neutral phrasing.
- Keep meaning consistent with the segment context.
- Aim for 2-4 variants total.

Register guidance:
%s

Return ONLY the JSON array. No markdown.`, langName, registerInstruction)
}
