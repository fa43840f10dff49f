// Package audio defines the text-to-speech backend contract: request and
// event shapes, the synthesizer interface, the exclusive playback manager
// and the content-addressed audio cache.
package audio

// Request asks for one utterance to be rendered.
type Request struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	VoiceID  string  `json:"voiceId,omitempty"`
	Speed    float32 `json:"speed,omitempty"` // 1.0 when unset
}

// Stage labels a progress event during synthesis.
type Stage string

const (
	StageLoadingModel Stage = "loading_model"
	StageGenerating   Stage = "generating"
	StageEncoding     Stage = "encoding"
	StageCached       Stage = "cached"
)

// Progress is a non-terminal status update for an in-flight request.
type Progress struct {
	RequestID string `json:"requestId"`
	Stage     Stage  `json:"stage"`
	Message   string `json:"message"`
}

// Ready is the single success outcome of a request: encoded audio plus
// playback metadata.
type Ready struct {
	RequestID   string `json:"requestId"`
	AudioBase64 string `json:"audioBase64"`
	DurationMs  int64  `json:"durationMs"`
	SampleRate  int    `json:"sampleRate"`
}

// Error is the single failure outcome of a request.
type Error struct {
	RequestID string `json:"requestId"`
	Message   string `json:"message"`
}

// ModelStatus describes the TTS model's availability.
type ModelStatus struct {
	Downloaded     bool   `json:"downloaded"`
	Loading        bool   `json:"loading"`
	Ready          bool   `json:"ready"`
	ModelSizeBytes int64  `json:"modelSizeBytes,omitempty"`
	Error          string `json:"error,omitempty"`
}

// VoiceInfo describes one available voice.
type VoiceInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// defaultVoices maps language codes to voice ids. Voice id prefixes encode
// the language (af_ American English female, ff_ French female, jf_
// Japanese female, and so on); languages without a native voice fall back
// to English.
var defaultVoices = map[string]string{
	"fr":    "ff_siwis",
	"ja":    "jf_alpha",
	"zh":    "zf_xiaobei",
	"es":    "ef_dora",
	"it":    "if_sara",
	"pt":    "pf_dora",
	"hi":    "hf_alpha",
	"en":    "af_bella",
	"en-gb": "bf_emma",
}

// DefaultVoice picks a voice appropriate for the language code.
func DefaultVoice(language string) string {
	if v, ok := defaultVoices[language]; ok {
		return v
	}
	return "af_bella"
}

// Voices lists the known voices.
func Voices() []VoiceInfo {
	return []VoiceInfo{
		{ID: "af_bella", Name: "Bella (F, EN-US)", Language: "en"},
		{ID: "af_sarah", Name: "Sarah (F, EN-US)", Language: "en"},
		{ID: "am_adam", Name: "Adam (M, EN-US)", Language: "en"},
		{ID: "bf_emma", Name: "Emma (F, EN-GB)", Language: "en-gb"},
		{ID: "bm_george", Name: "George (M, EN-GB)", Language: "en-gb"},
		{ID: "ff_siwis", Name: "Siwis (F, FR)", Language: "fr"},
		{ID: "jf_alpha", Name: "Alpha (F, JA)", Language: "ja"},
		{ID: "jm_kumo", Name: "Kumo (M, JA)", Language: "ja"},
		{ID: "zf_xiaobei", Name: "Xiaobei (F, ZH)", Language: "zh"},
		{ID: "zm_yunxi", Name: "Yunxi (M, ZH)", Language: "zh"},
		{ID: "ef_dora", Name: "Dora (F, ES)", Language: "es"},
		{ID: "if_sara", Name: "Sara (F, IT)", Language: "it"},
		{ID: "im_nicola", Name: "Nicola (M, IT)", Language: "it"},
		{ID: "pf_dora", Name: "Dora (F, PT)", Language: "pt"},
		{ID: "hf_alpha", Name: "Alpha (F, HI)", Language: "hi"},
	}
}
