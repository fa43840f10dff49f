package callibella

// ProviderPreset selects an LLM provider backend.
type ProviderPreset string

const (
	PresetAnthropic  ProviderPreset = "anthropic"
	PresetOpenAI     ProviderPreset = "openai"
	PresetOpenRouter ProviderPreset = "openrouter"
	PresetOllama     ProviderPreset = "ollama"
	PresetLMStudio   ProviderPreset = "lmstudio"
	PresetCustom     ProviderPreset = "custom"
)

// ProviderConfig identifies the LLM backend a translation request runs
// against. APIKey, BaseURL and Model are optional; presets supply defaults.
type ProviderConfig struct {
	Preset  ProviderPreset `json:"preset"`
	APIKey  string         `json:"apiKey,omitempty"`
	BaseURL string         `json:"baseUrl,omitempty"`
	Model   string         `json:"model,omitempty"`
}

// Settings holds the user's persisted preferences.
// ContentFilter is the inverse of the backends' "adult mode": when true the
// vulgar register is suppressed from selection and display.
type Settings struct {
	TargetLanguage string         `json:"targetLanguage,omitempty"`
	SourceLanguage string         `json:"sourceLanguage,omitempty"`
	ContentFilter  bool           `json:"contentFilter"`
	DenseSpans     bool           `json:"denseSpans"`
	Provider       ProviderConfig `json:"provider"`
}

// DefaultSettings returns the settings used before the user has saved any:
// content filtering on, sparse spans, anthropic preset.
func DefaultSettings() Settings {
	return Settings{
		ContentFilter: true,
		Provider:      ProviderConfig{Preset: PresetAnthropic},
	}
}
