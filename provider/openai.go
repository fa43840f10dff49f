package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/billy-and-the-oceans/callibella"
	"github.com/sashabaranov/go-openai"
)

// Client implements the Provider interface against any OpenAI-compatible
// chat completion endpoint. Presets map to the hosted and local backends
// the application supports; anthropic is reached through its
// OpenAI-compatible surface.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	opts        Options
}

// Options holds the translation parameters shared by all calls of one
// client. AdultMode is the inverse of the content filter: when set, the
// vulgar register may be generated.
type Options struct {
	TargetLanguage string
	SourceLanguage string
	AdultMode      bool
	DenseSpans     bool
	Temperature    float32 // default: 0.3
}

type presetDefaults struct {
	baseURL string
	model   string
	env     string // API key environment variable
}

var presets = map[callibella.ProviderPreset]presetDefaults{
	callibella.PresetAnthropic:  {baseURL: "https://api.anthropic.com/v1", model: "claude-sonnet-4-20250514", env: "ANTHROPIC_API_KEY"},
	callibella.PresetOpenAI:     {baseURL: "", model: "gpt-4o-mini", env: "OPENAI_API_KEY"},
	callibella.PresetOpenRouter: {baseURL: "https://openrouter.ai/api/v1", model: "openai/gpt-4o-mini", env: "OPENROUTER_API_KEY"},
	callibella.PresetOllama:     {baseURL: "http://localhost:11434/v1", model: "llama3.1"},
	callibella.PresetLMStudio:   {baseURL: "http://localhost:1234/v1", model: "local-model"},
	callibella.PresetCustom:     {},
}

// NewClient creates a provider client for the given preset configuration.
// Missing fields fall back to the preset's defaults; hosted presets read
// their API key from the environment when the config carries none.
func NewClient(cfg callibella.ProviderConfig, opts Options) (*Client, error) {
	defaults, ok := presets[cfg.Preset]
	if !ok {
		return nil, &callibella.ProviderError{
			Message: fmt.Sprintf("unknown provider preset %q", cfg.Preset),
		}
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" && defaults.env != "" {
		apiKey = os.Getenv(defaults.env)
	}
	if apiKey == "" {
		// Local backends ignore the bearer token but the client requires one.
		apiKey = "none"
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaults.baseURL
	}
	if cfg.Preset == callibella.PresetCustom && baseURL == "" {
		return nil, &callibella.ProviderError{
			Message: "custom preset requires a base URL",
		}
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaults.model
	}
	if model == "" {
		return nil, &callibella.ProviderError{
			Message: fmt.Sprintf("preset %q requires a model", cfg.Preset),
		}
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &Client{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		opts:        opts,
	}, nil
}

// Model returns the model in use.
func (c *Client) Model() string { return c.model }

// TranslateSegment translates one segment, with the full story provided for
// context.
func (c *Client) TranslateSegment(ctx context.Context, fullStory, segment string) (string, error) {
	system := baseTranslationSystemPrompt(c.opts.TargetLanguage, c.opts.SourceLanguage, c.opts.AdultMode)
	user := fmt.Sprintf("Full story for context:\n%s\n\nTranslate ONLY this segment:\n%s", fullStory, segment)

	content, err := c.complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// PlanBlock turns a translated segment into a block plan of static text and
// swappable spans.
func (c *Client) PlanBlock(ctx context.Context, baseText string) (PlannedBlock, error) {
	system := blockPlanSystemPrompt(c.opts.TargetLanguage, c.opts.DenseSpans)

	content, err := c.complete(ctx, system, baseText)
	if err != nil {
		return PlannedBlock{}, err
	}

	blocks, err := parsePlannedBlocks(content)
	if err != nil {
		return PlannedBlock{}, err
	}
	if len(blocks) == 0 {
		return PlannedBlock{}, &callibella.PlanError{Message: "no blocks in plan"}
	}
	return blocks[0], nil
}

// SpanVariants generates the register variants for one anchor phrase.
func (c *Client) SpanVariants(ctx context.Context, segmentContext, anchor string) ([]PlannedVariant, error) {
	system := spanVariantsSystemPrompt(c.opts.TargetLanguage, c.opts.AdultMode)
	user := fmt.Sprintf("Segment context:\n%s\n\nAnchor phrase:\n%s", segmentContext, anchor)

	content, err := c.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}
	return parseVariants(content)
}

// TestConnection issues a minimal completion to verify the endpoint, key
// and model are usable.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.complete(ctx, "Reply with the single word: ok", "ping")
	return err
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", &callibella.ProviderError{
			Message:   "chat completion failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}
	if len(resp.Choices) == 0 {
		return "", &callibella.ProviderError{
			Message:   "no response from provider",
			Retryable: true,
		}
	}
	return resp.Choices[0].Message.Content, nil
}

// stripCodeFences removes a surrounding markdown code fence, which models
// emit despite instructions not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

type wireSegment struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	Variants []PlannedVariant `json:"variants,omitempty"`
}

type wireBlock struct {
	ID       string        `json:"id"`
	Segments []wireSegment `json:"segments"`
}

func parsePlannedBlocks(content string) ([]PlannedBlock, error) {
	cleaned := stripCodeFences(content)

	var wire []wireBlock
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		// Tolerate a bare object instead of a one-element array.
		var single wireBlock
		if err2 := json.Unmarshal([]byte(cleaned), &single); err2 != nil {
			return nil, &callibella.PlanError{Message: "block plan is not valid JSON", Cause: err}
		}
		wire = []wireBlock{single}
	}

	blocks := make([]PlannedBlock, 0, len(wire))
	for _, wb := range wire {
		var block PlannedBlock
		for _, ws := range wb.Segments {
			switch ws.Type {
			case "static":
				block.Segments = append(block.Segments, PlannedSegment{Static: ws.Text})
			case "swappable":
				block.Segments = append(block.Segments, PlannedSegment{
					Span: &PlannedSpan{Variants: ws.Variants},
				})
			}
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func parseVariants(content string) ([]PlannedVariant, error) {
	cleaned := stripCodeFences(content)

	var variants []PlannedVariant
	if err := json.Unmarshal([]byte(cleaned), &variants); err == nil {
		return variants, nil
	}

	// Tolerate {"variants": [...]} and a single bare variant object.
	var wrapper struct {
		Variants []PlannedVariant `json:"variants"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil && len(wrapper.Variants) > 0 {
		return wrapper.Variants, nil
	}
	var single PlannedVariant
	if err := json.Unmarshal([]byte(cleaned), &single); err == nil && single.Text != "" {
		return []PlannedVariant{single}, nil
	}

	return nil, &callibella.PlanError{Message: "variant list is not valid JSON"}
}

func isRetryableError(err error) bool {
	// Check for common retryable conditions
	errStr := err.Error()
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(strings.ToLower(errStr), pattern) {
			return true
		}
	}
	return false
}

// Verify Client implements Provider
var _ Provider = (*Client)(nil)
