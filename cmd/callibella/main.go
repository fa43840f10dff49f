// Command callibella translates stories into register-aware interactive
// documents.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/billy-and-the-oceans/callibella"
	"github.com/billy-and-the-oceans/callibella/processor"
	"github.com/billy-and-the-oceans/callibella/provider"
	"github.com/billy-and-the-oceans/callibella/store"
	"github.com/joho/godotenv"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = callibella.Version
	commit    = callibella.GitCommit
	buildDate = callibella.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("callibella", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	targetLang := fs.String("lang", "", "Target language code (e.g., es, ja)")
	sourceLang := fs.String("source", "", "Source language code (default: autodetect)")
	preset := fs.String("provider", "anthropic", "Provider preset: anthropic|openai|openrouter|ollama|lmstudio|custom")
	apiKey := fs.String("api-key", "", "Provider API key (default: provider's env var)")
	baseURL := fs.String("base-url", "", "Provider base URL (custom preset)")
	model := fs.String("model", "", "Model to use (default: preset default)")
	dense := fs.Bool("dense", false, "Plan more swappable spans per segment")
	adult := fs.Bool("adult", false, "Disable the content filter (allow vulgar variants)")
	register := fs.String("register", "", "Render the document in one register (formal|literary|neutral|casual|colloquial|vulgar)")
	dataDir := fs.String("data", "", "Library directory; translations are persisted there")
	title := fs.String("title", "", "Story title (default: input file name)")
	category := fs.String("category", "", "Story category")
	fromHTML := fs.Bool("html", false, "Treat input as an HTML page and extract the story first")
	output := fs.String("output", "", "Output file (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	cards := fs.Bool("cards", false, "List the flashcards derived from the library and exit")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	dryRun := fs.Bool("dry-run", false, "Show the segment split without calling the provider")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Provider keys are commonly kept in a .env next to the library.
	_ = godotenv.Load()

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", callibella.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	// Handle -o alias for --output
	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	if *cards {
		return runCards(*dataDir, stdout, *jsonOutput)
	}

	if *targetLang == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}
	lang := callibella.NormalizeLanguage(*targetLang)

	// Get input
	var input string
	var inputName string

	if fs.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
		inputName = "stdin"
	} else {
		inputPath := fs.Arg(0)
		data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		input = string(data)
		inputName = filepath.Base(inputPath)
	}

	storyTitle := *title
	if *fromHTML {
		extracted, err := processor.NewHTMLExtractor().Extract(input)
		if err != nil {
			return fmt.Errorf("extracting story: %w", err)
		}
		input = extracted.Text
		if storyTitle == "" {
			storyTitle = extracted.Title
		}
	}
	if storyTitle == "" {
		storyTitle = inputName
	}
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("no story text to translate")
	}

	if *dryRun {
		return runDryRun(input, inputName, lang, stdout, *jsonOutput)
	}

	// Create provider
	client, err := provider.NewClient(callibella.ProviderConfig{
		Preset:  callibella.ProviderPreset(*preset),
		APIKey:  *apiKey,
		BaseURL: *baseURL,
		Model:   *model,
	}, provider.Options{
		TargetLanguage: lang,
		SourceLanguage: *sourceLang,
		AdultMode:      *adult,
		DenseSpans:     *dense,
	})
	if err != nil {
		return err
	}

	// Wrap with retry
	retryable := callibella.NewRetryableProvider(client, callibella.DefaultRetryConfig())

	if !*quiet {
		fmt.Fprintf(stderr, "Translating %s to %s (%s, model %s)...\n",
			inputName, callibella.LanguageName(lang), *preset, client.Model())
	}

	var onJob callibella.JobSink
	if !*quiet {
		onJob = func(job *callibella.TranslationJob) {
			p := job.Progress()
			fmt.Fprintf(stderr, "  segments: %d/%d translated, %d/%d annotated\n",
				p.BaseReady, p.Total, p.SpanReady, p.Total)
		}
	}

	start := time.Now()
	result, err := callibella.RunTranslation(context.Background(), retryable, callibella.TranslationArgs{
		StoryText: input,
		JobID:     "cli",
		OnJob:     onJob,
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	// Persist to the library when a data directory is given.
	if *dataDir != "" {
		fileStore, err := store.NewFileStore(*dataDir)
		if err != nil {
			return fmt.Errorf("opening library: %w", err)
		}
		lib := callibella.OpenLibrary(fileStore)
		story := lib.AddStory(storyTitle, *category, input, *sourceLang)
		lib.EnsureTranslation(story.ID, lang)
		lib.AttachJob(story.ID, lang, result.Job)
		lib.AttachDoc(story.ID, lang, result.Doc)
		if !*quiet {
			fmt.Fprintf(stderr, "Saved story %s to %s\n", story.ID, *dataDir)
		}
	}

	// Output
	var out io.Writer = stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if *jsonOutput {
		return outputJSON(out, storyTitle, lang, result, elapsed)
	}

	fmt.Fprintln(out, renderDoc(result.Doc, *register))

	if !*quiet {
		p := result.Job.Progress()
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Segments:  %d\n", p.Total)
		fmt.Fprintf(stderr, "  Spans:     %d\n", len(result.Doc.Spans))
	}

	return nil
}

// renderDoc renders the whole document, either in one register or with each
// span's active variant.
func renderDoc(doc *callibella.InteractiveDoc, register string) string {
	if register != "" {
		return doc.Text(callibella.NormalizeRegister(register))
	}
	blocks := doc.Blocks()
	parts := make([]string, len(blocks))
	for i := range blocks {
		parts[i] = doc.RenderActive(i)
	}
	return strings.Join(parts, "\n\n")
}

// runDryRun shows the segment split without calling the provider.
func runDryRun(input, inputName, lang string, stdout io.Writer, jsonOut bool) error {
	segments := callibella.SplitSegments(input)

	if jsonOut {
		type dryRunOutput struct {
			InputFile    string   `json:"input_file"`
			TargetLang   string   `json:"target_lang"`
			SegmentCount int      `json:"segment_count"`
			Segments     []string `json:"segments"`
		}

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dryRunOutput{
			InputFile:    inputName,
			TargetLang:   lang,
			SegmentCount: len(segments),
			Segments:     segments,
		})
	}

	fmt.Fprintf(stdout, "Dry run: %s -> %s\n", inputName, lang)
	fmt.Fprintf(stdout, "Found %d segments:\n\n", len(segments))
	for i, seg := range segments {
		if len(seg) > 60 {
			seg = seg[:57] + "..."
		}
		fmt.Fprintf(stdout, "%3d. %q\n", i+1, seg)
	}
	return nil
}

// runCards lists the flashcards derived from the library.
func runCards(dataDir string, stdout io.Writer, jsonOut bool) error {
	if dataDir == "" {
		return fmt.Errorf("--cards requires --data")
	}
	fileStore, err := store.NewFileStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening library: %w", err)
	}
	lib := callibella.OpenLibrary(fileStore)
	deck := callibella.ActiveDeck(lib.Cards(), lib.DeletedCards())

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(deck)
	}

	fmt.Fprintf(stdout, "%d flashcards\n\n", len(deck))
	for _, card := range deck {
		fmt.Fprintf(stdout, "%s [%s]\n", card.Text, card.Register.Label())
		if card.MaskedContext != "" {
			fmt.Fprintf(stdout, "    %s\n", card.MaskedContext)
		}
		fmt.Fprintf(stdout, "    %s / %s\n", card.StoryTitle, callibella.LanguageName(card.Language))
	}
	return nil
}

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	Title     string                     `json:"title"`
	Language  string                     `json:"language"`
	Text      string                     `json:"text"`
	SpanCount int                        `json:"span_count"`
	Segments  int                        `json:"segments"`
	Doc       *callibella.InteractiveDoc `json:"doc"`
	Job       *callibella.TranslationJob `json:"job"`
	ElapsedMs int64                      `json:"elapsed_ms"`
}

// outputJSON writes the result as JSON.
func outputJSON(w io.Writer, title, lang string, result *callibella.TranslationResult, elapsed time.Duration) error {
	out := JSONOutput{
		Title:     title,
		Language:  lang,
		Text:      renderDoc(result.Doc, ""),
		SpanCount: len(result.Doc.Spans),
		Segments:  result.Job.Progress().Total,
		Doc:       result.Doc,
		Job:       result.Job,
		ElapsedMs: elapsed.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
