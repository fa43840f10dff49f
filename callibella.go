// Package callibella is the document model and translation pipeline behind
// an interactive reader for language learners.
//
// A story's source text is translated into an interactive document: a token
// sequence of literal text and swappable spans, each span carrying one
// variant per register (formal, literary, neutral, casual, colloquial,
// vulgar) with a live active selection. The package covers block
// segmentation and register-fallback rendering, selection-preserving merge
// of streamed document updates, the content filter, job progress tracking,
// flashcard derivation, and the persisted story library.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/billy-and-the-oceans/callibella"
//	    "github.com/billy-and-the-oceans/callibella/provider"
//	)
//
//	func main() {
//	    p, _ := provider.NewClient(callibella.ProviderConfig{
//	        Preset: callibella.PresetOpenAI,
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    }, provider.Options{TargetLanguage: "fr"})
//
//	    result, err := callibella.RunTranslation(context.Background(), p,
//	        callibella.TranslationArgs{
//	            StoryText: "Once upon a time there was a fox.",
//	            JobID:     "job-1",
//	        })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Doc.Text(callibella.RegisterCasual))
//	}
package callibella
