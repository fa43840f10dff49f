// Package processor extracts story text from source documents so it can be
// fed to the translation pipeline.
package processor

// ExtractedStory is the prose pulled out of a source document. Text is plain
// text with paragraphs separated by blank lines.
type ExtractedStory struct {
	Title string
	Text  string
}

// Extractor pulls a story out of one source content type.
type Extractor interface {
	// Extract parses the raw content and returns the story it contains.
	Extract(content string) (ExtractedStory, error)

	// ContentType returns the content type this extractor handles.
	ContentType() string
}
