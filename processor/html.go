package processor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/billy-and-the-oceans/callibella"
)

// Tags whose text is never story prose.
var strippedTags = "script, style, code, pre, noscript, textarea, nav, footer, iframe, svg"

// Block-level elements that become paragraphs in the extracted story.
var blockSelectors = "p, h2, h3, h4, h5, h6, li, blockquote"

// HTMLExtractor pulls a story out of an HTML page: the title from <title>
// or the first heading, and the prose from block-level elements joined as
// paragraphs.
type HTMLExtractor struct {
	maxParagraphs int
}

// HTMLOption is a functional option for configuring the HTMLExtractor.
type HTMLOption func(*HTMLExtractor)

// WithMaxParagraphs caps the number of paragraphs extracted from a page.
// Zero means no cap.
func WithMaxParagraphs(n int) HTMLOption {
	return func(e *HTMLExtractor) {
		e.maxParagraphs = n
	}
}

// NewHTMLExtractor creates an HTML story extractor.
func NewHTMLExtractor(opts ...HTMLOption) *HTMLExtractor {
	e := &HTMLExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract implements Extractor.
func (e *HTMLExtractor) Extract(content string) (ExtractedStory, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ExtractedStory{}, &callibella.ExtractError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find(strippedTags).Remove()

	var paragraphs []string
	doc.Find(blockSelectors).Each(func(i int, s *goquery.Selection) {
		// Containers nesting other block elements would duplicate their text.
		if s.Find(blockSelectors).Length() > 0 {
			return
		}
		text := normalizeSpace(s.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		text := normalizeSpace(doc.Find("body").Text())
		if text == "" {
			return ExtractedStory{}, &callibella.ExtractError{
				Message:     "no story text in document",
				ContentType: "html",
			}
		}
		paragraphs = []string{text}
	}

	if e.maxParagraphs > 0 && len(paragraphs) > e.maxParagraphs {
		paragraphs = paragraphs[:e.maxParagraphs]
	}

	return ExtractedStory{
		Title: title,
		Text:  strings.Join(paragraphs, callibella.BlockSeparator),
	}, nil
}

// ContentType returns "html".
func (e *HTMLExtractor) ContentType() string {
	return "html"
}

// normalizeSpace collapses all runs of whitespace to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Verify HTMLExtractor implements Extractor
var _ Extractor = (*HTMLExtractor)(nil)
