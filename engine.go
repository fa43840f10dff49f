package callibella

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Provider is the interface for LLM translation backends. Implementations
// live in the provider subpackage; tests supply mocks.
type Provider interface {
	// TranslateSegment translates one segment, given the full story for
	// context. Returns the translated text only.
	TranslateSegment(ctx context.Context, fullStory, segment string) (string, error)

	// PlanBlock turns a translated segment into a block of static text and
	// swappable spans, each span seeded with an anchor variant.
	PlanBlock(ctx context.Context, baseText string) (PlannedBlock, error)

	// SpanVariants generates the register variants for one anchor phrase
	// within its segment context.
	SpanVariants(ctx context.Context, segmentContext, anchor string) ([]PlannedVariant, error)
}

// PlannedVariant is one register rendering proposed by the provider, before
// ids are assigned.
type PlannedVariant struct {
	Register   string `json:"register"`
	Text       string `json:"text"`
	Note       string `json:"note,omitempty"`
	Difficulty int    `json:"difficulty,omitempty"`
}

// PlannedSpan is a swappable unit proposed by the provider.
type PlannedSpan struct {
	Variants []PlannedVariant `json:"variants"`
}

// PlannedSegment is one piece of a planned block: literal text or a span.
// Exactly one of the two is set.
type PlannedSegment struct {
	Static string
	Span   *PlannedSpan
}

// PlannedBlock is the provider's plan for one translated segment.
type PlannedBlock struct {
	Segments []PlannedSegment
}

// JobSink receives job progress updates. The job passed in is a private
// copy; the sink may retain it.
type JobSink func(*TranslationJob)

// DocSink receives incremental document updates, each a full replacement to
// be merged with MergeDocs.
type DocSink func(*InteractiveDoc)

// TranslationArgs parameterises one translation run.
type TranslationArgs struct {
	StoryText string
	JobID     string
	OnJob     JobSink // optional
	OnDoc     DocSink // optional
}

// TranslationResult is the final job and document of a completed run.
type TranslationResult struct {
	Job *TranslationJob
	Doc *InteractiveDoc
}

// RunTranslation executes the full streaming pipeline for one story: split
// into segments, then per segment translate the base text, plan the block,
// and resolve span variants anchor by anchor, emitting a job update on every
// stage change and a full-replacement document after every resolved span.
// A provider failure marks the affected segment's stages as errored, emits a
// final job update and returns the error. Context cancellation stops the run
// between provider calls; no event is emitted after ctx is done.
func RunTranslation(ctx context.Context, p Provider, args TranslationArgs) (*TranslationResult, error) {
	segTexts := SplitSegments(args.StoryText)
	if len(segTexts) == 0 {
		return nil, &TranslationError{Message: "no segments in story text"}
	}

	job := &TranslationJob{ID: args.JobID}
	for i, src := range segTexts {
		job.Segments = append(job.Segments, TranslationSegment{
			ID:        fmt.Sprintf("seg-%d", i+1),
			Source:    src,
			BaseStage: StagePending,
			SpanStage: StagePending,
		})
	}

	emitJob := func() {
		if args.OnJob != nil && ctx.Err() == nil {
			args.OnJob(job.Clone())
		}
	}
	emitDoc := func(d *InteractiveDoc) {
		if args.OnDoc != nil && ctx.Err() == nil {
			args.OnDoc(d)
		}
	}

	emitJob()

	var doneBlocks []PlannedBlock
	for i := range job.Segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seg := &job.Segments[i]

		base, err := p.TranslateSegment(ctx, args.StoryText, seg.Source)
		if err != nil {
			seg.BaseStage = StageError
			seg.SpanStage = StageError
			job.Refresh()
			emitJob()
			return nil, err
		}
		seg.BaseText = base
		seg.BaseStage = StageReady
		job.Refresh()
		emitJob()

		block, err := p.PlanBlock(ctx, base)
		if err != nil {
			seg.SpanStage = StageError
			job.Refresh()
			emitJob()
			return nil, err
		}

		for si := range block.Segments {
			span := block.Segments[si].Span
			if span == nil {
				continue
			}
			anchor := ""
			if len(span.Variants) > 0 {
				anchor = span.Variants[0].Text
			}
			if strings.TrimSpace(anchor) == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			variants, err := p.SpanVariants(ctx, base, anchor)
			if err != nil {
				seg.SpanStage = StageError
				job.Refresh()
				emitJob()
				return nil, err
			}
			span.Variants = variants
			seg.VariantCount += len(variants)
			emitJob()

			partial := append(append([]PlannedBlock(nil), doneBlocks...), block)
			emitDoc(BuildDoc(partial))
		}

		seg.SpanStage = StageReady
		job.Refresh()
		emitJob()
		doneBlocks = append(doneBlocks, block)
		emitDoc(BuildDoc(doneBlocks))
	}

	doc := BuildDoc(doneBlocks)
	job.Refresh()
	emitJob()

	return &TranslationResult{Job: job, Doc: doc}, nil
}

// BuildDoc assembles an interactive document from planned blocks. Span ids
// are assigned in document order ("span-1", "span-2", …); variant ids derive
// from the span id and register. Blocks are joined by the literal block
// separator token so paragraph structure survives rendering.
func BuildDoc(blocks []PlannedBlock) *InteractiveDoc {
	doc := NewDoc()
	spanCounter := 0

	for bi, block := range blocks {
		for _, seg := range block.Segments {
			if seg.Span == nil {
				if seg.Static != "" {
					doc.Tokens = append(doc.Tokens, TextToken(seg.Static))
				}
				continue
			}

			spanCounter++
			spanID := fmt.Sprintf("span-%d", spanCounter)

			variants := make([]Variant, 0, len(seg.Span.Variants))
			for vi, pv := range seg.Span.Variants {
				reg := NormalizeRegister(pv.Register)
				id := fmt.Sprintf("%s-%s", spanID, reg)
				if vi > 0 {
					id = fmt.Sprintf("%s-%s-%d", spanID, reg, vi)
				}
				variants = append(variants, Variant{
					ID:         id,
					Register:   reg,
					Text:       pv.Text,
					Note:       strings.TrimSpace(pv.Note),
					Difficulty: pv.Difficulty,
				})
			}

			sourceText := ""
			if len(variants) > 0 {
				sourceText = variants[0].Text
			}
			doc.Spans[spanID] = &Span{
				ID:         spanID,
				SourceText: sourceText,
				Variants:   variants,
			}
			doc.Tokens = append(doc.Tokens, SpanToken(spanID))
		}

		if bi+1 < len(blocks) {
			doc.Tokens = append(doc.Tokens, TextToken(BlockSeparator))
		}
	}

	return doc
}

// ErrorSink receives the terminal error of a failed translation request.
// Cancellation is not reported as an error.
type ErrorSink func(jobID string, err error)

// Engine manages in-flight translation requests. Each logical target (one
// story plus target language) is a slot holding at most one request at a
// time: starting a new request for a slot first cancels the previous one,
// and cancellation suppresses all further event emission for the request.
type Engine struct {
	provider Provider
	ids      IDSource

	mu     sync.Mutex
	bySlot map[string]*inflight
	byJob  map[string]*inflight
}

type inflight struct {
	jobID  string
	slot   string
	cancel context.CancelFunc
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithIDSource sets the id generator used for job ids.
func WithIDSource(ids IDSource) EngineOption {
	return func(e *Engine) {
		e.ids = ids
	}
}

// NewEngine creates an Engine running requests against the given provider.
func NewEngine(provider Provider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		ids:      UUIDSource{},
		bySlot:   make(map[string]*inflight),
		byJob:    make(map[string]*inflight),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TranslationSlot is the slot key for translating one story into one
// language.
func TranslationSlot(storyID, language string) string {
	return storyID + "/" + language
}

// StartRequest parameterises Engine.Start. Sinks are optional and are never
// invoked after the request is cancelled.
type StartRequest struct {
	Slot      string
	StoryText string
	OnJob     JobSink
	OnDoc     DocSink
	OnError   ErrorSink
}

// Start begins a translation request asynchronously and returns its job id.
// Any prior request in the same slot is cancelled first.
func (e *Engine) Start(ctx context.Context, req StartRequest) string {
	jobID := e.ids.NewID("job")
	runCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	if prev, ok := e.bySlot[req.Slot]; ok {
		prev.cancel()
		delete(e.byJob, prev.jobID)
	}
	entry := &inflight{jobID: jobID, slot: req.Slot, cancel: cancel}
	e.bySlot[req.Slot] = entry
	e.byJob[jobID] = entry
	e.mu.Unlock()

	go func() {
		defer e.remove(entry)

		_, err := RunTranslation(runCtx, e.provider, TranslationArgs{
			StoryText: req.StoryText,
			JobID:     jobID,
			OnJob:     req.OnJob,
			OnDoc:     req.OnDoc,
		})
		if err == nil || runCtx.Err() != nil {
			return
		}
		if req.OnError != nil {
			req.OnError(jobID, err)
		}
	}()

	return jobID
}

// Cancel stops the request with the given job id. Further events for the
// request are suppressed. Cancelling an unknown id is a no-op.
func (e *Engine) Cancel(jobID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.byJob[jobID]; ok {
		entry.cancel()
		delete(e.byJob, jobID)
		delete(e.bySlot, entry.slot)
	}
}

// CancelSlot stops whatever request currently occupies the slot.
func (e *Engine) CancelSlot(slot string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.bySlot[slot]; ok {
		entry.cancel()
		delete(e.bySlot, slot)
		delete(e.byJob, entry.jobID)
	}
}

func (e *Engine) remove(entry *inflight) {
	entry.cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.byJob[entry.jobID] == entry {
		delete(e.byJob, entry.jobID)
	}
	if e.bySlot[entry.slot] == entry {
		delete(e.bySlot, entry.slot)
	}
}
