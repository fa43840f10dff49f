package callibella

// SegmentStage is the state of one track of a segment's translation.
// Ready and error are terminal.
type SegmentStage string

const (
	StagePending SegmentStage = "pending"
	StageReady   SegmentStage = "ready"
	StageError   SegmentStage = "error"
)

// TranslationSegment is one sentence/clause unit of the source text.
// The base (literal translation) and span (variant resolution) tracks
// advance independently.
type TranslationSegment struct {
	ID           string       `json:"id"`
	Source       string       `json:"source"`
	BaseText     string       `json:"baseText,omitempty"`
	BaseStage    SegmentStage `json:"baseStage"`
	SpanStage    SegmentStage `json:"spanStage"`
	VariantCount int          `json:"variantCount"`
}

// TranslationJob tracks the staged readiness of translating one story into
// one target language. Ready is the canonical "is the document usable yet"
// signal, independent of whether a document has been attached.
type TranslationJob struct {
	ID       string               `json:"id"`
	Segments []TranslationSegment `json:"segments"`
	Ready    bool                 `json:"ready"`
}

// Refresh recomputes Ready from scratch as the strict AND, over all
// segments, of both stages being ready. It must be called whenever any
// segment's stage changes; Ready is never patched incrementally. A job
// with no segments stays not-ready: there is nothing to render, so it
// must not present as a finished translation.
func (j *TranslationJob) Refresh() {
	for i := range j.Segments {
		if j.Segments[i].BaseStage != StageReady || j.Segments[i].SpanStage != StageReady {
			j.Ready = false
			return
		}
	}
	j.Ready = len(j.Segments) > 0
}

// Clone returns a deep copy of the job.
func (j *TranslationJob) Clone() *TranslationJob {
	if j == nil {
		return nil
	}
	out := *j
	out.Segments = make([]TranslationSegment, len(j.Segments))
	copy(out.Segments, j.Segments)
	return &out
}

// JobProgress is a derived, read-only projection of segment readiness.
type JobProgress struct {
	BaseReady int // segments with base text ready
	SpanReady int // segments with span variants ready
	Errored   int // segments with either track in error
	Total     int
}

// Progress summarises segment readiness for display ("3/10 base ready").
func (j *TranslationJob) Progress() JobProgress {
	p := JobProgress{Total: len(j.Segments)}
	for i := range j.Segments {
		s := &j.Segments[i]
		if s.BaseStage == StageReady {
			p.BaseReady++
		}
		if s.SpanStage == StageReady {
			p.SpanReady++
		}
		if s.BaseStage == StageError || s.SpanStage == StageError {
			p.Errored++
		}
	}
	return p
}
