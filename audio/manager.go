package audio

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/billy-and-the-oceans/callibella"
)

// Synthesizer is the interface the external TTS engine implements. A call
// reports non-terminal progress through the callback and returns exactly
// one outcome.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request, progress func(Stage, string)) (Ready, error)
	Status() ModelStatus
	Preload(ctx context.Context) error
}

// Sinks receive the events of one request. All sinks are optional and are
// never invoked after the request is cancelled.
type Sinks struct {
	OnProgress func(Progress)
	OnReady    func(Ready)
	OnError    func(Error)
}

// Manager runs synthesis requests against an exclusive playback slot: at
// most one render is in flight at a time, and starting a new one cancels
// whatever is pending. Rendered audio is cached content-addressed by text,
// language, voice and speed, so repeat playback skips the engine entirely.
type Manager struct {
	synth Synthesizer
	cache callibella.BlobStore // optional
	ids   callibella.IDSource

	mu      sync.Mutex
	current *inflightAudio
}

type inflightAudio struct {
	requestID string
	cancel    context.CancelFunc
}

// ManagerOption is a functional option for configuring the Manager.
type ManagerOption func(*Manager)

// WithCache sets the blob store used for rendered audio.
func WithCache(cache callibella.BlobStore) ManagerOption {
	return func(m *Manager) {
		m.cache = cache
	}
}

// WithIDSource sets the id generator used for request ids.
func WithIDSource(ids callibella.IDSource) ManagerOption {
	return func(m *Manager) {
		m.ids = ids
	}
}

// NewManager creates a Manager running requests against the given engine.
func NewManager(synth Synthesizer, opts ...ManagerOption) *Manager {
	m := &Manager{
		synth: synth,
		ids:   callibella.UUIDSource{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a synthesis request asynchronously and returns its request
// id. Any prior in-flight request is cancelled first. Each request produces
// at most one terminal event: Ready or Error, never both; a cancelled
// request produces neither.
func (m *Manager) Start(ctx context.Context, req Request, sinks Sinks) string {
	requestID := m.ids.NewID("audio")
	runCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	if m.current != nil {
		m.current.cancel()
	}
	entry := &inflightAudio{requestID: requestID, cancel: cancel}
	m.current = entry
	m.mu.Unlock()

	if req.Speed <= 0 {
		req.Speed = 1.0
	}
	if req.VoiceID == "" {
		req.VoiceID = DefaultVoice(req.Language)
	}

	go func() {
		defer m.finish(entry)

		if cached, ok := m.cacheGet(req); ok {
			if runCtx.Err() != nil {
				return
			}
			cached.RequestID = requestID
			emitProgress(runCtx, sinks, Progress{RequestID: requestID, Stage: StageCached, Message: "Found in cache"})
			if sinks.OnReady != nil {
				sinks.OnReady(cached)
			}
			return
		}

		ready, err := m.synth.Synthesize(runCtx, req, func(stage Stage, msg string) {
			emitProgress(runCtx, sinks, Progress{RequestID: requestID, Stage: stage, Message: msg})
		})
		if runCtx.Err() != nil {
			return
		}
		if err != nil {
			if sinks.OnError != nil {
				sinks.OnError(Error{RequestID: requestID, Message: err.Error()})
			}
			return
		}

		ready.RequestID = requestID
		m.cachePut(req, ready)
		if sinks.OnReady != nil {
			sinks.OnReady(ready)
		}
	}()

	return requestID
}

// Cancel stops the request with the given id. No event is emitted for a
// cancelled request. Cancelling an unknown or finished id is a no-op.
func (m *Manager) Cancel(requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.requestID == requestID {
		m.current.cancel()
		m.current = nil
	}
}

// Status reports the engine's model availability.
func (m *Manager) Status() ModelStatus {
	return m.synth.Status()
}

// Preload downloads and loads the TTS model ahead of the first request.
func (m *Manager) Preload(ctx context.Context) error {
	return m.synth.Preload(ctx)
}

func (m *Manager) finish(entry *inflightAudio) {
	entry.cancel()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == entry {
		m.current = nil
	}
}

func emitProgress(ctx context.Context, sinks Sinks, p Progress) {
	if sinks.OnProgress != nil && ctx.Err() == nil {
		sinks.OnProgress(p)
	}
}

func cacheKey(req Request) string {
	return callibella.AudioCacheKey(
		callibella.HashText(req.Text), req.Language, req.VoiceID, req.Speed)
}

func (m *Manager) cacheGet(req Request) (Ready, bool) {
	if m.cache == nil {
		return Ready{}, false
	}
	raw, ok := m.cache.Get(cacheKey(req))
	if !ok {
		return Ready{}, false
	}
	var ready Ready
	if err := json.Unmarshal(raw, &ready); err != nil {
		return Ready{}, false
	}
	return ready, true
}

func (m *Manager) cachePut(req Request, ready Ready) {
	if m.cache == nil {
		return
	}
	data, err := json.Marshal(ready)
	if err != nil {
		return
	}
	_ = m.cache.Set(cacheKey(req), data)
}
