// Package preview renders the processing chain live as a realtime node
// graph, for auditioning layer combinations before an offline render.
package preview

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"drumforge/internal/chain"
	"drumforge/internal/decode"
	"drumforge/internal/params"
)

var (
	// ErrNoInput means the preview was started without any layers.
	ErrNoInput = errors.New("no input layers")
	// ErrModeActive means a preview of the opposite mode is running.
	ErrModeActive = errors.New("a preview of the other mode is active")
	// ErrPlaybackRejected means the output sink refused to start, or an
	// update arrived with no active preview.
	ErrPlaybackRejected = errors.New("playback rejected")
)

// Mode selects between the full processing graph and a plain layer mix.
type Mode int

const (
	ModeWet Mode = iota + 1
	ModeDry
)

func (m Mode) String() string {
	switch m {
	case ModeWet:
		return "wet"
	case ModeDry:
		return "dry"
	}
	return "none"
}

// Engine owns at most one preview session at a time. Starting a preview in
// the mode already playing restarts it; starting the other mode is rejected
// until the active one stops or finishes.
type Engine struct {
	reg  *decode.Registry
	sink Sink

	mu  sync.Mutex
	cur *session
}

// NewEngine creates a preview engine writing to the given sink.
func NewEngine(reg *decode.Registry, sink Sink) *Engine {
	return &Engine{reg: reg, sink: sink}
}

// StartWet begins a preview through the full processing graph.
func (e *Engine) StartWet(layers chain.Layers, s params.Settings) error {
	return e.start(ModeWet, layers, s)
}

// StartDry begins a preview of the raw layer mix with no processing.
func (e *Engine) StartDry(layers chain.Layers, s params.Settings) error {
	return e.start(ModeDry, layers, s)
}

func (e *Engine) start(mode Mode, layers chain.Layers, s params.Settings) error {
	if layers.Body == nil && layers.Transient == nil && layers.Texture == nil {
		return ErrNoInput
	}
	if err := layers.Validate(); err != nil {
		return err
	}
	canon, err := params.Canonical(s)
	if err != nil {
		return err
	}

	bufs := make(map[chain.Role]*decode.Buffer)
	inputs := []struct {
		role  chain.Role
		layer *chain.LayerInput
	}{
		{chain.RoleBody, layers.Body},
		{chain.RoleTransient, layers.Transient},
		{chain.RoleTexture, layers.Texture},
	}
	for _, in := range inputs {
		if in.layer == nil {
			continue
		}
		buf, err := e.reg.DecodeFile(in.layer.Path)
		if err != nil {
			return err
		}
		bufs[in.role] = buf
	}

	e.mu.Lock()
	if e.cur != nil {
		if e.cur.mode != mode {
			e.mu.Unlock()
			return fmt.Errorf("%w: %s is playing", ErrModeActive, e.cur.mode)
		}
		old := e.cur
		e.cur = nil
		e.mu.Unlock()
		old.stop()
		e.mu.Lock()
		if e.cur != nil {
			e.mu.Unlock()
			return fmt.Errorf("%w: %s is playing", ErrModeActive, mode)
		}
	}

	if err := e.sink.Start(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrPlaybackRejected, err)
	}
	sess := newSession(mode, layers, canon, bufs, e.sink)
	e.cur = sess
	e.mu.Unlock()

	log.Printf("Preview started: mode=%s frames=%d", mode, sess.frames)
	go sess.run(func() { e.clear(sess) })
	return nil
}

// clear releases the engine's session slot when a run loop ends naturally.
// A restart may already have replaced the slot, so only the session that
// finished is cleared.
func (e *Engine) clear(s *session) {
	e.mu.Lock()
	if e.cur == s {
		e.cur = nil
	}
	e.mu.Unlock()
}

// Stop tears down the active preview, if any. Safe to call when idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	old := e.cur
	e.cur = nil
	e.mu.Unlock()
	if old != nil {
		old.stop()
		log.Printf("Preview stopped: mode=%s", old.mode)
	}
}

// Update applies parameter overrides to the running preview without
// restarting it. Layer selection cannot change mid-session.
func (e *Engine) Update(o params.Overrides) error {
	e.mu.Lock()
	cur := e.cur
	e.mu.Unlock()
	if cur == nil {
		return fmt.Errorf("%w: no active preview", ErrPlaybackRejected)
	}

	cur.mu.Lock()
	base := cur.settings
	cur.mu.Unlock()
	merged, err := params.Merge(base, o)
	if err != nil {
		return err
	}
	cur.apply(merged)
	return nil
}

// Active reports the running preview's mode, if one is playing.
func (e *Engine) Active() (Mode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == nil {
		return 0, false
	}
	return e.cur.mode, true
}
