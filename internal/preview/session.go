package preview

import (
	"math"
	"sync"
	"time"

	"drumforge/internal/audio"
	"drumforge/internal/chain"
	"drumforge/internal/decode"
	"drumforge/internal/dsp"
	"drumforge/internal/params"
)

// stopGuardFrames pads the computed playback length so reverb and limiter
// tails are not cut off mid-frame.
const stopGuardFrames = 5

type voice struct {
	role  chain.Role
	muted bool
	src   *sourceNode
	hp    *highpassNode // texture only
}

// session is one active preview playback. All nodes live for the session's
// whole lifetime; parameter updates mutate them in place under mu.
type session struct {
	mode Mode
	sink Sink

	mu       sync.Mutex
	settings params.Settings
	voices   []*voice
	mixGain  float64
	drive    float64
	limiter  *limiterNode
	reverb   *reverbNode
	ramp     *rampNode
	clip     *clipperNode

	frames int

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func newSession(mode Mode, layers chain.Layers, s params.Settings, bufs map[chain.Role]*decode.Buffer, sink Sink) *session {
	sess := &session{
		mode:    mode,
		sink:    sink,
		limiter: newLimiter(1),
		reverb:  newReverb(s.ReverbMix),
		ramp:    &rampNode{},
		clip:    &clipperNode{},
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	inputs := []struct {
		role  chain.Role
		layer *chain.LayerInput
	}{
		{chain.RoleBody, layers.Body},
		{chain.RoleTransient, layers.Transient},
		{chain.RoleTexture, layers.Texture},
	}
	maxSamples := 0.0
	for _, in := range inputs {
		if in.layer == nil {
			continue
		}
		v := &voice{
			role:  in.role,
			muted: in.layer.Muted,
			src:   &sourceNode{buf: bufs[in.role].Samples, rate: 1, gain: 1},
		}
		if in.role == chain.RoleTexture {
			v.hp = newHighpass(s.TextureHighpassHz)
		}
		sess.voices = append(sess.voices, v)
		length := float64(len(v.src.buf))
		if in.role == chain.RoleBody {
			length /= dsp.PitchFactor(s.BodySemitones)
		}
		if length > maxSamples {
			maxSamples = length
		}
	}
	sess.mixGain = 1 / float64(len(sess.voices))
	sess.frames = int(math.Ceil(maxSamples/audio.FrameSize)) + stopGuardFrames

	sess.applyLocked(s)
	return sess
}

// apply pushes new settings into the live graph.
func (s *session) apply(p params.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(p)
}

func (s *session) applyLocked(p params.Settings) {
	s.settings = p
	for _, v := range s.voices {
		gain := 1.0
		if v.muted {
			gain = 0
		}
		switch v.role {
		case chain.RoleBody:
			v.src.rate = dsp.PitchFactor(p.BodySemitones)
		case chain.RoleTransient:
			gain *= dsp.DBToLin(p.TransientGainDB)
		case chain.RoleTexture:
			v.hp.setCutoff(p.TextureHighpassHz)
		}
		v.src.gain = gain
	}
	s.drive = 1 + p.Saturation*4
	s.reverb.setMix(p.ReverbMix)
	s.ramp.setFade(p.DecayMs)
	s.clip.inGain = dsp.DBToLin(p.ClipperInGainDB)
	s.clip.outGain = dsp.DBToLin(p.ClipperOutGainDB)
}

// run renders frames at real-time rate until stopped or the playback
// length is exhausted. Runs in its own goroutine.
func (s *session) run(onDone func()) {
	defer close(s.doneCh)
	defer onDone()
	defer s.sink.Stop()

	ticker := time.NewTicker(audio.FrameDuration)
	defer ticker.Stop()

	mono := make([]float64, audio.FrameSize)
	scratch := make([]float64, audio.FrameSize)

	for i := 0; i < s.frames; i++ {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
		}
		s.renderFrame(mono, scratch)
		s.sink.Write(audio.MonoToStereoFrame(mono))
	}
}

func (s *session) renderFrame(mono, scratch []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range mono {
		mono[i] = 0
	}
	for _, v := range s.voices {
		v.src.render(scratch)
		if v.hp != nil {
			v.hp.process(scratch)
		}
		for i := range mono {
			mono[i] += scratch[i] * s.mixGain
		}
	}

	if s.mode == ModeDry {
		return
	}

	for i := range mono {
		mono[i] *= s.drive
	}
	s.limiter.process(mono)
	s.reverb.process(mono)
	s.ramp.process(mono)
	s.clip.process(mono)
}

// stop signals the run loop and waits for it to exit. Safe to call more
// than once.
func (s *session) stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
}
