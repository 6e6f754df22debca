package preview

import (
	"io"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"drumforge/internal/audio"
)

// Sink consumes rendered preview frames. Start is called when a session
// begins, Stop when it ends; Write must never block the render loop.
type Sink interface {
	Start() error
	Write(frame []int16)
	Stop()
}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

// deviceContext initializes the process-wide playback context on first use.
// oto allows exactly one context per process.
func deviceContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(audio.SampleRate, audio.Channels, 2)
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// DeviceSink plays frames on the local audio device. Each session gets a
// fresh player fed from a buffered frame channel.
type DeviceSink struct {
	mu     sync.Mutex
	player oto.Player
	frames chan []int16
}

func NewDeviceSink() *DeviceSink {
	return &DeviceSink{}
}

func (s *DeviceSink) Start() error {
	ctx, err := deviceContext()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = make(chan []int16, 16)
	s.player = ctx.NewPlayer(&frameReader{frames: s.frames})
	s.player.Play()
	return nil
}

func (s *DeviceSink) Write(frame []int16) {
	s.mu.Lock()
	ch := s.frames
	s.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- frame:
	default:
		// device fell behind, drop the frame
	}
}

func (s *DeviceSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frames != nil {
		close(s.frames)
		s.frames = nil
	}
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
}

// frameReader adapts the frame channel to the io.Reader the player pulls
// from. A closed channel reads as EOF.
type frameReader struct {
	frames  chan []int16
	pending []byte
}

func (r *frameReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		frame, ok := <-r.frames
		if !ok {
			return 0, io.EOF
		}
		r.pending = audio.SamplesToBytes(frame)
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// BroadcastSink forwards frames to a channel a stream broadcaster can fan
// out. The channel persists across sessions so listeners stay connected
// between previews.
type BroadcastSink struct {
	ch chan []int16
}

func NewBroadcastSink() *BroadcastSink {
	return &BroadcastSink{ch: make(chan []int16, 100)}
}

func (s *BroadcastSink) Start() error { return nil }

func (s *BroadcastSink) Write(frame []int16) {
	select {
	case s.ch <- frame:
	default:
	}
}

func (s *BroadcastSink) Stop() {}

// Frames is the source feed for a stream broadcaster.
func (s *BroadcastSink) Frames() <-chan []int16 {
	return s.ch
}

// TeeSink writes every frame to all of its sinks.
type TeeSink struct {
	sinks []Sink
}

func NewTeeSink(sinks ...Sink) *TeeSink {
	return &TeeSink{sinks: sinks}
}

func (s *TeeSink) Start() error {
	for i, sub := range s.sinks {
		if err := sub.Start(); err != nil {
			for _, started := range s.sinks[:i] {
				started.Stop()
			}
			return err
		}
	}
	return nil
}

func (s *TeeSink) Write(frame []int16) {
	for _, sub := range s.sinks {
		sub.Write(frame)
	}
}

func (s *TeeSink) Stop() {
	for _, sub := range s.sinks {
		sub.Stop()
	}
}
