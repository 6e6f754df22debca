package preview

import (
	"math"

	"drumforge/internal/audio"
	"drumforge/internal/chain"
	"drumforge/internal/dsp"
)

// sourceNode plays a decoded buffer at a fractional rate with linear
// interpolation. rate above 1 raises pitch and shortens playback.
type sourceNode struct {
	buf  []float64
	pos  float64
	rate float64
	gain float64
}

func (n *sourceNode) render(out []float64) {
	for i := range out {
		idx := int(n.pos)
		if idx >= len(n.buf)-1 {
			out[i] = 0
			continue
		}
		frac := n.pos - float64(idx)
		s := n.buf[idx]*(1-frac) + n.buf[idx+1]*frac
		out[i] = s * n.gain
		n.pos += n.rate
	}
}

// highpassNode is a biquad high-pass filter (RBJ cookbook, Q=1/sqrt2).
type highpassNode struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newHighpass(cutoff float64) *highpassNode {
	n := &highpassNode{}
	n.setCutoff(cutoff)
	return n
}

func (n *highpassNode) setCutoff(cutoff float64) {
	if cutoff <= 0 {
		n.b0, n.b1, n.b2, n.a1, n.a2 = 1, 0, 0, 0, 0
		return
	}
	w := 2 * math.Pi * cutoff / audio.SampleRate
	cosw := math.Cos(w)
	alpha := math.Sin(w) / math.Sqrt2
	a0 := 1 + alpha
	n.b0 = (1 + cosw) / 2 / a0
	n.b1 = -(1 + cosw) / a0
	n.b2 = (1 + cosw) / 2 / a0
	n.a1 = -2 * cosw / a0
	n.a2 = (1 - alpha) / a0
}

func (n *highpassNode) process(buf []float64) {
	for i, x := range buf {
		y := n.b0*x + n.b1*n.x1 + n.b2*n.x2 - n.a1*n.y1 - n.a2*n.y2
		n.x2, n.x1 = n.x1, x
		n.y2, n.y1 = n.y1, y
		buf[i] = y
	}
}

// limiterNode keeps the signal under a fixed ceiling with an envelope
// follower (5ms attack, 50ms release).
type limiterNode struct {
	ceiling float64
	attack  float64
	release float64
	env     float64
}

func newLimiter(ceiling float64) *limiterNode {
	return &limiterNode{
		ceiling: ceiling,
		attack:  math.Exp(-1 / (0.005 * audio.SampleRate)),
		release: math.Exp(-1 / (0.050 * audio.SampleRate)),
	}
}

func (n *limiterNode) process(buf []float64) {
	for i, x := range buf {
		a := math.Abs(x)
		coef := n.release
		if a > n.env {
			coef = n.attack
		}
		n.env = coef*n.env + (1-coef)*a
		y := x
		if n.env > n.ceiling {
			y = x * n.ceiling / n.env
		}
		// The envelope lags sharp transients; the ceiling is still hard.
		if y > n.ceiling {
			y = n.ceiling
		} else if y < -n.ceiling {
			y = -n.ceiling
		}
		buf[i] = y
	}
}

// reverbNode mixes three delayed taps from a ring buffer back into the
// signal. A mix of zero makes it a passthrough, so the node can stay in
// the graph while the mix is changed live.
type reverbNode struct {
	ring  []float64
	w     int
	taps  [3]int
	gains [3]float64
	dry   float64
}

func newReverb(mix float64) *reverbNode {
	longest := int(chain.ReverbTapsMs[2] * audio.SampleRate / 1000)
	n := &reverbNode{ring: make([]float64, longest+1)}
	for i := range n.taps {
		n.taps[i] = int(chain.ReverbTapsMs[i] * audio.SampleRate / 1000)
	}
	n.setMix(mix)
	return n
}

func (n *reverbNode) setMix(mix float64) {
	n.dry = 1 - mix*0.3
	wet := mix * 0.6
	for i := range n.gains {
		n.gains[i] = wet * chain.ReverbTapDecay[i]
	}
}

func (n *reverbNode) process(buf []float64) {
	size := len(n.ring)
	for i, x := range buf {
		wet := 0.0
		for t := 0; t < 3; t++ {
			wet += n.ring[(n.w-n.taps[t]+size)%size] * n.gains[t]
		}
		n.ring[n.w] = x
		n.w = (n.w + 1) % size
		buf[i] = x*n.dry + wet
	}
}

// rampNode applies a linear fade-out starting at sample zero. A fade
// length of zero disables it.
type rampNode struct {
	fade float64 // fade length in samples
	pos  float64
}

func (n *rampNode) setFade(ms float64) {
	n.fade = ms * audio.SampleRate / 1000
}

func (n *rampNode) process(buf []float64) {
	for i := range buf {
		if n.fade > 0 {
			g := 1 - n.pos/n.fade
			if g < 0 {
				g = 0
			}
			buf[i] *= g
		}
		n.pos++
	}
}

// clipperNode drives the signal into a tanh soft clip with pre and post gain.
type clipperNode struct {
	inGain  float64
	outGain float64
}

func (n *clipperNode) process(buf []float64) {
	for i, x := range buf {
		buf[i] = dsp.SoftClip(x*n.inGain) * n.outGain
	}
}
