// Package dsp holds the numeric primitives shared by the offline renderer
// and the realtime previewer, so both engines derive identical values from
// one chain plan.
package dsp

import "math"

// DBToLin converts decibels to a linear gain factor.
func DBToLin(db float64) float64 {
	return math.Pow(10, db/20)
}

// PitchFactor returns the resample factor for a semitone offset. Resampling
// by this factor shifts pitch and duration together: +12 semitones halves
// the playback length, -12 doubles it.
func PitchFactor(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// SoftClip applies a tanh waveshaper. Output magnitude never reaches 1.
func SoftClip(x float64) float64 {
	return math.Tanh(x)
}

// Peak returns the largest absolute sample value in buf.
func Peak(buf []float64) float64 {
	peak := 0.0
	for _, s := range buf {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// TrimSilence removes leading and trailing samples whose absolute value
// stays below threshold, by peak detection, symmetric on both ends. A buffer
// that is silent throughout trims to nothing. Buffers with no such silence
// are returned unchanged.
func TrimSilence(buf []float64, threshold float64) []float64 {
	start := -1
	for i, s := range buf {
		if math.Abs(s) >= threshold {
			start = i
			break
		}
	}
	if start < 0 {
		return buf[:0]
	}
	end := len(buf)
	for end > start {
		if math.Abs(buf[end-1]) >= threshold {
			break
		}
		end--
	}
	return buf[start:end]
}

// NormalizePeak scales buf in place so its peak matches target, then hard
// limits so no sample exceeds the target ceiling even transiently. A silent
// buffer is left untouched.
func NormalizePeak(buf []float64, target float64) {
	peak := Peak(buf)
	if peak == 0 {
		return
	}
	scale := target / peak
	for i, s := range buf {
		v := s * scale
		if v > target {
			v = target
		} else if v < -target {
			v = -target
		}
		buf[i] = v
	}
}

// Resample converts buf from one sample rate to another by linear
// interpolation. Good enough for preview transport; offline rendering
// resamples inside the filtering engine.
func Resample(buf []float64, from, to int) []float64 {
	if from == to || len(buf) == 0 {
		out := make([]float64, len(buf))
		copy(out, buf)
		return out
	}
	ratio := float64(from) / float64(to)
	n := int(float64(len(buf)) / ratio)
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(buf)-1 {
			out[i] = buf[len(buf)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = buf[j]*(1-frac) + buf[j+1]*frac
	}
	return out
}
