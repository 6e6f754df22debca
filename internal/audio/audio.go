package audio

import "time"

const (
	SampleRate    = 44100
	Channels      = 2
	BitDepth      = 24
	FrameDuration = 20 * time.Millisecond
	FrameSize     = 882                  // samples per channel per 20ms frame
	FrameSamples  = FrameSize * Channels // total interleaved samples per frame
	FrameBytes    = FrameSamples * 2     // bytes per int16 frame on the wire
)

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(uint16(s) >> 8)
	}
	return buf
}

// MonoToStereoFrame converts a mono float frame in [-1,1] to an interleaved
// stereo int16 frame, clipping out-of-range samples.
func MonoToStereoFrame(mono []float64) []int16 {
	out := make([]int16, len(mono)*Channels)
	for i, s := range mono {
		v := s * 32767
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i*2] = int16(v)
		out[i*2+1] = int16(v)
	}
	return out
}
