// Package decode loads layer recordings into mono float buffers at the
// engine sample rate. WAV and FLAC are decoded natively; everything else
// falls through to FFmpeg.
package decode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"drumforge/internal/audio"
	"drumforge/internal/dsp"
)

// ErrDecodeFailed wraps malformed or unreadable audio data.
var ErrDecodeFailed = errors.New("decode failed")

// Buffer is a decoded layer: mono samples in [-1,1] at audio.SampleRate.
type Buffer struct {
	Samples []float64
}

// Decoder decodes one on-disk format.
type Decoder interface {
	Decode(path string) (*Buffer, error)
	Extensions() []string
}

// Registry routes files to a decoder by extension, with an FFmpeg fallback
// for formats without a native decoder.
type Registry struct {
	decoders map[string]Decoder
	fallback Decoder
}

// NewRegistry creates a registry with the native WAV and FLAC decoders
// registered and FFmpeg as the fallback.
func NewRegistry() *Registry {
	r := &Registry{
		decoders: make(map[string]Decoder),
		fallback: &FFmpegDecoder{},
	}
	r.Register(&WAVDecoder{})
	r.Register(&FLACDecoder{})
	return r
}

// Register adds a decoder for each extension it supports.
func (r *Registry) Register(d Decoder) {
	for _, ext := range d.Extensions() {
		r.decoders[strings.ToLower(ext)] = d
	}
}

// DecodeFile decodes path into a mono buffer at the engine sample rate.
func (r *Registry) DecodeFile(path string) (*Buffer, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	d, ok := r.decoders[ext]
	if !ok {
		d = r.fallback
	}
	return d.Decode(path)
}

// downmix folds interleaved multi-channel samples to mono by averaging.
func downmix(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}
	n := len(samples) / channels
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += samples[i*channels+ch]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// conform downmixes and resamples decoded audio to the engine format.
func conform(samples []float64, channels, sampleRate int) (*Buffer, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no audio data", ErrDecodeFailed)
	}
	mono := downmix(samples, channels)
	if sampleRate != audio.SampleRate {
		mono = dsp.Resample(mono, sampleRate, audio.SampleRate)
	}
	return &Buffer{Samples: mono}, nil
}
