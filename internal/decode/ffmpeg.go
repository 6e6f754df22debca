package decode

import (
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"

	"drumforge/internal/audio"
)

// FFmpegDecoder shells out to FFmpeg for formats without a native decoder.
// FFmpeg handles the downmix and resample itself.
type FFmpegDecoder struct{}

func (d *FFmpegDecoder) Extensions() []string {
	return nil // fallback only
}

func (d *FFmpegDecoder) Decode(path string) (*Buffer, error) {
	cmd := exec.Command("ffmpeg",
		"-i", path,
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"-ar", fmt.Sprint(audio.SampleRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg decode %s: %v", ErrDecodeFailed, path, err)
	}

	// Ensure alignment to full float64 samples.
	if rem := len(out) % 8; rem != 0 {
		out = out[:len(out)-rem]
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no audio for %s", ErrDecodeFailed, path)
	}

	samples := make([]float64, len(out)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(out[i*8 : i*8+8]))
	}

	return &Buffer{Samples: samples}, nil
}
