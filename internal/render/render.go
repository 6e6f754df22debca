// Package render executes a chain plan as a batch file-to-file job through
// FFmpeg and writes the finished one-shot to disk.
package render

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"drumforge/internal/audio"
	"drumforge/internal/chain"
	"drumforge/internal/dsp"
)

var (
	// ErrInputNotFound means a referenced layer file is inaccessible.
	ErrInputNotFound = errors.New("input not found")
	// ErrEngineUnavailable means FFmpeg cannot be invoked at all.
	ErrEngineUnavailable = errors.New("filtering engine unavailable")
	// ErrProcessingFailed wraps an abnormal engine termination; the engine's
	// diagnostic output is preserved in the message.
	ErrProcessingFailed = errors.New("processing failed")
	// ErrOutputNotProduced means the run reported success but no readable
	// output file exists.
	ErrOutputNotProduced = errors.New("output not produced")
)

// Result describes a finished render.
type Result struct {
	Path     string
	Samples  int
	Duration time.Duration
}

// Renderer runs offline renders. Each render owns its own subprocess and
// temp file, so any number may be in flight concurrently.
type Renderer struct {
	ffmpeg string
}

// New creates a renderer invoking the given FFmpeg binary ("ffmpeg" if empty).
func New(ffmpegPath string) *Renderer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Renderer{ffmpeg: ffmpegPath}
}

// Render executes the plan and writes a 44.1kHz stereo 24-bit WAV to outPath.
// The write is all-or-nothing: the file appears only after a fully successful
// run, and no path is returned on failure.
func (r *Renderer) Render(ctx context.Context, p *chain.Plan, outPath string) (*Result, error) {
	var inputs []string
	for _, st := range p.Stages() {
		switch st.Kind {
		case chain.StageBody, chain.StageTransient, chain.StageTexture:
			if _, err := os.Stat(st.Path); err != nil {
				return nil, fmt.Errorf("%w: %s layer: %s", ErrInputNotFound, st.Role, st.Path)
			}
			inputs = append(inputs, st.Path)
		}
	}

	bin, err := exec.LookPath(r.ffmpeg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, r.ffmpeg, err)
	}

	args := []string{"-hide_banner", "-loglevel", "error"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	args = append(args,
		"-filter_complex", BuildFilterGraph(p),
		"-map", "[out]",
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"-ar", fmt.Sprint(audio.SampleRate),
		"-ac", "1",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrProcessingFailed, diag)
	}

	raw := stdout.Bytes()
	if rem := len(raw) % 8; rem != 0 {
		raw = raw[:len(raw)-rem]
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: engine produced no audio", ErrProcessingFailed)
	}
	samples := make([]float64, len(raw)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8 : i*8+8]))
	}

	// Finishing pass: trim and peak-normalize against the actual peak.
	if st := p.Stage(chain.StageTrim); st != nil {
		samples = dsp.TrimSilence(samples, st.ThresholdLin)
		if len(samples) == 0 {
			return nil, fmt.Errorf("%w: output is silent below the trim threshold", ErrProcessingFailed)
		}
	}
	if st := p.Stage(chain.StageNormalize); st != nil {
		dsp.NormalizePeak(samples, st.PeakLin)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputNotProduced, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".render-*.wav")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputNotProduced, err)
	}
	tmpName := tmp.Name()
	if err := writeWAV(tmp, samples); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("%w: %v", ErrOutputNotProduced, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("%w: %v", ErrOutputNotProduced, err)
	}
	if err := os.Rename(tmpName, outPath); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("%w: %v", ErrOutputNotProduced, err)
	}
	if _, err := os.Stat(outPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOutputNotProduced, outPath)
	}

	return &Result{
		Path:     outPath,
		Samples:  len(samples),
		Duration: time.Duration(float64(len(samples)) / audio.SampleRate * float64(time.Second)),
	}, nil
}
