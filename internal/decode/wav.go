package decode

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// WAVDecoder decodes PCM WAV files.
type WAVDecoder struct{}

func (d *WAVDecoder) Extensions() []string {
	return []string{"wav"}
}

func (d *WAVDecoder) Decode(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDecodeFailed, path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file: %s", ErrDecodeFailed, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDecodeFailed, path, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	maxVal := float64(int(1) << uint(bitDepth-1))
	samples := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float64(s) / maxVal
	}

	return conform(samples, int(dec.NumChans), int(dec.SampleRate))
}
