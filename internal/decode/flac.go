package decode

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC files.
type FLACDecoder struct{}

func (d *FLACDecoder) Extensions() []string {
	return []string{"flac"}
}

func (d *FLACDecoder) Decode(path string) (*Buffer, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrDecodeFailed, path, err)
	}
	defer stream.Close()

	info := stream.Info
	if info == nil {
		return nil, fmt.Errorf("%w: missing stream info: %s", ErrDecodeFailed, path)
	}

	channels := int(info.NChannels)
	maxVal := float64(int(1) << uint(info.BitsPerSample-1))

	var samples []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: frame in %s: %v", ErrDecodeFailed, path, err)
		}
		for i := 0; i < len(frame.Subframes[0].Samples); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float64(frame.Subframes[ch].Samples[i])/maxVal)
			}
		}
	}

	return conform(samples, channels, int(info.SampleRate))
}
