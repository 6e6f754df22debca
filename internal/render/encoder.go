package render

import (
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"drumforge/internal/audio"
)

// writeWAV encodes mono samples as a stereo 24-bit WAV, duplicating the
// channel. f stays open; the caller closes it.
func writeWAV(f *os.File, samples []float64) error {
	enc := wav.NewEncoder(f, audio.SampleRate, audio.BitDepth, audio.Channels, 1)

	const maxVal = 1<<(audio.BitDepth-1) - 1
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: audio.Channels,
			SampleRate:  audio.SampleRate,
		},
		Data:           make([]int, len(samples)*audio.Channels),
		SourceBitDepth: audio.BitDepth,
	}
	for i, s := range samples {
		v := int(s * maxVal)
		if v > maxVal {
			v = maxVal
		} else if v < -maxVal-1 {
			v = -maxVal - 1
		}
		buf.Data[i*2] = v
		buf.Data[i*2+1] = v
	}

	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
