// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files frame by frame to 16-bit PCM
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Sendspin/bgmusic/pkg/audio"
	"github.com/mewkiz/flac"
)

// DecodeFLAC decodes a complete FLAC file
func DecodeFLAC(data []byte) (*audio.PCM, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	bitDepth := int(stream.Info.BitsPerSample)
	pcm := &audio.PCM{
		SampleRate: int(stream.Info.SampleRate),
		Channels:   int(stream.Info.NChannels),
	}

	for {
		f, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac decode error: %w", err)
		}

		if len(f.Subframes) == 0 {
			continue
		}

		// Interleave subframes
		n := len(f.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for _, sub := range f.Subframes {
				pcm.AppendSample(audio.ToInt16(int(sub.Samples[i]), bitDepth))
			}
		}
	}

	return pcm, nil
}
