// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to 16-bit stereo PCM
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Sendspin/bgmusic/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// DecodeMP3 decodes a complete MP3 file.
// go-mp3 always produces 16-bit little-endian stereo.
func DecodeMP3(data []byte) (*audio.PCM, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	out, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	return &audio.PCM{
		SampleRate: decoder.SampleRate(),
		Channels:   2,
		Data:       out,
	}, nil
}
