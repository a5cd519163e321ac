// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAVE PCM files to 16-bit PCM
package decode

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Sendspin/bgmusic/pkg/audio"
	"github.com/go-audio/wav"
)

var errInvalidWAV = errors.New("invalid wav file")

// DecodeWAV decodes a complete WAV file
func DecodeWAV(data []byte) (*audio.PCM, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, errInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode error: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, errInvalidWAV
	}

	bitDepth := int(decoder.BitDepth)
	pcm := &audio.PCM{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Data:       make([]byte, 0, len(buf.Data)*audio.BytesPerSample),
	}
	for _, s := range buf.Data {
		pcm.AppendSample(audio.ToInt16(s, bitDepth))
	}

	return pcm, nil
}
