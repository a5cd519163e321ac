// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes Ogg Opus files through libopusfile to 16-bit PCM
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Sendspin/bgmusic/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

const (
	// opusfile always decodes at 48kHz
	opusSampleRate = 48000

	// 120ms at 48kHz, the largest opus frame
	opusMaxFrame = 5760
)

// DecodeOpus decodes a complete Ogg Opus file
func DecodeOpus(data []byte) (*audio.PCM, error) {
	channels, err := opusChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	pcm := &audio.PCM{
		SampleRate: opusSampleRate,
		Channels:   channels,
	}

	buf := make([]int16, opusMaxFrame*channels)
	for {
		n, err := stream.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}

		// n is samples per channel
		for _, s := range buf[:n*channels] {
			pcm.AppendSample(s)
		}
	}

	return pcm, nil
}

// opusChannels reads the channel count from the OpusHead packet
func opusChannels(data []byte) (int, error) {
	idx := bytes.Index(data, []byte("OpusHead"))
	// magic(8) + version(1) + channel count(1)
	if idx < 0 || len(data) < idx+10 {
		return 0, fmt.Errorf("%w: missing OpusHead", ErrUnknownFormat)
	}

	channels := int(data[idx+9])
	if channels < 1 || channels > 2 {
		return 0, fmt.Errorf("unsupported opus channel count: %d", channels)
	}
	return channels, nil
}
