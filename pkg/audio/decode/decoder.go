// ABOUTME: Codec detection and dispatch
// ABOUTME: Maps magic bytes to the matching whole-file decoder
package decode

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Sendspin/bgmusic/pkg/audio"
)

// Codec names a supported container/codec pair
type Codec string

const (
	CodecMP3  Codec = "mp3"
	CodecFLAC Codec = "flac"
	CodecWAV  Codec = "wav"
	CodecOpus Codec = "opus"
)

// ErrUnknownFormat is returned when no decoder recognizes the data
var ErrUnknownFormat = errors.New("unrecognized audio format")

// Decoder decodes a complete file to PCM
type Decoder func(data []byte) (*audio.PCM, error)

var decoders = map[Codec]Decoder{
	CodecMP3:  DecodeMP3,
	CodecFLAC: DecodeFLAC,
	CodecWAV:  DecodeWAV,
	CodecOpus: DecodeOpus,
}

// oggProbeLen bounds how far into the first Ogg page we look for OpusHead
const oggProbeLen = 64

// Sniff identifies the codec from the leading bytes of a file
func Sniff(data []byte) (Codec, error) {
	switch {
	case bytes.HasPrefix(data, []byte("fLaC")):
		return CodecFLAC, nil
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return CodecWAV, nil
	case bytes.HasPrefix(data, []byte("OggS")):
		probe := data
		if len(probe) > oggProbeLen {
			probe = probe[:oggProbeLen]
		}
		if bytes.Contains(probe, []byte("OpusHead")) {
			return CodecOpus, nil
		}
		return "", fmt.Errorf("%w: ogg stream is not opus", ErrUnknownFormat)
	case bytes.HasPrefix(data, []byte("ID3")):
		return CodecMP3, nil
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// Bare MPEG frame sync
		return CodecMP3, nil
	}
	return "", ErrUnknownFormat
}

// Bytes sniffs and decodes a complete audio file
func Bytes(data []byte) (*audio.PCM, Codec, error) {
	codec, err := Sniff(data)
	if err != nil {
		return nil, "", err
	}

	pcm, err := decoders[codec](data)
	if err != nil {
		return nil, codec, err
	}
	if pcm.Empty() {
		return nil, codec, fmt.Errorf("%s stream contains no audio", codec)
	}

	return pcm, codec, nil
}
