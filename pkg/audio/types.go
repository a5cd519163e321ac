// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded PCM tracks and sample conversion helpers
package audio

import (
	"encoding/binary"
	"time"
)

const (
	// BytesPerSample is the size of one s16le sample
	BytesPerSample = 2

	Max16Bit = 32767
	Min16Bit = -32768
)

// PCM holds a decoded track as signed 16-bit little-endian interleaved samples
type PCM struct {
	SampleRate int
	Channels   int
	Data       []byte
}

// AppendSample appends one s16le sample to the track
func (p *PCM) AppendSample(sample int16) {
	p.Data = binary.LittleEndian.AppendUint16(p.Data, uint16(sample))
}

// Frames returns the number of sample frames (one sample per channel)
func (p *PCM) Frames() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Data) / (BytesPerSample * p.Channels)
}

// Duration returns the playing time of one pass through the track
func (p *PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.SampleRate)
}

// Empty reports whether the track has no playable frames
func (p *PCM) Empty() bool {
	return p == nil || p.Frames() == 0
}

// ToInt16 rescales a signed sample of the given bit depth to 16 bits.
// 8-bit samples are treated as unsigned, as stored in WAV files.
func ToInt16(sample int, bitDepth int) int16 {
	switch {
	case bitDepth == 8:
		return int16((sample - 128) << 8)
	case bitDepth > 16:
		sample >>= bitDepth - 16
	case bitDepth < 16 && bitDepth > 0:
		sample <<= 16 - bitDepth
	}

	if sample > Max16Bit {
		return Max16Bit
	}
	if sample < Min16Bit {
		return Min16Bit
	}
	return int16(sample)
}
