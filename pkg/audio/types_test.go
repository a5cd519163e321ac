// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion and PCM bookkeeping
package audio

import (
	"testing"
	"time"
)

func TestToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		bitDepth int
		expected int16
	}{
		{"16bit passthrough", 1234, 16, 1234},
		{"24bit positive", 100 << 8, 24, 100},
		{"24bit negative", -100 << 8, 24, -100},
		{"32bit max", 2147483647, 32, 32767},
		{"8bit silence", 128, 8, 0},
		{"8bit max", 255, 8, 127 << 8},
		{"8bit min", 0, 8, -32768},
		{"12bit", 100, 12, 1600},
		{"clip high", 40000, 16, 32767},
		{"clip low", -40000, 16, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToInt16(tt.input, tt.bitDepth)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestPCMFrames(t *testing.T) {
	pcm := &PCM{SampleRate: 4, Channels: 2}
	for i := 0; i < 8; i++ {
		pcm.AppendSample(int16(i))
	}

	if pcm.Frames() != 4 {
		t.Errorf("expected 4 frames, got %d", pcm.Frames())
	}
	if pcm.Duration() != time.Second {
		t.Errorf("expected 1s, got %v", pcm.Duration())
	}
	if pcm.Empty() {
		t.Error("expected non-empty track")
	}
}

func TestPCMEmpty(t *testing.T) {
	var nilPCM *PCM
	if !nilPCM.Empty() {
		t.Error("nil track should be empty")
	}

	pcm := &PCM{SampleRate: 44100}
	if !pcm.Empty() {
		t.Error("track without channels should be empty")
	}
	if pcm.Duration() != 0 {
		t.Errorf("expected zero duration, got %v", pcm.Duration())
	}
}
