// ABOUTME: Test helpers for producing small audio fixtures
// ABOUTME: Writes 16-bit PCM WAV files with go-audio/wav
package audiotest

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV writes a 16-bit PCM WAV file into dir and returns its path
func WriteWAV(t testing.TB, dir, name string, sampleRate, channels int, samples []int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create wav fixture: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write wav fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize wav fixture: %v", err)
	}

	return path
}

// Tone returns n interleaved frames of a square wave
func Tone(frames, channels int) []int {
	samples := make([]int, 0, frames*channels)
	for i := 0; i < frames; i++ {
		v := 8000
		if (i/8)%2 == 1 {
			v = -8000
		}
		for c := 0; c < channels; c++ {
			samples = append(samples, v)
		}
	}
	return samples
}
