// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import "io"

// Output represents an audio output device playing one source at a time
type Output interface {
	// Open initializes the output device for s16le samples
	Open(sampleRate, channels int) error

	// Start replaces the current source and begins playback
	Start(r io.Reader) error

	// Pause halts playback, keeping the source position
	Pause()

	// Resume continues a paused source
	Resume()

	// SetVolume sets the output level (0.0-1.0)
	SetVolume(volume float64)

	// Close releases output resources
	Close() error
}

// ClampVolume limits a level to the range accepted by outputs
func ClampVolume(volume float64) float64 {
	if volume < 0 || volume != volume {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
