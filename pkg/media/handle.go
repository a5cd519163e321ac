// ABOUTME: Media handle contract, events and errors
// ABOUTME: Shared by the control and every playback backend
package media

import (
	"context"
	"errors"
)

var (
	// ErrNotAllowed rejects playback requested before any user gesture
	ErrNotAllowed = errors.New("playback not allowed without user interaction")

	// ErrNotSupported rejects playback of a resource that failed to load
	ErrNotSupported = errors.New("media resource not supported")

	// ErrClosed rejects requests on a closed handle
	ErrClosed = errors.New("media handle closed")
)

// EventType identifies a handle notification
type EventType int

const (
	EventLoadedData EventType = iota
	EventError
	EventPlay
	EventPause
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventLoadedData:
		return "loadeddata"
	case EventError:
		return "error"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners. Err is set for EventError.
type Event struct {
	Type EventType
	Err  error
}

// Listener receives handle events. It may be called from any goroutine.
type Listener func(Event)

// Handle controls playback of one audio stream
type Handle interface {
	// Play requests playback. It blocks until the request is accepted or
	// rejected; acceptance is confirmed separately by EventPlay.
	Play(ctx context.Context) error

	// Pause requests a pause. It always succeeds; EventPause confirms it.
	Pause()

	// Paused reports the handle's own play/pause status
	Paused() bool

	// SetVolume sets the output level (0.0-1.0)
	SetVolume(volume float64)

	// Volume returns the output level
	Volume() float64

	// Subscribe registers a listener and returns its release func
	Subscribe(l Listener) (release func())
}

// Activator records user gestures that unlock playback
type Activator interface {
	Activate()
}
