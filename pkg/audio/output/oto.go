// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays an s16le source through a single persistent oto player
package output

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

var errNotInitialized = errors.New("output not initialized")

// Oto output implementation using oto library
type Oto struct {
	// openMu serializes Open; mu is not held while the device starts
	openMu     sync.Mutex
	mu         sync.Mutex
	log        *zap.SugaredLogger
	otoCtx     *oto.Context
	player     *oto.Player
	sampleRate int
	channels   int
	volume     float64
	ready      bool
}

// NewOto creates a new Oto output
func NewOto(logger *zap.Logger) *Oto {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Oto{
		log:    logger.Named("output").Sugar(),
		volume: 1,
	}
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	o.openMu.Lock()
	defer o.openMu.Unlock()

	o.mu.Lock()
	// If already initialized with same format, reuse the existing context
	if o.otoCtx != nil && o.sampleRate == sampleRate && o.channels == channels {
		defer o.mu.Unlock()
		o.log.Debugf("Audio output already initialized with same format, reusing context")
		if !o.ready {
			if err := o.otoCtx.Resume(); err != nil {
				return fmt.Errorf("failed to resume oto context: %w", err)
			}
			o.ready = true
		}
		return nil
	}

	// oto only allows one context per process
	if o.otoCtx != nil {
		defer o.mu.Unlock()
		return fmt.Errorf("format change %dHz %dch -> %dHz %dch not supported by oto",
			o.sampleRate, o.channels, sampleRate, channels)
	}
	o.mu.Unlock()

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	// Waiting on the device must not block SetVolume or Close
	<-readyChan

	o.mu.Lock()
	defer o.mu.Unlock()
	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels
	o.ready = true

	o.log.Infof("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// Start replaces the current source and begins playback
func (o *Oto) Start(r io.Reader) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready {
		return errNotInitialized
	}

	if o.player != nil {
		if err := o.player.Close(); err != nil {
			o.log.Warnf("Closing previous player: %v", err)
		}
	}

	o.player = o.otoCtx.NewPlayer(r)
	o.player.SetVolume(o.volume)
	o.player.Play()

	return nil
}

// Pause halts playback
func (o *Oto) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		o.player.Pause()
	}
}

// Resume continues playback
func (o *Oto) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		o.player.Play()
	}
}

// SetVolume sets the volume (0.0-1.0)
func (o *Oto) SetVolume(volume float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.volume = ClampVolume(volume)
	if o.player != nil {
		o.player.SetVolume(o.volume)
	}
	o.log.Debugf("Volume set to %.2f", o.volume)
}

// Volume returns the current output level
func (o *Oto) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var err error
	if o.player != nil {
		err = o.player.Close()
		o.player = nil
	}
	if o.otoCtx != nil {
		if serr := o.otoCtx.Suspend(); serr != nil && err == nil {
			err = serr
		}
		o.ready = false
	}
	return err
}
