// ABOUTME: Oto-backed media element playing one looping track
// ABOUTME: Preloads, decodes and gates playback behind user activation
package media

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Sendspin/bgmusic/pkg/audio"
	"github.com/Sendspin/bgmusic/pkg/audio/decode"
	"github.com/Sendspin/bgmusic/pkg/audio/output"
	"go.uber.org/zap"
)

// Resolver maps a locator to a readable local file
type Resolver interface {
	Resolve(ctx context.Context, locator string) (string, error)
}

// Options configures an Element
type Options struct {
	// Autoplay allows Play before any user gesture
	Autoplay bool

	// Volume is the initial output level (default: 1.0)
	Volume float64

	// Output plays the decoded track (default: oto)
	Output output.Output

	// Resolver locates the resource (default: plain local paths)
	Resolver Resolver

	Logger *zap.Logger
}

// Element is the production Handle
type Element struct {
	src      string
	log      *zap.SugaredLogger
	out      output.Output
	resolver Resolver
	events   Emitter

	ctx    context.Context
	cancel context.CancelFunc
	loaded chan struct{}

	// startMu serializes Play so the device can open without holding mu
	startMu sync.Mutex

	mu        sync.Mutex
	track     *audio.PCM
	loadErr   error
	started   bool
	paused    bool
	volume    float64
	activated bool
	autoplay  bool
	closed    bool
}

var _ Handle = (*Element)(nil)
var _ Activator = (*Element)(nil)

// NewElement creates an element for src and starts preloading it
func NewElement(src string, opts Options) *Element {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Output == nil {
		opts.Output = output.NewOto(logger)
	}
	if opts.Resolver == nil {
		opts.Resolver = localResolver{}
	}
	if opts.Volume == 0 {
		opts.Volume = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	e := &Element{
		src:      src,
		log:      logger.Named("media").Sugar(),
		out:      opts.Output,
		resolver: opts.Resolver,
		ctx:      ctx,
		cancel:   cancel,
		loaded:   make(chan struct{}),
		paused:   true,
		volume:   output.ClampVolume(opts.Volume),
		autoplay: opts.Autoplay,
	}

	go e.load()

	return e
}

// load fetches and decodes the resource
func (e *Element) load() {
	defer close(e.loaded)

	track, err := e.fetchAndDecode()

	e.mu.Lock()
	e.track = track
	e.loadErr = err
	e.mu.Unlock()

	if err != nil {
		// Listeners may not be registered yet, so the failure is logged here too
		e.log.Errorf("Failed to load %s: %v", e.src, err)
		e.events.Emit(Event{Type: EventError, Err: err})
		return
	}

	e.log.Infof("Loaded %s: %dHz %dch, %v per loop",
		e.src, track.SampleRate, track.Channels, track.Duration().Round(time.Millisecond))
	e.events.Emit(Event{Type: EventLoadedData})
}

func (e *Element) fetchAndDecode() (*audio.PCM, error) {
	path, err := e.resolver.Resolve(e.ctx, e.src)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	pcm, codec, err := decode.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	e.log.Debugf("Decoded %s as %s", path, codec)

	return pcm, nil
}

// Loaded is closed once the resource has loaded or failed
func (e *Element) Loaded() <-chan struct{} {
	return e.loaded
}

// LoadErr returns the load failure, if any
func (e *Element) LoadErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

// Duration returns the length of one loop, zero until loaded
func (e *Element) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.track == nil {
		return 0
	}
	return e.track.Duration()
}

// Activate records a user gesture, unlocking Play
func (e *Element) Activate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activated = true
}

// Play starts or resumes the looping track
func (e *Element) Play(ctx context.Context) error {
	e.mu.Lock()
	closed := e.closed
	allowed := e.activated || e.autoplay
	e.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if !allowed {
		return ErrNotAllowed
	}

	select {
	case <-e.loaded:
	case <-ctx.Done():
	}
	// Both may be ready; a cancelled request never starts audio
	if err := ctx.Err(); err != nil {
		return err
	}

	e.startMu.Lock()
	defer e.startMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.loadErr != nil {
		err := e.loadErr
		e.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrNotSupported, err)
	}
	if !e.paused {
		e.mu.Unlock()
		return nil
	}
	started := e.started
	e.mu.Unlock()

	if !started {
		// Opening the device can block; volume changes stay responsive meanwhile
		if err := e.open(); err != nil {
			return err
		}
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if started {
		e.out.Resume()
	} else {
		e.out.SetVolume(e.volume)
		if err := e.out.Start(audio.NewLoopReader(e.track.Data)); err != nil {
			e.mu.Unlock()
			return fmt.Errorf("failed to start output: %w", err)
		}
		e.started = true
	}
	e.paused = false
	e.mu.Unlock()

	e.events.Emit(Event{Type: EventPlay})
	return nil
}

// open initializes the output for the loaded track. Called with startMu held.
func (e *Element) open() error {
	e.mu.Lock()
	rate, channels := e.track.SampleRate, e.track.Channels
	e.mu.Unlock()

	if err := e.out.Open(rate, channels); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	return nil
}

// Pause pauses playback
func (e *Element) Pause() {
	e.mu.Lock()
	if e.paused || e.closed {
		e.mu.Unlock()
		return
	}
	e.out.Pause()
	e.paused = true
	e.mu.Unlock()

	e.events.Emit(Event{Type: EventPause})
}

// Paused reports whether the element is paused
func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// SetVolume sets the output level
func (e *Element) SetVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volume = output.ClampVolume(volume)
	e.out.SetVolume(e.volume)
}

// Volume returns the output level
func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Subscribe registers a listener
func (e *Element) Subscribe(l Listener) func() {
	return e.events.Subscribe(l)
}

// Close stops playback and releases the output
func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.paused = true
	e.cancel()

	if err := e.out.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// localResolver accepts plain file paths only
type localResolver struct{}

func (localResolver) Resolve(_ context.Context, locator string) (string, error) {
	if _, err := os.Stat(locator); err != nil {
		return "", fmt.Errorf("audio resource unavailable: %w", err)
	}
	return locator, nil
}
