// ABOUTME: Background music control: play/pause, mute and volume over a media handle
// ABOUTME: Keeps playback state in step with the handle's own notifications
package control

import (
	"context"
	"errors"
	"math"

	"github.com/Sendspin/bgmusic/pkg/media"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultVolume is the baseline volume at mount
const DefaultVolume = 0.5

// NoticeInteractFirst is shown when playback is blocked for lack of a user gesture
const NoticeInteractFirst = "Press any key on the player first, then try playing the music again."

// State is the control's view of playback
type State struct {
	Playing bool
	Volume  float64 // baseline volume, kept while muted
	Muted   bool
}

// Output is the level the handle should be producing
func (s State) Output() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

// SliderValue is the volume shown to the user: 0 while muted
func (s State) SliderValue() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

// Options wires the control into its surface
type Options struct {
	// Post runs a closure on the surface's event loop (required)
	Post func(func())

	// Notice shows a blocking message to the user
	Notice func(message string)

	// OnChange is called after every state mutation
	OnChange func(State)

	// Autoplay requests playback at mount, before any user gesture. The
	// handle may refuse it, which surfaces the interact-first notice.
	Autoplay bool

	Logger *zap.Logger
}

// Control drives one media handle. Every method must be called on the
// loop that Post schedules onto.
type Control struct {
	handle   media.Handle
	post     func(func())
	notice   func(string)
	onChange func(State)
	log      *zap.SugaredLogger
	autoplay bool

	state   State
	mounted bool
	gen     uint64
	ctx     context.Context
	cancel  context.CancelFunc
	release func()
}

// New creates an unmounted control for handle
func New(handle media.Handle, opts Options) *Control {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Notice == nil {
		opts.Notice = func(string) {}
	}
	if opts.OnChange == nil {
		opts.OnChange = func(State) {}
	}

	return &Control{
		handle:   handle,
		post:     opts.Post,
		notice:   opts.Notice,
		onChange: opts.OnChange,
		autoplay: opts.Autoplay,
		log: logger.Named("control").
			With(zap.String("instance", uuid.NewString())).
			Sugar(),
		state: State{Volume: DefaultVolume},
	}
}

// Mount resets volume and mute to defaults, applies the output level and
// starts listening to the handle. Playing starts from the handle's own
// status, so a remount over a running handle shows it as playing.
func (c *Control) Mount() {
	if c.mounted {
		return
	}

	c.gen++
	c.mounted = true
	c.state = State{Volume: DefaultVolume, Playing: !c.handle.Paused()}
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.setup()
	c.changed()

	if c.autoplay && !c.state.Playing {
		c.requestPlay(c.playRejected)
	}
}

// setup applies the output level and (re)registers the handle listener
func (c *Control) setup() {
	if c.release != nil {
		c.release()
		c.release = nil
	}

	c.handle.SetVolume(c.state.Output())

	gen := c.gen
	c.release = c.handle.Subscribe(func(ev media.Event) {
		c.post(func() { c.handleEvent(gen, ev) })
	})
}

// Unmount abandons pending requests and stops listening. Completions that
// arrive afterwards are dropped.
func (c *Control) Unmount() {
	if !c.mounted {
		return
	}

	c.mounted = false
	c.cancel()
	if c.release != nil {
		c.release()
		c.release = nil
	}
}

// Mounted reports whether the control is live
func (c *Control) Mounted() bool {
	return c.mounted
}

// State returns a snapshot of the current state
func (c *Control) State() State {
	return c.state
}

// TogglePlayPause pauses when playing, otherwise requests playback.
// Playing only changes once the handle confirms it.
func (c *Control) TogglePlayPause() {
	if !c.mounted {
		return
	}

	if c.state.Playing {
		c.handle.Pause()
		return
	}

	c.requestPlay(c.playRejected)
}

// ToggleMute flips the mute overlay without touching playback, except that
// unmuting while stopped attempts to resume
func (c *Control) ToggleMute() {
	if !c.mounted {
		return
	}

	if !c.state.Muted {
		c.handle.SetVolume(0)
		c.state.Muted = true
		c.changed()
		return
	}

	c.handle.SetVolume(c.state.Volume)
	c.state.Muted = false
	c.changed()

	if !c.state.Playing {
		c.requestPlay(func(err error) {
			c.log.Warnf("Resume after unmute failed: %v", err)
		})
	}
}

// SetVolume stores a new baseline volume. While muted the output stays at 0.
func (c *Control) SetVolume(volume float64) {
	if !c.mounted || math.IsNaN(volume) {
		return
	}

	volume = math.Max(0, math.Min(1, volume))
	c.state.Volume = volume
	if !c.state.Muted {
		c.handle.SetVolume(volume)
	}
	c.changed()
}

// requestPlay asks the handle to play without blocking the loop. Failures
// are reported to onErr on the loop, unless the control was unmounted.
func (c *Control) requestPlay(onErr func(error)) {
	gen := c.gen
	ctx := c.ctx

	go func() {
		err := c.handle.Play(ctx)
		if err == nil {
			return
		}
		c.post(func() {
			if !c.live(gen) {
				return
			}
			onErr(err)
		})
	}()
}

// playRejected classifies a failed play request
func (c *Control) playRejected(err error) {
	c.log.Errorf("Music playback error: %v", err)

	if errors.Is(err, media.ErrNotAllowed) {
		c.notice(NoticeInteractFirst)
	}
}

// handleEvent applies a handle notification
func (c *Control) handleEvent(gen uint64, ev media.Event) {
	if !c.live(gen) {
		return
	}

	switch ev.Type {
	case media.EventLoadedData:
		c.log.Infof("Music loaded")
	case media.EventError:
		c.log.Errorf("Music load error: %v", ev.Err)
	case media.EventPlay:
		c.log.Infof("Music playing")
		c.state.Playing = true
		c.changed()
	case media.EventPause:
		c.log.Infof("Music paused")
		c.state.Playing = false
		c.changed()
	}
}

func (c *Control) live(gen uint64) bool {
	return c.mounted && c.gen == gen
}

func (c *Control) changed() {
	c.onChange(c.state)
}
