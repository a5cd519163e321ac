// ABOUTME: Headless line-oriented surface for the music control
// ABOUTME: Reads commands with readline and runs them on the control loop
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/Sendspin/bgmusic/internal/control"
	"github.com/Sendspin/bgmusic/internal/loop"
	"github.com/Sendspin/bgmusic/pkg/media"
	"github.com/chzyer/readline"
	"go.uber.org/zap"
)

const helpText = `Commands:
  play, p        toggle play/pause
  mute, m        toggle mute
  vol, v <0-1>   set volume (e.g. "vol 0.3")
  status, s      show playback state
  help, ?        show this help
  quit, q        exit`

// Config wires a console to its media handle
type Config struct {
	Handle    media.Handle
	Activator media.Activator // optional
	Autoplay  bool            // request playback at mount
	Logger    *zap.Logger
	Out       io.Writer // default: stdout
}

// Console drives a control from typed commands
type Console struct {
	control   *control.Control
	loop      *loop.Loop
	activator media.Activator

	mu     sync.Mutex
	out    io.Writer
	notice string
}

// New creates a console and the control it drives
func New(cfg Config) *Console {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	c := &Console{
		loop:      loop.New(),
		activator: cfg.Activator,
		out:       cfg.Out,
	}
	c.control = control.New(cfg.Handle, control.Options{
		Post:     c.loop.Post,
		Notice:   c.showNotice,
		OnChange: c.printState,
		Autoplay: cfg.Autoplay,
		Logger:   cfg.Logger,
	})
	return c
}

// Run reads commands until quit, EOF, interrupt or ctx is done
func (c *Console) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "♪ ",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("play"),
			readline.PcItem("mute"),
			readline.PcItem("vol"),
			readline.PcItem("status"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to start console: %w", err)
	}
	closeReader := sync.OnceFunc(func() { rl.Close() })
	defer closeReader()

	c.mu.Lock()
	c.out = rl.Stdout()
	c.mu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.loop.Post(c.control.Mount)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		c.loop.Run(loopCtx)
	}()

	// Close the reader when ctx ends so Readline returns
	go func() {
		<-loopCtx.Done()
		closeReader()
	}()

	c.println(helpText)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("console read failed: %w", err)
		}

		quit, err := c.Execute(line)
		if err != nil {
			c.printf("error: %v\n", err)
		}
		if quit {
			break
		}
	}

	// Stop the loop, then unmount from here once it no longer runs
	cancel()
	<-loopDone
	c.control.Unmount()
	c.loop.Close()
	return nil
}

// Execute handles one command line. Control operations are posted to the
// loop rather than run here.
func (c *Console) Execute(line string) (quit bool, err error) {
	if c.activator != nil {
		c.activator.Activate()
	}

	// A pending notice swallows the next line as its acknowledgement
	if c.takeNotice() {
		return false, nil
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "play", "p", "pause":
		c.loop.Post(c.control.TogglePlayPause)
	case "mute", "m", "unmute":
		c.loop.Post(c.control.ToggleMute)
	case "vol", "v", "volume":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: vol <0-1>")
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false, fmt.Errorf("invalid volume %q: %w", fields[1], err)
		}
		if v < 0 || v > 1 {
			return false, fmt.Errorf("volume %.2f out of range [0,1]", v)
		}
		c.loop.Post(func() { c.control.SetVolume(v) })
	case "status", "s":
		c.loop.Post(func() { c.printState(c.control.State()) })
	case "help", "?":
		c.println(helpText)
	case "quit", "q", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try \"help\")", fields[0])
	}

	return false, nil
}

// showNotice prints a notice that the next input line acknowledges
func (c *Console) showNotice(message string) {
	c.mu.Lock()
	c.notice = message
	c.mu.Unlock()

	c.printf("\n!! %s\n!! (press Enter to continue)\n", message)
}

func (c *Console) takeNotice() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice == "" {
		return false
	}
	c.notice = ""
	return true
}

func (c *Console) printState(s control.State) {
	playback := "stopped"
	if s.Playing {
		playback = "playing"
	}
	mute := "🔊"
	if s.Muted {
		mute = "🔇"
	}
	c.printf("[%s] %s volume %.1f (slider %.1f)\n", playback, mute, s.Volume, s.SliderValue())
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	c.printf("%s\n", s)
}
