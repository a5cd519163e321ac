// ABOUTME: Tests for the media element
// ABOUTME: Tests preload, user activation gating, play/pause events and close
package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Sendspin/bgmusic/internal/audiotest"
	"go.uber.org/zap/zaptest"
)

// fakeOutput records calls instead of touching an audio device
type fakeOutput struct {
	mu       sync.Mutex
	opened   int
	started  int
	paused   int
	resumed  int
	closed   int
	volume   float64
	channels int
	rate     int
	source   io.Reader

	// When set, Open signals opening and blocks until gate is closed
	opening chan struct{}
	gate    chan struct{}
}

func (f *fakeOutput) Open(sampleRate, channels int) error {
	if f.gate != nil {
		close(f.opening)
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened++
	f.rate = sampleRate
	f.channels = channels
	return nil
}

func (f *fakeOutput) Start(r io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	f.source = r
	return nil
}

func (f *fakeOutput) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused++
}

func (f *fakeOutput) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumed++
}

func (f *fakeOutput) SetVolume(volume float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = volume
}

func (f *fakeOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// gatedResolver blocks until release is closed
type gatedResolver struct {
	release chan struct{}
	path    string
	err     error
}

func (g *gatedResolver) Resolve(ctx context.Context, _ string) (string, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return g.path, g.err
}

// eventLog collects events from any goroutine
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) listener(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) types() []EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	types := make([]EventType, len(l.events))
	for i, ev := range l.events {
		types[i] = ev.Type
	}
	return types
}

func newFixture(t *testing.T) string {
	t.Helper()
	return audiotest.WriteWAV(t, t.TempDir(), "loop.wav", 8000, 2, audiotest.Tone(256, 2))
}

func waitLoaded(t *testing.T, e *Element) {
	t.Helper()
	select {
	case <-e.Loaded():
	case <-time.After(5 * time.Second):
		t.Fatal("element did not finish loading")
	}
}

func TestElementPreloads(t *testing.T) {
	out := &fakeOutput{}
	e := NewElement(newFixture(t), Options{Output: out, Logger: zaptest.NewLogger(t)})
	defer e.Close()

	waitLoaded(t, e)

	if err := e.LoadErr(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if e.Duration() != 32*time.Millisecond {
		t.Errorf("expected 32ms loop, got %v", e.Duration())
	}
	if !e.Paused() {
		t.Error("element should start paused")
	}
	if out.started != 0 {
		t.Error("preload must not start playback")
	}
}

func TestElementLoadEvents(t *testing.T) {
	resolver := &gatedResolver{release: make(chan struct{}), path: newFixture(t)}
	e := NewElement("loop.wav", Options{Output: &fakeOutput{}, Resolver: resolver})
	defer e.Close()

	log := &eventLog{}
	e.Subscribe(log.listener)
	close(resolver.release)
	waitLoaded(t, e)

	types := log.types()
	if len(types) != 1 || types[0] != EventLoadedData {
		t.Errorf("expected [loadeddata], got %v", types)
	}
}

func TestElementLoadFailure(t *testing.T) {
	resolver := &gatedResolver{
		release: make(chan struct{}),
		path:    filepath.Join(t.TempDir(), "missing.mp3"),
	}
	e := NewElement("missing.mp3", Options{Output: &fakeOutput{}, Resolver: resolver, Autoplay: true})
	defer e.Close()

	log := &eventLog{}
	e.Subscribe(log.listener)
	close(resolver.release)
	waitLoaded(t, e)

	types := log.types()
	if len(types) != 1 || types[0] != EventError {
		t.Fatalf("expected [error], got %v", types)
	}
	if log.events[0].Err == nil {
		t.Error("error event should carry the cause")
	}

	err := e.Play(context.Background())
	if !errors.Is(err, ErrNotSupported) {
		t.Errorf("expected ErrNotSupported, got %v", err)
	}
}

func TestElementPlayRequiresActivation(t *testing.T) {
	out := &fakeOutput{}
	e := NewElement(newFixture(t), Options{Output: out})
	defer e.Close()
	waitLoaded(t, e)

	log := &eventLog{}
	e.Subscribe(log.listener)

	if err := e.Play(context.Background()); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if len(log.types()) != 0 {
		t.Errorf("rejected play must not emit events, got %v", log.types())
	}

	e.Activate()
	if err := e.Play(context.Background()); err != nil {
		t.Fatalf("play after activation failed: %v", err)
	}
	if e.Paused() {
		t.Error("element should be playing")
	}
	if out.opened != 1 || out.started != 1 {
		t.Errorf("expected output opened and started once, got %d/%d", out.opened, out.started)
	}
	if out.rate != 8000 || out.channels != 2 {
		t.Errorf("unexpected output format %dHz %dch", out.rate, out.channels)
	}
}

func TestElementPlayPauseEvents(t *testing.T) {
	out := &fakeOutput{}
	e := NewElement(newFixture(t), Options{Output: out, Autoplay: true})
	defer e.Close()
	waitLoaded(t, e)

	log := &eventLog{}
	e.Subscribe(log.listener)

	ctx := context.Background()
	e.Play(ctx)
	e.Play(ctx) // already playing, no second event
	e.Pause()
	e.Pause() // already paused, no second event
	e.Play(ctx)

	expected := []EventType{EventPlay, EventPause, EventPlay}
	types := log.types()
	if len(types) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, types)
	}
	for i := range expected {
		if types[i] != expected[i] {
			t.Errorf("event %d: expected %v, got %v", i, expected[i], types[i])
		}
	}

	if out.started != 1 {
		t.Errorf("expected a single start, got %d", out.started)
	}
	if out.resumed != 1 {
		t.Errorf("expected one resume, got %d", out.resumed)
	}
	if out.paused != 1 {
		t.Errorf("expected one pause, got %d", out.paused)
	}
}

func TestElementLoopsSource(t *testing.T) {
	out := &fakeOutput{}
	e := NewElement(newFixture(t), Options{Output: out, Autoplay: true})
	defer e.Close()
	waitLoaded(t, e)

	if err := e.Play(context.Background()); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	// 256 frames * 2ch * 2 bytes = 1024 bytes per loop; read past the end
	buf := make([]byte, 4096)
	n, err := io.ReadFull(out.source, buf)
	if err != nil || n != len(buf) {
		t.Errorf("expected endless source, got n=%d err=%v", n, err)
	}
}

func TestElementPlayWaitsForLoad(t *testing.T) {
	resolver := &gatedResolver{release: make(chan struct{}), path: newFixture(t)}
	e := NewElement("loop.wav", Options{Output: &fakeOutput{}, Resolver: resolver, Autoplay: true})
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := e.Play(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded while loading, got %v", err)
	}

	close(resolver.release)
	if err := e.Play(context.Background()); err != nil {
		t.Errorf("play after load failed: %v", err)
	}
}

func TestElementVolume(t *testing.T) {
	out := &fakeOutput{}
	e := NewElement(newFixture(t), Options{Output: out, Volume: 0.5})
	defer e.Close()

	if e.Volume() != 0.5 {
		t.Errorf("expected initial volume 0.5, got %f", e.Volume())
	}

	e.SetVolume(0.3)
	if e.Volume() != 0.3 || out.volume != 0.3 {
		t.Errorf("expected 0.3 on element and output, got %f/%f", e.Volume(), out.volume)
	}

	e.SetVolume(2)
	if e.Volume() != 1 {
		t.Errorf("expected clamp to 1, got %f", e.Volume())
	}
}

func TestElementClose(t *testing.T) {
	out := &fakeOutput{}
	e := NewElement(newFixture(t), Options{Output: out, Autoplay: true})
	waitLoaded(t, e)

	e.Play(context.Background())
	if err := e.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	if out.closed != 1 {
		t.Errorf("expected output closed once, got %d", out.closed)
	}
	if err := e.Play(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Pause after close is a no-op
	e.Pause()
	if out.paused != 0 {
		t.Errorf("expected no output pause after close, got %d", out.paused)
	}
}

func TestElementCloseCancelsLoad(t *testing.T) {
	resolver := &gatedResolver{release: make(chan struct{}), path: newFixture(t)}
	e := NewElement("loop.wav", Options{Output: &fakeOutput{}, Resolver: resolver})

	e.Close()
	waitLoaded(t, e)

	if !errors.Is(e.LoadErr(), context.Canceled) {
		t.Errorf("expected cancelled load, got %v", e.LoadErr())
	}
}

func TestElementCancelledPlayNeverStarts(t *testing.T) {
	out := &fakeOutput{}
	e := NewElement(newFixture(t), Options{Output: out, Autoplay: true})
	defer e.Close()
	waitLoaded(t, e)

	log := &eventLog{}
	e.Subscribe(log.listener)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Loaded and cancelled are both ready; cancellation must win every time
	for i := 0; i < 20; i++ {
		if err := e.Play(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	}

	if out.started != 0 {
		t.Errorf("expected no output start, got %d", out.started)
	}
	if len(log.types()) != 0 {
		t.Errorf("expected no events, got %v", log.types())
	}
	if !e.Paused() {
		t.Error("expected element to stay paused")
	}
}

func TestElementVolumeWhileOutputOpens(t *testing.T) {
	out := &fakeOutput{opening: make(chan struct{}), gate: make(chan struct{})}
	e := NewElement(newFixture(t), Options{Output: out, Autoplay: true})
	defer e.Close()
	waitLoaded(t, e)

	played := make(chan error, 1)
	go func() { played <- e.Play(context.Background()) }()

	select {
	case <-out.opening:
	case <-time.After(2 * time.Second):
		t.Fatal("output was never opened")
	}

	volumeSet := make(chan struct{})
	go func() {
		e.SetVolume(0.2)
		close(volumeSet)
	}()

	select {
	case <-volumeSet:
	case <-time.After(time.Second):
		close(out.gate)
		t.Fatal("SetVolume blocked while the output was opening")
	}

	close(out.gate)
	if err := <-played; err != nil {
		t.Fatalf("play failed: %v", err)
	}

	out.mu.Lock()
	defer out.mu.Unlock()
	if out.volume != 0.2 {
		t.Errorf("expected started output at 0.2, got %f", out.volume)
	}
	if out.started != 1 {
		t.Errorf("expected one start, got %d", out.started)
	}
}
