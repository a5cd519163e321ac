// ABOUTME: Bubbletea model for the background music controls
// ABOUTME: Maps keys to control operations and renders buttons, slider and notices
package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Sendspin/bgmusic/internal/control"
	"github.com/Sendspin/bgmusic/internal/loop"
	"github.com/Sendspin/bgmusic/pkg/media"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	// volumeStep matches the slider granularity
	volumeStep = 0.1

	sliderWidth = 10
)

// Focus identifies the control that enter presses
type Focus int

const (
	FocusPlay Focus = iota
	FocusMute
	FocusSlider
	focusCount
)

// DrainMsg asks the model to run work queued on the control loop
type DrainMsg struct{}

// Config wires a model to its media handle
type Config struct {
	Handle    media.Handle
	Activator media.Activator // optional
	Source    string
	Autoplay  bool // request playback at mount
	Logger    *zap.Logger
}

// Model represents the TUI state
type Model struct {
	control   *control.Control
	loop      *loop.Loop
	activator media.Activator
	source    string

	focus  Focus
	notice string

	// Dimensions
	width  int
	height int
}

// New creates a model and the control it drives
func New(cfg Config) *Model {
	m := &Model{
		loop:      loop.New(),
		activator: cfg.Activator,
		source:    cfg.Source,
	}
	m.control = control.New(cfg.Handle, control.Options{
		Post:   m.loop.Post,
		Notice:   m.showNotice,
		Autoplay: cfg.Autoplay,
		Logger:   cfg.Logger,
	})
	return m
}

// Loop returns the loop the model drains on DrainMsg
func (m *Model) Loop() *loop.Loop {
	return m.loop
}

// Control returns the underlying control
func (m *Model) Control() *control.Control {
	return m.control
}

// Init mounts the control
func (m *Model) Init() tea.Cmd {
	m.control.Mount()
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case DrainMsg:
		m.loop.Drain()
	}

	return m, nil
}

// handleKey handles keyboard input. Every key counts as a user gesture.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activator != nil {
		m.activator.Activate()
	}

	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	// The notice blocks input until acknowledged
	if m.notice != "" {
		m.notice = ""
		return m, nil
	}

	switch key {
	case "q":
		return m.quit()
	case " ", "p":
		m.control.TogglePlayPause()
	case "m":
		m.control.ToggleMute()
	case "right", "up", "+", "=":
		m.stepVolume(1)
	case "left", "down", "-":
		m.stepVolume(-1)
	case "tab":
		m.focus = (m.focus + 1) % focusCount
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
	case "enter":
		m.press()
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			m.control.SetVolume(float64(key[0]-'0') / 10)
		}
	}

	return m, nil
}

// press activates the focused control
func (m *Model) press() {
	switch m.focus {
	case FocusPlay:
		m.control.TogglePlayPause()
	case FocusMute:
		m.control.ToggleMute()
	}
}

// stepVolume moves the slider one notch from its displayed position
func (m *Model) stepVolume(dir int) {
	shown := m.control.State().SliderValue()
	next := math.Round((shown+float64(dir)*volumeStep)*10) / 10
	m.control.SetVolume(next)
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.control.Unmount()
	m.loop.Close()
	return m, tea.Quit
}

// showNotice opens the blocking notice
func (m *Model) showNotice(message string) {
	m.notice = message
}

// View renders the TUI
func (m *Model) View() string {
	controls := containerStyle.Render(m.renderControls())
	status := m.renderStatus()
	help := m.renderHelp()

	if m.width == 0 {
		s := controls + "\n" + status + "\n"
		if m.notice != "" {
			s += m.renderNotice() + "\n"
		}
		return s + help
	}

	top := lipgloss.PlaceHorizontal(m.width, lipgloss.Right, controls)
	bodyHeight := m.height - lipgloss.Height(top) - 2
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	var body string
	if m.notice != "" {
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderNotice())
	} else {
		body = strings.Repeat("\n", bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, body, status, help)
}

// renderControls renders the two buttons and the slider
func (m *Model) renderControls() string {
	state := m.control.State()

	playLabel := "▶️  Play"
	if state.Playing {
		playLabel = "⏸️  Pause"
	}
	muteLabel := "🔊 Mute"
	if state.Muted {
		muteLabel = "🔇 Unmute"
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.buttonStyle(FocusPlay).Render(playLabel),
		" ",
		m.buttonStyle(FocusMute).Render(muteLabel),
		" ",
		m.renderSlider(state.SliderValue()),
	)
}

func (m *Model) buttonStyle(f Focus) lipgloss.Style {
	if m.focus == f {
		return focusedButtonStyle
	}
	return buttonStyle
}

// renderSlider renders the volume range [0,1] in 0.1 notches
func (m *Model) renderSlider(value float64) string {
	style := sliderStyle
	if m.focus == FocusSlider {
		style = focusedSliderStyle
	}
	notches := int(math.Round(value * sliderWidth))
	return style.Render(fmt.Sprintf("[%s] %.1f", renderBar(notches, sliderWidth, sliderWidth), value))
}

// renderStatus renders the playback summary line
func (m *Model) renderStatus() string {
	state := m.control.State()

	playback := "Stopped"
	if state.Playing {
		playback = "Playing"
	}
	if state.Muted {
		playback += " (muted)"
	}

	return statusStyle.Render(fmt.Sprintf("♪ %s: %s, volume %.1f",
		trackName(m.source), playback, state.Volume))
}

// renderHelp renders keyboard shortcuts
func (m *Model) renderHelp() string {
	return helpStyle.Render("space:Play/Pause  m:Mute  ←/→:Volume  0-9:Set volume  tab:Focus  q:Quit")
}

// renderNotice renders the blocking notice
func (m *Model) renderNotice() string {
	return noticeStyle.Render(m.notice + "\n\n(press any key)")
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}
	return b.String()
}

func trackName(source string) string {
	if source == "" {
		return "(no track)"
	}
	name := filepath.Base(strings.Split(source, "?")[0])
	return truncate(name, 32)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
