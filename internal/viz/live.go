package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/playback"
	"github.com/san-kum/vizsync/internal/scene"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	orbitStep       = 0.1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// StepFunc applies one recorded step to the scene and reports how many
// objects moved.
type StepFunc func(step int) (int, error)

type StepMsg int

type doneMsg struct{}

// LiveModel replays steps from a Player into the scene and draws the
// scene root after every step.
type LiveModel struct {
	title   string
	player  *playback.Player
	apply   StepFunc
	objects func() []*scene.Object
	bounds  control.Bounds
	limit   int

	canvas *Canvas
	camera *Camera
	theme  Theme

	step    int
	updates []float64
	err     error
	done    bool
}

func NewLive(title string, player *playback.Player, limit int, objects func() []*scene.Object, bounds control.Bounds, apply StepFunc) LiveModel {
	cam := NewCamera()
	cam.Frame(bounds)
	m := LiveModel{
		title:   title,
		player:  player,
		apply:   apply,
		objects: objects,
		bounds:  bounds,
		limit:   limit,
		canvas:  NewCanvas(width, height),
		camera:  cam,
		theme:   ThemeCyberpunk,
	}
	m.draw()
	return m
}

func waitForStep(p *playback.Player) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-p.Steps()
		if !ok {
			return doneMsg{}
		}
		return StepMsg(s)
	}
}

func (m LiveModel) Init() tea.Cmd {
	return waitForStep(m.player)
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.player.Paused() {
				m.player.Resume()
			} else {
				m.player.Pause()
			}
		case "l":
			m.player.Loop()
		case "t":
			m.theme = NextTheme(m.theme)
		case "left", "h":
			m.camera.Orbit(-orbitStep, 0)
		case "right":
			m.camera.Orbit(orbitStep, 0)
		case "up", "k":
			m.camera.Orbit(0, orbitStep)
		case "down", "j":
			m.camera.Orbit(0, -orbitStep)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "f":
			m.camera.Frame(m.bounds)
		}
		m.draw()
	case StepMsg:
		m.step = int(msg)
		n, err := m.apply(m.step)
		if err != nil {
			m.err = err
		}
		m.updates = append(m.updates, float64(n))
		if len(m.updates) > historyCapacity {
			m.updates = m.updates[len(m.updates)-historyCapacity:]
		}
		m.player.MarkProcessed()
		m.draw()
		return m, waitForStep(m.player)
	case doneMsg:
		m.done = true
	}
	return m, nil
}

func (m *LiveModel) draw() {
	m.canvas.Clear()
	Render3D(m.canvas, Extract(m.objects()), m.camera)
}

func (m LiveModel) status() string {
	switch {
	case m.done:
		return StatusPaused.Render("FINISHED")
	case m.player.Paused():
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("PLAYING")
}

func (m LiveModel) View() string {
	bright, dim := m.theme.styles()
	canvasView := canvasStyle.Render(m.canvas.Render(bright, dim))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(Metric("Step", fmt.Sprintf("%d", m.step)) + "\n")
	if m.limit > 0 {
		s.WriteString(MetricLabel.Render("Progress") + ProgressBar(float64(m.step)/float64(m.limit), 20) + "\n")
	}
	last := 0.0
	if len(m.updates) > 0 {
		last = m.updates[len(m.updates)-1]
	}
	s.WriteString(Metric("Updated", fmt.Sprintf("%.0f", last)) + "\n")
	s.WriteString(Metric("Objects", fmt.Sprintf("%d", len(m.objects()))) + "\n")
	s.WriteString(Metric("Theme", m.theme.Name) + "\n")
	if len(m.updates) > 1 {
		s.WriteString(graphStyle.Render(PlotUpdates(m.updates, 30, 4)) + "\n")
	}
	if m.err != nil {
		s.WriteString(ErrorText.Render(m.err.Error()) + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Pause L:Loop T:Theme Q:Quit\n←→↑↓:Orbit +/-:Zoom F:Frame"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// RunLive plays player into the scene inside a full-screen program until
// the user quits or ctx is done.
func RunLive(ctx context.Context, m LiveModel) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go m.player.Run(ctx)

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
