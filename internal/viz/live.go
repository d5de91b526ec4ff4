package viz

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/frame"
	"github.com/san-kum/sortviz/internal/pacer"
	"github.com/san-kum/sortviz/internal/session"
)

const (
	defaultWidth    = 100
	defaultHeight   = 30
	panelWidth      = 34
	historyCapacity = 240
	frameRate       = time.Second / 30
)

type tickMsg time.Time

type runFinishedMsg struct {
	sess *session.RunSession
	err  error
}

// controlState is the TUI's control surface. The session flips it around
// every run.
type controlState struct {
	running atomic.Bool
}

func (c *controlState) SetInteractive(running bool) { c.running.Store(running) }

func (c *controlState) Running() bool { return c.running.Load() }

// liveCounts is read by the UI goroutine while the run goroutine writes it.
type liveCounts struct {
	comparisons atomic.Int64
	swaps       atomic.Int64
	writes      atomic.Int64
}

func (c *liveCounts) OnStep(ev algo.Event) {
	switch ev.Kind {
	case algo.EventCompare:
		c.comparisons.Add(1)
	case algo.EventSwap:
		c.swaps.Add(1)
	case algo.EventWrite:
		c.writes.Add(1)
	}
}

func (c *liveCounts) reset() {
	c.comparisons.Store(0)
	c.swaps.Store(0)
	c.writes.Store(0)
}

type Options struct {
	Algorithm algo.Algorithm
	Size      int
	Sorted    bool
	Speed     int
	Theme     string
}

// Model is the interactive bubbletea application.
type Model struct {
	ctl      *session.Controller
	controls *controlState
	counts   *liveCounts

	keys     keyMap
	help     help.Model
	input    textinput.Model
	editing  bool
	showHelp bool

	theme  Theme
	styles Styles

	algorithms []algo.Algorithm
	cursor     int
	size       int
	sorted     bool
	speed      int
	target     *int

	width, height int
	frame         frame.Frame
	history       []float64
	last          *session.RunSession
	err           error
}

// NewModel attaches to ctl, taking over its control surface, and fills the
// array.
func NewModel(ctl *session.Controller, opts Options) Model {
	if opts.Speed < pacer.MinSpeed || opts.Speed > pacer.MaxSpeed {
		opts.Speed = (pacer.MinSpeed + pacer.MaxSpeed) / 2
	}
	input := textinput.New()
	input.Prompt = "target: "
	input.Placeholder = "random"
	input.CharLimit = 6

	theme := GetTheme(opts.Theme)
	m := Model{
		ctl:        ctl,
		controls:   &controlState{},
		counts:     &liveCounts{},
		keys:       keys,
		help:       help.New(),
		input:      input,
		theme:      theme,
		styles:     NewStyles(theme),
		algorithms: algo.All(),
		sorted:     opts.Sorted,
		speed:      opts.Speed,
		width:      defaultWidth,
		height:     defaultHeight,
		history:    make([]float64, 0, historyCapacity),
	}
	for i, a := range m.algorithms {
		if a == opts.Algorithm {
			m.cursor = i
		}
	}
	ctl.SetControls(m.controls)
	ctl.AddObserver(m.counts)
	m.size = array.Clamp(opts.Size, ctl.Layout().MaxSize())
	m.err = ctl.Generate(m.size, m.sorted)
	if err := ctl.SetDelay(pacer.DelayForSpeed(m.speed)); err != nil && m.err == nil {
		m.err = err
	}
	m.frame = ctl.Frame()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) selected() algo.Algorithm {
	return m.algorithms[m.cursor]
}

func (m Model) running() bool {
	return m.controls.Running() || m.ctl.Running()
}

// Update handles input and run progress.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.applyLayout(array.LayoutForWidth(msg.Width))
		return m, nil

	case tickMsg:
		m.frame = m.ctl.Frame()
		if m.running() {
			m.history = append(m.history, float64(m.counts.comparisons.Load()))
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, tick()

	case runFinishedMsg:
		m.last, m.err = msg.sess, msg.err
		// a resize during the run may have left the array over the limit
		m.applyLayout(m.ctl.Layout())
		m.frame = m.ctl.Frame()
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateTarget(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctl.RequestStop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Stop):
		m.ctl.RequestStop()
		return m, nil
	case key.Matches(msg, m.keys.Faster):
		m.setSpeed(m.speed + 1)
		return m, nil
	case key.Matches(msg, m.keys.Slower):
		m.setSpeed(m.speed - 1)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.theme = NextTheme(m.theme.Name)
		m.styles = NewStyles(m.theme)
		return m, nil
	}

	// everything below is inert while a run is active
	if m.running() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Start):
		return m.start()
	case key.Matches(msg, m.keys.Generate):
		m.regenerate()
	case key.Matches(msg, m.keys.Sorted):
		m.sorted = !m.sorted
		m.regenerate()
	case key.Matches(msg, m.keys.Smaller):
		m.size = array.Clamp(m.size-1, m.ctl.Layout().MaxSize())
		m.regenerate()
	case key.Matches(msg, m.keys.Larger):
		m.size = array.Clamp(m.size+1, m.ctl.Layout().MaxSize())
		m.regenerate()
	case key.Matches(msg, m.keys.Next):
		m.cursor = (m.cursor + 1) % len(m.algorithms)
	case key.Matches(msg, m.keys.Prev):
		m.cursor = (m.cursor - 1 + len(m.algorithms)) % len(m.algorithms)
	case key.Matches(msg, m.keys.Target):
		m.editing = true
		if m.target != nil {
			m.input.SetValue(strconv.Itoa(*m.target))
		} else {
			m.input.SetValue("")
		}
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateTarget(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.target = nil
		} else if v, err := strconv.Atoi(text); err == nil {
			m.target = &v
		} else {
			m.err = fmt.Errorf("invalid target %q", text)
		}
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// start reserves the controller synchronously so a second start is refused,
// then executes the run as a command off the UI goroutine.
func (m Model) start() (tea.Model, tea.Cmd) {
	p := session.Params{Algorithm: m.selected()}
	if p.Algorithm.IsSearch() && m.target != nil {
		t := *m.target
		p.Target = &t
	}
	run, err := m.ctl.Begin(p)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.last = nil
	m.counts.reset()
	m.history = m.history[:0]
	return m, func() tea.Msg {
		sess, err := run.Execute()
		return runFinishedMsg{sess: sess, err: err}
	}
}

func (m *Model) regenerate() {
	m.err = m.ctl.Generate(m.size, m.sorted)
	m.frame = m.ctl.Frame()
}

func (m *Model) setSpeed(speed int) {
	if speed < pacer.MinSpeed || speed > pacer.MaxSpeed {
		return
	}
	if err := m.ctl.SetDelay(pacer.DelayForSpeed(speed)); err != nil {
		m.err = err
		return
	}
	m.speed = speed
}

func (m *Model) applyLayout(l array.Layout) {
	shrunk, err := m.ctl.SetLayout(l)
	if err != nil {
		m.err = err
		return
	}
	if shrunk || m.size > l.MaxSize() {
		m.size = l.MaxSize()
	}
	m.frame = m.ctl.Frame()
}

// View renders the control panel beside the bars, or above them when the
// layout is compact.
func (m Model) View() string {
	panel := m.styles.Panel.Width(panelWidth).Render(m.panelView())
	footer := m.help.View(m.keys)
	if m.editing {
		footer = m.input.View()
	}

	if m.ctl.Layout() == array.Compact {
		bars := RenderHorizontal(m.frame, m.width-2, m.theme)
		return lipgloss.JoinVertical(lipgloss.Left, panel, bars, footer)
	}

	barWidth := m.width - panelWidth - 6
	barHeight := m.height - 6
	if barHeight < 4 {
		barHeight = 4
	}
	bars := lipgloss.NewStyle().Padding(1, 2).Render(RenderVertical(m.frame, barWidth, barHeight, m.theme))
	main := lipgloss.JoinHorizontal(lipgloss.Top, panel, bars)
	return lipgloss.JoinVertical(lipgloss.Left, main, footer)
}

func (m Model) panelView() string {
	s := m.styles
	var b strings.Builder

	status := s.Muted.Render("IDLE")
	if m.running() {
		status = s.Running.Render("RUNNING")
	} else if m.last != nil {
		status = s.Value.Render(strings.ToUpper(m.last.Status.String()))
	}
	b.WriteString(s.Title.Render("SORTVIZ") + "  " + status + "\n\n")

	for i, a := range m.algorithms {
		line := a.String()
		if i == m.cursor {
			b.WriteString(s.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + s.Muted.Render(line) + "\n")
		}
	}
	b.WriteString(s.Muted.Render(m.selected().Describe()) + "\n")
	b.WriteString(Separator(panelWidth-2) + "\n")

	sorted := "no"
	if m.sorted {
		sorted = "yes"
	}
	target := "random"
	if m.target != nil {
		target = strconv.Itoa(*m.target)
	}
	b.WriteString(m.row("Size", fmt.Sprintf("%d / %d", m.frame.Len(), m.ctl.Layout().MaxSize())))
	b.WriteString(m.row("Sorted", sorted))
	b.WriteString(m.row("Speed", fmt.Sprintf("%d (%v)", m.speed, m.ctl.Delay())))
	b.WriteString(m.row("Target", target))
	b.WriteString(m.row("Theme", m.theme.Name))
	b.WriteString(Separator(panelWidth-2) + "\n")

	b.WriteString(m.row("Compares", strconv.FormatInt(m.counts.comparisons.Load(), 10)))
	b.WriteString(m.row("Swaps", strconv.FormatInt(m.counts.swaps.Load(), 10)))
	b.WriteString(m.row("Writes", strconv.FormatInt(m.counts.writes.Load(), 10)))

	if n := m.frame.Len(); n > 0 {
		settled := len(m.frame.Marked(algo.RoleSorted))
		b.WriteString(m.row("Settled", ProgressBar(float64(settled)/float64(n), 16, m.theme.Sorted)))
	}

	if m.last != nil {
		res := m.last.Result
		if res.Algorithm.IsSearch() {
			found := "not found"
			if res.Found() {
				found = fmt.Sprintf("index %d", res.Index)
			}
			b.WriteString(m.row("Result", fmt.Sprintf("%d: %s", res.Target, found)))
		}
		if len(res.Stats.PassSwaps) > 0 {
			b.WriteString(m.row("Passes", Sparkline(res.Stats.PassSwaps, panelWidth-16)))
		}
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(panelWidth-10),
			asciigraph.Caption("comparisons"))
		b.WriteString("\n" + chart + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + s.Error.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

func (m Model) row(label, value string) string {
	return m.styles.Label.Render(label) + m.styles.Value.Render(value) + "\n"
}
