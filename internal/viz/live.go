package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fieldsim/internal/anim"
	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/session"
	"github.com/san-kum/fieldsim/internal/surface"
	"go.uber.org/zap"
)

const (
	defaultCols  = 96
	defaultRows  = 32
	minCols      = 40
	minRows      = 12
	speedHistory = 120
	frameRate    = time.Second / 60

	// Offsets of the canvas inside the padded canvas style.
	padCols = 2
	padRows = 1

	magnitudeStep = 0.2
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

func WithTheme(name string) Option {
	return func(m *Model) {
		m.theme = GetTheme(name)
		m.styles = newStyles(m.theme)
	}
}

// WithDriver replaces the default driver, e.g. to pass
// anim.WithClearTrailOnRespawn.
func WithDriver(d *anim.Driver) Option {
	return func(m *Model) {
		if d != nil {
			m.driver = d
		}
	}
}

// Model is the bubbletea model for the live terminal view.
type Model struct {
	sess   *session.Session
	driver *anim.Driver
	src    field.Source
	canvas *surface.Braille
	sf     *surface.Context
	log    *zap.Logger
	theme  Theme
	styles styles

	probe    field.ProbeSample
	speeds   []float64
	last     anim.Tick
	paused   bool
	showHelp bool
}

func NewModel(sess *session.Session, opts ...Option) Model {
	m := Model{
		sess:   sess,
		src:    field.Coulomb{},
		driver: anim.New(anim.WithSource(field.NewGridCache())),
		log:    zap.NewNop(),
		theme:  ThemeEmber,
		styles: newStyles(ThemeEmber),
	}
	for _, o := range opts {
		o(&m)
	}
	m.resize(defaultCols, defaultRows)
	return m
}

func (m *Model) resize(cols, rows int) {
	m.canvas = surface.NewBraille(cols, rows, m.sess.Size.W, m.sess.Size.H)
	m.sf = surface.NewContext(m.canvas)
}

// toCanvas maps a terminal cell to the center of that cell in canvas
// coordinates. ok is false outside the canvas.
func (m Model) toCanvas(x, y int) (cx, cy float64, ok bool) {
	col, row := x-padCols, y-padRows
	if col < 0 || row < 0 || col >= m.canvas.Cols || row >= m.canvas.Rows {
		return 0, 0, false
	}
	cx = (float64(col) + 0.5) * m.sess.Size.W / float64(m.canvas.Cols)
	cy = (float64(row) + 0.5) * m.sess.Size.H / float64(m.canvas.Rows)
	return cx, cy, true
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the animation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		cols := max(minCols, msg.Width-panelWidth-2*padCols-6)
		rows := max(minRows, msg.Height-2*padRows)
		if cols != m.canvas.Cols || rows != m.canvas.Rows {
			m.resize(cols, rows)
			m.log.Debug("canvas resized", zap.Int("cols", cols), zap.Int("rows", rows))
		}
	case TickMsg:
		if !m.paused {
			m.last = m.driver.Tick(m.sf, m.sess.Snapshot(), time.Time(msg))
			if m.last.Particle.Active {
				m.speeds = append(m.speeds, m.last.Particle.Speed())
				if len(m.speeds) > speedHistory {
					m.speeds = m.speeds[len(m.speeds)-speedHistory:]
				}
			} else {
				m.speeds = m.speeds[:0]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	s := m.sess
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "m":
		s.CycleMode()
		m.log.Debug("mode changed", zap.Stringer("mode", s.Mode))
	case "v":
		s.ToggleVectors()
	case "p":
		s.ToggleParticle()
	case "+", "=":
		s.AdjustDensity(1)
	case "-", "_":
		s.AdjustDensity(-1)
	case "d":
		s.AddCenteredDipole()
	case "c":
		s.Clear()
	case "n":
		s.FlipPolarity()
	case "x", "delete":
		s.Delete(s.Selected)
	case "]":
		m.nudgeMagnitude(magnitudeStep)
	case "[":
		m.nudgeMagnitude(-magnitudeStep)
	case "t":
		m.theme = nextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case " ":
		m.paused = !m.paused
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) nudgeMagnitude(delta float64) {
	if c, ok := m.sess.SelectedCharge(); ok {
		m.sess.SetMagnitude(c.ID, c.Magnitude*1e6+delta)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y, ok := m.toCanvas(msg.X, msg.Y)
	if !ok {
		m.sess.Cancel()
		m.probe.Visible = false
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.sess.Press(x, y)
		case tea.MouseButtonRight:
			m.sess.DeleteAt(x, y)
		}
	case tea.MouseActionMotion:
		m.sess.Move(x, y)
	case tea.MouseActionRelease:
		if msg.Button != tea.MouseButtonRight {
			m.sess.Release(x, y)
		}
	}
	m.probe = m.sess.Probe(m.src, x, y, float64(msg.X), float64(msg.Y))
}

// View renders the canvas with the readout panel beside it.
func (m Model) View() string {
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.styles.canvas.Render(m.canvas.String()), m.panel())
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

func (m Model) panel() string {
	s := m.sess
	st := m.styles
	var b strings.Builder

	b.WriteString(st.header.Render(GradientText("FIELDSIM", m.theme.Primary, m.theme.Accent)) + "\n")
	status := st.active.Render(strings.ToUpper(s.Mode.String()))
	if m.paused {
		status += "  " + st.paused.Render("PAUSED")
	}
	b.WriteString(status + "\n\n")

	sum := s.Summary(m.src)
	b.WriteString(m.row("Charges", fmt.Sprintf("%d", sum.Charges)))
	b.WriteString(m.row("Net", sum.NetCharge))
	b.WriteString(m.row("E center", sum.CenterField))
	b.WriteString(m.row("V center", sum.CenterPotential))
	b.WriteString(m.row("Adding", s.AddPolarity.String()))

	frac := float64(s.Density-config.MinDensity) / float64(config.MaxDensity-config.MinDensity)
	b.WriteString(m.row("Density", fmt.Sprintf("%s %d", st.ProgressBar(frac, 12), s.Density)))
	b.WriteString(m.row("Vectors", onOff(s.ShowVectors)))
	b.WriteString(m.row("Particle", onOff(s.Particle)))

	if c, ok := s.SelectedCharge(); ok {
		b.WriteString("\n" + st.Separator(panelWidth-6) + "\n")
		b.WriteString(m.row("Selected", fmt.Sprintf("#%d %s", c.ID, c.Polarity)))
		b.WriteString(m.row("Magnitude", field.FormatMicroCoulombs(c.Magnitude*1e6)))
	}

	if m.probe.Visible {
		b.WriteString("\n" + st.Separator(panelWidth-6) + "\n")
		b.WriteString(m.row("Probe", fmt.Sprintf("(%.0f, %.0f)", m.probe.X, m.probe.Y)))
		b.WriteString(m.row("|E|", field.FormatFieldStrength(m.probe.Magnitude)))
		b.WriteString(m.row("Direction", fmt.Sprintf("%.1f°", m.probe.DirectionDeg)))
	}

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption("particle speed"))
		b.WriteString(st.graph.Render(chart) + "\n")
	}

	b.WriteString("\n" + st.hint.Render("M:Mode V:Vectors P:Particle D:Dipole\nC:Clear N:Sign +/-:Density [ ]:uC\nT:Theme SPACE:Pause ?:Help Q:Quit"))
	return st.panel.Render(b.String())
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

const helpText = `
╔══════════════════════════════════════════╗
║             KEYBOARD AND MOUSE           ║
╠══════════════════════════════════════════╣
║  Left click   - add charge / select      ║
║  Left drag    - move charge or magnet    ║
║  Right click  - delete charge            ║
║  M            - cycle mode               ║
║  V            - toggle vector grid       ║
║  P            - toggle test particle     ║
║  + / -        - field line density       ║
║  D            - add dipole at center     ║
║  C            - clear charges            ║
║  N            - flip polarity for adds   ║
║  [ / ]        - selected magnitude       ║
║  X            - delete selected          ║
║  T            - cycle theme              ║
║  Space        - pause                    ║
║  ?            - toggle this help         ║
╚══════════════════════════════════════════╝`

// Run starts the live view and blocks until the user quits.
func Run(sess *session.Session, opts ...Option) error {
	p := tea.NewProgram(NewModel(sess, opts...), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
