package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/fieldsim/internal/anim"
	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/scene"
	"github.com/san-kum/fieldsim/internal/session"
)

func newModel(t *testing.T) Model {
	t.Helper()
	return NewModel(session.New(config.DefaultConfig(), 7))
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out, cmd
}

func TestToCanvas(t *testing.T) {
	m := newModel(t)
	tests := []struct {
		x, y   int
		cx, cy float64
		ok     bool
	}{
		{padCols, padRows, 5, 10, true},
		{50, 17, 485, 330, true},
		{padCols + defaultCols - 1, padRows + defaultRows - 1, 955, 630, true},
		{0, 5, 0, 0, false},
		{padCols + defaultCols, 5, 0, 0, false},
	}
	for _, tt := range tests {
		cx, cy, ok := m.toCanvas(tt.x, tt.y)
		if ok != tt.ok || cx != tt.cx || cy != tt.cy {
			t.Errorf("toCanvas(%d, %d) = (%v, %v, %v), want (%v, %v, %v)", tt.x, tt.y, cx, cy, ok, tt.cx, tt.cy, tt.ok)
		}
	}
}

func TestKeys(t *testing.T) {
	m := newModel(t)
	for _, k := range []string{"m", "v", "p", "+", "+", "d", "n"} {
		m, _ = update(t, m, key(k))
	}
	s := m.sess
	if s.Mode != scene.Magnetic {
		t.Errorf("mode: got %v", s.Mode)
	}
	if s.ShowVectors || !s.Particle {
		t.Errorf("toggles: vectors=%v particle=%v", s.ShowVectors, s.Particle)
	}
	if s.Density != config.DefaultDensity+2 {
		t.Errorf("density: got %d", s.Density)
	}
	if len(s.Charges) != 2 {
		t.Errorf("dipole: got %d charges", len(s.Charges))
	}
	if s.AddPolarity > 0 {
		t.Error("polarity should be flipped")
	}

	m, _ = update(t, m, key("c"))
	if len(m.sess.Charges) != 0 {
		t.Error("clear left charges")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestMagnitudeKeys(t *testing.T) {
	m := newModel(t)
	c := m.sess.AddCharge(300, 300)
	m.sess.Selected = c.ID

	m, _ = update(t, m, key("]"))
	got, _ := m.sess.SelectedCharge()
	if d := got.Magnitude - 1.2e-6; d > 1e-12 || d < -1e-12 {
		t.Errorf("magnitude after ]: %v", got.Magnitude)
	}

	m, _ = update(t, m, key("x"))
	if len(m.sess.Charges) != 0 {
		t.Error("x should delete the selected charge")
	}
}

func TestThemeCycle(t *testing.T) {
	m := newModel(t)
	seen := map[string]bool{}
	for range Themes {
		seen[m.theme.Name] = true
		m, _ = update(t, m, key("t"))
	}
	if len(seen) != len(Themes) {
		t.Errorf("cycled through %d themes, want %d", len(seen), len(Themes))
	}
	if m.theme.Name != ThemeEmber.Name {
		t.Errorf("expected to wrap to ember, got %s", m.theme.Name)
	}
	if GetTheme("nope").Name != "ember" {
		t.Error("unknown theme should fall back to ember")
	}
}

func TestMouseTapAndDrag(t *testing.T) {
	m := newModel(t)
	press := tea.MouseMsg{X: 50, Y: 17, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	release := press
	release.Action = tea.MouseActionRelease

	m, _ = update(t, m, press)
	m, _ = update(t, m, release)
	if len(m.sess.Charges) != 1 {
		t.Fatalf("tap should add a charge, got %d", len(m.sess.Charges))
	}
	if c := m.sess.Charges[0]; c.X != 485 || c.Y != 330 {
		t.Errorf("charge at (%v, %v)", c.X, c.Y)
	}
	if !m.probe.Visible {
		t.Error("probe should be visible over a populated canvas")
	}

	m, _ = update(t, m, press)
	motion := tea.MouseMsg{X: 60, Y: 17, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, motion)
	release.X = 60
	m, _ = update(t, m, release)
	if c := m.sess.Charges[0]; c.X != 585 || len(m.sess.Charges) != 1 {
		t.Errorf("drag: %+v", m.sess.Charges)
	}

	right := tea.MouseMsg{X: 60, Y: 17, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}
	m, _ = update(t, m, right)
	if len(m.sess.Charges) != 0 {
		t.Error("right click should delete")
	}
}

func TestReadoutIndependentOfDriverCache(t *testing.T) {
	cache := field.NewGridCache()
	m := NewModel(session.New(config.DefaultConfig(), 7), WithDriver(anim.New(anim.WithSource(cache))))
	m.sess.AddCharge(300, 300)

	m, _ = update(t, m, TickMsg(time.Unix(1000, 0)))
	before := cache.Len()

	m, _ = update(t, m, tea.MouseMsg{X: 50, Y: 17, Action: tea.MouseActionMotion})
	want := m.sess.Probe(field.Coulomb{}, 485, 330, 50, 17)
	if m.probe != want {
		t.Errorf("probe %+v, want %+v", m.probe, want)
	}
	if got := m.sess.Summary(m.src); got != m.sess.Summary(field.Coulomb{}) {
		t.Errorf("summary %+v differs from the direct model", got)
	}
	if cache.Len() != before {
		t.Error("hover readout should not touch the render cache")
	}
}

func TestTickAndPause(t *testing.T) {
	m := newModel(t)
	m.sess.AddCharge(300, 300)
	m.sess.Particle = true

	now := time.Unix(1000, 0)
	var cmd tea.Cmd
	for i := range 3 {
		m, cmd = update(t, m, TickMsg(now.Add(time.Duration(i)*anim16ms)))
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}
	if m.driver.Frames() != 3 {
		t.Errorf("frames: got %d", m.driver.Frames())
	}
	if len(m.speeds) != 3 {
		t.Errorf("speed history: got %d", len(m.speeds))
	}

	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, TickMsg(now.Add(time.Second)))
	if m.driver.Frames() != 3 {
		t.Error("paused model should not render")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show the paused state")
	}
}

const anim16ms = 16 * time.Millisecond

func TestWindowResize(t *testing.T) {
	m := newModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})
	if m.canvas.Cols != 200-panelWidth-2*padCols-6 || m.canvas.Rows != 48 {
		t.Errorf("canvas %dx%d", m.canvas.Cols, m.canvas.Rows)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	if m.canvas.Cols != minCols || m.canvas.Rows != minRows {
		t.Errorf("canvas %dx%d, want minimum", m.canvas.Cols, m.canvas.Rows)
	}
}

func TestViewShowsReadout(t *testing.T) {
	m := newModel(t)
	m.sess.AddCharge(300, 300)
	m.sess.Selected = 1
	v := m.View()
	for _, want := range []string{"ELECTRIC", "Charges", "Selected", "1.00 uC"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
