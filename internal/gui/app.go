package gui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/harmonica"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/fieldsim/internal/anim"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/session"
	"github.com/san-kum/fieldsim/internal/surface"
	"go.uber.org/zap"
)

var (
	ColPanel   = rl.NewColor(15, 23, 42, 220)
	ColAccent  = rl.NewColor(251, 191, 36, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(203, 213, 225, 255)
	ColTextDim = rl.NewColor(100, 116, 139, 255)
)

const (
	targetFPS     = 60
	maxTelemetry  = 200
	magnitudeStep = 0.2
)

type Option func(*App)

func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

func WithDriver(d *anim.Driver) Option {
	return func(a *App) {
		if d != nil {
			a.driver = d
		}
	}
}

// App is the windowed host. It owns the raylib frame loop and feeds
// pointer and key input to the session.
type App struct {
	sess   *session.Session
	driver *anim.Driver
	src    field.Source
	sf     *surface.Context
	target rl.RenderTexture2D
	log    *zap.Logger

	// The drawn magnet trails the session's magnet on a spring.
	spring     harmonica.Spring
	magX, magY float64
	magVX      float64
	magVY      float64

	probe     field.ProbeSample
	telemetry []float64
	last      anim.Tick
	paused    bool
	quit      bool
}

// NewApp needs an open window.
func NewApp(sess *session.Session, opts ...Option) *App {
	a := &App{
		sess:   sess,
		src:    field.Coulomb{},
		driver: anim.New(anim.WithSource(field.NewGridCache())),
		sf:     surface.NewContext(NewBackend()),
		target: rl.LoadRenderTexture(int32(sess.Size.W), int32(sess.Size.H)),
		log:    zap.NewNop(),
		spring: harmonica.NewSpring(harmonica.FPS(targetFPS), 8, 0.7),
		magX:   sess.Magnet.X,
		magY:   sess.Magnet.Y,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run opens a window the size of the session canvas and blocks until it
// is closed.
func Run(sess *session.Session, opts ...Option) error {
	rl.InitWindow(int32(sess.Size.W), int32(sess.Size.H), "fieldsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)
	rl.SetExitKey(0)

	app := NewApp(sess, opts...)
	defer app.Close()
	app.log.Info("window opened", zap.Float64("width", sess.Size.W), zap.Float64("height", sess.Size.H))
	app.RunLoop()
	return nil
}

func (a *App) Close() {
	rl.UnloadRenderTexture(a.target)
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	a.handleKeys()
	a.handleMouse()

	a.magX, a.magVX = a.spring.Update(a.magX, a.magVX, a.sess.Magnet.X)
	a.magY, a.magVY = a.spring.Update(a.magY, a.magVY, a.sess.Magnet.Y)
}

func (a *App) handleKeys() {
	s := a.sess
	switch {
	case rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape):
		a.quit = true
	case rl.IsKeyPressed(rl.KeyM):
		s.CycleMode()
		a.log.Debug("mode changed", zap.Stringer("mode", s.Mode))
	case rl.IsKeyPressed(rl.KeyV):
		s.ToggleVectors()
	case rl.IsKeyPressed(rl.KeyP):
		s.ToggleParticle()
	case rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd):
		s.AdjustDensity(1)
	case rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract):
		s.AdjustDensity(-1)
	case rl.IsKeyPressed(rl.KeyD):
		s.AddCenteredDipole()
	case rl.IsKeyPressed(rl.KeyC):
		s.Clear()
	case rl.IsKeyPressed(rl.KeyN):
		s.FlipPolarity()
	case rl.IsKeyPressed(rl.KeyX) || rl.IsKeyPressed(rl.KeyDelete):
		s.Delete(s.Selected)
	case rl.IsKeyPressed(rl.KeyRightBracket):
		a.nudgeMagnitude(magnitudeStep)
	case rl.IsKeyPressed(rl.KeyLeftBracket):
		a.nudgeMagnitude(-magnitudeStep)
	case rl.IsKeyPressed(rl.KeySpace):
		a.paused = !a.paused
	}
}

func (a *App) nudgeMagnitude(delta float64) {
	if c, ok := a.sess.SelectedCharge(); ok {
		a.sess.SetMagnitude(c.ID, c.Magnitude*1e6+delta)
	}
}

func (a *App) handleMouse() {
	if !rl.IsCursorOnScreen() {
		a.sess.Cancel()
		a.probe.Visible = false
		return
	}
	m := rl.GetMousePosition()
	x, y := float64(m.X), float64(m.Y)

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		a.sess.Press(x, y)
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		a.sess.Release(x, y)
	case rl.IsMouseButtonPressed(rl.MouseButtonRight):
		a.sess.DeleteAt(x, y)
	default:
		a.sess.Move(x, y)
	}
	a.probe = a.sess.Probe(a.src, x, y, x, y)
}

// snapshot swaps in the eased magnet position.
func (a *App) snapshot() anim.Snapshot {
	snap := a.sess.Snapshot()
	snap.Frame.Magnet.X, snap.Frame.Magnet.Y = a.magX, a.magY
	return snap
}

func (a *App) Draw() {
	if !a.paused {
		rl.BeginTextureMode(a.target)
		a.last = a.driver.Tick(a.sf, a.snapshot(), time.Now())
		rl.EndTextureMode()
		a.record()
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	// Render textures are stored bottom-up.
	w, h := float32(a.target.Texture.Width), float32(a.target.Texture.Height)
	rl.DrawTextureRec(a.target.Texture, rl.NewRectangle(0, 0, w, -h), rl.NewVector2(0, 0), rl.White)
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) record() {
	if !a.last.Particle.Active {
		a.telemetry = a.telemetry[:0]
		return
	}
	a.telemetry = append(a.telemetry, a.last.Particle.Speed())
	if len(a.telemetry) > maxTelemetry {
		a.telemetry = a.telemetry[1:]
	}
}

func (a *App) DrawHUD() {
	s := a.sess
	sum := s.Summary(a.src)

	rl.DrawRectangle(16, 16, 250, 150, ColPanel)
	drawText("fieldsim", 28, 26, 20, ColSelect)
	drawText(fmt.Sprintf(":: %s", s.Mode), 130, 30, 14, ColAccent)
	drawText(fmt.Sprintf("charges   %d   net %s", sum.Charges, sum.NetCharge), 28, 58, 12, ColText)
	drawText("E center  "+sum.CenterField, 28, 76, 12, ColText)
	drawText("V center  "+sum.CenterPotential, 28, 94, 12, ColText)
	drawText(fmt.Sprintf("density   %d   adding %s", s.Density, s.AddPolarity), 28, 112, 12, ColText)
	if c, ok := s.SelectedCharge(); ok {
		drawText(fmt.Sprintf("selected  #%d %s", c.ID, field.FormatMicroCoulombs(c.Magnitude*1e6)), 28, 130, 12, ColAccent)
	}

	if a.paused {
		drawText("PAUSED", int32(s.Size.W)-90, 24, 16, ColTextDim)
	}

	if a.probe.Visible {
		px, py := int32(a.probe.ScreenX), int32(a.probe.ScreenY)
		rl.DrawRectangle(px, py, 150, 40, ColPanel)
		drawText(field.FormatFieldStrength(a.probe.Magnitude), px+8, py+6, 12, ColSelect)
		drawText(fmt.Sprintf("%.1f deg", a.probe.DirectionDeg), px+8, py+22, 12, ColText)
	}

	a.DrawTelemetry()

	h := int32(s.Size.H)
	drawText("[M] MODE [V] VECTORS [P] PARTICLE [D] DIPOLE [C] CLEAR [N] SIGN [+/-] DENSITY [SPACE] PAUSE [Q] QUIT", 16, h-24, 10, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int32(s.Size.W)-70, h-24, 10, ColTextDim)
}

func drawText(text string, x, y, size int32, color rl.Color) {
	rl.DrawText(text, x, y, size, color)
}

// DrawTelemetry plots recent particle speeds as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.telemetry) < 2 {
		return
	}

	rectX, rectY := float32(16), float32(a.sess.Size.H)-110
	width, height := float32(300), float32(60)

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := rectX + float32(i)/float32(maxTelemetry)*width
		norm := float32((val - minVal) / (maxVal - minVal))
		points[i] = rl.NewVector2(px, rectY+height-norm*height)
	}

	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("v %.2f", a.telemetry[len(a.telemetry)-1]), int32(rectX+width)+10, int32(rectY+height)-10, 12, ColText)
}
