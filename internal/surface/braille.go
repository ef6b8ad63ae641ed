package surface

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"
)

// Braille patterns: 2x4 dots per cell
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Dots fainter than this are not set.
const inkThreshold = 0.25

// Braille is a Backend that renders into a grid of braille cells, each
// carrying the colour of the last dot painted into it. Text replaces
// whole cells.
type Braille struct {
	Cols, Rows int

	sx, sy float64
	grid   [][]rune
	ink    [][]string
	text   [][]rune
}

// NewBraille maps a w x h canvas onto cols x rows terminal cells.
func NewBraille(cols, rows int, w, h float64) *Braille {
	b := &Braille{
		Cols: cols,
		Rows: rows,
		sx:   float64(cols*2) / w,
		sy:   float64(rows*4) / h,
		grid: make([][]rune, rows),
		ink:  make([][]string, rows),
		text: make([][]rune, rows),
	}
	for i := 0; i < rows; i++ {
		b.grid[i] = make([]rune, cols)
		b.ink[i] = make([]string, cols)
		b.text[i] = make([]rune, cols)
	}
	b.Clear()
	return b
}

func (b *Braille) Clear() {
	for i := range b.grid {
		for j := range b.grid[i] {
			b.grid[i][j] = brailleBlank
			b.ink[i][j] = ""
			b.text[i][j] = 0
		}
	}
}

// set lights the dot at (x, y) in dot coordinates.
func (b *Braille) set(x, y int, hex string) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= b.Cols || row >= b.Rows {
		return
	}
	b.grid[row][col] |= rune(pixelMap[y%4][x%2])
	b.ink[row][col] = hex
}

// line draws with Bresenham's algorithm.
func (b *Braille) line(x0, y0, x1, y1 int, hex string) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		b.set(x0, y0, hex)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *Braille) dot(p r2.Vec) (int, int) {
	return int(math.Floor(p.X * b.sx)), int(math.Floor(p.Y * b.sy))
}

func (b *Braille) StrokePaths(paths []Path, st *State) {
	for _, p := range DashPaths(paths, st.DeviceDash()) {
		pts := p.Points
		if p.Closed && len(pts) > 1 {
			pts = append(append([]r2.Vec(nil), pts...), pts[0])
		}
		for i := 1; i < len(pts); i++ {
			c := st.PaintAt(st.Stroke, pts[i])
			if c.A < inkThreshold {
				continue
			}
			x0, y0 := b.dot(pts[i-1])
			x1, y1 := b.dot(pts[i])
			b.line(x0, y0, x1, y1, c.Hex())
		}
	}
}

// FillPaths scan-converts the paths at dot resolution with the even-odd
// rule, sampling the paint at each dot centre.
func (b *Braille) FillPaths(paths []Path, st *State) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range paths {
		for _, pt := range p.Points {
			minY = math.Min(minY, pt.Y*b.sy)
			maxY = math.Max(maxY, pt.Y*b.sy)
		}
	}
	y0 := int(math.Max(0, math.Floor(minY)))
	y1 := int(math.Min(float64(b.Rows*4-1), math.Ceil(maxY)))

	var xs []float64
	for y := y0; y <= y1; y++ {
		cy := float64(y) + 0.5
		xs = xs[:0]
		for _, p := range paths {
			n := len(p.Points)
			for i := 0; i < n; i++ {
				a := p.Points[i]
				c := p.Points[(i+1)%n]
				ay, cyy := a.Y*b.sy, c.Y*b.sy
				if (ay <= cy) == (cyy <= cy) {
					continue
				}
				t := (cy - ay) / (cyy - ay)
				xs = append(xs, (a.X+t*(c.X-a.X))*b.sx)
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i] - 0.5)); float64(x)+0.5 <= xs[i+1]; x++ {
				dev := r2.Vec{X: (float64(x) + 0.5) / b.sx, Y: cy / b.sy}
				c := st.PaintAt(st.Fill, dev)
				if c.A < inkThreshold {
					continue
				}
				b.set(x, y, c.Hex())
			}
		}
	}
}

func (b *Braille) FillText(text string, at r2.Vec, st *State) {
	runes := []rune(text)
	col := int(math.Floor(at.X * b.sx / 2))
	row := int(math.Floor(at.Y * b.sy / 4))
	if st.Align == AlignCenter {
		col -= len(runes) / 2
	}
	if row < 0 || row >= b.Rows {
		return
	}
	hex := st.PaintAt(st.Fill, at).Hex()
	for i, r := range runes {
		c := col + i
		if c < 0 || c >= b.Cols {
			continue
		}
		b.text[row][c] = r
		b.ink[row][c] = hex
	}
}

// Rune returns what the cell at (col, row) shows.
func (b *Braille) Rune(col, row int) rune {
	if t := b.text[row][col]; t != 0 {
		return t
	}
	return b.grid[row][col]
}

// Plain renders the grid without colour.
func (b *Braille) Plain() string {
	var sb strings.Builder
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < b.Cols; col++ {
			sb.WriteRune(b.Rune(col, row))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders the grid with each run of same-coloured cells wrapped in
// one lipgloss style.
func (b *Braille) String() string {
	var sb strings.Builder
	var run strings.Builder
	for row := 0; row < b.Rows; row++ {
		cur := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(cur)).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < b.Cols; col++ {
			r := b.Rune(col, row)
			hex := b.ink[row][col]
			if r == brailleBlank {
				hex = ""
			}
			if hex != cur {
				flush()
				cur = hex
			}
			run.WriteRune(r)
		}
		flush()
		sb.WriteByte('\n')
	}
	return sb.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
