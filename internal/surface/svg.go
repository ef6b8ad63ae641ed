package surface

import (
	"fmt"
	"html"
	"io"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// SVG is a Backend that builds a standalone SVG document.
type SVG struct {
	Width, Height int
	Background    Color

	defs   strings.Builder
	body   strings.Builder
	nextID int
}

func NewSVG(width, height int) *SVG {
	return &SVG{Width: width, Height: height, Background: Hex("#0a0a0a")}
}

func (s *SVG) Clear() {
	s.defs.Reset()
	s.body.Reset()
	s.nextID = 0
}

func (s *SVG) StrokePaths(paths []Path, st *State) {
	attr := s.paintAttr("stroke", st.Stroke, st)
	s.body.WriteString(fmt.Sprintf(`<path fill="none" %s stroke-width="%.2f" stroke-linejoin="round"`,
		attr, st.DeviceLineWidth()))
	if len(st.Dash) > 0 {
		parts := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			parts[i] = fmt.Sprintf("%.2f", d*st.Transform.Scale())
		}
		s.body.WriteString(fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, " ")))
	}
	s.body.WriteString(fmt.Sprintf(` d="%s"/>`+"\n", pathData(paths)))
}

func (s *SVG) FillPaths(paths []Path, st *State) {
	attr := s.paintAttr("fill", st.Fill, st)
	s.body.WriteString(fmt.Sprintf(`<path %s d="%s"/>`+"\n", attr, pathData(paths)))
}

func (s *SVG) FillText(text string, at r2.Vec, st *State) {
	anchor := "start"
	if st.Align == AlignCenter {
		anchor = "middle"
	}
	baseline := "alphabetic"
	if st.Baseline == BaselineMiddle {
		baseline = "middle"
	}
	weight := "normal"
	if st.Font.Bold {
		weight = "bold"
	}
	s.body.WriteString(fmt.Sprintf(
		`<text x="%.1f" y="%.1f" %s font-family="monospace" font-size="%.0f" font-weight="%s" text-anchor="%s" dominant-baseline="%s">%s</text>`+"\n",
		at.X, at.Y, s.paintAttr("fill", st.Fill, st), st.Font.Size, weight, anchor, baseline, html.EscapeString(text)))
}

// String returns the complete document.
func (s *SVG) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.Background.Hex()))

	if s.defs.Len() > 0 {
		sb.WriteString("<defs>\n")
		sb.WriteString(s.defs.String())
		sb.WriteString("</defs>\n")
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// paintAttr returns e.g. `stroke="#ff0000" stroke-opacity="0.5"`, or a
// url() reference to a gradient written into defs.
func (s *SVG) paintAttr(prop string, p Paint, st *State) string {
	switch v := p.(type) {
	case Color:
		return fmt.Sprintf(`%s="%s" %s-opacity="%.3g"`, prop, v.Hex(), prop, v.A)
	case *Gradient:
		id := s.gradient(v, st.Transform)
		return fmt.Sprintf(`%s="url(#%s)"`, prop, id)
	default:
		c := p.ColorAt(0, 0)
		return fmt.Sprintf(`%s="%s" %s-opacity="%.3g"`, prop, c.Hex(), prop, c.A)
	}
}

func (s *SVG) gradient(g *Gradient, m Affine) string {
	s.nextID++
	id := fmt.Sprintf("g%d", s.nextID)
	xf := fmt.Sprintf("matrix(%g %g %g %g %g %g)", m.A, m.B, m.C, m.D, m.E, m.F)

	if g.Radial {
		s.defs.WriteString(fmt.Sprintf(
			`<radialGradient id="%s" gradientUnits="userSpaceOnUse" gradientTransform="%s" fx="%.2f" fy="%.2f" fr="%.2f" cx="%.2f" cy="%.2f" r="%.2f">`+"\n",
			id, xf, g.X0, g.Y0, g.R0, g.X1, g.Y1, g.R1))
	} else {
		s.defs.WriteString(fmt.Sprintf(
			`<linearGradient id="%s" gradientUnits="userSpaceOnUse" gradientTransform="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f">`+"\n",
			id, xf, g.X0, g.Y0, g.X1, g.Y1))
	}
	for _, st := range g.Stops {
		s.defs.WriteString(fmt.Sprintf(`<stop offset="%.3g" stop-color="%s" stop-opacity="%.3g"/>`+"\n",
			st.Offset, st.Color.Hex(), st.Color.A))
	}
	if g.Radial {
		s.defs.WriteString("</radialGradient>\n")
	} else {
		s.defs.WriteString("</linearGradient>\n")
	}
	return id
}

func pathData(paths []Path) string {
	var sb strings.Builder
	for _, p := range paths {
		for i, pt := range p.Points {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", pt.X, pt.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", pt.X, pt.Y))
			}
		}
		if p.Closed {
			sb.WriteString(" Z")
		}
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String())
}
