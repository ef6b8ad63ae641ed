package scene

import "github.com/san-kum/fieldsim/internal/surface"

var (
	fieldLineColor = surface.RGBA(147, 197, 253, 0.6)

	positiveGlow = [3]surface.Color{
		surface.RGBA(239, 68, 68, 0.8),
		surface.RGBA(239, 68, 68, 0.3),
		surface.RGBA(239, 68, 68, 0),
	}
	negativeGlow = [3]surface.Color{
		surface.RGBA(59, 130, 246, 0.8),
		surface.RGBA(59, 130, 246, 0.3),
		surface.RGBA(59, 130, 246, 0),
	}
	positiveCore = [3]surface.Color{surface.Hex("#fca5a5"), surface.Hex("#ef4444"), surface.Hex("#b91c1c")}
	negativeCore = [3]surface.Color{surface.Hex("#93c5fd"), surface.Hex("#3b82f6"), surface.Hex("#1d4ed8")}

	white     = surface.Hex("#fff")
	amber     = surface.Hex("#fbbf24")
	red       = surface.Hex("#ef4444")
	gray      = surface.Hex("#6b7280")
	blue      = surface.Hex("#3b82f6")
	purple    = surface.Hex("#a855f7")
	ringColor = surface.RGBA(168, 85, 247, 0.5)
)
