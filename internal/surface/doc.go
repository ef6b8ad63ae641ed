// Package surface is the 2D drawing layer the scene renders through.
//
// A Context keeps canvas-style state (transform stack, stroke and fill
// paint, line width and dash, font) and flattens paths into device space.
// Backends only ever see flattened polylines:
//
//   - Recorder keeps the calls for inspection
//   - SVG writes a vector document
//   - Raster paints into an *image.RGBA
//   - Braille draws into terminal cells
//
// The raylib window provides its own Backend in package gui.
package surface
