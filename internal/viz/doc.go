// Package viz provides the terminal host for the field simulation.
//
// The view is a Bubble Tea program that renders the scene into a braille
// canvas and shows a readout panel beside it:
//
//   - [Model]: the live view, driven at 60 ticks per second
//   - [Theme]: panel colour schemes, cycled with T
//
// # Key Bindings
//
//	M     - Cycle mode
//	V     - Toggle vector grid
//	P     - Toggle test particle
//	+/-   - Field line density
//	D     - Add a dipole at the center
//	C     - Clear charges
//	N     - Flip polarity for new charges
//	[ ]   - Adjust the selected charge
//	X     - Delete the selected charge
//	Space - Pause/Resume
//	?     - Show help overlay
//
// The mouse adds, selects and drags charges with the left button and
// deletes with the right one.
package viz
