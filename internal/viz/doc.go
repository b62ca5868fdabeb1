// Package viz renders traces in the terminal.
//
// Static output:
//
//   - [RayDiagram]: Braille rendering of ray paths with lumped element markers
//   - [PlotRays], [PlotCaustic]: asciigraph line charts of heights and beam radius
//
// [Explorer] is a Bubble Tea program for tuning a prescription live.
//
// # Key Bindings
//
//	j/k   - Select element
//	h/l   - Decrease/increase its focal length, length, radius or angle (5%)
//	b     - Toggle beam envelope
//	t     - Cycle color themes
//	r     - Reset prescription
//	q     - Quit
package viz
