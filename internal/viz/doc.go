// Package viz renders orbital simulations in the terminal.
//
//   - [LiveModel]: Bubble Tea program stepping a fleet in real time
//   - [Canvas]: Braille pixel canvas, with [Viewport] for scene coordinates
//   - [PlotRadius]: asciigraph chart of stored distance samples
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	Tab   - Select next satellite
//	+/-   - Adjust selected time scale by 0.1
//	R     - Reset selected orbit
//	Q     - Quit
package viz
