// Package viz is the terminal front end of the ball machine.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live drum with a status panel and recent history
//   - [Screen]: render sink mirroring what the machine publishes
//   - [Canvas]: Braille-based pixel canvas the drum is drawn on
//   - Theme selection with 3 built-in ball palettes
//
// # Key Bindings
//
//	Space - Start a draw
//	W     - Blow wind through the drum
//	C     - Clear history (asks first)
//	M     - Back to the machine menu
//	T     - Cycle color themes
//	?     - Show help
//
// The machine clock is advanced from bubbletea's update loop on every tick,
// so the simulation and the reveal script never run on another goroutine.
package viz
