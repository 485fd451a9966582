// Package render defines the event surface between the ball machine core and
// whatever draws it.
//
// The simulator and the reveal controller never touch a screen. They emit
// events on a [Sink]:
//
//   - particle moves and state changes
//   - wind, shake and trigger affordances
//   - the center-stage and final result displays
//
// Adapters implement [Sink] for a concrete surface. [Nop] is a convenient
// base to embed, [Multi] fans out to several sinks and [Recorder] keeps a
// tally that tests can assert on.
package render
