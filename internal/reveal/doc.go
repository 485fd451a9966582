// Package reveal runs the timed draw script on top of a [machine.Machine].
//
// A [Controller] is either idle or picking. Trigger starts a round only when
// idle; the round blows the balls around, freezes the drum, draws numbers,
// pulls each matching ball out one at a time, shows the results and then
// resets the drum with a fresh batch. Every pause in the script is a timer on
// the shared [sched.Scheduler], so a round can be fast-forwarded in tests:
//
//	loop := sched.NewLoop(time.Now())
//	m := machine.New(cfg, loop, rng, sink)
//	c := reveal.New(cfg, m, loop, draw.NewSeeded(1), sink)
//	m.Spawn()
//	c.Trigger()
//	loop.Advance(cfg.Timing.RevealDuration(cfg.Draw.Count))
package reveal
