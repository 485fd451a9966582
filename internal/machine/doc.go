// Package machine simulates the lottery drum: numbered balls bouncing inside
// a circular boundary under gravity, friction, turbulence and a temporary
// upward wind.
//
// A [Machine] owns its particle set, its random source and its frame loop.
// There is no package level state, so independent machines can run side by
// side and a seeded machine replays exactly.
//
// The model is deliberately not a physics engine. Balls have no mass, the
// pair response just swaps velocities, and jitter keeps the drum lively:
//
//	m := machine.New(cfg, loop, rand.New(rand.NewSource(1)), sink)
//	m.Spawn()          // fresh batch, frame loop running
//	m.ActivateWind()   // 2s gust, idempotent while blowing
//	loop.Advance(time.Second)
//
// All methods must be called from the goroutine that drives the scheduler.
package machine
