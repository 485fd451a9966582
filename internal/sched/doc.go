// Package sched is a single-threaded cooperative timer loop.
//
// Every piece of timed behaviour in the machine (the physics frame loop, the
// wind auto-clear and each step of a reveal) is a callback scheduled on a
// [Loop]. Callbacks run one at a time, in due-time order, on whichever
// goroutine drives the loop. Nothing preempts a running callback.
//
// The loop keeps its own clock. Tests and fast-forward runs move it with
// [Loop.Advance]; interactive runs drive it from wall time with
// [Loop.RunUntil] or by calling Advance from a UI tick.
//
// # Thread Safety
//
// A Loop is NOT thread-safe. Only the goroutine that drives it may schedule
// timers or touch state owned by its callbacks.
package sched
