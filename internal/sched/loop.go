package sched

import (
	"container/heap"
	"context"
	"time"
)

// Scheduler is the part of [Loop] that simulation components depend on.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) *Timer
}

type Timer struct {
	when  time.Time
	seq   uint64
	fn    func()
	index int
	loop  *Loop
}

// Stop cancels the timer. It reports whether the call prevented the callback
// from running.
func (t *Timer) Stop() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.loop.queue, t.index)
	t.index = -1
	return true
}

// Pending reports whether the timer is still waiting to fire.
func (t *Timer) Pending() bool { return t != nil && t.index >= 0 }

// When is the loop time the timer is (or was) due at.
func (t *Timer) When() time.Time { return t.when }

type Loop struct {
	now   time.Time
	seq   uint64
	queue timerQueue
	fired uint64
}

func NewLoop(start time.Time) *Loop {
	return &Loop{now: start}
}

func (l *Loop) Now() time.Time { return l.now }

// After schedules fn to run once the loop clock has moved d past now.
// Negative durations are treated as zero.
func (l *Loop) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	l.seq++
	t := &Timer{when: l.now.Add(d), seq: l.seq, fn: fn, loop: l}
	heap.Push(&l.queue, t)
	return t
}

// Pending is the number of timers waiting to fire.
func (l *Loop) Pending() int { return len(l.queue) }

// Fired is the number of callbacks run since the loop was created.
func (l *Loop) Fired() uint64 { return l.fired }

// Advance moves the clock forward by d, firing every timer that falls due on
// the way. Timers scheduled by callbacks fire in the same call if they are
// due before the new time. It returns the number of callbacks run.
func (l *Loop) Advance(d time.Duration) int {
	target := l.now.Add(d)
	n := 0
	for len(l.queue) > 0 {
		next := l.queue[0]
		if next.when.After(target) {
			break
		}
		heap.Pop(&l.queue)
		next.index = -1
		if next.when.After(l.now) {
			l.now = next.when
		}
		next.fn()
		l.fired++
		n++
	}
	if target.After(l.now) {
		l.now = target
	}
	return n
}

// AdvanceUntil steps the clock in increments of step until done reports
// true or limit has elapsed. It reports whether done became true.
func (l *Loop) AdvanceUntil(step, limit time.Duration, done func() bool) bool {
	var elapsed time.Duration
	for !done() {
		if elapsed >= limit {
			return false
		}
		l.Advance(step)
		elapsed += step
	}
	return true
}

// RunUntil drives the loop from wall time, advancing once per frame, until
// done reports true or ctx is cancelled.
func (l *Loop) RunUntil(ctx context.Context, frame time.Duration, done func() bool) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for !done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Advance(now.Sub(last))
			last = now
		}
	}
	return nil
}

// RunFor drives the loop from wall time for d.
func (l *Loop) RunFor(ctx context.Context, frame, d time.Duration) error {
	end := l.now.Add(d)
	return l.RunUntil(ctx, frame, func() bool { return !l.now.Before(end) })
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x interface{}) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
