package session

import "time"

// Timer measures active session time from clock readings instead of counting ticks,
// so time spent while the process is not scheduled is still accounted for.
type Timer struct {
	startedAt   time.Time
	pausedAt    time.Time
	stoppedAt   time.Time
	pausedTotal time.Duration
	started     bool
	paused      bool
	stopped     bool
}

func (t *Timer) Start(now time.Time) {
	*t = Timer{startedAt: now, started: true}
}

func (t *Timer) Pause(now time.Time) {
	if !t.started || t.paused || t.stopped {
		return
	}
	t.paused = true
	t.pausedAt = now
}

func (t *Timer) Resume(now time.Time) {
	if !t.paused || t.stopped {
		return
	}
	t.pausedTotal += now.Sub(t.pausedAt)
	t.paused = false
	t.pausedAt = time.Time{}
}

// Stop freezes the timer. Stopping while paused ends the session at the pause instant.
func (t *Timer) Stop(now time.Time) {
	if !t.started || t.stopped {
		return
	}
	if t.paused {
		now = t.pausedAt
		t.paused = false
	}
	t.stoppedAt = now
	t.stopped = true
}

func (t *Timer) Paused() bool {
	return t.paused
}

// Elapsed is now - start - pausedTotal, never negative.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	if !t.started {
		return 0
	}
	end := now
	switch {
	case t.stopped:
		end = t.stoppedAt
	case t.paused:
		end = t.pausedAt
	}
	d := end.Sub(t.startedAt) - t.pausedTotal
	if d < 0 {
		return 0
	}
	return d
}

// Seconds is Elapsed truncated to whole seconds.
func (t *Timer) Seconds(now time.Time) int {
	return int(t.Elapsed(now) / time.Second)
}

// DurationMinutes rounds seconds up to whole minutes.
func DurationMinutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}
