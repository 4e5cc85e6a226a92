package analyzer

import "time"

// Timer measures the wall-clock duration of a detection run
type Timer struct {
	now     func() time.Time
	start   time.Time
	elapsed time.Duration
	running bool
}

// NewTimer creates a stopped timer
func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// Start begins measuring, discarding any earlier measurement
func (t *Timer) Start() {
	t.start = t.now()
	t.elapsed = 0
	t.running = true
}

// Stop ends the measurement
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.elapsed = t.now().Sub(t.start)
	t.running = false
}

// Elapsed returns the measured duration, or the running duration if not stopped
func (t *Timer) Elapsed() time.Duration {
	if t.running {
		return t.now().Sub(t.start)
	}
	return t.elapsed
}
