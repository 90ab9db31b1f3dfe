package story

import "time"

// DefaultSlideDuration is how long each slide stays up before auto-advance.
const DefaultSlideDuration = 3000 * time.Millisecond

// State is the phase of a story.
type State string

const (
	StateIdle     State = "idle"
	StateShowing  State = "showing"
	StateFinished State = "finished"
)

// Snapshot is the observable state of a Machine.
type Snapshot struct {
	State   State         `json:"state"`
	Slide   int           `json:"slide"`
	Total   int           `json:"total"`
	Elapsed time.Duration `json:"elapsed"`
	// Progress is the share of the current slide's time used, 0..1
	Progress float64 `json:"progress"`
}

// Machine is the story state machine: Idle, then ShowingSlide(i) for each
// slide in turn, then Finished. Time only moves through Tick, so callers own
// the clock. A Machine is not safe for concurrent use.
type Machine struct {
	total    int
	duration time.Duration

	state   State
	slide   int
	elapsed time.Duration
}

// NewMachine creates an idle machine over total slides. A non-positive
// duration uses DefaultSlideDuration.
func NewMachine(total int, duration time.Duration) *Machine {
	if duration <= 0 {
		duration = DefaultSlideDuration
	}
	return &Machine{total: total, duration: duration, state: StateIdle}
}

// Start shows the first slide, restarting a story that already ran.
// A story without slides finishes at once.
func (m *Machine) Start() Snapshot {
	m.slide = 0
	m.elapsed = 0
	m.state = StateShowing
	if m.total == 0 {
		m.state = StateFinished
	}
	return m.Snapshot()
}

// Next advances one slide, finishing after the last one.
func (m *Machine) Next() Snapshot {
	if m.state != StateShowing {
		return m.Snapshot()
	}

	m.elapsed = 0
	if m.slide < m.total-1 {
		m.slide++
	} else {
		m.state = StateFinished
	}
	return m.Snapshot()
}

// Prev goes back one slide and restarts its timer. On the first slide it
// does nothing.
func (m *Machine) Prev() Snapshot {
	if m.state == StateShowing && m.slide > 0 {
		m.slide--
		m.elapsed = 0
	}
	return m.Snapshot()
}

// Tick moves the clock forward by d and advances when the current slide's
// time is up. At most one slide is advanced per tick.
func (m *Machine) Tick(d time.Duration) Snapshot {
	if m.state != StateShowing || d <= 0 {
		return m.Snapshot()
	}

	m.elapsed += d
	if m.elapsed >= m.duration {
		return m.Next()
	}
	return m.Snapshot()
}

// Stop skips the rest of the story.
func (m *Machine) Stop() Snapshot {
	if m.state == StateShowing {
		m.state = StateFinished
		m.elapsed = 0
	}
	return m.Snapshot()
}

// Finished reports whether the story has ended.
func (m *Machine) Finished() bool {
	return m.state == StateFinished
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		State:   m.state,
		Slide:   m.slide,
		Total:   m.total,
		Elapsed: m.elapsed,
	}
	if m.state == StateShowing {
		snap.Progress = min(float64(m.elapsed)/float64(m.duration), 1)
	}
	if m.state == StateFinished && m.total > 0 {
		snap.Progress = 1
	}
	return snap
}

// SlideDuration is the time each slide is shown.
func (m *Machine) SlideDuration() time.Duration {
	return m.duration
}
