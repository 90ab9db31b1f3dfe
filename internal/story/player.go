package story

import (
	"context"
	"time"
)

// DefaultTickInterval matches the progress bar refresh of the web player.
const DefaultTickInterval = 100 * time.Millisecond

// Ticker delivers clock ticks. It exists so tests can drive a Player by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type command int

const (
	cmdNext command = iota
	cmdPrev
	cmdStop
)

// PlayerOptions configures a Player.
type PlayerOptions struct {
	// Interval is the time credited to the machine per tick.
	Interval time.Duration
	// NewTicker builds the tick source. Nil means NewTimeTicker.
	NewTicker func(time.Duration) Ticker
	// OnChange receives every snapshot that differs from the previous one.
	OnChange func(Snapshot)
	// OnFinish runs once when the story ends, unless Run was cancelled.
	OnFinish func()
}

// Player owns a Machine and feeds it ticks and navigation commands from a
// single goroutine.
type Player struct {
	machine *Machine
	opts    PlayerOptions
	cmds    chan command
	done    chan struct{}
}

// NewPlayer creates a Player for m.
func NewPlayer(m *Machine, opts PlayerOptions) *Player {
	if opts.Interval <= 0 {
		opts.Interval = DefaultTickInterval
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTimeTicker
	}
	return &Player{
		machine: m,
		opts:    opts,
		cmds:    make(chan command),
		done:    make(chan struct{}),
	}
}

// Run starts the story and blocks until it finishes or ctx is done.
// It may be called once.
func (p *Player) Run(ctx context.Context) error {
	defer close(p.done)

	last := p.machine.Start()
	p.emit(last)
	if p.machine.Finished() {
		p.finish()
		return nil
	}

	ticker := p.opts.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		var snap Snapshot

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			snap = p.machine.Tick(p.opts.Interval)
		case cmd := <-p.cmds:
			switch cmd {
			case cmdNext:
				snap = p.machine.Next()
			case cmdPrev:
				snap = p.machine.Prev()
			case cmdStop:
				snap = p.machine.Stop()
			}
		}

		if snap != last {
			p.emit(snap)
			last = snap
		}
		if p.machine.Finished() {
			p.finish()
			return nil
		}
	}
}

// Next skips to the following slide. It blocks until Run picks it up and is
// a no-op once Run has returned.
func (p *Player) Next() { p.send(cmdNext) }

// Prev goes back a slide.
func (p *Player) Prev() { p.send(cmdPrev) }

// Stop ends the story early.
func (p *Player) Stop() { p.send(cmdStop) }

func (p *Player) send(c command) {
	select {
	case p.cmds <- c:
	case <-p.done:
	}
}

func (p *Player) emit(s Snapshot) {
	if p.opts.OnChange != nil {
		p.opts.OnChange(s)
	}
}

func (p *Player) finish() {
	if p.opts.OnFinish != nil {
		p.opts.OnFinish()
	}
}
