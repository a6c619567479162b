package playback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

var ErrInvalidInterval = errors.New("playback: interval must be positive")

type Options struct {
	Interval time.Duration
	// Stride is added to the step counter on every emission.
	Stride int
	// Limit is the last step to emit; zero means unbounded.
	Limit int
	// Loop restarts from step 0 after Limit instead of stopping.
	Loop bool
}

// Player emits step numbers at a fixed interval. A step is emitted only
// after the previous one was marked processed, so a slow consumer never
// falls behind by more than one step.
type Player struct {
	opts   Options
	logger *slog.Logger
	steps  chan int

	mu        sync.Mutex
	step      int
	started   bool
	paused    bool
	processed bool
	restart   bool
}

func New(opts Options, logger *slog.Logger) (*Player, error) {
	if opts.Interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if opts.Stride <= 0 {
		opts.Stride = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Player{
		opts:      opts,
		logger:    logger,
		steps:     make(chan int, 1),
		processed: true,
	}, nil
}

// Steps is closed when Run returns.
func (p *Player) Steps() <-chan int { return p.steps }

func (p *Player) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

func (p *Player) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// MarkProcessed releases the next step.
func (p *Player) MarkProcessed() {
	p.mu.Lock()
	p.processed = true
	p.mu.Unlock()
}

// Loop rewinds playback; the next emitted step is 0.
func (p *Player) Loop() {
	p.mu.Lock()
	p.restart = true
	p.mu.Unlock()
}

// Step returns the last emitted step.
func (p *Player) Step() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step
}

// Run ticks until ctx is done or, without looping, the limit is passed.
func (p *Player) Run(ctx context.Context) error {
	defer close(p.steps)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		next, ok, done := p.advance()
		if done {
			p.logger.Debug("playback finished", "step", p.Step())
			return nil
		}
		if !ok {
			continue
		}
		select {
		case p.steps <- next:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// advance decides what the current tick emits.
func (p *Player) advance() (next int, ok, done bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.restart {
		p.restart = false
		p.started = true
		p.step = 0
		p.processed = false
		return 0, true, false
	}
	if p.paused || !p.processed {
		return 0, false, false
	}

	next = p.step + p.opts.Stride
	if !p.started {
		next = p.opts.Stride
	}
	if p.opts.Limit > 0 && next > p.opts.Limit {
		if !p.opts.Loop {
			return 0, false, true
		}
		next = 0
	}
	p.started = true
	p.step = next
	p.processed = false
	return next, true, false
}

// Play runs the player and calls fn for every step, marking it processed
// when fn returns. Returning false from fn stops playback.
func (p *Player) Play(ctx context.Context, fn func(step int) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	stopped := false
	for step := range p.steps {
		if !fn(step) {
			stopped = true
			cancel()
			break
		}
		p.MarkProcessed()
	}
	err := <-errc
	if stopped {
		return nil
	}
	return err
}
