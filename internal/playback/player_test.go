package playback

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func start(t *testing.T, opts Options) (*Player, context.CancelFunc, <-chan error) {
	t.Helper()
	p, err := New(opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()
	t.Cleanup(cancel)
	return p, cancel, errc
}

func receive(t *testing.T, p *Player) int {
	t.Helper()
	select {
	case s, ok := <-p.Steps():
		if !ok {
			t.Fatal("steps closed")
		}
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for step")
	}
	return 0
}

func quiet(t *testing.T, p *Player) {
	t.Helper()
	select {
	case s := <-p.Steps():
		t.Fatalf("unexpected step %d", s)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestNewRejectsInterval(t *testing.T) {
	if _, err := New(Options{}, nil); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestBackpressure(t *testing.T) {
	p, _, _ := start(t, Options{Interval: time.Millisecond})

	if s := receive(t, p); s != 1 {
		t.Fatalf("expected step 1, got %d", s)
	}
	quiet(t, p)

	p.MarkProcessed()
	if s := receive(t, p); s != 2 {
		t.Errorf("expected step 2, got %d", s)
	}
}

func TestPauseResume(t *testing.T) {
	p, err := New(Options{Interval: time.Millisecond}, nil)
	if err != nil {
		t.Fatal(err)
	}
	p.Pause()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	quiet(t, p)
	if !p.Paused() {
		t.Error("expected paused")
	}
	p.Resume()
	if s := receive(t, p); s != 1 {
		t.Errorf("expected step 1, got %d", s)
	}
}

func TestLoopRewinds(t *testing.T) {
	p, _, _ := start(t, Options{Interval: time.Millisecond, Stride: 2})

	if s := receive(t, p); s != 2 {
		t.Fatalf("expected step 2, got %d", s)
	}
	p.Loop()
	if s := receive(t, p); s != 0 {
		t.Fatalf("expected rewind to 0, got %d", s)
	}
	p.MarkProcessed()
	if s := receive(t, p); s != 2 {
		t.Errorf("expected step 2 after rewind, got %d", s)
	}
}

func TestPlay(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		max  int
		want []int
	}{
		{"limit", Options{Limit: 3}, 10, []int{1, 2, 3}},
		{"stride", Options{Stride: 5, Limit: 15}, 10, []int{5, 10, 15}},
		{"loop", Options{Limit: 2, Loop: true}, 5, []int{1, 2, 0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Interval = time.Millisecond
			p, err := New(tt.opts, nil)
			if err != nil {
				t.Fatal(err)
			}
			var got []int
			err = p.Play(context.Background(), func(step int) bool {
				got = append(got, step)
				return len(got) < tt.max
			})
			if err != nil {
				t.Fatalf("play failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRunCancel(t *testing.T) {
	p, cancel, errc := start(t, Options{Interval: time.Millisecond})
	receive(t, p)
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
	if _, ok := <-p.Steps(); ok {
		t.Error("steps should be closed")
	}
}
