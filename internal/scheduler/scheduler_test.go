package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNextTickAlignment(t *testing.T) {
	s := New(Options{Interval: time.Hour, AlignToStart: true}, zerolog.Nop())

	now := time.Date(2026, 8, 25, 10, 17, 42, 0, time.UTC)
	next := s.nextTick(now)
	want := time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected next tick %v, got %v", want, next)
	}

	// already on the boundary still advances a full interval
	next = s.nextTick(want)
	if !next.Equal(want.Add(time.Hour)) {
		t.Fatalf("expected %v, got %v", want.Add(time.Hour), next)
	}
}

func TestNextTickUnaligned(t *testing.T) {
	s := New(Options{Interval: time.Minute}, zerolog.Nop())

	now := time.Date(2026, 8, 25, 10, 17, 42, 0, time.UTC)
	if next := s.nextTick(now); !next.Equal(now.Add(time.Minute)) {
		t.Fatalf("expected %v, got %v", now.Add(time.Minute), next)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(Options{Interval: 5 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	err := s.Run(ctx, func(ctx context.Context, tick time.Time) error {
		ticks++
		if ticks >= 2 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ticks < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", ticks)
	}
}

func TestRunKeepsGoingAfterTickError(t *testing.T) {
	s := New(Options{Interval: 5 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	err := s.Run(ctx, func(ctx context.Context, tick time.Time) error {
		ticks++
		if ticks >= 3 {
			cancel()
		}
		return errors.New("tick failed")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ticks < 3 {
		t.Fatalf("tick errors must not stop the loop, got %d ticks", ticks)
	}
}
