package triage

import (
	"context"
	"log"
	"time"
)

// DefaultTickInterval is the wall-clock period between ETA decrements.
const DefaultTickInterval = 30 * time.Second

// Ticker drives the periodic ETA decrement. It is a cancellable repeating
// task: stopping the owning context releases the timer deterministically,
// so no tick can mutate a torn-down board.
type Ticker struct {
	board    *Board
	interval time.Duration
}

// NewTicker creates a ticker over the board. A non-positive interval falls
// back to DefaultTickInterval.
func NewTicker(board *Board, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{board: board, interval: interval}
}

// Run blocks, applying one tick per interval until the context is
// canceled. It always returns nil so an errgroup treats cancellation as a
// clean shutdown.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	log.Printf("eta ticker running every %v", t.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("eta ticker stopped")
			return nil
		case <-ticker.C:
			t.board.Tick()
		}
	}
}
