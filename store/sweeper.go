package store

import (
	"context"
	"log"
	"time"
)

// Sweeper purges expired boards on a fixed interval until its context ends.
type Sweeper struct {
	Store    Sweepable
	Interval time.Duration
	Logger   *log.Logger
}

// Run blocks until ctx is done. Sweep failures are logged and retried on the
// next tick.
func (w *Sweeper) Run(ctx context.Context) error {
	if w.Interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.sweepOnce(ctx)
		}
	}
}

func (w *Sweeper) sweepOnce(ctx context.Context) {
	removed, err := w.Store.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil && w.Logger != nil {
			w.Logger.Printf("sweep expired boards: %v", err)
		}
		return
	}
	if removed > 0 && w.Logger != nil {
		w.Logger.Printf("swept %d expired boards", removed)
	}
}
