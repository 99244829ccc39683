package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Janitor periodically prunes expired sessions from a Store.
type Janitor struct {
	store    Store
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewJanitor(store Store, interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		store:    store,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start launches the pruning goroutine. It exits on Stop or when ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	j.wg.Add(1)
	go j.run(ctx)
}

// Stop signals the goroutine to exit and waits for it. Safe to call more than once.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
	j.wg.Wait()
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			j.logger.Info("session janitor stopping")
			return
		case <-ctx.Done():
			j.logger.Info("context canceled, session janitor exiting")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep removes expired sessions once and reports how many were dropped.
func (j *Janitor) Sweep(ctx context.Context) int64 {
	n, err := j.store.DeleteExpired(ctx, j.now())
	if err != nil {
		j.logger.Error("prune sessions", "err", err)
		return 0
	}
	if n > 0 {
		j.logger.Info("pruned expired sessions", "count", n)
	}
	return n
}
