package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often the cashier view refreshes.
const DefaultPollInterval = 30 * time.Second

// Poller runs a task immediately and then at a fixed interval until its context ends.
type Poller struct {
	interval time.Duration
	logger   *zap.Logger
}

// NewPoller builds a poller. Non-positive intervals fall back to the default.
func NewPoller(interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{interval: interval, logger: logger}
}

// Interval returns the refresh period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run blocks until ctx is cancelled or task fails. A failing task means the
// consumer is gone, so polling stops and the error is returned.
func (p *Poller) Run(ctx context.Context, task func(context.Context) error) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	ticks := 0
	for {
		if err := task(ctx); err != nil {
			p.logger.Debug("poller stopped by task", zap.Int("ticks", ticks), zap.Error(err))
			return err
		}
		ticks++
		select {
		case <-ctx.Done():
			p.logger.Debug("poller cancelled", zap.Int("ticks", ticks))
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
