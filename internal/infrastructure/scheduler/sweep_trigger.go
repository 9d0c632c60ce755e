package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepTriggerConfig holds configuration for the periodic sweep trigger
type SweepTriggerConfig struct {
	// ReservationSweepInterval is how often to submit a reservation expiry sweep
	ReservationSweepInterval time.Duration

	// OverdueCheckInterval is how often to submit an overdue transfer check
	OverdueCheckInterval time.Duration
}

// DefaultSweepTriggerConfig returns default sweep trigger configuration
func DefaultSweepTriggerConfig() SweepTriggerConfig {
	return SweepTriggerConfig{
		ReservationSweepInterval: time.Minute,
		OverdueCheckInterval:     time.Hour,
	}
}

// SweepTrigger submits recurring maintenance jobs on fixed intervals
type SweepTrigger struct {
	config    SweepTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweepTrigger creates a new sweep trigger
func NewSweepTrigger(config SweepTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *SweepTrigger {
	return &SweepTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the sweep trigger
func (t *SweepTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	// A non-positive interval disables that sweep
	if t.config.ReservationSweepInterval > 0 {
		t.wg.Add(1)
		go t.runLoop(ctx, JobTypeReservationExpiry, t.config.ReservationSweepInterval)
	}
	if t.config.OverdueCheckInterval > 0 {
		t.wg.Add(1)
		go t.runLoop(ctx, JobTypeOverdueTransfers, t.config.OverdueCheckInterval)
	}

	t.logger.Info("Sweep trigger started",
		zap.Duration("reservation_sweep_interval", t.config.ReservationSweepInterval),
		zap.Duration("overdue_check_interval", t.config.OverdueCheckInterval),
	)

	return nil
}

// Stop stops the sweep trigger
func (t *SweepTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sweep trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop submits one job of the given type on every tick
func (t *SweepTrigger) runLoop(ctx context.Context, jobType JobType, interval time.Duration) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.scheduler.Schedule(jobType); err != nil {
				t.logger.Warn("Failed to schedule maintenance job",
					zap.String("job_type", string(jobType)),
					zap.Error(err),
				)
			}
		}
	}
}

// TriggerNow submits one job of the given type immediately
func (t *SweepTrigger) TriggerNow(jobType JobType) error {
	return t.scheduler.Schedule(jobType)
}
