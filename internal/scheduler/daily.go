package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Daily runs a task once a day at a fixed wall-clock time in a location
type Daily struct {
	hour     int
	minute   int
	location *time.Location
	task     func()
	clock    clock.Clock
	logger   *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewDaily creates a daily trigger firing at "HH:MM" in loc
func NewDaily(at string, loc *time.Location, task func(), clk clock.Clock, logger *zap.Logger) (*Daily, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("invalid daily time %q: %w", at, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if clk == nil {
		clk = clock.New()
	}

	return &Daily{
		hour:     t.Hour(),
		minute:   t.Minute(),
		location: loc,
		task:     task,
		clock:    clk,
		logger:   logger,
	}, nil
}

// NextRun returns the first trigger time strictly after now
func (d *Daily) NextRun(now time.Time) time.Time {
	local := now.In(d.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.location)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, d.hour, d.minute, 0, 0, d.location)
	}
	return next
}

// Start schedules the task
func (d *Daily) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.running = true

	d.wg.Add(1)
	go d.loop(ctx)
}

func (d *Daily) loop(ctx context.Context) {
	defer d.wg.Done()

	for {
		now := d.clock.Now()
		next := d.NextRun(now)
		d.logger.Debug("Next daily run scheduled", zap.Time("at", next))

		timer := d.clock.Timer(next.Sub(now))
		select {
		case <-timer.C:
			d.task()
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// Stop cancels the schedule and waits for a running task to return
func (d *Daily) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}

	d.cancel()
	d.wg.Wait()
	d.running = false
}

// IsRunning returns true if the trigger is scheduled
func (d *Daily) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}
