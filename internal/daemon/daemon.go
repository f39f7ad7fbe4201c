package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/username/gantt-calendar/internal/holidays"
	"github.com/username/gantt-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// RangeFunc returns the date range to capture at the given moment
type RangeFunc func(now time.Time) (from, to time.Time, err error)

// Daemon keeps a holiday snapshot file fresh by re-capturing it from a
// live source on a fixed interval
type Daemon struct {
	source      holidays.Source
	snapshot    *holidays.SnapshotSource
	dateRange   RangeFunc
	interval    time.Duration
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.Mutex // Protect against concurrent refreshes
	running     bool
	lastRunTime time.Time
	lastErr     error
	now         func() time.Time
}

// NewDaemon creates a new snapshot refresher
func NewDaemon(source holidays.Source, snapshot *holidays.SnapshotSource, dateRange RangeFunc, interval time.Duration, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &Daemon{
		source:    source,
		snapshot:  snapshot,
		dateRange: dateRange,
		interval:  interval,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}

// Start refreshes immediately, then on every interval until stopped or
// interrupted
func (d *Daemon) Start() error {
	d.logger.Info("Snapshot daemon started",
		zap.Duration("interval", d.interval))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	return d.loop(d.ctx, sigChan)
}

// RunWithTimeout runs the daemon until the timeout elapses
func (d *Daemon) RunWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()

	return d.loop(ctx, nil)
}

func (d *Daemon) loop(ctx context.Context, sigChan <-chan os.Signal) error {
	d.refreshAndLog()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Snapshot daemon stopped")
			return nil

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
			return nil

		case <-ticker.C:
			d.refreshAndLog()
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) refreshAndLog() {
	if err := d.Refresh(); err != nil {
		// Previous snapshot file stays in place
		d.logger.Error("Snapshot refresh failed", zap.Error(err))
	}
}

// Refresh captures the current range from the source and saves the snapshot
func (d *Daemon) Refresh() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		d.logger.Warn("Refresh already running, skipping concurrent execution")
		return fmt.Errorf("refresh already in progress")
	}
	d.running = true
	d.mu.Unlock()

	err := d.refresh()

	d.mu.Lock()
	d.running = false
	d.lastRunTime = d.now()
	d.lastErr = err
	d.mu.Unlock()

	return err
}

func (d *Daemon) refresh() error {
	from, to, err := d.dateRange(d.now())
	if err != nil {
		return fmt.Errorf("failed to resolve range: %w", err)
	}

	if err := d.snapshot.Capture(d.source, from, to); err != nil {
		return err
	}
	if err := d.snapshot.Save(); err != nil {
		return err
	}

	d.logger.Info("Snapshot refreshed",
		zap.String("from", from.Format(dateutil.DateLayout)),
		zap.String("to", to.Format(dateutil.DateLayout)),
		zap.Time("next_run", d.now().Add(d.interval)))
	return nil
}

// Status describes the last refresh
type Status struct {
	Interval    time.Duration
	LastRunTime time.Time
	LastError   error
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Status{
		Interval:    d.interval,
		LastRunTime: d.lastRunTime,
		LastError:   d.lastErr,
	}
}
