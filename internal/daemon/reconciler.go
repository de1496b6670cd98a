package daemon

import (
	"context"
	"log/slog"
	"time"
)

// Pruner drops tracked windows that no longer exist.
type Pruner interface {
	PruneStaleWindows() (int, error)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically removes closed windows from hidden workspaces so
// the state file does not accumulate dead handles.
type Reconciler struct {
	interval time.Duration
	pruner   Pruner
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, pruner Pruner) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		pruner:   pruner,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() int {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	removed, err := r.pruner.PruneStaleWindows()
	if err != nil {
		r.logger.Error("reconciler: failed to prune windows", "error", err)
		return removed
	}
	if removed > 0 {
		r.logger.Info("reconciler: dropped closed windows", "count", removed)
	}
	return removed
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() int {
	return r.reconcile()
}
