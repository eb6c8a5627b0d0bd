package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"print-order-bot/internal/pkg/config"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper deletes spooled files older than the given age.
type Sweeper interface {
	Sweep(maxAge time.Duration) ([]string, error)
}

type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Reconcile()
}

// DefaultService removes downloads left in the spool by conversations that
// ended between download and upload, or by a crash.
type DefaultService struct {
	sweeper Sweeper
	cfg     *config.ReconcilerCfg
	cron    *cron.Cron
	wg      *sync.WaitGroup
}

func NewDefaultService(sweeper Sweeper, cfg *config.ReconcilerCfg) *DefaultService {
	return &DefaultService{
		sweeper: sweeper,
		cfg:     cfg,
		cron:    cron.New(),
		wg:      &sync.WaitGroup{},
	}
}

func (d *DefaultService) Start(ctx context.Context) error {
	if _, err := d.cron.AddFunc(d.cfg.Schedule, d.Reconcile); err != nil {
		return fmt.Errorf("invalid reconciler schedule %q: %w", d.cfg.Schedule, err)
	}
	d.cron.Start()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		<-ctx.Done()
		<-d.cron.Stop().Done()
	}()

	slog.Info("Started reconciler service", "schedule", d.cfg.Schedule, "maxAge", d.cfg.MaxAge)
	return nil
}

func (d *DefaultService) Stop(ctx context.Context) error {
	stop := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(stop)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-stop:
		return nil
	}
}

func (d *DefaultService) Reconcile() {
	removed, err := d.sweeper.Sweep(d.cfg.MaxAge)
	if err != nil {
		slog.Error("Failed to sweep spool", "error", err)
		return
	}
	if len(removed) > 0 {
		slog.Info("Removed stale spooled files", "count", len(removed), "files", removed)
	}
}
