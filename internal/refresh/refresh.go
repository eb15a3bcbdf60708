// Package refresh reloads the event store on a cron schedule.
package refresh

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jw6ventures/eventcal/internal/metrics"
)

// Loader is the part of the event store the scheduler drives.
type Loader interface {
	Load(ctx context.Context) error
}

// Scheduler runs Load on every tick of a standard 5-field cron spec.
type Scheduler struct {
	cron    *cron.Cron
	loader  Loader
	timeout time.Duration
}

// New validates spec and returns a stopped scheduler.
func New(spec string, loader Loader, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		loader:  loader,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins scheduling in the background and stops when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
}

func (s *Scheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	err := s.loader.Load(ctx)
	metrics.IncRefresh(err)
	if err != nil {
		log.Printf("[WARN] scheduled refresh failed: %v", err)
		return
	}
	log.Printf("[INFO] scheduled refresh completed")
}
