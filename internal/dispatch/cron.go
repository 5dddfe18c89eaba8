package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CronTrigger invokes the coordinator on a fixed schedule, standing in
// for an externally-owned cron.
type CronTrigger struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// NewCronTrigger wires the coordinator onto a cron spec
// (default: every minute).
func NewCronTrigger(coordinator *Coordinator, spec string, log zerolog.Logger) (*CronTrigger, error) {
	logger := log.With().Str("component", "dispatch_cron").Logger()

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		summary, err := coordinator.Run(context.Background(), time.Now())
		if err != nil {
			logger.Error().Err(err).Msg("dispatch run failed")
			return
		}
		if summary.ProcessedCount > 0 {
			logger.Info().
				Int("processed", summary.ProcessedCount).
				Msg("dispatch run complete")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid dispatch cron spec %q: %w", spec, err)
	}

	return &CronTrigger{cron: c, log: logger}, nil
}

// Start begins triggering runs in the background.
func (t *CronTrigger) Start() {
	t.log.Info().Msg("dispatch trigger started")
	t.cron.Start()
}

// Stop halts the trigger; a run already in flight finishes.
func (t *CronTrigger) Stop() {
	t.cron.Stop()
}
