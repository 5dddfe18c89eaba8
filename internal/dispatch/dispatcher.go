package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tasktracker-backend/internal/reminder/domain"
)

// Store is the slice of the reminder repository the coordinator needs.
type Store interface {
	FindDue(now time.Time) ([]*domain.DueReminder, error)
	UpdateAfterSend(id string, readNextDue time.Time, update domain.SendUpdate) (bool, error)
}

// Result is the outcome of one reminder within a run.
type Result struct {
	ReminderID        string   `json:"reminder_id"`
	Success           bool     `json:"success"`
	ChannelsAttempted []string `json:"channels_attempted"`
	Error             string   `json:"error,omitempty"`
}

// Summary is the run report returned to the trigger.
type Summary struct {
	ProcessedCount int      `json:"processed_count"`
	Results        []Result `json:"results"`
}

// Coordinator runs one dispatch cycle: select due reminders, fan each
// one out across the channels, fold the outcomes and advance state.
type Coordinator struct {
	store       Store
	channels    []Channel
	sendTimeout time.Duration
	maxParallel int
	log         zerolog.Logger
}

// NewCoordinator creates a Coordinator. sendTimeout bounds every
// individual channel call so one slow API cannot stall the batch.
func NewCoordinator(store Store, channels []Channel, sendTimeout time.Duration, log zerolog.Logger) *Coordinator {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Coordinator{
		store:       store,
		channels:    channels,
		sendTimeout: sendTimeout,
		maxParallel: 10,
		log:         log.With().Str("component", "dispatch").Logger(),
	}
}

// Run executes one dispatch cycle at the given instant. A store-read
// failure aborts the whole run before any side effect; every other
// failure is contained to its reminder and reported in the summary.
func (c *Coordinator) Run(ctx context.Context, now time.Time) (*Summary, error) {
	due, err := c.store.FindDue(now)
	if err != nil {
		return nil, fmt.Errorf("selecting due reminders: %w", err)
	}

	summary := &Summary{
		ProcessedCount: len(due),
		Results:        make([]Result, len(due)),
	}
	if len(due) == 0 {
		c.log.Debug().Time("now", now).Msg("no reminders due")
		return summary, nil
	}

	sem := make(chan struct{}, c.maxParallel)
	var wg sync.WaitGroup
	for i, rem := range due {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rem *domain.DueReminder) {
			defer wg.Done()
			defer func() { <-sem }()
			summary.Results[i] = c.processOne(ctx, now, rem)
		}(i, rem)
	}
	wg.Wait()

	succeeded := 0
	for _, r := range summary.Results {
		if r.Success {
			succeeded++
		}
	}
	c.log.Info().
		Int("total", len(due)).
		Int("succeeded", succeeded).
		Msg("dispatch run finished")

	return summary, nil
}

// processOne handles a single due reminder end to end. It never
// panics outward; any fault becomes a failed result for this reminder
// only.
func (c *Coordinator) processOne(ctx context.Context, now time.Time, rem *domain.DueReminder) (result Result) {
	result = Result{
		ReminderID:        rem.Reminder.ID,
		ChannelsAttempted: []string{},
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().
				Str("reminder_id", rem.Reminder.ID).
				Interface("panic", r).
				Msg("reminder processing panicked")
			result.Success = false
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	// Resolve the post-send transition before sending anything: a
	// recurring reminder whose rule cannot be parsed could not be
	// advanced afterwards, which would re-send it on every tick.
	update := domain.SendUpdate{LastSentAt: now}
	if rem.Reminder.IsRecurring {
		schedule, err := rem.Reminder.Schedule()
		if err != nil {
			result.Error = err.Error()
			c.log.Warn().
				Str("reminder_id", rem.Reminder.ID).
				Err(err).
				Msg("skipping reminder with malformed schedule")
			return result
		}
		next := domain.NextOccurrence(schedule, now)
		update.NextDueAt = &next
	} else {
		update.Deactivate = true
	}

	msg := renderMessage(rem.TaskTitle, rem.TaskDescription)
	outcomes := c.sendAll(ctx, rem, msg)

	invoked, succeeded := 0, 0
	var failures []string
	for _, o := range outcomes {
		if o.skipped {
			continue
		}
		invoked++
		result.ChannelsAttempted = append(result.ChannelsAttempted, o.channel)
		if o.errDetail == "" {
			succeeded++
		} else {
			failures = append(failures, o.channel+": "+o.errDetail)
		}
	}

	// A reminder counts as processed when at least one invoked channel
	// succeeded, or when no channel applied to it at all. Only a clean
	// sweep of failures leaves it due for the next tick.
	if invoked > 0 && succeeded == 0 {
		result.Error = strings.Join(failures, "; ")
		c.log.Warn().
			Str("reminder_id", rem.Reminder.ID).
			Str("errors", result.Error).
			Msg("all channels failed, reminder left due for retry")
		return result
	}

	won, err := c.store.UpdateAfterSend(rem.Reminder.ID, rem.Reminder.NextDueAt, update)
	if err != nil {
		// The notification is already out; the reminder stays due and
		// may be delivered again next tick. Duplicates beat silent loss.
		c.log.Error().
			Str("reminder_id", rem.Reminder.ID).
			Err(err).
			Msg("failed to advance reminder after send")
	} else if !won {
		c.log.Debug().
			Str("reminder_id", rem.Reminder.ID).
			Msg("reminder already advanced by an overlapping run")
	}

	result.Success = true
	if len(failures) > 0 {
		result.Error = strings.Join(failures, "; ")
	}
	return result
}

type channelOutcome struct {
	channel   string
	skipped   bool
	errDetail string
}

// sendAll invokes every eligible channel concurrently and waits for
// all of them; the reminder's outcome is decided only once each
// channel has succeeded, failed or been skipped.
func (c *Coordinator) sendAll(ctx context.Context, rem *domain.DueReminder, msg Message) []channelOutcome {
	var eligible []Channel
	for _, ch := range c.channels {
		if ch.Eligible(rem) {
			eligible = append(eligible, ch)
		}
	}

	outcomes := make([]channelOutcome, len(eligible))
	var wg sync.WaitGroup
	for i, ch := range eligible {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()

			out := channelOutcome{channel: ch.Name()}
			// A panicking sender runs on this goroutine, out of reach of
			// the per-reminder recover; contain it here as a failure.
			defer func() {
				if r := recover(); r != nil {
					out.errDetail = fmt.Sprintf("panic: %v", r)
				}
				outcomes[i] = out
			}()

			sendCtx, cancel := context.WithTimeout(ctx, c.sendTimeout)
			defer cancel()

			err := ch.Send(sendCtx, rem, msg)
			switch {
			case errors.Is(err, ErrSkipped):
				out.skipped = true
			case err != nil:
				out.errDetail = err.Error()
			}
		}(i, ch)
	}
	wg.Wait()
	return outcomes
}
