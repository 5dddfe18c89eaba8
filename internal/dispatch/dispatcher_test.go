package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tasktracker-backend/internal/reminder/domain"
)

type appliedUpdate struct {
	readNextDue time.Time
	update      domain.SendUpdate
}

type fakeStore struct {
	mu        sync.Mutex
	due       []*domain.DueReminder
	findErr   error
	updateErr error
	winRace   bool
	applied   map[string]appliedUpdate
}

func newFakeStore(due ...*domain.DueReminder) *fakeStore {
	return &fakeStore{due: due, winRace: true, applied: make(map[string]appliedUpdate)}
}

func (f *fakeStore) FindDue(now time.Time) ([]*domain.DueReminder, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.due, nil
}

func (f *fakeStore) UpdateAfterSend(id string, readNextDue time.Time, update domain.SendUpdate) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return false, f.updateErr
	}
	if !f.winRace {
		return false, nil
	}
	f.applied[id] = appliedUpdate{readNextDue: readNextDue, update: update}
	return true, nil
}

type fakeChannel struct {
	name     string
	eligible bool
	err      error

	mu    sync.Mutex
	sends int
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Eligible(rem *domain.DueReminder) bool { return f.eligible }

func (f *fakeChannel) Send(ctx context.Context, rem *domain.DueReminder, msg Message) error {
	f.mu.Lock()
	f.sends++
	f.mu.Unlock()
	return f.err
}

func (f *fakeChannel) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends
}

func testNow() time.Time {
	// A Wednesday.
	return time.Date(2024, time.March, 6, 10, 0, 0, 0, time.Local)
}

func oneTimeDue(id string) *domain.DueReminder {
	at := testNow().Add(-5 * time.Minute)
	rem := domain.Reminder{
		ID:       id,
		TaskID:   "t-1",
		UserID:   "u-1",
		ChatID:   "12345",
		IsActive: true,
	}
	rem.SetSchedule(domain.OneTime{At: at})
	rem.NextDueAt = at
	return &domain.DueReminder{
		Reminder:        rem,
		TaskTitle:       "pay rent",
		TaskDescription: "wire it before noon",
		OwnerEmail:      "u1@example.com",
		EmailEnabled:    true,
	}
}

func dailyDue(id string) *domain.DueReminder {
	due := oneTimeDue(id)
	due.Reminder.SetSchedule(domain.Daily{At: domain.TimeOfDay{Hour: 9, Minute: 0}})
	due.Reminder.NextDueAt = testNow().Add(-time.Hour)
	return due
}

func newTestCoordinator(store Store, channels ...Channel) *Coordinator {
	return NewCoordinator(store, channels, time.Second, zerolog.Nop())
}

func TestRunPartialSuccessAdvancesRecurring(t *testing.T) {
	now := testNow()
	store := newFakeStore(dailyDue("r-1"))
	tg := &fakeChannel{name: "telegram", eligible: true}
	email := &fakeChannel{name: "email", eligible: true, err: errors.New("smtp down")}

	summary, err := newTestCoordinator(store, tg, email).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	res := summary.Results[0]
	if !res.Success {
		t.Fatalf("partial success should count as processed: %+v", res)
	}
	if len(res.ChannelsAttempted) != 2 {
		t.Errorf("channels_attempted = %v, want both", res.ChannelsAttempted)
	}
	if !strings.Contains(res.Error, "email: smtp down") {
		t.Errorf("error detail %q should name the failing channel", res.Error)
	}

	applied, ok := store.applied["r-1"]
	if !ok {
		t.Fatal("expected post-send update")
	}
	if !applied.update.LastSentAt.Equal(now) {
		t.Errorf("last_sent_at = %v, want %v", applied.update.LastSentAt, now)
	}
	if applied.update.Deactivate {
		t.Error("recurring reminder must stay active")
	}
	wantNext := time.Date(2024, time.March, 7, 9, 0, 0, 0, time.Local)
	if applied.update.NextDueAt == nil || !applied.update.NextDueAt.Equal(wantNext) {
		t.Errorf("next_due_at = %v, want %v", applied.update.NextDueAt, wantNext)
	}
}

func TestRunTotalFailureLeavesReminderDue(t *testing.T) {
	now := testNow()
	due := oneTimeDue("r-1")
	store := newFakeStore(due)
	tg := &fakeChannel{name: "telegram", eligible: true, err: errors.New("chat not found")}
	email := &fakeChannel{name: "email", eligible: false}

	coord := newTestCoordinator(store, tg, email)
	summary, err := coord.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	res := summary.Results[0]
	if res.Success {
		t.Fatal("total channel failure must not count as processed")
	}
	if !strings.Contains(res.Error, "chat not found") {
		t.Errorf("error detail %q should carry the channel error", res.Error)
	}
	if len(store.applied) != 0 {
		t.Fatal("state must not advance when every invoked channel failed")
	}

	// Idempotence under retry: the reminder is still selected with the
	// same due timestamp, and a second run behaves identically.
	summary2, err := coord.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if summary2.Results[0].Success || len(store.applied) != 0 {
		t.Fatal("retry with failing channels must leave the reminder untouched")
	}
	if tg.sendCount() != 2 {
		t.Errorf("telegram attempts = %d, want one per run", tg.sendCount())
	}
}

func TestRunRetrySucceedsAfterFailure(t *testing.T) {
	now := testNow()
	due := oneTimeDue("r-1")
	store := newFakeStore(due)
	tg := &fakeChannel{name: "telegram", eligible: true, err: errors.New("flood wait")}

	coord := newTestCoordinator(store, tg)
	if _, err := coord.Run(context.Background(), now); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.applied) != 0 {
		t.Fatal("failed send must not retire the reminder")
	}

	tg.err = nil
	summary, err := coord.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !summary.Results[0].Success {
		t.Fatal("send should succeed once the channel recovers")
	}

	applied := store.applied["r-1"]
	if !applied.update.Deactivate {
		t.Error("one-time reminder must retire after a successful send")
	}
	if applied.update.NextDueAt != nil {
		t.Error("one-time reminder must not be rescheduled")
	}
	if !applied.update.LastSentAt.Equal(now) {
		t.Errorf("last_sent_at = %v, want %v", applied.update.LastSentAt, now)
	}
	if !applied.readNextDue.Equal(due.Reminder.NextDueAt) {
		t.Errorf("conditional update keyed on %v, want the selected next_due_at %v", applied.readNextDue, due.Reminder.NextDueAt)
	}
}

func TestRunNoEligibleChannelsIsProcessed(t *testing.T) {
	now := testNow()
	due := oneTimeDue("r-1")
	due.Reminder.ChatID = ""
	due.EmailEnabled = false
	store := newFakeStore(due)
	tg := &fakeChannel{name: "telegram", eligible: false}
	email := &fakeChannel{name: "email", eligible: false}

	summary, err := newTestCoordinator(store, tg, email).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	res := summary.Results[0]
	if !res.Success {
		t.Fatal("a reminder with no applicable channel still counts as processed")
	}
	if len(res.ChannelsAttempted) != 0 {
		t.Errorf("channels_attempted = %v, want none", res.ChannelsAttempted)
	}
	if tg.sendCount() != 0 || email.sendCount() != 0 {
		t.Error("ineligible channels must not be invoked")
	}
	if _, ok := store.applied["r-1"]; !ok {
		t.Fatal("reminder state must still advance")
	}
}

func TestRunSkippedChannelIsNeitherSuccessNorFailure(t *testing.T) {
	now := testNow()
	due := oneTimeDue("r-1")
	due.Reminder.ChatID = "" // messenger does not apply
	store := newFakeStore(due)
	tg := &fakeChannel{name: "telegram", eligible: false}
	email := &fakeChannel{name: "email", eligible: true, err: ErrSkipped}

	summary, err := newTestCoordinator(store, tg, email).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	res := summary.Results[0]
	if !res.Success {
		t.Fatal("a soft-skipped channel must not fail the reminder")
	}
	if len(res.ChannelsAttempted) != 0 {
		t.Errorf("channels_attempted = %v, skipped channels are not attempts", res.ChannelsAttempted)
	}
	if res.Error != "" {
		t.Errorf("unexpected error detail %q", res.Error)
	}
}

func TestRunIsolatesMalformedRule(t *testing.T) {
	now := testNow()
	broken := dailyDue("r-broken")
	broken.Reminder.TimeOfDay = "nonsense"
	healthy := oneTimeDue("r-ok")
	store := newFakeStore(broken, healthy)
	tg := &fakeChannel{name: "telegram", eligible: true}

	summary, err := newTestCoordinator(store, tg).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	byID := map[string]Result{}
	for _, r := range summary.Results {
		byID[r.ReminderID] = r
	}

	if byID["r-broken"].Success {
		t.Error("malformed rule should fail its own reminder")
	}
	if byID["r-broken"].Error == "" {
		t.Error("malformed rule should be reported in the result")
	}
	if !byID["r-ok"].Success {
		t.Error("sibling reminder must be unaffected")
	}
	if _, ok := store.applied["r-broken"]; ok {
		t.Error("malformed reminder must not advance")
	}
	if _, ok := store.applied["r-ok"]; !ok {
		t.Error("healthy reminder must advance")
	}
}

type blockingChannel struct{ name string }

func (b *blockingChannel) Name() string                          { return b.name }
func (b *blockingChannel) Eligible(rem *domain.DueReminder) bool { return true }
func (b *blockingChannel) Send(ctx context.Context, rem *domain.DueReminder, msg Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunSendTimeoutIsChannelFailure(t *testing.T) {
	store := newFakeStore(oneTimeDue("r-1"))
	coord := NewCoordinator(store, []Channel{&blockingChannel{name: "telegram"}}, 20*time.Millisecond, zerolog.Nop())

	summary, err := coord.Run(context.Background(), testNow())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	res := summary.Results[0]
	if res.Success {
		t.Fatal("a send that outlives its timeout is a channel failure")
	}
	if !strings.Contains(res.Error, "context deadline exceeded") {
		t.Errorf("error detail %q should carry the timeout", res.Error)
	}
	if len(store.applied) != 0 {
		t.Error("timed-out reminder must stay due for the next tick")
	}
}

func TestRunStoreWriteFailureStillProcessed(t *testing.T) {
	store := newFakeStore(oneTimeDue("r-1"))
	store.updateErr = errors.New("connection reset")
	tg := &fakeChannel{name: "telegram", eligible: true}

	summary, err := newTestCoordinator(store, tg).Run(context.Background(), testNow())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The notification went out; a failed advance is logged and the row
	// stays due, at worst delivering a duplicate next tick.
	res := summary.Results[0]
	if !res.Success {
		t.Fatal("delivered reminder counts as processed even when the advance fails")
	}
	if res.Error != "" {
		t.Errorf("unexpected error detail %q", res.Error)
	}
	if tg.sendCount() != 1 {
		t.Errorf("sends = %d, want 1", tg.sendCount())
	}
	if len(store.applied) != 0 {
		t.Error("failed advance must not record an update")
	}
}

type panicChannel struct{ name string }

func (p *panicChannel) Name() string                             { return p.name }
func (p *panicChannel) Eligible(rem *domain.DueReminder) bool    { return true }
func (p *panicChannel) Send(context.Context, *domain.DueReminder, Message) error {
	panic("sender bug")
}

func TestRunContainsPanickingChannel(t *testing.T) {
	now := testNow()
	store := newFakeStore(oneTimeDue("r-1"), oneTimeDue("r-2"))
	tg := &fakeChannel{name: "telegram", eligible: true}

	summary, err := newTestCoordinator(store, tg, &panicChannel{name: "email"}).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, res := range summary.Results {
		if !res.Success {
			t.Errorf("reminder %s: panic in one channel must not sink the reminder when another succeeds: %+v", res.ReminderID, res)
		}
		if !strings.Contains(res.Error, "panic: sender bug") {
			t.Errorf("reminder %s: panic should surface in the error detail, got %q", res.ReminderID, res.Error)
		}
	}
	if len(store.applied) != 2 {
		t.Errorf("both reminders should advance, applied = %d", len(store.applied))
	}
}

func TestRunStoreReadFailureAbortsRun(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("connection refused")

	summary, err := newTestCoordinator(store, &fakeChannel{name: "telegram", eligible: true}).Run(context.Background(), testNow())
	if err == nil {
		t.Fatal("expected run-level error")
	}
	if summary != nil {
		t.Error("no partial summary on a failed selection")
	}
}

func TestRunLostConditionalUpdateStillSucceeds(t *testing.T) {
	store := newFakeStore(oneTimeDue("r-1"))
	store.winRace = false
	tg := &fakeChannel{name: "telegram", eligible: true}

	summary, err := newTestCoordinator(store, tg).Run(context.Background(), testNow())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !summary.Results[0].Success {
		t.Fatal("losing the conditional update to an overlapping run is not a failure")
	}
}

func TestRunEmptyBatch(t *testing.T) {
	store := newFakeStore()
	summary, err := newTestCoordinator(store, &fakeChannel{name: "telegram", eligible: true}).Run(context.Background(), testNow())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.ProcessedCount != 0 || len(summary.Results) != 0 {
		t.Fatalf("empty batch should give an empty summary, got %+v", summary)
	}
}

func TestSummaryJSONShape(t *testing.T) {
	now := testNow()
	store := newFakeStore(oneTimeDue("r-1"))
	tg := &fakeChannel{name: "telegram", eligible: true}

	summary, err := newTestCoordinator(store, tg).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if decoded["processed_count"] != float64(1) {
		t.Errorf("processed_count = %v", decoded["processed_count"])
	}
	results, ok := decoded["results"].([]interface{})
	if !ok || len(results) != 1 {
		t.Fatalf("results = %v", decoded["results"])
	}
	first := results[0].(map[string]interface{})
	if first["reminder_id"] != "r-1" || first["success"] != true {
		t.Errorf("result = %v", first)
	}
	if _, ok := first["channels_attempted"]; !ok {
		t.Error("result should list channels_attempted")
	}
}
