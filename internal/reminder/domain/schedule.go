package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ScheduleKind discriminates the schedule variants.
type ScheduleKind string

const (
	KindOneTime ScheduleKind = "one_time"
	KindDaily   ScheduleKind = "daily"
	KindWeekly  ScheduleKind = "weekly"
)

// TimeOfDay is a wall-clock hour and minute in the server's local calendar.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return t, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Schedule is the tagged union of reminder timing rules. Exactly one
// variant applies to a reminder at any time; the persisted record
// converts to and from this union via Reminder.Schedule/SetSchedule.
type Schedule interface {
	Kind() ScheduleKind
}

// OneTime fires once at an exact timestamp.
type OneTime struct {
	At time.Time
}

func (OneTime) Kind() ScheduleKind { return KindOneTime }

// Daily fires every day at a fixed time.
type Daily struct {
	At TimeOfDay
}

func (Daily) Kind() ScheduleKind { return KindDaily }

// Weekly fires on a non-empty set of weekdays at a fixed time.
type Weekly struct {
	At   TimeOfDay
	Days []time.Weekday
}

func (Weekly) Kind() ScheduleKind { return KindWeekly }

// NextOccurrence computes the next fire time strictly after now for a
// recurring schedule. It is pure: the caller supplies the clock.
//
// Daily always rolls to tomorrow, even when today's HH:MM has not yet
// passed. This silently delays the first occurrence by up to 24h and is
// a known quirk of the scheduling semantics; it is kept deliberately
// because changing it would shift every existing reminder's cadence.
//
// Weekly scans forward one day at a time, starting tomorrow, for up to
// seven days and picks the first date whose weekday is in the set. The
// set is never empty for a valid schedule; if no day matches anyway the
// result falls back to tomorrow at the scheduled time.
//
// For a OneTime schedule the result is its exact timestamp.
func NextOccurrence(s Schedule, now time.Time) time.Time {
	switch sched := s.(type) {
	case OneTime:
		return sched.At
	case Daily:
		return atTimeOfDay(now.AddDate(0, 0, 1), sched.At)
	case Weekly:
		for i := 1; i <= 7; i++ {
			candidate := now.AddDate(0, 0, i)
			if containsWeekday(sched.Days, candidate.Weekday()) {
				return atTimeOfDay(candidate, sched.At)
			}
		}
		return atTimeOfDay(now.AddDate(0, 0, 1), sched.At)
	}
	return atTimeOfDay(now.AddDate(0, 0, 1), TimeOfDay{})
}

// FirstDue seeds next_due_at for a newly created or edited reminder.
func FirstDue(s Schedule, now time.Time) time.Time {
	if one, ok := s.(OneTime); ok {
		return one.At
	}
	return NextOccurrence(s, now)
}

func atTimeOfDay(day time.Time, at TimeOfDay) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), at.Hour, at.Minute, 0, 0, day.Location())
}

func containsWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a lowercase English day name to a weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return d, nil
}

// DecodeDaysOfWeek parses the persisted JSON array of day names
// (e.g. `["monday","friday"]`) into weekdays.
func DecodeDaysOfWeek(raw string) ([]time.Weekday, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("invalid days_of_week %q: %w", raw, err)
	}
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// EncodeDaysOfWeek renders weekdays as the JSON array the reminder row stores.
func EncodeDaysOfWeek(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, strings.ToLower(d.String()))
	}
	raw, _ := json.Marshal(names)
	return string(raw)
}
