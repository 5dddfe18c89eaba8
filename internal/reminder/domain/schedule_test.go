package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func TestDailyAlwaysRollsToTomorrow(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		at   TimeOfDay
	}{
		{"time already passed today", date(2024, time.March, 6, 14, 30), TimeOfDay{Hour: 9, Minute: 0}},
		{"time still ahead today", date(2024, time.March, 6, 7, 15), TimeOfDay{Hour: 9, Minute: 0}},
		{"midnight", date(2024, time.March, 6, 0, 0), TimeOfDay{Hour: 0, Minute: 0}},
		{"month rollover", date(2024, time.February, 29, 23, 59), TimeOfDay{Hour: 6, Minute: 45}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := NextOccurrence(Daily{At: tc.at}, tc.now)

			if !next.After(tc.now) {
				t.Fatalf("next %v not after now %v", next, tc.now)
			}
			wantDay := tc.now.AddDate(0, 0, 1)
			if next.Year() != wantDay.Year() || next.YearDay() != wantDay.YearDay() {
				t.Errorf("next %v not on the day after %v", next, tc.now)
			}
			if next.Hour() != tc.at.Hour || next.Minute() != tc.at.Minute || next.Second() != 0 {
				t.Errorf("next %v does not carry time of day %v with zero seconds", next, tc.at)
			}
		})
	}
}

func TestWeeklyPicksEarliestSelectedDay(t *testing.T) {
	// 2024-03-06 is a Wednesday.
	wednesday := date(2024, time.March, 6, 10, 0)

	cases := []struct {
		name string
		days []time.Weekday
		want time.Time
	}{
		{
			name: "monday and friday from wednesday picks friday",
			days: []time.Weekday{time.Monday, time.Friday},
			want: date(2024, time.March, 8, 9, 0),
		},
		{
			name: "same weekday rolls a full week",
			days: []time.Weekday{time.Wednesday},
			want: date(2024, time.March, 13, 9, 0),
		},
		{
			name: "next day selected",
			days: []time.Weekday{time.Thursday},
			want: date(2024, time.March, 7, 9, 0),
		},
		{
			name: "every day picks tomorrow",
			days: []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
			want: date(2024, time.March, 7, 9, 0),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := NextOccurrence(Weekly{At: TimeOfDay{Hour: 9, Minute: 0}, Days: tc.days}, wednesday)
			if !next.Equal(tc.want) {
				t.Fatalf("next = %v, want %v", next, tc.want)
			}
			if !containsWeekday(tc.days, next.Weekday()) {
				t.Errorf("next %v lands on unselected weekday %v", next, next.Weekday())
			}
			if next.Sub(wednesday) > 7*24*time.Hour {
				t.Errorf("next %v more than a week out from %v", next, wednesday)
			}
		})
	}
}

func TestWeeklyEmptySetFallsBackToTomorrow(t *testing.T) {
	// The empty set is rejected upstream; the calculator still degrades
	// to tomorrow instead of looping.
	now := date(2024, time.March, 6, 10, 0)
	next := NextOccurrence(Weekly{At: TimeOfDay{Hour: 9, Minute: 0}, Days: nil}, now)
	want := date(2024, time.March, 7, 9, 0)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want fallback %v", next, want)
	}
}

func TestFirstDue(t *testing.T) {
	now := date(2024, time.March, 6, 10, 0)

	exact := date(2024, time.April, 1, 18, 30)
	if got := FirstDue(OneTime{At: exact}, now); !got.Equal(exact) {
		t.Errorf("one-time first due = %v, want %v", got, exact)
	}

	got := FirstDue(Daily{At: TimeOfDay{Hour: 8, Minute: 0}}, now)
	want := date(2024, time.March, 7, 8, 0)
	if !got.Equal(want) {
		t.Errorf("daily first due = %v, want %v", got, want)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: TimeOfDay{Hour: 9, Minute: 0}},
		{in: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{in: "0:05", want: TimeOfDay{Hour: 0, Minute: 5}},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDaysOfWeekRoundTrip(t *testing.T) {
	days, err := DecodeDaysOfWeek(`["monday","friday"]`)
	if err != nil {
		t.Fatalf("DecodeDaysOfWeek: %v", err)
	}
	if len(days) != 2 || days[0] != time.Monday || days[1] != time.Friday {
		t.Fatalf("decoded %v", days)
	}

	if got := EncodeDaysOfWeek(days); got != `["monday","friday"]` {
		t.Errorf("EncodeDaysOfWeek = %s", got)
	}

	if _, err := DecodeDaysOfWeek(`["funday"]`); err == nil {
		t.Error("expected error for unknown day name")
	}
	if _, err := DecodeDaysOfWeek(`not json`); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestReminderScheduleRoundTrip(t *testing.T) {
	exact := date(2024, time.May, 1, 12, 0)

	r := &Reminder{}
	r.SetSchedule(OneTime{At: exact})
	if r.IsRecurring || r.ExactDatetime == nil || r.RecurrenceType != "" {
		t.Fatalf("one-time branch not set cleanly: %+v", r)
	}
	s, err := r.Schedule()
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if one, ok := s.(OneTime); !ok || !one.At.Equal(exact) {
		t.Fatalf("round-trip gave %#v", s)
	}

	// Switching to weekly must clear the one-time branch.
	r.SetSchedule(Weekly{At: TimeOfDay{Hour: 9, Minute: 30}, Days: []time.Weekday{time.Monday}})
	if r.ExactDatetime != nil {
		t.Error("exact_datetime not cleared when switching to recurring")
	}
	if !r.IsRecurring || r.RecurrenceType != RecurrenceWeekly || r.TimeOfDay != "09:30" || r.DaysOfWeek != `["monday"]` {
		t.Fatalf("weekly branch not set: %+v", r)
	}

	// And back again.
	r.SetSchedule(Daily{At: TimeOfDay{Hour: 7, Minute: 0}})
	if r.DaysOfWeek != "" {
		t.Error("days_of_week not cleared when switching to daily")
	}
}

func TestReminderScheduleMalformed(t *testing.T) {
	cases := []struct {
		name string
		r    Reminder
	}{
		{"one-time without timestamp", Reminder{IsRecurring: false}},
		{"recurring without type", Reminder{IsRecurring: true, TimeOfDay: "09:00"}},
		{"recurring with bad time", Reminder{IsRecurring: true, RecurrenceType: RecurrenceDaily, TimeOfDay: "bad"}},
		{"weekly with empty days", Reminder{IsRecurring: true, RecurrenceType: RecurrenceWeekly, TimeOfDay: "09:00", DaysOfWeek: `[]`}},
		{"weekly with bad days", Reminder{IsRecurring: true, RecurrenceType: RecurrenceWeekly, TimeOfDay: "09:00", DaysOfWeek: `oops`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.r.Schedule(); err == nil {
				t.Error("expected schedule error")
			}
		})
	}
}
