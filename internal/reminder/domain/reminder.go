package domain

import (
	"errors"
	"time"
)

// RecurrenceType is the persisted recurrence discriminator.
type RecurrenceType string

const (
	RecurrenceDaily  RecurrenceType = "daily"
	RecurrenceWeekly RecurrenceType = "weekly"
)

var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrMalformedSchedule = errors.New("malformed reminder schedule")
)

// Reminder is a notification attached to a task. Exactly one of the
// one-time branch (exact_datetime) and the recurring branch
// (recurrence_type + time_of_day [+ days_of_week]) is populated;
// SetSchedule clears the other branch when the type switches.
// next_due_at is the single timestamp the due selector compares
// against now, seeded at creation and recomputed after every
// successful send of a recurring reminder.
type Reminder struct {
	ID     string `json:"id" gorm:"primaryKey"`
	TaskID string `json:"task_id" gorm:"index;not null"`
	UserID string `json:"user_id" gorm:"index;not null"`

	// ChatID is the Telegram chat the reminder delivers to; empty
	// means the messenger channel does not apply.
	ChatID string `json:"chat_id,omitempty"`

	IsActive    bool `json:"is_active" gorm:"default:true"`
	IsRecurring bool `json:"is_recurring"`

	RecurrenceType RecurrenceType `json:"recurrence_type,omitempty"`
	TimeOfDay      string         `json:"time_of_day,omitempty"`
	DaysOfWeek     string         `json:"days_of_week,omitempty"` // JSON array of day names
	ExactDatetime  *time.Time     `json:"exact_datetime,omitempty"`

	NextDueAt  time.Time  `json:"next_due_at" gorm:"index;not null"`
	LastSentAt *time.Time `json:"last_sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Schedule reconstructs the timing rule from the persisted columns.
func (r *Reminder) Schedule() (Schedule, error) {
	if !r.IsRecurring {
		if r.ExactDatetime == nil {
			return nil, ErrMalformedSchedule
		}
		return OneTime{At: *r.ExactDatetime}, nil
	}

	at, err := ParseTimeOfDay(r.TimeOfDay)
	if err != nil {
		return nil, err
	}

	switch r.RecurrenceType {
	case RecurrenceDaily:
		return Daily{At: at}, nil
	case RecurrenceWeekly:
		days, err := DecodeDaysOfWeek(r.DaysOfWeek)
		if err != nil {
			return nil, err
		}
		if len(days) == 0 {
			return nil, errors.New("weekly reminder has no days selected")
		}
		return Weekly{At: at, Days: days}, nil
	}
	return nil, ErrMalformedSchedule
}

// SetSchedule writes the union back onto the row, clearing whichever
// branch no longer applies.
func (r *Reminder) SetSchedule(s Schedule) {
	switch sched := s.(type) {
	case OneTime:
		at := sched.At
		r.IsRecurring = false
		r.ExactDatetime = &at
		r.RecurrenceType = ""
		r.TimeOfDay = ""
		r.DaysOfWeek = ""
	case Daily:
		r.IsRecurring = true
		r.ExactDatetime = nil
		r.RecurrenceType = RecurrenceDaily
		r.TimeOfDay = sched.At.String()
		r.DaysOfWeek = ""
	case Weekly:
		r.IsRecurring = true
		r.ExactDatetime = nil
		r.RecurrenceType = RecurrenceWeekly
		r.TimeOfDay = sched.At.String()
		r.DaysOfWeek = EncodeDaysOfWeek(sched.Days)
	}
}

// DueReminder is a due reminder joined with its parent task and the
// owner's notification preferences, as returned by the due selector.
type DueReminder struct {
	Reminder Reminder `gorm:"embedded" json:"reminder"`

	TaskTitle       string `gorm:"column:task_title" json:"task_title"`
	TaskDescription string `gorm:"column:task_description" json:"task_description"`

	OwnerEmail   string `gorm:"column:owner_email" json:"owner_email"`
	EmailEnabled bool   `gorm:"column:email_enabled" json:"email_enabled"`
}

// SendUpdate is the post-send state transition applied to a reminder.
type SendUpdate struct {
	LastSentAt time.Time
	NextDueAt  *time.Time // recurring: the recomputed due timestamp
	Deactivate bool       // one-time: retire the reminder
}
