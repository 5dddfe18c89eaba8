package broadcast

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	authdomain "tasktracker-backend/internal/auth/domain"
)

// Messenger is the slice of the Telegram client the service needs.
type Messenger interface {
	Configured() bool
	SendMessage(ctx context.Context, chatID, text string) error
}

// UserSource lists broadcast recipients and resolves direct targets.
type UserSource interface {
	ListLinked() ([]*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
}

var (
	ErrNotConfigured = errors.New("telegram bot token not configured")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserNotLinked = errors.New("user has no linked telegram chat")
)

// Result is the delivery outcome for one recipient.
type Result struct {
	ChatID  string `json:"chat_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Report summarizes one broadcast.
type Report struct {
	Sent    int      `json:"sent"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Service pushes operator announcements to linked Telegram chats.
type Service struct {
	users       UserSource
	messenger   Messenger
	maxParallel int
	log         zerolog.Logger
}

func NewService(users UserSource, messenger Messenger, log zerolog.Logger) *Service {
	return &Service{
		users:       users,
		messenger:   messenger,
		maxParallel: 10,
		log:         log.With().Str("component", "broadcast").Logger(),
	}
}

// BroadcastAll sends the message to every user with a linked chat. A
// failure for one recipient never stops the rest; the report carries a
// per-recipient outcome.
func (s *Service) BroadcastAll(ctx context.Context, message string) (*Report, error) {
	if !s.messenger.Configured() {
		return nil, ErrNotConfigured
	}

	users, err := s.users.ListLinked()
	if err != nil {
		return nil, err
	}

	text := "📢 *Announcement*\n\n" + message

	report := &Report{
		Total:   len(users),
		Results: make([]Result, len(users)),
	}

	sem := make(chan struct{}, s.maxParallel)
	var wg sync.WaitGroup
	for i, user := range users {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, chatID string) {
			defer wg.Done()
			defer func() { <-sem }()

			res := Result{ChatID: chatID}
			if err := s.messenger.SendMessage(ctx, chatID, text); err != nil {
				res.Error = err.Error()
			} else {
				res.Success = true
			}
			report.Results[i] = res
		}(i, user.TelegramChatID)
	}
	wg.Wait()

	for _, r := range report.Results {
		if r.Success {
			report.Sent++
		}
	}

	s.log.Info().
		Int("sent", report.Sent).
		Int("total", report.Total).
		Msg("broadcast finished")

	return report, nil
}

// SendToUser delivers a direct message to one user's linked chat.
func (s *Service) SendToUser(ctx context.Context, userID, message string) error {
	if !s.messenger.Configured() {
		return ErrNotConfigured
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.TelegramChatID == "" {
		return ErrUserNotLinked
	}

	return s.messenger.SendMessage(ctx, user.TelegramChatID, message)
}
