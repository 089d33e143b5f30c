// Package contact accepts contact form submissions, stores them and hands
// them to a forwarder (e-mail or a third-party form endpoint).
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pratyushrajshrestha/portfolio/internal/logfields"
	"github.com/pratyushrajshrestha/portfolio/internal/store"
)

// ErrNotConfigured is returned by forwarders missing credentials or a URL.
var ErrNotConfigured = errors.New("contact forwarding not configured")

// Form is the submitted contact form. The binding rules match the page's
// native validation.
type Form struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required,email"`
	Subject string `form:"subject" binding:"required"`
	Message string `form:"message" binding:"required"`
}

// Trimmed returns f with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}
}

// Forwarder delivers a stored message to its final destination.
type Forwarder interface {
	Forward(ctx context.Context, m store.Message) error
}

// Discard keeps messages in the database only.
type Discard struct{}

func (Discard) Forward(context.Context, store.Message) error { return nil }

// Messages is the part of the store the service needs.
type Messages interface {
	SaveMessage(ctx context.Context, m store.Message) (int64, error)
	MarkForwarded(ctx context.Context, id int64, forwardErr error) error
}

// Service stores then forwards submissions. There are no retries: a failed
// forward is recorded on the stored message and returned.
type Service struct {
	messages  Messages
	forwarder Forwarder
	now       func() time.Time
}

func NewService(messages Messages, forwarder Forwarder) *Service {
	if forwarder == nil {
		forwarder = Discard{}
	}
	return &Service{messages: messages, forwarder: forwarder, now: time.Now}
}

// Submit persists the form and forwards it. The returned id is valid even
// when forwarding failed.
func (s *Service) Submit(ctx context.Context, f Form, hashedIP string) (int64, error) {
	f = f.Trimmed()
	m := store.Message{
		Name:      f.Name,
		Email:     f.Email,
		Subject:   f.Subject,
		Body:      f.Message,
		HashedIP:  hashedIP,
		CreatedAt: s.now(),
	}
	id, err := s.messages.SaveMessage(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("submit: %w", err)
	}
	m.ID = id

	fwdErr := s.forwarder.Forward(ctx, m)
	if err := s.messages.MarkForwarded(ctx, id, fwdErr); err != nil {
		slog.Error("Could not record forward outcome", logfields.MessageID(id), logfields.Error(err))
	}
	if fwdErr != nil {
		return id, fmt.Errorf("forward message %d: %w", id, fwdErr)
	}
	slog.Info("Contact message delivered", logfields.MessageID(id), slog.String("from", m.Email))
	return id, nil
}
