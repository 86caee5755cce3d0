package conversation

import (
	"context"
	"errors"

	"movie-chat/internal/agent"
	"movie-chat/internal/logging"
	"movie-chat/internal/models"
)

var (
	ErrBlankInput       = errors.New("input is blank")
	ErrExchangeInFlight = errors.New("an exchange is already in flight")
)

// Exchanger produces an assistant reply for a user message.
type Exchanger interface {
	Exchange(ctx context.Context, text string) (agent.Reply, error)
}

type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeError
)

// Notifier shows short-lived notices to the user.
type Notifier interface {
	Notify(level NoticeLevel, text string)
}

type Texts struct {
	ErrorReply    string
	ErrorNotice   string
	ClearedNotice string
}

// Session runs exchanges against a Store. It guarantees that each accepted
// input results in exactly one appended reply and that loading is cleared.
type Session struct {
	store     *Store
	exchanger Exchanger
	notifier  Notifier
	texts     Texts
}

func NewSession(store *Store, exchanger Exchanger, notifier Notifier, texts Texts) *Session {
	return &Session{
		store:     store,
		exchanger: exchanger,
		notifier:  notifier,
		texts:     texts,
	}
}

func (s *Session) Store() *Store {
	return s.store
}

// Begin appends the user message and marks the exchange as in flight.
// Blank input and input arriving while loading are rejected without changes.
func (s *Session) Begin(input string) (models.Message, error) {
	text := models.CleanText(input)
	if text == "" {
		return models.Message{}, ErrBlankInput
	}

	msg := models.NewMessage(models.RoleUser, text)
	if !s.store.TryBegin(msg) {
		return models.Message{}, ErrExchangeInFlight
	}

	logging.Debug("Exchange started: message=%s", msg.ID)
	return msg, nil
}

// Complete appends the outcome of an exchange and clears loading.
func (s *Session) Complete(reply agent.Reply, err error) models.Message {
	defer s.store.SetLoading(false)

	if err != nil {
		logging.Error("Error sending message: %v", err)
		s.notify(NoticeError, s.texts.ErrorNotice)

		msg := models.NewErrorMessage(s.texts.ErrorReply)
		s.store.Append(msg)
		return msg
	}

	msg := models.NewMessage(models.RoleAssistant, reply.Text)
	msg.Metadata = map[string]any{"endpoint": reply.Endpoint}
	s.store.Append(msg)
	return msg
}

// Exchange calls the backend for text without touching the store.
func (s *Session) Exchange(ctx context.Context, text string) (agent.Reply, error) {
	return s.exchanger.Exchange(ctx, text)
}

// Send runs a whole exchange synchronously and returns the appended reply.
func (s *Session) Send(ctx context.Context, input string) (models.Message, error) {
	userMsg, err := s.Begin(input)
	if err != nil {
		return models.Message{}, err
	}

	reply, err := s.Exchange(ctx, userMsg.Text)
	return s.Complete(reply, err), nil
}

// Reset clears the conversation. It is refused while an exchange is in
// flight so the pending reply cannot land in the fresh conversation.
func (s *Session) Reset() error {
	if !s.store.TryReset() {
		return ErrExchangeInFlight
	}
	s.notify(NoticeSuccess, s.texts.ClearedNotice)
	return nil
}

// UseSuggestion returns the current suggestion for the input buffer.
func (s *Session) UseSuggestion() string {
	return s.store.Suggestion()
}

func (s *Session) notify(level NoticeLevel, text string) {
	if s.notifier != nil && text != "" {
		s.notifier.Notify(level, text)
	}
}
