package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single chat entry. It is never modified after creation.
type Message struct {
	ID        string
	Text      string
	Role      Role
	Timestamp time.Time
	IsError   bool

	// ImageURL optionally points at a poster or still shown with the text.
	ImageURL string

	// Metadata is reserved for structured payloads such as movie records.
	Metadata map[string]any
}

func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Role:      role,
		Timestamp: time.Now(),
	}
}

// NewErrorMessage creates an assistant-authored failure notice.
func NewErrorMessage(text string) Message {
	msg := NewMessage(RoleAssistant, text)
	msg.IsError = true
	return msg
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// FormatTime renders a timestamp as hour:minute on a 24-hour clock.
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// CleanText normalizes text to NFC, drops invalid UTF-8 replacement
// characters and trims surrounding whitespace.
func CleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\uFFFD", "")
	return strings.TrimSpace(s)
}
