package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"movie-chat/internal/conversation"
)

const toastDuration = 3 * time.Second

// Toast is a short-lived notice rendered on top of the chat.
type Toast struct {
	ID    int
	Level conversation.NoticeLevel
	Text  string
}

type toastExpiredMsg struct {
	id int
}

// Toaster implements conversation.Notifier for the terminal. Only the newest
// toast is shown; each one is dismissed after toastDuration.
type Toaster struct {
	current *Toast
	nextID  int
	pending bool
}

func NewToaster() *Toaster {
	return &Toaster{}
}

func (t *Toaster) Notify(level conversation.NoticeLevel, text string) {
	t.nextID++
	t.current = &Toast{ID: t.nextID, Level: level, Text: text}
	t.pending = true
}

func (t *Toaster) Current() *Toast {
	return t.current
}

// TakeExpiry returns the command that dismisses a toast shown since the last
// call, or nil when nothing new was shown.
func (t *Toaster) TakeExpiry() tea.Cmd {
	if !t.pending || t.current == nil {
		return nil
	}
	t.pending = false

	id := t.current.ID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t *Toaster) Dismiss(id int) {
	if t.current != nil && t.current.ID == id {
		t.current = nil
	}
}

// RenderOverlay draws the current toast over backgroundView.
func (t *Toaster) RenderOverlay(backgroundView string) string {
	if t.current == nil {
		return backgroundView
	}

	overlayModel := overlay.New(
		toastModel{toast: *t.current},
		&staticViewModel{content: backgroundView},
		overlay.Center,
		overlay.Top,
		0,
		1,
	)

	return overlayModel.View()
}

type toastModel struct {
	toast Toast
}

func (m toastModel) Init() tea.Cmd {
	return nil
}

func (m toastModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m toastModel) View() string {
	if m.toast.Level == conversation.NoticeError {
		return ToastErrorStyle.Render("✗ " + m.toast.Text)
	}
	return ToastSuccessStyle.Render("✓ " + m.toast.Text)
}

// staticViewModel is a simple model that renders static content (background)
type staticViewModel struct {
	content string
}

func (m staticViewModel) Init() tea.Cmd {
	return nil
}

func (m staticViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m staticViewModel) View() string {
	return m.content
}
