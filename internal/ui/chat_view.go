package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"movie-chat/internal/agent"
	"movie-chat/internal/conversation"
	"movie-chat/internal/logging"
	"movie-chat/internal/models"
)

const (
	titleHeight      = 3
	suggestionHeight = 1
	textareaHeight   = 5
	helpHeight       = 2
	padding          = 2
)

type ChatViewModel struct {
	title      string
	session    *conversation.Session
	toaster    *Toaster
	endpoints  []string
	viewport   viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model
	mdRenderer *glamour.TermRenderer
	width      int
	height     int

	// thinkingFrame advances every thinkingInterval while an exchange is in flight.
	thinkingFrame int
	thinkingGen   int

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// ExchangeCompleted carries the backend outcome back into the update loop.
type ExchangeCompleted struct {
	Reply agent.Reply
	Err   error
}

// createMarkdownRenderer creates a markdown renderer with fallback handling
func createMarkdownRenderer(width int) *glamour.TermRenderer {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-14),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with auto style: %v, trying fallback", err)

	renderer, err = glamour.NewTermRenderer()
	if err != nil {
		logging.Error("Failed to create basic markdown renderer: %v", err)
		return nil
	}

	return renderer
}

// safeRenderMarkdown renders markdown, falling back to plain text on any failure
func (m *ChatViewModel) safeRenderMarkdown(content string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Panic in markdown rendering: %v", r)
			out = content
		}
	}()

	if m.mdRenderer == nil || content == "" {
		return content
	}

	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		logging.Error("Markdown rendering error: %v, falling back to plain text", err)
		return content
	}

	return strings.Trim(rendered, "\n")
}

func NewChatViewModel(title string, session *conversation.Session, toaster *Toaster, endpoints []string, width, height int) ChatViewModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about movies..."
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// Enter sends, so the textarea keeps only plain editing keys.
	ta.KeyMap.CharacterForward = key.NewBinding(key.WithKeys("right"))
	ta.KeyMap.CharacterBackward = key.NewBinding(key.WithKeys("left"))
	ta.KeyMap.LineStart = key.NewBinding(key.WithKeys("home"))
	ta.KeyMap.LineEnd = key.NewBinding(key.WithKeys("end"))
	ta.KeyMap.DeleteCharacterBackward = key.NewBinding(key.WithKeys("backspace"))
	ta.KeyMap.DeleteCharacterForward = key.NewBinding(key.WithKeys("delete"))
	ta.KeyMap.LineNext = key.NewBinding()
	ta.KeyMap.LinePrevious = key.NewBinding()
	ta.KeyMap.InsertNewline = key.NewBinding()
	ta.KeyMap.DeleteAfterCursor = key.NewBinding()
	ta.KeyMap.DeleteBeforeCursor = key.NewBinding()

	vp := viewport.New(width-6, viewportHeight(height))
	vp.MouseWheelDelta = 2
	vp.KeyMap.Down = key.NewBinding(key.WithKeys("down"))
	vp.KeyMap.Up = key.NewBinding(key.WithKeys("up"))
	vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	vp.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup"))
	vp.KeyMap.HalfPageDown = key.NewBinding()
	vp.KeyMap.HalfPageUp = key.NewBinding()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	m := ChatViewModel{
		title:      title,
		session:    session,
		toaster:    toaster,
		endpoints:  endpoints,
		viewport:   vp,
		textarea:   ta,
		spinner:    sp,
		mdRenderer: createMarkdownRenderer(width),
		width:      width,
		height:     height,
		ctx:        ctx,
		cancelFunc: cancel,
	}
	m.renderMessages()

	return m
}

func viewportHeight(height int) int {
	h := height - titleHeight - suggestionHeight - textareaHeight - helpHeight - padding
	if h < 3 {
		h = 3
	}
	return h
}

func (m ChatViewModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func (m ChatViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	store := m.session.Store()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = viewportHeight(msg.Height)
		m.textarea.SetWidth(msg.Width - 4)
		m.mdRenderer = createMarkdownRenderer(msg.Width)
		m.renderMessages()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+x":
			m.cancelFunc()
			return m, tea.Quit

		case "enter":
			return m.send()

		case "ctrl+s":
			if !store.Loading() {
				m.textarea.SetValue(m.session.UseSuggestion())
				m.textarea.CursorEnd()
			}
			return m, nil

		case "ctrl+l":
			if err := m.session.Reset(); err != nil {
				logging.Debug("Clear ignored: %v", err)
				return m, nil
			}
			m.thinkingFrame = 0
			m.renderMessages()
			return m, m.toaster.TakeExpiry()
		}

	case ExchangeCompleted:
		reply := m.session.Complete(msg.Reply, msg.Err)
		logging.Debug("Exchange finished: reply=%s error=%v", reply.ID, reply.IsError)
		m.renderMessages()
		m.viewport.GotoBottom()
		return m, m.toaster.TakeExpiry()

	case thinkingTickMsg:
		if !store.Loading() || msg.gen != m.thinkingGen {
			return m, nil
		}
		m.thinkingFrame++
		return m, thinkingTick(m.thinkingGen)

	case toastExpiredMsg:
		m.toaster.Dismiss(msg.id)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if !store.Loading() {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// send starts an exchange for the current input. Blank input and input
// typed while another exchange is in flight are ignored.
func (m ChatViewModel) send() (tea.Model, tea.Cmd) {
	userMsg, err := m.session.Begin(m.textarea.Value())
	if err != nil {
		if !errors.Is(err, conversation.ErrBlankInput) {
			logging.Debug("Send ignored: %v", err)
		}
		return m, nil
	}

	m.textarea.Reset()
	m.thinkingFrame = 0
	m.thinkingGen++
	m.renderMessages()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.exchange(userMsg.Text), thinkingTick(m.thinkingGen))
}

func (m ChatViewModel) exchange(text string) tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		reply, err := session.Exchange(ctx, text)
		return ExchangeCompleted{Reply: reply, Err: err}
	}
}

func (m ChatViewModel) View() string {
	var b strings.Builder
	store := m.session.Store()

	status := OnlineStyle.Render("Online")
	if store.Loading() {
		status = m.spinner.View() + " " + ThinkingStyle.Render(ThinkingText(m.thinkingFrame))
	}
	b.WriteString(TitleWithPaddingStyle.Render(m.title) + " " + status + "\n")
	b.WriteString(statusBarStyle.Render("Endpoints: "+strings.Join(m.endpoints, " → ")) + "\n")

	b.WriteString(RenderViewportWithBorder(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderScrollIndicator())
	b.WriteString("\n")

	if !store.Loading() && store.Suggestion() != "" {
		b.WriteString(SuggestionLabelStyle.Render(" Try: ") + SuggestionTextStyle.Render(store.Suggestion()))
	}
	b.WriteString("\n")

	b.WriteString(m.textarea.View() + "\n")

	helpText := "Enter: Send • Ctrl+S: Use suggestion • Ctrl+L: Clear chat • ↑/↓: Scroll • Ctrl+X: Exit"
	b.WriteString(helpStyle.Render(helpText))

	return m.toaster.RenderOverlay(b.String())
}

func (m *ChatViewModel) renderMessages() {
	var b strings.Builder

	for _, msg := range m.session.Store().Messages() {
		b.WriteString(m.renderBubble(msg))
		b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
}

func (m *ChatViewModel) renderBubble(msg models.Message) string {
	stamp := TimestampStyle.Render(models.FormatTime(msg.Timestamp))

	switch {
	case msg.IsUser():
		label := UserMessageLabelStyle.Render("You")
		return GetUserMessageContentStyle(m.width).Render(label + "\n" + msg.Text + "\n" + stamp)

	case msg.IsError:
		label := ErrorMessageLabelStyle.Render("Assistant")
		body := ErrorMessageStyle.Render(msg.Text)
		return GetAssistantMessageContentStyle(m.width).Render(label + "\n" + body + "\n" + stamp)

	default:
		label := AssistantMessageLabelStyle.Render("Assistant")
		if endpoint, ok := msg.Metadata["endpoint"].(string); ok && endpoint != "" {
			stamp += TimestampStyle.Render(" · " + endpoint)
		}
		body := m.safeRenderMarkdown(msg.Text)
		if msg.ImageURL != "" {
			body += "\n" + TimestampStyle.Render("Image: "+msg.ImageURL)
		}
		return GetAssistantMessageContentStyle(m.width).Render(label + "\n" + body + "\n" + stamp)
	}
}

func (m ChatViewModel) renderScrollIndicator() string {
	if m.viewport.TotalLineCount() <= m.viewport.Height {
		return ""
	}

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	return ScrollIndicatorStyle.Render(fmt.Sprintf("Scroll: %d%% ↕", scrollPercent))
}
