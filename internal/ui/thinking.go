package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const thinkingInterval = 500 * time.Millisecond

var thinkingDots = []string{"", ".", "..", "..."}

// thinkingTickMsg belongs to one exchange; ticks from an older one are dropped.
type thinkingTickMsg struct {
	gen int
}

// ThinkingText is the header text shown for the given animation frame.
func ThinkingText(frame int) string {
	if frame < 0 {
		frame = 0
	}
	return "Thinking" + thinkingDots[frame%len(thinkingDots)]
}

func thinkingTick(gen int) tea.Cmd {
	return tea.Tick(thinkingInterval, func(time.Time) tea.Msg {
		return thinkingTickMsg{gen: gen}
	})
}
