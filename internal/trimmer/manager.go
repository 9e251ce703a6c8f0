package trimmer

import (
	"log/slog"

	"github.com/rcliao/agent-state/internal/model"
)

// Manager wraps transcript append with automatic trimming.
type Manager struct {
	state        *model.AgentState
	maxUserTurns int
	autoTrim     bool
}

// NewManager creates a conversation manager for the given state.
func NewManager(state *model.AgentState, maxUserTurns int, autoTrim bool) *Manager {
	if maxUserTurns <= 0 {
		maxUserTurns = DefaultMaxUserTurns
	}
	return &Manager{state: state, maxUserTurns: maxUserTurns, autoTrim: autoTrim}
}

// AddMessage appends a turn and, when auto-trim is enabled, trims the
// transcript if it now exceeds the turn limit.
func (m *Manager) AddMessage(msgs []model.Message, role, content string) []model.Message {
	msgs = append(msgs, model.Message{Role: role, Content: content})

	if m.autoTrim && NeedsTrim(msgs, m.maxUserTurns) {
		kept, removed := Trim(msgs, m.state, Options{MaxUserTurns: m.maxUserTurns, PreserveContext: true})
		if removed > 0 {
			slog.Debug("trimmed conversation", "removed", removed, "user", m.state.UserID)
		}
		return kept
	}
	return msgs
}

// ManualTrim triggers a trim pass regardless of auto-trim.
func (m *Manager) ManualTrim(msgs []model.Message) []model.Message {
	kept, _ := Trim(msgs, m.state, Options{MaxUserTurns: m.maxUserTurns, PreserveContext: true})
	return kept
}

// Stats reports statistics for the transcript.
func (m *Manager) Stats(msgs []model.Message) Stats {
	return Describe(msgs)
}
