package trimmer

import (
	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
)

const (
	// DefaultTargetTokens is the default token budget for SmartTrim.
	DefaultTargetTokens = 4000
	// DefaultPreserveRecent is the number of recent user turns SmartTrim
	// always keeps.
	DefaultPreserveRecent = 3
)

// SmartTrim trims toward a token budget instead of a turn count. The most
// recent preserveRecent user turns are always kept; remaining budget is
// filled with as many older turns as fit, scanned newest-first. Whatever
// does not fit is discarded through the same context-extraction path.
func SmartTrim(msgs []model.Message, state *model.AgentState, targetTokens, preserveRecent int) []model.Message {
	if targetTokens <= 0 {
		targetTokens = DefaultTargetTokens
	}
	if preserveRecent <= 0 {
		preserveRecent = DefaultPreserveRecent
	}

	if EstimateTokens(msgs) <= targetTokens {
		return msgs
	}

	idx := userIndices(msgs)
	if len(idx) <= preserveRecent {
		return msgs
	}

	preserveFrom := idx[len(idx)-preserveRecent]
	recent := msgs[preserveFrom:]
	older := msgs[:preserveFrom]

	available := targetTokens - EstimateTokens(recent)
	if available <= 0 {
		// Recent turns alone exceed the target. Keep them anyway.
		preserveTrimmed(older, state)
		return recent
	}

	keptOlder := []model.Message{}
	olderTokens := 0
	for i := len(older) - 1; i >= 0; i-- {
		msgTokens := len(older[i].Content) / 4
		if olderTokens+msgTokens > available {
			break
		}
		keptOlder = append([]model.Message{older[i]}, keptOlder...)
		olderTokens += msgTokens
	}

	if removed := older[:len(older)-len(keptOlder)]; len(removed) > 0 {
		preserveTrimmed(removed, state)
	}

	return append(keptOlder, recent...)
}

func preserveTrimmed(msgs []model.Message, state *model.AgentState) {
	if summary := extractContext(msgs); summary != "" {
		memory.AddNote(state, summary, []string{"context", "trimmed"}, memory.ScopeSession)
	}
	state.ReinjectPending = true
}
