package inject

import "github.com/rcliao/agent-state/internal/model"

// EstimateTokens estimates the token count of text (4 chars ≈ 1 token).
func EstimateTokens(text string) int {
	return len(text) / 4
}

// SectionSizes holds per-section token estimates.
type SectionSizes struct {
	ProfileTokens int `json:"profile_tokens"`
	GlobalTokens  int `json:"global_memory_tokens"`
	SessionTokens int `json:"session_memory_tokens"`
	HistoryTokens int `json:"history_tokens"`
	TotalTokens   int `json:"total_tokens"`
}

// MeasureSections estimates the rendered size of each context section.
func MeasureSections(state *model.AgentState) SectionSizes {
	profile := renderFrontmatter(state)
	global := renderNotes(state.GlobalMemory.Notes, "Long-Term Preferences")
	session := renderNotes(state.SessionMemory.Notes, "Current Session Context")
	history := renderHistory(state, DefaultHistoryLimit)

	return SectionSizes{
		ProfileTokens: EstimateTokens(profile),
		GlobalTokens:  EstimateTokens(global),
		SessionTokens: EstimateTokens(session),
		HistoryTokens: EstimateTokens(history),
		TotalTokens:   EstimateTokens(profile + global + session + history),
	}
}

// CapMemoryCounts bounds each memory scope to its most recent notes.
func CapMemoryCounts(state *model.AgentState, maxGlobal, maxSession int) {
	if n := len(state.GlobalMemory.Notes); maxGlobal > 0 && n > maxGlobal {
		state.GlobalMemory.Notes = state.GlobalMemory.Notes[n-maxGlobal:]
	}
	if n := len(state.SessionMemory.Notes); maxSession > 0 && n > maxSession {
		state.SessionMemory.Notes = state.SessionMemory.Notes[n-maxSession:]
	}
}
