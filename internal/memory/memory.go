// Package memory implements note, profile, and history operations on agent state.
package memory

import (
	"strings"
	"time"

	"github.com/rcliao/agent-state/internal/model"
)

// Scope selects which memory a note is written to.
type Scope string

const (
	// ScopeSession targets the ephemeral, conversation-scoped memory.
	ScopeSession Scope = "session"
	// ScopeGlobal targets the durable, cross-session memory.
	ScopeGlobal Scope = "global"
)

// AddNote normalizes keywords, stamps the current date, and appends a new
// note to the selected scope. Pure append: no merging happens here.
func AddNote(state *model.AgentState, text string, keywords []string, scope Scope) model.MemoryNote {
	note := model.MemoryNote{
		Text:           strings.TrimSpace(text),
		LastUpdateDate: time.Now().UTC().Format(model.DateFormat),
		Keywords:       model.NormalizeKeywords(keywords),
	}
	if scope == ScopeGlobal {
		state.GlobalMemory.Notes = append(state.GlobalMemory.Notes, note)
	} else {
		state.SessionMemory.Notes = append(state.SessionMemory.Notes, note)
	}
	return note
}

// SearchParams holds parameters for searching memories.
type SearchParams struct {
	Keywords       []string
	IncludeSession bool
	IncludeGlobal  bool
}

// Search returns notes whose keyword set intersects the query keywords.
// An empty query matches every note in the selected scopes. Global matches
// come first, then session matches, each in storage order, so callers can
// treat the tail as most current.
func Search(state *model.AgentState, p SearchParams) []model.MemoryNote {
	query := map[string]bool{}
	for _, k := range p.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			query[k] = true
		}
	}

	match := func(note model.MemoryNote) bool {
		if len(query) == 0 {
			return true
		}
		for _, kw := range note.Keywords {
			if query[kw] {
				return true
			}
		}
		return false
	}

	results := []model.MemoryNote{}
	if p.IncludeGlobal {
		for _, note := range state.GlobalMemory.Notes {
			if match(note) {
				results = append(results, note)
			}
		}
	}
	if p.IncludeSession {
		for _, note := range state.SessionMemory.Notes {
			if match(note) {
				results = append(results, note)
			}
		}
	}
	return results
}

// UpdateProfile sets a recognized profile field. Unknown field names, wrong
// value types, and invalid enum values are rejected via the boolean result;
// the profile is left untouched on rejection.
func UpdateProfile(state *model.AgentState, field string, value interface{}) bool {
	switch field {
	case "preferred_chart_types":
		switch v := value.(type) {
		case []string:
			state.Profile.PreferredChartTypes = v
		case string:
			state.Profile.PreferredChartTypes = []string{v}
		default:
			return false
		}
		return true
	case "color_scheme":
		v, ok := value.(string)
		if !ok || !model.ValidColorSchemes[v] {
			return false
		}
		state.Profile.ColorScheme = v
		return true
	case "audience":
		v, ok := value.(string)
		if !ok || !model.ValidAudiences[v] {
			return false
		}
		state.Profile.Audience = v
		return true
	case "domain":
		v, ok := value.(string)
		if !ok {
			return false
		}
		state.Profile.Domain = v
		return true
	case "technical_level":
		v, ok := value.(string)
		if !ok || !model.ValidTechnicalLevels[v] {
			return false
		}
		state.Profile.TechnicalLevel = v
		return true
	}
	return false
}

// NewHistoryEntry builds a history entry stamped with the current time.
// Code previews are truncated to the storage cap.
func NewHistoryEntry(chartType, summary, codePreview string, success bool) model.HistoryEntry {
	if len(codePreview) > model.MaxCodePreview {
		codePreview = codePreview[:model.MaxCodePreview]
	}
	return model.HistoryEntry{
		Timestamp:   time.Now().UTC(),
		ChartType:   chartType,
		Summary:     summary,
		CodePreview: codePreview,
		Success:     success,
	}
}

// AppendHistory appends an entry and evicts the oldest entries beyond the
// cap. Insertion order is the only eviction signal.
func AppendHistory(state *model.AgentState, entry model.HistoryEntry) {
	state.History = append(state.History, entry)
	if len(state.History) > model.MaxHistory {
		state.History = state.History[len(state.History)-model.MaxHistory:]
	}
}

// RecentHistory returns the most recent history entries, oldest first.
func RecentHistory(state *model.AgentState, limit int) []model.HistoryEntry {
	if limit <= 0 || len(state.History) == 0 {
		return []model.HistoryEntry{}
	}
	if len(state.History) > limit {
		return state.History[len(state.History)-limit:]
	}
	return state.History
}

// Summary holds memory statistics for one user.
type Summary struct {
	UserID        string               `json:"user_id"`
	GlobalCount   int                  `json:"global_memory_count"`
	SessionCount  int                  `json:"session_memory_count"`
	HistoryCount  int                  `json:"visualization_count"`
	Profile       model.Profile        `json:"profile"`
	RecentHistory []model.HistoryEntry `json:"recent_visualizations"`
}

// Summarize reports the current memory state.
func Summarize(state *model.AgentState) Summary {
	return Summary{
		UserID:        state.UserID,
		GlobalCount:   len(state.GlobalMemory.Notes),
		SessionCount:  len(state.SessionMemory.Notes),
		HistoryCount:  len(state.History),
		Profile:       state.Profile,
		RecentHistory: RecentHistory(state, 3),
	}
}
