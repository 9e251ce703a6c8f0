// Package model defines the agent state data types.
package model

import (
	"strings"
	"time"
)

// DateFormat is the day-precision format used for note update dates.
const DateFormat = "2006-01-02"

// MaxKeywords is the maximum number of keywords per note.
const MaxKeywords = 5

// MaxHistory is the maximum number of retained history entries.
const MaxHistory = 50

// MaxCodePreview is the maximum length of a history code preview.
const MaxCodePreview = 200

// MemoryNote is a timestamped, keyword-tagged fact about a user.
type MemoryNote struct {
	Text           string   `json:"text"`
	LastUpdateDate string   `json:"last_update_date"`
	Keywords       []string `json:"keywords"`
}

// Date parses the note's update date. ok is false if the date is malformed.
func (n MemoryNote) Date() (time.Time, bool) {
	t, err := time.Parse(DateFormat, n.LastUpdateDate)
	return t, err == nil
}

// Memory is an ordered collection of notes. Both the global (durable) and
// session (ephemeral) scopes use this shape.
type Memory struct {
	Notes []MemoryNote `json:"notes"`
}

// Profile holds structured, trusted facts about a user.
type Profile struct {
	PreferredChartTypes []string `json:"preferred_chart_types"`
	ColorScheme         string   `json:"color_scheme"`
	Audience            string   `json:"audience"`
	Domain              string   `json:"domain,omitempty"`
	TechnicalLevel      string   `json:"technical_level"`
}

// ValidColorSchemes are the allowed color_scheme values.
var ValidColorSchemes = map[string]bool{
	"default":      true,
	"professional": true,
	"colorblind":   true,
}

// ValidAudiences are the allowed audience values.
var ValidAudiences = map[string]bool{
	"general":    true,
	"executives": true,
	"technical":  true,
}

// ValidTechnicalLevels are the allowed technical_level values.
var ValidTechnicalLevels = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

// DefaultProfile returns a profile with default values.
func DefaultProfile() Profile {
	return Profile{
		PreferredChartTypes: []string{},
		ColorScheme:         "default",
		Audience:            "general",
		TechnicalLevel:      "intermediate",
	}
}

// HistoryEntry records one past visualization.
type HistoryEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	ChartType   string    `json:"chart_type"`
	Summary     string    `json:"summary"`
	CodePreview string    `json:"code_preview,omitempty"`
	Success     bool      `json:"success"`
}

// Message is a single conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AgentState is the complete per-user state and the unit of persistence.
type AgentState struct {
	UserID          string         `json:"user_id"`
	Profile         Profile        `json:"profile"`
	GlobalMemory    Memory         `json:"global_memory"`
	SessionMemory   Memory         `json:"session_memory"`
	History         []HistoryEntry `json:"visualization_history"`
	ReinjectPending bool           `json:"reinject_pending"`
}

// DefaultState creates a fresh state for a new user.
func DefaultState(userID string) *AgentState {
	if userID == "" {
		userID = "anonymous"
	}
	return &AgentState{
		UserID:        userID,
		Profile:       DefaultProfile(),
		GlobalMemory:  Memory{Notes: []MemoryNote{}},
		SessionMemory: Memory{Notes: []MemoryNote{}},
		History:       []HistoryEntry{},
	}
}

// Normalize repairs a state after deserialization: absent profile fields get
// defaults, oversized keyword lists and histories are re-capped. Snapshots
// carry no schema version, so missing fields must default rather than fail.
func (s *AgentState) Normalize() {
	if s.UserID == "" {
		s.UserID = "anonymous"
	}
	if s.Profile.ColorScheme == "" {
		s.Profile.ColorScheme = "default"
	}
	if s.Profile.Audience == "" {
		s.Profile.Audience = "general"
	}
	if s.Profile.TechnicalLevel == "" {
		s.Profile.TechnicalLevel = "intermediate"
	}
	if s.Profile.PreferredChartTypes == nil {
		s.Profile.PreferredChartTypes = []string{}
	}
	if s.GlobalMemory.Notes == nil {
		s.GlobalMemory.Notes = []MemoryNote{}
	}
	if s.SessionMemory.Notes == nil {
		s.SessionMemory.Notes = []MemoryNote{}
	}
	for i := range s.GlobalMemory.Notes {
		s.GlobalMemory.Notes[i].Keywords = NormalizeKeywords(s.GlobalMemory.Notes[i].Keywords)
	}
	for i := range s.SessionMemory.Notes {
		s.SessionMemory.Notes[i].Keywords = NormalizeKeywords(s.SessionMemory.Notes[i].Keywords)
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	if len(s.History) > MaxHistory {
		s.History = s.History[len(s.History)-MaxHistory:]
	}
	for i := range s.History {
		if len(s.History[i].CodePreview) > MaxCodePreview {
			s.History[i].CodePreview = s.History[i].CodePreview[:MaxCodePreview]
		}
	}
}

// NormalizeKeywords trims, lower-cases, and deduplicates keywords, preserving
// first-seen order and capping the result at MaxKeywords.
func NormalizeKeywords(keywords []string) []string {
	clean := []string{}
	seen := map[string]bool{}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		clean = append(clean, k)
		if len(clean) == MaxKeywords {
			break
		}
	}
	return clean
}
