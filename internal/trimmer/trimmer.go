// Package trimmer bounds conversation transcripts while preserving salient
// context in session memory for later reinjection.
package trimmer

import (
	"fmt"
	"strings"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
)

const (
	// DefaultMaxUserTurns is the default number of user turns to keep.
	DefaultMaxUserTurns = 10
	// MinUserTurns is the floor below which trimming never goes, even when
	// the configured maximum is smaller.
	MinUserTurns = 3
	// maxContextPoints bounds the extracted context summary.
	maxContextPoints = 5
)

// Options configures a trim pass.
type Options struct {
	MaxUserTurns    int
	PreserveContext bool
}

// DefaultOptions returns the standard trim configuration.
func DefaultOptions() Options {
	return Options{MaxUserTurns: DefaultMaxUserTurns, PreserveContext: true}
}

func effectiveMaxTurns(maxUserTurns int) int {
	if maxUserTurns < MinUserTurns {
		return MinUserTurns
	}
	return maxUserTurns
}

func userIndices(msgs []model.Message) []int {
	var idx []int
	for i, m := range msgs {
		if m.Role == "user" {
			idx = append(idx, i)
		}
	}
	return idx
}

// NeedsTrim reports whether the transcript holds more user turns than the
// configured maximum.
func NeedsTrim(msgs []model.Message, maxUserTurns int) bool {
	return len(userIndices(msgs)) > effectiveMaxTurns(maxUserTurns)
}

// Trim discards everything before the cutoff of the last MaxUserTurns user
// turns. When PreserveContext is set, a context summary extracted from the
// discarded turns is written into session memory and reinjection is armed.
// Trimming never fails: if nothing is extractable the discarded turns are
// simply not remembered.
func Trim(msgs []model.Message, state *model.AgentState, opts Options) ([]model.Message, int) {
	maxTurns := effectiveMaxTurns(opts.MaxUserTurns)
	if !NeedsTrim(msgs, maxTurns) {
		return msgs, 0
	}

	idx := userIndices(msgs)
	cutoff := idx[len(idx)-maxTurns]
	discarded := msgs[:cutoff]
	kept := msgs[cutoff:]

	if opts.PreserveContext && len(discarded) > 0 {
		if summary := extractContext(discarded); summary != "" {
			memory.AddNote(state, summary, []string{"context", "conversation"}, memory.ScopeSession)
		}
		state.ReinjectPending = true
	}

	return kept, len(discarded)
}

// chartTypes are the chart keywords scanned for in discarded turns.
var chartTypes = []string{"bar", "line", "scatter", "pie", "histogram"}

// extractContext scans discarded turns for data mentions, preference
// statements, and chart-type discussions, producing a bounded bullet summary.
func extractContext(msgs []model.Message) string {
	var points []string

	for _, msg := range msgs {
		content := strings.ToLower(msg.Content)

		if msg.Role == "user" && (strings.Contains(content, "upload") || strings.Contains(content, "data")) {
			points = append(points, "User uploaded/discussed data")
		}

		if msg.Role == "user" && (strings.Contains(content, "prefer") ||
			strings.Contains(content, "like") || strings.Contains(content, "want")) {
			snippet := msg.Content
			if len(snippet) > 100 {
				snippet = snippet[:100]
			}
			points = append(points, fmt.Sprintf("User stated: %s...", snippet))
		}

		for _, ct := range chartTypes {
			if strings.Contains(content, ct) {
				points = append(points, fmt.Sprintf("Discussed %s charts", ct))
				break
			}
		}
	}

	if len(points) == 0 {
		return "Earlier conversation trimmed (no specific context preserved)"
	}

	var unique []string
	seen := map[string]bool{}
	for _, p := range points {
		if seen[p] {
			continue
		}
		seen[p] = true
		unique = append(unique, p)
		if len(unique) == maxContextPoints {
			break
		}
	}

	return "Earlier in conversation: " + strings.Join(unique, "; ")
}

// EstimateTokens estimates the transcript's token count (4 chars ≈ 1 token).
func EstimateTokens(msgs []model.Message) int {
	total := 0
	for _, m := range msgs {
		total += len(m.Content)
	}
	return total / 4
}

// Stats describes a transcript.
type Stats struct {
	TotalMessages     int  `json:"total_messages"`
	UserMessages      int  `json:"user_messages"`
	AssistantMessages int  `json:"assistant_messages"`
	SystemMessages    int  `json:"system_messages"`
	EstimatedTokens   int  `json:"estimated_tokens"`
	NeedsTrimming     bool `json:"needs_trimming"`
}

// Describe reports transcript statistics.
func Describe(msgs []model.Message) Stats {
	st := Stats{
		TotalMessages:   len(msgs),
		EstimatedTokens: EstimateTokens(msgs),
		NeedsTrimming:   NeedsTrim(msgs, DefaultMaxUserTurns),
	}
	for _, m := range msgs {
		switch m.Role {
		case "user":
			st.UserMessages++
		case "assistant":
			st.AssistantMessages++
		case "system":
			st.SystemMessages++
		}
	}
	return st
}
