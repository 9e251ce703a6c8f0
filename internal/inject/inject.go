// Package inject renders agent state into precedence-ordered context text.
//
// The rendering order is the precedence contract: profile frontmatter, then
// global memory, then session memory, then history. Later sections override
// earlier ones, and the latest explicit user statement always wins over any
// stored memory.
package inject

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/agent-state/internal/model"
)

// DefaultHistoryLimit is the number of history entries shown.
const DefaultHistoryLimit = 5

// Options selects which sections to render.
type Options struct {
	Frontmatter  bool
	GlobalNotes  bool
	SessionNotes bool
	History      bool
}

// AllSections enables every section.
func AllSections() Options {
	return Options{Frontmatter: true, GlobalNotes: true, SessionNotes: true, History: true}
}

type profileDoc struct {
	UserProfile userProfile `yaml:"user_profile"`
}

type userProfile struct {
	UserID              string   `yaml:"user_id"`
	PreferredChartTypes []string `yaml:"preferred_chart_types"`
	ColorScheme         string   `yaml:"color_scheme"`
	Audience            string   `yaml:"audience"`
	Domain              string   `yaml:"domain"`
	TechnicalLevel      string   `yaml:"technical_level"`
}

// renderFrontmatter renders the profile as a YAML frontmatter block.
func renderFrontmatter(state *model.AgentState) string {
	doc := profileDoc{UserProfile: userProfile{
		UserID:              state.UserID,
		PreferredChartTypes: state.Profile.PreferredChartTypes,
		ColorScheme:         state.Profile.ColorScheme,
		Audience:            state.Profile.Audience,
		Domain:              state.Profile.Domain,
		TechnicalLevel:      state.Profile.TechnicalLevel,
	}}
	b, _ := yaml.Marshal(doc)
	return fmt.Sprintf("---\n%s---\n", string(b))
}

// renderNotes renders notes as a titled Markdown bullet list.
func renderNotes(notes []model.MemoryNote, title string) string {
	if len(notes) == 0 {
		return ""
	}
	lines := []string{fmt.Sprintf("## %s\n", title)}
	for _, note := range notes {
		lines = append(lines, fmt.Sprintf("- %s (Updated: %s)", note.Text, note.LastUpdateDate))
	}
	return strings.Join(lines, "\n")
}

// renderHistory renders the most recent history entries.
func renderHistory(state *model.AgentState, limit int) string {
	if len(state.History) == 0 {
		return ""
	}
	recent := state.History
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}

	lines := []string{"## Recent Visualizations\n"}
	for _, h := range recent {
		status := "✓"
		if !h.Success {
			status = "✗"
		}
		summary := h.Summary
		if len(summary) > 60 {
			summary = summary[:60]
		}
		lines = append(lines, fmt.Sprintf("- %s %s: %s... (%s)",
			status, capitalize(h.ChartType), summary, h.Timestamp.Format(model.DateFormat)))
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Render produces the precedence-ordered context block for the selected
// sections, ending with the usage-guidance block when anything rendered.
func Render(state *model.AgentState, opts Options) string {
	var sections []string

	if opts.Frontmatter {
		sections = append(sections, renderFrontmatter(state))
	}
	if opts.GlobalNotes {
		if md := renderNotes(state.GlobalMemory.Notes, "Long-Term Preferences"); md != "" {
			sections = append(sections, md)
		}
	}
	if opts.SessionNotes {
		if md := renderNotes(state.SessionMemory.Notes, "Current Session Context"); md != "" {
			sections = append(sections, md)
		}
	}
	if opts.History {
		if md := renderHistory(state, DefaultHistoryLimit); md != "" {
			sections = append(sections, md)
		}
	}

	if len(sections) > 0 {
		sections = append(sections, usageGuidance)
	}

	return strings.Join(sections, "\n\n")
}

// Inject prepends the rendered context block to a base prompt. The base
// content always comes after the memory block, never interleaved.
func Inject(basePrompt string, state *model.AgentState, opts Options) string {
	rendered := Render(state, opts)
	if rendered == "" {
		return basePrompt
	}
	return rendered + "\n\n" + basePrompt
}

// ShouldReinject reports whether a reinjection artifact is pending.
func ShouldReinject(state *model.AgentState) bool {
	return state.ReinjectPending
}

// RenderReinjection produces a standalone artifact re-presenting session
// notes after a trim, and clears the pending flag. The flag is consumed
// exactly once.
func RenderReinjection(state *model.AgentState) string {
	sessionMD := renderNotes(state.SessionMemory.Notes, "Session Context (Reinjected)")
	state.ReinjectPending = false

	return fmt.Sprintf(`# Context Reinjection

The conversation was trimmed to manage context length. Here are the key points from earlier in this session:

%s

Continue the conversation with this context in mind.`, sessionMD)
}

const usageGuidance = `## Using Memories

1. Check the user_profile frontmatter first; those are trusted facts.
2. Apply Long-Term Preferences established across past sessions.
3. Current Session Context takes precedence over long-term preferences.
4. When preferences conflict: the latest explicit user statement wins;
   session context > global memory > profile defaults.
5. Capture a new memory when the user states a preference, corrects
   something, or provides durable context.`
