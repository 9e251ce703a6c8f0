package memory

import (
	"strings"
	"testing"
	"time"

	"github.com/rcliao/agent-state/internal/model"
)

func TestAddNote(t *testing.T) {
	state := model.DefaultState("u")

	note := AddNote(state, "  User prefers bar charts  ", []string{"Chart_Type", "BAR", "bar"}, ScopeSession)

	if note.Text != "User prefers bar charts" {
		t.Errorf("expected trimmed text, got %q", note.Text)
	}
	if len(note.Keywords) != 2 || note.Keywords[0] != "chart_type" || note.Keywords[1] != "bar" {
		t.Errorf("expected normalized keywords [chart_type bar], got %v", note.Keywords)
	}
	if note.LastUpdateDate != time.Now().UTC().Format(model.DateFormat) {
		t.Errorf("expected today's date, got %q", note.LastUpdateDate)
	}
	if len(state.SessionMemory.Notes) != 1 {
		t.Fatalf("expected 1 session note, got %d", len(state.SessionMemory.Notes))
	}
	if len(state.GlobalMemory.Notes) != 0 {
		t.Errorf("expected global memory untouched, got %d notes", len(state.GlobalMemory.Notes))
	}
}

func TestAddNoteKeywordCap(t *testing.T) {
	state := model.DefaultState("u")
	note := AddNote(state, "text", []string{"a", "b", "c", "d", "e", "f", "g"}, ScopeGlobal)
	if len(note.Keywords) > model.MaxKeywords {
		t.Errorf("expected at most %d keywords, got %d", model.MaxKeywords, len(note.Keywords))
	}
	if len(state.GlobalMemory.Notes) != 1 {
		t.Errorf("expected 1 global note, got %d", len(state.GlobalMemory.Notes))
	}
}

func TestSearchOrdering(t *testing.T) {
	state := model.DefaultState("u")
	AddNote(state, "global note", []string{"color"}, ScopeGlobal)
	AddNote(state, "session note", []string{"color"}, ScopeSession)

	results := Search(state, SearchParams{Keywords: []string{"COLOR "}, IncludeSession: true, IncludeGlobal: true})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Global matches come first so the tail is the most current.
	if results[0].Text != "global note" || results[1].Text != "session note" {
		t.Errorf("expected global before session, got %q then %q", results[0].Text, results[1].Text)
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	state := model.DefaultState("u")
	AddNote(state, "one", []string{"a"}, ScopeGlobal)
	AddNote(state, "two", []string{"b"}, ScopeSession)

	all := Search(state, SearchParams{IncludeSession: true, IncludeGlobal: true})
	if len(all) != 2 {
		t.Errorf("expected 2, got %d", len(all))
	}

	globalOnly := Search(state, SearchParams{IncludeGlobal: true})
	if len(globalOnly) != 1 || globalOnly[0].Text != "one" {
		t.Errorf("expected only the global note, got %v", globalOnly)
	}
}

func TestSearchNoMatch(t *testing.T) {
	state := model.DefaultState("u")
	AddNote(state, "one", []string{"a"}, ScopeGlobal)

	results := Search(state, SearchParams{Keywords: []string{"z"}, IncludeSession: true, IncludeGlobal: true})
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestUpdateProfile(t *testing.T) {
	state := model.DefaultState("u")

	if !UpdateProfile(state, "audience", "executives") {
		t.Error("expected audience update to succeed")
	}
	if state.Profile.Audience != "executives" {
		t.Errorf("expected audience executives, got %q", state.Profile.Audience)
	}

	before := state.Profile
	if UpdateProfile(state, "not_a_field", 1) {
		t.Error("expected unknown field to be rejected")
	}
	if state.Profile.Audience != before.Audience || state.Profile.ColorScheme != before.ColorScheme {
		t.Error("expected profile untouched after rejection")
	}
}

func TestUpdateProfileInvalidEnum(t *testing.T) {
	state := model.DefaultState("u")
	if UpdateProfile(state, "color_scheme", "neon") {
		t.Error("expected invalid enum value to be rejected")
	}
	if UpdateProfile(state, "audience", 42) {
		t.Error("expected wrong value type to be rejected")
	}
	if !UpdateProfile(state, "color_scheme", "colorblind") {
		t.Error("expected valid enum value to succeed")
	}
}

func TestUpdateProfileChartTypes(t *testing.T) {
	state := model.DefaultState("u")
	if !UpdateProfile(state, "preferred_chart_types", []string{"bar", "line"}) {
		t.Error("expected chart types update to succeed")
	}
	if len(state.Profile.PreferredChartTypes) != 2 {
		t.Errorf("expected 2 chart types, got %v", state.Profile.PreferredChartTypes)
	}
	if !UpdateProfile(state, "domain", "finance") {
		t.Error("expected domain update to succeed")
	}
}

func TestAppendHistoryBound(t *testing.T) {
	state := model.DefaultState("u")

	for i := 0; i < 60; i++ {
		AppendHistory(state, model.HistoryEntry{
			Timestamp: time.Now().UTC(),
			ChartType: "bar",
			Summary:   strings.Repeat("x", i+1),
		})
		if len(state.History) > model.MaxHistory {
			t.Fatalf("history exceeded cap: %d", len(state.History))
		}
	}

	if len(state.History) != model.MaxHistory {
		t.Fatalf("expected %d entries, got %d", model.MaxHistory, len(state.History))
	}
	// Survivors are exactly the most recent 50: entries 11..60.
	if len(state.History[0].Summary) != 11 {
		t.Errorf("expected oldest survivor to be entry 11, got summary length %d", len(state.History[0].Summary))
	}
	if len(state.History[49].Summary) != 60 {
		t.Errorf("expected newest survivor to be entry 60, got summary length %d", len(state.History[49].Summary))
	}
}

func TestNewHistoryEntryTruncatesPreview(t *testing.T) {
	entry := NewHistoryEntry("bar", "summary", strings.Repeat("c", 500), true)
	if len(entry.CodePreview) != model.MaxCodePreview {
		t.Errorf("expected preview truncated to %d, got %d", model.MaxCodePreview, len(entry.CodePreview))
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestSuggestKeywords(t *testing.T) {
	got := SuggestKeywords("User prefers bar charts with a professional color theme")
	want := map[string]bool{"bar": true, "color": true, "theme": true}
	for _, kw := range got {
		delete(want, kw)
	}
	if len(want) != 0 {
		t.Errorf("missing expected keywords %v in %v", want, got)
	}
	if len(got) > model.MaxKeywords {
		t.Errorf("expected at most %d suggestions, got %d", model.MaxKeywords, len(got))
	}
}

func TestSummarize(t *testing.T) {
	state := model.DefaultState("u")
	AddNote(state, "one", []string{"a"}, ScopeGlobal)
	AddNote(state, "two", []string{"b"}, ScopeSession)
	for i := 0; i < 5; i++ {
		AppendHistory(state, model.HistoryEntry{ChartType: "bar"})
	}

	sum := Summarize(state)
	if sum.GlobalCount != 1 || sum.SessionCount != 1 || sum.HistoryCount != 5 {
		t.Errorf("unexpected summary counts: %+v", sum)
	}
	if len(sum.RecentHistory) != 3 {
		t.Errorf("expected 3 recent entries, got %d", len(sum.RecentHistory))
	}
}
