package consolidate

import (
	"testing"
	"time"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/rcliao/agent-state/internal/model"
)

func note(text, date string, keywords ...string) model.MemoryNote {
	return model.MemoryNote{Text: text, LastUpdateDate: date, Keywords: keywords}
}

func TestSimilarityIdentical(t *testing.T) {
	a := note("User prefers bar charts", "2026-01-01", "chart_type", "bar")
	if got := Similarity(a, a); got != 1.0 {
		t.Errorf("expected 1.0 for identical notes, got %f", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := note("User prefers bar charts", "2026-01-01", "chart_type", "bar")
	b := note("User likes bar charts for comparisons", "2026-01-02", "chart_type", "bar")
	if Similarity(a, b) != Similarity(b, a) {
		t.Error("expected similarity to be symmetric")
	}
}

func TestSimilarityEmptyComponents(t *testing.T) {
	a := note("same words here", "2026-01-01")
	b := note("same words here", "2026-01-02", "kw")
	// Keyword component is zero when either side has no keywords; the text
	// component still contributes.
	if got := Similarity(a, b); got != 0.4 {
		t.Errorf("expected 0.4 (text component only), got %f", got)
	}

	c := note("", "2026-01-01", "kw")
	d := note("", "2026-01-02", "kw")
	if got := Similarity(c, d); got != 0.6 {
		t.Errorf("expected 0.6 (keyword component only), got %f", got)
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	a := note("alpha beta", "2026-01-01", "x")
	b := note("gamma delta", "2026-01-02", "y")
	if got := Similarity(a, b); got != 0 {
		t.Errorf("expected 0 for disjoint notes, got %f", got)
	}
}

func TestDeduplicateNeverGrows(t *testing.T) {
	lists := [][]model.MemoryNote{
		nil,
		{note("one", "2026-01-01", "a")},
		{
			note("User prefers bar charts", "2026-01-01", "chart_type", "bar"),
			note("User prefers bar charts", "2026-01-02", "chart_type", "bar"),
			note("unrelated fact entirely", "2026-01-03", "domain"),
		},
	}
	for i, notes := range lists {
		if got := Deduplicate(notes, DefaultThreshold); len(got) > len(notes) {
			t.Errorf("case %d: dedup grew the list: %d > %d", i, len(got), len(notes))
		}
	}
}

func TestDeduplicateMergesKeywords(t *testing.T) {
	notes := []model.MemoryNote{
		note("User prefers bar charts", "2026-01-01", "chart_type", "bar"),
		note("User prefers bar charts", "2026-01-03", "bar", "comparison"),
	}

	result := Deduplicate(notes, DefaultThreshold)
	if len(result) != 1 {
		t.Fatalf("expected 1 merged note, got %d", len(result))
	}
	merged := result[0]
	if merged.LastUpdateDate != "2026-01-03" {
		t.Errorf("expected most recent date, got %q", merged.LastUpdateDate)
	}
	want := []string{"chart_type", "bar", "comparison"}
	if len(merged.Keywords) != len(want) {
		t.Fatalf("expected keywords %v, got %v", want, merged.Keywords)
	}
	for i := range want {
		if merged.Keywords[i] != want[i] {
			t.Errorf("keyword %d: expected %q, got %q", i, want[i], merged.Keywords[i])
		}
	}
}

func TestConsolidateScenario(t *testing.T) {
	state := model.DefaultState("u")
	for _, text := range []string{
		"User prefers bar charts",
		"User likes bar charts for comparisons",
		"User prefers bar chart visualizations",
	} {
		memory.AddNote(state, text, []string{"chart_type", "bar"}, memory.ScopeSession)
	}

	stats := ConsolidateSession(state)

	if stats.AfterCount != 1 {
		t.Errorf("expected after_count 1, got %d", stats.AfterCount)
	}
	if stats.BeforeCount != 3 || stats.SessionNotesAdded != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(state.GlobalMemory.Notes) != 1 {
		t.Fatalf("expected 1 global note, got %d", len(state.GlobalMemory.Notes))
	}
	kw := state.GlobalMemory.Notes[0].Keywords
	if len(kw) != 2 || kw[0] != "chart_type" || kw[1] != "bar" {
		t.Errorf("expected keywords [chart_type bar], got %v", kw)
	}
}

func TestConsolidateClearsSession(t *testing.T) {
	state := model.DefaultState("u")
	memory.AddNote(state, "anything at all", []string{"x"}, memory.ScopeSession)

	ConsolidateSession(state)
	if len(state.SessionMemory.Notes) != 0 {
		t.Errorf("expected empty session memory, got %d notes", len(state.SessionMemory.Notes))
	}

	// Unconditional: consolidating an empty session also leaves it empty.
	ConsolidateSession(state)
	if len(state.SessionMemory.Notes) != 0 {
		t.Error("expected session memory to stay empty")
	}
}

func TestAssessQuality(t *testing.T) {
	today := time.Now().UTC().Format(model.DateFormat)

	good := note("User prefers bar charts for chart_type decisions", today, "chart_type", "bar")
	q := AssessQuality(good)
	if !q.IsQuality || q.Score < QualityThreshold {
		t.Errorf("expected quality note, got %+v", q)
	}

	bad := note("short", "garbage")
	q = AssessQuality(bad)
	// no keywords (-0.3), too short (-0.3), invalid date (-0.1)
	if q.IsQuality {
		t.Errorf("expected low-quality note, got %+v", q)
	}
	if len(q.Issues) != 3 {
		t.Errorf("expected 3 issues, got %v", q.Issues)
	}
}

func TestAssessQualityOldNote(t *testing.T) {
	old := time.Now().UTC().AddDate(-2, 0, 0).Format(model.DateFormat)
	q := AssessQuality(note("User prefers bar charts", old, "bar"))
	found := false
	for _, issue := range q.Issues {
		if issue == "memory is old (>1 year)" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected age issue, got %v", q.Issues)
	}
}

func TestAssessQualityKeywordMismatch(t *testing.T) {
	today := time.Now().UTC().Format(model.DateFormat)
	q := AssessQuality(note("completely unrelated sentence", today, "finance", "hr"))
	found := false
	for _, issue := range q.Issues {
		if issue == "keywords not well matched to text" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected mismatch issue, got %v", q.Issues)
	}
}

func TestFilterLowQuality(t *testing.T) {
	today := time.Now().UTC().Format(model.DateFormat)
	notes := []model.MemoryNote{
		note("User prefers bar charts", today, "bar"),
		note("x", "garbage"),
	}
	kept := FilterLowQuality(notes, DefaultMinScore)
	if len(kept) != 1 || kept[0].Text != "User prefers bar charts" {
		t.Errorf("expected only the quality note, got %v", kept)
	}
}

func TestCleanupOld(t *testing.T) {
	state := model.DefaultState("u")
	today := time.Now().UTC().Format(model.DateFormat)
	stale := time.Now().UTC().AddDate(-2, 0, 0).Format(model.DateFormat)

	state.GlobalMemory.Notes = []model.MemoryNote{
		note("fresh", today, "a"),
		note("stale", stale, "b"),
		note("undated", "garbage", "c"),
	}

	stats := CleanupOld(state, 365, 50)
	if stats.AfterCount != 2 {
		t.Errorf("expected 2 survivors (fresh + undated), got %d", stats.AfterCount)
	}
	for _, n := range state.GlobalMemory.Notes {
		if n.Text == "stale" {
			t.Error("expected stale note removed")
		}
	}
}

func TestCleanupOldCapsCount(t *testing.T) {
	state := model.DefaultState("u")
	for i := 0; i < 10; i++ {
		d := time.Now().UTC().AddDate(0, 0, -i).Format(model.DateFormat)
		state.GlobalMemory.Notes = append(state.GlobalMemory.Notes, note("n", d, "k"))
	}

	stats := CleanupOld(state, 365, 4)
	if stats.AfterCount != 4 {
		t.Errorf("expected cap at 4, got %d", stats.AfterCount)
	}
	// Most recent survive.
	if state.GlobalMemory.Notes[0].LastUpdateDate != time.Now().UTC().Format(model.DateFormat) {
		t.Errorf("expected most recent note first, got %q", state.GlobalMemory.Notes[0].LastUpdateDate)
	}
}

func TestOptimize(t *testing.T) {
	state := model.DefaultState("u")
	today := time.Now().UTC().Format(model.DateFormat)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(model.DateFormat)

	state.GlobalMemory.Notes = []model.MemoryNote{
		note("User prefers bar charts", yesterday, "chart_type", "bar"),
		note("User prefers bar charts", today, "chart_type", "bar"),
		note("x", "garbage"),
		note("User works in the finance domain", today, "domain", "finance"),
	}

	stats := Optimize(state)

	if stats.BeforeCount != 4 {
		t.Errorf("expected before_count 4, got %d", stats.BeforeCount)
	}
	if stats.AfterDeduplication != 3 {
		t.Errorf("expected 3 after dedup, got %d", stats.AfterDeduplication)
	}
	if stats.FinalCount != 2 {
		t.Errorf("expected 2 final notes, got %d", stats.FinalCount)
	}
	// Sorted most-recent-first.
	for i := 1; i < len(state.GlobalMemory.Notes); i++ {
		if state.GlobalMemory.Notes[i-1].LastUpdateDate < state.GlobalMemory.Notes[i].LastUpdateDate {
			t.Error("expected notes sorted most-recent-first")
		}
	}
}
