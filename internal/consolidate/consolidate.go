// Package consolidate deduplicates and merges memory notes.
//
// Similarity is a lexical heuristic (keyword and word-set overlap), never
// embedding-based: swapping in a semantic measure changes deduplication
// behavior and is a deliberate non-goal.
package consolidate

import (
	"sort"
	"strings"

	"github.com/rcliao/agent-state/internal/model"
)

// DefaultThreshold is the similarity score at which two notes are
// considered duplicates.
const DefaultThreshold = 0.6

// Similarity scores two notes in [0,1] as a weighted sum of keyword-set
// Jaccard overlap (0.6) and text word-set Jaccard overlap (0.4). An empty
// side contributes zero to its component. Pure, symmetric, deterministic.
func Similarity(a, b model.MemoryNote) float64 {
	kw := jaccard(toSet(a.Keywords), toSet(b.Keywords))
	words := jaccard(
		toSet(strings.Fields(strings.ToLower(a.Text))),
		toSet(strings.Fields(strings.ToLower(b.Text))),
	)
	return 0.6*kw + 0.4*words
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	overlap := 0
	for k := range a {
		if b[k] {
			overlap++
		}
	}
	union := len(a) + len(b) - overlap
	if union == 0 {
		return 0
	}
	return float64(overlap) / float64(union)
}

// AreSimilar reports whether two notes meet the duplicate threshold.
func AreSimilar(a, b model.MemoryNote, threshold float64) bool {
	return Similarity(a, b) >= threshold
}

// Deduplicate merges similar notes in a single date-ascending pass. Each
// not-yet-merged note seeds a cluster of all later similar notes; clustering
// is greedy against the seed only, not transitive. The result never grows.
func Deduplicate(notes []model.MemoryNote, threshold float64) []model.MemoryNote {
	if len(notes) == 0 {
		return []model.MemoryNote{}
	}

	sorted := make([]model.MemoryNote, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUpdateDate < sorted[j].LastUpdateDate
	})

	merged := make([]bool, len(sorted))
	result := []model.MemoryNote{}

	for i, note := range sorted {
		if merged[i] {
			continue
		}
		cluster := []model.MemoryNote{note}
		for j := i + 1; j < len(sorted); j++ {
			if merged[j] {
				continue
			}
			if AreSimilar(note, sorted[j], threshold) {
				cluster = append(cluster, sorted[j])
				merged[j] = true
			}
		}
		if len(cluster) > 1 {
			result = append(result, mergeNotes(cluster))
		} else {
			result = append(result, note)
		}
	}

	return result
}

// mergeNotes collapses a cluster into one note: the most recent member's
// text and date, keywords unioned in first-seen order, capped.
func mergeNotes(cluster []model.MemoryNote) model.MemoryNote {
	sorted := make([]model.MemoryNote, len(cluster))
	copy(sorted, cluster)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUpdateDate < sorted[j].LastUpdateDate
	})

	mostRecent := sorted[len(sorted)-1]

	var allKeywords []string
	for _, n := range sorted {
		allKeywords = append(allKeywords, n.Keywords...)
	}

	return model.MemoryNote{
		Text:           mostRecent.Text,
		LastUpdateDate: mostRecent.LastUpdateDate,
		Keywords:       model.NormalizeKeywords(allKeywords),
	}
}

// Stats describes one consolidation run.
type Stats struct {
	BeforeCount       int `json:"before_count"`
	AfterCount        int `json:"after_count"`
	MergedCount       int `json:"merged_count"`
	SessionNotesAdded int `json:"session_notes_added"`
}

// ConsolidateSession merges session memory into global memory with
// deduplication and clears session memory. This is the only operation that
// transfers session notes into the global scope; session notes are always
// empty when it returns.
func ConsolidateSession(state *model.AgentState) Stats {
	sessionCount := len(state.SessionMemory.Notes)
	beforeCount := len(state.GlobalMemory.Notes) + sessionCount

	combined := append([]model.MemoryNote{}, state.GlobalMemory.Notes...)
	combined = append(combined, state.SessionMemory.Notes...)

	deduped := Deduplicate(combined, DefaultThreshold)

	state.GlobalMemory.Notes = deduped
	state.SessionMemory = model.Memory{Notes: []model.MemoryNote{}}

	return Stats{
		BeforeCount:       beforeCount,
		AfterCount:        len(deduped),
		MergedCount:       beforeCount - len(deduped),
		SessionNotesAdded: sessionCount,
	}
}
