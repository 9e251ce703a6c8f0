package consolidate

import (
	"sort"
	"strings"
	"time"

	"github.com/rcliao/agent-state/internal/model"
)

// QualityThreshold is the score at or above which a note counts as quality.
const QualityThreshold = 0.7

// DefaultMinScore is the default floor for FilterLowQuality.
const DefaultMinScore = 0.5

// Quality is the assessment of a single note.
type Quality struct {
	Score     float64  `json:"score"`
	Issues    []string `json:"issues"`
	IsQuality bool     `json:"is_quality"`
}

// AssessQuality scores a note, penalizing missing keywords, extreme text
// lengths, stale dates, and keywords that do not appear in the text. An
// unparseable date is an issue but never fatal.
func AssessQuality(note model.MemoryNote) Quality {
	issues := []string{}
	score := 1.0

	if len(note.Keywords) == 0 {
		issues = append(issues, "no keywords")
		score -= 0.3
	}

	switch textLen := len(note.Text); {
	case textLen < 10:
		issues = append(issues, "text too short")
		score -= 0.3
	case textLen > 500:
		issues = append(issues, "text too long")
		score -= 0.2
	}

	if date, ok := note.Date(); ok {
		if time.Now().UTC().Sub(date) > 365*24*time.Hour {
			issues = append(issues, "memory is old (>1 year)")
			score -= 0.1
		}
	} else {
		issues = append(issues, "invalid date format")
		score -= 0.1
	}

	if len(note.Keywords) > 0 {
		textLower := strings.ToLower(note.Text)
		relevant := 0
		for _, kw := range note.Keywords {
			if strings.Contains(textLower, kw) {
				relevant++
			}
		}
		if float64(relevant)/float64(len(note.Keywords)) < 0.5 {
			issues = append(issues, "keywords not well matched to text")
			score -= 0.2
		}
	}

	if score < 0 {
		score = 0
	}

	return Quality{Score: score, Issues: issues, IsQuality: score >= QualityThreshold}
}

// FilterLowQuality drops notes scoring below minScore.
func FilterLowQuality(notes []model.MemoryNote, minScore float64) []model.MemoryNote {
	kept := []model.MemoryNote{}
	for _, note := range notes {
		if AssessQuality(note).Score >= minScore {
			kept = append(kept, note)
		}
	}
	return kept
}

// CleanupStats describes a cleanup pass.
type CleanupStats struct {
	BeforeCount  int `json:"before_count"`
	AfterCount   int `json:"after_count"`
	RemovedCount int `json:"removed_count"`
}

// CleanupOld removes global notes older than maxAgeDays, then caps the
// remainder at maxCount keeping the most recent. Notes with unparseable
// dates survive the age filter.
func CleanupOld(state *model.AgentState, maxAgeDays, maxCount int) CleanupStats {
	before := len(state.GlobalMemory.Notes)
	state.GlobalMemory.Notes = pruneByAgeAndCount(state.GlobalMemory.Notes, maxAgeDays, maxCount)
	return CleanupStats{
		BeforeCount:  before,
		AfterCount:   len(state.GlobalMemory.Notes),
		RemovedCount: before - len(state.GlobalMemory.Notes),
	}
}

func pruneByAgeAndCount(notes []model.MemoryNote, maxAgeDays, maxCount int) []model.MemoryNote {
	now := time.Now().UTC()
	recent := []model.MemoryNote{}
	for _, note := range notes {
		if date, ok := note.Date(); ok {
			if now.Sub(date) > time.Duration(maxAgeDays)*24*time.Hour {
				continue
			}
		}
		recent = append(recent, note)
	}

	if len(recent) > maxCount {
		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].LastUpdateDate > recent[j].LastUpdateDate
		})
		recent = recent[:maxCount]
	}
	return recent
}

// OptimizeStats describes a full optimization pass.
type OptimizeStats struct {
	BeforeCount        int `json:"before_count"`
	AfterDeduplication int `json:"after_deduplication"`
	AfterQualityFilter int `json:"after_quality_filter"`
	FinalCount         int `json:"final_count"`
	RemovedTotal       int `json:"removed_total"`
}

// Optimize runs the complete maintenance pass over global memory:
// deduplicate, drop low-quality notes, prune by age and count, then sort
// most-recent-first.
func Optimize(state *model.AgentState) OptimizeStats {
	notes := state.GlobalMemory.Notes
	before := len(notes)

	notes = Deduplicate(notes, DefaultThreshold)
	afterDedup := len(notes)

	notes = FilterLowQuality(notes, DefaultMinScore)
	afterQuality := len(notes)

	notes = pruneByAgeAndCount(notes, 365, 50)

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].LastUpdateDate > notes[j].LastUpdateDate
	})

	state.GlobalMemory.Notes = notes

	return OptimizeStats{
		BeforeCount:        before,
		AfterDeduplication: afterDedup,
		AfterQualityFilter: afterQuality,
		FinalCount:         len(notes),
		RemovedTotal:       before - len(notes),
	}
}
