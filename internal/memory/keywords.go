package memory

import (
	"strings"

	"github.com/rcliao/agent-state/internal/model"
)

// standardKeywords is the fixed vocabulary used for keyword suggestion.
// Order matters: suggestions are returned in table order so the result is
// deterministic for a given text.
var standardKeywords = []string{
	// Chart types
	"chart_type", "line", "bar", "scatter", "pie", "histogram", "box", "violin",

	// Design elements
	"color", "layout", "design", "legend", "label", "title", "axis",

	// Preferences
	"preference", "style", "theme", "formatting",

	// Audience
	"audience", "executives", "technical", "general",

	// Domain
	"domain", "finance", "healthcare", "marketing", "sales", "hr",

	// Data
	"data_format", "csv", "excel", "database",

	// Complexity
	"complexity", "simple", "advanced", "detailed",
}

// SuggestKeywords proposes keywords for a note by scanning its text against
// the standard vocabulary. At most MaxKeywords are returned.
func SuggestKeywords(text string) []string {
	lower := strings.ToLower(text)
	var suggested []string
	for _, kw := range standardKeywords {
		if strings.Contains(lower, kw) {
			suggested = append(suggested, kw)
			if len(suggested) == model.MaxKeywords {
				break
			}
		}
	}
	return suggested
}
