package discovery

import (
	"path/filepath"
	"strings"
)

// MaxPriorityFiles caps how many files the analysis pass will take on
const MaxPriorityFiles = 30

// Naming tokens that mark a file as UI-relevant
var uiIndicators = []string{
	"component", "button", "form", "page", "view",
	"modal", "dialog", "card", "panel", "input", "select",
}

// Entry-point markers for the second tier
var entryMarkers = []string{"index", "main", "app"}

// Prioritize orders discovered files into three strict tiers and caps the
// result at MaxPriorityFiles. Tier 1: UI-indicator names or components/pages
// directories. Tier 2: entry-point names. Tier 3: everything else in
// discovery order. A file lands in the first tier it matches and is never
// reconsidered.
func Prioritize(files []string) []string {
	var tier1, tier2, tier3 []string
	for _, f := range files {
		switch {
		case IsUIIndicator(f):
			tier1 = append(tier1, f)
		case isEntryPoint(f):
			tier2 = append(tier2, f)
		default:
			tier3 = append(tier3, f)
		}
	}

	ordered := make([]string, 0, len(files))
	ordered = append(ordered, tier1...)
	ordered = append(ordered, tier2...)
	ordered = append(ordered, tier3...)

	if len(ordered) > MaxPriorityFiles {
		ordered = ordered[:MaxPriorityFiles]
	}
	return ordered
}

// IsUIIndicator reports whether a path looks UI-relevant: its name carries
// one of the indicator tokens, or it lives under a components/ or pages/
// directory segment. The context extractor reuses this to classify files.
func IsUIIndicator(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, token := range uiIndicators {
		if strings.Contains(name, token) {
			return true
		}
	}
	lower := strings.ToLower(filepath.ToSlash(path))
	for _, segment := range strings.Split(lower, "/") {
		if segment == "components" || segment == "pages" {
			return true
		}
	}
	return false
}

func isEntryPoint(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, marker := range entryMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
