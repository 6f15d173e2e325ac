package mls

import (
	"fmt"
	"regexp"
	"strings"
)

// interiorFeaturePattern matches interior-feature strings worth surfacing
// as highlights.
var interiorFeaturePattern = regexp.MustCompile(`(?i)fireplace|hardwood|granite|stainless|updated|renovated|open.*floor`)

// highlightFacts are the provider-independent signals the highlight
// heuristic reads. Each adapter extracts them from its upstream schema.
type highlightFacts struct {
	YearBuilt        int
	GarageSpaces     int
	HasPool          bool
	Stories          int
	View             string
	LotSizeAcres     float64
	InteriorFeatures []string
}

// buildHighlights derives listing highlights in fixed priority order:
// year built, garage, pool, multi-story, view, large lot, then up to three
// matching interior features. The result is capped at six entries.
func buildHighlights(f highlightFacts) []string {
	var highlights []string

	if f.YearBuilt > 0 {
		highlights = append(highlights, fmt.Sprintf("Built in %d", f.YearBuilt))
	}
	if f.GarageSpaces > 0 {
		highlights = append(highlights, fmt.Sprintf("%d-Car Garage", f.GarageSpaces))
	}
	if f.HasPool {
		highlights = append(highlights, "Swimming Pool")
	}
	if f.Stories > 1 {
		highlights = append(highlights, "Multi-Level")
	}
	if view := strings.TrimSpace(f.View); view != "" {
		highlights = append(highlights, fmt.Sprintf("%s View", view))
	}
	if f.LotSizeAcres > 0.5 {
		highlights = append(highlights, fmt.Sprintf("%.2f Acre Lot", f.LotSizeAcres))
	}

	matched := 0
	for _, feature := range f.InteriorFeatures {
		feature = strings.TrimSpace(feature)
		if feature == "" || !interiorFeaturePattern.MatchString(feature) {
			continue
		}
		highlights = append(highlights, feature)
		matched++
		if matched == 3 {
			break
		}
	}

	if len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}

	return highlights
}
