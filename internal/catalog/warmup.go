package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/claude/pushpull/internal/models"
)

// WarmupStep is one entry of a warm-up scheme: a percentage of the working
// weight and a rep prescription.
type WarmupStep struct {
	Percentage float64
	Reps       string
}

// WarmupSet is a computed warm-up set.
type WarmupSet struct {
	Weight float64 `json:"weight"`
	Reps   string  `json:"reps"`
}

// WarmupSchemes maps each category to its warm-up progression.
var WarmupSchemes = map[models.Category][]WarmupStep{
	models.Primary: {
		{Percentage: 40, Reps: "8"},
		{Percentage: 60, Reps: "5"},
		{Percentage: 80, Reps: "2-3"},
	},
	models.Secondary: {
		{Percentage: 50, Reps: "5"},
		{Percentage: 75, Reps: "3"},
	},
	models.Isolation: {
		{Percentage: 50, Reps: "10-12"},
	},
}

// RoundToNearest5 rounds w to the nearest multiple of 5, halves rounding up,
// and never returns a negative weight.
func RoundToNearest5(w float64) float64 {
	r := math.Floor(w/5+0.5) * 5
	if r < 0 {
		return 0
	}
	return r
}

// CalculateWarmupWeights computes the warm-up sets for a working weight.
// Returns nil when there is no usable working weight, which means warm-up is
// skipped.
func CalculateWarmupWeights(workingWeight float64, category models.Category) []WarmupSet {
	if workingWeight <= 0 {
		return nil
	}
	scheme := WarmupSchemes[category]
	sets := make([]WarmupSet, 0, len(scheme))
	for _, s := range scheme {
		sets = append(sets, WarmupSet{
			Weight: RoundToNearest5(workingWeight * s.Percentage / 100),
			Reps:   s.Reps,
		})
	}
	return sets
}

// String renders a warm-up set as "75 lbs × 8".
func (w WarmupSet) String(unit string) string {
	return fmt.Sprintf("%s %s × %s", formatWeight(w.Weight), unit, w.Reps)
}

// FormatWarmupDisplay renders the whole warm-up as a comma-separated line.
func FormatWarmupDisplay(workingWeight float64, category models.Category, unit string) string {
	sets := CalculateWarmupWeights(workingWeight, category)
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = s.String(unit)
	}
	return strings.Join(parts, ", ")
}

func formatWeight(w float64) string {
	if w == math.Trunc(w) {
		return fmt.Sprintf("%.0f", w)
	}
	return fmt.Sprintf("%g", w)
}
