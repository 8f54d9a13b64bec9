// Package report renders scoring results as human-readable text lines.
package report

import (
	"fmt"
	"math"
	"strconv"

	"labscore/internal/scoring"
)

// Lines renders a lab result. Categories with a zero multiplier are hidden
// unless showAll is set. The returned lines carry no trailing newline.
func Lines(result *scoring.Result, showAll bool) []string {
	fmtNum := numberFormat(result)

	lines := []string{
		"Summary:",
		"Points: " + fmtNum(result.Earned()),
		"   Max: " + fmtNum(result.Max()),
		"Result: " + result.Percentage().String(),
	}

	shown := VisibleCategories(result, showAll)
	// A single visible category would repeat the summary above.
	withCategorySummary := len(shown) > 1

	for _, cat := range shown {
		lines = append(lines, "")
		header := cat.Category.Name + ":"
		if withCategorySummary {
			header += fmt.Sprintf(" %s out of %s (%s)", fmtNum(cat.Earned()), fmtNum(cat.Max()), cat.Percentage())
		}
		lines = append(lines, header)
		for _, r := range cat.Rules {
			lines = append(lines, fmt.Sprintf(" - %s: %s out of %s (%s)", r.Rule.Name, fmtNum(r.Earned()), fmtNum(r.Max()), r.Percentage()))
		}
	}
	return lines
}

// VisibleCategories returns the categories a report shows.
func VisibleCategories(result *scoring.Result, showAll bool) []scoring.CategoryResult {
	if showAll {
		return result.Categories
	}
	var out []scoring.CategoryResult
	for _, cat := range result.Categories {
		if !cat.Category.Hidden() {
			out = append(out, cat)
		}
	}
	return out
}

// numberFormat picks one format for the whole report: two decimals as soon
// as any rule earned a fractional amount, plain numbers otherwise.
func numberFormat(result *scoring.Result) func(float64) string {
	if HasFractionalPoints(result) {
		return func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	}
	return FormatPlain
}

// HasFractionalPoints reports whether any rule earned a non-integral amount.
func HasFractionalPoints(result *scoring.Result) bool {
	for _, cat := range result.Categories {
		for _, r := range cat.Rules {
			if e := r.Earned(); e != math.Trunc(e) {
				return true
			}
		}
	}
	return false
}

// FormatPlain prints integral values without a fractional part and other
// values in their shortest exact form.
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
