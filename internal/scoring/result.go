package scoring

import (
	"encoding/json"
	"fmt"

	"labscore/internal/grading"
	"labscore/internal/outcome"
)

// Percentage is earned/max × 100, or not applicable when max is zero.
type Percentage struct {
	value float64
	ok    bool
}

func percentage(earned, max float64) Percentage {
	if max == 0 {
		return Percentage{}
	}
	return Percentage{value: earned / max * 100, ok: true}
}

// Value returns the percentage and whether it is defined.
func (p Percentage) Value() (float64, bool) { return p.value, p.ok }

// Defined reports whether the maximum was non-zero.
func (p Percentage) Defined() bool { return p.ok }

// String renders "12.34%" or "N/A".
func (p Percentage) String() string {
	if !p.ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", p.value)
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.ok {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// RuleResult is a rule together with the records it matched in one run.
// Score only builds results with at least one record; Earned, Max and
// Percentage panic on a result without records.
type RuleResult struct {
	Rule grading.Rule
	// Multiplier is the owning category's multiplier.
	Multiplier float64
	Records    []outcome.Record
}

// Weight is the rule's points scaled by its category multiplier.
func (r RuleResult) Weight() float64 { return r.Rule.Points * r.Multiplier }

func (r RuleResult) Total() int { return len(r.Records) }

func (r RuleResult) Passed() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Passed {
			n++
		}
	}
	return n
}

func (r RuleResult) Failed() int { return r.Total() - r.Passed() }

// Points returns the earned and maximum points of the rule.
func (r RuleResult) Points() (earned, max float64, err error) {
	return Points(r.Rule.Strategy, r.Weight(), r.Total(), r.Passed())
}

func (r RuleResult) Earned() float64 {
	earned, _ := r.mustPoints()
	return earned
}

func (r RuleResult) Max() float64 {
	_, max := r.mustPoints()
	return max
}

func (r RuleResult) Percentage() Percentage {
	earned, max := r.mustPoints()
	return percentage(earned, max)
}

func (r RuleResult) mustPoints() (float64, float64) {
	earned, max, err := r.Points()
	if err != nil {
		panic(fmt.Sprintf("scoring: rule %q: %v", r.Rule.Name, err))
	}
	return earned, max
}

// CategoryResult holds the rule results of one category.
type CategoryResult struct {
	Category grading.Category
	Rules    []RuleResult
}

func (c CategoryResult) Total() int {
	n := 0
	for _, r := range c.Rules {
		n += r.Total()
	}
	return n
}

func (c CategoryResult) Passed() int {
	n := 0
	for _, r := range c.Rules {
		n += r.Passed()
	}
	return n
}

func (c CategoryResult) Failed() int {
	n := 0
	for _, r := range c.Rules {
		n += r.Failed()
	}
	return n
}

func (c CategoryResult) Earned() float64 {
	var sum float64
	for _, r := range c.Rules {
		sum += r.Earned()
	}
	return sum
}

func (c CategoryResult) Max() float64 {
	var sum float64
	for _, r := range c.Rules {
		sum += r.Max()
	}
	return sum
}

func (c CategoryResult) Percentage() Percentage {
	return percentage(c.Earned(), c.Max())
}

// Result is the score of a whole lab.
type Result struct {
	Categories []CategoryResult
}

func (s *Result) Total() int {
	n := 0
	for _, c := range s.Categories {
		n += c.Total()
	}
	return n
}

func (s *Result) Passed() int {
	n := 0
	for _, c := range s.Categories {
		n += c.Passed()
	}
	return n
}

func (s *Result) Failed() int {
	n := 0
	for _, c := range s.Categories {
		n += c.Failed()
	}
	return n
}

func (s *Result) Earned() float64 {
	var sum float64
	for _, c := range s.Categories {
		sum += c.Earned()
	}
	return sum
}

func (s *Result) Max() float64 {
	var sum float64
	for _, c := range s.Categories {
		sum += c.Max()
	}
	return sum
}

func (s *Result) Percentage() Percentage {
	return percentage(s.Earned(), s.Max())
}
