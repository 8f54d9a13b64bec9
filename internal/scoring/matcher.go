package scoring

import (
	"labscore/internal/grading"
	"labscore/internal/outcome"
)

// Matching is the association between the records of one run and the rules
// of a configuration. Records are identified by their index in the input.
type Matching struct {
	cfg     *grading.Configuration
	records []outcome.Record
	rules   []grading.RuleRef

	recordRules [][]grading.RuleRef
	ruleRecords map[grading.RuleRef][]int
}

// Match associates every record with every rule whose pattern matches its
// description. A record may match several rules; that is reported by
// Ambiguous rather than resolved here.
func Match(cfg *grading.Configuration, records []outcome.Record) *Matching {
	m := &Matching{
		cfg:         cfg,
		records:     records,
		rules:       cfg.Rules(),
		recordRules: make([][]grading.RuleRef, len(records)),
		ruleRecords: make(map[grading.RuleRef][]int),
	}
	for _, ref := range m.rules {
		rule := cfg.Rule(ref)
		m.ruleRecords[ref] = nil
		for i, rec := range records {
			if rule.Matches(rec.Description) {
				m.recordRules[i] = append(m.recordRules[i], ref)
				m.ruleRecords[ref] = append(m.ruleRecords[ref], i)
			}
		}
	}
	return m
}

func (m *Matching) Record(i int) outcome.Record { return m.records[i] }

// RulesFor returns the rules matching record i, in configuration order.
func (m *Matching) RulesFor(i int) []grading.RuleRef { return m.recordRules[i] }

// RecordsFor returns the indices of the records matched by a rule, in input order.
func (m *Matching) RecordsFor(ref grading.RuleRef) []int { return m.ruleRecords[ref] }

// Ambiguous returns the records matched by more than one rule.
func (m *Matching) Ambiguous() []int {
	var out []int
	for i, refs := range m.recordRules {
		if len(refs) > 1 {
			out = append(out, i)
		}
	}
	return out
}

// Unmatched returns the records no rule matched.
func (m *Matching) Unmatched() []int {
	var out []int
	for i, refs := range m.recordRules {
		if len(refs) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Unused returns the rules that matched no record, in configuration order.
func (m *Matching) Unused() []grading.RuleRef {
	var out []grading.RuleRef
	for _, ref := range m.rules {
		if len(m.ruleRecords[ref]) == 0 {
			out = append(out, ref)
		}
	}
	return out
}
