package scoring

import (
	"errors"
	"fmt"
	"strings"

	"labscore/internal/grading"
	"labscore/internal/outcome"
)

// ErrMatching is matched by every *MatchingError.
var ErrMatching = errors.New("records and rules are out of sync")

type MatchingErrorKind string

const (
	AmbiguousRecord MatchingErrorKind = "ambiguous_record"
	UnmatchedRecord MatchingErrorKind = "unmatched_record"
	UnusedRule      MatchingErrorKind = "unused_rule"
)

// MatchingError reports the first integrity violation found after matching.
// Record or Rule holds one representative offender; Offenders lists them all.
type MatchingError struct {
	Kind MatchingErrorKind
	// Record is set for AmbiguousRecord and UnmatchedRecord.
	Record *outcome.Record
	// Rules lists the rules matching Record (AmbiguousRecord only).
	Rules []string
	// Rule is set for UnusedRule.
	Rule      string
	Offenders []string
}

func (e *MatchingError) Error() string {
	switch e.Kind {
	case AmbiguousRecord:
		return fmt.Sprintf("%d check record(s) match multiple rules, for example: %s -> [%s]", len(e.Offenders), e.Record, strings.Join(e.Rules, ", "))
	case UnmatchedRecord:
		return fmt.Sprintf("%d check record(s) don't match any rule, for example: %s", len(e.Offenders), e.Record)
	case UnusedRule:
		return fmt.Sprintf("%d rule(s) don't match any check record, for example: %s", len(e.Offenders), e.Rule)
	default:
		return fmt.Sprintf("matching error: %s", e.Kind)
	}
}

func (e *MatchingError) Is(target error) bool { return target == ErrMatching }

// Reporter receives the full list of offenders before Score fails.
type Reporter interface {
	Report(problem string, offenders []string)
}

type ReporterFunc func(problem string, offenders []string)

func (f ReporterFunc) Report(problem string, offenders []string) { f(problem, offenders) }

type options struct {
	reporter Reporter
}

// Option configures Score.
type Option func(*options)

// WithReporter sets the Reporter that receives matching problems.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// Score matches records against the configuration, validates the matching
// and builds the result tree. It returns a *MatchingError when any record is
// matched by a number of rules other than one, or any rule matches no record.
func Score(cfg *grading.Configuration, records []outcome.Record, opts ...Option) (*Result, error) {
	if cfg == nil {
		return nil, errors.New("scoring: configuration is nil")
	}
	o := &options{}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	report := func(problem string, offenders []string) {
		if o.reporter != nil {
			o.reporter.Report(problem, offenders)
		}
	}

	m := Match(cfg, records)
	if err := validate(cfg, m); err != nil {
		report(err.Error(), err.Offenders)
		return nil, err
	}

	res := &Result{Categories: make([]CategoryResult, 0, len(cfg.Categories))}
	for ci, cat := range cfg.Categories {
		cr := CategoryResult{Category: cat, Rules: make([]RuleResult, 0, len(cat.Rules))}
		for ri, rule := range cat.Rules {
			ref := grading.RuleRef{Category: ci, Rule: ri}
			idx := m.RecordsFor(ref)
			rr := RuleResult{Rule: rule, Multiplier: cat.Multiplier, Records: make([]outcome.Record, 0, len(idx))}
			for _, i := range idx {
				rr.Records = append(rr.Records, records[i])
			}
			if _, _, err := rr.Points(); err != nil {
				return nil, fmt.Errorf("scoring %s: %w", cfg.QualifiedName(ref), err)
			}
			cr.Rules = append(cr.Rules, rr)
		}
		res.Categories = append(res.Categories, cr)
	}
	return res, nil
}

func validate(cfg *grading.Configuration, m *Matching) *MatchingError {
	ruleNames := func(refs []grading.RuleRef) []string {
		out := make([]string, 0, len(refs))
		for _, ref := range refs {
			out = append(out, cfg.QualifiedName(ref))
		}
		return out
	}

	if ambiguous := m.Ambiguous(); len(ambiguous) > 0 {
		offenders := make([]string, 0, len(ambiguous))
		for _, i := range ambiguous {
			offenders = append(offenders, fmt.Sprintf("%s -> [%s]", m.Record(i), strings.Join(ruleNames(m.RulesFor(i)), ", ")))
		}
		rec := m.Record(ambiguous[0])
		return &MatchingError{
			Kind:      AmbiguousRecord,
			Record:    &rec,
			Rules:     ruleNames(m.RulesFor(ambiguous[0])),
			Offenders: offenders,
		}
	}

	if unmatched := m.Unmatched(); len(unmatched) > 0 {
		offenders := make([]string, 0, len(unmatched))
		for _, i := range unmatched {
			offenders = append(offenders, m.Record(i).String())
		}
		rec := m.Record(unmatched[0])
		return &MatchingError{Kind: UnmatchedRecord, Record: &rec, Offenders: offenders}
	}

	if unused := m.Unused(); len(unused) > 0 {
		names := ruleNames(unused)
		return &MatchingError{Kind: UnusedRule, Rule: names[0], Offenders: names}
	}

	return nil
}
