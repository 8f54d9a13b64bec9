package grading

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidConfig is matched by every validation error from New, including
// those surfaced through Load.
var ErrInvalidConfig = errors.New("invalid grading configuration")

// ConfigError names the category (and rule, when relevant) that failed
// validation.
type ConfigError struct {
	Category string
	Rule     string
	Reason   string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Category != "" && e.Rule != "":
		return fmt.Sprintf("category %q, rule %q: %s", e.Category, e.Rule, e.Reason)
	case e.Category != "":
		return fmt.Sprintf("category %q: %s", e.Category, e.Reason)
	default:
		return e.Reason
	}
}

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// Pattern matches check descriptions from their first character. It does not
// need to consume the whole description.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// CompilePattern compiles a rule pattern anchored at the start of a description.
func CompilePattern(source string) (Pattern, error) {
	re, err := regexp.Compile(`\A(?:` + source + `)`)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{source: source, re: re}, nil
}

func (p Pattern) Match(description string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(description)
}

// String returns the pattern as written in the configuration.
func (p Pattern) String() string { return p.source }

// Rule is a validated scoring rule.
type Rule struct {
	Name     string
	Strategy Strategy
	Pattern  Pattern
	// Points is the nominal weight before the category multiplier is applied.
	Points float64
}

func (r Rule) Matches(description string) bool {
	return r.Pattern.Match(description)
}

// Category groups rules under a shared multiplier.
type Category struct {
	Name string
	// Multiplier scales the points of every rule in the category. Zero marks
	// the category as informational.
	Multiplier float64
	Rules      []Rule
}

// Hidden reports whether the category is informational only.
func (c Category) Hidden() bool { return c.Multiplier == 0 }

// RuleRef locates a rule inside a Configuration.
type RuleRef struct {
	Category int
	Rule     int
}

// Configuration is a validated grading configuration, categories in file order.
type Configuration struct {
	Categories []Category
}

// Rules returns references to every rule, categories and rules in
// configuration order.
func (c *Configuration) Rules() []RuleRef {
	var out []RuleRef
	for ci, cat := range c.Categories {
		for ri := range cat.Rules {
			out = append(out, RuleRef{Category: ci, Rule: ri})
		}
	}
	return out
}

// Rule returns the rule a reference points at.
func (c *Configuration) Rule(ref RuleRef) Rule {
	return c.Categories[ref.Category].Rules[ref.Rule]
}

func (c *Configuration) Category(ref RuleRef) Category {
	return c.Categories[ref.Category]
}

// QualifiedName renders a rule reference as "category/rule".
func (c *Configuration) QualifiedName(ref RuleRef) string {
	return c.Category(ref).Name + "/" + c.Rule(ref).Name
}

// CategorySpec and RuleSpec are the raw, unvalidated configuration shape
// produced by a loader.
type CategorySpec struct {
	Name       string     `json:"name" yaml:"name"`
	Multiplier *float64   `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	Rules      []RuleSpec `json:"rules" yaml:"rules"`
}

type RuleSpec struct {
	Name    string  `json:"name" yaml:"name"`
	Type    string  `json:"type" yaml:"type"`
	Pattern string  `json:"pattern" yaml:"pattern"`
	Points  float64 `json:"points" yaml:"points"`
}

// New validates the specs and builds an immutable Configuration.
func New(specs []CategorySpec) (*Configuration, error) {
	if len(specs) == 0 {
		return nil, &ConfigError{Reason: "at least one category is required"}
	}

	seenCategories := make(map[string]struct{}, len(specs))
	cfg := &Configuration{Categories: make([]Category, 0, len(specs))}

	for _, cs := range specs {
		name := strings.TrimSpace(cs.Name)
		if name == "" {
			return nil, &ConfigError{Reason: "category name must not be empty"}
		}
		if _, dup := seenCategories[name]; dup {
			return nil, &ConfigError{Category: name, Reason: "duplicate category name"}
		}
		seenCategories[name] = struct{}{}

		multiplier := 1.0
		if cs.Multiplier != nil {
			multiplier = *cs.Multiplier
		}
		if multiplier < 0 {
			return nil, &ConfigError{Category: name, Reason: fmt.Sprintf("multiplier must be >= 0, got %v", multiplier)}
		}
		if len(cs.Rules) == 0 {
			return nil, &ConfigError{Category: name, Reason: "category must contain at least one rule"}
		}

		cat := Category{Name: name, Multiplier: multiplier, Rules: make([]Rule, 0, len(cs.Rules))}
		seenRules := make(map[string]struct{}, len(cs.Rules))
		for _, rs := range cs.Rules {
			rule, err := newRule(name, rs)
			if err != nil {
				return nil, err
			}
			if _, dup := seenRules[rule.Name]; dup {
				return nil, &ConfigError{Category: name, Rule: rule.Name, Reason: "duplicate rule name"}
			}
			seenRules[rule.Name] = struct{}{}
			cat.Rules = append(cat.Rules, rule)
		}
		cfg.Categories = append(cfg.Categories, cat)
	}

	return cfg, nil
}

func newRule(category string, rs RuleSpec) (Rule, error) {
	name := strings.TrimSpace(rs.Name)
	if name == "" {
		return Rule{}, &ConfigError{Category: category, Reason: "rule name must not be empty"}
	}
	strategy, err := ParseStrategy(rs.Type)
	if err != nil {
		return Rule{}, &ConfigError{Category: category, Rule: name, Reason: err.Error()}
	}
	if rs.Pattern == "" {
		return Rule{}, &ConfigError{Category: category, Rule: name, Reason: "pattern must not be empty"}
	}
	pattern, err := CompilePattern(rs.Pattern)
	if err != nil {
		return Rule{}, &ConfigError{Category: category, Rule: name, Reason: fmt.Sprintf("invalid pattern: %v", err)}
	}
	if rs.Points < 0 {
		return Rule{}, &ConfigError{Category: category, Rule: name, Reason: fmt.Sprintf("points must be >= 0, got %v", rs.Points)}
	}
	return Rule{Name: name, Strategy: strategy, Pattern: pattern, Points: rs.Points}, nil
}
