package grading

import (
	"fmt"
	"strings"
)

// Strategy selects the formula that turns a rule's matched outcomes into points.
type Strategy string

const (
	StrategyEach          Strategy = "each"
	StrategyLinear        Strategy = "linear"
	StrategyLinearRounded Strategy = "linear_rounded"
	StrategyLinearFloored Strategy = "linear_floored"
	StrategyAll           Strategy = "all"
	StrategyAny           Strategy = "any"
)

// Strategies lists every supported strategy in documentation order.
func Strategies() []Strategy {
	return []Strategy{
		StrategyEach,
		StrategyLinear,
		StrategyLinearRounded,
		StrategyLinearFloored,
		StrategyAll,
		StrategyAny,
	}
}

// ParseStrategy maps a rule type name, case-insensitively, to its strategy.
func ParseStrategy(raw string) (Strategy, error) {
	v := Strategy(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range Strategies() {
		if v == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("unsupported rule type %q (must be one of: each, linear, linear_rounded, linear_floored, all, any)", raw)
}

func (s Strategy) String() string { return string(s) }
