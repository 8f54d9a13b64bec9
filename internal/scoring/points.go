package scoring

import (
	"errors"
	"fmt"
	"math"

	"labscore/internal/grading"
)

// ErrNoRecords is returned when points are requested for a rule that matched
// nothing. The validation gate in Score prevents this in normal runs.
var ErrNoRecords = errors.New("rule matched no records")

// Points applies a strategy to a rule with weight w (points already scaled by
// the category multiplier), n matched records and k passed records.
func Points(s grading.Strategy, w float64, n, k int) (earned, max float64, err error) {
	if n <= 0 {
		return 0, 0, ErrNoRecords
	}
	if k < 0 || k > n {
		return 0, 0, fmt.Errorf("passed count %d out of range [0, %d]", k, n)
	}

	linear := func() float64 { return float64(k) / float64(n) * w }

	switch s {
	case grading.StrategyEach:
		return w * float64(k), w * float64(n), nil
	case grading.StrategyLinear:
		return linear(), w, nil
	case grading.StrategyLinearRounded:
		return math.RoundToEven(linear()), w, nil
	case grading.StrategyLinearFloored:
		return math.Floor(linear()), w, nil
	case grading.StrategyAll:
		if k == n {
			return w, w, nil
		}
		return 0, w, nil
	case grading.StrategyAny:
		if k >= 1 {
			return w, w, nil
		}
		return 0, w, nil
	default:
		return 0, 0, fmt.Errorf("unhandled rule type %q", s)
	}
}
