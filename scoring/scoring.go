// Package scoring holds the pure tip-scoring rule: a predicted scoreline is
// compared against the actual result and mapped to a point category. The
// package has no dependencies and performs no I/O.
package scoring

// Scoreline is a pair of non-negative goal counts.
type Scoreline struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Outcome is the result tendency of a scoreline, in classic toto notation.
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// OutcomeOf derives the outcome tendency from a scoreline.
func OutcomeOf(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHome
	case home < away:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Outcome returns the scoreline's result tendency.
func (s Scoreline) Outcome() Outcome {
	return OutcomeOf(s.Home, s.Away)
}

// Diff returns the goal-difference magnitude of the scoreline.
func (s Scoreline) Diff() int {
	d := s.Home - s.Away
	if d < 0 {
		return -d
	}
	return d
}

// Category is the scoring class of a tip. The numeric value of a scoreable
// category is its point value; Unscored is a sentinel excluded from every
// aggregate.
type Category int

const (
	Unscored       Category = -1
	Wrong          Category = 0
	TendencyLoose  Category = 1
	TendencyStrict Category = 2
	Exact          Category = 3
)

// Points returns the point value of the category. Unscored is worth nothing.
func (c Category) Points() int {
	if c == Unscored {
		return 0
	}
	return int(c)
}

func (c Category) String() string {
	switch c {
	case Unscored:
		return "unscored"
	case Wrong:
		return "wrong"
	case TendencyLoose:
		return "tendency"
	case TendencyStrict:
		return "tendency_strict"
	case Exact:
		return "exact"
	default:
		return "unknown"
	}
}

// Score maps a predicted scoreline against the actual result. It is total:
// every input yields a category, never an error.
//
//   - played == false (match not concluded, or a dummy fixture): Unscored.
//   - exact scoreline: Exact (3 points).
//   - same tendency and same goal-difference magnitude: TendencyStrict (2).
//   - same tendency only: TendencyLoose (1).
//   - anything else: Wrong (0).
func Score(predicted, actual Scoreline, played bool) Category {
	if !played {
		return Unscored
	}
	if predicted == actual {
		return Exact
	}
	if predicted.Outcome() != actual.Outcome() {
		return Wrong
	}
	if predicted.Diff() == actual.Diff() {
		return TendencyStrict
	}
	return TendencyLoose
}
