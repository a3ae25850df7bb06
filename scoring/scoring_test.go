package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeHome, OutcomeOf(2, 1))
	assert.Equal(t, OutcomeAway, OutcomeOf(0, 3))
	assert.Equal(t, OutcomeDraw, OutcomeOf(1, 1))
	assert.Equal(t, OutcomeDraw, OutcomeOf(0, 0))
}

func TestScore(t *testing.T) {
	actual := Scoreline{Home: 2, Away: 1}

	tests := []struct {
		name      string
		predicted Scoreline
		actual    Scoreline
		played    bool
		want      Category
	}{
		{"exact scoreline", Scoreline{2, 1}, actual, true, Exact},
		{"same tendency and goal difference", Scoreline{3, 2}, actual, true, TendencyStrict},
		{"same tendency, different goal difference", Scoreline{1, 0}, actual, true, TendencyLoose},
		{"same tendency, larger goal difference", Scoreline{3, 1}, actual, true, TendencyLoose},
		{"wrong tendency", Scoreline{1, 2}, actual, true, Wrong},
		{"predicted draw against home win", Scoreline{1, 1}, actual, true, Wrong},
		{"not played", Scoreline{2, 1}, actual, false, Unscored},
		{"exact draw", Scoreline{0, 0}, Scoreline{0, 0}, true, Exact},
		{"draw with different scoreline", Scoreline{1, 1}, Scoreline{0, 0}, true, TendencyStrict},
		{"away win tendency", Scoreline{0, 2}, Scoreline{1, 4}, true, TendencyLoose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.predicted, tt.actual, tt.played))
		})
	}
}

func TestCategoryPoints(t *testing.T) {
	assert.Equal(t, 3, Exact.Points())
	assert.Equal(t, 2, TendencyStrict.Points())
	assert.Equal(t, 1, TendencyLoose.Points())
	assert.Equal(t, 0, Wrong.Points())
	assert.Equal(t, 0, Unscored.Points())
}

func TestScoreIsTotal(t *testing.T) {
	// Every combination of small scorelines yields a defined category.
	for ph := 0; ph <= 4; ph++ {
		for pa := 0; pa <= 4; pa++ {
			for ah := 0; ah <= 4; ah++ {
				for aa := 0; aa <= 4; aa++ {
					c := Score(Scoreline{ph, pa}, Scoreline{ah, aa}, true)
					assert.Contains(t, []Category{Wrong, TendencyLoose, TendencyStrict, Exact}, c)
				}
			}
		}
	}
}
