package suggest

import (
	"math"
	"testing"

	"github.com/bastiangx/touchserve/pkg/config"
	"github.com/bastiangx/touchserve/pkg/touch"
	"github.com/stretchr/testify/assert"
)

func newScoring() Scoring {
	return NewTypingScoring(config.DefaultConfig())
}

func TestFinalScoreMonotoneDecreasing(t *testing.T) {
	sc := newScoring()
	prev := math.MaxInt
	for _, d := range []float32{0, 0.2, 0.5, 1.0, 2.0, 6.0} {
		score := sc.CalculateFinalScore(d, 4, false)
		assert.LessOrEqual(t, score, prev, "distance %v must not score higher", d)
		prev = score
	}
}

func TestFinalScoreForceBump(t *testing.T) {
	sc := newScoring()
	plain := sc.CalculateFinalScore(0.4, 4, false)
	forced := sc.CalculateFinalScore(0.4, 4, true)
	assert.Greater(t, forced, plain)
}

func TestFinalScoreSaturates(t *testing.T) {
	sc := newScoring()
	assert.Equal(t, math.MinInt32, sc.CalculateFinalScore(maxValueForWeighting, 4, true))
}

func TestDoubleLetterDemotion(t *testing.T) {
	sc := newScoring()

	assert.Zero(t, sc.DoubleLetterDemotionCost(0, -1, touch.AStrongDoubleLetter),
		"no double-letter terminal, no demotion")
	assert.Zero(t, sc.DoubleLetterDemotionCost(2, 2, touch.AStrongDoubleLetter),
		"the double-letter terminal itself is never demoted")

	weak := sc.DoubleLetterDemotionCost(0, 2, touch.ADoubleLetter)
	strong := sc.DoubleLetterDemotionCost(0, 2, touch.AStrongDoubleLetter)
	assert.Greater(t, weak, float32(0))
	assert.Greater(t, strong, weak, "penalty grows with the level")
}

func TestSearchWordWithDoubleLetter(t *testing.T) {
	sc := newScoring()

	terminals := []DicNode{
		nodeWithDistance(0.1, 1),
		nodeWithDistance(0.2, 2),
		nodeWithDistance(0.3, 3),
	}
	terminals[1].scoring.doubleLetterLevel = touch.ADoubleLetter
	terminals[2].scoring.doubleLetterLevel = touch.AStrongDoubleLetter

	idx, level := sc.SearchWordWithDoubleLetter(terminals)
	assert.Equal(t, 1, idx, "best-ranked flagged terminal wins")
	assert.Equal(t, touch.ADoubleLetter, level)

	idx, level = sc.SearchWordWithDoubleLetter(terminals[:1])
	assert.Equal(t, -1, idx)
	assert.Equal(t, touch.NotADoubleLetter, level)
}

func TestSafetyNetDemotesWeakMostProbableString(t *testing.T) {
	sc := newScoring()

	weak := Suggestion{Word: "the", Score: 100, Kind: KindCorrection}
	sc.SafetyNet(&weak, 3, 1_000_000)
	assert.Equal(t, KindObviousCorrection, weak.Kind)
	assert.Equal(t, 1_000_000, weak.Score)

	strong := Suggestion{Word: "the", Score: 2_900_000, Kind: KindCorrection}
	sc.SafetyNet(&strong, 3, 1_000_000)
	assert.Equal(t, KindCorrection, strong.Kind, "close scores stay untouched")
}

func TestAdjustedLanguageWeightBounds(t *testing.T) {
	sc := newScoring()
	cfg := config.DefaultConfig()

	assert.InDelta(t, 1.0, sc.AdjustedLanguageWeight(nil, nil), 1e-6)

	spatialOnly := nodeWithDistance(0.2, 1)
	spatialOnly.scoring.spatialDistance = 0.2
	languageHeavy := nodeWithDistance(0.2, 2)
	languageHeavy.scoring.languageDistance = 0.2

	low := sc.AdjustedLanguageWeight(nil, []DicNode{spatialOnly})
	high := sc.AdjustedLanguageWeight(nil, []DicNode{languageHeavy})
	assert.InDelta(t, cfg.Scoring.MinLanguageWeight, float64(low), 1e-6)
	assert.InDelta(t, cfg.Scoring.MaxLanguageWeight, float64(high), 1e-6)
}
