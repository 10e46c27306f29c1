package suggest

import (
	"math"

	"github.com/bastiangx/touchserve/pkg/config"
	"github.com/bastiangx/touchserve/pkg/touch"
)

// typingScoring is the default terminal-ranking policy.
type typingScoring struct {
	sc config.ScoringConfig
}

// NewTypingScoring builds the default scoring policy from config.
func NewTypingScoring(cfg *config.Config) Scoring {
	return &typingScoring{sc: cfg.Scoring}
}

// AdjustedLanguageWeight rebalances the language component: when few
// terminals are dominated by their language cost the input was spatially
// clean, and the weight shrinks toward the lower bound.
func (ts *typingScoring) AdjustedLanguageWeight(s *Session, terminals []DicNode) float32 {
	if len(terminals) == 0 {
		return 1.0
	}
	dominated := 0
	for i := range terminals {
		t := &terminals[i]
		total := t.SpatialDistance() + t.LanguageDistance()
		if total > 0 && t.LanguageDistance()/total > AutocorrectLanguageFeatureThreshold {
			dominated++
		}
	}
	ratio := float64(dominated) / float64(len(terminals))
	weight := ts.sc.MinLanguageWeight + (ts.sc.MaxLanguageWeight-ts.sc.MinLanguageWeight)*ratio
	return float32(weight)
}

// MostProbableString picks the terminal the language model likes best,
// returned only when its normalized distance clears the autocorrect
// classification threshold.
func (ts *typingScoring) MostProbableString(s *Session, terminals []DicNode,
	languageWeight float32) (Suggestion, bool) {
	best := -1
	for i := range terminals {
		t := &terminals[i]
		attrs := s.Lexicon().AttributesAt(t.Pos())
		if t.probability == 0 || attrs.Blacklisted || attrs.NotAWord {
			continue
		}
		if best < 0 || t.LanguageDistance() < terminals[best].LanguageDistance() {
			best = i
		}
	}
	if best < 0 {
		return Suggestion{}, false
	}
	t := &terminals[best]
	if t.NormalizedCompoundDistance() >= AutocorrectClassificationThreshold {
		return Suggestion{}, false
	}
	score := ts.CalculateFinalScore(t.CompoundDistance(languageWeight), s.InputSize(), true)
	return Suggestion{
		Word:           t.OutputString(),
		Score:          score,
		Kind:           KindCorrection,
		EditCount:      t.EditCorrectionCount(),
		ProximityCount: t.ProximityCorrectionCount(),
	}, true
}

// SearchWordWithDoubleLetter finds the best-ranked terminal whose path shows
// an intentional double letter.
func (ts *typingScoring) SearchWordWithDoubleLetter(terminals []DicNode) (int, touch.DoubleLetterLevel) {
	index := -1
	level := touch.NotADoubleLetter
	for i := range terminals {
		t := &terminals[i]
		if t.DoubleLetterLevel() == touch.NotADoubleLetter {
			continue
		}
		if index < 0 || compareDicNodes(t, &terminals[index]) {
			index = i
			level = t.DoubleLetterLevel()
		}
	}
	return index, level
}

// DoubleLetterDemotionCost penalizes every terminal other than the
// double-letter one; held keys are strong evidence for that word.
func (ts *typingScoring) DoubleLetterDemotionCost(terminalIndex, doubleLetterIndex int,
	level touch.DoubleLetterLevel) float32 {
	if doubleLetterIndex < 0 || terminalIndex == doubleLetterIndex {
		return 0
	}
	switch level {
	case touch.ADoubleLetter:
		return float32(ts.sc.WeakLetterDemotion)
	case touch.AStrongDoubleLetter:
		return float32(ts.sc.StrongLetterDemotion)
	}
	return 0
}

// CalculateFinalScore maps a compound distance to a 32-bit score, monotone
// decreasing in the distance. forceAutocorrect adds a bump that lifts the
// suggestion over the typed-string commit threshold.
func (ts *typingScoring) CalculateFinalScore(compoundDistance float32, inputSize int,
	forceAutocorrect bool) int {
	if compoundDistance >= maxValueForWeighting {
		return math.MinInt32
	}
	div := inputSize
	if div < 1 {
		div = 1
	}
	norm := float64(compoundDistance) / float64(div)
	if norm > ts.sc.MaxNormalizedScore {
		norm = ts.sc.MaxNormalizedScore
	}
	score := int((ts.sc.MaxNormalizedScore - norm) / ts.sc.MaxNormalizedScore * 1_000_000)
	if forceAutocorrect {
		score += 2_000_000
	}
	return score
}

func (ts *typingScoring) DoesAutoCorrectValidWord() bool { return false }

// SafetyNet demotes the most-probable-string slot to an obvious-correction
// sentinel when the best terminal outscored it by more than the margin.
func (ts *typingScoring) SafetyNet(mostProbable *Suggestion, terminalSize, maxScore int) {
	if terminalSize == 0 || mostProbable == nil {
		return
	}
	if mostProbable.Score < maxScore-ts.sc.SafetyNetMargin {
		mostProbable.Kind = KindObviousCorrection
		mostProbable.Score = maxScore
	}
}
