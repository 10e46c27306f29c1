package suggest

import (
	"math"

	"github.com/bastiangx/touchserve/pkg/config"
)

// typingWeighting is the default Weighting for tap typing. Each correction
// event maps to a spatial/language cost pair plus how many touch points the
// child consumes.
type typingWeighting struct {
	w config.WeightsConfig
}

// NewTypingWeighting builds the default weighting from config.
func NewTypingWeighting(cfg *config.Config) Weighting {
	return &typingWeighting{w: cfg.Weights}
}

func (tw *typingWeighting) AddCost(ct CorrectionType, s *Session, parent, child *DicNode) {
	state := s.ProximityState(0)
	idx := child.InputIndex(0)

	var spatial, language float32
	normalize := true
	forward := 0
	isEdit := false
	isProximity := false

	switch ct {
	case CTMatch:
		spatial = state.PointToKeyCost(idx, child.LastCodePoint())
		forward = 1
		child.scoring.rawLength += state.RawTravel(idx)
		if child.depth >= 2 && child.word[child.depth-1] == child.word[child.depth-2] {
			child.scoring.setDoubleLetterLevel(state.DoubleLetterLevel(idx))
		}
	case CTProximity:
		spatial = state.PointToKeyCost(idx, child.LastCodePoint()) + float32(tw.w.Proximity)
		forward = 1
		isProximity = true
	case CTAdditionalProximity:
		spatial = state.PointToKeyCost(idx, child.LastCodePoint()) + float32(tw.w.AdditionalProximity)
		forward = 1
		isProximity = true
	case CTSubstitution:
		spatial = state.PointToKeyCost(idx, child.LastCodePoint()) + float32(tw.w.Substitution)
		forward = 1
		isEdit = true
	case CTOmission:
		spatial = float32(tw.w.Omission)
		isEdit = true
	case CTInsertion:
		// The skipped point stays unexplained; the child letter aligns to the
		// point after it.
		spatial = float32(tw.w.Insertion) + state.PointToKeyCost(idx+1, child.LastCodePoint())/2
		forward = 2
		isEdit = true
	case CTTransposition:
		spatial = float32(tw.w.Transposition) + tw.transpositionAlignment(s, child, idx)
		forward = 2
		isEdit = true
	case CTNewWord:
		language = tw.newWordCost(s, parent)
		normalize = false
	case CTSpaceSubstitution:
		spatial = float32(tw.w.SpaceSubstitution) + state.PointToKeyCost(idx, ' ')
		forward = 1
		isEdit = true
	case CTTerminal:
		spatial = float32(tw.w.Terminal)
	case CTCompletion:
		language = float32(tw.w.Completion)
		normalize = false
	}

	if forward > 0 {
		child.forwardInputIndex(0, forward)
	}
	child.scoring.addCost(spatial, language, normalize, child.TotalInputIndex(), isEdit, isProximity)
}

// transpositionAlignment averages the alignment of the two swapped letters to
// their swapped touch points.
func (tw *typingWeighting) transpositionAlignment(s *Session, child *DicNode, idx int) float32 {
	if child.depth < 2 {
		return 0
	}
	state := s.ProximityState(0)
	first := child.word[child.depth-2]
	second := child.word[child.depth-1]
	return (state.PointToKeyCost(idx+1, first) + state.PointToKeyCost(idx, second)) / 2
}

// newWordCost charges -log10 P(word | prev word), falling back to the
// unigram probability when no bigram is recorded.
func (tw *typingWeighting) newWordCost(s *Session, completed *DicNode) float32 {
	prob, ok := s.Lexicon().BigramProbability(completed.PrevWordPos(), completed.Pos())
	if !ok {
		prob = s.Lexicon().Probability(completed.Pos())
	}
	p := (float64(prob) + 1) / 257
	return float32(tw.w.NewWordUnit * -math.Log10(p))
}
