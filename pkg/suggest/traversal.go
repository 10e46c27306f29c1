package suggest

import (
	"github.com/bastiangx/touchserve/pkg/config"
	"github.com/bastiangx/touchserve/pkg/touch"
)

// typingTraversal is the default Traversal for tap typing.
type typingTraversal struct {
	search config.SearchConfig
}

// NewTypingTraversal builds the default traversal policy from config.
func NewTypingTraversal(cfg *config.Config) Traversal {
	return &typingTraversal{search: cfg.Search}
}

func (tt *typingTraversal) MaxSpatialDistance() float64 { return tt.search.MaxSpatialDistance }

func (tt *typingTraversal) MaxPointerCount() int { return 1 }

func (tt *typingTraversal) MaxCacheSize() int { return tt.search.MaxCacheSize }

func (tt *typingTraversal) DefaultExpandDicNodeSize() int { return tt.search.ExpandBatchSize }

// AllowsErrorCorrections prunes correction operators once a path has drifted
// past the spatial threshold; plain matches may still extend it.
func (tt *typingTraversal) AllowsErrorCorrections(n *DicNode) bool {
	return n.NormalizedCompoundDistance() < float32(tt.search.ErrorCorrectionLimit)
}

func (tt *typingTraversal) AllowPartialCommit() bool { return true }

// CanDoLookAheadCorrection holds when the node still has at least two
// unconsumed points, so transposition and insertion can inspect the next one.
// Nodes sitting at the trie root (search start, fresh next-word nodes) are
// excluded.
func (tt *typingTraversal) CanDoLookAheadCorrection(s *Session, n *DicNode) bool {
	return n.Pos() != s.Lexicon().RootPos() && n.InputIndex(0) < s.InputSize()-1
}

func (tt *typingTraversal) IsOmission(s *Session, n, child *DicNode) bool {
	if !CorrectOmission {
		return false
	}
	if n.depth == 0 || n.EditCorrectionCount() >= tt.search.MaxEditCorrections {
		return false
	}
	// A repeated letter is better explained by the double-letter handling.
	return child.LastCodePoint() != n.LastCodePoint()
}

// IsPossibleOmissionChildNode keeps only omissions whose following letter
// lines up with the touch trace; otherwise omission nodes flood the cache.
func (tt *typingTraversal) IsPossibleOmissionChildNode(s *Session, parent, child *DicNode) bool {
	if parent.zeroCostOmission {
		return true
	}
	pt := s.ProximityState(0).Classify(parent.InputIndex(0), child.LastCodePoint())
	return pt == touch.MatchChar || pt == touch.ProximityChar
}

func (tt *typingTraversal) IsSpaceSubstitutionTerminal(s *Session, n *DicNode) bool {
	if !CorrectSpaceSubstitution || !n.isTerminal || n.depth < 2 {
		return false
	}
	if n.spaceCount >= MaxSpaceCount || n.InputIndex(0) >= s.InputSize() {
		return false
	}
	return s.ProximityState(0).CouldBeSpace(n.InputIndex(0))
}

func (tt *typingTraversal) IsSpaceOmissionTerminal(s *Session, n *DicNode) bool {
	if !CorrectSpaceOmission || !n.isTerminal || n.depth < 2 {
		return false
	}
	return n.spaceCount < MaxSpaceCount && n.InputIndex(0) < s.InputSize()
}

// IsGoodToTraverseNextWord caps multi-word depth and refuses to start a new
// word after one the language model considers hopeless.
func (tt *typingTraversal) IsGoodToTraverseNextWord(n *DicNode) bool {
	return int(n.probability) >= tt.search.MinNextWordProb && n.spaceCount < MaxSpaceCount
}

// ShouldDepthLevelCache snapshots the frontier one point before the end of
// input, where the next call is most likely to resume.
func (tt *typingTraversal) ShouldDepthLevelCache(s *Session) bool {
	return s.InputSize() >= MinContinuousSuggestionInputSize &&
		s.cache.InputIndex() == s.InputSize()-1
}

func (tt *typingTraversal) ShouldNodeLevelCache(s *Session, n *DicNode) bool {
	return false
}

func (tt *typingTraversal) GetProximityType(s *Session, n, child *DicNode) touch.ProximityType {
	return s.ProximityState(0).Classify(n.InputIndex(0), child.LastCodePoint())
}

func (tt *typingTraversal) SameAsTyped(s *Session, n *DicNode) bool {
	if n.spaceCount > 0 || int(n.depth) != len(s.InputCodePoints()) {
		return false
	}
	for i, r := range s.InputCodePoints() {
		if n.word[i] != r {
			return false
		}
	}
	return true
}

func (tt *typingTraversal) NeedsToTraverseAllUserInput() bool { return true }
