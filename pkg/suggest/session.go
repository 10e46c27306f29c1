package suggest

import (
	"github.com/bastiangx/touchserve/pkg/lexicon"
	"github.com/bastiangx/touchserve/pkg/touch"
)

// Session owns all per-search state: the proximity view of the touch trace,
// the frontier cache, and the previous-word context. Reusing a session across
// calls is what enables continuous suggestion; a session must not be shared
// between concurrent searches.
type Session struct {
	lex   *lexicon.Trie
	cache Cache

	states [MaxPointerCount]touch.State

	inputSize       int
	inputCodePoints []rune
	prevInput       []rune

	prevWordPos        int32
	partiallyCommitted bool

	continuationPossible bool
	matchedPrefix        int

	// Scratch buffers for the expand loop; no allocation happens there.
	childBuf  []DicNode
	childBuf2 []DicNode
	childBuf3 []DicNode
}

// NewSession creates a session over a frozen lexicon.
func NewSession(lex *lexicon.Trie) *Session {
	return &Session{lex: lex, prevWordPos: lexicon.NonePos}
}

// Lexicon returns the trie this session searches.
func (s *Session) Lexicon() *lexicon.Trie { return s.lex }

// ProximityState returns the touch view for pointer p.
func (s *Session) ProximityState(p int) *touch.State { return &s.states[p] }

// InputSize returns the number of touch points of the current request.
func (s *Session) InputSize() int { return s.inputSize }

// InputCodePoints returns the code points the layout reported for the trace.
func (s *Session) InputCodePoints() []rune { return s.inputCodePoints }

// PrevWordPos returns the bigram context, NonePos at sentence start.
func (s *Session) PrevWordPos() int32 { return s.prevWordPos }

// IsPartiallyCommitted reports whether a commit point was applied this turn.
func (s *Session) IsPartiallyCommitted() bool { return s.partiallyCommitted }

// SetPrevWord establishes the bigram context for the next search. Words not
// in the lexicon clear the context.
func (s *Session) SetPrevWord(word string) {
	pos, ok := s.lex.WordPos(word)
	if !ok {
		pos = lexicon.NonePos
	}
	s.prevWordPos = pos
	s.invalidateContinuation()
}

// ResetContext clears the bigram context and any continuation state.
func (s *Session) ResetContext() {
	s.prevWordPos = lexicon.NonePos
	s.invalidateContinuation()
}

func (s *Session) invalidateContinuation() {
	s.prevInput = s.prevInput[:0]
	s.cache.snapshots = s.cache.snapshots[:0]
}

// setupForGetSuggestions rebuilds the proximity view for the new trace and
// decides whether the previous search can be continued: the old typed code
// points must be a proper prefix of the new ones.
func (s *Session) setupForGetSuggestions(p *touch.ProximityInfo, in *Input,
	maxSpatialDistance float64, maxPointerCount int) {
	s.states[0].Init(p, in.XS, in.YS, in.Times, maxSpatialDistance)
	s.inputSize = s.states[0].InputSize()

	s.continuationPossible = len(s.prevInput) > 0 &&
		len(in.CodePoints) > len(s.prevInput) &&
		isRunePrefix(s.prevInput, in.CodePoints)
	s.matchedPrefix = len(s.prevInput)

	s.inputCodePoints = append(s.inputCodePoints[:0], in.CodePoints...)
	s.prevInput = append(s.prevInput[:0], in.CodePoints...)
	s.partiallyCommitted = false
}

func isRunePrefix(prefix, full []rune) bool {
	for i, r := range prefix {
		if full[i] != r {
			return false
		}
	}
	return true
}

// isContinuousSuggestionPossible reports whether the cached frontier from the
// previous call applies to the new input.
func (s *Session) isContinuousSuggestionPossible() bool {
	return s.continuationPossible
}
