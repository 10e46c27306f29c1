// Package suggest is the core engine: a bounded best-first search over the
// lexicon trie, driven by touch-point proximity, that ranks candidate words
// while tolerating substitutions, omissions, insertions, transpositions and
// missing inter-word spaces.
package suggest

import (
	"github.com/bastiangx/touchserve/pkg/touch"
)

const (
	// MaxResults caps the emitted suggestion list.
	MaxResults = 18
	// MaxWordLength bounds the output buffer of a single path; longer paths
	// are abandoned.
	MaxWordLength = 48
	// MaxPointerCount is the number of pointers a session tracks.
	MaxPointerCount = 2
	// MaxSpaceCount bounds how many implicit word breaks one path may carry.
	MaxSpaceCount = 5

	LookAheadDicNodesCacheSize       = 25
	MinLenForMultiWordAutocorrect    = 16
	MinContinuousSuggestionInputSize = 2

	AutocorrectClassificationThreshold  = 0.33
	AutocorrectLanguageFeatureThreshold = 0.6

	// Master toggles for the individual error correction operators.
	CorrectSpaceOmission     = true
	CorrectSpaceSubstitution = true
	CorrectTransposition     = true
	CorrectInsertion         = true
	CorrectOmission          = true
)

// maxValueForWeighting saturates accumulated distances; a node that reaches
// it is dropped rather than expanded further.
const maxValueForWeighting float32 = 1 << 24

// Kind tags how a suggestion was produced.
type Kind int

const (
	KindCorrection Kind = iota
	KindWhitelist
	KindShortcut
	KindObviousCorrection
)

// Suggestion is one ranked candidate.
type Suggestion struct {
	Word  string
	Score int
	Kind  Kind
	// SpacePositions holds the word-break offsets of the top multi-word
	// suggestion; nil otherwise.
	SpacePositions []int
	EditCount      int
	ProximityCount int
}

// Input is one suggestion request over a touch trace.
type Input struct {
	XS, YS, Times, PointerIDs []int
	// CodePoints are the code points the layout reported for each touch.
	CodePoints []rune
	// CommitPoint > 0 commits the first k words of the current top-1 path
	// before continuing the search.
	CommitPoint int
}

// CorrectionType names the weighting event applied to a child node.
type CorrectionType int

const (
	CTMatch CorrectionType = iota
	CTProximity
	CTAdditionalProximity
	CTSubstitution
	CTOmission
	CTInsertion
	CTTransposition
	CTNewWord
	CTSpaceSubstitution
	CTTerminal
	CTCompletion
)

// Weighting converts a correction event into spatial/language cost deltas on
// the child node and advances its input index.
type Weighting interface {
	AddCost(ct CorrectionType, s *Session, parent, child *DicNode)
}

// Traversal is the pure-predicate policy controlling which correction
// operators are legal at each step.
type Traversal interface {
	MaxSpatialDistance() float64
	MaxPointerCount() int
	MaxCacheSize() int
	DefaultExpandDicNodeSize() int

	AllowsErrorCorrections(n *DicNode) bool
	AllowPartialCommit() bool
	CanDoLookAheadCorrection(s *Session, n *DicNode) bool
	IsOmission(s *Session, n, child *DicNode) bool
	IsPossibleOmissionChildNode(s *Session, parent, child *DicNode) bool
	IsSpaceSubstitutionTerminal(s *Session, n *DicNode) bool
	IsSpaceOmissionTerminal(s *Session, n *DicNode) bool
	IsGoodToTraverseNextWord(n *DicNode) bool
	ShouldDepthLevelCache(s *Session) bool
	ShouldNodeLevelCache(s *Session, n *DicNode) bool
	GetProximityType(s *Session, n, child *DicNode) touch.ProximityType
	SameAsTyped(s *Session, n *DicNode) bool
	NeedsToTraverseAllUserInput() bool
}

// Scoring ranks terminals and turns distances into output scores.
type Scoring interface {
	AdjustedLanguageWeight(s *Session, terminals []DicNode) float32
	MostProbableString(s *Session, terminals []DicNode, languageWeight float32) (Suggestion, bool)
	SearchWordWithDoubleLetter(terminals []DicNode) (int, touch.DoubleLetterLevel)
	DoubleLetterDemotionCost(terminalIndex, doubleLetterIndex int, level touch.DoubleLetterLevel) float32
	CalculateFinalScore(compoundDistance float32, inputSize int, forceAutocorrect bool) int
	DoesAutoCorrectValidWord() bool
	SafetyNet(mostProbable *Suggestion, terminalSize, maxScore int)
}
