package suggest

import (
	"github.com/bastiangx/touchserve/pkg/lexicon"
	"github.com/bastiangx/touchserve/pkg/touch"
)

// scoringState is the accumulated cost record of one path. Plain data,
// shallow copies are fine.
type scoringState struct {
	doubleLetterLevel          touch.DoubleLetterLevel
	editCorrectionCount        int16
	proximityCorrectionCount   int16
	normalizedCompoundDistance float32
	spatialDistance            float32
	languageDistance           float32
	totalPrevWordsLanguageCost float32
	rawLength                  float32
}

func (sc *scoringState) addCost(spatialCost, languageCost float32, doNormalization bool,
	totalInputIndex int, isEditCorrection, isProximityCorrection bool) {
	sc.spatialDistance += spatialCost
	sc.languageDistance += languageCost
	if !doNormalization {
		sc.normalizedCompoundDistance = sc.spatialDistance + sc.languageDistance
	} else {
		div := totalInputIndex
		if div < 1 {
			div = 1
		}
		sc.normalizedCompoundDistance = (sc.spatialDistance + sc.languageDistance) / float32(div)
	}
	if isEditCorrection {
		sc.editCorrectionCount++
	}
	if isProximityCorrection {
		sc.proximityCorrectionCount++
	}
	if languageCost > 0 {
		sc.totalPrevWordsLanguageCost += languageCost
	}
}

// setDoubleLetterLevel only upgrades: once strong, a level never downgrades.
func (sc *scoringState) setDoubleLetterLevel(level touch.DoubleLetterLevel) {
	switch level {
	case touch.NotADoubleLetter:
	case touch.ADoubleLetter:
		if sc.doubleLetterLevel != touch.AStrongDoubleLetter {
			sc.doubleLetterLevel = level
		}
	case touch.AStrongDoubleLetter:
		sc.doubleLetterLevel = level
	}
}

// DicNode is one search-frontier entry: a partial path through the lexicon
// plus its accumulated scoring state. It is a value type; heaps copy nodes on
// push, so no node is ever shared between owners.
type DicNode struct {
	pos         int32
	prevWordPos int32
	depth       int16

	word         [MaxWordLength]rune
	spaceIndices [MaxSpaceCount]int16
	prevWordsPos [MaxSpaceCount]int32
	spaceCount   int16

	inputIndex [MaxPointerCount]int16

	probability      uint8
	hasChildren      bool
	isTerminal       bool
	cached           bool
	zeroCostOmission bool

	scoring scoringState
}

func (n *DicNode) initAsRoot(rootPos, prevWordPos int32) {
	*n = DicNode{pos: rootPos, prevWordPos: prevWordPos, hasChildren: true}
}

// initAsRootWithPreviousWord restarts the path at the trie root while keeping
// the emitted output, recording a word break at the current depth.
func (n *DicNode) initAsRootWithPreviousWord(rootPos int32, prev *DicNode) {
	*n = *prev
	n.pos = rootPos
	n.prevWordPos = prev.pos
	n.spaceIndices[n.spaceCount] = prev.depth
	n.prevWordsPos[n.spaceCount] = prev.pos
	n.spaceCount++
	n.probability = 0
	n.hasChildren = true
	n.isTerminal = false
	n.cached = false
	n.zeroCostOmission = false
}

func (n *DicNode) initAsChild(parent *DicNode, childPos int32, child lexicon.Node) {
	*n = *parent
	n.pos = childPos
	n.word[n.depth] = child.CodePoint
	n.depth++
	n.probability = child.Probability
	n.hasChildren = child.Flags&lexicon.FlagHasChildren != 0
	n.isTerminal = child.Flags&lexicon.FlagIsTerminal != 0
	n.cached = false
	n.zeroCostOmission = false
}

// Pos returns the current trie position.
func (n *DicNode) Pos() int32 { return n.pos }

// PrevWordPos returns where the previous completed word ended in the trie.
func (n *DicNode) PrevWordPos() int32 { return n.prevWordPos }

// Depth returns the number of code points emitted along this path.
func (n *DicNode) Depth() int { return int(n.depth) }

// InputIndex returns how many touch points pointer p has consumed.
func (n *DicNode) InputIndex(p int) int { return int(n.inputIndex[p]) }

func (n *DicNode) forwardInputIndex(p, count int) {
	n.inputIndex[p] += int16(count)
}

// TotalInputIndex sums the consumed points across pointers.
func (n *DicNode) TotalInputIndex() int {
	total := 0
	for p := 0; p < MaxPointerCount; p++ {
		total += int(n.inputIndex[p])
	}
	return total
}

// IsCompletion reports whether the path has consumed the whole input and is
// now extending beyond it.
func (n *DicNode) IsCompletion(inputSize int) bool {
	return int(n.inputIndex[0]) >= inputSize
}

func (n *DicNode) isTotalInputSizeExceeding(inputSize int) bool {
	return n.TotalInputIndex() > inputSize
}

// HasMultipleWords reports whether the path crosses a word break.
func (n *DicNode) HasMultipleWords() bool { return n.spaceCount > 0 }

// IsTerminalWordNode reports whether the trie position ends a complete word.
func (n *DicNode) IsTerminalWordNode() bool { return n.isTerminal }

// LastCodePoint returns the most recently emitted code point.
func (n *DicNode) LastCodePoint() rune {
	if n.depth == 0 {
		return 0
	}
	return n.word[n.depth-1]
}

// CompoundDistance applies languageWeight to the language component.
func (n *DicNode) CompoundDistance(languageWeight float32) float32 {
	return n.scoring.spatialDistance + n.scoring.languageDistance*languageWeight
}

// NormalizedCompoundDistance is the heap ordering key; lower is better.
func (n *DicNode) NormalizedCompoundDistance() float32 {
	return n.scoring.normalizedCompoundDistance
}

// SpatialDistance returns the accumulated spatial component.
func (n *DicNode) SpatialDistance() float32 { return n.scoring.spatialDistance }

// LanguageDistance returns the accumulated language component.
func (n *DicNode) LanguageDistance() float32 { return n.scoring.languageDistance }

// EditCorrectionCount returns how many edit operators this path applied.
func (n *DicNode) EditCorrectionCount() int { return int(n.scoring.editCorrectionCount) }

// ProximityCorrectionCount returns how many proximity operators applied.
func (n *DicNode) ProximityCorrectionCount() int { return int(n.scoring.proximityCorrectionCount) }

// DoubleLetterLevel returns the path's repeated-letter classification.
func (n *DicNode) DoubleLetterLevel() touch.DoubleLetterLevel { return n.scoring.doubleLetterLevel }

// SpacePositions returns the word-break offsets of a multi-word path.
func (n *DicNode) SpacePositions() []int {
	if n.spaceCount == 0 {
		return nil
	}
	out := make([]int, n.spaceCount)
	for i := int16(0); i < n.spaceCount; i++ {
		out[i] = int(n.spaceIndices[i])
	}
	return out
}

// OutputString renders the emitted code points, spaces inserted at the
// recorded word breaks.
func (n *DicNode) OutputString() string {
	if n.spaceCount == 0 {
		return string(n.word[:n.depth])
	}
	out := make([]rune, 0, int(n.depth)+int(n.spaceCount))
	next := int16(0)
	for i := int16(0); i < n.depth; i++ {
		if next < n.spaceCount && n.spaceIndices[next] == i {
			out = append(out, ' ')
			next++
		}
		out = append(out, n.word[i])
	}
	return string(out)
}

// shouldBeFilteredBySafetyNetForBigram drops multi-word paths whose committed
// words were collectively too improbable to be worth a terminal slot.
const bigramSafetyNetLanguageCost = 4.0

func (n *DicNode) shouldBeFilteredBySafetyNetForBigram() bool {
	return n.spaceCount > 0 && n.scoring.totalPrevWordsLanguageCost > bigramSafetyNetLanguageCost
}

// compareDicNodes is the deterministic heap order: normalized compound
// distance, then language distance, then depth, then trie position.
func compareDicNodes(a, b *DicNode) bool {
	if a.scoring.normalizedCompoundDistance != b.scoring.normalizedCompoundDistance {
		return a.scoring.normalizedCompoundDistance < b.scoring.normalizedCompoundDistance
	}
	if a.scoring.languageDistance != b.scoring.languageDistance {
		return a.scoring.languageDistance < b.scoring.languageDistance
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.pos < b.pos
}
