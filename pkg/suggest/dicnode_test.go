package suggest

import (
	"testing"

	"github.com/bastiangx/touchserve/pkg/touch"
	"github.com/stretchr/testify/assert"
)

func TestScoringStateAccumulatesMonotonically(t *testing.T) {
	var sc scoringState

	sc.addCost(0.3, 0, true, 1, false, false)
	assert.InDelta(t, 0.3, sc.spatialDistance, 1e-6)
	assert.InDelta(t, 0.3, sc.normalizedCompoundDistance, 1e-6)

	sc.addCost(0.3, 0.2, true, 2, true, false)
	assert.InDelta(t, 0.6, sc.spatialDistance, 1e-6)
	assert.InDelta(t, 0.2, sc.languageDistance, 1e-6)
	assert.InDelta(t, 0.4, sc.normalizedCompoundDistance, 1e-6)
	assert.Equal(t, int16(1), sc.editCorrectionCount)
	assert.InDelta(t, 0.2, sc.totalPrevWordsLanguageCost, 1e-6)
}

func TestScoringStateWithoutNormalization(t *testing.T) {
	var sc scoringState
	sc.addCost(0.4, 0.3, false, 5, false, true)
	assert.InDelta(t, 0.7, sc.normalizedCompoundDistance, 1e-6,
		"unnormalized cost ignores the input index")
	assert.Equal(t, int16(1), sc.proximityCorrectionCount)
}

func TestDoubleLetterLevelNeverDowngrades(t *testing.T) {
	var sc scoringState

	sc.setDoubleLetterLevel(touch.ADoubleLetter)
	assert.Equal(t, touch.ADoubleLetter, sc.doubleLetterLevel)

	sc.setDoubleLetterLevel(touch.NotADoubleLetter)
	assert.Equal(t, touch.ADoubleLetter, sc.doubleLetterLevel, "clearing is a no-op")

	sc.setDoubleLetterLevel(touch.AStrongDoubleLetter)
	assert.Equal(t, touch.AStrongDoubleLetter, sc.doubleLetterLevel)

	sc.setDoubleLetterLevel(touch.ADoubleLetter)
	assert.Equal(t, touch.AStrongDoubleLetter, sc.doubleLetterLevel, "strong is sticky")
}

func TestInitAsRootWithPreviousWordRecordsBreak(t *testing.T) {
	var word DicNode
	word.initAsRoot(0, -1)
	copy(word.word[:], []rune("he"))
	word.depth = 2
	word.pos = 9
	word.isTerminal = true

	var next DicNode
	next.initAsRootWithPreviousWord(0, &word)

	assert.Equal(t, int32(9), next.PrevWordPos())
	assert.True(t, next.HasMultipleWords())
	assert.Equal(t, []int{2}, next.SpacePositions())
	assert.False(t, next.IsTerminalWordNode())
	assert.Equal(t, int32(0), next.Pos())
	assert.Equal(t, 2, next.Depth(), "emitted output carries over")
}

func TestOutputStringInsertsSpaces(t *testing.T) {
	var n DicNode
	n.initAsRoot(0, -1)
	copy(n.word[:], []rune("heisok"))
	n.depth = 6
	n.spaceCount = 2
	n.spaceIndices[0] = 2
	n.spaceIndices[1] = 4

	assert.Equal(t, "he is ok", n.OutputString())
}

func TestCompareDicNodesIsTotalAndDeterministic(t *testing.T) {
	a := nodeWithDistance(0.2, 1)
	b := nodeWithDistance(0.4, 2)
	assert.True(t, compareDicNodes(&a, &b))
	assert.False(t, compareDicNodes(&b, &a))

	c := nodeWithDistance(0.2, 1)
	c.scoring.languageDistance = 0.1
	assert.True(t, compareDicNodes(&a, &c), "lower language distance breaks ties")

	d := nodeWithDistance(0.2, 5)
	assert.True(t, compareDicNodes(&a, &d), "position is the final tiebreak")
	assert.False(t, compareDicNodes(&a, &a), "strict order")
}

func TestInputIndexBounds(t *testing.T) {
	var n DicNode
	n.initAsRoot(0, -1)
	n.forwardInputIndex(0, 1)
	n.forwardInputIndex(0, 2)
	assert.Equal(t, 3, n.InputIndex(0))
	assert.Equal(t, 3, n.TotalInputIndex())
	assert.True(t, n.IsCompletion(3))
	assert.False(t, n.IsCompletion(4))
	assert.True(t, n.isTotalInputSizeExceeding(2))
}
