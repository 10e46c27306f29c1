package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestTrie(t *testing.T) *Trie {
	t.Helper()
	b := NewBuilder()
	b.AddWord("he", 210)
	b.AddWord("is", 230)
	b.AddWord("the", 250)
	b.AddWord("this", 220)
	b.AddWord("these", 160)
	b.AddWord("that", 200)
	b.AddBigram("he", "is", 200)
	b.AddShortcut("the", "The")
	b.MarkBlacklisted("that")
	return b.Build()
}

func TestBuildAndWalk(t *testing.T) {
	trie := buildTestTrie(t)

	for _, word := range []string{"he", "is", "the", "this", "these", "that"} {
		pos, ok := trie.WordPos(word)
		require.True(t, ok, "word %q must be reachable", word)
		assert.True(t, trie.IsTerminal(pos))
	}

	_, ok := trie.WordPos("thes")
	assert.False(t, ok, "prefix of a word is not a terminal")
	_, ok = trie.WordPos("xyz")
	assert.False(t, ok)

	pos, _ := trie.WordPos("this")
	assert.Equal(t, uint8(220), trie.Probability(pos))
}

func TestChildrenContiguousAndOrdered(t *testing.T) {
	trie := buildTestTrie(t)

	first, count := trie.Children(trie.RootPos())
	require.Greater(t, count, int32(0))
	var runes []rune
	for i := int32(0); i < count; i++ {
		n, ok := trie.At(first + i)
		require.True(t, ok)
		runes = append(runes, n.CodePoint)
		assert.Greater(t, first+i, trie.RootPos(), "children always sit after their parent")
	}
	assert.Equal(t, []rune{'h', 'i', 't'}, runes)
}

func TestBigramLookup(t *testing.T) {
	trie := buildTestTrie(t)
	hePos, _ := trie.WordPos("he")
	isPos, _ := trie.WordPos("is")
	thePos, _ := trie.WordPos("the")

	prob, ok := trie.BigramProbability(hePos, isPos)
	require.True(t, ok)
	assert.Equal(t, uint8(200), prob)

	_, ok = trie.BigramProbability(hePos, thePos)
	assert.False(t, ok, "unrecorded bigram falls back to unigram")
	_, ok = trie.BigramProbability(NonePos, isPos)
	assert.False(t, ok)
}

func TestAttributes(t *testing.T) {
	trie := buildTestTrie(t)

	thePos, _ := trie.WordPos("the")
	attrs := trie.AttributesAt(thePos)
	assert.Equal(t, []string{"The"}, attrs.Shortcuts)
	assert.False(t, attrs.Blacklisted)

	thatPos, _ := trie.WordPos("that")
	assert.True(t, trie.AttributesAt(thatPos).Blacklisted)
}

func TestCorruptPositionsYieldNoChildren(t *testing.T) {
	trie := buildTestTrie(t)

	_, count := trie.Children(int32(trie.NodeCount()) + 10)
	assert.Zero(t, count)
	_, count = trie.Children(-5)
	assert.Zero(t, count)
	assert.Zero(t, trie.Probability(-1))
	assert.Equal(t, Attributes{}, trie.AttributesAt(9999))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	trie := buildTestTrie(t)
	path := filepath.Join(t.TempDir(), "lexicon.bin")

	require.NoError(t, Save(trie, path))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, trie.NodeCount(), loaded.NodeCount())
	for _, word := range []string{"he", "is", "the", "this", "these", "that"} {
		origPos, ok := trie.WordPos(word)
		require.True(t, ok)
		loadPos, ok := loaded.WordPos(word)
		require.True(t, ok)
		assert.Equal(t, trie.Probability(origPos), loaded.Probability(loadPos))
	}
	hePos, _ := loaded.WordPos("he")
	isPos, _ := loaded.WordPos("is")
	prob, ok := loaded.BigramProbability(hePos, isPos)
	require.True(t, ok)
	assert.Equal(t, uint8(200), prob)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xff, 0xff, 0xff, 0x01}, 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# comment\nthe 250\nthis 220\nnofreq\nhuge 9000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	trie, err := LoadTextFile(path)
	require.NoError(t, err)

	pos, ok := trie.WordPos("the")
	require.True(t, ok)
	assert.Equal(t, uint8(250), trie.Probability(pos))

	pos, ok = trie.WordPos("nofreq")
	require.True(t, ok)
	assert.Equal(t, uint8(1), trie.Probability(pos))

	pos, ok = trie.WordPos("huge")
	require.True(t, ok)
	assert.Equal(t, uint8(255), trie.Probability(pos), "frequency clamps to 255")
}
