package suggest

import (
	"testing"

	"github.com/bastiangx/touchserve/pkg/config"
	"github.com/bastiangx/touchserve/pkg/lexicon"
	"github.com/bastiangx/touchserve/pkg/touch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioLexicon() *lexicon.Trie {
	b := lexicon.NewBuilder()
	b.AddWord("this", 220)
	b.AddWord("these", 160)
	b.AddWord("that", 200)
	b.AddWord("is", 230)
	b.AddWord("he", 210)
	b.AddWord("the", 250)
	b.AddBigram("he", "is", 200)
	return b.Build()
}

func newTestEngine() (*Suggest, *touch.ProximityInfo) {
	return NewSuggest(config.DefaultConfig()), touch.NewProximityInfo(touch.Qwerty())
}

func runTyped(t *testing.T, sg *Suggest, session *Session, pinfo *touch.ProximityInfo,
	text string) []Suggestion {
	t.Helper()
	xs, ys, times := pinfo.Keyboard().TouchSequence(text)
	return sg.GetSuggestions(session, pinfo, &Input{
		XS: xs, YS: ys, Times: times, CodePoints: []rune(text),
	})
}

func findWord(results []Suggestion, word string) (Suggestion, bool) {
	for _, r := range results {
		if r.Word == word {
			return r, true
		}
	}
	return Suggestion{}, false
}

func TestExactMatchIsTopSuggestion(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	results := runTyped(t, sg, session, pinfo, "this")
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, "this", top.Word)
	assert.Equal(t, KindCorrection, top.Kind)
	assert.Zero(t, top.EditCount)
	assert.Zero(t, top.ProximityCount)
}

func TestOmissionRecovery(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	results := runTyped(t, sg, session, pinfo, "ths")
	sug, ok := findWord(results, "this")
	require.True(t, ok, "omitted-letter word must be recovered, got %v", results)
	assert.GreaterOrEqual(t, sug.EditCount, 1)
}

func TestTranspositionRecovery(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	results := runTyped(t, sg, session, pinfo, "thsi")
	sug, ok := findWord(results, "this")
	require.True(t, ok, "transposed word must be recovered, got %v", results)
	assert.GreaterOrEqual(t, sug.EditCount, 1)
}

func TestInsertionRecovery(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	results := runTyped(t, sg, session, pinfo, "thiis")
	sug, ok := findWord(results, "this")
	require.True(t, ok, "extra-letter word must be recovered, got %v", results)
	assert.GreaterOrEqual(t, sug.EditCount, 1)
}

func TestSpaceOmissionProducesMultiWord(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	results := runTyped(t, sg, session, pinfo, "hevis")
	var multi *Suggestion
	for i := range results {
		if results[i].Word == "he is" && results[i].SpacePositions != nil {
			multi = &results[i]
			break
		}
	}
	require.NotNil(t, multi, "missing multi-word suggestion in %v", results)
	assert.Equal(t, []int{2}, multi.SpacePositions)
}

func TestHeldDoubleLetterWinsAndDemotesOthers(t *testing.T) {
	b := lexicon.NewBuilder()
	b.AddWord("bell", 200)
	b.AddWord("bells", 180)
	trie := b.Build()

	sg, pinfo := newTestEngine()
	session := NewSession(trie)

	xs, ys, times := pinfo.Keyboard().TouchSequence("bell")
	// Hold the second 'l' well past the strong-dwell threshold.
	times[3] = times[2] + 500
	results := sg.GetSuggestions(session, pinfo, &Input{
		XS: xs, YS: ys, Times: times, CodePoints: []rune("bell"),
	})
	require.NotEmpty(t, results)
	assert.Equal(t, "bell", results[0].Word)

	bell, okBell := findWord(results, "bell")
	bells, okBells := findWord(results, "bells")
	require.True(t, okBell)
	if okBells {
		assert.Greater(t, bell.Score, bells.Score)
	}
}

func TestEmptyInputYieldsNoSuggestions(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	results := sg.GetSuggestions(session, pinfo, &Input{})
	assert.Empty(t, results)
}

func TestResultCountCapped(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	results := runTyped(t, sg, session, pinfo, "the")
	assert.LessOrEqual(t, len(results), MaxResults)
}

func TestDeterministicRanking(t *testing.T) {
	sg, pinfo := newTestEngine()

	first := runTyped(t, sg, NewSession(scenarioLexicon()), pinfo, "ths")
	second := runTyped(t, sg, NewSession(scenarioLexicon()), pinfo, "ths")
	assert.Equal(t, first, second)
}

func TestContinuationIsSubsetOfFreshSearch(t *testing.T) {
	sg, pinfo := newTestEngine()

	// Incremental: search the prefix, then append one touch and continue.
	session := NewSession(scenarioLexicon())
	runTyped(t, sg, session, pinfo, "thi")
	continued := runTyped(t, sg, session, pinfo, "this")

	fresh := runTyped(t, sg, NewSession(scenarioLexicon()), pinfo, "this")

	freshWords := make(map[string]bool, len(fresh))
	for _, r := range fresh {
		freshWords[r.Word] = true
	}
	require.NotEmpty(t, continued)
	for _, r := range continued {
		assert.True(t, freshWords[r.Word],
			"continued suggestion %q not produced by a fresh search", r.Word)
	}
	assert.Equal(t, fresh[0].Word, continued[0].Word)
}

func TestUnrelatedInputDegradesToEmpty(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	// No lexicon word aligns with this trace even via corrections.
	results := runTyped(t, sg, session, pinfo, "zzzzzz")
	for _, r := range results {
		assert.NotEqual(t, KindCorrection, r.Kind, "nothing plausible to correct to")
	}
}

func TestBlacklistedWordStillEmitsShortcut(t *testing.T) {
	b := lexicon.NewBuilder()
	b.AddWord("the", 250)
	b.MarkBlacklisted("the")
	b.AddShortcut("the", "The")
	trie := b.Build()

	sg, pinfo := newTestEngine()
	session := NewSession(trie)

	results := runTyped(t, sg, session, pinfo, "the")
	_, hasWord := findWord(results, "the")
	assert.False(t, hasWord, "blacklisted terminal must not be suggested")
	shortcut, hasShortcut := findWord(results, "The")
	require.True(t, hasShortcut, "shortcut of blacklisted word still emits")
	assert.Equal(t, KindWhitelist, shortcut.Kind)
}

func TestSpaceOmissionRecovery(t *testing.T) {
	sg, pinfo := newTestEngine()
	session := NewSession(scenarioLexicon())

	// No touch aims at the space bar at all; the break is purely omitted.
	results := runTyped(t, sg, session, pinfo, "heis")
	_, ok := findWord(results, "he is")
	require.True(t, ok, "omitted-space phrase must be recovered, got %v", results)
}
