package suggest

import (
	"math"

	"github.com/bastiangx/touchserve/pkg/config"
	"github.com/bastiangx/touchserve/pkg/touch"
)

// Suggest is the top-level search driver. It is stateless apart from its
// policies; all mutable search state lives in the Session.
type Suggest struct {
	traversal Traversal
	scoring   Scoring
	weighting Weighting
}

// NewSuggest builds a driver with the default typing policies.
func NewSuggest(cfg *config.Config) *Suggest {
	return &Suggest{
		traversal: NewTypingTraversal(cfg),
		scoring:   NewTypingScoring(cfg),
		weighting: NewTypingWeighting(cfg),
	}
}

// NewSuggestWithPolicies builds a driver with explicit policies, for
// alternative layouts and languages.
func NewSuggestWithPolicies(tr Traversal, sc Scoring, w Weighting) *Suggest {
	return &Suggest{traversal: tr, scoring: sc, weighting: w}
}

// GetSuggestions runs one search over the touch trace and returns the ranked
// candidate list. Sequential calls whose typed prefixes extend each other
// continue the previous search instead of restarting at the root.
func (sg *Suggest) GetSuggestions(session *Session, pinfo *touch.ProximityInfo,
	in *Input) []Suggestion {
	session.setupForGetSuggestions(pinfo, in,
		sg.traversal.MaxSpatialDistance(), sg.traversal.MaxPointerCount())
	if !session.ProximityState(0).IsUsed() {
		return nil
	}

	sg.initializeSearch(session, in.CommitPoint)

	// Keep expanding search nodes until all have terminated.
	for session.cache.ActiveSize() > 0 {
		sg.expandCurrentDicNodes(session)
		session.cache.AdvanceActive()
		session.cache.AdvanceInputIndex(session.inputSize)
	}
	return sg.outputSuggestions(session)
}

// initializeSearch continues the previous search where possible, otherwise
// restarts recognition at the trie root.
func (sg *Suggest) initializeSearch(session *Session, commitPoint int) {
	if session.inputSize > MinContinuousSuggestionInputSize &&
		session.isContinuousSuggestionPossible() {
		if commitPoint == 0 {
			if session.cache.ContinueSearch(session.matchedPrefix) {
				return
			}
		} else if top := session.cache.SetCommitPoint(commitPoint); top != nil {
			session.prevWordPos = top.Pos()
			session.partiallyCommitted = true
			if session.cache.ContinueSearch(session.matchedPrefix) {
				return
			}
		}
	}

	session.cache.Reset(sg.traversal.MaxCacheSize(), MaxResults)
	var root DicNode
	root.initAsRoot(session.lex.RootPos(), session.prevWordPos)
	session.cache.PushActive(&root)
}

// expandCurrentDicNodes drains the active heap, advancing every node to its
// possible children for the current touch point (or via look-ahead
// correction when the node is lagging one point behind).
func (sg *Suggest) expandCurrentDicNodes(session *Session) {
	inputSize := session.inputSize
	shouldDepthLevelCache := sg.traversal.ShouldDepthLevelCache(session)
	if shouldDepthLevelCache {
		session.cache.UpdateLastCachedInputIndex()
	}

	var node, omissionNode DicNode
	for session.cache.PopActive(&node) {
		if node.isTotalInputSizeExceeding(inputSize) {
			continue
		}
		point0Index := node.InputIndex(0)
		canDoLookAhead := sg.traversal.CanDoLookAheadCorrection(session, &node)
		isLookAhead := canDoLookAhead &&
			session.cache.IsLookAheadCorrectionInputIndex(point0Index)
		isCompletion := node.IsCompletion(inputSize)

		if shouldDepthLevelCache || sg.traversal.ShouldNodeLevelCache(session, &node) {
			session.cache.PushContinue(&node)
			node.cached = true
		}

		if isLookAhead {
			// Deferred nodes have not consumed the latest touch point yet;
			// transposition and insertion need that point handled specially.
			if CorrectTransposition {
				sg.processDicNodeAsTransposition(session, &node)
			}
			if CorrectInsertion {
				sg.processDicNodeAsInsertion(session, &node)
			}
			continue
		}

		allowsErrorCorrections := sg.traversal.AllowsErrorCorrections(&node)
		if allowsErrorCorrections &&
			sg.traversal.IsSpaceSubstitutionTerminal(session, &node) {
			sg.createNextWordDicNode(session, &node, true)
		}

		session.childBuf = appendChildDicNodes(session.childBuf[:0], session, &node)
		for i := range session.childBuf {
			child := &session.childBuf[i]
			if isCompletion {
				// Forward lookahead: the lexicon letter exceeds the input.
				sg.processDicNodeAsMatch(session, child)
				continue
			}
			if allowsErrorCorrections && sg.traversal.IsOmission(session, &node, child) {
				omissionNode = *child
				sg.processDicNodeAsOmission(session, &omissionNode)
			}
			switch sg.traversal.GetProximityType(session, &node, child) {
			case touch.MatchChar, touch.ProximityChar:
				sg.processDicNodeAsMatch(session, child)
			case touch.AdditionalProximityChar:
				if allowsErrorCorrections {
					sg.processDicNodeAsAdditionalProximity(session, child)
				}
			case touch.SubstitutionChar:
				if allowsErrorCorrections {
					sg.processDicNodeAsSubstitution(session, child)
				}
			default:
				// Unrelated; drop the child.
			}
		}

		// Defer the node so look-ahead correction can fire on the next index.
		// Only nodes in step with the frontier are deferred, once each;
		// otherwise a lagging node would cycle through the heaps forever.
		if allowsErrorCorrections && canDoLookAhead &&
			point0Index == session.cache.InputIndex() {
			session.cache.PushNextActive(&node)
		}
	}
}

// processTerminalDicNode forks a completed word off into the terminal heap.
func (sg *Suggest) processTerminalDicNode(session *Session, node *DicNode) {
	if node.CompoundDistance(1) >= maxValueForWeighting {
		return
	}
	if !node.IsTerminalWordNode() {
		return
	}
	if sg.traversal.NeedsToTraverseAllUserInput() &&
		node.InputIndex(0) < session.inputSize {
		return
	}
	if node.shouldBeFilteredBySafetyNetForBigram() {
		return
	}
	terminal := *node
	terminal.cached = false
	sg.weighting.AddCost(CTTerminal, session, nil, &terminal)
	session.cache.PushTerminal(&terminal)
}

// processExpandedDicNode files the weighted child: terminal fork, space
// omission fork, and re-entry into the next-active heap when the trie
// continues below it.
func (sg *Suggest) processExpandedDicNode(session *Session, node *DicNode) {
	sg.processTerminalDicNode(session, node)
	if node.CompoundDistance(1) >= maxValueForWeighting {
		return
	}
	if sg.traversal.IsSpaceOmissionTerminal(session, node) {
		sg.createNextWordDicNode(session, node, false)
	}
	allowsLookAhead := !(node.HasMultipleWords() && node.IsCompletion(session.inputSize))
	// Childless terminals with input left re-enter once, so the pop-time
	// space-substitution check can still see them.
	expandable := node.hasChildren ||
		(node.isTerminal && node.InputIndex(0) < session.inputSize)
	if expandable && allowsLookAhead {
		session.cache.PushNextActive(node)
	}
}

func (sg *Suggest) processDicNodeAsMatch(session *Session, child *DicNode) {
	sg.weightChildNode(session, child)
	sg.processExpandedDicNode(session, child)
}

func (sg *Suggest) processDicNodeAsAdditionalProximity(session *Session, child *DicNode) {
	sg.weighting.AddCost(CTAdditionalProximity, session, nil, child)
	sg.processExpandedDicNode(session, child)
}

func (sg *Suggest) processDicNodeAsSubstitution(session *Session, child *DicNode) {
	sg.weighting.AddCost(CTSubstitution, session, nil, child)
	sg.processExpandedDicNode(session, child)
}

// processDicNodeAsOmission skips the node's letter without consuming input
// and weighs all possible next letters (e.g., ths => this). Apostrophes are
// zero-cost omissions. Checking the next letters, rather than accepting the
// skip unconditionally, keeps omission nodes from flooding the cache.
func (sg *Suggest) processDicNodeAsOmission(session *Session, omissionNode *DicNode) {
	omissionNode.zeroCostOmission = omissionNode.LastCodePoint() == '\''

	session.childBuf2 = appendChildDicNodes(session.childBuf2[:0], session, omissionNode)
	for i := range session.childBuf2 {
		child := &session.childBuf2[i]
		if !omissionNode.zeroCostOmission {
			sg.weighting.AddCost(CTOmission, session, omissionNode, child)
		}
		sg.weightChildNode(session, child)
		if !sg.traversal.IsPossibleOmissionChildNode(session, omissionNode, child) {
			continue
		}
		sg.processExpandedDicNode(session, child)
	}
}

// processDicNodeAsInsertion skips the current touch point and matches the
// node's children against the next one (e.g., thiis => this).
func (sg *Suggest) processDicNodeAsInsertion(session *Session, node *DicNode) {
	pointIndex := node.InputIndex(0)
	session.childBuf2 = appendProximityChildDicNodes(
		session.childBuf2[:0], session, node, pointIndex+1)
	for i := range session.childBuf2 {
		child := &session.childBuf2[i]
		sg.weighting.AddCost(CTInsertion, session, node, child)
		sg.processExpandedDicNode(session, child)
	}
}

// processDicNodeAsTransposition swaps the next two touch points
// (e.g., thsi => this).
func (sg *Suggest) processDicNodeAsTransposition(session *Session, node *DicNode) {
	pointIndex := node.InputIndex(0)
	session.childBuf2 = appendProximityChildDicNodes(
		session.childBuf2[:0], session, node, pointIndex+1)
	for i := range session.childBuf2 {
		first := &session.childBuf2[i]
		if !first.hasChildren {
			continue
		}
		session.childBuf3 = appendProximityChildDicNodes(
			session.childBuf3[:0], session, first, pointIndex)
		for j := range session.childBuf3 {
			second := &session.childBuf3[j]
			sg.weighting.AddCost(CTTransposition, session, first, second)
			sg.processExpandedDicNode(session, second)
		}
	}
}

// weightChildNode aligns the child to its touch point, or charges the
// completion penalty once the input is exhausted.
func (sg *Suggest) weightChildNode(session *Session, child *DicNode) {
	if child.IsCompletion(session.inputSize) {
		sg.weighting.AddCost(CTCompletion, session, nil, child)
		return
	}
	pt := session.ProximityState(0).Classify(child.InputIndex(0), child.LastCodePoint())
	if pt == touch.MatchChar {
		sg.weighting.AddCost(CTMatch, session, nil, child)
	} else {
		sg.weighting.AddCost(CTProximity, session, nil, child)
	}
}

// createNextWordDicNode starts a new word at the trie root, carrying the
// completed word as bigram context. spaceSubstitution additionally consumes
// the current touch point as the implicit space.
func (sg *Suggest) createNextWordDicNode(session *Session, node *DicNode,
	spaceSubstitution bool) {
	if !sg.traversal.IsGoodToTraverseNextWord(node) {
		return
	}
	var newNode DicNode
	newNode.initAsRootWithPreviousWord(session.lex.RootPos(), node)
	sg.weighting.AddCost(CTNewWord, session, node, &newNode)
	if spaceSubstitution {
		sg.weighting.AddCost(CTSpaceSubstitution, session, nil, &newNode)
	}
	session.cache.PushNextActive(&newNode)
}

// appendChildDicNodes materializes all trie children of parent. Paths at the
// word-length bound are abandoned.
func appendChildDicNodes(buf []DicNode, session *Session, parent *DicNode) []DicNode {
	if int(parent.depth) >= MaxWordLength-1 {
		return buf
	}
	first, count := session.lex.Children(parent.pos)
	for i := int32(0); i < count; i++ {
		childPos := first + i
		childNode, ok := session.lex.At(childPos)
		if !ok {
			continue
		}
		var child DicNode
		child.initAsChild(parent, childPos, childNode)
		buf = append(buf, child)
	}
	return buf
}

// appendProximityChildDicNodes keeps only children whose letter lines up
// with the touch point at pointIndex.
func appendProximityChildDicNodes(buf []DicNode, session *Session, parent *DicNode,
	pointIndex int) []DicNode {
	if pointIndex >= session.inputSize {
		return buf
	}
	state := session.ProximityState(0)
	if int(parent.depth) >= MaxWordLength-1 {
		return buf
	}
	first, count := session.lex.Children(parent.pos)
	for i := int32(0); i < count; i++ {
		childPos := first + i
		childNode, ok := session.lex.At(childPos)
		if !ok {
			continue
		}
		switch state.Classify(pointIndex, childNode.CodePoint) {
		case touch.MatchChar, touch.ProximityChar:
		default:
			continue
		}
		var child DicNode
		child.initAsChild(parent, childPos, childNode)
		buf = append(buf, child)
	}
	return buf
}

// outputSuggestions drains the terminal heap and emits the ranked list.
func (sg *Suggest) outputSuggestions(session *Session) []Suggestion {
	terminalSize := session.cache.TerminalSize()
	if terminalSize > MaxResults {
		terminalSize = MaxResults
	}
	terminals := make([]DicNode, terminalSize)
	for i := 0; i < terminalSize; i++ {
		session.cache.PopTerminal(&terminals[i])
	}

	languageWeight := sg.scoring.AdjustedLanguageWeight(session, terminals)

	out := make([]Suggestion, 0, MaxResults)
	mostProbable, hasMostProbable := sg.scoring.MostProbableString(
		session, terminals, languageWeight)
	if hasMostProbable {
		out = append(out, mostProbable)
	}

	doubleLetterIndex, doubleLetterLevel := sg.scoring.SearchWordWithDoubleLetter(terminals)

	maxScore := math.MinInt32
	emittedValidWord := false
	// Distinct expansion orders can reach the same terminal; emit each word
	// once, best occurrence first.
	emittedWords := make(map[string]bool, terminalSize)
	for ti := range terminals {
		if len(out) >= MaxResults {
			break
		}
		terminal := &terminals[ti]
		doubleLetterCost := sg.scoring.DoubleLetterDemotionCost(
			ti, doubleLetterIndex, doubleLetterLevel)
		compoundDistance := terminal.CompoundDistance(languageWeight) + doubleLetterCost
		attrs := session.lex.AttributesAt(terminal.pos)

		// Words with zero probability, blacklisted or not-a-word entries are
		// not suggested themselves, but their shortcuts still are.
		isValidWord := terminal.probability > 0 && !attrs.Blacklisted && !attrs.NotAWord

		isForceCommitMultiWords := sg.traversal.AllowPartialCommit() &&
			(session.partiallyCommitted ||
				(session.inputSize >= MinLenForMultiWordAutocorrect &&
					terminal.HasMultipleWords()))
		finalScore := sg.scoring.CalculateFinalScore(compoundDistance, session.inputSize,
			isForceCommitMultiWords || (isValidWord && sg.scoring.DoesAutoCorrectValidWord()))
		if finalScore > maxScore {
			maxScore = finalScore
		}

		word := terminal.OutputString()
		if isValidWord && !emittedWords[word] {
			emittedWords[word] = true
			sug := Suggestion{
				Word:           word,
				Score:          finalScore,
				Kind:           KindCorrection,
				EditCount:      terminal.EditCorrectionCount(),
				ProximityCount: terminal.ProximityCorrectionCount(),
			}
			if sg.traversal.AllowPartialCommit() && !emittedValidWord {
				sug.SpacePositions = terminal.SpacePositions()
				emittedValidWord = true
			}
			out = append(out, sug)
		}

		sameAsTyped := sg.traversal.SameAsTyped(session, terminal)
		for _, shortcut := range attrs.Shortcuts {
			if len(out) >= MaxResults {
				break
			}
			if emittedWords[shortcut] {
				continue
			}
			emittedWords[shortcut] = true
			kind := KindShortcut
			if sameAsTyped {
				kind = KindWhitelist
			}
			out = append(out, Suggestion{Word: shortcut, Score: finalScore - 1, Kind: kind})
		}
	}

	if hasMostProbable {
		sg.scoring.SafetyNet(&out[0], terminalSize, maxScore)
	}
	return out
}
