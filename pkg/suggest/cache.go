package suggest

import (
	"container/heap"
)

// dicNodeHeap is a bounded min-heap of DicNodes keyed by normalized compound
// distance. When full, a better incoming node evicts the current worst; a
// worse one is dropped.
type dicNodeHeap struct {
	nodes   []DicNode
	maxSize int
}

func (h *dicNodeHeap) Len() int { return len(h.nodes) }

func (h *dicNodeHeap) Less(i, j int) bool { return compareDicNodes(&h.nodes[i], &h.nodes[j]) }

func (h *dicNodeHeap) Swap(i, j int) { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }

func (h *dicNodeHeap) Push(x any) { h.nodes = append(h.nodes, x.(DicNode)) }

func (h *dicNodeHeap) Pop() any {
	n := len(h.nodes) - 1
	out := h.nodes[n]
	h.nodes = h.nodes[:n]
	return out
}

func (h *dicNodeHeap) reset(maxSize int) {
	h.nodes = h.nodes[:0]
	h.maxSize = maxSize
}

func (h *dicNodeHeap) worstIndex() int {
	wi := 0
	for i := 1; i < len(h.nodes); i++ {
		if compareDicNodes(&h.nodes[wi], &h.nodes[i]) {
			wi = i
		}
	}
	return wi
}

// boundedPush copies n into the heap, honoring the size bound. Ties keep the
// resident node so insertion order cannot leak into the ranking.
func (h *dicNodeHeap) boundedPush(n *DicNode) bool {
	if h.maxSize > 0 && len(h.nodes) >= h.maxSize {
		wi := h.worstIndex()
		if !compareDicNodes(n, &h.nodes[wi]) {
			return false
		}
		heap.Remove(h, wi)
	}
	heap.Push(h, *n)
	return true
}

func (h *dicNodeHeap) popBest(out *DicNode) bool {
	if len(h.nodes) == 0 {
		return false
	}
	*out = heap.Pop(h).(DicNode)
	return true
}

// cacheSnapshot preserves frontier nodes cached while the search was at one
// input depth, for continuing a later search that shares the prefix.
type cacheSnapshot struct {
	inputIndex int
	nodes      []DicNode
}

// Cache is the search frontier: the active heap for the current input index,
// the next-active heap being populated for the index ahead, the terminal heap
// of candidate completions, and the continuation snapshots.
type Cache struct {
	active     dicNodeHeap
	nextActive dicNodeHeap
	terminal   dicNodeHeap

	snapshots            []cacheSnapshot
	inputIndex           int
	lastCachedInputIndex int
}

// Reset clears all heaps and continuation state.
func (c *Cache) Reset(maxCacheSize, maxTerminals int) {
	c.active.reset(maxCacheSize)
	c.nextActive.reset(maxCacheSize)
	c.terminal.reset(maxTerminals)
	c.snapshots = c.snapshots[:0]
	c.inputIndex = 0
	c.lastCachedInputIndex = 0
}

// PushActive copies n into the active heap.
func (c *Cache) PushActive(n *DicNode) bool { return c.active.boundedPush(n) }

// PushNextActive copies n into the heap for the next input index.
func (c *Cache) PushNextActive(n *DicNode) bool { return c.nextActive.boundedPush(n) }

// PushTerminal copies n into the terminal heap.
func (c *Cache) PushTerminal(n *DicNode) bool { return c.terminal.boundedPush(n) }

// PopActive moves the best active node into out.
func (c *Cache) PopActive(out *DicNode) bool { return c.active.popBest(out) }

// PopTerminal moves the best terminal into out.
func (c *Cache) PopTerminal(out *DicNode) bool { return c.terminal.popBest(out) }

// ActiveSize returns the current frontier size.
func (c *Cache) ActiveSize() int { return c.active.Len() }

// TerminalSize returns the number of candidate completions held.
func (c *Cache) TerminalSize() int { return c.terminal.Len() }

// AdvanceActive promotes the next-active heap to active.
func (c *Cache) AdvanceActive() {
	c.active.nodes, c.nextActive.nodes = c.nextActive.nodes, c.active.nodes[:0]
}

// AdvanceInputIndex moves the internal input-depth counter forward, capped at
// the input size.
func (c *Cache) AdvanceInputIndex(inputSize int) {
	if c.inputIndex < inputSize {
		c.inputIndex++
	}
}

// InputIndex returns the input depth the frontier is currently consuming.
func (c *Cache) InputIndex() int { return c.inputIndex }

// UpdateLastCachedInputIndex records that the current depth got a snapshot.
func (c *Cache) UpdateLastCachedInputIndex() { c.lastCachedInputIndex = c.inputIndex }

// IsLookAheadCorrectionInputIndex reports whether a node that has consumed i
// points has yet to consume the latest touch point, the position from which
// look-ahead corrections fire.
func (c *Cache) IsLookAheadCorrectionInputIndex(i int) bool {
	return i == c.lastCachedInputIndex-1
}

// PushContinue snapshots n into the continuation cache at the current depth.
func (c *Cache) PushContinue(n *DicNode) {
	var snap *cacheSnapshot
	if len(c.snapshots) > 0 && c.snapshots[len(c.snapshots)-1].inputIndex == c.inputIndex {
		snap = &c.snapshots[len(c.snapshots)-1]
	} else {
		c.snapshots = append(c.snapshots, cacheSnapshot{inputIndex: c.inputIndex})
		snap = &c.snapshots[len(c.snapshots)-1]
	}
	if len(snap.nodes) >= LookAheadDicNodesCacheSize {
		wi := 0
		for i := 1; i < len(snap.nodes); i++ {
			if compareDicNodes(&snap.nodes[wi], &snap.nodes[i]) {
				wi = i
			}
		}
		if !compareDicNodes(n, &snap.nodes[wi]) {
			return
		}
		snap.nodes[wi] = *n
		return
	}
	snap.nodes = append(snap.nodes, *n)
}

// ContinueSearch restores the deepest continuation snapshot compatible with
// the matched input prefix into the active heap. Deeper snapshots are
// invalidated. Returns false when nothing can be restored.
func (c *Cache) ContinueSearch(matchedInputSize int) bool {
	best := -1
	for i := range c.snapshots {
		if c.snapshots[i].inputIndex <= matchedInputSize {
			if best < 0 || c.snapshots[i].inputIndex > c.snapshots[best].inputIndex {
				best = i
			}
		}
	}
	if best < 0 {
		return false
	}
	snap := &c.snapshots[best]
	c.active.nodes = c.active.nodes[:0]
	c.nextActive.nodes = c.nextActive.nodes[:0]
	c.terminal.nodes = c.terminal.nodes[:0]
	for i := range snap.nodes {
		node := snap.nodes[i]
		node.cached = false
		c.active.boundedPush(&node)
	}
	c.snapshots = c.snapshots[:best+1]
	c.inputIndex = snap.inputIndex
	c.lastCachedInputIndex = snap.inputIndex
	return true
}

// SetCommitPoint commits the first k words of the current top-1 multi-word
// path: the frontier is pruned to that path's descendants and rebased past
// the committed prefix. Returns the committed head, whose position becomes
// the caller's new previous-word context, or nil when no path qualifies.
func (c *Cache) SetCommitPoint(k int) *DicNode {
	if k <= 0 {
		return nil
	}
	best := c.findCommitHead(k)
	if best == nil {
		return nil
	}
	prefixLen := best.spaceIndices[k-1]
	committed := *best
	committed.pos = best.prevWordsPos[k-1]
	committed.depth = prefixLen
	committed.spaceCount = int16(k - 1)

	c.pruneToCommit(&c.active, best, k, prefixLen)
	c.pruneToCommit(&c.nextActive, best, k, prefixLen)
	c.pruneToCommit(&c.terminal, best, k, prefixLen)
	for i := range c.snapshots {
		pruneNodesToCommit(&c.snapshots[i].nodes, best, k, prefixLen)
	}
	return &committed
}

func (c *Cache) findCommitHead(k int) *DicNode {
	var best *DicNode
	for _, h := range []*dicNodeHeap{&c.terminal, &c.active} {
		for i := range h.nodes {
			n := &h.nodes[i]
			if int(n.spaceCount) < k {
				continue
			}
			if best == nil || compareDicNodes(n, best) {
				best = n
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

func (c *Cache) pruneToCommit(h *dicNodeHeap, head *DicNode, k int, prefixLen int16) {
	pruneNodesToCommit(&h.nodes, head, k, prefixLen)
	heap.Init(h)
}

func pruneNodesToCommit(nodes *[]DicNode, head *DicNode, k int, prefixLen int16) {
	kept := (*nodes)[:0]
	for i := range *nodes {
		n := (*nodes)[i]
		if !sharesCommittedPrefix(&n, head, k, prefixLen) {
			continue
		}
		rebasePastCommit(&n, k, prefixLen)
		kept = append(kept, n)
	}
	*nodes = kept
}

func sharesCommittedPrefix(n, head *DicNode, k int, prefixLen int16) bool {
	if int(n.spaceCount) < k || n.spaceIndices[k-1] != prefixLen {
		return false
	}
	for i := int16(0); i < prefixLen; i++ {
		if n.word[i] != head.word[i] {
			return false
		}
	}
	return true
}

func rebasePastCommit(n *DicNode, k int, prefixLen int16) {
	copy(n.word[:], n.word[prefixLen:n.depth])
	n.depth -= prefixLen
	for i := int(0); i < int(n.spaceCount)-k; i++ {
		n.spaceIndices[i] = n.spaceIndices[i+k] - prefixLen
		n.prevWordsPos[i] = n.prevWordsPos[i+k]
	}
	n.spaceCount -= int16(k)
}
