// Package lexicon provides the read-only trie the search engine traverses.
//
// Node positions are plain int32 offsets into a frozen node array. Children of
// a node are stored contiguously, so iterating them is a bounds-checked slice
// walk with no allocation. A position from a corrupt file that points outside
// the array, or backwards (which would form a cycle), yields no children.
package lexicon

// NonePos marks "no position": no previous word, no attributes.
const NonePos int32 = -1

// Flags describe a single trie node.
type Flags uint8

const (
	FlagIsTerminal Flags = 1 << iota
	FlagHasChildren
	FlagBlacklisted
	FlagNotAWord
)

// Node is one frozen trie node. Fields are exported for the binary codec.
type Node struct {
	CodePoint   rune  `msgpack:"c"`
	ChildStart  int32 `msgpack:"s"`
	ChildCount  int32 `msgpack:"n"`
	Probability uint8 `msgpack:"p"`
	Flags       Flags `msgpack:"f"`
	AttrIndex   int32 `msgpack:"a"`
}

// Attributes carry the word-level data attached to a terminal node.
type Attributes struct {
	Blacklisted bool            `msgpack:"b"`
	NotAWord    bool            `msgpack:"n"`
	Shortcuts   []string        `msgpack:"s"`
	Bigrams     map[int32]uint8 `msgpack:"g"`
}

// Trie is the frozen lexicon. It is immutable after Build/Load; concurrent
// readers need no locking.
type Trie struct {
	nodes []Node
	attrs []Attributes
}

// RootPos returns the position of the synthetic root node.
func (t *Trie) RootPos() int32 {
	return 0
}

// NodeCount returns the number of nodes, terminals included.
func (t *Trie) NodeCount() int {
	return len(t.nodes)
}

// At returns the node at pos. ok is false for out-of-range positions.
func (t *Trie) At(pos int32) (Node, bool) {
	if pos < 0 || int(pos) >= len(t.nodes) {
		return Node{}, false
	}
	return t.nodes[pos], true
}

// Children returns the contiguous child range [first, first+count) of pos.
// A corrupt range (out of bounds, or not strictly after pos) yields (0, 0).
func (t *Trie) Children(pos int32) (first, count int32) {
	n, ok := t.At(pos)
	if !ok || n.Flags&FlagHasChildren == 0 {
		return 0, 0
	}
	first, count = n.ChildStart, n.ChildCount
	if first <= pos || count < 0 || int(first)+int(count) > len(t.nodes) {
		return 0, 0
	}
	return first, count
}

// Probability returns the unigram probability (0..255) of the word ending at
// pos, or 0 when pos is not a terminal.
func (t *Trie) Probability(pos int32) uint8 {
	n, ok := t.At(pos)
	if !ok || n.Flags&FlagIsTerminal == 0 {
		return 0
	}
	return n.Probability
}

// IsTerminal reports whether pos ends a complete word.
func (t *Trie) IsTerminal(pos int32) bool {
	n, ok := t.At(pos)
	return ok && n.Flags&FlagIsTerminal != 0
}

// BigramProbability returns the probability of the word at pos following the
// word at prevPos. ok is false when no bigram is recorded; callers fall back
// to the unigram probability.
func (t *Trie) BigramProbability(prevPos, pos int32) (uint8, bool) {
	n, okn := t.At(prevPos)
	if !okn || n.AttrIndex == NonePos || int(n.AttrIndex) >= len(t.attrs) {
		return 0, false
	}
	p, ok := t.attrs[n.AttrIndex].Bigrams[pos]
	return p, ok
}

// AttributesAt returns the attributes of the terminal at pos. Terminals
// without recorded attributes get the zero value.
func (t *Trie) AttributesAt(pos int32) Attributes {
	n, ok := t.At(pos)
	if !ok || n.AttrIndex == NonePos || int(n.AttrIndex) >= len(t.attrs) {
		return Attributes{}
	}
	return t.attrs[n.AttrIndex]
}

// WordPos walks the trie and returns the terminal position of word.
func (t *Trie) WordPos(word string) (int32, bool) {
	pos := t.RootPos()
	for _, r := range word {
		first, count := t.Children(pos)
		found := false
		for i := int32(0); i < count; i++ {
			if t.nodes[first+i].CodePoint == r {
				pos = first + i
				found = true
				break
			}
		}
		if !found {
			return NonePos, false
		}
	}
	if !t.IsTerminal(pos) {
		return NonePos, false
	}
	return pos, true
}
