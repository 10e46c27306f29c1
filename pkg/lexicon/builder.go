package lexicon

import (
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type wordEntry struct {
	probability uint8
	blacklisted bool
	notAWord    bool
	shortcuts   []string
}

// Builder accumulates words and bigrams, then freezes them into a Trie.
// Words are kept in a patricia trie so Build sees them deduplicated and in
// lexicographic order, which is what the contiguous-children layout needs.
type Builder struct {
	words   *patricia.Trie
	bigrams map[string]map[string]uint8
	count   int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		words:   patricia.NewTrie(),
		bigrams: make(map[string]map[string]uint8),
	}
}

// AddWord inserts word with a unigram probability in 0..255. Re-adding a word
// overwrites its probability and keeps its attributes.
func (b *Builder) AddWord(word string, probability uint8) {
	if word == "" {
		return
	}
	if item := b.words.Get(patricia.Prefix(word)); item != nil {
		item.(*wordEntry).probability = probability
		return
	}
	b.words.Insert(patricia.Prefix(word), &wordEntry{probability: probability})
	b.count++
}

// MarkBlacklisted flags word so it is never suggested directly.
func (b *Builder) MarkBlacklisted(word string) {
	if e := b.entry(word); e != nil {
		e.blacklisted = true
	}
}

// MarkNotAWord flags word as a shortcut-only entry.
func (b *Builder) MarkNotAWord(word string) {
	if e := b.entry(word); e != nil {
		e.notAWord = true
	}
}

// AddShortcut attaches a shortcut target to word.
func (b *Builder) AddShortcut(word, target string) {
	if e := b.entry(word); e != nil {
		e.shortcuts = append(e.shortcuts, target)
	}
}

// AddBigram records the probability of next following prev. Both words must
// also be added via AddWord; unknown words are dropped at Build time.
func (b *Builder) AddBigram(prev, next string, probability uint8) {
	m := b.bigrams[prev]
	if m == nil {
		m = make(map[string]uint8)
		b.bigrams[prev] = m
	}
	m[next] = probability
}

// WordCount returns the number of distinct words added so far.
func (b *Builder) WordCount() int {
	return b.count
}

func (b *Builder) entry(word string) *wordEntry {
	item := b.words.Get(patricia.Prefix(word))
	if item == nil {
		log.Warnf("attribute for unknown word %q ignored", word)
		return nil
	}
	return item.(*wordEntry)
}

type buildWord struct {
	runes []rune
	entry *wordEntry
}

type buildRange struct {
	pos   int32
	lo    int
	hi    int
	depth int
}

// Build freezes the accumulated words into an immutable Trie. Children are
// laid out contiguously in breadth-first order, so every child position is
// strictly greater than its parent's.
func (b *Builder) Build() *Trie {
	var words []buildWord
	b.words.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		words = append(words, buildWord{
			runes: []rune(string(prefix)),
			entry: item.(*wordEntry),
		})
		return nil
	})

	t := &Trie{nodes: make([]Node, 1, 2*len(words)+1)}
	t.nodes[0] = Node{AttrIndex: NonePos}
	posByWord := make(map[string]int32, len(words))

	queue := []buildRange{{pos: 0, lo: 0, hi: len(words), depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		lo := cur.lo
		if lo < cur.hi && len(words[lo].runes) == cur.depth {
			// The path to cur.pos spells this word.
			e := words[lo].entry
			n := &t.nodes[cur.pos]
			n.Flags |= FlagIsTerminal
			n.Probability = e.probability
			posByWord[string(words[lo].runes)] = cur.pos
			if e.blacklisted || e.notAWord || len(e.shortcuts) > 0 {
				n.AttrIndex = int32(len(t.attrs))
				t.attrs = append(t.attrs, Attributes{
					Blacklisted: e.blacklisted,
					NotAWord:    e.notAWord,
					Shortcuts:   e.shortcuts,
				})
			}
			lo++
		}
		if lo >= cur.hi {
			continue
		}

		childStart := int32(len(t.nodes))
		glo := lo
		for glo < cur.hi {
			r := words[glo].runes[cur.depth]
			ghi := glo
			for ghi < cur.hi && words[ghi].runes[cur.depth] == r {
				ghi++
			}
			t.nodes = append(t.nodes, Node{CodePoint: r, AttrIndex: NonePos})
			queue = append(queue, buildRange{
				pos:   int32(len(t.nodes) - 1),
				lo:    glo,
				hi:    ghi,
				depth: cur.depth + 1,
			})
			glo = ghi
		}
		parent := &t.nodes[cur.pos]
		parent.Flags |= FlagHasChildren
		parent.ChildStart = childStart
		parent.ChildCount = int32(len(t.nodes)) - childStart
	}

	b.resolveBigrams(t, posByWord)
	log.Debugf("built lexicon trie: %d words, %d nodes", len(words), len(t.nodes))
	return t
}

func (b *Builder) resolveBigrams(t *Trie, posByWord map[string]int32) {
	for prev, nexts := range b.bigrams {
		prevPos, ok := posByWord[prev]
		if !ok {
			log.Warnf("bigram context %q not in lexicon, dropped", prev)
			continue
		}
		n := &t.nodes[prevPos]
		if n.AttrIndex == NonePos {
			n.AttrIndex = int32(len(t.attrs))
			t.attrs = append(t.attrs, Attributes{})
		}
		attr := &t.attrs[n.AttrIndex]
		if attr.Bigrams == nil {
			attr.Bigrams = make(map[int32]uint8, len(nexts))
		}
		for next, prob := range nexts {
			nextPos, ok := posByWord[next]
			if !ok {
				log.Warnf("bigram target %q not in lexicon, dropped", next)
				continue
			}
			attr.Bigrams[nextPos] = prob
		}
	}
}
