package lexicon

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Sanity bound for the node-count header; anything above this is treated as
// a corrupt file rather than a huge lexicon.
const maxNodeCount = 50_000_000

type triePayload struct {
	Nodes []Node       `msgpack:"nodes"`
	Attrs []Attributes `msgpack:"attrs"`
}

// Save writes the frozen trie to path: a little-endian int32 node count
// header followed by the msgpack-encoded node and attribute arrays.
func Save(t *Trie, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create lexicon file %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := binary.Write(w, binary.LittleEndian, int32(len(t.nodes))); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := msgpack.NewEncoder(w).Encode(triePayload{Nodes: t.nodes, Attrs: t.attrs}); err != nil {
		return fmt.Errorf("failed to encode lexicon to %s: %w", path, err)
	}
	return w.Flush()
}

// Load reads a trie written by Save, validating the header before decoding.
func Load(path string) (*Trie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon file %s: %w", path, err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	var nodeCount int32
	if err := binary.Read(r, binary.LittleEndian, &nodeCount); err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	if nodeCount < 0 {
		return nil, fmt.Errorf("invalid node count in %s: %d (negative)", path, nodeCount)
	}
	if nodeCount > maxNodeCount {
		return nil, fmt.Errorf("suspicious node count in %s: %d (too large)", path, nodeCount)
	}

	var payload triePayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode lexicon from %s: %w", path, err)
	}
	if int32(len(payload.Nodes)) != nodeCount {
		return nil, fmt.Errorf("lexicon %s header says %d nodes, payload has %d",
			path, nodeCount, len(payload.Nodes))
	}

	log.Debugf("loaded lexicon %s: %d nodes", path, nodeCount)
	return &Trie{nodes: payload.Nodes, attrs: payload.Attrs}, nil
}

// LoadTextFile builds a trie from a plain "word frequency" per-line file.
// Lines starting with '#' and blank lines are skipped; a missing frequency
// defaults to 1 and values are clamped to 0..255.
func LoadTextFile(path string) (*Trie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	builder := NewBuilder()
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		freq := 1
		if len(fields) > 1 {
			freq, err = strconv.Atoi(fields[1])
			if err != nil {
				log.Warnf("bad frequency on line %d of %s: %v", lineNo, path, err)
				freq = 1
			}
		}
		if freq < 0 {
			freq = 0
		}
		if freq > 255 {
			freq = 255
		}
		builder.AddWord(fields[0], uint8(freq))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return builder.Build(), nil
}
