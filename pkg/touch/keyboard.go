// Package touch models keyboard geometry and per-point proximity for the
// suggestion engine. A Keyboard holds key centers in pixel coordinates; a
// State smooths one pointer's touch trace into near-key lists and spatial
// costs the search consumes.
package touch

import "math"

// KeyWidth is the logical key width in pixels. All spatial costs are
// normalized by it so layouts of any physical size behave the same.
const KeyWidth = 10.0

// Key is a single key center on the layout.
type Key struct {
	CodePoint rune
	X, Y      float64
	// HalfWidth lets wide keys (the space bar) claim a larger hit area.
	HalfWidth float64
}

// Keyboard is an immutable set of key centers.
type Keyboard struct {
	keys   []Key
	byCode map[rune]int
}

// NewKeyboard builds a keyboard from explicit key centers.
func NewKeyboard(keys []Key) *Keyboard {
	kb := &Keyboard{keys: keys, byCode: make(map[rune]int, len(keys))}
	for i, k := range keys {
		if kb.keys[i].HalfWidth == 0 {
			kb.keys[i].HalfWidth = KeyWidth / 2
		}
		kb.byCode[k.CodePoint] = i
	}
	return kb
}

var qwertyRows = []struct {
	letters string
	xOffset float64
	y       float64
}{
	{"qwertyuiop", 0, 5},
	{"asdfghjkl", 5, 15},
	{"zxcvbnm", 15, 25},
}

// Qwerty returns the builtin QWERTY layout, space bar included.
func Qwerty() *Keyboard {
	var keys []Key
	for _, row := range qwertyRows {
		for i, r := range row.letters {
			keys = append(keys, Key{
				CodePoint: r,
				X:         row.xOffset + float64(i)*KeyWidth + KeyWidth/2,
				Y:         row.y,
			})
		}
	}
	keys = append(keys, Key{CodePoint: ' ', X: 50, Y: 35, HalfWidth: 30})
	return NewKeyboard(keys)
}

// KeyCenter returns the center of the key for cp.
func (kb *Keyboard) KeyCenter(cp rune) (x, y float64, ok bool) {
	i, ok := kb.byCode[cp]
	if !ok {
		return 0, 0, false
	}
	return kb.keys[i].X, kb.keys[i].Y, true
}

// Distance returns the distance from (x, y) to the key for cp in key widths,
// or ok=false when cp is not on the layout. The space bar measures from its
// nearest edge rather than its center.
func (kb *Keyboard) Distance(x, y float64, cp rune) (float64, bool) {
	i, ok := kb.byCode[cp]
	if !ok {
		return 0, false
	}
	k := kb.keys[i]
	dx := math.Max(0, math.Abs(x-k.X)-(k.HalfWidth-KeyWidth/2))
	dy := y - k.Y
	return math.Hypot(dx, dy) / KeyWidth, true
}

// TouchSequence synthesizes a touch trace centered on the keys of text, one
// point every 120ms. Unknown code points touch (0, 0). Used by the CLI debug
// mode and tests.
func (kb *Keyboard) TouchSequence(text string) (xs, ys, times []int) {
	t := 0
	for _, r := range text {
		x, y, _ := kb.KeyCenter(r)
		xs = append(xs, int(x))
		ys = append(ys, int(y))
		times = append(times, t)
		t += 120
	}
	return xs, ys, times
}
