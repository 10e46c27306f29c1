package touch

import (
	"math"
	"sort"
)

// ProximityType classifies how a code point relates to one touch point.
type ProximityType int

const (
	MatchChar ProximityType = iota
	ProximityChar
	AdditionalProximityChar
	SubstitutionChar
	UnrelatedChar
)

// DoubleLetterLevel classifies how strongly the touch trace indicates an
// intentional repeated letter.
type DoubleLetterLevel int

const (
	NotADoubleLetter DoubleLetterLevel = iota
	ADoubleLetter
	AStrongDoubleLetter
)

const (
	matchRadius      = 0.8
	proximityRadius  = 1.25
	additionalRadius = 1.8
	spaceRadius      = 1.4

	// Spatial cost per key width of separation.
	distanceCostScale = 0.15

	// Dwell beyond this on the same key reads as a held (strong) double.
	strongDwellMillis = 300
)

// ProximityInfo binds a keyboard layout to the proximity radii.
type ProximityInfo struct {
	kb *Keyboard
}

// NewProximityInfo wraps a keyboard for proximity queries.
func NewProximityInfo(kb *Keyboard) *ProximityInfo {
	return &ProximityInfo{kb: kb}
}

// Keyboard returns the underlying layout.
func (p *ProximityInfo) Keyboard() *Keyboard {
	return p.kb
}

// NearKey is one candidate key for a touch point, cheapest first.
type NearKey struct {
	CodePoint rune
	// Distance from the touch point in key widths.
	Distance float64
	// SpatialCost is the normalized alignment cost the weighting adds.
	SpatialCost float32
	Type        ProximityType
}

// State is the per-pointer view of a touch trace. It is rebuilt on every
// suggestion call and read-only during the search.
type State struct {
	xs, ys   []float64
	times    []int
	nearKeys [][]NearKey
	doubles  []DoubleLetterLevel
	used     bool
}

// Init smooths the trace into per-point near-key lists. maxDistance (in key
// widths) bounds which keys are considered at all; keys inside it but beyond
// the additional-proximity radius classify as substitutions.
func (st *State) Init(p *ProximityInfo, xs, ys, times []int, maxDistance float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	st.xs = st.xs[:0]
	st.ys = st.ys[:0]
	st.times = st.times[:0]
	st.nearKeys = st.nearKeys[:0]
	st.doubles = st.doubles[:0]
	st.used = n > 0

	for i := 0; i < n; i++ {
		x, y := float64(xs[i]), float64(ys[i])
		st.xs = append(st.xs, x)
		st.ys = append(st.ys, y)
		if i < len(times) {
			st.times = append(st.times, times[i])
		} else {
			st.times = append(st.times, 0)
		}

		var near []NearKey
		for _, k := range p.kb.keys {
			d, _ := p.kb.Distance(x, y, k.CodePoint)
			if d > maxDistance {
				continue
			}
			near = append(near, NearKey{
				CodePoint:   k.CodePoint,
				Distance:    d,
				SpatialCost: float32(d * distanceCostScale),
			})
		}
		sort.Slice(near, func(a, b int) bool {
			if near[a].Distance != near[b].Distance {
				return near[a].Distance < near[b].Distance
			}
			return near[a].CodePoint < near[b].CodePoint
		})
		for j := range near {
			near[j].Type = classifyTier(j == 0, near[j].Distance)
		}
		st.nearKeys = append(st.nearKeys, near)
	}

	for i := 0; i < n; i++ {
		st.doubles = append(st.doubles, st.detectDouble(i))
	}
}

func classifyTier(nearest bool, d float64) ProximityType {
	switch {
	case nearest && d <= matchRadius:
		return MatchChar
	case d <= proximityRadius:
		return ProximityChar
	case d <= additionalRadius:
		return AdditionalProximityChar
	default:
		return SubstitutionChar
	}
}

// IsUsed reports whether the trace holds any points.
func (st *State) IsUsed() bool {
	return st.used
}

// InputSize returns the number of touch points.
func (st *State) InputSize() int {
	return len(st.xs)
}

// NearKeys returns the candidate keys for point i, cheapest first.
func (st *State) NearKeys(i int) []NearKey {
	if i < 0 || i >= len(st.nearKeys) {
		return nil
	}
	return st.nearKeys[i]
}

// Classify relates cp to point i.
func (st *State) Classify(i int, cp rune) ProximityType {
	for _, nk := range st.NearKeys(i) {
		if nk.CodePoint == cp {
			return nk.Type
		}
	}
	return UnrelatedChar
}

// PointToKeyCost returns the spatial alignment cost of reading point i as cp.
// Unknown pairings cost a fixed 3.6 key widths (twice the
// additional-proximity radius).
func (st *State) PointToKeyCost(i int, cp rune) float32 {
	for _, nk := range st.NearKeys(i) {
		if nk.CodePoint == cp {
			return nk.SpatialCost
		}
	}
	return float32(additionalRadius * 2 * distanceCostScale)
}

// CouldBeSpace reports whether point i plausibly aimed at the space bar.
func (st *State) CouldBeSpace(i int) bool {
	for _, nk := range st.NearKeys(i) {
		if nk.CodePoint == ' ' {
			return nk.Distance <= spaceRadius
		}
	}
	return false
}

// DoubleLetterLevel returns the repeated-letter classification of the
// transition into point i.
func (st *State) DoubleLetterLevel(i int) DoubleLetterLevel {
	if i < 0 || i >= len(st.doubles) {
		return NotADoubleLetter
	}
	return st.doubles[i]
}

func (st *State) detectDouble(i int) DoubleLetterLevel {
	if i == 0 {
		return NotADoubleLetter
	}
	prev, cur := st.nearKeys[i-1], st.nearKeys[i]
	if len(prev) == 0 || len(cur) == 0 || prev[0].CodePoint != cur[0].CodePoint {
		return NotADoubleLetter
	}
	if st.times[i]-st.times[i-1] >= strongDwellMillis {
		return AStrongDoubleLetter
	}
	return ADoubleLetter
}

// RawTravel returns the key-travel between points i-1 and i in key widths.
func (st *State) RawTravel(i int) float32 {
	if i <= 0 || i >= len(st.xs) {
		return 0
	}
	return float32(math.Hypot(st.xs[i]-st.xs[i-1], st.ys[i]-st.ys[i-1]) / KeyWidth)
}
