package touch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initState(t *testing.T, xs, ys, times []int) *State {
	t.Helper()
	var st State
	st.Init(NewProximityInfo(Qwerty()), xs, ys, times, 4.0)
	return &st
}

func TestQwertyGeometry(t *testing.T) {
	kb := Qwerty()

	x, y, ok := kb.KeyCenter('q')
	require.True(t, ok)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 5.0, y)

	_, _, ok = kb.KeyCenter('é')
	assert.False(t, ok)

	d, ok := kb.Distance(5, 5, 'q')
	require.True(t, ok)
	assert.InDelta(t, 0.0, d, 1e-9)

	d, _ = kb.Distance(5, 5, 'w')
	assert.InDelta(t, 1.0, d, 1e-9, "adjacent key is one key width away")

	// The space bar measures from its edge, not its center.
	d, _ = kb.Distance(30, 35, ' ')
	assert.InDelta(t, 0.0, d, 1e-9)
}

func TestClassificationTiers(t *testing.T) {
	// A touch just off the center of 't'.
	st := initState(t, []int{47}, []int{8}, []int{0})

	assert.Equal(t, MatchChar, st.Classify(0, 't'))
	assert.Equal(t, ProximityChar, st.Classify(0, 'g'))
	assert.Equal(t, AdditionalProximityChar, st.Classify(0, 'h'))
	assert.Equal(t, SubstitutionChar, st.Classify(0, 'b'))
	assert.Equal(t, UnrelatedChar, st.Classify(0, 'p'), "beyond the spatial bound")
	assert.Equal(t, UnrelatedChar, st.Classify(0, 'é'), "not on the layout")
}

func TestNearKeysOrderedByCost(t *testing.T) {
	st := initState(t, []int{45}, []int{5}, []int{0})

	near := st.NearKeys(0)
	require.NotEmpty(t, near)
	assert.Equal(t, 't', near[0].CodePoint)
	for i := 1; i < len(near); i++ {
		assert.GreaterOrEqual(t, near[i].SpatialCost, near[i-1].SpatialCost)
	}
	assert.Nil(t, st.NearKeys(5))
}

func TestPointToKeyCost(t *testing.T) {
	st := initState(t, []int{45}, []int{5}, []int{0})

	assert.Zero(t, st.PointToKeyCost(0, 't'))
	assert.Greater(t, st.PointToKeyCost(0, 'r'), float32(0))
	assert.Greater(t, st.PointToKeyCost(0, 'é'), st.PointToKeyCost(0, 'r'),
		"off-layout keys cost the most")
}

func TestCouldBeSpace(t *testing.T) {
	// 'v' sits one key above the space bar; 't' is far from it.
	vx, vy, _ := Qwerty().KeyCenter('v')
	tx, ty, _ := Qwerty().KeyCenter('t')
	st := initState(t, []int{int(vx), int(tx)}, []int{int(vy), int(ty)}, []int{0, 120})

	assert.True(t, st.CouldBeSpace(0))
	assert.False(t, st.CouldBeSpace(1))
}

func TestDoubleLetterDetection(t *testing.T) {
	lx, ly, _ := Qwerty().KeyCenter('l')
	kx, ky, _ := Qwerty().KeyCenter('k')

	st := initState(t,
		[]int{int(lx), int(lx), int(lx), int(kx)},
		[]int{int(ly), int(ly), int(ly), int(ky)},
		[]int{0, 100, 600, 720})

	assert.Equal(t, NotADoubleLetter, st.DoubleLetterLevel(0))
	assert.Equal(t, ADoubleLetter, st.DoubleLetterLevel(1), "quick retap")
	assert.Equal(t, AStrongDoubleLetter, st.DoubleLetterLevel(2), "held key")
	assert.Equal(t, NotADoubleLetter, st.DoubleLetterLevel(3), "different key")
}

func TestStateUsedAndSize(t *testing.T) {
	var st State
	st.Init(NewProximityInfo(Qwerty()), nil, nil, nil, 4.0)
	assert.False(t, st.IsUsed())
	assert.Zero(t, st.InputSize())

	st2 := initState(t, []int{5, 15}, []int{5, 5}, []int{0, 120})
	assert.True(t, st2.IsUsed())
	assert.Equal(t, 2, st2.InputSize())
	assert.Greater(t, st2.RawTravel(1), float32(0))
	assert.Zero(t, st2.RawTravel(0))
}

func TestTouchSequence(t *testing.T) {
	xs, ys, times := Qwerty().TouchSequence("ab")
	require.Len(t, xs, 2)
	ax, ay, _ := Qwerty().KeyCenter('a')
	assert.Equal(t, int(ax), xs[0])
	assert.Equal(t, int(ay), ys[0])
	assert.Less(t, times[0], times[1])
}