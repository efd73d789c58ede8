package game

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapColours reloads b with the two sides exchanged, side to move included.
func swapColours(t *testing.T, b *Board) *Board {
	t.Helper()
	text, err := b.MarshalText()
	require.NoError(t, err)
	text = bytes.Map(func(r rune) rune {
		switch r {
		case '1':
			return '2'
		case '2':
			return '1'
		}
		return r
	}, text)
	sw, err := LoadBoard(bytes.NewReader(text))
	require.NoError(t, err)
	return sw
}

func TestEvaluateStartIsBalanced(t *testing.T) {
	e := NewEvaluator(DefaultEvalParams())
	bd := e.Breakdown(DefaultBoard())
	assert.Equal(t, PhaseMidgame, bd.Phase)
	assert.Zero(t, bd.Disk)
	assert.Zero(t, bd.Mobility)
	assert.Zero(t, bd.Potential)
	assert.Zero(t, bd.Square)
	assert.Zero(t, bd.Edge)
	assert.Zero(t, bd.Stability)
	assert.Zero(t, e.Evaluate(DefaultBoard()))
}

func TestEvaluateColourSymmetry(t *testing.T) {
	e := NewEvaluator(DefaultEvalParams())
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		b := randomPlayout(rng, rng.Intn(61))
		// compare two loaded boards so both carry fixpoint stability
		orig := swapColours(t, swapColours(t, b))
		sw := swapColours(t, b)
		require.Equal(t, -e.Evaluate(orig), e.Evaluate(sw), "position %d", i)
		require.Equal(t, e.ForSide(orig, PlayerA), e.ForSide(sw, PlayerB))
	}
}

func TestEvaluateEndgameIsDiskDifference(t *testing.T) {
	e := NewEvaluator(DefaultEvalParams())
	rng := rand.New(rand.NewSource(11))
	checked := 0
	for i := 0; i < 100; i++ {
		b := randomPlayout(rng, 70)
		if b.Total <= e.Params.LateMaxDisks {
			continue
		}
		checked++
		assert.Equal(t, PhaseEndgame, e.Phase(b))
		assert.Equal(t, 2*b.CountA-b.Total, e.Evaluate(b))
		assert.Equal(t, b.CountB()-b.CountA, e.ForSide(b, PlayerB))
	}
	assert.Positive(t, checked)
}

func TestPhaseThresholds(t *testing.T) {
	e := NewEvaluator(DefaultEvalParams())
	withDisks := func(n int) *Board {
		b := EmptyBoard()
		for i := 0; i < n; i++ {
			b.put(Squares[i], PlayerA)
		}
		return b
	}
	assert.Equal(t, PhaseMidgame, e.Phase(withDisks(32)))
	assert.Equal(t, PhaseLate, e.Phase(withDisks(33)))
	assert.Equal(t, PhaseLate, e.Phase(withDisks(54)))
	assert.Equal(t, PhaseEndgame, e.Phase(withDisks(55)))
}

func TestEdgePattern(t *testing.T) {
	const E, A, B = Empty, PlayerA, PlayerB
	cases := []struct {
		name string
		line [Size]CellState
		want int
	}{
		{"corner run of five", [Size]CellState{A, A, A, A, A, E, E, E}, 5*edgeRunDisk + edgeFourBonus},
		{"short corner run", [Size]CellState{A, A, E, E, E, E, E, E}, 2 * edgeRunDisk},
		{"c-square by open corner", [Size]CellState{E, A, E, E, E, E, E, E}, -edgeCSquareCost},
		{"wedge", [Size]CellState{B, A, E, A, E, E, E, E}, -edgeWedgeCost},
		{"nothing", [Size]CellState{E, E, E, B, B, E, E, E}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, edgePattern(tc.line, PlayerA))
		})
	}
}

func TestStrandedMobility(t *testing.T) {
	e := NewEvaluator(DefaultEvalParams())
	assert.Equal(t, -e.Params.StrandedPenalty, e.sideMobility(0))
	assert.Equal(t, -e.Params.StrandedPenalty, e.sideMobility(1))
	assert.Equal(t, 5, e.sideMobility(5))
}

func TestCornerOutscoresXSquare(t *testing.T) {
	e := NewEvaluator(DefaultEvalParams())
	corner := loadRows(t, "2",
		"10000000", "00000000", "00000000", "00012000",
		"00021000", "00000000", "00000000", "00000000")
	xsq := loadRows(t, "2",
		"00000000", "01000000", "00000000", "00012000",
		"00021000", "00000000", "00000000", "00000000")
	assert.Greater(t, e.Evaluate(corner), e.Evaluate(xsq))
	assert.Positive(t, e.Breakdown(corner).Square)
	assert.Negative(t, e.Breakdown(xsq).Square)
}

func TestEvalParamsValidate(t *testing.T) {
	require.NoError(t, DefaultEvalParams().Validate())

	p := DefaultEvalParams()
	p.MidgameMaxDisks = 60
	assert.Error(t, p.Validate())

	p = DefaultEvalParams()
	p.Late.Mobility = -1
	assert.Error(t, p.Validate())

	p = DefaultEvalParams()
	p.LateMaxDisks = 65
	assert.Error(t, p.Validate())
}
