package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMove(t *testing.T) {
	gs := NewGameState()

	idx, err := gs.ResolveMove("d3")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = gs.ResolveMove(" E6 ")
	require.NoError(t, err)
	assert.Equal(t, 4, idx)

	idx, err = gs.ResolveMove("2")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	for _, bad := range []string{"0", "5", "a1", "zz", "pass"} {
		_, err := gs.ResolveMove(bad)
		assert.ErrorIs(t, err, ErrIllegalMove, bad)
	}
}

func TestMakeMoveAndUndo(t *testing.T) {
	gs := NewGameState()
	f, err := gs.MakeMove(1)
	require.NoError(t, err)
	assert.Equal(t, mustPos(t, "d3"), f.Move)
	assert.Equal(t, PlayerB, gs.CurrentPlayer())
	a, b := gs.GetScores()
	assert.Equal(t, 4, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, []Pos{mustPos(t, "d3")}, gs.History())
	assert.True(t, gs.CanUndo())

	require.NoError(t, gs.Undo())
	assert.Equal(t, *DefaultBoard(), *gs.Board)
	assert.Equal(t, []string{"D3", "C4", "F5", "E6"}, posNames(gs.Moves))
	assert.ErrorIs(t, gs.Undo(), ErrNothingToUndo)

	_, err = gs.MakeMove(9)
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = gs.Play(mustPos(t, "a1"))
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestGameOverFromLoadedBoard(t *testing.T) {
	b := loadRows(t, "2",
		"11000000", "00000000", "00000000", "00000000",
		"00000000", "00000000", "00000000", "00000000")
	gs := NewGameStateFrom(b)
	assert.True(t, gs.GameOver)
	assert.Equal(t, PlayerA, gs.Winner)

	_, err := gs.MakeMove(1)
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = gs.Play(Pass)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestRandomGameThenUndoAll(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	gs := NewGameState()
	for !gs.GameOver {
		_, err := gs.MakeMove(rng.Intn(len(gs.Moves)) + 1)
		require.NoError(t, err)
		require.Equal(t, gs.Board.Total, gs.ScoreA+gs.ScoreB)
	}
	switch {
	case gs.ScoreA > gs.ScoreB:
		assert.Equal(t, PlayerA, gs.Winner)
	case gs.ScoreB > gs.ScoreA:
		assert.Equal(t, PlayerB, gs.Winner)
	default:
		assert.Equal(t, Empty, gs.Winner)
	}

	for gs.CanUndo() {
		require.NoError(t, gs.Undo())
	}
	assert.Equal(t, *DefaultBoard(), *gs.Board)
	assert.False(t, gs.GameOver)
}

func TestReset(t *testing.T) {
	gs := NewGameState()
	_, err := gs.MakeMove(2)
	require.NoError(t, err)
	gs.Reset()
	assert.Equal(t, *DefaultBoard(), *gs.Board)
	assert.False(t, gs.CanUndo())
}

func TestEncodeBoardTensor(t *testing.T) {
	b := DefaultBoard()
	tensor := EncodeBoardTensor(b, PlayerA)
	var mine, theirs, legal float32
	for i := 0; i < PlaneLen; i++ {
		mine += tensor[i]
		theirs += tensor[PlaneLen+i]
		legal += tensor[2*PlaneLen+i]
	}
	assert.Equal(t, float32(2), mine)
	assert.Equal(t, float32(2), theirs)
	assert.Equal(t, float32(4), legal)

	d3 := mustPos(t, "d3")
	assert.Equal(t, float32(1), tensor[2*PlaneLen+PolicyIndex(d3)])
	assert.Equal(t, 2*Size+3, PolicyIndex(d3))
	assert.Equal(t, PlaneLen, PolicyIndex(Pass))
}
