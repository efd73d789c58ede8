package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func posNames(ml MoveList) []string {
	out := make([]string, len(ml))
	for i, p := range ml {
		out[i] = p.String()
	}
	return out
}

func TestOpeningMoves(t *testing.T) {
	b := DefaultBoard()
	assert.Equal(t, []string{"D3", "C4", "F5", "E6"}, posNames(GetMoves(b)))
	assert.Equal(t, 4, CountMoves(b, PlayerA))

	b.ToMove = PlayerB
	assert.Equal(t, []string{"E3", "F4", "C5", "D6"}, posNames(GetMoves(b)))
	assert.Equal(t, 4, CountMoves(b, PlayerB))
}

func TestMoveOrderCoversBoard(t *testing.T) {
	seen := map[Pos]bool{}
	for _, p := range moveOrder {
		require.True(t, p.OnBoard())
		seen[p] = true
	}
	assert.Len(t, seen, Size*Size)
	assert.Equal(t, At(0, 0), moveOrder[0])
	assert.Equal(t, mustPos(t, "G7"), moveOrder[Size*Size-1])
}

func TestPassIsNotTerminal(t *testing.T) {
	// side 2 is blocked, side 1 can still play C1
	b := loadRows(t, "2",
		"12000000", "00000000", "00000000", "00000000",
		"00000000", "00000000", "00000000", "00000000")
	moves := GetMoves(b)
	assert.True(t, moves.IsPass())
	assert.False(t, HasMoves(b, PlayerB))
	assert.Zero(t, CountMoves(b, PlayerB))
	assert.False(t, IsTerminal(b))
	assert.True(t, IsLegal(b, Pass))

	f := b.ApplyMove(Pass)
	assert.Zero(t, f.Count())
	assert.Equal(t, PlayerA, b.ToMove)
	assert.Equal(t, []string{"C1"}, posNames(GetMoves(b)))
	assert.False(t, IsLegal(b, Pass))
}

func TestTerminal(t *testing.T) {
	b := loadRows(t, "1",
		"11000000", "00000000", "00000000", "00000000",
		"00000000", "00000000", "00000000", "00000000")
	assert.True(t, IsTerminal(b))
	assert.True(t, GetMoves(b).IsPass())
}

func TestMoveListIndex(t *testing.T) {
	ml := GetMoves(DefaultBoard())
	p, ok := ml.At(1)
	require.True(t, ok)
	assert.Equal(t, "D3", p.String())
	_, ok = ml.At(0)
	assert.False(t, ok)
	_, ok = ml.At(5)
	assert.False(t, ok)
	assert.Equal(t, 4, ml.Index(mustPos(t, "E6")))
	assert.Zero(t, ml.Index(mustPos(t, "A1")))
	assert.Equal(t, "1.D3 2.C4 3.F5 4.E6", ml.String())
}

func TestApplyMoveFlips(t *testing.T) {
	b := DefaultBoard()
	f := b.ApplyMove(mustPos(t, "d3"))
	require.NoError(t, b.Validate())

	assert.Equal(t, []Pos{mustPos(t, "d4")}, f.Cells())
	assert.Equal(t, PlayerA, f.Mover)
	assert.Equal(t, 4, b.CountA)
	assert.Equal(t, 1, b.CountB())
	assert.Equal(t, PlayerB, b.ToMove)
	assert.Equal(t, mustPos(t, "d3"), b.LastMove)
}

func TestApplyMoveMultipleDirections(t *testing.T) {
	// A placed on D4 flips C4, D3, E5 and F6 in three directions
	b := loadRows(t, "1",
		"00000000", "00010000", "00020000", "01200000",
		"00002000", "00000200", "00000010", "00000000")
	f := b.ApplyMove(mustPos(t, "d4"))
	require.NoError(t, b.Validate())
	assert.ElementsMatch(t, []Pos{mustPos(t, "c4"), mustPos(t, "d3"), mustPos(t, "e5"), mustPos(t, "f6")}, f.Cells())
	assert.Zero(t, b.CountB())
}

func TestApplyUndoRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for g := 0; g < 40; g++ {
		b := DefaultBoard()
		for !IsTerminal(b) {
			before := *b
			moves := GetMoves(b)
			m := moves[rng.Intn(len(moves))]

			f := b.ApplyMove(m)
			require.NoError(t, b.Validate())
			if m != Pass {
				require.Equal(t, before.Total+1, b.Total)
				require.Equal(t, f.Mover, b.CellAt(m))
				require.Positive(t, f.Count())
			}

			// stable disks stay put and keep their colour
			for _, p := range Squares {
				if before.stable[p] {
					require.True(t, b.stable[p], "%v lost stability", p)
					require.Equal(t, before.cells[p], b.cells[p], "stable %v flipped", p)
				}
			}

			after := *b
			b.UndoMove(&f)
			require.Equal(t, before, *b)
			*b = after
		}
	}
}

func TestIsLegal(t *testing.T) {
	b := DefaultBoard()
	assert.True(t, IsLegal(b, mustPos(t, "d3")))
	assert.False(t, IsLegal(b, mustPos(t, "a1")))
	assert.False(t, IsLegal(b, mustPos(t, "d4")))
	assert.False(t, IsLegal(b, Pass))
	assert.False(t, IsLegal(b, NoPos))
}
