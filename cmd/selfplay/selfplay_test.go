package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"othello_go/internal/game"
	"othello_go/internal/search"
)

func newTestPlayer(seed int64) *player {
	rng := rand.New(rand.NewSource(seed))
	return &player{
		engine:     search.New(search.Options{Rand: rng, MaxDepth: 1}),
		rng:        rng,
		budget:     time.Minute,
		randomOpen: 4,
	}
}

func TestPlayGameRecordsEveryPly(t *testing.T) {
	rec, err := newTestPlayer(3).playGame(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rec.samples)
	assert.NotEqual(t, uuid.Nil, rec.id)
	assert.LessOrEqual(t, rec.scoreA+rec.scoreB, 64)

	// replaying the recorded policies reaches the same result
	gs := game.NewGameState()
	for i, s := range rec.samples {
		require.Equal(t, gs.CurrentPlayer(), s.side, "ply %d", i)
		require.Equal(t, game.EncodeBoardTensor(gs.Board, s.side), s.state, "ply %d", i)
		idx := 0
		for j, m := range gs.Moves {
			if game.PolicyIndex(m) == s.policy {
				idx = j + 1
			}
		}
		require.NotZero(t, idx, "ply %d", i)
		_, err := gs.MakeMove(idx)
		require.NoError(t, err)
	}
	assert.True(t, gs.GameOver)
	assert.Equal(t, rec.winner, gs.Winner)
}

func TestPlayGameStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestPlayer(1).playGame(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordValue(t *testing.T) {
	rec := gameRecord{winner: game.PlayerB}
	assert.Equal(t, int8(1), rec.value(sample{side: game.PlayerB}))
	assert.Equal(t, int8(-1), rec.value(sample{side: game.PlayerA}))
	rec.winner = game.Empty
	assert.Equal(t, int8(0), rec.value(sample{side: game.PlayerA}))
}

func TestChunkWriterSplitsChunks(t *testing.T) {
	dir := t.TempDir()
	w := newChunkWriter(dir, 3)

	rec := gameRecord{id: uuid.New(), winner: game.PlayerA}
	b := game.DefaultBoard()
	for i := 0; i < 5; i++ {
		m := game.GetMoves(b)[0]
		rec.samples = append(rec.samples, sample{
			state:  game.EncodeBoardTensor(b, b.ToMove),
			policy: game.PolicyIndex(m),
			side:   b.ToMove,
		})
		b.ApplyMove(m)
	}

	ch := make(chan gameRecord, 1)
	ch <- rec
	close(ch)
	require.NoError(t, w.run(ch, slog.New(slog.DiscardHandler)))
	assert.Equal(t, 1, w.games)
	assert.Equal(t, 5, w.total)

	chunks := []struct {
		base   string
		n      int
		offset int
	}{{"chunk_00001", 3, 0}, {"chunk_00002", 2, 3}}
	for _, c := range chunks {
		base, n := c.base, c.n
		st, err := os.Stat(filepath.Join(dir, base+"_X.bin"))
		require.NoError(t, err)
		assert.Equal(t, int64(n*game.TensorLen*4), st.Size())

		st, err = os.Stat(filepath.Join(dir, base+"_P.bin"))
		require.NoError(t, err)
		assert.Equal(t, int64(n*game.PolicyLen*4), st.Size())

		z, err := os.ReadFile(filepath.Join(dir, base+"_Z.bin"))
		require.NoError(t, err)
		require.Len(t, z, n)
		for i, v := range z {
			// side A moved on even plies and won
			want := int8(-1)
			if (c.offset+i)%2 == 0 {
				want = 1
			}
			assert.Equal(t, want, int8(v), "%s sample %d", base, i)
		}

		raw, err := os.ReadFile(filepath.Join(dir, base+"_meta.json"))
		require.NoError(t, err)
		var meta chunkMeta
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, n, meta.Samples)
		assert.Equal(t, []string{rec.id.String()}, meta.Games)
		assert.Equal(t, game.TensorLen, meta.TensorLen)
	}
}
