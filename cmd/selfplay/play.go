package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"othello_go/internal/game"
	"othello_go/internal/search"
)

type sample struct {
	state  [game.TensorLen]float32
	policy int // game.PolicyIndex of the move played
	side   game.CellState
}

// gameRecord is one finished game, samples in play order.
type gameRecord struct {
	id      uuid.UUID
	samples []sample
	winner  game.CellState
	scoreA  int
	scoreB  int
}

// value is the outcome from s.side's view: 1, -1 or 0.
func (r *gameRecord) value(s sample) int8 {
	switch r.winner {
	case game.Empty:
		return 0
	case s.side:
		return 1
	}
	return -1
}

type player struct {
	engine     *search.Engine
	rng        *rand.Rand
	budget     time.Duration
	randomOpen int
}

// playGame plays one game; forced passes are recorded as samples with the
// pass policy index.
func (p *player) playGame(ctx context.Context) (gameRecord, error) {
	rec := gameRecord{id: uuid.New()}
	gs := game.NewGameState()

	for ply := 0; !gs.GameOver; ply++ {
		if err := ctx.Err(); err != nil {
			return rec, err
		}
		side := gs.CurrentPlayer()
		idx := 1
		switch {
		case gs.Moves.IsPass():
		case ply < p.randomOpen:
			idx = p.rng.Intn(len(gs.Moves)) + 1
		default:
			idx = p.engine.DecideMove(ctx, gs.Board, p.budget).Index
		}
		rec.samples = append(rec.samples, sample{
			state:  game.EncodeBoardTensor(gs.Board, side),
			policy: game.PolicyIndex(gs.Moves[idx-1]),
			side:   side,
		})
		if _, err := gs.MakeMove(idx); err != nil {
			return rec, err
		}
	}
	rec.winner = gs.Winner
	rec.scoreA, rec.scoreB = gs.GetScores()
	return rec, nil
}
