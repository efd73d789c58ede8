package game

import (
	"fmt"
	"strconv"
	"strings"
)

// GameState is a live game: the board, the current legal-move list, the
// scores, and enough history to take moves back.
type GameState struct {
	Board    *Board
	Moves    MoveList // legal moves for Board.ToMove, {Pass} when blocked
	ScoreA   int
	ScoreB   int
	GameOver bool
	Winner   CellState // Empty on a draw or while the game runs

	history []Flips
}

// NewGameState starts a game from the standard opening.
func NewGameState() *GameState {
	return NewGameStateFrom(DefaultBoard())
}

// NewGameStateFrom continues a game from b. b is owned by the state afterwards.
func NewGameStateFrom(b *Board) *GameState {
	gs := &GameState{Board: b}
	gs.refresh()
	return gs
}

// CurrentPlayer is the side to move.
func (gs *GameState) CurrentPlayer() CellState { return gs.Board.ToMove }

// GetScores returns the disk counts (A, B).
func (gs *GameState) GetScores() (int, int) { return gs.ScoreA, gs.ScoreB }

// MakeMove plays the move with 1-based index into gs.Moves.
func (gs *GameState) MakeMove(index int) (Flips, error) {
	if gs.GameOver {
		return Flips{}, ErrGameOver
	}
	p, ok := gs.Moves.At(index)
	if !ok {
		return Flips{}, fmt.Errorf("%w: index %d, %d moves available", ErrIllegalMove, index, len(gs.Moves))
	}
	f := gs.Board.ApplyMove(p)
	gs.history = append(gs.history, f)
	gs.refresh()
	return f, nil
}

// Play plays p if it is in the legal-move list.
func (gs *GameState) Play(p Pos) (Flips, error) {
	idx := gs.Moves.Index(p)
	if idx == 0 {
		if gs.GameOver {
			return Flips{}, ErrGameOver
		}
		return Flips{}, fmt.Errorf("%w: %v", ErrIllegalMove, p)
	}
	return gs.MakeMove(idx)
}

// Undo takes back the last move, passes included.
func (gs *GameState) Undo() error {
	n := len(gs.history)
	if n == 0 {
		return ErrNothingToUndo
	}
	f := gs.history[n-1]
	gs.history = gs.history[:n-1]
	gs.Board.UndoMove(&f)
	gs.refresh()
	return nil
}

// CanUndo reports whether any move has been played.
func (gs *GameState) CanUndo() bool { return len(gs.history) > 0 }

// History lists the moves played so far, oldest first.
func (gs *GameState) History() []Pos {
	out := make([]Pos, len(gs.history))
	for i := range gs.history {
		out[i] = gs.history[i].Move
	}
	return out
}

// Reset returns to the standard opening.
func (gs *GameState) Reset() {
	*gs = *NewGameState()
}

// ResolveMove turns user input into a 1-based index: either the index
// itself, a coordinate such as "d3", or "pass".
func (gs *GameState) ResolveMove(in string) (int, error) {
	in = strings.TrimSpace(in)
	if n, err := strconv.Atoi(in); err == nil {
		if _, ok := gs.Moves.At(n); !ok {
			return 0, fmt.Errorf("%w: index %d, %d moves available", ErrIllegalMove, n, len(gs.Moves))
		}
		return n, nil
	}
	p, err := ParsePos(in)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	idx := gs.Moves.Index(p)
	if idx == 0 {
		return 0, fmt.Errorf("%w: %v is not in %v", ErrIllegalMove, p, gs.Moves)
	}
	return idx, nil
}

// refresh recomputes the move list, scores and the result.
func (gs *GameState) refresh() {
	b := gs.Board
	gs.Moves = GetMoves(b)
	gs.ScoreA, gs.ScoreB = b.CountA, b.CountB()
	gs.GameOver = gs.Moves.IsPass() && !HasMoves(b, Opponent(b.ToMove))
	gs.Winner = Empty
	if gs.GameOver {
		switch {
		case gs.ScoreA > gs.ScoreB:
			gs.Winner = PlayerA
		case gs.ScoreB > gs.ScoreA:
			gs.Winner = PlayerB
		}
	}
}
