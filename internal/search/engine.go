// Package search picks moves with iterative-deepening negamax under a wall
// clock budget.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"othello_go/internal/game"
)

const (
	// Inf bounds every score, terminal ones included.
	Inf = 1 << 30
	// TerminalScore is added to a won final position's disk margin (and
	// subtracted for a lost one) so finished games outrank any static score.
	TerminalScore = 1 << 20

	DefaultMaxDepth = 64
	ctxPollMask     = 1<<10 - 1
)

// Options configures an Engine. Zero fields get defaults in New.
type Options struct {
	Evaluator *game.Evaluator
	// Rand breaks ties between equal moves. Seed it for reproducible play.
	Rand     *rand.Rand
	Now      func() time.Time
	Logger   *slog.Logger
	MaxDepth int
}

// Engine decides moves. It is not safe for concurrent use because the random
// source is shared; give each goroutine its own Engine.
type Engine struct {
	eval     *game.Evaluator
	rng      *rand.Rand
	now      func() time.Time
	log      *slog.Logger
	maxDepth int
}

func New(opts Options) *Engine {
	e := &Engine{
		eval:     opts.Evaluator,
		rng:      opts.Rand,
		now:      opts.Now,
		log:      opts.Logger,
		maxDepth: opts.MaxDepth,
	}
	if e.eval == nil {
		e.eval = game.NewEvaluator(game.DefaultEvalParams())
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	if e.maxDepth <= 0 {
		e.maxDepth = DefaultMaxDepth
	}
	return e
}

// Evaluator returns the evaluator the engine scores leaves with.
func (e *Engine) Evaluator() *game.Evaluator { return e.eval }

// BudgetFromSeconds converts the shell's float seconds to a Duration.
// Negative and NaN budgets become zero.
func BudgetFromSeconds(sec float64) time.Duration {
	if math.IsNaN(sec) || sec <= 0 {
		return 0
	}
	if sec > math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(sec * float64(time.Second))
}

// Decision is the result of one DecideMove call.
type Decision struct {
	Index int      // 1-based index into game.GetMoves(b)
	Move  game.Pos // the move at Index
	// Score is the root value, from the mover's view, of the deepest
	// completed iteration. Zero when nothing was searched.
	Score int
	Depth int // deepest completed iteration

	Searched  bool // false on the single-move fast path
	Exhausted bool // the whole remaining game tree was seen
	TimedOut  bool // the budget or ctx ended the last iteration

	Nodes   int64
	Elapsed time.Duration
}

func (d Decision) String() string {
	return fmt.Sprintf("move %d (%v) score=%d depth=%d nodes=%d elapsed=%v searched=%t exhausted=%t timeout=%t",
		d.Index, d.Move, d.Score, d.Depth, d.Nodes, d.Elapsed, d.Searched, d.Exhausted, d.TimedOut)
}

// IsTerminalScore reports whether v came from a finished game rather than
// the static evaluation.
func IsTerminalScore(v int) bool {
	return v >= TerminalScore || v <= -TerminalScore
}

// DecideMove picks a move for b.ToMove within budget. b is not modified.
// A ctx deadline earlier than the budget wins; cancelling ctx stops the
// search like an expired budget.
func (e *Engine) DecideMove(ctx context.Context, b *game.Board, budget time.Duration) Decision {
	start := e.now()
	moves := game.GetMoves(b)
	if len(moves) == 1 {
		d := Decision{Index: 1, Move: moves[0]}
		observeDecision(d)
		e.log.Debug("single legal move", slog.String("move", moves[0].String()))
		return d
	}

	ctx, span := startDecideSpan(ctx, b, budget)
	defer span.End()

	s := &session{
		ctx:      ctx,
		eval:     e.eval,
		rng:      e.rng,
		now:      e.now,
		deadline: start.Add(budget),
	}
	if dl, ok := ctx.Deadline(); ok && dl.Before(s.deadline) {
		s.deadline = dl
	}

	root := *b
	d := Decision{Index: 1, Move: moves[0], Searched: true}
	for depth := 1; depth <= e.maxDepth; depth++ {
		r := s.negamax(depth, depth, &root, -Inf, Inf)
		if r == 0 {
			d.TimedOut = true
			break
		}
		idx := r
		if r < 0 {
			idx = -r
		}
		d.Index, d.Move, d.Score, d.Depth = idx, moves[idx-1], s.rootScore, depth
		e.log.Debug("depth complete",
			slog.Int("depth", depth),
			slog.String("move", d.Move.String()),
			slog.Int("score", d.Score),
			slog.Int64("nodes", s.nodes))
		if r < 0 {
			d.Exhausted = true
			break
		}
	}
	d.Nodes = s.nodes
	d.Elapsed = e.now().Sub(start)

	observeDecision(d)
	endDecideSpan(span, d)
	e.log.Info("decision",
		slog.String("side", b.ToMove.String()),
		slog.String("move", d.Move.String()),
		slog.Int("index", d.Index),
		slog.Int("score", d.Score),
		slog.Int("depth", d.Depth),
		slog.Int64("nodes", d.Nodes),
		slog.Duration("elapsed", d.Elapsed),
		slog.Bool("exhausted", d.Exhausted),
		slog.Bool("timeout", d.TimedOut))
	return d
}

// session is the state of one DecideMove call.
type session struct {
	ctx      context.Context
	eval     *game.Evaluator
	rng      *rand.Rand
	now      func() time.Time
	deadline time.Time

	nodes     int64
	leafEvals int64
	aborted   bool
	rootScore int
}

// expired checks the clock on every node and ctx every 1024 nodes.
func (s *session) expired() bool {
	if s.aborted {
		return true
	}
	s.nodes++
	if s.now().After(s.deadline) {
		s.aborted = true
		return true
	}
	if s.nodes&ctxPollMask == 0 {
		select {
		case <-s.ctx.Done():
			s.aborted = true
			return true
		default:
		}
	}
	return false
}

// negamax returns, at the root (d == maxd), the 1-based index of the best
// move, its negation when every line was played to the end, or 0 when the
// search was aborted. Below the root it returns the value of b for b.ToMove,
// best+1 after a beta cutoff, and 0 on abort.
func (s *session) negamax(d, maxd int, b *game.Board, alpha, beta int) int {
	if s.expired() {
		return 0
	}
	root := d == maxd

	if !root && game.IsTerminal(b) {
		return terminalScore(b)
	}
	if d == 0 {
		s.leafEvals++
		return s.eval.ForSide(b, b.ToMove)
	}

	leavesBefore := s.leafEvals
	moves := game.GetMoves(b)
	best, bestIdx, ties, flagged := -Inf, 0, 0, 0
	for i, m := range moves {
		child := *b
		child.ApplyMove(m)
		v := -s.negamax(d-1, maxd, &child, -beta, -alpha)
		if s.aborted {
			return 0
		}
		if root && IsTerminalScore(v) {
			flagged++
		}

		switch {
		case v > best:
			best, bestIdx, ties = v, i+1, 1
		case v == best:
			ties++
			if s.rng.Intn(ties) == 0 {
				bestIdx = i + 1
			}
		}
		if best > alpha {
			alpha = best
		}
		if best > beta {
			if root {
				s.rootScore = best
				return bestIdx
			}
			return best + 1
		}
	}

	if !root {
		return best
	}
	s.rootScore = best
	if flagged == len(moves) || s.leafEvals == leavesBefore {
		return -bestIdx
	}
	return bestIdx
}

// terminalScore scores a finished game for b.ToMove. A draw scores 0.
func terminalScore(b *game.Board) int {
	diff := b.CountPieces(b.ToMove) - b.CountPieces(game.Opponent(b.ToMove))
	switch {
	case diff > 0:
		return diff + TerminalScore
	case diff < 0:
		return diff - TerminalScore
	}
	return 0
}
