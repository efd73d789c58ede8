// Duels between the full evaluation and one with a single term switched off
// in one phase, to see what each term is worth.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"othello_go/internal/game"
	"othello_go/internal/search"
)

var (
	samples    = flag.Int("n", 20, "game pairs per ablation")
	seconds    = flag.Float64("time", 0.02, "engine seconds per move")
	depth      = flag.Int("depth", 4, "maximum iteration depth")
	randomOpen = flag.Int("random_open", 4, "random opening plies")
	seed       = flag.Int64("seed", time.Now().UnixNano(), "random seed")
)

var terms = []string{"disk", "mobility", "potential", "square", "edge", "stability"}

// ablate returns p with term zeroed in phase.
func ablate(p game.EvalParams, phase game.Phase, term string) game.EvalParams {
	w := &p.Midgame
	if phase == game.PhaseLate {
		w = &p.Late
	}
	switch term {
	case "disk":
		w.Disk = 0
	case "mobility":
		w.Mobility = 0
	case "potential":
		w.Potential = 0
	case "square":
		w.Square = 0
	case "edge":
		w.Edge = 0
	case "stability":
		w.Stability = 0
	}
	return p
}

// fullScore is the full evaluator's match score in percent, draws counting
// half. No games scores 0.
func fullScore(w, l, d int) float64 {
	n := w + l + d
	if n == 0 {
		return 0
	}
	return 100 * (float64(w) + 0.5*float64(d)) / float64(n)
}

// randomOpening plays n random plies from the start.
func randomOpening(rng *rand.Rand, n int) *game.Board {
	b := game.DefaultBoard()
	for i := 0; i < n && !game.IsTerminal(b); i++ {
		moves := game.GetMoves(b)
		b.ApplyMove(moves[rng.Intn(len(moves))])
	}
	return b
}

// duel plays b to the end, side A with engines[0]; it returns A's disk margin.
func duel(b0 *game.Board, engines [2]*search.Engine, budget time.Duration) int {
	b := *b0
	for !game.IsTerminal(&b) {
		e := engines[0]
		if b.ToMove == game.PlayerB {
			e = engines[1]
		}
		d := e.DecideMove(context.Background(), &b, budget)
		b.ApplyMove(d.Move)
	}
	return b.CountA - b.CountB()
}

func main() {
	flag.Parse()
	if *samples < 1 {
		fmt.Fprintln(os.Stderr, "-n must be at least 1")
		os.Exit(2)
	}
	rng := rand.New(rand.NewSource(*seed))
	budget := search.BudgetFromSeconds(*seconds)
	base := game.DefaultEvalParams()

	newEngine := func(p game.EvalParams) *search.Engine {
		return search.New(search.Options{
			Evaluator: game.NewEvaluator(p),
			Rand:      rand.New(rand.NewSource(rng.Int63())),
			MaxDepth:  *depth,
		})
	}

	for _, phase := range []game.Phase{game.PhaseMidgame, game.PhaseLate} {
		for _, term := range terms {
			full, cut := newEngine(base), newEngine(ablate(base, phase, term))
			w, l, d := 0, 0, 0
			for i := 0; i < *samples; i++ {
				start := randomOpening(rng, *randomOpen)
				// each opening is played with both colour assignments
				for _, margin := range []int{
					duel(start, [2]*search.Engine{full, cut}, budget),
					-duel(start, [2]*search.Engine{cut, full}, budget),
				} {
					switch {
					case margin > 0:
						w++
					case margin < 0:
						l++
					default:
						d++
					}
				}
			}
			fmt.Printf("[%v -%s] full wins=%d ablated wins=%d draws=%d | full score %.1f%%\n",
				phase, term, w, l, d, fullScore(w, l, d))
		}
	}
}

// go build -o phase_ablation ./cmd/phase_ablation
