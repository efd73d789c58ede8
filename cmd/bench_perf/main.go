// cmd/bench_perf/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"othello_go/internal/game"
	"othello_go/internal/search"
)

func main() {
	profile := flag.String("cpuprofile", "cpu_search.prof", "CPU profile output")
	seconds := flag.Float64("time", 0.5, "engine seconds per move")
	depth := flag.Int("depth", 0, "maximum iteration depth (0 = engine default)")
	seed := flag.Int64("seed", 1, "tie-break seed")
	flag.Parse()

	f, err := os.Create(*profile)
	if err != nil {
		fmt.Println("could not create CPU profile: ", err)
		return
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		fmt.Println("could not start CPU profile: ", err)
		return
	}
	defer pprof.StopCPUProfile()

	fmt.Println("Starting full game search benchmark...")

	e := search.New(search.Options{
		Rand:     rand.New(rand.NewSource(*seed)),
		MaxDepth: *depth,
	})
	budget := search.BudgetFromSeconds(*seconds)
	st := game.NewGameState()

	var nodes int64
	start := time.Now()
	for ply := 1; !st.GameOver; ply++ {
		d := e.DecideMove(context.Background(), st.Board, budget)
		nodes += d.Nodes
		fmt.Printf("ply %2d %v: %v depth=%d score=%d nodes=%d %v\n",
			ply, st.CurrentPlayer(), d.Move, d.Depth, d.Score, d.Nodes, d.Elapsed.Round(time.Millisecond))
		if _, err := st.MakeMove(d.Index); err != nil {
			fmt.Println("move failed:", err)
			return
		}
	}
	elapsed := time.Since(start)

	a, b := st.GetScores()
	fmt.Printf("Final score %d-%d, total time %v, %d nodes (%.0f nodes/s)\n",
		a, b, elapsed, nodes, float64(nodes)/elapsed.Seconds())
	fmt.Printf("Profile saved to %s. Run 'go tool pprof -http=:8080 %s' to view it.\n", *profile, *profile)
}
