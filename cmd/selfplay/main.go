// cmd/selfplay/main.go
// Engine-vs-engine self-play: binary sample chunks for offline training.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"othello_go/internal/config"
	"othello_go/internal/search"
)

func main() {
	numGames := flag.Int("n", 200, "games to play")
	workers := flag.Int("workers", 0, "concurrent games (default CPU/2, at least 1)")
	outDir := flag.String("out", "selfplay_out", "output directory")
	chunkSize := flag.Int("chunk", 5000, "samples per chunk")
	seconds := flag.Float64("time", 0.05, "engine seconds per move")
	randomOpen := flag.Int("random_open", 4, "random plies before the engine takes over")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	configPath := flag.String("config", "", "YAML config file (evaluation weights, logging)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	if *workers <= 0 {
		*workers = max(runtime.NumCPU()/2, 1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir %s: %v", *outDir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("selfplay",
		"games", *numGames, "workers", *workers, "out", *outDir,
		"chunk", *chunkSize, "time", *seconds, "seed", *seed)

	jobs := make(chan int, *workers*2)
	results := make(chan gameRecord, *workers)
	writer := newChunkWriter(*outDir, *chunkSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < *numGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	players := errgroup.Group{}
	for w := 0; w < *workers; w++ {
		rng := rand.New(rand.NewSource(*seed + int64(w)))
		opts := cfg.EngineOptions(logger.With("worker", w))
		opts.Rand = rng
		p := &player{
			engine:     search.New(opts),
			rng:        rng,
			budget:     search.BudgetFromSeconds(*seconds),
			randomOpen: *randomOpen,
		}
		players.Go(func() error {
			for range jobs {
				rec, err := p.playGame(gctx)
				if err != nil {
					return err
				}
				select {
				case results <- rec:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		err := players.Wait()
		close(results)
		return err
	})
	g.Go(func() error {
		return writer.run(results, logger)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	logger.Info("selfplay done", "games", writer.games, "samples", writer.total)
}
