package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"othello_go/internal/config"
	"othello_go/internal/game"
	"othello_go/internal/search"
)

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	configPath string
	cfg        config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "analyze",
		Short: "Inspect Othello positions with the search engine",
		Long: `analyze reads a position in the load format (64 digits 0/1/2 row by
row from A1, then the side to move) from a file, or from stdin when the
file is "-" or omitted, and reports on it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")

	root.AddCommand(
		newMovesCmd(a),
		newEvalCmd(a),
		newPlayCmd(a),
		newDecideCmd(a),
		newServeCmd(a),
	)
	return root
}

// readPosition loads the board named by args[0], or stdin.
func readPosition(cmd *cobra.Command, args []string) (*game.Board, error) {
	if len(args) == 0 || args[0] == "-" {
		return game.LoadBoard(cmd.InOrStdin())
	}
	return game.LoadBoardFile(args[0])
}

func printBoard(w io.Writer, b *game.Board) {
	fmt.Fprintln(w, "  A B C D E F G H")
	for r := 0; r < game.Size; r++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d", r+1)
		for f := 0; f < game.Size; f++ {
			switch b.Cell(f, r) {
			case game.PlayerA:
				sb.WriteString(" X")
			case game.PlayerB:
				sb.WriteString(" O")
			default:
				sb.WriteString(" .")
			}
		}
		fmt.Fprintln(w, sb.String())
	}
	fmt.Fprintf(w, "X=%d O=%d, %v to move\n", b.CountA, b.CountB(), b.ToMove)
}

func newMovesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "moves [position]",
		Short: "List the legal moves in priority order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readPosition(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printBoard(out, b)
			if game.IsTerminal(b) {
				fmt.Fprintln(out, "game over")
				return nil
			}
			fmt.Fprintln(out, game.GetMoves(b))
			return nil
		},
	}
}

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [position]",
		Short: "Print the evaluation terms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readPosition(cmd, args)
			if err != nil {
				return err
			}
			ev := game.NewEvaluator(a.cfg.Eval)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ev.Breakdown(b))
			fmt.Fprintf(out, "side to move (%v): %d\n", b.ToMove, ev.ForSide(b, b.ToMove))
			fmt.Fprintf(out, "stable: X=%d O=%d\n", b.StableA, b.StableTotal-b.StableA)
			return nil
		},
	}
}

func newPlayCmd(a *app) *cobra.Command {
	var (
		from string
		save bool
	)
	cmd := &cobra.Command{
		Use:   "play moves...",
		Short: "Apply moves given as coordinates (d3) or list indices and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := game.DefaultBoard()
			if from != "" {
				var err error
				if b, err = readPosition(cmd, []string{from}); err != nil {
					return err
				}
			}
			gs := game.NewGameStateFrom(b)
			for _, mv := range args {
				idx, err := gs.ResolveMove(mv)
				if err != nil {
					return err
				}
				if _, err := gs.MakeMove(idx); err != nil {
					return err
				}
				// forced passes are implicit
				if !gs.GameOver && gs.Moves.IsPass() {
					if _, err := gs.MakeMove(1); err != nil {
						return err
					}
				}
			}
			out := cmd.OutOrStdout()
			if save {
				text, err := gs.Board.MarshalText()
				if err != nil {
					return err
				}
				_, err = out.Write(text)
				return err
			}
			printBoard(out, gs.Board)
			if gs.GameOver {
				fmt.Fprintf(out, "game over, winner %v\n", gs.Winner)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start from this position file (\"-\" for stdin) instead of the opening")
	cmd.Flags().BoolVar(&save, "save", false, "print the result in the load format instead")
	return cmd
}

func newDecideCmd(a *app) *cobra.Command {
	var (
		seconds float64
		depth   int
		trace   bool
	)
	cmd := &cobra.Command{
		Use:   "decide [position]",
		Short: "Run the engine and print its decision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readPosition(cmd, args)
			if err != nil {
				return err
			}
			if game.IsTerminal(b) {
				return fmt.Errorf("%w: no move to decide", game.ErrGameOver)
			}
			if cmd.Flags().Changed("time") {
				a.cfg.Search.TimeBudget = seconds
			}
			if depth > 0 {
				a.cfg.Search.MaxDepth = depth
			}
			if trace {
				shutdown, err := installTracer(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer shutdown(context.Background())
			}

			e := search.New(a.cfg.EngineOptions(a.log))
			d := e.DecideMove(cmd.Context(), b, a.cfg.Search.Budget())
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}
	cmd.Flags().Float64Var(&seconds, "time", 0, "seconds to think (default from config)")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum iteration depth (default from config)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the decision span to stderr")
	return cmd
}

// installTracer routes spans to w; shutdown flushes them.
func installTracer(w io.Writer) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
