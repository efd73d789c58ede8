package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"othello_go/internal/config"
	"othello_go/internal/ui"
)

func main() {
	const sampleRate = 44100

	configPath := flag.String("config", "othello.yaml", "YAML config file (missing file = defaults)")
	modeFlag := flag.String("mode", "", "pve (against the engine) or pvp; overrides config")
	sideFlag := flag.Int("side", 0, "human side in pve, 1 or 2; overrides config")
	budgetFlag := flag.Float64("time", 0, "engine seconds per move; overrides config")
	evalFlag := flag.Bool("eval", false, "show the evaluation breakdown")
	muteFlag := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *modeFlag != "" {
		cfg.UI.Mode = *modeFlag
	}
	if *sideFlag != 0 {
		cfg.UI.HumanSide = *sideFlag
	}
	if *budgetFlag > 0 {
		cfg.Search.TimeBudget = *budgetFlag
	}
	if *evalFlag {
		cfg.UI.ShowEval = true
	}
	if *muteFlag {
		cfg.UI.Sound = false
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	ctx := audio.NewContext(sampleRate)
	screen, err := ui.NewGameScreen(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer screen.Close()

	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(ui.WindowWidth, ui.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Othello")

	logger.Info("starting", "mode", cfg.UI.Mode, "human_side", cfg.UI.HumanSide, "time_budget", cfg.Search.TimeBudget)
	if err := ebiten.RunGame(screen); err != nil {
		log.Fatal(err)
	}
}
