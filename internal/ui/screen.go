// File /ui/screen.go
package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"golang.org/x/image/font/basicfont"

	"othello_go/internal/assets"
	"othello_go/internal/config"
	"othello_go/internal/game"
	"othello_go/internal/search"
)

var fontFace = basicfont.Face7x13

const (
	WindowWidth  = 800
	WindowHeight = 600

	passDelay   = 700 * time.Millisecond
	engineDelay = 300 * time.Millisecond // pause before the engine answers
)

type flipAnim struct {
	start time.Time
	cells []game.Pos
}

type aiResult struct {
	gen int
	d   search.Decision
}

// GameScreen implements ebiten.Game around a game.GameState.
type GameScreen struct {
	state  *game.GameState
	engine *search.Engine
	cfg    config.Config
	log    *slog.Logger
	audio  *assets.AudioManager
	power  *powerSaver

	disks       map[game.CellState]*ebiten.Image
	hintImg     *ebiten.Image
	thinkingImg *ebiten.Image
	offscreen   *ebiten.Image
	boardBaked  *ebiten.Image

	engineSide game.CellState // Empty when both sides are human
	showHints  bool
	showEval   bool

	anims  []flipAnim
	note   string
	passAt time.Time // when a pending forced pass is played
	moveAt time.Time // earliest time the engine may start

	engineMu     sync.Mutex // one search at a time, the engine is not reentrant
	aiRunning    bool
	aiGen        int
	aiCancel     context.CancelFunc
	aiResultCh   chan aiResult
	lastDecision *search.Decision
}

// NewGameScreen builds the screen from cfg. ctx may be nil for a silent game.
func NewGameScreen(ctx *audio.Context, cfg config.Config, logger *slog.Logger) (*GameScreen, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	gs := &GameScreen{
		state:      game.NewGameState(),
		engine:     search.New(cfg.EngineOptions(logger)),
		cfg:        cfg,
		log:        logger,
		power:      newPowerSaver(cfg.UI.PowerSave),
		disks:      make(map[game.CellState]*ebiten.Image),
		showHints:  cfg.UI.ShowHints,
		showEval:   cfg.UI.ShowEval,
		aiResultCh: make(chan aiResult, 1),
	}
	if cfg.UI.Mode == "pve" {
		gs.engineSide = game.Opponent(cfg.UI.HumanPlayer())
	}

	var err error
	if gs.disks[game.PlayerA], err = assets.LoadSprite(assets.SpriteDiskA, diskPx); err != nil {
		return nil, err
	}
	if gs.disks[game.PlayerB], err = assets.LoadSprite(assets.SpriteDiskB, diskPx); err != nil {
		return nil, err
	}
	if gs.hintImg, err = assets.LoadSprite(assets.SpriteHint, cellPx/3); err != nil {
		return nil, err
	}
	if gs.thinkingImg, err = assets.LoadSprite(assets.SpriteThinking, 40); err != nil {
		return nil, err
	}
	if gs.audio, err = assets.NewAudioManager(ctx, cfg.UI.SoundDir, cfg.UI.Sound); err != nil {
		return nil, fmt.Errorf("init audio: %w", err)
	}

	gs.offscreen = ebiten.NewImage(WindowWidth, WindowHeight)
	gs.boardBaked = bakeBoard()
	gs.moveAt = time.Now().Add(engineDelay)
	return gs, nil
}

func (gs *GameScreen) engineToMove() bool {
	return gs.engineSide != game.Empty && gs.state.CurrentPlayer() == gs.engineSide
}

// playIndex plays the 1-based legal move idx and starts its animation.
func (gs *GameScreen) playIndex(idx int) {
	mover := gs.state.CurrentPlayer()
	f, err := gs.state.MakeMove(idx)
	if err != nil {
		gs.log.Warn("move rejected", slog.Int("index", idx), slog.Any("err", err))
		gs.audio.Play(assets.SoundInvalid)
		return
	}
	now := time.Now()
	gs.note = ""
	if f.Move == game.Pass {
		gs.note = sideName(mover) + " passed"
		gs.audio.Play(assets.SoundPass)
	} else {
		gs.anims = append(gs.anims, flipAnim{start: now, cells: append([]game.Pos(nil), f.Cells()...)})
		gs.audio.Play(assets.SoundPlace)
	}
	gs.moveAt = now.Add(engineDelay)
	gs.passAt = time.Time{}
	gs.log.Debug("move played",
		slog.String("side", mover.String()),
		slog.String("move", f.Move.String()),
		slog.Int("flipped", f.Count()))

	if gs.state.GameOver {
		a, b := gs.state.GetScores()
		gs.audio.Play(assets.SoundGameOver)
		gs.log.Info("game over",
			slog.Int("score_a", a),
			slog.Int("score_b", b),
			slog.String("winner", gs.state.Winner.String()))
	}
}

// cancelEngine abandons a running search; its result is dropped by gen.
func (gs *GameScreen) cancelEngine() {
	gs.aiGen++
	if gs.aiCancel != nil {
		gs.aiCancel()
		gs.aiCancel = nil
	}
	gs.aiRunning = false
}

func (gs *GameScreen) startEngine() {
	ctx, cancel := context.WithCancel(context.Background())
	gs.aiCancel = cancel
	gs.aiRunning = true
	b := *gs.state.Board // 拷贝一份，后台线程独占
	gen := gs.aiGen
	budget := gs.cfg.Search.Budget()
	go func() {
		gs.engineMu.Lock()
		d := gs.engine.DecideMove(ctx, &b, budget)
		gs.engineMu.Unlock()
		select {
		case gs.aiResultCh <- aiResult{gen: gen, d: d}:
		case <-ctx.Done():
		}
	}()
}

// collectEngine plays a finished decision if it still belongs to the
// current position.
func (gs *GameScreen) collectEngine() {
	select {
	case r := <-gs.aiResultCh:
		if r.gen != gs.aiGen {
			return // 过期结果（已悔棋或新开局）
		}
		gs.aiRunning = false
		gs.aiCancel()
		gs.aiCancel = nil
		gs.lastDecision = &r.d
		gs.log.Info("engine move", slog.String("decision", r.d.String()))
		gs.playIndex(r.d.Index)
	default:
	}
}

func (gs *GameScreen) undo() {
	gs.cancelEngine()
	if !gs.state.CanUndo() {
		gs.audio.Play(assets.SoundInvalid)
		return
	}
	// against the engine, go back to the human's previous turn
	for gs.state.CanUndo() {
		if err := gs.state.Undo(); err != nil {
			gs.log.Warn("undo failed", slog.Any("err", err))
			break
		}
		if !gs.engineToMove() && !gs.state.Moves.IsPass() {
			break
		}
	}
	gs.anims = nil
	gs.note = ""
	gs.passAt = time.Time{}
	gs.moveAt = time.Now().Add(engineDelay)
	gs.audio.Play(assets.SoundUndo)
}

func (gs *GameScreen) newGame() {
	gs.cancelEngine()
	gs.state.Reset()
	gs.anims = nil
	gs.note = ""
	gs.lastDecision = nil
	gs.passAt = time.Time{}
	gs.moveAt = time.Now().Add(engineDelay)
	gs.log.Info("new game")
}

// Update advances animations, forced passes and the engine, then reads input.
func (gs *GameScreen) Update() error {
	now := time.Now()

	kept := gs.anims[:0]
	for _, a := range gs.anims {
		if now.Sub(a.start) < flipTime {
			kept = append(kept, a)
		}
	}
	gs.anims = kept

	pressed := gs.handleKeys()
	gs.collectEngine()

	switch {
	case gs.state.GameOver:
	case len(gs.anims) > 0:
	case gs.state.Moves.IsPass():
		// 自动 pass，稍等一下让玩家看到提示
		if gs.passAt.IsZero() {
			gs.passAt = now.Add(passDelay)
			gs.note = sideName(gs.state.CurrentPlayer()) + " has no move"
		} else if now.After(gs.passAt) {
			gs.playIndex(1)
		}
	case gs.engineToMove():
		if !gs.aiRunning && now.After(gs.moveAt) {
			gs.startEngine()
		}
	default:
		if gs.handleMove() {
			pressed = true
		}
	}

	gs.power.update(pressed || gs.aiRunning || len(gs.anims) > 0 || !gs.passAt.IsZero(), now)
	return nil
}

// Draw renders the board to the offscreen buffer and scales it onto screen.
func (gs *GameScreen) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	gs.offscreen.Fill(color.RGBA{0x18, 0x18, 0x1c, 0xff})
	gs.offscreen.DrawImage(gs.boardBaked, nil)

	now := time.Now()
	showHints := gs.showHints && !gs.state.GameOver && !gs.engineToMove() && len(gs.anims) == 0
	if showHints {
		gs.drawHints(gs.offscreen)
	}
	gs.drawDisks(gs.offscreen, now)
	gs.drawPanel(gs.offscreen)

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale := math.Min(float64(w)/WindowWidth, float64(h)/WindowHeight)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((float64(w)-WindowWidth*scale)/2, (float64(h)-WindowHeight*scale)/2)
	screen.DrawImage(gs.offscreen, op)
}

// Layout fixes the logical size; ebiten scales the window.
func (gs *GameScreen) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Close stops a running search.
func (gs *GameScreen) Close() {
	gs.cancelEngine()
}
