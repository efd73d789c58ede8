// File ui/input.go
package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"othello_go/internal/assets"
	"othello_go/internal/game"
)

var digitKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// pixelToPos maps an offscreen pixel to a board cell.
func pixelToPos(x, y int) (game.Pos, bool) {
	if x < boardX || y < boardY {
		return game.NoPos, false
	}
	f := (x - boardX) / cellPx
	r := (y - boardY) / cellPx
	if f >= game.Size || r >= game.Size {
		return game.NoPos, false
	}
	return game.At(f, r), true
}

// handleKeys serves the shortcuts that work on any turn. It reports whether
// a key was pressed.
func (gs *GameScreen) handleKeys() bool {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		gs.undo()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		gs.newGame()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		gs.showHints = !gs.showHints
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		gs.showEval = !gs.showEval
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		gs.audio.SetEnabled(!gs.audio.Enabled())
	default:
		return false
	}
	return true
}

// handleMove lets the human play by clicking a cell or typing a hint
// number. It reports whether any input arrived.
func (gs *GameScreen) handleMove() bool {
	// 数字键：按提示序号落子
	for i, k := range digitKeys {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		if i+1 > len(gs.state.Moves) {
			gs.audio.Play(assets.SoundInvalid)
			return true
		}
		gs.playIndex(i + 1)
		return true
	}

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	p, ok := pixelToPos(ebiten.CursorPosition())
	if !ok {
		return true
	}
	idx := gs.state.Moves.Index(p)
	if idx == 0 || gs.state.Moves.IsPass() {
		gs.audio.Play(assets.SoundInvalid)
		return true
	}
	gs.playIndex(idx)
	return true
}
