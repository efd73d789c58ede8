// File /ui/render.go
package ui

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"othello_go/internal/game"
)

// Multiplicative gradient, bright top-left to dark bottom-right.
const gradKage = `
package main

var UBright float
var UDark   float

func Fragment(pos vec4, uv vec2, col vec4) vec4 {
    c := imageSrc0At(uv)
    t := clamp((uv.x + uv.y) * 0.5, 0.0, 1.0)
    f := mix(UBright, UDark, t)
    return vec4(c.rgb * f, c.a)
}
`

var gradShader *ebiten.Shader

func init() {
	s, err := ebiten.NewShader([]byte(gradKage))
	if err != nil {
		panic(err)
	}
	gradShader = s
}

// Board geometry on the 800×600 offscreen.
const (
	cellPx   = 64
	boardPx  = cellPx * game.Size
	boardX   = 40
	boardY   = (WindowHeight - boardPx) / 2
	panelX   = boardX + boardPx + 32
	diskPx   = cellPx - 10
	flipTime = 240 * time.Millisecond
)

var (
	feltColor  = color.RGBA{0x1f, 0x7a, 0x4a, 0xff}
	gridColor  = color.RGBA{0x0c, 0x3b, 0x22, 0xff}
	frameColor = color.RGBA{0x3b, 0x2a, 0x1a, 0xff}
	lastColor  = color.RGBA{0xe0, 0x40, 0x40, 0xff}
	labelColor = color.RGBA{0xd8, 0xd8, 0xd8, 0xff}
)

// cellOrigin is the top-left pixel of (file, rank).
func cellOrigin(file, rank int) (float32, float32) {
	return float32(boardX + file*cellPx), float32(boardY + rank*cellPx)
}

func cellCenter(p game.Pos) (float32, float32) {
	x, y := cellOrigin(p.File(), p.Rank())
	return x + cellPx/2, y + cellPx/2
}

// bakeBoard draws felt, grid, star points and coordinates once and runs the
// gradient over the result.
func bakeBoard() *ebiten.Image {
	layer := ebiten.NewImage(WindowWidth, WindowHeight)
	vector.DrawFilledRect(layer, boardX-12, boardY-12, boardPx+24, boardPx+24, frameColor, false)
	vector.DrawFilledRect(layer, boardX, boardY, boardPx, boardPx, feltColor, false)
	for i := 0; i <= game.Size; i++ {
		o := float32(i * cellPx)
		vector.StrokeLine(layer, boardX+o, boardY, boardX+o, boardY+boardPx, 2, gridColor, true)
		vector.StrokeLine(layer, boardX, boardY+o, boardX+boardPx, boardY+o, 2, gridColor, true)
	}
	for _, s := range [][2]int{{2, 2}, {6, 2}, {2, 6}, {6, 6}} {
		x, y := cellOrigin(s[0], s[1])
		vector.DrawFilledCircle(layer, x, y, 4, gridColor, true)
	}

	baked := ebiten.NewImage(WindowWidth, WindowHeight)
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = layer
	op.Uniforms = map[string]any{
		"UBright": float32(1.25),
		"UDark":   float32(0.75),
	}
	baked.DrawRectShader(WindowWidth, WindowHeight, gradShader, op)

	// labels stay unshaded
	for i := 0; i < game.Size; i++ {
		x, y := cellOrigin(i, i)
		drawTextCentered(baked, string(rune('A'+i)), float64(x+cellPx/2), float64(boardY-20), labelColor)
		drawTextCentered(baked, fmt.Sprint(i+1), float64(boardX-24), float64(y+cellPx/2), labelColor)
	}
	return baked
}

// drawSprite centres img on (cx, cy), squeezed horizontally by sx.
func drawSprite(dst, img *ebiten.Image, cx, cy float32, sx float64) {
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(sx, 1)
	op.GeoM.Translate(float64(cx), float64(cy))
	dst.DrawImage(img, op)
}

// drawDisks paints every disk; cells inside a running flip animation turn
// edge-on and show the old colour for the first half.
func (gs *GameScreen) drawDisks(dst *ebiten.Image, now time.Time) {
	b := gs.state.Board
	flipping := map[game.Pos]float64{}
	for _, a := range gs.anims {
		t := float64(now.Sub(a.start)) / float64(flipTime)
		if t < 0 {
			t = 0
		}
		for _, p := range a.cells {
			flipping[p] = t
		}
	}
	for r := 0; r < game.Size; r++ {
		for f := 0; f < game.Size; f++ {
			s := b.Cell(f, r)
			if s != game.PlayerA && s != game.PlayerB {
				continue
			}
			p := game.At(f, r)
			sx := 1.0
			if t, ok := flipping[p]; ok && t < 1 {
				sx = math.Abs(math.Cos(t * math.Pi))
				// 前半段仍显示旧颜色
				if t < 0.5 {
					s = game.Opponent(s)
				}
			}
			cx, cy := cellCenter(p)
			drawSprite(dst, gs.disks[s], cx, cy, sx)
		}
	}
	if lm := b.LastMove; lm.OnBoard() {
		cx, cy := cellCenter(lm)
		vector.DrawFilledCircle(dst, cx, cy, 4, lastColor, true)
	}
}

// drawHints marks legal moves with their 1-based list index.
func (gs *GameScreen) drawHints(dst *ebiten.Image) {
	if gs.state.Moves.IsPass() {
		return
	}
	for i, p := range gs.state.Moves {
		cx, cy := cellCenter(p)
		drawSprite(dst, gs.hintImg, cx, cy, 1)
		drawTextCentered(dst, fmt.Sprint(i+1), float64(cx), float64(cy), color.White)
	}
}

// drawPanel writes the status column right of the board.
func (gs *GameScreen) drawPanel(dst *ebiten.Image) {
	a, b := gs.state.GetScores()
	lines := []string{
		"OTHELLO",
		"",
		fmt.Sprintf("Black (1): %2d", a),
		fmt.Sprintf("White (2): %2d", b),
		"",
	}
	switch {
	case gs.state.GameOver:
		switch gs.state.Winner {
		case game.PlayerA:
			lines = append(lines, "Game over: Black wins")
		case game.PlayerB:
			lines = append(lines, "Game over: White wins")
		default:
			lines = append(lines, "Game over: draw")
		}
	case gs.aiRunning:
		lines = append(lines, "Engine thinking...")
	default:
		lines = append(lines, sideName(gs.state.CurrentPlayer())+" to move")
	}
	if gs.note != "" {
		lines = append(lines, gs.note)
	}
	if d := gs.lastDecision; d != nil {
		lines = append(lines, "",
			fmt.Sprintf("Engine: %v", d.Move),
			fmt.Sprintf("depth %d  score %d", d.Depth, d.Score),
			fmt.Sprintf("nodes %d", d.Nodes),
			fmt.Sprintf("%v", d.Elapsed.Round(time.Millisecond)),
		)
	}
	if gs.showEval {
		bd := gs.engine.Evaluator().Breakdown(gs.state.Board)
		lines = append(lines, "",
			fmt.Sprintf("eval %d (%v)", bd.Total, bd.Phase),
			fmt.Sprintf(" mob %d pot %d", bd.Mobility, bd.Potential),
			fmt.Sprintf(" sq %d edge %d", bd.Square, bd.Edge),
			fmt.Sprintf(" stab %d disk %d", bd.Stability, bd.Disk),
		)
	}
	lines = append(lines, "",
		"[U] undo  [N] new",
		"[H] hints [E] eval",
		"[M] sound [1-9] move",
	)
	for i, l := range lines {
		text.Draw(dst, l, fontFace, panelX, boardY+16+i*18, color.White)
	}
	if gs.aiRunning && gs.thinkingImg != nil {
		drawSprite(dst, gs.thinkingImg, WindowWidth-40, 40, 1)
	}
}

func sideName(s game.CellState) string {
	if s == game.PlayerA {
		return "Black"
	}
	return "White"
}

// drawTextCentered centres s on (x, y) with basicfont metrics.
func drawTextCentered(dst *ebiten.Image, s string, x, y float64, col color.Color) {
	face := basicfont.Face7x13
	b := text.BoundString(face, s)
	w := float64(b.Dx())
	h := float64(b.Dy())
	text.Draw(dst, s, face, int(x-w/2), int(y+h/2)-2, col)
}
