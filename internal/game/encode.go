// internal/game/encode.go
package game

const (
	PlaneCnt  = 3 // [mover, opponent, mover's legal moves]
	PlaneLen  = Size * Size
	TensorLen = PlaneCnt * PlaneLen
	// PolicyLen covers the 64 cells plus one slot for a pass.
	PolicyLen = PlaneLen + 1
)

// EncodeBoardTensor encodes b from me's point of view, row-major from A1.
func EncodeBoardTensor(b *Board, me CellState) [TensorLen]float32 {
	var t [TensorLen]float32
	opp := Opponent(me)
	for i, p := range Squares {
		switch b.cells[p] {
		case me:
			t[i] = 1
		case opp:
			t[PlaneLen+i] = 1
		case Empty:
			if b.captures(p, me) {
				t[2*PlaneLen+i] = 1
			}
		}
	}
	return t
}

// PolicyIndex maps a move to 0..64; a pass uses the last slot.
func PolicyIndex(p Pos) int {
	if p == Pass {
		return PlaneLen
	}
	return p.Rank()*Size + p.File()
}
