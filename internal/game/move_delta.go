package game

const maxFlips = 24

// Flips records everything a move changed so UndoMove can reverse it exactly.
type Flips struct {
	Move     Pos
	Mover    CellState
	flipped  [maxFlips]Pos
	nFlipped int
	// cells the stability pass marked during this move
	stabilized  [Size * Size]Pos
	nStabilized int
	prevLast    Pos
}

// Cells returns the flipped disks.
func (f *Flips) Cells() []Pos { return f.flipped[:f.nFlipped] }

// Count returns the number of flipped disks.
func (f *Flips) Count() int { return f.nFlipped }

// ApplyMove plays p for the side to move. p must be legal; Pass only hands
// the turn over.
func (b *Board) ApplyMove(p Pos) Flips {
	f := Flips{Move: p, Mover: b.ToMove, prevLast: b.LastMove}
	me := b.ToMove
	b.LastMove = p
	b.ToMove = Opponent(me)
	if p == Pass {
		return f
	}

	// 1) 落子
	opp := Opponent(me)
	b.put(p, me)
	mask := flipMask[p]
	for d, off := range Directions {
		if mask&(1<<d) == 0 {
			continue
		}
		q := int(p) + off
		for b.cells[q] == opp {
			q += off
		}
		if b.cells[q] != me {
			continue
		}
		// 2) 回头翻转夹住的对方棋子
		for q -= off; q != int(p); q -= off {
			b.flip(Pos(q), me)
			f.flipped[f.nFlipped] = Pos(q)
			f.nFlipped++
		}
	}
	// 3) 稳定性增量更新，记入 f 以便撤销
	b.updateStability(&f)
	return f
}

// UndoMove reverts the move recorded in f, including stability marks and the
// last-move field.
func (b *Board) UndoMove(f *Flips) {
	b.ToMove = f.Mover
	b.LastMove = f.prevLast
	if f.Move == Pass {
		return
	}
	// 倒序：稳定标记 → 翻转 → 落子
	for i := 0; i < f.nStabilized; i++ {
		b.unmarkStable(f.stabilized[i])
	}
	opp := Opponent(f.Mover)
	for _, q := range f.Cells() {
		b.flip(q, opp)
	}
	b.remove(f.Move)
}
