package game

// Stability here is a sufficient test, not an exact one: a disk is marked when
// every one of its four lines is full, ends at the border next to it, or has a
// stable disk of the same colour next to it. Some truly unflippable disks are
// never marked. The evaluation weights are tuned against this approximation.

// updateStability runs one pass over the not-yet-stable disks. Disks marked
// earlier in the same pass count as stable neighbours for later ones; anything
// else cascades on the next move's pass.
func (b *Board) updateStability(f *Flips) {
	for _, p := range Squares {
		c := b.cells[p]
		if c == Empty || b.stable[p] {
			continue
		}
		if b.stableOnAllAxes(p, c) {
			b.markStable(p)
			if f != nil {
				f.stabilized[f.nStabilized] = p
				f.nStabilized++
			}
		}
	}
}

// initStability repeats the pass until nothing changes. Used for positions
// that did not arise move by move.
func (b *Board) initStability() {
	for {
		before := b.StableTotal
		b.updateStability(nil)
		if b.StableTotal == before {
			return
		}
	}
}

func (b *Board) stableOnAllAxes(p Pos, c CellState) bool {
	for axis, d := range axisDirs {
		if b.lineFull(lineOf[p][axis]) {
			continue
		}
		lo, hi := int(p)-d, int(p)+d // 该轴上的两个邻格
		if b.cells[lo] == Border || b.cells[hi] == Border {
			continue
		}
		if (b.stable[lo] && b.cells[lo] == c) || (b.stable[hi] && b.cells[hi] == c) {
			continue
		}
		return false
	}
	return true
}

func (b *Board) markStable(p Pos) {
	b.stable[p] = true
	b.StableTotal++
	if b.cells[p] == PlayerA {
		b.StableA++
	}
}

func (b *Board) unmarkStable(p Pos) {
	b.stable[p] = false
	b.StableTotal--
	if b.cells[p] == PlayerA {
		b.StableA--
	}
}
