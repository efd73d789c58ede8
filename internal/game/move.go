package game

import (
	"fmt"
	"strings"
)

// MoveList is an ordered list of legal destinations. A side without a legal
// move gets the one-element list {Pass}, never an empty list.
type MoveList []Pos

// IsPass reports whether the only move is a pass.
func (ml MoveList) IsPass() bool { return len(ml) == 1 && ml[0] == Pass }

// At returns the move with 1-based index i.
func (ml MoveList) At(i int) (Pos, bool) {
	if i < 1 || i > len(ml) {
		return NoPos, false
	}
	return ml[i-1], true
}

// Index returns the 1-based index of p, or 0 when p is not in the list.
func (ml MoveList) Index(p Pos) int {
	for i, m := range ml {
		if m == p {
			return i + 1
		}
	}
	return 0
}

func (ml MoveList) String() string {
	var sb strings.Builder
	for i, m := range ml {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d.%v", i+1, m)
	}
	return sb.String()
}

// GetMoves lists the legal moves for the side to move in priority order.
func GetMoves(b *Board) MoveList {
	moves := make(MoveList, 0, 16)
	me := b.ToMove
	for _, p := range moveOrder {
		if b.cells[p] == Empty && b.captures(p, me) {
			moves = append(moves, p)
		}
	}
	if len(moves) == 0 {
		moves = append(moves, Pass) // 无子可下只能 pass
	}
	return moves
}

// CountMoves counts legal moves for side without allocating; a pass counts as 0.
func CountMoves(b *Board, side CellState) int {
	n := 0
	for _, p := range Squares {
		if b.cells[p] == Empty && b.captures(p, side) {
			n++
		}
	}
	return n
}

// HasMoves reports whether side has at least one legal placement.
func HasMoves(b *Board, side CellState) bool {
	for _, p := range moveOrder {
		if b.cells[p] == Empty && b.captures(p, side) {
			return true
		}
	}
	return false
}

// IsTerminal reports that neither side can place a disk.
func IsTerminal(b *Board) bool {
	return !HasMoves(b, b.ToMove) && !HasMoves(b, Opponent(b.ToMove))
}

// IsLegal reports whether p is a legal move for the side to move.
func IsLegal(b *Board, p Pos) bool {
	if p == Pass {
		return !HasMoves(b, b.ToMove)
	}
	return p.OnBoard() && b.cells[p] == Empty && b.captures(p, b.ToMove)
}

// captures reports whether a disk of side placed on p flips anything.
func (b *Board) captures(p Pos, side CellState) bool {
	opp := Opponent(side)
	mask := flipMask[p]
	for d, off := range Directions {
		if mask&(1<<d) == 0 {
			continue
		}
		q := int(p) + off
		if b.cells[q] != opp {
			continue
		}
		for q += off; b.cells[q] == opp; q += off { // 越过连续的对方子
		}
		if b.cells[q] == side {
			return true
		}
	}
	return false
}

// ParsePos parses a coordinate such as "d3" or "D3".
func ParsePos(s string) (Pos, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "pass") {
		return Pass, nil
	}
	if len(s) != 2 {
		return NoPos, fmt.Errorf("coordinate %q: want letter A-H and digit 1-8", s)
	}
	f := int(s[0] | 0x20 - 'a')
	r := int(s[1] - '1')
	if f < 0 || f >= Size || r < 0 || r >= Size {
		return NoPos, fmt.Errorf("coordinate %q out of range", s)
	}
	return At(f, r), nil
}
