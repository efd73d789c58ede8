// File game/board.go
package game

import (
	"fmt"
)

// CellState represents the state of a cell on the board.
// Border only ever appears on the sentinel ring around the 8×8 grid.
type CellState uint8

const (
	Empty CellState = iota
	PlayerA
	PlayerB
	Border
)

func (c CellState) String() string {
	switch c {
	case Empty:
		return "empty"
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "border"
}

// Opponent returns the other side, or Empty for non-player states.
func Opponent(player CellState) CellState {
	switch player {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

const (
	Size    = 8
	stride  = Size + 2
	paddedN = stride * stride
	// 8 rows, 8 columns, 15 diagonals, 15 anti-diagonals
	lineCount = 46
)

// Pos is an index into the padded board. Use At / ParsePos to build one.
type Pos int8

const (
	Pass  Pos = -1
	NoPos Pos = -2
)

// At returns the position of (file, rank), both 0-based; file 0 is column A
// and rank 0 is row 1 (the top row).
func At(file, rank int) Pos {
	return Pos((rank+1)*stride + file + 1)
}

// File returns the 0-based column of p.
func (p Pos) File() int { return int(p)%stride - 1 }

// Rank returns the 0-based row of p.
func (p Pos) Rank() int { return int(p)/stride - 1 }

// OnBoard reports whether p addresses one of the 64 playable cells.
func (p Pos) OnBoard() bool {
	if p < 0 || int(p) >= paddedN {
		return false
	}
	f, r := p.File(), p.Rank()
	return f >= 0 && f < Size && r >= 0 && r < Size
}

func (p Pos) String() string {
	switch p {
	case Pass:
		return "pass"
	case NoPos:
		return "-"
	}
	if !p.OnBoard() {
		return fmt.Sprintf("pos(%d)", int8(p))
	}
	return fmt.Sprintf("%c%d", 'A'+p.File(), p.Rank()+1)
}

// Board is a full game position. It holds only arrays and scalars, so a plain
// value copy is a complete, independent clone.
type Board struct {
	cells  [paddedN]CellState
	stable [paddedN]bool
	fill   [lineCount]int8

	ToMove      CellState
	CountA      int // side-1 disks
	Total       int // all disks
	LastMove    Pos
	StableA     int
	StableTotal int
}

// EmptyBoard returns a board with every playable cell empty and PlayerA to move.
func EmptyBoard() *Board {
	b := &Board{ToMove: PlayerA, LastMove: NoPos}
	for i := range b.cells {
		b.cells[i] = Border
	}
	for _, p := range Squares {
		b.cells[p] = Empty
	}
	return b
}

// DefaultBoard returns the standard opening position.
func DefaultBoard() *Board {
	b := EmptyBoard()
	b.put(At(4, 3), PlayerA)
	b.put(At(3, 4), PlayerA)
	b.put(At(3, 3), PlayerB)
	b.put(At(4, 4), PlayerB)
	b.initStability()
	return b
}

// Clone returns an independent copy of b.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// Cell returns the state of (file, rank); off-board coordinates read as Border.
func (b *Board) Cell(file, rank int) CellState {
	if file < 0 || file >= Size || rank < 0 || rank >= Size {
		return Border
	}
	return b.cells[At(file, rank)]
}

// CellAt returns the state at p, Border for anything off the grid.
func (b *Board) CellAt(p Pos) CellState {
	if p < 0 || int(p) >= paddedN {
		return Border
	}
	return b.cells[p]
}

// IsStable reports whether the disk at p can no longer be flipped.
func (b *Board) IsStable(p Pos) bool {
	if !p.OnBoard() {
		return false
	}
	return b.stable[p]
}

// CountB returns the number of side-2 disks.
func (b *Board) CountB() int { return b.Total - b.CountA }

// CountPieces returns the number of disks owned by pl.
func (b *Board) CountPieces(pl CellState) int {
	switch pl {
	case PlayerA:
		return b.CountA
	case PlayerB:
		return b.CountB()
	}
	return 0
}

// Empties returns the number of empty playable cells.
func (b *Board) Empties() int { return Size*Size - b.Total }

// put places a disk on an empty cell and keeps counters in step.
func (b *Board) put(p Pos, s CellState) {
	b.cells[p] = s
	b.Total++
	if s == PlayerA {
		b.CountA++
	}
	for _, l := range lineOf[p] {
		b.fill[l]++ // 四条线的占用数
	}
}

// remove clears the disk at p back to Empty.
func (b *Board) remove(p Pos) {
	if b.cells[p] == PlayerA {
		b.CountA--
	}
	b.cells[p] = Empty
	b.Total--
	for _, l := range lineOf[p] {
		b.fill[l]--
	}
}

// flip turns the disk at p over to s.
func (b *Board) flip(p Pos, s CellState) {
	b.cells[p] = s
	if s == PlayerA {
		b.CountA++
	} else {
		b.CountA--
	}
}

func (b *Board) lineFull(l int) bool { return int(b.fill[l]) == lineLen[l] }

// Validate checks the board's bookkeeping against its cells.
func (b *Board) Validate() error {
	a, total, sa, st := 0, 0, 0, 0
	var fill [lineCount]int8
	for i := 0; i < paddedN; i++ {
		p := Pos(i)
		c := b.cells[i]
		if !p.OnBoard() {
			// 哨兵格
			if c != Border {
				return fmt.Errorf("sentinel %d holds %v", i, c)
			}
			continue
		}
		switch c {
		case Empty:
			if b.stable[i] {
				return fmt.Errorf("empty cell %v marked stable", p)
			}
			continue
		case PlayerA:
			a++
		case PlayerB:
		default:
			return fmt.Errorf("cell %v holds %v", p, c)
		}
		total++
		for _, l := range lineOf[p] {
			fill[l]++
		}
		if b.stable[i] {
			st++
			if c == PlayerA {
				sa++
			}
		}
	}
	if a != b.CountA || total != b.Total {
		return fmt.Errorf("disk counts a=%d total=%d, recorded a=%d total=%d", a, total, b.CountA, b.Total)
	}
	if sa != b.StableA || st != b.StableTotal {
		return fmt.Errorf("stable counts a=%d total=%d, recorded a=%d total=%d", sa, st, b.StableA, b.StableTotal)
	}
	if fill != b.fill {
		return fmt.Errorf("line fill counters out of step")
	}
	if b.ToMove != PlayerA && b.ToMove != PlayerB {
		return fmt.Errorf("side to move is %v", b.ToMove)
	}
	return nil
}
