package game

// Directions holds the 8 compass offsets on the padded board, NW first, clockwise.
var Directions = [8]int{-stride - 1, -stride, -stride + 1, 1, stride + 1, stride, stride - 1, -1}

// axisDirs are the positive offsets of the four lines through a cell:
// row, column, diagonal (NW-SE), anti-diagonal (NE-SW).
var axisDirs = [4]int{1, stride, stride + 1, stride - 1}

var (
	// Squares lists the 64 playable cells in row-major order from A1.
	Squares [Size * Size]Pos
	// flipMask[p] has bit d set when direction d could ever capture from p:
	// both the neighbour and the cell beyond it are on the board.
	flipMask [paddedN]uint8
	lineOf   [paddedN][4]int
	lineLen  [lineCount]int
	// moveOrder is the generator's best-to-worst scan order.
	moveOrder [Size * Size]Pos
)

// priority classes, best first; cell names are file letter + rank digit
var orderClasses = [][]string{
	{"A1", "H1", "A8", "H8"},
	{"D4", "E4", "D5", "E5"},
	{"C1", "F1", "A3", "H3", "A6", "H6", "C8", "F8"},
	{"C3", "D3", "E3", "F3", "C4", "F4", "C5", "F5", "C6", "D6", "E6", "F6"},
	{"D1", "E1", "A4", "H4", "A5", "H5", "D8", "E8"},
	{"B3", "B4", "B5", "B6", "G3", "G4", "G5", "G6", "C2", "D2", "E2", "F2", "C7", "D7", "E7", "F7"},
	{"B1", "G1", "A2", "H2", "A7", "H7", "B8", "G8"},
	{"B2", "G2", "B7", "G7"},
}

func init() {
	initBoardTables()
}

func initBoardTables() {
	i := 0
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			p := At(f, r)
			Squares[i] = p
			i++
			lineOf[p] = [4]int{
				r,
				Size + f,
				2*Size + (r - f + Size - 1),
				2*Size + 2*Size - 1 + (r + f),
			}
			for _, l := range lineOf[p] {
				lineLen[l]++
			}
			for d, off := range Directions {
				if Pos(int(p)+off).OnBoard() && Pos(int(p)+2*off).OnBoard() {
					flipMask[p] |= 1 << d
				}
			}
		}
	}

	i = 0
	seen := make(map[Pos]bool, Size*Size)
	for _, class := range orderClasses {
		for _, name := range class {
			p, err := ParsePos(name)
			if err != nil || seen[p] {
				panic("bad move order entry " + name)
			}
			seen[p] = true
			moveOrder[i] = p
			i++
		}
	}
	if i != Size*Size {
		panic("move order does not cover the board")
	}
}
