// file: internal/game/evaluate.go
package game

import "fmt"

// Phase is the game stage the evaluator picked from the disk count.
type Phase int

const (
	PhaseMidgame Phase = iota
	PhaseLate
	PhaseEndgame
)

func (p Phase) String() string {
	switch p {
	case PhaseMidgame:
		return "midgame"
	case PhaseLate:
		return "late-midgame"
	}
	return "endgame"
}

// Weights multiplies each raw term for one phase. All weights are >= 0; the
// sign of every term is fixed by the term itself.
type Weights struct {
	Disk      int `yaml:"disk"`
	Mobility  int `yaml:"mobility"`
	Potential int `yaml:"potential"`
	Square    int `yaml:"square"`
	Edge      int `yaml:"edge"`
	Stability int `yaml:"stability"`
}

// EvalParams is the tunable part of the evaluation.
type EvalParams struct {
	// Positions with at most this many disks use Midgame weights.
	MidgameMaxDisks int `yaml:"midgame_max_disks"`
	// Up to this many disks use Late weights; past it only disks count.
	LateMaxDisks int `yaml:"late_max_disks"`
	// Mobility value of a side with zero or one legal move.
	StrandedPenalty int `yaml:"stranded_penalty"`

	Midgame Weights `yaml:"midgame"`
	Late    Weights `yaml:"late"`
}

// DefaultEvalParams favours mobility and position early and stability later.
func DefaultEvalParams() EvalParams {
	return EvalParams{
		MidgameMaxDisks: 32,
		LateMaxDisks:    54,
		StrandedPenalty: 8,
		Midgame: Weights{
			Disk:      0,
			Mobility:  10,
			Potential: 4,
			Square:    2,
			Edge:      6,
			Stability: 12,
		},
		Late: Weights{
			Disk:      2,
			Mobility:  6,
			Potential: 2,
			Square:    1,
			Edge:      8,
			Stability: 25,
		},
	}
}

// Validate rejects thresholds outside the board and negative weights.
func (p EvalParams) Validate() error {
	if p.MidgameMaxDisks < 4 || p.MidgameMaxDisks > p.LateMaxDisks || p.LateMaxDisks > Size*Size {
		return fmt.Errorf("phase thresholds must satisfy 4 <= midgame (%d) <= late (%d) <= 64",
			p.MidgameMaxDisks, p.LateMaxDisks)
	}
	if p.StrandedPenalty < 0 {
		return fmt.Errorf("stranded_penalty %d is negative", p.StrandedPenalty)
	}
	for name, w := range map[string]Weights{"midgame": p.Midgame, "late": p.Late} {
		if w.Disk < 0 || w.Mobility < 0 || w.Potential < 0 || w.Square < 0 || w.Edge < 0 || w.Stability < 0 {
			return fmt.Errorf("%s weights must be non-negative: %+v", name, w)
		}
	}
	return nil
}

// squareWeights is indexed by rank then file.
var squareWeights = [Size][Size]int{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, 1, 1, 1, 1, -2, 10},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{10, -2, 1, 1, 1, 1, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

// edge pattern values
const (
	edgeRunDisk     = 1 // per disk in a run anchored on an own corner
	edgeFourBonus   = 4 // run reaching four or more
	edgeWedgeCost   = 3 // own disk, one empty cell, own disk
	edgeCSquareCost = 5 // own C-square beside an empty corner
)

// edges lists the four edges corner to corner.
var edges [4][Size]Pos

func init() {
	for i := 0; i < Size; i++ {
		edges[0][i] = At(i, 0)
		edges[1][i] = At(i, Size-1)
		edges[2][i] = At(0, i)
		edges[3][i] = At(Size-1, i)
	}
}

// Breakdown holds the raw terms, each from side 1's view, plus the weighted total.
type Breakdown struct {
	Phase     Phase
	Disk      int
	Mobility  int
	Potential int
	Square    int
	Edge      int
	Stability int
	Total     int
}

func (bd Breakdown) String() string {
	return fmt.Sprintf("%v disk=%d mob=%d pot=%d sq=%d edge=%d stab=%d total=%d",
		bd.Phase, bd.Disk, bd.Mobility, bd.Potential, bd.Square, bd.Edge, bd.Stability, bd.Total)
}

// Evaluator scores positions with a fixed parameter set. It holds no mutable
// state and may be shared between goroutines.
type Evaluator struct {
	Params EvalParams
}

func NewEvaluator(p EvalParams) *Evaluator {
	return &Evaluator{Params: p}
}

// Phase returns the stage used for b.
func (e *Evaluator) Phase(b *Board) Phase {
	switch {
	case b.Total <= e.Params.MidgameMaxDisks:
		return PhaseMidgame
	case b.Total <= e.Params.LateMaxDisks:
		return PhaseLate
	}
	return PhaseEndgame
}

// Evaluate returns the score of b from side 1's view.
func (e *Evaluator) Evaluate(b *Board) int {
	phase := e.Phase(b)
	if phase == PhaseEndgame {
		return diskDiff(b) // 终局只看子数差
	}
	return e.Breakdown(b).Total
}

// ForSide returns the score from side's view.
func (e *Evaluator) ForSide(b *Board, side CellState) int {
	v := e.Evaluate(b)
	if side == PlayerB {
		return -v
	}
	return v
}

// Breakdown computes every term regardless of phase; Total applies the
// weights of the phase b is in.
func (e *Evaluator) Breakdown(b *Board) Breakdown {
	bd := Breakdown{
		Phase:     e.Phase(b),
		Disk:      diskDiff(b),
		Mobility:  e.mobilityScore(b),
		Potential: frontierCount(b, PlayerB) - frontierCount(b, PlayerA),
		Square:    squareScore(b),
		Edge:      edgeScore(b, PlayerA) - edgeScore(b, PlayerB),
		Stability: 2*b.StableA - b.StableTotal,
	}
	var w Weights
	switch bd.Phase {
	case PhaseMidgame:
		w = e.Params.Midgame
	case PhaseLate:
		w = e.Params.Late
	default:
		bd.Total = bd.Disk
		return bd
	}
	bd.Total = w.Disk*bd.Disk +
		w.Mobility*bd.Mobility +
		w.Potential*bd.Potential +
		w.Square*bd.Square +
		w.Edge*bd.Edge +
		w.Stability*bd.Stability
	return bd
}

func diskDiff(b *Board) int { return 2*b.CountA - b.Total }

func (e *Evaluator) mobilityScore(b *Board) int {
	return e.sideMobility(CountMoves(b, PlayerA)) - e.sideMobility(CountMoves(b, PlayerB))
}

func (e *Evaluator) sideMobility(n int) int {
	if n <= 1 {
		return -e.Params.StrandedPenalty
	}
	return n
}

// frontierCount counts side's disks touching an empty cell, ignoring the A
// and H files.
func frontierCount(b *Board, side CellState) int {
	n := 0
	for _, p := range Squares {
		if b.cells[p] != side {
			continue
		}
		if f := p.File(); f == 0 || f == Size-1 {
			continue // A/H 列不计
		}
		for _, off := range Directions {
			if b.cells[int(p)+off] == Empty {
				n++
				break
			}
		}
	}
	return n
}

func squareScore(b *Board) int {
	s := 0
	for _, p := range Squares {
		switch b.cells[p] {
		case PlayerA:
			s += squareWeights[p.Rank()][p.File()]
		case PlayerB:
			s -= squareWeights[p.Rank()][p.File()]
		}
	}
	return s
}

func edgeScore(b *Board, side CellState) int {
	s := 0
	for _, edge := range edges {
		var line [Size]CellState
		for i, p := range edge {
			line[i] = b.cells[p]
		}
		s += edgePattern(line, side)
	}
	return s
}

// edgePattern scores one edge, read corner to corner, for side.
func edgePattern(line [Size]CellState, side CellState) int {
	s := 0
	for _, dir := range [2]int{1, -1} {
		start := 0
		if dir < 0 {
			start = Size - 1
		}
		corner, cSquare := line[start], line[start+dir]
		if corner == side {
			run := 0
			for i := start; i >= 0 && i < Size && line[i] == side; i += dir {
				run++
			}
			s += edgeRunDisk * run
			if run >= 4 {
				s += edgeFourBonus
			}
		} else if corner == Empty && cSquare == side {
			s -= edgeCSquareCost
		}
	}
	for i := 1; i+2 < Size-1; i++ {
		if line[i] == side && line[i+1] == Empty && line[i+2] == side {
			s -= edgeWedgeCost
		}
	}
	return s
}
