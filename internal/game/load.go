// internal/game/load.go
package game

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// LoadBoardFile reads a position file in the format accepted by LoadBoard.
func LoadBoardFile(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, ErrSourceUnavailable, err)
	}
	defer f.Close()
	b, err := LoadBoard(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return b, nil
}

// LoadBoard reads 64 cell symbols in row-major order from A1 ('0' empty,
// '1' side one, '2' side two) followed by the side to move ('1' or '2').
// Every other byte is skipped.
func LoadBoard(r io.Reader) (*Board, error) {
	br := bufio.NewReader(r)
	b := EmptyBoard()
	n := 0
	for n < Size*Size {
		c, err := br.ReadByte()
		if err != nil {
			return nil, readErr(err, fmt.Sprintf("after %d of %d cells", n, Size*Size))
		}
		switch c {
		case '0':
		case '1':
			b.put(Squares[n], PlayerA)
		case '2':
			b.put(Squares[n], PlayerB)
		default:
			continue
		}
		n++
	}
	for {
		c, err := br.ReadByte()
		if err != nil {
			return nil, readErr(err, "missing side to move")
		}
		if c == '1' || c == '2' {
			b.ToMove = PlayerA
			if c == '2' {
				b.ToMove = PlayerB
			}
			break
		}
	}
	b.initStability()
	return b, nil
}

func readErr(err error, what string) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s", ErrMalformedInput, what)
	}
	return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
}

// MarshalText writes the board in the LoadBoard format, one row per line.
func (b *Board) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			switch b.cells[At(f, r)] {
			case PlayerA:
				buf.WriteByte('1')
			case PlayerB:
				buf.WriteByte('2')
			default:
				buf.WriteByte('0')
			}
		}
		buf.WriteByte('\n')
	}
	if b.ToMove == PlayerB {
		buf.WriteString("2\n")
	} else {
		buf.WriteString("1\n")
	}
	return buf.Bytes(), nil
}

// UnmarshalText replaces b with the position in text.
func (b *Board) UnmarshalText(text []byte) error {
	nb, err := LoadBoard(bytes.NewReader(text))
	if err != nil {
		return err
	}
	*b = *nb
	return nil
}
