package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN of the starting position. Castling rights are never
// tracked, so the field is always "-".
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// ParseFEN reads the placement and side-to-move fields of a FEN string.
// Any remaining fields are accepted and ignored.
func ParseFEN(fen string) (Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return Position{}, fmt.Errorf("invalid FEN: need at least 2 fields, got %d", len(parts))
	}

	side, err := ParseColor(parts[1])
	if err != nil {
		return Position{}, fmt.Errorf("invalid side to move: %s", parts[1])
	}
	pos := EmptyPosition(side)

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("invalid FEN: need 8 ranks, got %d", len(ranks))
	}
	kings := map[Color]int{}
	for row, rank := range ranks {
		col := 0
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += int(r - '0')
				continue
			}
			piece, ok := pieceFromFENRune(r)
			if !ok {
				return Position{}, fmt.Errorf("invalid piece %q in rank %d", r, 8-row)
			}
			if col >= 8 {
				return Position{}, fmt.Errorf("invalid FEN: rank %d has too many files", 8-row)
			}
			if piece.Kind == King {
				kings[piece.Color]++
			}
			pos.cells[row][col] = piece
			col++
		}
		if col != 8 {
			return Position{}, fmt.Errorf("invalid FEN: rank %d has %d files", 8-row, col)
		}
	}
	for c, n := range kings {
		if n > 1 {
			return Position{}, fmt.Errorf("invalid FEN: %s has %d kings", c, n)
		}
	}
	return pos, nil
}

// FEN encodes p. Castling and en passant fields are always "-" and the
// move counters are fixed at "0 1".
func (p Position) FEN() string {
	var b strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := p.cells[row][col]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteRune(piece.FENRune())
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			b.WriteByte('/')
		}
	}
	b.WriteByte(' ')
	b.WriteString(p.sideToMove.String()[:1])
	b.WriteString(" - - 0 1")
	return b.String()
}

// String draws the board as eight lines of FEN letters, Black's back rank first.
func (p Position) String() string {
	var b strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			b.WriteRune(p.cells[row][col].FENRune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
