package chess

type offset struct{ dRow, dCol int }

var (
	knightOffsets  = []offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	diagonalDirs   = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	orthogonalDirs = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs      = append(append([]offset{}, diagonalDirs...), orthogonalDirs...)
	kingOffsets    = []offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// PseudoLegalMoves lists every move of color c that follows the piece movement
// rules, including moves that leave c's own king attacked. Pieces are visited
// in row-major order and each kind emits its moves in a fixed order, so the
// result is deterministic for a given position.
func PseudoLegalMoves(pos Position, c Color) []Move {
	moves := make([]Move, 0, 48)
	for _, from := range pos.PiecesOf(c) {
		switch pos.PieceAt(from).Kind {
		case Pawn:
			moves = pawnMoves(pos, from, c, moves)
		case Knight:
			moves = stepMoves(pos, from, c, knightOffsets, moves)
		case Bishop:
			moves = slideMoves(pos, from, c, diagonalDirs, moves)
		case Rook:
			moves = slideMoves(pos, from, c, orthogonalDirs, moves)
		case Queen:
			moves = slideMoves(pos, from, c, queenDirs, moves)
		case King:
			moves = stepMoves(pos, from, c, kingOffsets, moves)
		}
	}
	return moves
}

func pawnDirection(c Color) (forward, startRow, promotionRow int) {
	if c == White {
		return -1, 6, 0
	}
	return 1, 1, 7
}

func pawnMoves(pos Position, from Square, c Color, out []Move) []Move {
	forward, startRow, promotionRow := pawnDirection(c)
	pawn := Piece{Color: c, Kind: Pawn}
	promotion := func(to Square) PieceKind {
		if to.Row == promotionRow {
			return Queen
		}
		return NoKind
	}

	one := from.offset(forward, 0)
	if one.InBounds() && pos.PieceAt(one).IsEmpty() {
		out = append(out, Move{From: from, To: one, Piece: pawn, Promotion: promotion(one)})
		two := from.offset(2*forward, 0)
		if from.Row == startRow && two.InBounds() && pos.PieceAt(two).IsEmpty() {
			out = append(out, Move{From: from, To: two, Piece: pawn})
		}
	}

	for _, dCol := range [2]int{-1, 1} {
		to := from.offset(forward, dCol)
		if !to.InBounds() {
			continue
		}
		target := pos.PieceAt(to)
		if !target.IsEmpty() && target.Color != c {
			out = append(out, Move{From: from, To: to, Piece: pawn, Captured: target, Promotion: promotion(to)})
		}
	}
	return out
}

// stepMoves covers the single-jump pieces (knight and king).
func stepMoves(pos Position, from Square, c Color, offsets []offset, out []Move) []Move {
	piece := pos.PieceAt(from)
	for _, o := range offsets {
		to := from.offset(o.dRow, o.dCol)
		if !to.InBounds() {
			continue
		}
		target := pos.PieceAt(to)
		if target.IsEmpty() || target.Color != c {
			out = append(out, Move{From: from, To: to, Piece: piece, Captured: target})
		}
	}
	return out
}

func slideMoves(pos Position, from Square, c Color, dirs []offset, out []Move) []Move {
	piece := pos.PieceAt(from)
	for _, d := range dirs {
		for to := from.offset(d.dRow, d.dCol); to.InBounds(); to = to.offset(d.dRow, d.dCol) {
			target := pos.PieceAt(to)
			if target.IsEmpty() {
				out = append(out, Move{From: from, To: to, Piece: piece})
				continue
			}
			if target.Color != c {
				out = append(out, Move{From: from, To: to, Piece: piece, Captured: target})
			}
			break
		}
	}
	return out
}
