package chess

// Position is an immutable snapshot of the board and the side to move.
// It is a plain value: copying it copies the whole grid, so a Position handed
// out never changes underneath its holder.
type Position struct {
	cells      [8][8]Piece
	sideToMove Color
}

var backRank = [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewGame returns the standard starting position with White to move.
func NewGame() Position {
	return SetupInitial()
}

func SetupInitial() Position {
	var p Position
	for col, kind := range backRank {
		p.cells[0][col] = Piece{Color: Black, Kind: kind}
		p.cells[1][col] = Piece{Color: Black, Kind: Pawn}
		p.cells[6][col] = Piece{Color: White, Kind: Pawn}
		p.cells[7][col] = Piece{Color: White, Kind: kind}
	}
	p.sideToMove = White
	return p
}

// EmptyPosition returns a board with no pieces and the given side to move.
func EmptyPosition(sideToMove Color) Position {
	return Position{sideToMove: sideToMove}
}

// With returns a copy of p with piece placed on sq (NoPiece clears it).
func (p Position) With(sq Square, piece Piece) Position {
	p.cells[sq.Row][sq.Col] = piece
	return p
}

func (p Position) SideToMove() Color {
	return p.sideToMove
}

func (p Position) PieceAt(sq Square) Piece {
	return p.cells[sq.Row][sq.Col]
}

// PiecesOf lists the squares holding pieces of color c in row-major order.
func (p Position) PiecesOf(c Color) []Square {
	squares := make([]Square, 0, 16)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := p.cells[row][col]
			if !piece.IsEmpty() && piece.Color == c {
				squares = append(squares, Square{Row: row, Col: col})
			}
		}
	}
	return squares
}

// KingSquare reports where c's king stands; ok is false when it has no king.
func (p Position) KingSquare(c Color) (sq Square, ok bool) {
	king := Piece{Color: c, Kind: King}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p.cells[row][col] == king {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// Apply returns the position after m. The receiver is left untouched.
// m must come from LegalMoves (or PseudoLegalMoves) for this position.
func (p Position) Apply(m Move) Position {
	placed := p.cells[m.From.Row][m.From.Col]
	if m.Promotion != NoKind {
		placed = Piece{Color: p.sideToMove, Kind: m.Promotion}
	}
	next := p.With(m.From, NoPiece).With(m.To, placed)
	next.sideToMove = p.sideToMove.Opponent()
	return next
}
