package chess

import "fmt"

// IsAttacked reports whether any pseudo-legal move of by lands on sq.
// Pawn pushes are not attacks; pawns attack only along their capture diagonals.
func IsAttacked(pos Position, sq Square, by Color) bool {
	for _, m := range PseudoLegalMoves(pos, by) {
		if m.Piece.Kind == Pawn && m.From.Col == m.To.Col {
			continue
		}
		if m.To == sq {
			return true
		}
	}
	return false
}

// IsInCheck reports whether c's king is attacked. A side without a king is
// treated as being in check.
func IsInCheck(pos Position, c Color) bool {
	king, ok := pos.KingSquare(c)
	if !ok {
		return true
	}
	return IsAttacked(pos, king, c.Opponent())
}

// LegalMoves filters PseudoLegalMoves down to the moves that do not leave c's
// king in check, keeping generation order.
func LegalMoves(pos Position, c Color) []Move {
	pseudo := PseudoLegalMoves(pos, c)
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if !IsInCheck(pos.Apply(m), c) {
			legal = append(legal, m)
		}
	}
	return legal
}

type Status int

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{Ongoing, Check, Checkmate, Stalemate} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

func (s Status) IsOver() bool {
	return s == Checkmate || s == Stalemate
}

// StatusOf classifies pos for the side to move.
func StatusOf(pos Position) Status {
	side := pos.SideToMove()
	inCheck := IsInCheck(pos, side)
	if len(LegalMoves(pos, side)) == 0 {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}
	if inCheck {
		return Check
	}
	return Ongoing
}

// StatusText is the one-line status a board display shows under the board.
func StatusText(pos Position) string {
	side := pos.SideToMove()
	switch StatusOf(pos) {
	case Checkmate:
		return "Checkmate! " + colorTitle(side) + " is checkmated."
	case Stalemate:
		return "Stalemate! No legal moves."
	case Check:
		return colorTitle(side) + " to move (check)"
	}
	return colorTitle(side) + " to move"
}

func colorTitle(c Color) string {
	if c == White {
		return "White"
	}
	return "Black"
}
