package chess

import "strings"

// Move describes one transition. It keeps no reference to the position it was
// generated from; replaying it elsewhere is the caller's business.
type Move struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Piece     Piece     `json:"piece"`
	Captured  Piece     `json:"captured"`
	Promotion PieceKind `json:"promotion,omitempty"`
}

func (m Move) IsCapture() bool {
	return !m.Captured.IsEmpty()
}

// String returns the move in coordinate notation, e.g. "e2e4" or "a7a8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += strings.ToLower(m.Promotion.Notation())
	}
	return s
}

// SAN returns the short algebraic notation of m played from pos, including
// the check or mate suffix.
func SAN(pos Position, m Move) string {
	var b strings.Builder
	b.WriteString(m.Piece.Kind.Notation())
	if m.Piece.Kind == Pawn {
		if m.IsCapture() {
			b.WriteString(m.From.file())
		}
	} else {
		b.WriteString(disambiguation(pos, m))
	}
	if m.IsCapture() {
		b.WriteByte('x')
	}
	b.WriteString(m.To.String())
	if m.Promotion != NoKind {
		b.WriteByte('=')
		b.WriteString(m.Promotion.Notation())
	}
	switch StatusOf(pos.Apply(m)) {
	case Checkmate:
		b.WriteByte('#')
	case Check:
		b.WriteByte('+')
	}
	return b.String()
}

func disambiguation(pos Position, m Move) string {
	sameFile, sameRow, ambiguous := false, false, false
	for _, other := range LegalMoves(pos, m.Piece.Color) {
		if other.Piece != m.Piece || other.To != m.To || other.From == m.From {
			continue
		}
		ambiguous = true
		if other.From.Col == m.From.Col {
			sameFile = true
		}
		if other.From.Row == m.From.Row {
			sameRow = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return m.From.file()
	case !sameRow:
		return m.From.String()[1:]
	}
	return m.From.String()
}
