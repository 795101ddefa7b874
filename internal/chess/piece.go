package chess

import "fmt"

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	color, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = color
	return nil
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// PieceKind is the closed set of piece variants. The zero value marks an empty cell.
type PieceKind uint8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceValues = [...]int{
	NoKind: 0,
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0,
}

// Value is the material worth used by the evaluator. Kings count for nothing.
func (k PieceKind) Value() int {
	return pieceValues[k]
}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return ""
}

// Notation is the SAN letter of the kind; pawns have none.
func (k PieceKind) Notation() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (k PieceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PieceKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*k = NoKind
	case "pawn":
		*k = Pawn
	case "knight":
		*k = Knight
	case "bishop":
		*k = Bishop
	case "rook":
		*k = Rook
	case "queen":
		*k = Queen
	case "king":
		*k = King
	default:
		return fmt.Errorf("unknown piece kind %q", text)
	}
	return nil
}

type Piece struct {
	Color Color     `json:"color"`
	Kind  PieceKind `json:"type"`
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

const fenLetters = " pnbrqk"

// FENRune returns the FEN letter for the piece: upper case for White.
func (p Piece) FENRune() rune {
	if p.IsEmpty() {
		return '.'
	}
	r := rune(fenLetters[p.Kind])
	if p.Color == White {
		r -= 'a' - 'A'
	}
	return r
}

func pieceFromFENRune(r rune) (Piece, bool) {
	color := Black
	if r >= 'A' && r <= 'Z' {
		color = White
		r += 'a' - 'A'
	}
	for k := Pawn; k <= King; k++ {
		if rune(fenLetters[k]) == r {
			return Piece{Color: color, Kind: k}, true
		}
	}
	return NoPiece, false
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Kind.String()
}
