package chess

import "fmt"

// Square addresses a board cell. Row 0 is Black's back rank and column 0 is the a-file.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// String returns the algebraic name of the square, e.g. "e4".
func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+s.Col, 8-s.Row)
}

func (s Square) file() string {
	return fmt.Sprintf("%c", 'a'+s.Col)
}

func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", name)
	}
	sq := Square{Row: 8 - int(name[1]-'0'), Col: int(name[0] - 'a')}
	if !sq.InBounds() {
		return Square{}, fmt.Errorf("invalid square %q", name)
	}
	return sq, nil
}
