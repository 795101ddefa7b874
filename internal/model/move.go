package model

import (
	"fmt"

	"github.com/benbeisheim/plychess-backend/internal/chess"
)

// WSMove is a move as submitted by a client, squares in algebraic form.
// Promotion is implicit: pawns reaching the last rank always become queens.
type WSMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (m WSMove) squares() (from, to chess.Square, err error) {
	if from, err = chess.ParseSquare(m.From); err != nil {
		return from, to, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	if to, err = chess.ParseSquare(m.To); err != nil {
		return from, to, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	return from, to, nil
}

type Ply struct {
	Piece         chess.Piece     `json:"piece"`
	From          chess.Square    `json:"from"`
	To            chess.Square    `json:"to"`
	CapturedPiece *chess.Piece    `json:"capturedPiece"`
	Promotion     chess.PieceKind `json:"promotion,omitempty"`
	Notation      string          `json:"notation"`
	UCI           string          `json:"uci"`
}

func newPly(pos chess.Position, m chess.Move) Ply {
	ply := Ply{
		Piece:     m.Piece,
		From:      m.From,
		To:        m.To,
		Promotion: m.Promotion,
		Notation:  chess.SAN(pos, m),
		UCI:       m.String(),
	}
	if m.IsCapture() {
		captured := m.Captured
		ply.CapturedPiece = &captured
	}
	return ply
}

// Move pairs a white ply with the black reply, if any.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

// MoveHint is one legal destination offered to a client that selected a piece.
type MoveHint struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Capture   bool   `json:"capture"`
	Promotion bool   `json:"promotion"`
}
