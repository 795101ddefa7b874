package model

import "github.com/benbeisheim/plychess-backend/internal/chess"

type BoardState struct {
	Board             [][]*chess.Piece `json:"board"`
	BlackKingPosition *chess.Square    `json:"blackKingPosition"`
	WhiteKingPosition *chess.Square    `json:"whiteKingPosition"`
}

// newBoardState renders pos as rows of nullable pieces, row 0 being Black's back rank.
func newBoardState(pos chess.Position) *BoardState {
	board := &BoardState{}
	for row := 0; row < 8; row++ {
		cells := make([]*chess.Piece, 8)
		for col := 0; col < 8; col++ {
			piece := pos.PieceAt(chess.Square{Row: row, Col: col})
			if !piece.IsEmpty() {
				cells[col] = &piece
			}
		}
		board.Board = append(board.Board, cells)
	}
	if sq, ok := pos.KingSquare(chess.White); ok {
		board.WhiteKingPosition = &sq
	}
	if sq, ok := pos.KingSquare(chess.Black); ok {
		board.BlackKingPosition = &sq
	}
	return board
}
