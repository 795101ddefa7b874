package chess

const (
	captureWeight = 2.0
	riskWeight    = 1.5
)

// MaterialScore sums piece values, positive when White is ahead.
func MaterialScore(pos Position) int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := pos.cells[row][col]
			if piece.IsEmpty() {
				continue
			}
			if piece.Color == White {
				score += piece.Kind.Value()
			} else {
				score -= piece.Kind.Value()
			}
		}
	}
	return score
}

// ScoreMove rates m for c: material after the move from c's point of view,
// plus a bonus for the captured piece, minus a penalty when the moved piece
// lands on a square the opponent can reach next ply.
func ScoreMove(pos Position, c Color, m Move) float64 {
	next := pos.Apply(m)
	score := float64(MaterialScore(next))
	if c == Black {
		score = -score
	}
	if m.IsCapture() {
		score += captureWeight * float64(m.Captured.Kind.Value())
	}
	if IsAttacked(next, m.To, c.Opponent()) {
		score -= riskWeight * float64(m.Piece.Kind.Value())
	}
	return score
}

// ChooseMove picks the automated reply for c. Captures are always preferred
// over quiet moves; within the chosen group the highest ScoreMove wins and
// ties go to the earliest move in generation order. ok is false when c has no
// legal move.
func ChooseMove(pos Position, c Color) (m Move, ok bool) {
	legal := LegalMoves(pos, c)
	if len(legal) == 0 {
		return Move{}, false
	}

	var (
		best, bestCapture           Move
		bestScore, bestCaptureScore float64
		haveCapture                 bool
	)
	for i, candidate := range legal {
		score := ScoreMove(pos, c, candidate)
		if i == 0 || score > bestScore {
			best, bestScore = candidate, score
		}
		if candidate.IsCapture() && (!haveCapture || score > bestCaptureScore) {
			bestCapture, bestCaptureScore, haveCapture = candidate, score, true
		}
	}
	if haveCapture {
		return bestCapture, true
	}
	return best, true
}
