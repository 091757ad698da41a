package engine

import (
	"checkers/internal/server/board"
	"checkers/internal/server/core"

	"golang.org/x/exp/rand"
)

// Policy picks computer moves. It is not safe for concurrent use, callers
// hold the owning game's lock.
type Policy struct {
	rng *rand.Rand
}

// New creates a policy whose random choices are reproducible for a seed
func New(seed uint64) *Policy {
	return &Policy{rng: rand.New(rand.NewSource(seed))}
}

// Choose returns the computer's move for a fresh turn, false when it has none
func (p *Policy) Choose(b *board.Board, difficulty core.Difficulty) (board.Move, bool) {
	if captures := b.AllCaptures(core.OwnerComputer); len(captures) > 0 {
		if difficulty == core.DifficultyHard {
			return p.pick(largest(captures).Moves), true
		}
		return p.pick(captures[p.rng.Intn(len(captures))].Moves), true
	}

	var moves []board.Move
	for _, pm := range b.AllMoves(core.OwnerComputer) {
		moves = append(moves, pm.Moves...)
	}
	if len(moves) == 0 {
		return board.Move{}, false
	}

	if difficulty == core.DifficultyEasy {
		return p.pick(moves), true
	}
	for _, m := range moves {
		if promotes(b, m) {
			return m, true
		}
	}
	return moves[0], true
}

// Continue returns the next capture for a piece in the middle of a chain
func (p *Policy) Continue(b *board.Board, id board.PieceID) (board.Move, bool) {
	captures := b.CapturesFor(id)
	if len(captures) == 0 {
		return board.Move{}, false
	}
	return p.pick(captures), true
}

func (p *Policy) pick(moves []board.Move) board.Move {
	return moves[p.rng.Intn(len(moves))]
}

// largest returns the piece with the most captures, the first one on ties
func largest(all []board.PieceMoves) board.PieceMoves {
	best := all[0]
	for _, pm := range all[1:] {
		if len(pm.Moves) > len(best.Moves) {
			best = pm
		}
	}
	return best
}

func promotes(b *board.Board, m board.Move) bool {
	piece, ok := b.Piece(m.PieceID)
	return ok && !piece.King && m.Row == piece.Owner.PromotionRow()
}
