package board

import "checkers/internal/server/core"

// Move is a legal destination for a piece, Captured is zero for simple moves
type Move struct {
	PieceID  PieceID
	Row      int
	Col      int
	Captured PieceID
}

func (m Move) IsCapture() bool {
	return m.Captured != 0
}

// PieceMoves groups the moves of one piece
type PieceMoves struct {
	PieceID PieceID
	Moves   []Move
}

type direction struct {
	dr, dc int
}

// Enumeration order for diagonals
var diagonals = [4]direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

func directionsFor(p Piece) []direction {
	if p.King {
		return diagonals[:]
	}
	dirs := make([]direction, 0, 2)
	for _, d := range diagonals {
		if d.dr == p.Owner.Forward() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// MovesFor generates every destination of a piece, ignoring mandatory capture
func (b *Board) MovesFor(id PieceID) []Move {
	p, ok := b.pieces[id]
	if !ok {
		return nil
	}

	var moves []Move
	for _, d := range directionsFor(*p) {
		if p.King {
			moves = b.kingRay(*p, d, moves)
		} else {
			moves = b.manStep(*p, d, moves)
		}
	}
	return moves
}

// manStep handles one forward diagonal of a man
func (b *Board) manStep(p Piece, d direction, moves []Move) []Move {
	r, c := p.Row+d.dr, p.Col+d.dc
	if !InBounds(r, c) {
		return moves
	}

	occupant := b.cells[r][c]
	if occupant == 0 {
		return append(moves, Move{PieceID: p.ID, Row: r, Col: c})
	}
	if b.pieces[occupant].Owner == p.Owner {
		return moves
	}

	jr, jc := r+d.dr, c+d.dc
	if b.Empty(jr, jc) {
		moves = append(moves, Move{PieceID: p.ID, Row: jr, Col: jc, Captured: occupant})
	}
	return moves
}

// kingRay walks one diagonal: empty cells are simple moves until the first
// occupied cell; an enemy there may be jumped onto any empty cell behind it
func (b *Board) kingRay(p Piece, d direction, moves []Move) []Move {
	r, c := p.Row+d.dr, p.Col+d.dc
	for InBounds(r, c) {
		occupant := b.cells[r][c]
		if occupant == 0 {
			moves = append(moves, Move{PieceID: p.ID, Row: r, Col: c})
			r, c = r+d.dr, c+d.dc
			continue
		}
		if b.pieces[occupant].Owner == p.Owner {
			return moves
		}

		// One capture per ray, the landing zone ends at the next occupied cell
		for jr, jc := r+d.dr, c+d.dc; b.Empty(jr, jc); jr, jc = jr+d.dr, jc+d.dc {
			moves = append(moves, Move{PieceID: p.ID, Row: jr, Col: jc, Captured: occupant})
		}
		return moves
	}
	return moves
}

// CapturesFor returns only the capture moves of a piece
func (b *Board) CapturesFor(id PieceID) []Move {
	var captures []Move
	for _, m := range b.MovesFor(id) {
		if m.IsCapture() {
			captures = append(captures, m)
		}
	}
	return captures
}

// AllCaptures lists every piece of owner that can capture, by ascending id
func (b *Board) AllCaptures(owner core.Owner) []PieceMoves {
	var out []PieceMoves
	for _, p := range b.Pieces(owner) {
		if captures := b.CapturesFor(p.ID); len(captures) > 0 {
			out = append(out, PieceMoves{PieceID: p.ID, Moves: captures})
		}
	}
	return out
}

// AllMoves lists every piece of owner with at least one move, by ascending id
func (b *Board) AllMoves(owner core.Owner) []PieceMoves {
	var out []PieceMoves
	for _, p := range b.Pieces(owner) {
		if moves := b.MovesFor(p.ID); len(moves) > 0 {
			out = append(out, PieceMoves{PieceID: p.ID, Moves: moves})
		}
	}
	return out
}
