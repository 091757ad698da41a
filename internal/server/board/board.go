package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"checkers/internal/server/core"
)

// Size is the number of rows and columns
const Size = 8

var (
	ErrOutOfBounds  = errors.New("cell out of bounds")
	ErrOccupied     = errors.New("cell occupied")
	ErrUnknownPiece = errors.New("unknown piece")
)

// PieceID references a piece in the board arena, zero means no piece
type PieceID int

// Piece is a copy of a live piece, mutated only through Board methods
type Piece struct {
	ID    PieceID
	Owner core.Owner
	King  bool
	Row   int
	Col   int
}

// Board is the 8x8 grid of optional piece ids plus the arena of live pieces
type Board struct {
	cells  [Size][Size]PieceID
	pieces map[PieceID]*Piece
	nextID PieceID
}

// New creates an empty board
func New() *Board {
	return &Board{
		pieces: make(map[PieceID]*Piece),
		nextID: 1,
	}
}

// InBounds reports whether (row, col) is on the board
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// IsDark reports the parity of the cells used by the standard setup
func IsDark(row, col int) bool {
	return (row+col)%2 == 1
}

// PlaceStartingPieces fills the dark cells of rows 0-2 with computer men
// and rows 5-7 with player men. It must be called on an empty board.
func (b *Board) PlaceStartingPieces() {
	for row := 0; row < Size; row++ {
		owner := core.OwnerNone
		switch {
		case row < 3:
			owner = core.OwnerComputer
		case row >= Size-3:
			owner = core.OwnerPlayer
		}
		if owner == core.OwnerNone {
			continue
		}
		for col := 0; col < Size; col++ {
			if IsDark(row, col) && b.cells[row][col] == 0 {
				b.place(owner, row, col)
			}
		}
	}
}

// Add places a new man for owner
func (b *Board) Add(owner core.Owner, row, col int) (PieceID, error) {
	if !InBounds(row, col) {
		return 0, fmt.Errorf("add at (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	if b.cells[row][col] != 0 {
		return 0, fmt.Errorf("add at (%d,%d): %w", row, col, ErrOccupied)
	}
	return b.place(owner, row, col), nil
}

// place stores a new man on a cell the caller has checked is on the board and empty
func (b *Board) place(owner core.Owner, row, col int) PieceID {
	id := b.nextID
	b.nextID++
	b.pieces[id] = &Piece{ID: id, Owner: owner, Row: row, Col: col}
	b.cells[row][col] = id
	return id
}

// Piece returns a copy of the live piece with the given id
func (b *Board) Piece(id PieceID) (Piece, bool) {
	p, ok := b.pieces[id]
	if !ok {
		return Piece{}, false
	}
	return *p, true
}

// At returns the piece occupying a cell
func (b *Board) At(row, col int) (Piece, bool) {
	if !InBounds(row, col) {
		return Piece{}, false
	}
	id := b.cells[row][col]
	if id == 0 {
		return Piece{}, false
	}
	return b.Piece(id)
}

// Empty reports whether an on-board cell holds no piece
func (b *Board) Empty(row, col int) bool {
	return InBounds(row, col) && b.cells[row][col] == 0
}

// Pieces returns the live pieces of owner in ascending id order,
// OwnerNone returns every piece
func (b *Board) Pieces(owner core.Owner) []Piece {
	out := make([]Piece, 0, len(b.pieces))
	for _, p := range b.pieces {
		if owner == core.OwnerNone || p.Owner == owner {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of live pieces of owner
func (b *Board) Count(owner core.Owner) int {
	n := 0
	for _, p := range b.pieces {
		if p.Owner == owner {
			n++
		}
	}
	return n
}

// Move relocates a piece to an empty cell
func (b *Board) Move(id PieceID, row, col int) error {
	p, ok := b.pieces[id]
	if !ok {
		return fmt.Errorf("move piece %d: %w", id, ErrUnknownPiece)
	}
	if !InBounds(row, col) {
		return fmt.Errorf("move piece %d to (%d,%d): %w", id, row, col, ErrOutOfBounds)
	}
	if b.cells[row][col] != 0 && b.cells[row][col] != id {
		return fmt.Errorf("move piece %d to (%d,%d): %w", id, row, col, ErrOccupied)
	}

	b.cells[p.Row][p.Col] = 0
	b.cells[row][col] = id
	p.Row, p.Col = row, col
	return nil
}

// Remove deletes a captured piece from the grid and the arena
func (b *Board) Remove(id PieceID) error {
	p, ok := b.pieces[id]
	if !ok {
		return fmt.Errorf("remove piece %d: %w", id, ErrUnknownPiece)
	}
	b.cells[p.Row][p.Col] = 0
	delete(b.pieces, id)
	return nil
}

// Promote crowns the piece if it stands on its owner's promotion row.
// Returns true only when the piece was a man before the call.
func (b *Board) Promote(id PieceID) bool {
	p, ok := b.pieces[id]
	if !ok || p.King || p.Row != p.Owner.PromotionRow() {
		return false
	}
	p.King = true
	return true
}

// Crown makes a piece a king regardless of position, used for custom setups
func (b *Board) Crown(id PieceID) error {
	p, ok := b.pieces[id]
	if !ok {
		return fmt.Errorf("crown piece %d: %w", id, ErrUnknownPiece)
	}
	p.King = true
	return nil
}

// Check verifies the grid and the arena agree with each other
func (b *Board) Check() error {
	seen := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			id := b.cells[row][col]
			if id == 0 {
				continue
			}
			p, ok := b.pieces[id]
			if !ok {
				return fmt.Errorf("cell (%d,%d) references removed piece %d", row, col, id)
			}
			if p.Row != row || p.Col != col {
				return fmt.Errorf("piece %d records (%d,%d) but sits on (%d,%d)", id, p.Row, p.Col, row, col)
			}
			seen++
		}
	}
	if seen != len(b.pieces) {
		return fmt.Errorf("%d pieces in arena but %d on the grid", len(b.pieces), seen)
	}
	return nil
}

// Symbol returns the ASCII letter for a piece: p/P player, c/C computer
func (p Piece) Symbol() byte {
	var s byte = 'p'
	if p.Owner == core.OwnerComputer {
		s = 'c'
	}
	if p.King {
		s -= 'a' - 'A'
	}
	return s
}

// ToASCII creates an ASCII representation of the board, row 0 on top
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")

	for row := 0; row < Size; row++ {
		sb.WriteString(fmt.Sprintf("%d ", row))
		for col := 0; col < Size; col++ {
			if p, ok := b.At(row, col); ok {
				sb.WriteString(fmt.Sprintf("%c ", p.Symbol()))
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", row))
	}
	sb.WriteString("  0 1 2 3 4 5 6 7")

	return sb.String()
}
