package game

import (
	"fmt"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

// ErrUnknownPiece signals a request referencing a piece that is not alive
var ErrUnknownPiece = board.ErrUnknownPiece

// Chooser selects computer moves, implemented by the engine package
type Chooser interface {
	// Choose picks the computer's move for a fresh turn
	Choose(b *board.Board, difficulty core.Difficulty) (board.Move, bool)
	// Continue picks the next capture of a chain for the given piece
	Continue(b *board.Board, id board.PieceID) (board.Move, bool)
}

// MoveResult tracks the outcome of an apply request
type MoveResult struct {
	Move     board.Move
	Owner    core.Owner
	FromRow  int
	FromCol  int
	Promoted bool
	Outcome  core.Outcome
	Winner   core.Owner // set when Outcome is OutcomeGameOver
	Passed   bool       // the next side had no move and its turn was skipped
	Match    int        // match the move was played in
	Moves    int        // moves applied in that match, this one included
}

// Snapshot is a read-only view of the game for renderers
type Snapshot struct {
	Pieces        []board.Piece
	Turn          core.Owner
	Phase         core.Phase
	State         core.State
	Capturing     board.PieceID
	Selected      board.PieceID
	PlayerScore   int
	ComputerScore int
	Difficulty    core.Difficulty
	Match         int
	Moves         int
	Version       int
}

type Game struct {
	board      *board.Board
	turn       core.Owner
	capturing  board.PieceID
	selected   board.PieceID
	phase      core.Phase
	state      core.State
	difficulty core.Difficulty
	opponent   Chooser

	playerScore   int
	computerScore int

	match      int
	epoch      uint64
	moves      int
	version    int
	lastResult *MoveResult
}

type Option func(*Game)

func WithDifficulty(d core.Difficulty) Option {
	return func(g *Game) { g.difficulty = d }
}

func WithOpponent(c Chooser) Option {
	return func(g *Game) { g.opponent = c }
}

// WithBoard replaces the starting position of the first match
func WithBoard(b *board.Board, turn core.Owner) Option {
	return func(g *Game) {
		g.board = b
		g.turn = turn
	}
}

// New creates a game with a fresh first match
func New(opts ...Option) *Game {
	g := &Game{difficulty: core.DifficultyMedium}
	g.rebuild()
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewMatch discards board and pieces and starts over with the player to move.
// Pending computer steps become stale because the epoch changes.
func (g *Game) NewMatch(resetScores bool) {
	if resetScores {
		g.playerScore = 0
		g.computerScore = 0
	}
	g.lastResult = nil
	g.rebuild()
}

func (g *Game) rebuild() {
	g.board = board.New()
	g.board.PlaceStartingPieces()
	g.turn = core.OwnerPlayer
	g.capturing = 0
	g.selected = 0
	g.phase = core.PhaseAwaitingSelection
	g.state = core.StateOngoing
	g.match++
	g.epoch++
	g.moves = 0
	g.version++
}

// Board exposes the current board, callers must treat it as read-only
func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Turn() core.Owner {
	return g.turn
}

func (g *Game) Capturing() board.PieceID {
	return g.capturing
}

func (g *Game) Phase() core.Phase {
	return g.phase
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) SetState(s core.State) {
	g.state = s
}

func (g *Game) Difficulty() core.Difficulty {
	return g.difficulty
}

func (g *Game) SetDifficulty(d core.Difficulty) {
	g.difficulty = d
	g.version++
}

func (g *Game) Scores() (player, computer int) {
	return g.playerScore, g.computerScore
}

// Epoch changes every time the board is rebuilt
func (g *Game) Epoch() uint64 {
	return g.epoch
}

// Version changes on every observable state change
func (g *Game) Version() int {
	return g.version
}

func (g *Game) Match() int {
	return g.match
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// LegalMoves returns the destinations the side to move may use with a piece,
// honouring the chain constraint and mandatory capture
func (g *Game) LegalMoves(id board.PieceID) []board.Move {
	p, ok := g.board.Piece(id)
	if !ok || p.Owner != g.turn || g.state == core.StateStuck {
		return nil
	}

	if g.capturing != 0 {
		if id != g.capturing {
			return nil
		}
		return g.board.CapturesFor(id)
	}

	if len(g.board.AllCaptures(g.turn)) > 0 {
		return g.board.CapturesFor(id)
	}
	return g.board.MovesFor(id)
}

// Select returns the player's legal destinations for a piece.
// Requests out of turn or for barred pieces are no-ops with no destinations.
func (g *Game) Select(id board.PieceID) ([]board.Move, error) {
	p, ok := g.board.Piece(id)
	if !ok {
		return nil, fmt.Errorf("select piece %d: %w", id, ErrUnknownPiece)
	}
	if g.turn != core.OwnerPlayer || p.Owner != core.OwnerPlayer {
		return nil, nil
	}

	moves := g.LegalMoves(id)
	if len(moves) == 0 {
		return nil, nil
	}

	g.selected = id
	if g.capturing == 0 {
		g.phase = core.PhasePieceSelected
	}
	return moves, nil
}

// Apply moves a piece of owner to (row, col) if that destination is legal
func (g *Game) Apply(owner core.Owner, id board.PieceID, row, col int) (MoveResult, error) {
	p, ok := g.board.Piece(id)
	if !ok {
		return MoveResult{}, fmt.Errorf("apply piece %d: %w", id, ErrUnknownPiece)
	}

	result := MoveResult{
		Move:    board.Move{PieceID: id, Row: row, Col: col},
		Owner:   owner,
		FromRow: p.Row,
		FromCol: p.Col,
		Outcome: core.OutcomeIgnored,
		Match:   g.match,
		Moves:   g.moves,
	}
	if g.state == core.StateStuck || owner != g.turn || p.Owner != owner {
		return result, nil
	}

	legal := g.LegalMoves(id)
	if len(legal) == 0 {
		return result, nil
	}

	move, found := findMove(legal, row, col)
	if !found {
		result.Outcome = core.OutcomeRejected
		return result, nil
	}
	result.Move = move

	if err := g.board.Move(id, row, col); err != nil {
		return result, err
	}
	if move.IsCapture() {
		if err := g.board.Remove(move.Captured); err != nil {
			return result, err
		}
	}
	result.Promoted = g.board.Promote(id)

	g.moves++
	g.version++
	result.Moves = g.moves

	if move.IsCapture() && len(g.board.CapturesFor(id)) > 0 {
		g.capturing = id
		g.selected = id
		g.phase = core.PhaseCapturingChain
		result.Outcome = core.OutcomeChainContinues
		g.lastResult = &result
		return result, nil
	}

	g.endTurn(&result)
	g.lastResult = &result
	return result, nil
}

// PlayComputer runs one opponent step: a fresh move, the next capture of a
// running chain, or a pass when the computer has nothing to play
func (g *Game) PlayComputer() (MoveResult, error) {
	if g.turn != core.OwnerComputer || g.state == core.StateStuck {
		return MoveResult{Owner: core.OwnerComputer, Outcome: core.OutcomeIgnored, Match: g.match, Moves: g.moves}, nil
	}
	if g.opponent == nil {
		return MoveResult{}, fmt.Errorf("no opponent configured")
	}

	var (
		move board.Move
		ok   bool
	)
	if g.capturing != 0 {
		move, ok = g.opponent.Continue(g.board, g.capturing)
	} else {
		move, ok = g.opponent.Choose(g.board, g.difficulty)
	}
	if !ok {
		return g.Pass(), nil
	}
	return g.Apply(core.OwnerComputer, move.PieceID, move.Row, move.Col)
}

// Pass ends the current side's turn without a move
func (g *Game) Pass() MoveResult {
	result := MoveResult{
		Owner:   g.turn,
		Outcome: core.OutcomeTurnEnded,
		Match:   g.match,
		Moves:   g.moves,
		Passed:  true,
	}
	g.capturing = 0
	g.selected = 0
	g.turn = g.turn.Opponent()
	g.phase = core.PhaseAwaitingSelection
	g.version++

	if len(g.board.AllMoves(g.turn)) == 0 {
		g.state = core.StateStuck
	}
	g.lastResult = &result
	return result
}

// endTurn clears the chain, hands the move to the other side and runs
// end-game detection
func (g *Game) endTurn(result *MoveResult) {
	g.capturing = 0
	g.selected = 0
	g.phase = core.PhaseTurnComplete
	g.turn = g.turn.Opponent()

	if winner, over := g.winner(); over {
		if winner == core.OwnerPlayer {
			g.playerScore++
		} else {
			g.computerScore++
		}
		result.Outcome = core.OutcomeGameOver
		result.Winner = winner
		g.phase = core.PhaseGameOver
		g.rebuild()
		return
	}

	result.Outcome = core.OutcomeTurnEnded
	g.phase = core.PhaseAwaitingSelection

	if len(g.board.AllMoves(g.turn)) > 0 {
		return
	}
	// Side to move is blocked, the turn passes straight back
	result.Passed = true
	g.turn = g.turn.Opponent()
	if len(g.board.AllMoves(g.turn)) == 0 {
		g.state = core.StateStuck
	}
}

// winner reports the side left with pieces when the other has none
func (g *Game) winner() (core.Owner, bool) {
	switch {
	case g.board.Count(core.OwnerPlayer) == 0:
		return core.OwnerComputer, true
	case g.board.Count(core.OwnerComputer) == 0:
		return core.OwnerPlayer, true
	default:
		return core.OwnerNone, false
	}
}

// Snapshot copies the observable state
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Pieces:        g.board.Pieces(core.OwnerNone),
		Turn:          g.turn,
		Phase:         g.phase,
		State:         g.state,
		Capturing:     g.capturing,
		Selected:      g.selected,
		PlayerScore:   g.playerScore,
		ComputerScore: g.computerScore,
		Difficulty:    g.difficulty,
		Match:         g.match,
		Moves:         g.moves,
		Version:       g.version,
	}
}

func findMove(moves []board.Move, row, col int) (board.Move, bool) {
	for _, m := range moves {
		if m.Row == row && m.Col == col {
			return m, true
		}
	}
	return board.Move{}, false
}
