package service

import (
	"context"
	"fmt"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/game"
	"checkers/internal/server/storage"

	"github.com/google/uuid"
)

// View is a consistent copy of a game taken under the service lock
type View struct {
	GameID     string
	Seed       uint64
	Snapshot   game.Snapshot
	LastResult *game.MoveResult
}

func (s *Service) view(gameID string, sess *session) View {
	v := View{
		GameID:   gameID,
		Seed:     sess.seed,
		Snapshot: sess.game.Snapshot(),
	}
	if last := sess.game.LastResult(); last != nil {
		copied := *last
		v.LastResult = &copied
	}
	return v
}

func (s *Service) lookup(gameID string) (*session, error) {
	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return sess, nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// CreateGame registers a new game. A zero seed is replaced by a time based one.
// Extra options, such as a custom starting position, apply after the defaults.
func (s *Service) CreateGame(gameID string, difficulty core.Difficulty, seed uint64, opts ...game.Option) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[gameID]; exists {
		return View{}, fmt.Errorf("game %s already exists", gameID)
	}
	if len(s.games) >= MaxGames {
		return View{}, ErrTooManyGames
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	options := append([]game.Option{
		game.WithDifficulty(difficulty),
		game.WithOpponent(engine.New(seed)),
	}, opts...)

	sess := &session{
		game: game.New(options...),
		seed: seed,
	}
	s.games[gameID] = sess

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       gameID,
			Difficulty:   difficulty.String(),
			Seed:         seed,
			StartTimeUTC: time.Now().UTC(),
		})
	}

	return s.view(gameID, sess), nil
}

// GetGame returns the current view of a game
func (s *Service) GetGame(gameID string) (View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return View{}, err
	}
	return s.view(gameID, sess), nil
}

// RenderBoard returns the ASCII board of a game
func (s *Service) RenderBoard(gameID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return "", err
	}
	return sess.game.Board().ToASCII(), nil
}

// SelectPiece lists the player's legal destinations for a piece
func (s *Service) SelectPiece(gameID string, pieceID board.PieceID) ([]board.Move, View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return nil, View{}, err
	}

	moves, err := sess.game.Select(pieceID)
	if err != nil {
		return nil, View{}, err
	}
	return moves, s.view(gameID, sess), nil
}

// ApplyMove plays a player move
func (s *Service) ApplyMove(gameID string, pieceID board.PieceID, row, col int) (game.MoveResult, View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return game.MoveResult{}, View{}, err
	}

	switch sess.game.State() {
	case core.StatePending:
		return game.MoveResult{}, View{}, ErrComputerThinking
	case core.StateStuck:
		return game.MoveResult{}, View{}, ErrGameStuck
	}

	result, err := sess.game.Apply(core.OwnerPlayer, pieceID, row, col)
	if err != nil {
		return game.MoveResult{}, View{}, err
	}
	s.afterMove(gameID, sess, result)

	return result, s.view(gameID, sess), nil
}

// BeginComputerStep marks the game pending and returns the context and epoch
// a deferred computer step must carry
func (s *Service) BeginComputerStep(gameID string) (context.Context, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return nil, 0, err
	}

	g := sess.game
	switch {
	case g.State() == core.StatePending:
		return nil, 0, ErrComputerThinking
	case g.State() == core.StateStuck:
		return nil, 0, ErrGameStuck
	case g.Turn() != core.OwnerComputer:
		return nil, 0, fmt.Errorf("%w: player to move", ErrStaleStep)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if sess.cancel != nil {
		sess.cancel()
	}
	sess.cancel = cancel
	g.SetState(core.StatePending)

	return ctx, g.Epoch(), nil
}

// AbortComputerStep gives up on a step that could not be scheduled
func (s *Service) AbortComputerStep(gameID string, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(gameID)
	if err != nil || sess.game.Epoch() != epoch || sess.game.State() != core.StatePending {
		return
	}
	sess.game.SetState(core.StateStuck)
	s.waiter.Wake(gameID)
}

// ComputerStep runs one deferred computer step if it still belongs to the
// current match
func (s *Service) ComputerStep(gameID string, epoch uint64) (game.MoveResult, View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return game.MoveResult{}, View{}, err
	}

	g := sess.game
	if g.Epoch() != epoch || g.State() != core.StatePending {
		return game.MoveResult{}, View{}, ErrStaleStep
	}
	g.SetState(core.StateOngoing)

	result, err := g.PlayComputer()
	if err != nil {
		g.SetState(core.StateStuck)
		return game.MoveResult{}, View{}, err
	}
	s.afterMove(gameID, sess, result)

	return result, s.view(gameID, sess), nil
}

// afterMove notifies waiters and records finished matches
func (s *Service) afterMove(gameID string, sess *session, result game.MoveResult) {
	if result.Outcome == core.OutcomeIgnored || result.Outcome == core.OutcomeRejected {
		return
	}

	s.waiter.NotifyGame(gameID, sess.game.Version())

	if result.Outcome != core.OutcomeGameOver || s.store == nil {
		return
	}
	player, computer := sess.game.Scores()
	s.store.RecordMatch(storage.MatchRecord{
		GameID:        gameID,
		MatchNumber:   result.Match,
		Winner:        result.Winner.String(),
		PlayerScore:   player,
		ComputerScore: computer,
		Moves:         result.Moves,
		Difficulty:    sess.game.Difficulty().String(),
		EndTimeUTC:    time.Now().UTC(),
	})
}

// Restart cancels any pending computer step and starts a new match.
// A zero difficulty keeps the current one.
func (s *Service) Restart(gameID string, resetScores bool, difficulty core.Difficulty) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return View{}, err
	}

	if sess.cancel != nil {
		sess.cancel()
		sess.cancel = nil
	}
	if difficulty != 0 {
		sess.game.SetDifficulty(difficulty)
	}
	sess.game.NewMatch(resetScores)
	s.waiter.NotifyGame(gameID, sess.game.Version())

	return s.view(gameID, sess), nil
}

// SetDifficulty changes the opponent policy for following computer turns
func (s *Service) SetDifficulty(gameID string, difficulty core.Difficulty) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return View{}, err
	}

	sess.game.SetDifficulty(difficulty)
	s.waiter.NotifyGame(gameID, sess.game.Version())

	return s.view(gameID, sess), nil
}

// DeleteGame cancels pending steps, releases waiters and forgets the game
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	if sess.cancel != nil {
		sess.cancel()
	}
	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)

	return nil
}
