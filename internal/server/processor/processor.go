package processor

import (
	"errors"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/game"
	"checkers/internal/server/service"

	"github.com/rs/zerolog/log"
)

const (
	DefaultThinkTime  = 350 * time.Millisecond
	DefaultChainDelay = 300 * time.Millisecond
	DefaultWorkers    = 2
)

// Config tunes the deferred computer steps
type Config struct {
	Workers    int
	ThinkTime  time.Duration // delay before a fresh computer turn
	ChainDelay time.Duration // delay between captures of a computer chain
}

// Processor handles command execution and schedules computer steps
type Processor struct {
	svc        *service.Service
	queue      *OpponentQueue
	thinkTime  time.Duration
	chainDelay time.Duration
}

// New creates a processor with its own opponent queue
func New(svc *service.Service, cfg Config) *Processor {
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.ThinkTime < 0 {
		cfg.ThinkTime = DefaultThinkTime
	}
	if cfg.ChainDelay < 0 {
		cfg.ChainDelay = DefaultChainDelay
	}

	return &Processor{
		svc:        svc,
		queue:      NewOpponentQueue(cfg.Workers),
		thinkTime:  cfg.ThinkTime,
		chainDelay: cfg.ChainDelay,
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdRestart:
		return p.handleRestart(cmd)
	case CmdSetDifficulty:
		return p.handleSetDifficulty(cmd)
	case CmdSelectPiece:
		return p.handleSelectPiece(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	difficulty, err := core.ParseDifficulty(args.Difficulty)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	gameID := p.svc.GenerateGameID()
	view, err := p.svc.CreateGame(gameID, difficulty, args.Seed)
	if err != nil {
		if errors.Is(err, service.ErrTooManyGames) {
			return p.errorResponse("game limit reached", core.ErrRateLimitExceeded)
		}
		return p.errorResponse("failed to create game", core.ErrInternalError)
	}

	log.Info().Str("game", gameID).Str("difficulty", difficulty.String()).Uint64("seed", view.Seed).Msg("game created")

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(view),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	view, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Pending: view.Snapshot.State == core.StatePending,
		Data:    p.buildGameResponse(view),
	}
}

// handleDeleteGame removes a game, cancelling any pending computer step
func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.serviceError(err)
	}

	log.Info().Str("game", cmd.GameID).Msg("game deleted")

	return ProcessorResponse{
		Success: true,
	}
}

func (p *Processor) handleRestart(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.RestartRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	var difficulty core.Difficulty
	if args.Difficulty != "" {
		d, err := core.ParseDifficulty(args.Difficulty)
		if err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidRequest)
		}
		difficulty = d
	}

	view, err := p.svc.Restart(cmd.GameID, args.ResetScores, difficulty)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(view),
	}
}

func (p *Processor) handleSetDifficulty(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.DifficultyRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	difficulty, err := core.ParseDifficulty(args.Difficulty)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	view, err := p.svc.SetDifficulty(cmd.GameID, difficulty)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Pending: view.Snapshot.State == core.StatePending,
		Data:    p.buildGameResponse(view),
	}
}

// handleSelectPiece lists destinations; an unplayable piece yields none
func (p *Processor) handleSelectPiece(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SelectRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	moves, _, err := p.svc.SelectPiece(cmd.GameID, board.PieceID(args.PieceID))
	if err != nil {
		return p.serviceError(err)
	}

	resp := core.SelectResponse{
		PieceID:      args.PieceID,
		Destinations: make([]core.Destination, 0, len(moves)),
	}
	for _, m := range moves {
		resp.Destinations = append(resp.Destinations, core.Destination{
			Row:      m.Row,
			Col:      m.Col,
			Captured: int(m.Captured),
		})
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleMakeMove applies a player move and schedules the computer reply
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok || args.Row == nil || args.Col == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	result, view, err := p.svc.ApplyMove(cmd.GameID, board.PieceID(args.PieceID), *args.Row, *args.Col)
	if err != nil {
		return p.serviceError(err)
	}

	switch result.Outcome {
	case core.OutcomeIgnored:
		return p.errorResponse("piece cannot move now", core.ErrNotYourTurn)
	case core.OutcomeRejected:
		return p.errorResponse("illegal destination", core.ErrInvalidMove)
	}

	log.Debug().
		Str("game", cmd.GameID).
		Int("piece", int(result.Move.PieceID)).
		Str("outcome", result.Outcome.String()).
		Msg("player move applied")

	pending := false
	if view.Snapshot.Turn == core.OwnerComputer && view.Snapshot.State == core.StateOngoing {
		pending = p.scheduleComputerStep(cmd.GameID, p.thinkTime)
	}

	response := p.buildGameResponse(view)
	response.Pending = pending
	if pending {
		response.State = core.StatePending.String()
	}
	response.LastMove = moveInfo(result)

	return ProcessorResponse{
		Success: true,
		Pending: pending,
		Data:    response,
	}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	ascii, err := p.svc.RenderBoard(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data:    core.BoardResponse{Board: ascii},
	}
}

// scheduleComputerStep marks the game pending and queues a deferred step
func (p *Processor) scheduleComputerStep(gameID string, delay time.Duration) bool {
	ctx, epoch, err := p.svc.BeginComputerStep(gameID)
	if err != nil {
		log.Debug().Str("game", gameID).Err(err).Msg("computer step not scheduled")
		return false
	}

	task := OpponentTask{
		GameID: gameID,
		Epoch:  epoch,
		Delay:  delay,
		Ctx:    ctx,
		Run:    p.runComputerStep,
		Drop: func(t OpponentTask) {
			p.svc.AbortComputerStep(t.GameID, t.Epoch)
		},
	}

	if err := p.queue.Schedule(task); err != nil {
		log.Error().Str("game", gameID).Err(err).Msg("failed to schedule computer step")
		p.svc.AbortComputerStep(gameID, epoch)
		return false
	}
	return true
}

// runComputerStep plays one computer step and chains the next one while the
// computer keeps the move
func (p *Processor) runComputerStep(task OpponentTask) {
	result, view, err := p.svc.ComputerStep(task.GameID, task.Epoch)
	if err != nil {
		if errors.Is(err, service.ErrStaleStep) || errors.Is(err, service.ErrGameNotFound) {
			log.Debug().Str("game", task.GameID).Err(err).Msg("discarding computer step")
			return
		}
		log.Error().Str("game", task.GameID).Err(err).Msg("computer step failed")
		return
	}

	event := log.Debug().
		Str("game", task.GameID).
		Str("outcome", result.Outcome.String()).
		Bool("passed", result.Passed)
	if result.Outcome.Applied() {
		event = event.
			Int("piece", int(result.Move.PieceID)).
			Int("row", result.Move.Row).
			Int("col", result.Move.Col)
	}
	event.Msg("computer step")

	if result.Outcome == core.OutcomeGameOver {
		log.Info().
			Str("game", task.GameID).
			Str("winner", result.Winner.String()).
			Int("match", result.Match).
			Msg("match finished")
	}

	if view.Snapshot.Turn != core.OwnerComputer || view.Snapshot.State != core.StateOngoing {
		return
	}

	delay := p.thinkTime
	if result.Outcome == core.OutcomeChainContinues {
		delay = p.chainDelay
	}
	p.scheduleComputerStep(task.GameID, delay)
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(view service.View) core.GameResponse {
	snap := view.Snapshot
	resp := core.GameResponse{
		GameID:        view.GameID,
		Turn:          snap.Turn.String(),
		Phase:         snap.Phase.String(),
		State:         snap.State.String(),
		Difficulty:    snap.Difficulty.String(),
		Match:         snap.Match,
		Version:       snap.Version,
		Pending:       snap.State == core.StatePending,
		Capturing:     int(snap.Capturing),
		PlayerScore:   snap.PlayerScore,
		ComputerScore: snap.ComputerScore,
		Pieces:        make([]core.PieceInfo, 0, len(snap.Pieces)),
	}

	for _, piece := range snap.Pieces {
		resp.Pieces = append(resp.Pieces, core.PieceInfo{
			ID:    int(piece.ID),
			Owner: piece.Owner.String(),
			King:  piece.King,
			Row:   piece.Row,
			Col:   piece.Col,
		})
	}

	if view.LastResult != nil {
		resp.LastMove = moveInfo(*view.LastResult)
	}

	return resp
}

func moveInfo(r game.MoveResult) *core.MoveInfo {
	info := &core.MoveInfo{
		PieceID:  int(r.Move.PieceID),
		Owner:    r.Owner.String(),
		FromRow:  r.FromRow,
		FromCol:  r.FromCol,
		Row:      r.Move.Row,
		Col:      r.Move.Col,
		Captured: int(r.Move.Captured),
		Promoted: r.Promoted,
		Outcome:  r.Outcome.String(),
		Passed:   r.Passed,
	}
	if r.Outcome == core.OutcomeGameOver {
		info.Winner = r.Winner.String()
	}
	return info
}

// serviceError maps service and game errors to API codes
func (p *Processor) serviceError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, game.ErrUnknownPiece):
		return p.errorResponse("piece not found", core.ErrPieceNotFound)
	case errors.Is(err, service.ErrComputerThinking):
		return p.errorResponse("computer move in progress", core.ErrComputerThinking)
	case errors.Is(err, service.ErrGameStuck):
		return p.errorResponse("game cannot continue, restart required", core.ErrGameStuck)
	default:
		log.Error().Err(err).Msg("command failed")
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close stops the opponent queue
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
