package processor

import (
	"checkers/internal/server/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdRestart
	CmdSetDifficulty
	CmdSelectPiece
	CmdMakeMove
	CmdGetBoard
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Pending bool                `json:"pending,omitempty"` // A computer step is scheduled
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewRestartCommand(gameID string, req core.RestartRequest) Command {
	return Command{
		Type:   CmdRestart,
		GameID: gameID,
		Args:   req,
	}
}

func NewSetDifficultyCommand(gameID string, req core.DifficultyRequest) Command {
	return Command{
		Type:   CmdSetDifficulty,
		GameID: gameID,
		Args:   req,
	}
}

func NewSelectPieceCommand(gameID string, req core.SelectRequest) Command {
	return Command{
		Type:   CmdSelectPiece,
		GameID: gameID,
		Args:   req,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}
