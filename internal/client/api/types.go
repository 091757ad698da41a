package api

import "checkers/internal/server/core"

// Wire types shared with the server
type (
	CreateGameRequest = core.CreateGameRequest
	RestartRequest    = core.RestartRequest
	DifficultyRequest = core.DifficultyRequest
	SelectRequest     = core.SelectRequest
	MoveRequest       = core.MoveRequest
	GameResponse      = core.GameResponse
	SelectResponse    = core.SelectResponse
	BoardResponse     = core.BoardResponse
	ErrorResponse     = core.ErrorResponse
)

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage,omitempty"`
	Games   int    `json:"games"`
}
