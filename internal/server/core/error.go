package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrPieceNotFound     = "PIECE_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrNotYourTurn       = "NOT_YOUR_TURN"
	ErrComputerThinking  = "COMPUTER_THINKING"
	ErrGameStuck         = "GAME_STUCK"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
)
