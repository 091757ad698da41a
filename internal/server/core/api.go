package core

// Request types

type CreateGameRequest struct {
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Seed       uint64 `json:"seed,omitempty"` // 0 picks a time based seed
}

type RestartRequest struct {
	ResetScores bool   `json:"resetScores"`
	Difficulty  string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

type DifficultyRequest struct {
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

type SelectRequest struct {
	PieceID int `json:"pieceId" validate:"required,min=1"`
}

type MoveRequest struct {
	PieceID int  `json:"pieceId" validate:"required,min=1"`
	Row     *int `json:"row" validate:"required,min=0,max=7"`
	Col     *int `json:"col" validate:"required,min=0,max=7"`
}

// Response types

type PieceInfo struct {
	ID    int    `json:"id"`
	Owner string `json:"owner"`
	King  bool   `json:"king"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

type MoveInfo struct {
	PieceID  int    `json:"pieceId"`
	Owner    string `json:"owner"`
	FromRow  int    `json:"fromRow"`
	FromCol  int    `json:"fromCol"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Captured int    `json:"captured,omitempty"`
	Promoted bool   `json:"promoted,omitempty"`
	Outcome  string `json:"outcome"`
	Winner   string `json:"winner,omitempty"`
	Passed   bool   `json:"passed,omitempty"`
}

type GameResponse struct {
	GameID        string      `json:"gameId"`
	Turn          string      `json:"turn"`
	Phase         string      `json:"phase"`
	State         string      `json:"state"`
	Difficulty    string      `json:"difficulty"`
	Match         int         `json:"match"`
	Version       int         `json:"version"`
	Pending       bool        `json:"pending"`
	Capturing     int         `json:"capturing,omitempty"`
	PlayerScore   int         `json:"playerScore"`
	ComputerScore int         `json:"computerScore"`
	Pieces        []PieceInfo `json:"pieces"`
	LastMove      *MoveInfo   `json:"lastMove,omitempty"`
}

type Destination struct {
	Row      int `json:"row"`
	Col      int `json:"col"`
	Captured int `json:"captured,omitempty"`
}

type SelectResponse struct {
	PieceID      int           `json:"pieceId"`
	Destinations []Destination `json:"destinations"`
}

type BoardResponse struct {
	Board string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
