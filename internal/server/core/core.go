package core

import "fmt"

// Owner identifies the side a piece belongs to
type Owner int

const (
	OwnerNone Owner = iota
	OwnerPlayer
	OwnerComputer
)

func (o Owner) String() string {
	switch o {
	case OwnerPlayer:
		return "player"
	case OwnerComputer:
		return "computer"
	default:
		return "none"
	}
}

// Opponent returns the other side
func (o Owner) Opponent() Owner {
	if o == OwnerPlayer {
		return OwnerComputer
	}
	return OwnerPlayer
}

// PromotionRow is the farthest row for the owner
func (o Owner) PromotionRow() int {
	if o == OwnerPlayer {
		return 0
	}
	return 7
}

// Forward is the row step of a man moving toward its promotion row
func (o Owner) Forward() int {
	if o == OwnerPlayer {
		return -1
	}
	return 1
}

func (o Owner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Owner) UnmarshalText(data []byte) error {
	switch string(data) {
	case "player":
		*o = OwnerPlayer
	case "computer":
		*o = OwnerComputer
	case "none", "":
		*o = OwnerNone
	default:
		return fmt.Errorf("unknown owner %q", data)
	}
	return nil
}

// Difficulty selects the opponent policy
type Difficulty int

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty accepts the lowercase names used by the API and CLI
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy", "e":
		return DifficultyEasy, nil
	case "medium", "m", "":
		return DifficultyMedium, nil
	case "hard", "h":
		return DifficultyHard, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q", s)
	}
}

// Phase is the turn state machine position
type Phase int

const (
	PhaseAwaitingSelection Phase = iota
	PhasePieceSelected
	PhaseCapturingChain
	PhaseTurnComplete
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingSelection:
		return "awaiting_selection"
	case PhasePieceSelected:
		return "piece_selected"
	case PhaseCapturingChain:
		return "capturing_chain"
	case PhaseTurnComplete:
		return "turn_complete"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome reports what an apply request did to the game
type Outcome int

const (
	OutcomeIgnored Outcome = iota // out of turn, foreign piece, barred piece
	OutcomeRejected               // destination not in the legal set
	OutcomeChainContinues
	OutcomeTurnEnded
	OutcomeGameOver
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeRejected:
		return "rejected"
	case OutcomeChainContinues:
		return "chain_continues"
	case OutcomeTurnEnded:
		return "turn_ended"
	case OutcomeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Applied reports whether the outcome changed the board
func (o Outcome) Applied() bool {
	return o == OutcomeChainContinues || o == OutcomeTurnEnded || o == OutcomeGameOver
}
