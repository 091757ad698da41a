package core

type State int

const (
	StateOngoing State = iota
	StatePending       // Computer step scheduled
	StateStuck         // Game cannot continue, restart required
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStuck:
		return "stuck"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}
