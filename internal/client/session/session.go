// Package session holds the interactive client's state between commands.
package session

import (
	"checkers/internal/client/api"
	"checkers/internal/server/core"
)

type Session struct {
	APIBaseURL       string
	Client           *api.Client
	CurrentGame      string
	CurrentGameState *core.GameResponse
	Verbose          bool
}

func (s *Session) GetAPIBaseURL() string { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string) { s.APIBaseURL = url }
func (s *Session) GetCurrentGame() string { return s.CurrentGame }
func (s *Session) GetClient() *api.Client { return s.Client }
func (s *Session) IsVerbose() bool { return s.Verbose }
func (s *Session) GetGameState() *core.GameResponse { return s.CurrentGameState }

// SetCurrentGame switches games and forgets the previous game's state
func (s *Session) SetCurrentGame(id string) {
	if id != s.CurrentGame {
		s.CurrentGameState = nil
	}
	s.CurrentGame = id
}

func (s *Session) SetGameState(g *core.GameResponse) {
	s.CurrentGameState = g
}

// GetVersion returns the last seen game version, -1 when none
func (s *Session) GetVersion() int {
	if s.CurrentGameState == nil {
		return -1
	}
	return s.CurrentGameState.Version
}
