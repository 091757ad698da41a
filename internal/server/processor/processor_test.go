package processor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/game"
	"checkers/internal/server/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newProcessor(t *testing.T, think time.Duration) *Processor {
	t.Helper()
	p := New(service.New(nil), Config{Workers: 2, ThinkTime: think, ChainDelay: think})
	t.Cleanup(func() { p.Close() })
	return p
}

func createGame(t *testing.T, p *Processor) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Difficulty: "hard", Seed: 11}))
	require.True(t, resp.Success, "%+v", resp.Error)
	return resp.Data.(core.GameResponse)
}

// openingMove moves the player piece on (5,0) to (4,1)
func openingMove(t *testing.T, p *Processor, gameID string) ProcessorResponse {
	t.Helper()
	resp := p.Execute(NewMakeMoveCommand(gameID, core.MoveRequest{PieceID: 13, Row: intPtr(4), Col: intPtr(1)}))
	require.True(t, resp.Success, "%+v", resp.Error)
	return resp
}

func getGame(t *testing.T, p *Processor, gameID string) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewGetGameCommand(gameID))
	require.True(t, resp.Success, "%+v", resp.Error)
	return resp.Data.(core.GameResponse)
}

// newChainGame sets up a game where the player's 4 to (6,1) hands the computer
// a two-capture chain: piece 1 jumps (2,1) to (3,2), then (4,3) to (5,4)
func newChainGame(t *testing.T, p *Processor) string {
	t.Helper()

	b := board.New()
	for _, cell := range []struct {
		owner    core.Owner
		row, col int
	}{
		{core.OwnerComputer, 1, 0},
		{core.OwnerPlayer, 2, 1},
		{core.OwnerPlayer, 4, 3},
		{core.OwnerPlayer, 7, 0},
	} {
		_, err := b.Add(cell.owner, cell.row, cell.col)
		require.NoError(t, err)
	}

	id := p.svc.GenerateGameID()
	_, err := p.svc.CreateGame(id, core.DifficultyHard, 7, game.WithBoard(b, core.OwnerPlayer))
	require.NoError(t, err)
	return id
}

func newTimedProcessor(t *testing.T, think, chain time.Duration) *Processor {
	t.Helper()
	p := New(service.New(nil), Config{Workers: 2, ThinkTime: think, ChainDelay: chain})
	t.Cleanup(func() { p.Close() })
	return p
}

// waitForChain returns the game once the first computer capture has been
// applied and the next one is pending
func waitForChain(t *testing.T, p *Processor, gameID string) core.GameResponse {
	t.Helper()
	var mid core.GameResponse
	require.Eventually(t, func() bool {
		mid = getGame(t, p, gameID)
		return mid.Capturing == 1 && mid.Pending
	}, 2*time.Second, 5*time.Millisecond)
	return mid
}

func TestCreateGame(t *testing.T) {
	p := newProcessor(t, 0)
	g := createGame(t, p)

	assert.NotEmpty(t, g.GameID)
	assert.Equal(t, "player", g.Turn)
	assert.Equal(t, "hard", g.Difficulty)
	assert.Len(t, g.Pieces, 24)
	assert.False(t, g.Pending)

	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Difficulty: "impossible"}))
	require.False(t, resp.Success)
	assert.Equal(t, core.ErrInvalidRequest, resp.Error.Code)
}

func TestComputerReplies(t *testing.T) {
	p := newProcessor(t, 10*time.Millisecond)
	g := createGame(t, p)

	resp := openingMove(t, p, g.GameID)
	assert.True(t, resp.Pending)
	data := resp.Data.(core.GameResponse)
	require.NotNil(t, data.LastMove)
	assert.Equal(t, "turn_ended", data.LastMove.Outcome)
	assert.Equal(t, "computer", data.Turn)

	require.Eventually(t, func() bool {
		current := getGame(t, p, g.GameID)
		return current.Turn == "player" && !current.Pending
	}, 2*time.Second, 10*time.Millisecond)

	current := getGame(t, p, g.GameID)
	require.NotNil(t, current.LastMove)
	assert.Equal(t, "computer", current.LastMove.Owner)
	assert.Greater(t, current.Version, data.Version)
}

func TestComputerCaptureChain(t *testing.T) {
	p := newTimedProcessor(t, 10*time.Millisecond, 150*time.Millisecond)
	id := newChainGame(t, p)

	resp := p.Execute(NewMakeMoveCommand(id, core.MoveRequest{PieceID: 4, Row: intPtr(6), Col: intPtr(1)}))
	require.True(t, resp.Success, "%+v", resp.Error)
	require.True(t, resp.Pending)

	mid := waitForChain(t, p, id)
	assert.Equal(t, "computer", mid.Turn)
	require.NotNil(t, mid.LastMove)
	assert.Equal(t, 1, mid.LastMove.PieceID)
	assert.Equal(t, 2, mid.LastMove.Captured)
	assert.Equal(t, "chain_continues", mid.LastMove.Outcome)

	var done core.GameResponse
	require.Eventually(t, func() bool {
		done = getGame(t, p, id)
		return done.Turn == "player" && !done.Pending
	}, 2*time.Second, 5*time.Millisecond)

	require.NotNil(t, done.LastMove)
	assert.Equal(t, 1, done.LastMove.PieceID, "chain stays on the same piece")
	assert.Equal(t, 3, done.LastMove.Captured)
	assert.Equal(t, 3, done.LastMove.FromRow)
	assert.Equal(t, 2, done.LastMove.FromCol)
	assert.Equal(t, 5, done.LastMove.Row)
	assert.Equal(t, 4, done.LastMove.Col)
	assert.Equal(t, "turn_ended", done.LastMove.Outcome)
	assert.Zero(t, done.Capturing)
	assert.Equal(t, mid.Version+1, done.Version)
	assert.Equal(t, []core.PieceInfo{
		{ID: 1, Owner: "computer", Row: 5, Col: 4},
		{ID: 4, Owner: "player", Row: 6, Col: 1},
	}, done.Pieces)
}

func TestRestartDuringComputerChain(t *testing.T) {
	p := newTimedProcessor(t, 10*time.Millisecond, 200*time.Millisecond)
	id := newChainGame(t, p)

	resp := p.Execute(NewMakeMoveCommand(id, core.MoveRequest{PieceID: 4, Row: intPtr(6), Col: intPtr(1)}))
	require.True(t, resp.Success, "%+v", resp.Error)
	waitForChain(t, p, id)

	resp = p.Execute(NewRestartCommand(id, core.RestartRequest{}))
	require.True(t, resp.Success, "%+v", resp.Error)
	restarted := resp.Data.(core.GameResponse)
	assert.Equal(t, "player", restarted.Turn)
	assert.Zero(t, restarted.Capturing)

	time.Sleep(400 * time.Millisecond)

	current := getGame(t, p, id)
	assert.Equal(t, restarted.Version, current.Version, "second chain step never ran")
	assert.Nil(t, current.LastMove)
	assert.Len(t, current.Pieces, 24)
	assert.False(t, current.Pending)
}

func TestMoveWhileComputerThinking(t *testing.T) {
	p := newProcessor(t, time.Hour)
	g := createGame(t, p)
	openingMove(t, p, g.GameID)

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{PieceID: 14, Row: intPtr(4), Col: intPtr(3)}))
	require.False(t, resp.Success)
	assert.Equal(t, core.ErrComputerThinking, resp.Error.Code)
}

func TestRestartCancelsPendingStep(t *testing.T) {
	p := newProcessor(t, 50*time.Millisecond)
	g := createGame(t, p)
	openingMove(t, p, g.GameID)

	resp := p.Execute(NewRestartCommand(g.GameID, core.RestartRequest{ResetScores: true, Difficulty: "easy"}))
	require.True(t, resp.Success, "%+v", resp.Error)
	restarted := resp.Data.(core.GameResponse)
	assert.Equal(t, "player", restarted.Turn)
	assert.Equal(t, "easy", restarted.Difficulty)
	assert.Equal(t, 2, restarted.Match)
	assert.False(t, restarted.Pending)

	time.Sleep(150 * time.Millisecond)
	current := getGame(t, p, g.GameID)
	assert.Equal(t, restarted.Version, current.Version, "cancelled step never ran")
	assert.Nil(t, current.LastMove)
}

func TestDeleteCancelsPendingStep(t *testing.T) {
	p := newProcessor(t, 50*time.Millisecond)
	g := createGame(t, p)
	openingMove(t, p, g.GameID)

	resp := p.Execute(NewDeleteGameCommand(g.GameID))
	require.True(t, resp.Success)

	resp = p.Execute(NewGetGameCommand(g.GameID))
	require.False(t, resp.Success)
	assert.Equal(t, core.ErrGameNotFound, resp.Error.Code)

	time.Sleep(100 * time.Millisecond)
}

func TestMoveErrors(t *testing.T) {
	p := newProcessor(t, time.Hour)
	g := createGame(t, p)

	tests := []struct {
		name string
		req  core.MoveRequest
		code string
	}{
		{"unknown piece", core.MoveRequest{PieceID: 99, Row: intPtr(4), Col: intPtr(1)}, core.ErrPieceNotFound},
		{"computer piece", core.MoveRequest{PieceID: 1, Row: intPtr(3), Col: intPtr(2)}, core.ErrNotYourTurn},
		{"illegal destination", core.MoveRequest{PieceID: 13, Row: intPtr(3), Col: intPtr(2)}, core.ErrInvalidMove},
		{"missing row", core.MoveRequest{PieceID: 13, Col: intPtr(1)}, core.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := p.Execute(NewMakeMoveCommand(g.GameID, tt.req))
			require.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	assert.Equal(t, g.Version, getGame(t, p, g.GameID).Version, "failed moves leave the game unchanged")

	resp := p.Execute(NewMakeMoveCommand("missing", core.MoveRequest{PieceID: 13, Row: intPtr(4), Col: intPtr(1)}))
	require.False(t, resp.Success)
	assert.Equal(t, core.ErrGameNotFound, resp.Error.Code)
}

func TestSelectPiece(t *testing.T) {
	p := newProcessor(t, time.Hour)
	g := createGame(t, p)

	resp := p.Execute(NewSelectPieceCommand(g.GameID, core.SelectRequest{PieceID: 13}))
	require.True(t, resp.Success)
	sel := resp.Data.(core.SelectResponse)
	assert.Equal(t, []core.Destination{{Row: 4, Col: 1}}, sel.Destinations)

	resp = p.Execute(NewSelectPieceCommand(g.GameID, core.SelectRequest{PieceID: 1}))
	require.True(t, resp.Success)
	assert.Empty(t, resp.Data.(core.SelectResponse).Destinations)

	resp = p.Execute(NewSelectPieceCommand(g.GameID, core.SelectRequest{PieceID: 42}))
	require.False(t, resp.Success)
	assert.Equal(t, core.ErrPieceNotFound, resp.Error.Code)
}

func TestSetDifficultyAndBoard(t *testing.T) {
	p := newProcessor(t, time.Hour)
	g := createGame(t, p)

	resp := p.Execute(NewSetDifficultyCommand(g.GameID, core.DifficultyRequest{Difficulty: "easy"}))
	require.True(t, resp.Success)
	assert.Equal(t, "easy", resp.Data.(core.GameResponse).Difficulty)

	resp = p.Execute(NewGetBoardCommand(g.GameID))
	require.True(t, resp.Success)
	assert.Contains(t, resp.Data.(core.BoardResponse).Board, "5 p . p . p . p .  5")
}

func TestQueueDropsCancelledTask(t *testing.T) {
	q := NewOpponentQueue(1)
	defer q.Shutdown(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	require.NoError(t, q.Schedule(OpponentTask{
		GameID: "g",
		Delay:  50 * time.Millisecond,
		Ctx:    ctx,
		Run:    func(OpponentTask) { ran <- struct{}{} },
	}))
	cancel()

	select {
	case <-ran:
		t.Fatal("cancelled task ran")
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, q.Schedule(OpponentTask{
		GameID: "g",
		Delay:  time.Millisecond,
		Run:    func(OpponentTask) { ran <- struct{}{} },
	}))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	require.NoError(t, q.Shutdown(time.Second))
	assert.ErrorIs(t, q.Schedule(OpponentTask{GameID: "g"}), ErrQueueShutdown)
}

func TestQueueScheduleDuringShutdown(t *testing.T) {
	q := NewOpponentQueue(2)

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- q.Schedule(OpponentTask{
				GameID: "g",
				Delay:  time.Millisecond,
				Run:    func(OpponentTask) {},
			})
		}()
	}

	require.NoError(t, q.Shutdown(time.Second))
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, ErrQueueShutdown), "unexpected error %v", err)
		}
	}
	assert.ErrorIs(t, q.Schedule(OpponentTask{GameID: "g"}), ErrQueueShutdown)
}
