package commands

import (
	"fmt"
	"strconv"
	"strings"

	"checkers/internal/client/api"
	"checkers/internal/client/display"
	"checkers/internal/server/core"
)

// maxFollowPolls bounds how many long-polls a command spends on one
// computer turn
const maxFollowPolls = 50

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new [easy|medium|hard] [seed]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "select",
		ShortName:   "e",
		Description: "Show where a piece can move",
		Usage:       "select <pieceId>",
		Handler:     selectHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Move a piece and follow the computer's reply",
		Usage:       "move <pieceId> <row> <col>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "wait",
		ShortName:   "w",
		Description: "Long-poll for game updates",
		Usage:       "wait",
		Handler:     waitHandler,
	})

	r.Register(&Command{
		Name:        "restart",
		ShortName:   "r",
		Description: "Start the next match",
		Usage:       "restart [reset] [easy|medium|hard]",
		Handler:     restartHandler,
	})

	r.Register(&Command{
		Name:        "level",
		ShortName:   "l",
		Description: "Change the computer's difficulty",
		Usage:       "level <easy|medium|hard>",
		Handler:     levelHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})
}

func currentGame(s Session) (string, error) {
	id := s.GetCurrentGame()
	if id == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join'")
	}
	return id, nil
}

func parseDifficulty(arg string) (string, error) {
	d, err := core.ParseDifficulty(strings.ToLower(arg))
	if err != nil || arg == "" {
		return "", fmt.Errorf("unknown difficulty %q, use easy, medium or hard", arg)
	}
	return d.String(), nil
}

func newGameHandler(s Session, args []string) error {
	req := &api.CreateGameRequest{}

	if len(args) > 0 {
		d, err := parseDifficulty(args[0])
		if err != nil {
			return err
		}
		req.Difficulty = d
	}
	if len(args) > 1 {
		seed, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", args[1])
		}
		req.Seed = seed
	}

	resp, err := s.GetClient().CreateGame(req)
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	s.SetGameState(resp)

	fmt.Printf("%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	return render(s, resp, nil)
}

func joinGameHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	resp, err := s.GetClient().GetGame(args[0])
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	s.SetGameState(resp)

	fmt.Printf("%sJoined game: %s%s\n", display.Cyan, resp.GameID, display.Reset)
	return render(s, resp, nil)
}

func showBoardHandler(s Session, args []string) error {
	id, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().GetGame(id)
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	return render(s, resp, nil)
}

func gameStateHandler(s Session, args []string) error {
	id, err := currentGame(s)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().GetGame(id)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	display.PrettyPrintJSON(s.GetClient().Out, resp)
	return nil
}

func selectHandler(s Session, args []string) error {
	id, err := currentGame(s)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: select <pieceId>")
	}
	pieceID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid piece id: %s", args[0])
	}

	sel, err := s.GetClient().SelectPiece(id, pieceID)
	if err != nil {
		return err
	}

	if len(sel.Destinations) == 0 {
		fmt.Printf("%sPiece %d has no legal move%s\n", display.Yellow, pieceID, display.Reset)
		return nil
	}

	var dests []string
	for _, d := range sel.Destinations {
		dest := fmt.Sprintf("(%d,%d)", d.Row, d.Col)
		if d.Captured != 0 {
			dest += fmt.Sprintf(" x%d", d.Captured)
		}
		dests = append(dests, dest)
	}
	fmt.Printf("%sPiece %d can move to: %s%s\n", display.Cyan, pieceID, strings.Join(dests, ", "), display.Reset)

	return render(s, s.GetGameState(), sel.Destinations)
}

func moveHandler(s Session, args []string) error {
	id, err := currentGame(s)
	if err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("usage: move <pieceId> <row> <col>")
	}

	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return fmt.Errorf("invalid number: %s", args[i])
		}
		nums[i] = n
	}

	resp, err := s.GetClient().MakeMove(id, nums[0], nums[1], nums[2])
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	printLastMove(resp)

	if resp.Capturing != 0 && resp.Turn == "player" {
		fmt.Printf("%sPiece %d must continue capturing%s\n", display.Yellow, resp.Capturing, display.Reset)
	}

	resp, err = followComputer(s, resp)
	if err != nil {
		return err
	}
	return render(s, resp, nil)
}

func waitHandler(s Session, args []string) error {
	id, err := currentGame(s)
	if err != nil {
		return err
	}

	version := s.GetVersion()
	fmt.Printf("%sLong-polling for updates (version: %d)...%s\n", display.Cyan, version, display.Reset)

	resp, err := s.GetClient().WaitForUpdate(id, version)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	if resp.Version == version {
		fmt.Printf("%sNo change%s\n", display.Yellow, display.Reset)
		return nil
	}
	printLastMove(resp)
	return render(s, resp, nil)
}

func restartHandler(s Session, args []string) error {
	id, err := currentGame(s)
	if err != nil {
		return err
	}

	req := &api.RestartRequest{}
	for _, arg := range args {
		if strings.EqualFold(arg, "reset") {
			req.ResetScores = true
			continue
		}
		d, err := parseDifficulty(arg)
		if err != nil {
			return err
		}
		req.Difficulty = d
	}

	resp, err := s.GetClient().Restart(id, req)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	fmt.Printf("%sMatch %d started%s\n", display.Green, resp.Match, display.Reset)
	return render(s, resp, nil)
}

func levelHandler(s Session, args []string) error {
	id, err := currentGame(s)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: level <easy|medium|hard>")
	}
	d, err := parseDifficulty(args[0])
	if err != nil {
		return err
	}

	resp, err := s.GetClient().SetDifficulty(id, d)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	fmt.Printf("%sDifficulty set to %s%s\n", display.Green, resp.Difficulty, display.Reset)
	return nil
}

func deleteGameHandler(s Session, args []string) error {
	id := s.GetCurrentGame()
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		return fmt.Errorf("usage: delete [gameId]")
	}

	if err := s.GetClient().DeleteGame(id); err != nil {
		return err
	}

	if id == s.GetCurrentGame() {
		s.SetCurrentGame("")
	}
	fmt.Printf("%sGame deleted: %s%s\n", display.Green, id, display.Reset)
	return nil
}

// followComputer long-polls while the computer holds the move, printing each
// step it plays
func followComputer(s Session, g *api.GameResponse) (*api.GameResponse, error) {
	c := s.GetClient()

	for i := 0; i < maxFollowPolls && computerToAct(g); i++ {
		next, err := c.WaitForUpdate(g.GameID, g.Version)
		if err != nil {
			return g, err
		}
		if next.Version != g.Version {
			printLastMove(next)
		}
		g = next
		s.SetGameState(g)
	}
	return g, nil
}

func computerToAct(g *api.GameResponse) bool {
	return g.State != "stuck" && (g.Pending || g.Turn == "computer")
}

func printLastMove(g *api.GameResponse) {
	if line := display.FormatMove(g.LastMove); line != "" {
		fmt.Println(line)
	}
}

func render(s Session, g *api.GameResponse, marks []core.Destination) error {
	if g == nil {
		return nil
	}

	b, err := s.GetClient().GetBoard(g.GameID)
	if err != nil {
		return err
	}

	out := s.GetClient().Out
	fmt.Fprintln(out)
	display.RenderBoard(out, b.Board, marks)
	fmt.Fprintln(out)
	fmt.Fprintln(out, display.FormatStatus(g))
	fmt.Fprintf(out, "  %s: %s\n", display.ColorForOwner("player"), display.RenderPieces(g.Pieces, "player"))
	fmt.Fprintf(out, "  %s: %s\n", display.ColorForOwner("computer"), display.RenderPieces(g.Pieces, "computer"))
	return nil
}
