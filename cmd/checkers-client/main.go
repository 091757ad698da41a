// Package main implements an interactive terminal client for the checkers server API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"checkers/internal/client/api"
	"checkers/internal/client/commands"
	"checkers/internal/client/display"
	"checkers/internal/client/session"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Checkers server base URL")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	history := flag.String("history", ".checkers_history", "Readline history file")
	flag.Parse()

	display.Configure(*noColor)

	s := &session.Session{
		APIBaseURL: *apiURL,
		Client:     api.New(*apiURL),
	}

	registry := commands.NewRegistry(s)

	var completions []readline.PrefixCompleterInterface
	for _, name := range registry.Names() {
		completions = append(completions, readline.PcItem(name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("checkers"),
		HistoryFile:     *history,
		AutoComplete:    readline.NewPrefixCompleter(completions...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sCheckers Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands, 'new' to start a game\n\n")

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" || line == "x" {
			break
		}

		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		registry.Execute(line)
	}
}

func buildPrompt(s *session.Session) string {
	promptStr := "checkers"

	if s.CurrentGame != "" {
		short := s.CurrentGame
		if len(short) > 8 {
			short = short[:8]
		}
		promptStr += display.Yellow + " [" + display.Reset + display.White + short + display.Reset + display.Yellow + "]"
	}

	if g := s.CurrentGameState; g != nil {
		promptStr += fmt.Sprintf(" %s%d%s-%s%d%s %s",
			display.Blue, g.PlayerScore, display.Reset,
			display.Red, g.ComputerScore, display.Reset,
			g.Difficulty)
		if g.Capturing != 0 && g.Turn == "player" {
			promptStr += fmt.Sprintf(" %scapture with %d%s", display.Magenta, g.Capturing, display.Reset)
		}
	}

	return display.Prompt(promptStr)
}
