package display

import (
	"encoding/json"
	"fmt"
	"io"

	"checkers/internal/server/core"
)

// PrettyPrintJSON prints formatted JSON
func PrettyPrintJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%sError formatting JSON: %s%s\n", Red, err.Error(), Reset)
		return
	}
	fmt.Fprintln(w, string(data))
}

// FormatMove describes the last applied move in one line
func FormatMove(m *core.MoveInfo) string {
	if m == nil {
		return ""
	}
	if m.Passed {
		return fmt.Sprintf("%s has no move and passes", ColorForOwner(m.Owner))
	}

	s := fmt.Sprintf("%s moved %d (%d,%d)->(%d,%d)",
		ColorForOwner(m.Owner), m.PieceID, m.FromRow, m.FromCol, m.Row, m.Col)
	if m.Captured != 0 {
		s += fmt.Sprintf(" capturing %d", m.Captured)
	}
	if m.Promoted {
		s += ", crowned"
	}
	if m.Winner != "" {
		s += fmt.Sprintf(", %s wins the match", ColorForOwner(m.Winner))
	}
	return s
}

// FormatStatus summarises turn, score and state of a game
func FormatStatus(g *core.GameResponse) string {
	s := fmt.Sprintf("Match %d  Score %s%d%s-%s%d%s  Level %s  Turn %s",
		g.Match,
		Blue, g.PlayerScore, Reset,
		Red, g.ComputerScore, Reset,
		g.Difficulty,
		ColorForOwner(g.Turn),
	)
	if g.Capturing != 0 {
		s += fmt.Sprintf("  (piece %d must keep capturing)", g.Capturing)
	}
	switch {
	case g.State == "stuck":
		s += "  " + Red + "[stuck, restart required]" + Reset
	case g.Pending:
		s += "  " + Magenta + "[computer thinking]" + Reset
	}
	return s
}
