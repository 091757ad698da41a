package display

import (
	"fmt"
	"io"
	"strings"

	"checkers/internal/server/core"
)

// RenderBoard writes the server's ASCII board with colored pieces. Squares in
// marks are drawn as '*' so a selected piece's destinations stand out.
func RenderBoard(w io.Writer, asciiBoard string, marks []core.Destination) {
	lines := strings.Split(asciiBoard, "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		isIndexLine := i == 0 || i == len(lines)-1
		cells := []rune(line)
		if !isIndexLine {
			row := i - 1
			for _, d := range marks {
				// Row lines are "r " followed by two characters per column
				if d.Row == row && 2+2*d.Col < len(cells) {
					cells[2+2*d.Col] = '*'
				}
			}
		}

		for j, char := range cells {
			switch {
			case char >= '0' && char <= '7' && (isIndexLine || j < 2 || j >= len(cells)-2):
				fmt.Fprintf(w, "%s%c%s", Cyan, char, Reset)
			case char == 'p' || char == 'P':
				fmt.Fprintf(w, "%s%c%s", Blue, char, Reset)
			case char == 'c' || char == 'C':
				fmt.Fprintf(w, "%s%c%s", Red, char, Reset)
			case char == '*':
				fmt.Fprintf(w, "%s%c%s", Green, char, Reset)
			default:
				fmt.Fprintf(w, "%c", char)
			}
		}
		fmt.Fprintln(w)
	}
}

// RenderPieces lists pieces of one owner as "id@(row,col)", kings marked with K
func RenderPieces(pieces []core.PieceInfo, owner string) string {
	var parts []string
	for _, p := range pieces {
		if p.Owner != owner {
			continue
		}
		s := fmt.Sprintf("%d@(%d,%d)", p.ID, p.Row, p.Col)
		if p.King {
			s += "K"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
