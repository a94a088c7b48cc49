package model

import (
	"fmt"
	"io"
	"strings"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	ansiClear = "\033[H\033[2J"
)

// TerminalRenderer draws boards as block characters
type TerminalRenderer struct {
	Out io.Writer
}

// Display renders the board, one line per row
func (r *TerminalRenderer) Display(b *Board) error {
	var sb strings.Builder
	sb.Grow(b.Height() * (b.Width()*len(gridPosBlock) + 1))
	for _, row := range b.Grid {
		for _, alive := range row {
			if alive {
				sb.WriteString(gridPosBlock)
			} else {
				sb.WriteString(gridPosEmpty)
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(r.Out, sb.String())
	return err
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := fmt.Fprint(r.Out, ansiClear)
	return err
}
