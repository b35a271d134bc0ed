// Package console holds the text collaborators of the interactive game: a line prompter and
// the grid renderer.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"batnav/internal/game"
)

// Prompter reads one line per question. "Q" at any prompt returns game.ErrQuit.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// MaxLine is the longest answer accepted; longer lines are discarded and asked again.
const MaxLine = 1024

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Ask(prompt string) (string, error) {
	for {
		fmt.Fprint(p.out, prompt)
		raw, long, err := p.readLine()
		if errors.Is(err, io.EOF) {
			// closed input behaves like a quit so nothing half-finished gets saved
			return "", game.ErrQuit
		}
		if err != nil {
			return "", err
		}
		if long {
			fmt.Fprintf(p.out, "Input too long (max %d characters). Try again.\n", MaxLine)
			continue
		}
		line := strings.TrimSpace(raw)
		if strings.EqualFold(line, "q") {
			fmt.Fprintln(p.out, "Leaving the game...")
			return "", game.ErrQuit
		}
		return line, nil
	}
}

// readLine consumes one whole line. Bytes past MaxLine are dropped and long is set.
func (p *Prompter) readLine() (line string, long bool, err error) {
	var buf []byte
	for {
		chunk, more, err := p.in.ReadLine()
		if err != nil {
			return "", false, err
		}
		if len(buf)+len(chunk) <= MaxLine {
			buf = append(buf, chunk...)
		} else {
			long = true
		}
		if !more {
			return string(buf), long, nil
		}
	}
}

func (p *Prompter) Say(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Prompter) ShowSetup(b *game.Board) {
	fmt.Fprintln(p.out, "\nYour fleet:")
	fmt.Fprint(p.out, SetupGrid(b))
}

// Show prints pre-rendered text as is.
func (p *Prompter) Show(text string) {
	fmt.Fprint(p.out, text)
}
