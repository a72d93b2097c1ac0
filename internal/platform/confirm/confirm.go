package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Asker gets a yes/no answer before a destructive or spending action.
type Asker interface {
	Ask(question string) bool
}

// Always answers every question with its own value. Always(true) backs --yes.
type Always bool

func (a Always) Ask(string) bool { return bool(a) }

// Prompter asks on a terminal. Anything but y/yes, including EOF, is a no.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Ask(question string) bool {
	_, _ = fmt.Fprintf(p.out, "%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
