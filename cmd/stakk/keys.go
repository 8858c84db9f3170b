package main

import (
	"os"

	"github.com/chzyer/readline"
	"github.com/npillmayer/stakk/interp"
)

// terminalKeys reads single keystrokes. If input comes from a terminal, the
// terminal is switched to raw mode while waiting for a key, so keystrokes are
// neither echoed nor line-buffered.
type terminalKeys struct {
	src *interp.ReaderSource
	fd  int
}

var _ interp.KeySource = (*terminalKeys)(nil)

func newTerminalKeys(src *interp.ReaderSource, f *os.File) *terminalKeys {
	return &terminalKeys{src: src, fd: int(f.Fd())}
}

func (tk *terminalKeys) ReadKey() (rune, error) {
	if readline.IsTerminal(tk.fd) && tk.src.Reader().Buffered() == 0 {
		state, err := readline.MakeRaw(tk.fd)
		if err != nil {
			return 0, err
		}
		defer readline.Restore(tk.fd, state)
	}
	return tk.src.ReadKey()
}
