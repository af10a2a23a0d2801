package main

import (
	"io"
	"os"

	"golang.org/x/term"
)

// resetSequences undo what a full-screen session may leave behind
var resetSequences = [][]byte{
	[]byte("\x1b[?1003l\x1b[?1002l\x1b[?1000l\x1b[?1006l"), // mouse tracking off
	[]byte("\x1b[?25h"),   // cursor on
	[]byte("\x1b[?1049l"), // leave alternate screen
	[]byte("\x1b[0m"),     // attributes off
	[]byte("\x1b[?7h"),    // auto-wrap on
}

// emergencyReset restores the terminal after a crash, when tcell may not have finished cleanly
// state is the termios captured before the screen started; nil skips the restore
func emergencyReset(w io.Writer, fd int, state *term.State) {
	for _, seq := range resetSequences {
		w.Write(seq)
	}
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}
	if state != nil {
		_ = term.Restore(fd, state)
	}
}
