package ctl

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// promptSecret prints prompt to w and reads a line from the terminal
// without echo. ok is false when stdin is not a terminal.
func promptSecret(w io.Writer, prompt string) (secret []byte, ok bool, err error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return nil, false, nil
	}

	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, true, err
	}
	secret, err = readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, true, err
	}
	return secret, true, nil
}
