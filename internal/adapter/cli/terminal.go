package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalPasswordReader reads passwords from f without echo when f is a
// terminal. It returns nil otherwise, leaving the line reader in place.
func TerminalPasswordReader(f *os.File, out io.Writer) PasswordReader {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
}
