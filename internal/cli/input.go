package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// isTerminalFn and readPasswordFn are test seams over golang.org/x/term.
var (
	isTerminalFn   = term.IsTerminal
	readPasswordFn = term.ReadPassword
)

// ErrNoTerminal is returned when a secret must be prompted for but stdin is
// not a terminal.
var ErrNoTerminal = errors.New("stdin is not a terminal")

// PromptSecret reads the project secret from stdin without echo.
func PromptSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminalFn(fd) {
		return "", ErrNoTerminal
	}
	fmt.Print("-Enter project secret: ")
	b, err := readPasswordFn(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
