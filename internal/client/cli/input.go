package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptText prints a prompt and reads a single trimmed line. If EOF occurs
// after some input was read, the partial line is returned.
func promptText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptDefault reads a line, falling back to def when the user enters
// nothing. Used by the edit flow to keep current values.
func promptDefault(reader *bufio.Reader, prompt, def string, w io.Writer) (string, error) {
	value, err := promptText(reader, fmt.Sprintf("%s [%s]", prompt, def), w)
	if err != nil {
		return "", err
	}
	if value == "" {
		return def, nil
	}
	return value, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return "", err
	}
	return string(pw), nil
}
