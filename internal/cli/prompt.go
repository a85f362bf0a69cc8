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

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "Y")
	Accepted bool
	// Cancelled is true if reading input failed
	Cancelled bool
}

// errEmptyToken is returned when no token was entered.
var errEmptyToken = errors.New("no token provided")

// stdinIsTerminal reports whether reader is an interactive terminal.
func stdinIsTerminal(reader io.Reader) bool {
	f, ok := reader.(*os.File)
	return ok && isTerminal(f)
}

// Confirm asks a yes/no question. It returns Accepted=false without
// prompting when reader is not a terminal.
//
// The prompt defaults to "No" when the user presses Enter without input.
// Valid inputs: "y", "Y", "yes", "Yes", "YES" for acceptance; anything else declines.
func Confirm(writer io.Writer, reader io.Reader, question string) PromptResult {
	if !stdinIsTerminal(reader) {
		return PromptResult{Accepted: false}
	}

	fmt.Fprintf(writer, "? %s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		// EOF (Ctrl+D) declines.
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// ReadToken reads an API token from reader. On a terminal the input is not echoed;
// otherwise the first line is used, which lets tokens be piped in.
func ReadToken(writer io.Writer, reader io.Reader) (string, error) {
	if f, ok := reader.(*os.File); ok && isTerminal(f) {
		fmt.Fprint(writer, "API token: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(writer)
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return nonEmptyToken(string(raw))
	}

	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return nonEmptyToken(line)
}

func nonEmptyToken(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}
