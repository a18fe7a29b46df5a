package docushare

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for credentials that were not supplied through
// LoginOptions.
type Prompter interface {
	Username(baseURL string) (string, error)
	Password(username, loginURL string) (string, error)
}

// TerminalPrompter reads credentials from the controlling terminal,
// with the password read without echo.
type TerminalPrompter struct{}

func (TerminalPrompter) Username(baseURL string) (string, error) {
	fmt.Printf("\nEnter your username for %s\nUsername: ", baseURL)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (TerminalPrompter) Password(username, loginURL string) (string, error) {
	fmt.Printf("\nEnter password of %q for %s\nPassword: ", username, loginURL)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
