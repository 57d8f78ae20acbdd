package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Console wraps line-oriented terminal interaction so menus and prompts can
// be driven by any reader/writer pair in tests.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole builds a console over the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Printf writes formatted output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Prompt reads one trimmed line after showing a label.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// errNotANumber marks a parse failure, as opposed to a read error on the
// input stream.
var errNotANumber = errors.New("not a number")

// PromptFloat reads a decimal number. A parse failure wraps errNotANumber
// so callers can re-prompt instead of ending the session.
func (c *Console) PromptFloat(label string) (float64, error) {
	raw, err := c.Prompt(label)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotANumber, raw)
	}
	return value, nil
}

// Confirm asks a yes/no question; only an explicit yes counts.
func (c *Console) Confirm(label string) (bool, error) {
	raw, err := c.Prompt(label + " [y/N]")
	if err != nil {
		return false, err
	}
	raw = strings.ToLower(raw)
	return raw == "y" || raw == "yes", nil
}

// Menu renders a numbered option list and reads the selection. Zero is
// always the implicit exit/back entry rendered last.
func (c *Console) Menu(title string, exitLabel string, options ...string) (int, error) {
	for {
		fmt.Fprintf(c.out, "\n=== %s ===\n", title)
		for i, option := range options {
			fmt.Fprintf(c.out, "%d. %s\n", i+1, option)
		}
		fmt.Fprintf(c.out, "0. %s\n", exitLabel)

		raw, err := c.Prompt("Select an option")
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(raw)
		if err != nil || choice < 0 || choice > len(options) {
			c.Println("Invalid selection, try again.")
			continue
		}
		return choice, nil
	}
}
