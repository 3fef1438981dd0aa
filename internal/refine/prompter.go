// Package refine runs the interactive feature refinement loop between
// intent extraction and spec generation. The operator reviews the extracted
// features and may add, enhance, or remove entries before finalizing.
package refine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Prompter abstracts the operator console so the loop can be driven by
// tests without a terminal.
type Prompter interface {
	// Confirm asks a yes/no question and returns the answer. An empty
	// reply returns def.
	Confirm(prompt string, def bool) (bool, error)

	// Select presents numbered options and returns the chosen index
	// (0-based). Replies outside the option range are re-asked.
	Select(prompt string, options []string) (int, error)

	// Input asks for a line of free text.
	Input(prompt string) (string, error)
}

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	optionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Console implements Prompter over a reader and writer, normally stdin and
// stdout.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole creates a console prompter.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Confirm asks until it gets y/n/yes/no or an empty line (the default).
func (c *Console) Confirm(prompt string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(c.out, "%s %s ", promptStyle.Render(prompt), hint)
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(c.out, noteStyle.Render("Please answer y or n."))
	}
}

// Select prints numbered options and asks until the reply is a valid
// 1-based choice, returning it 0-based.
func (c *Console) Select(prompt string, options []string) (int, error) {
	fmt.Fprintln(c.out, promptStyle.Render(prompt))
	for i, opt := range options {
		fmt.Fprintf(c.out, "%s\n", optionStyle.Render(fmt.Sprintf("%d. %s", i+1, opt)))
	}
	for {
		fmt.Fprintf(c.out, "Choose an option [1-%d]: ", len(options))
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintln(c.out, noteStyle.Render("Invalid choice."))
	}
}

// Input asks for one line of text.
func (c *Console) Input(prompt string) (string, error) {
	fmt.Fprintf(c.out, "%s ", promptStyle.Render(prompt))
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

var _ Prompter = (*Console)(nil)
