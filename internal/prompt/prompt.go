// Package prompt asks the release questions on the terminal using small
// bubbletea programs: a list for choices, a text input for free-form answers
// and a y/N confirmation.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

var (
	// ErrCancelled is returned when the user quits a prompt with esc or ctrl+c.
	ErrCancelled = errors.New("prompt: cancelled")
	// ErrNotInteractive is returned when stdin is not a terminal.
	ErrNotInteractive = errors.New("prompt: stdin is not a terminal")
)

// Option is one choice offered by Select.
type Option struct {
	Label string
	Hint  string
	Value string
}

// Prompter asks the user questions.
type Prompter interface {
	Select(ctx context.Context, label string, options []Option) (string, error)
	Input(ctx context.Context, label, placeholder string, validate func(string) error) (string, error)
	Confirm(ctx context.Context, label string) (bool, error)
}

// Terminal runs prompts against a TTY.
type Terminal struct {
	in  *os.File
	out io.Writer
}

// NewTerminal binds prompts to in and out. Prompts refuse to run unless in is
// a terminal.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

func (t *Terminal) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	if t.in == nil || !term.IsTerminal(int(t.in.Fd())) {
		return nil, ErrNotInteractive
	}
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}

// Select shows options as a list and returns the chosen option's value.
func (t *Terminal) Select(ctx context.Context, label string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("prompt: %s: no options", label)
	}
	final, err := t.run(ctx, newSelectModel(label, options))
	if err != nil {
		return "", err
	}
	m := final.(selectModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.choice, nil
}

// Input reads a line of text, re-prompting until validate accepts it.
func (t *Terminal) Input(ctx context.Context, label, placeholder string, validate func(string) error) (string, error) {
	final, err := t.run(ctx, newInputModel(label, placeholder, validate))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.value, nil
}

// Confirm asks a yes/no question defaulting to no.
func (t *Terminal) Confirm(ctx context.Context, label string) (bool, error) {
	final, err := t.run(ctx, newConfirmModel(label))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.answer, nil
}
