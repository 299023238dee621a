// Package interactive provides terminal prompts for confirmations and
// choices.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt is needed but stdin is not a
// terminal.
var ErrNotInteractive = errors.New("not running in a terminal")

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted")

// askFunc matches survey.AskOne.
type askFunc func(p survey.Prompt, response any, opts ...survey.AskOpt) error

// Prompter asks questions on a terminal.
type Prompter struct {
	in          terminal.FileReader
	out         terminal.FileWriter
	err         io.Writer
	interactive bool
	ask         askFunc
}

// NewPrompter creates a prompter on stdin/stdout. It only prompts when
// stdin is a terminal.
func NewPrompter() *Prompter {
	return &Prompter{
		in:          os.Stdin,
		out:         os.Stdout,
		err:         os.Stderr,
		interactive: IsTerminal(),
		ask:         survey.AskOne,
	}
}

// NewPrompterWithIO creates a prompter with custom input/output (for testing).
func NewPrompterWithIO(in terminal.FileReader, out terminal.FileWriter, errw io.Writer, interactive bool) *Prompter {
	return &Prompter{in: in, out: out, err: errw, interactive: interactive, ask: survey.AskOne}
}

// IsTerminal checks if stdin is a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Interactive reports whether prompts will be shown.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(message string, def bool) (bool, error) {
	if !p.interactive {
		return false, ErrNotInteractive
	}
	answer := def
	prompt := &survey.Confirm{Message: message, Default: def}
	if err := p.ask(prompt, &answer, survey.WithStdio(p.in, p.out, p.err)); err != nil {
		return false, wrap(err)
	}
	return answer, nil
}

// Option is one choice in a Select prompt.
type Option struct {
	Label       string
	Description string
}

// Select asks the user to pick one option and returns its index.
func (p *Prompter) Select(message string, options []Option) (int, error) {
	if !p.interactive {
		return -1, ErrNotInteractive
	}
	if len(options) == 0 {
		return -1, fmt.Errorf("nothing to choose from")
	}

	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	prompt := &survey.Select{
		Message: message,
		Options: labels,
		Description: func(_ string, index int) string {
			return options[index].Description
		},
	}

	var index int
	if err := p.ask(prompt, &index, survey.WithStdio(p.in, p.out, p.err)); err != nil {
		return -1, wrap(err)
	}
	return index, nil
}

func wrap(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return fmt.Errorf("prompt failed: %w", err)
}
