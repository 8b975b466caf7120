// Package ui holds the interactive prompts used by the CLI.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

var (
	errEmptyToken     = errors.New("token must not be empty")
	errNotInteractive = errors.New("stdin is not a terminal")
)

// ErrNotInteractive is returned by Confirm when no terminal is attached.
var ErrNotInteractive = errNotInteractive

// Prompter asks the user for input. The CLI takes it as a dependency so
// commands can run non-interactively in tests.
type Prompter interface {
	Secret(message string) (string, error)
	Confirm(message string, def bool) (bool, error)
	SelectLabels(labels []string, preselected []string) ([]string, error)
}

// SurveyPrompter implements Prompter with survey prompts on a terminal. When
// stdin is piped, Secret reads one line from it, SelectLabels keeps the
// preselection and Confirm fails.
type SurveyPrompter struct {
	in          io.Reader
	interactive bool
}

// NewSurveyPrompter returns a prompter on the process stdin.
func NewSurveyPrompter() *SurveyPrompter {
	return NewPrompter(os.Stdin, term.IsTerminal(int(os.Stdin.Fd())))
}

// NewPrompter returns a prompter reading piped input from in when interactive
// is false.
func NewPrompter(in io.Reader, interactive bool) *SurveyPrompter {
	return &SurveyPrompter{in: in, interactive: interactive}
}

// Secret asks for a value without echoing it.
func (p *SurveyPrompter) Secret(message string) (string, error) {
	var value string
	if p.interactive {
		prompt := &survey.Password{Message: message}
		if err := survey.AskOne(prompt, &value, survey.WithValidator(survey.Required)); err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(p.in)
		if scanner.Scan() {
			value = scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errEmptyToken
	}
	return value, nil
}

// Confirm asks a yes/no question.
func (p *SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	if !p.interactive {
		return false, fmt.Errorf("%w, cannot confirm %q", errNotInteractive, message)
	}
	ok := def
	prompt := &survey.Confirm{Message: message, Default: def}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return ok, nil
}

// SelectLabels lets the user pick labels, with the suggested ones ticked.
func (p *SurveyPrompter) SelectLabels(labels []string, preselected []string) ([]string, error) {
	if len(labels) == 0 {
		return []string{}, nil
	}
	if !p.interactive {
		return append([]string{}, preselected...), nil
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Choose labels:",
		Options: labels,
		Default: preselected,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, fmt.Errorf("failed to get label selection: %w", err)
	}
	return selected, nil
}
