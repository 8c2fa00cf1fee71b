package ui

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter is the interactive capability consumed by the commands. The
// commands only branch on the returned values, so flows can be replayed
// with scripted answers in tests.
type Prompter interface {
	// Select asks the user to pick one of options.
	Select(message string, options []string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(message string, def bool) (bool, error)
	// ConfirmDangerous gates irreversible operations: a yes/no question
	// followed by exact re-typing of phrase. Only both passing returns true.
	ConfirmDangerous(message, phrase string) (bool, error)
	// Input asks for free text, optionally validated.
	Input(message, help string, validate func(string) error) (string, error)
	// Password asks for masked input (tokens).
	Password(message string) (string, error)
}

// SurveyPrompter implements Prompter over terminal prompts.
type SurveyPrompter struct{}

func NewPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

func (p *SurveyPrompter) Select(message string, options []string) (string, error) {
	var choice string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

func (p *SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}

func (p *SurveyPrompter) ConfirmDangerous(message, phrase string) (bool, error) {
	confirmed, err := p.Confirm(message, false)
	if err != nil || !confirmed {
		return false, err
	}

	typed, err := p.Input(fmt.Sprintf("Type '%s' to confirm:", phrase), "", nil)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(typed) != phrase {
		Warning("Confirmation phrase did not match")
		return false, nil
	}
	return true, nil
}

func (p *SurveyPrompter) Input(message, help string, validate func(string) error) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
	}
	opts := []survey.AskOpt{survey.WithValidator(survey.Required)}
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(val interface{}) error {
			if str, ok := val.(string); ok {
				return validate(str)
			}
			return nil
		}))
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *SurveyPrompter) Password(message string) (string, error) {
	var answer string
	prompt := &survey.Password{
		Message: message,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
