package ui

import "fmt"

// ScriptedPrompter answers prompts from pre-queued values. It backs flow
// tests and could back a future non-interactive mode.
type ScriptedPrompter struct {
	Selects   []string
	Confirms  []bool
	Inputs    []string
	Passwords []string
}

func (p *ScriptedPrompter) Select(message string, options []string) (string, error) {
	if len(p.Selects) == 0 {
		return "", fmt.Errorf("no scripted answer for select: %s", message)
	}
	answer := p.Selects[0]
	p.Selects = p.Selects[1:]
	return answer, nil
}

func (p *ScriptedPrompter) Confirm(message string, def bool) (bool, error) {
	if len(p.Confirms) == 0 {
		return false, fmt.Errorf("no scripted answer for confirm: %s", message)
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

func (p *ScriptedPrompter) ConfirmDangerous(message, phrase string) (bool, error) {
	confirmed, err := p.Confirm(message, false)
	if err != nil || !confirmed {
		return false, err
	}
	typed, err := p.Input(phrase, "", nil)
	if err != nil {
		return false, err
	}
	return typed == phrase, nil
}

func (p *ScriptedPrompter) Input(message, help string, validate func(string) error) (string, error) {
	if len(p.Inputs) == 0 {
		return "", fmt.Errorf("no scripted answer for input: %s", message)
	}
	answer := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (p *ScriptedPrompter) Password(message string) (string, error) {
	if len(p.Passwords) == 0 {
		return "", fmt.Errorf("no scripted answer for password: %s", message)
	}
	answer := p.Passwords[0]
	p.Passwords = p.Passwords[1:]
	return answer, nil
}
