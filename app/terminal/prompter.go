package terminal

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned when the user aborts a prompt with Ctrl-C.
var ErrInterrupted = errors.New("terminal: interrupted")

// MaxValueLen bounds a single answer.
const MaxValueLen = 256

// Prompter asks the user for input.
type Prompter interface {
	// Ask reads one value; secret input is not echoed.
	Ask(label string, secret bool) (string, error)
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)
}

// SurveyPrompter prompts on a terminal through survey.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter returns a prompter; opts are passed to every question,
// e.g. survey.WithStdio.
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

func (p *SurveyPrompter) Ask(label string, secret bool) (string, error) {
	var prompt survey.Prompt = &survey.Input{Message: label}
	if secret {
		prompt = &survey.Password{Message: label}
	}
	opts := append([]survey.AskOpt{survey.WithValidator(survey.MaxLength(MaxValueLen))}, p.opts...)

	var answer string
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", translate(err)
	}
	return answer, nil
}

func (p *SurveyPrompter) Confirm(question string) (bool, error) {
	ok := true
	if err := survey.AskOne(&survey.Confirm{Message: question, Default: true}, &ok, p.opts...); err != nil {
		return false, translate(err)
	}
	return ok, nil
}

func translate(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}
