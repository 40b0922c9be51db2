// Package terminal runs the sign-up form as an interactive terminal prompt.
// Fields are asked in form order. A password that fails its live check is
// asked again at once; after a rejected submit only the failed fields are
// asked again.
package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/km-arc/go-signup/signup"
)

// Surface is a signup.Surface driven by a Prompter. It is not safe for
// concurrent use.
type Surface struct {
	prompter Prompter
	out      io.Writer
	msgs     signup.Messages

	values   map[signup.Field]string
	messages map[signup.Field]string
	onChange map[signup.Field][]func()
	onSubmit []func(*signup.SubmitEvent)
	success  *signup.Validated
}

var _ signup.Surface = (*Surface)(nil)

// NewSurface returns a surface that prompts through p and prints messages
// to out. msgs supplies field labels and the confirmation question.
func NewSurface(p Prompter, out io.Writer, msgs signup.Messages) *Surface {
	return &Surface{
		prompter: p,
		out:      out,
		msgs:     msgs,
		values:   make(map[signup.Field]string, len(signup.Fields)),
		messages: make(map[signup.Field]string, len(signup.Fields)),
		onChange: make(map[signup.Field][]func()),
	}
}

func (s *Surface) Value(f signup.Field) string { return s.values[f] }

func (s *Surface) SetMessage(f signup.Field, text string) {
	if text == "" {
		delete(s.messages, f)
		return
	}
	s.messages[f] = text
}

func (s *Surface) OnChange(f signup.Field, handler func()) {
	s.onChange[f] = append(s.onChange[f], handler)
}

func (s *Surface) OnSubmit(handler func(*signup.SubmitEvent)) {
	s.onSubmit = append(s.onSubmit, handler)
}

func (s *Surface) NotifySuccess(ev signup.Validated) {
	s.success = &ev
	fmt.Fprintln(s.out, ev.Message)
}

// Run prompts until the form validates, the user declines to submit, or a
// prompt fails. It reports whether the form was accepted.
func (s *Surface) Run(ctx context.Context) (bool, error) {
	pending := signup.Fields
	for {
		for _, f := range pending {
			if err := s.ask(ctx, f); err != nil {
				return false, err
			}
		}

		ok, err := s.prompter.Confirm(s.msgs.Text(signup.MsgFormConfirm))
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		s.success = nil
		ev := &signup.SubmitEvent{}
		for _, h := range s.onSubmit {
			h(ev)
		}
		if s.success != nil {
			return true, nil
		}

		pending = s.failed()
		if len(pending) == 0 {
			return false, fmt.Errorf("terminal: submit neither accepted nor rejected the form")
		}
	}
}

func (s *Surface) ask(ctx context.Context, f signup.Field) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if msg := s.messages[f]; msg != "" {
			fmt.Fprintf(s.out, "  ✗ %s\n", msg)
		}
		v, err := s.prompter.Ask(s.msgs.Label(f), f.Secret())
		if err != nil {
			return err
		}
		s.values[f] = v
		for _, h := range s.onChange[f] {
			h()
		}
		if !f.Secret() || s.messages[f] == "" {
			return nil
		}
	}
}

func (s *Surface) failed() []signup.Field {
	var out []signup.Field
	for _, f := range signup.Fields {
		if s.messages[f] != "" {
			out = append(out, f)
		}
	}
	return out
}
