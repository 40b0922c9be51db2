package signup

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option configures a FormValidator.
type Option func(*FormValidator)

// WithMessages sets the locale used for error texts.
func WithMessages(m Messages) Option {
	return func(v *FormValidator) { v.messages = m }
}

// WithLogger sets the logger. Password values are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(v *FormValidator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithLenientSubmit keeps the live empty-password exemption at submit time,
// so a form with both password fields empty can pass.
func WithLenientSubmit(lenient bool) Option {
	return func(v *FormValidator) { v.lenient = lenient }
}

// WithOnValid registers the callback run after a successful submit. It is the
// hand-off point to whatever submits the form to a backend.
func WithOnValid(fn func(Validated)) Option {
	return func(v *FormValidator) { v.onValid = fn }
}

// WithClock overrides time.Now for Validated timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *FormValidator) { v.now = now }
}

// FormValidator validates the sign-up form behind a Surface.
type FormValidator struct {
	surface  Surface
	messages Messages
	logger   *zap.Logger
	lenient  bool
	onValid  func(Validated)
	now      func() time.Time
}

// New builds a validator and registers its live and submit handlers on s.
func New(s Surface, opts ...Option) *FormValidator {
	v := &FormValidator{
		surface:  s,
		messages: DefaultMessages(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	s.OnChange(FieldPassword, v.PasswordChanged)
	s.OnChange(FieldPasswordConfirm, v.ConfirmChanged)
	s.OnSubmit(func(ev *SubmitEvent) { v.Submit(ev) })
	return v
}

// Messages returns the locale the validator reports in.
func (v *FormValidator) Messages() Messages { return v.messages }

// PasswordChanged re-checks complexity and match after a password edit.
func (v *FormValidator) PasswordChanged() {
	v.live(FieldPassword, FieldPasswordConfirm)
}

// ConfirmChanged re-checks the match after a confirmation edit.
func (v *FormValidator) ConfirmChanged() {
	v.live(FieldPasswordConfirm)
}

func (v *FormValidator) live(fields ...Field) Report {
	report := Check(v.snapshot(), true, v.messages, fields...)
	v.apply(report.Results...)
	for _, res := range report.Results {
		v.logger.Debug("live validation",
			zap.String("field", res.Field.String()),
			zap.Bool("valid", res.Valid))
	}
	return report
}

// Submit runs every rule over a fresh snapshot. The default submit action is
// always prevented; a valid form is announced through NotifySuccess and the
// OnValid callback instead.
func (v *FormValidator) Submit(ev *SubmitEvent) Report {
	if ev != nil {
		ev.PreventDefault()
	}
	for _, f := range Fields {
		v.surface.SetMessage(f, "")
	}

	snap := v.snapshot()
	report := Check(snap, v.lenient, v.messages)
	v.apply(report.Results...)

	if !report.Valid() {
		failed := report.Failed()
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = f.String()
		}
		v.logger.Info("signup form rejected", zap.Strings("failed", names))
		return report
	}

	done := Validated{
		ID:      uuid.New(),
		At:      v.now(),
		Message: v.messages.Text(MsgSubmitSuccess),
		Values:  snap,
	}
	v.logger.Info("signup form validated", zap.Stringer("id", done.ID))
	v.surface.NotifySuccess(done)
	if v.onValid != nil {
		v.onValid(done)
	}
	return report
}

func (v *FormValidator) snapshot() Snapshot {
	return Read(v.surface.Value)
}

// apply writes each result's message, or clears the slot of a valid field.
func (v *FormValidator) apply(results ...Result) {
	for _, res := range results {
		v.surface.SetMessage(res.Field, res.Message)
	}
}
