package signup

import (
	"time"

	"github.com/google/uuid"
)

// Surface is the form the validator reads from and annotates. Implementations
// dispatch every handler from a single goroutine.
type Surface interface {
	// Value returns the current raw value of an input.
	Value(f Field) string
	// SetMessage writes, or clears with "", the error text of a field's slot.
	SetMessage(f Field, text string)
	// OnChange registers a handler run after each change of f.
	OnChange(f Field, handler func())
	// OnSubmit registers a handler run when the form is submitted. The
	// surface performs its default submit action only if no handler called
	// PreventDefault.
	OnSubmit(handler func(ev *SubmitEvent))
	// NotifySuccess shows a non-blocking acknowledgment of a valid form.
	NotifySuccess(ev Validated)
}

// SubmitEvent is passed to submit handlers.
type SubmitEvent struct {
	prevented bool
}

// PreventDefault suppresses the surface's default submit action.
func (e *SubmitEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *SubmitEvent) DefaultPrevented() bool { return e.prevented }

// Validated announces a form that passed submit validation and may proceed
// to the backend.
type Validated struct {
	ID      uuid.UUID
	At      time.Time
	Message string
	Values  Snapshot
}

// MemorySurface is an in-memory Surface. It is not safe for concurrent use.
type MemorySurface struct {
	values    map[Field]string
	messages  map[Field]string
	onChange  map[Field][]func()
	onSubmit  []func(*SubmitEvent)
	successes []Validated
	defaults  int
}

// NewMemorySurface returns a surface pre-filled with values.
func NewMemorySurface(values map[Field]string) *MemorySurface {
	s := &MemorySurface{
		values:   make(map[Field]string, len(Fields)),
		messages: make(map[Field]string, len(Fields)),
		onChange: make(map[Field][]func()),
	}
	for f, v := range values {
		s.values[f] = v
	}
	return s
}

func (s *MemorySurface) Value(f Field) string { return s.values[f] }

func (s *MemorySurface) SetMessage(f Field, text string) {
	if text == "" {
		delete(s.messages, f)
		return
	}
	s.messages[f] = text
}

func (s *MemorySurface) OnChange(f Field, handler func()) {
	s.onChange[f] = append(s.onChange[f], handler)
}

func (s *MemorySurface) OnSubmit(handler func(ev *SubmitEvent)) {
	s.onSubmit = append(s.onSubmit, handler)
}

func (s *MemorySurface) NotifySuccess(ev Validated) {
	s.successes = append(s.successes, ev)
}

// Input sets the value of f and fires its change handlers.
func (s *MemorySurface) Input(f Field, value string) {
	s.values[f] = value
	for _, h := range s.onChange[f] {
		h()
	}
}

// Submit fires the submit handlers and reports whether the default action
// ran.
func (s *MemorySurface) Submit() bool {
	ev := &SubmitEvent{}
	for _, h := range s.onSubmit {
		h(ev)
	}
	if ev.DefaultPrevented() {
		return false
	}
	s.defaults++
	return true
}

// Message returns the text currently shown in f's slot.
func (s *MemorySurface) Message(f Field) string { return s.messages[f] }

// Messages returns every non-empty slot.
func (s *MemorySurface) Messages() map[Field]string {
	out := make(map[Field]string, len(s.messages))
	for f, m := range s.messages {
		out[f] = m
	}
	return out
}

// Successes returns the acknowledgments shown so far.
func (s *MemorySurface) Successes() []Validated { return s.successes }

// DefaultSubmits counts submits whose default action was not prevented.
func (s *MemorySurface) DefaultSubmits() int { return s.defaults }
