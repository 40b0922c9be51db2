// Package live exposes the sign-up form over a websocket: the browser
// forwards input and submit events, the session replays them to the
// validator and streams message slot updates back.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/km-arc/go-signup/signup"
)

// Frame types sent by the browser.
const (
	FrameInput  = "input"
	FrameSubmit = "submit"
)

// Event types sent to the browser.
const (
	EventReady     = "ready"
	EventMessage   = "message"
	EventValidated = "validated"
	EventError     = "error"
)

// MaxValueLen bounds a single input value.
const MaxValueLen = 256

// DefaultWriteTimeout bounds a write to a peer that stopped reading.
const DefaultWriteTimeout = 10 * time.Second

// Frame is one inbound event.
type Frame struct {
	Type  string `json:"type" validate:"required,oneof=input submit"`
	Field string `json:"field,omitempty" validate:"required_if=Type input,omitempty,signup_field"`
	Value string `json:"value,omitempty" validate:"max=256"`
}

// Event is one outbound update.
type Event struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Field  string `json:"field,omitempty"`
	Slot   string `json:"slot,omitempty"`
	Text   string `json:"text,omitempty"`
	Locale string `json:"locale,omitempty"`
}

var frameValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("signup_field", func(fl validator.FieldLevel) bool {
		_, err := signup.ParseField(fl.Field().String())
		return err == nil
	})
	return v
})

// ValidateFrame checks the shape of an inbound frame.
func ValidateFrame(f Frame) error {
	if err := frameValidator().Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid frame: %s failed %s", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid frame: %w", err)
	}
	return nil
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReadLimit caps the size of an inbound frame in bytes.
func WithReadLimit(n int64) Option {
	return func(s *Session) { s.readLimit = n }
}

// WithWriteTimeout bounds each write to the peer.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Session) { s.writeTimeout = d }
}

// WithLocale names the locale announced in the ready event.
func WithLocale(tag string) Option {
	return func(s *Session) { s.locale = tag }
}

// Session is a signup.Surface backed by one websocket connection. Run's
// read loop is the only goroutine that dispatches handlers or writes.
type Session struct {
	ID uuid.UUID

	conn      *websocket.Conn
	logger    *zap.Logger
	readLimit    int64
	writeTimeout time.Duration
	locale       string

	values   map[signup.Field]string
	onChange map[signup.Field][]func()
	onSubmit []func(*signup.SubmitEvent)

	// first write failure; ends the read loop
	writeErr error
}

var _ signup.Surface = (*Session)(nil)

// NewSession wraps an upgraded connection.
func NewSession(conn *websocket.Conn, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.New(),
		conn:      conn,
		logger:    zap.NewNop(),
		readLimit:    4096,
		writeTimeout: DefaultWriteTimeout,
		values:    make(map[signup.Field]string, len(signup.Fields)),
		onChange:  make(map[signup.Field][]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.Stringer("session", s.ID))
	return s
}

func (s *Session) Value(f signup.Field) string { return s.values[f] }

func (s *Session) SetMessage(f signup.Field, text string) {
	s.send(Event{Type: EventMessage, Field: f.String(), Slot: f.Slot(), Text: text})
}

func (s *Session) OnChange(f signup.Field, handler func()) {
	s.onChange[f] = append(s.onChange[f], handler)
}

func (s *Session) OnSubmit(handler func(*signup.SubmitEvent)) {
	s.onSubmit = append(s.onSubmit, handler)
}

func (s *Session) NotifySuccess(ev signup.Validated) {
	s.send(Event{Type: EventValidated, ID: ev.ID.String(), Text: ev.Message})
}

func (s *Session) send(ev Event) {
	if s.writeErr != nil {
		return
	}
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			s.writeErr = err
			return
		}
	}
	if err := s.conn.WriteJSON(ev); err != nil {
		s.writeErr = err
	}
}

// Run announces the session and dispatches frames until the peer closes,
// ctx is done or a write fails. A normal close returns nil. A frame that is
// not a JSON object, including an empty or truncated one, gets an error
// event and the session goes on.
func (s *Session) Run(ctx context.Context) error {
	s.conn.SetReadLimit(s.readLimit)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.conn.Close()
		case <-stop:
		}
	}()

	s.logger.Debug("live session opened")
	s.send(Event{Type: EventReady, ID: s.ID.String(), Locale: s.locale})

	for s.writeErr == nil {
		var f Frame
		if err := s.conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.logger.Debug("live session closed")
				return nil
			}
			if isDecodeError(err) {
				s.send(Event{Type: EventError, Text: "malformed frame"})
				continue
			}
			return fmt.Errorf("live: read: %w", err)
		}
		s.dispatch(f)
	}
	return fmt.Errorf("live: write: %w", s.writeErr)
}

func (s *Session) dispatch(f Frame) {
	if err := ValidateFrame(f); err != nil {
		s.logger.Debug("frame rejected", zap.Error(err))
		s.send(Event{Type: EventError, Text: err.Error()})
		return
	}

	switch f.Type {
	case FrameInput:
		field := signup.Field(f.Field)
		s.values[field] = f.Value
		for _, h := range s.onChange[field] {
			h()
		}
	case FrameSubmit:
		ev := &signup.SubmitEvent{}
		for _, h := range s.onSubmit {
			h(ev)
		}
		if !ev.DefaultPrevented() {
			s.logger.Warn("submit not handled")
		}
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	// ReadJSON reports an empty or cut-off message as io.ErrUnexpectedEOF
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
