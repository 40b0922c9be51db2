package signup

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when a field id is not part of the sign-up form.
var ErrUnknownField = errors.New("signup: unknown field")

// Field identifies one input of the sign-up form. The value is the DOM id of
// the input element.
type Field string

const (
	FieldPassword        Field = "password"
	FieldPasswordConfirm Field = "password-confirm"
	FieldUserID          Field = "user-id"
	FieldName            Field = "name"
	FieldAge             Field = "age"
	FieldEmail           Field = "email"
)

// Fields lists every form field in submit evaluation order.
var Fields = []Field{
	FieldPassword,
	FieldPasswordConfirm,
	FieldUserID,
	FieldName,
	FieldAge,
	FieldEmail,
}

var slots = map[Field]string{
	FieldPassword:        "pw-error",
	FieldPasswordConfirm: "pw-confirm-error",
	FieldUserID:          "id-error",
	FieldName:            "name-error",
	FieldAge:             "age-error",
	FieldEmail:           "email-error",
}

// Slot returns the id of the display node holding the field's error text.
func (f Field) Slot() string { return slots[f] }

// Known reports whether f is one of the form's fields.
func (f Field) Known() bool {
	_, ok := slots[f]
	return ok
}

// Secret reports whether the field carries a password and must never be
// logged or trimmed.
func (f Field) Secret() bool {
	return f == FieldPassword || f == FieldPasswordConfirm
}

func (f Field) String() string { return string(f) }

// ParseField converts a field id into a Field.
func ParseField(id string) (Field, error) {
	f := Field(id)
	if !f.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return f, nil
}
