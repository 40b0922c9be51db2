package signup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/km-arc/go-signup/framework/http/validation"
)

// Trigger is the set of validation modes a rule takes part in.
type Trigger uint8

const (
	Live Trigger = 1 << iota
	Submit
)

// Has reports whether t includes mode.
func (t Trigger) Has(mode Trigger) bool { return t&mode != 0 }

func (t Trigger) String() string {
	switch t {
	case Live:
		return "live"
	case Submit:
		return "submit"
	case Live | Submit:
		return "live,submit"
	}
	return ""
}

// Message keys used by the rule table and the message catalog.
const (
	MsgPasswordComplexity = "password.complexity"
	MsgPasswordMismatch   = "password.mismatch"
	MsgUserIDFormat       = "user_id.format"
	MsgNameFormat         = "name.format"
	MsgAgeRange           = "age.range"
	MsgEmailFormat        = "email.format"
	MsgSubmitSuccess      = "submit.success"
	MsgPageTitle          = "page.title"
	MsgPageSubmit         = "page.submit"
	MsgFormConfirm        = "form.confirm"
)

const (
	MinAge = 14
	MaxAge = 100
)

// RulePasswordComplexity is the validation rule name of the password check.
const RulePasswordComplexity = "password_complexity"

var (
	// RE2 has no lookahead, so the character classes are checked separately.
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	passwordLetter  = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&]`)
)

func init() {
	validation.Extend(RulePasswordComplexity, func(v, _ string, _ map[string]string) bool {
		return CheckPassword(v)
	}, "The :attribute must be at least 8 characters with a letter, a digit and one of @$!%*?&.")
}

// CheckPassword reports whether password satisfies the complexity policy:
// at least 8 characters drawn from letters, digits and @$!%*?&, with at least
// one of each class.
func CheckPassword(password string) bool {
	return passwordCharset.MatchString(password) &&
		passwordLetter.MatchString(password) &&
		passwordDigit.MatchString(password) &&
		passwordSpecial.MatchString(password)
}

// CheckUserID reports whether id is 5 to 12 ASCII letters or digits.
func CheckUserID(id string) bool { return passes(FieldUserID, id) }

// CheckName reports whether name is at least two Hangul syllables or Latin letters.
func CheckName(name string) bool { return passes(FieldName, name) }

// CheckAge reports whether age is a base-10 integer within [MinAge, MaxAge].
func CheckAge(age string) bool { return passes(FieldAge, age) }

// CheckEmail reports whether email has the local@domain.tld shape with a
// 2 to 6 letter top-level domain.
func CheckEmail(email string) bool { return passes(FieldEmail, email) }

func passes(f Field, value string) bool {
	r, _ := RuleFor(f)
	id := string(f)
	return validation.Make(map[string]string{id: value}, validation.Rules{id: r.Constraint}).Passes()
}

// FieldRule binds a validation constraint to the field it reports on.
type FieldRule struct {
	Field      Field
	MessageKey string
	Triggers   Trigger

	// Constraint is the rule in validation syntax, e.g. "integer|between:14,100".
	Constraint string
	// Nullable rules let an empty value pass when empties are exempt
	// (live mode and lenient submit).
	Nullable bool
}

// constraint returns the rule string for one run.
func (r FieldRule) constraint(exemptEmpty bool) string {
	if exemptEmpty && r.Nullable {
		return "nullable|" + r.Constraint
	}
	return r.Constraint
}

// Evaluate runs the rule against s and resolves its message from msgs.
func (r FieldRule) Evaluate(s Snapshot, exemptEmpty bool, msgs Messages) Result {
	return evaluate([]FieldRule{r}, s, exemptEmpty, msgs).Results[0]
}

var rules = []FieldRule{
	{
		Field:      FieldPassword,
		MessageKey: MsgPasswordComplexity,
		Triggers:   Live | Submit,
		Constraint: RulePasswordComplexity,
		Nullable:   true,
	},
	{
		Field:      FieldPasswordConfirm,
		MessageKey: MsgPasswordMismatch,
		Triggers:   Live | Submit,
		Constraint: "same:" + string(FieldPassword),
		Nullable:   true,
	},
	{
		Field:      FieldUserID,
		MessageKey: MsgUserIDFormat,
		Triggers:   Submit,
		Constraint: `regex:^[a-zA-Z0-9]{5,12}$`,
	},
	{
		Field:      FieldName,
		MessageKey: MsgNameFormat,
		Triggers:   Submit,
		Constraint: `regex:^[가-힣a-zA-Z]{2,}$`,
	},
	{
		Field:      FieldAge,
		MessageKey: MsgAgeRange,
		Triggers:   Submit,
		Constraint: fmt.Sprintf("integer|between:%d,%d", MinAge, MaxAge),
	},
	{
		Field:      FieldEmail,
		MessageKey: MsgEmailFormat,
		Triggers:   Submit,
		Constraint: `regex:^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`,
	},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []FieldRule {
	out := make([]FieldRule, len(rules))
	copy(out, rules)
	return out
}

// RuleFor returns the rule reporting on f.
func RuleFor(f Field) (FieldRule, bool) {
	for _, r := range rules {
		if r.Field == f {
			return r, true
		}
	}
	return FieldRule{}, false
}

// Check evaluates the rules of the given fields, or of every field when none
// are named. Unknown fields are skipped.
func Check(s Snapshot, exemptEmpty bool, msgs Messages, fields ...Field) Report {
	if len(fields) == 0 {
		fields = Fields
	}
	selected := make([]FieldRule, 0, len(fields))
	for _, f := range fields {
		if r, ok := RuleFor(f); ok {
			selected = append(selected, r)
		}
	}
	return evaluate(selected, s, exemptEmpty, msgs)
}

// evaluate runs rs through one validation pass; results follow rs's order.
func evaluate(rs []FieldRule, s Snapshot, exemptEmpty bool, msgs Messages) Report {
	data := make(map[string]string, len(s))
	for f, v := range s {
		data[string(f)] = v
	}
	constraints := make(validation.Rules, len(rs))
	order := make([]string, 0, len(rs))
	texts := make(map[string]string, len(rs))
	for _, r := range rs {
		id := string(r.Field)
		constraints[id] = r.constraint(exemptEmpty)
		order = append(order, id)
		texts[id] = msgs.Text(r.MessageKey)
	}

	v := validation.Make(data, constraints).Order(order...).Messages(texts)
	v.Fails()
	errs := v.Errors()

	report := Report{Results: make([]Result, 0, len(rs))}
	for _, r := range rs {
		res := Result{Field: r.Field, Valid: true}
		if msg := errs.First(string(r.Field)); msg != "" {
			res = Result{Field: r.Field, Message: msg}
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// Snapshot maps each field to its value at validation time.
type Snapshot map[Field]string

// Read builds a Snapshot from a value getter. Passwords are taken verbatim;
// every other field is trimmed.
func Read(get func(Field) string) Snapshot {
	s := make(Snapshot, len(Fields))
	for _, f := range Fields {
		v := get(f)
		if !f.Secret() {
			v = strings.TrimSpace(v)
		}
		s[f] = v
	}
	return s
}

// Redacted returns a copy of s with password values masked.
func (s Snapshot) Redacted() map[string]string {
	out := make(map[string]string, len(s))
	for f, v := range s {
		if f.Secret() && v != "" {
			v = "********"
		}
		out[string(f)] = v
	}
	return out
}
