package signup_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-signup/framework/http/validation"
	"github.com/km-arc/go-signup/signup"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the field's rule accepts the snapshot with an empty message.
func pass(t *testing.T, label string, f signup.Field, s signup.Snapshot, exemptEmpty bool) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		res, ok := signup.Check(s, exemptEmpty, signup.DefaultMessages(), f).Result(f)
		assert.True(t, ok)
		assert.True(t, res.Valid, "expected PASS for %q", s[f])
		assert.Empty(t, res.Message)
	})
}

// fail asserts the field's rule rejects the snapshot with its fixed message.
func fail(t *testing.T, label string, f signup.Field, s signup.Snapshot, exemptEmpty bool) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		rule, _ := signup.RuleFor(f)
		res, ok := signup.Check(s, exemptEmpty, signup.DefaultMessages(), f).Result(f)
		assert.True(t, ok)
		assert.False(t, res.Valid, "expected FAIL for %q", s[f])
		assert.Equal(t, signup.DefaultMessages().Text(rule.MessageKey), res.Message)
	})
}

func one(f signup.Field, v string) signup.Snapshot { return signup.Snapshot{f: v} }

// ── password ─────────────────────────────────────────────────────────────────

func TestPassword_Complexity(t *testing.T) {
	pw := signup.FieldPassword

	for _, v := range []string{"Abc12345!", "abcdefg1@", "ZZZZZZZ9$", "a1%a1%a1%a1%", "Pass?w0rd&"} {
		pass(t, "valid "+v, pw, one(pw, v), true)
		pass(t, "valid at submit "+v, pw, one(pw, v), false)
	}

	for label, v := range map[string]string{
		"too short":        "Abc123!",
		"no digit":         "Abcdefgh!",
		"no letter":        "12345678!",
		"no special":       "Abcdefg1",
		"disallowed #":     "Abc12345#",
		"disallowed space": "Abc 12345!",
		"hangul":           "비밀번호abc1!",
	} {
		fail(t, label, pw, one(pw, v), true)
		fail(t, label+" at submit", pw, one(pw, v), false)
	}
}

func TestPassword_EmptyPolicy(t *testing.T) {
	pw := signup.FieldPassword

	pass(t, "empty is not reported live", pw, one(pw, ""), true)
	fail(t, "empty fails strict submit", pw, one(pw, ""), false)
}

func TestPasswordMatch(t *testing.T) {
	c := signup.FieldPasswordConfirm
	snap := func(pw, confirm string) signup.Snapshot {
		return signup.Snapshot{signup.FieldPassword: pw, c: confirm}
	}

	pass(t, "equal", c, snap("Abc12345!", "Abc12345!"), true)
	pass(t, "equal even if weak", c, snap("abc", "abc"), true)
	pass(t, "empty confirm live", c, snap("Abc12345!", ""), true)
	pass(t, "empty confirm and password", c, snap("", ""), true)
	pass(t, "both empty at submit", c, snap("", ""), false)

	fail(t, "different", c, snap("Abc12345!", "Abc12345?"), true)
	fail(t, "confirm without password", c, snap("", "x"), true)
	fail(t, "empty confirm at submit", c, snap("Abc12345!", ""), false)
}

// ── user id / name / age / email ─────────────────────────────────────────────

func TestUserID(t *testing.T) {
	id := signup.FieldUserID

	for _, v := range []string{"abcde", "user123", "ABCDEFGHIJ12", "12345"} {
		pass(t, "valid "+v, id, one(id, v), false)
	}
	for _, v := range []string{"ab", "abcd", "abc$12", "abcdefghijklm", "user_1", "사용자아이디", ""} {
		fail(t, "invalid "+v, id, one(id, v), false)
	}
}

func TestName(t *testing.T) {
	n := signup.FieldName

	for _, v := range []string{"Kim", "김철수", "Jo", "김Kim"} {
		pass(t, "valid "+v, n, one(n, v), false)
	}
	for _, v := range []string{"K", "김", "Kim1", "Kim Lee", "ㅋㅋ", ""} {
		fail(t, "invalid "+v, n, one(n, v), false)
	}
}

func TestAge(t *testing.T) {
	a := signup.FieldAge

	for _, v := range []string{"14", "25", "100"} {
		pass(t, "valid "+v, a, one(a, v), false)
	}
	for _, v := range []string{"13", "101", "abc", "", "25.5", "-20", "25years", "99999999999999999999"} {
		fail(t, "invalid "+v, a, one(a, v), false)
	}
}

func TestEmail(t *testing.T) {
	e := signup.FieldEmail

	for _, v := range []string{"a@b.com", "first.last@sub.example.co", "user_name-1@mail.io", "x@y.museum"} {
		pass(t, "valid "+v, e, one(e, v), false)
	}
	for _, v := range []string{"a@b", "a.b@@c.com", "a@b.c", "a@b.abcdefg", "a b@c.com", "@b.com", "a@b.c0m", ""} {
		fail(t, "invalid "+v, e, one(e, v), false)
	}
}

// ── table ────────────────────────────────────────────────────────────────────

func TestRules_Table(t *testing.T) {
	rules := signup.Rules()
	assert.Len(t, rules, len(signup.Fields))

	for i, r := range rules {
		assert.Equal(t, signup.Fields[i], r.Field)
		assert.True(t, r.Triggers.Has(signup.Submit), "%s must run at submit", r.Field)
	}

	pw, _ := signup.RuleFor(signup.FieldPassword)
	assert.True(t, pw.Triggers.Has(signup.Live))
	id, _ := signup.RuleFor(signup.FieldUserID)
	assert.False(t, id.Triggers.Has(signup.Live))
	assert.Equal(t, "live,submit", pw.Triggers.String())
}

func TestRules_Constraints(t *testing.T) {
	want := map[signup.Field]string{
		signup.FieldPassword:        signup.RulePasswordComplexity,
		signup.FieldPasswordConfirm: "same:password",
		signup.FieldAge:             "integer|between:14,100",
	}
	for f, c := range want {
		r, ok := signup.RuleFor(f)
		assert.True(t, ok)
		assert.Equal(t, c, r.Constraint)
	}
	id, _ := signup.RuleFor(signup.FieldUserID)
	assert.False(t, id.Nullable, "user id has no empty exemption")
}

func TestRules_RegisteredWithValidation(t *testing.T) {
	data := map[string]string{"pw": "abc"}
	v := validation.Make(data, validation.Rules{"pw": signup.RulePasswordComplexity})
	assert.True(t, v.Fails())
	assert.True(t, v.Errors().HasField("pw"))

	data["pw"] = "Abc12345!"
	assert.True(t, validation.Make(data, validation.Rules{"pw": signup.RulePasswordComplexity}).Passes())
}

// The report's error bag serializes the same way as the validation bag built
// from the rule table.
func TestCheck_ErrorsMatchValidationBag(t *testing.T) {
	msgs := signup.DefaultMessages()
	s := signup.Snapshot{
		signup.FieldPassword: "weak",
		signup.FieldUserID:   "ab",
		signup.FieldAge:      "7",
		signup.FieldEmail:    "kim@example.com",
	}

	data := map[string]string{}
	for f, v := range s {
		data[string(f)] = v
	}
	constraints := validation.Rules{}
	texts := map[string]string{}
	order := []string{}
	for _, r := range signup.Rules() {
		constraints[string(r.Field)] = r.Constraint
		texts[string(r.Field)] = msgs.Text(r.MessageKey)
		order = append(order, string(r.Field))
	}
	v := validation.Make(data, constraints).Order(order...).Messages(texts)
	require.True(t, v.Fails())

	report := signup.Check(s, false, msgs)
	want, err := json.Marshal(v.Errors())
	require.NoError(t, err)
	got, err := json.Marshal(report.Err())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
	assert.Equal(t, v.Errors().Error(), report.Err().Error())
}

func TestCheck_SkipsUnknownFields(t *testing.T) {
	report := signup.Check(signup.Snapshot{}, true, signup.DefaultMessages(), signup.Field("nickname"))
	assert.Empty(t, report.Results)
	assert.True(t, report.Valid())
}

func TestRead_TrimsAllButPasswords(t *testing.T) {
	values := map[signup.Field]string{
		signup.FieldPassword:        " Abc12345! ",
		signup.FieldPasswordConfirm: " Abc12345! ",
		signup.FieldUserID:          "  user123 ",
		signup.FieldAge:             "\t25\n",
	}
	s := signup.Read(func(f signup.Field) string { return values[f] })

	assert.Equal(t, " Abc12345! ", s[signup.FieldPassword])
	assert.Equal(t, " Abc12345! ", s[signup.FieldPasswordConfirm])
	assert.Equal(t, "user123", s[signup.FieldUserID])
	assert.Equal(t, "25", s[signup.FieldAge])
	assert.Equal(t, "", s[signup.FieldEmail])
}

func TestSnapshot_Redacted(t *testing.T) {
	s := signup.Snapshot{signup.FieldPassword: "Abc12345!", signup.FieldPasswordConfirm: "", signup.FieldName: "Kim"}
	r := s.Redacted()

	assert.Equal(t, "********", r["password"])
	assert.Equal(t, "", r["password-confirm"])
	assert.Equal(t, "Kim", r["name"])
}

func TestParseField(t *testing.T) {
	f, err := signup.ParseField("user-id")
	assert.NoError(t, err)
	assert.Equal(t, signup.FieldUserID, f)
	assert.Equal(t, "id-error", f.Slot())

	_, err = signup.ParseField("nickname")
	assert.ErrorIs(t, err, signup.ErrUnknownField)
}
