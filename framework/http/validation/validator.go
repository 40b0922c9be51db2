package validation

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation errors, mirroring Laravel's MessageBag.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`

	// fields in the order their first error was recorded
	order []string
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	if _, seen := e.Bag[field]; !seen {
		e.order = append(e.order, field)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// HasField reports whether field has at least one error.
func (e *Errors) HasField(field string) bool { return len(e.Bag[field]) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields lists the failed fields in validation order.
func (e *Errors) Fields() []string {
	return append([]string(nil), e.order...)
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.order))
	for _, f := range e.order {
		parts = append(parts, f+": "+e.First(f))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Errors) MarshalJSON() ([]byte, error) {
	bag := e.Bag
	if bag == nil {
		bag = map[string][]string{}
	}
	return json.Marshal(struct {
		Bag map[string][]string `json:"errors"`
	}{bag})
}

// ── Custom rules ─────────────────────────────────────────────────────────────

// RuleFunc reports whether value passes a custom rule. param is the text
// after the colon ("rule:param"); data is the whole input.
type RuleFunc func(value, param string, data map[string]string) bool

type extension struct {
	fn      RuleFunc
	message string
}

var (
	extMu      sync.RWMutex
	extensions = map[string]extension{}
)

// Extend registers a custom rule, like Validator::extend. In message,
// ":attribute" is replaced by the field name.
//
//	validation.Extend("even", func(v, _ string, _ map[string]string) bool {
//	    n, err := strconv.Atoi(v)
//	    return err == nil && n%2 == 0
//	}, "The :attribute must be even.")
func Extend(name string, fn RuleFunc, message string) {
	extMu.Lock()
	defer extMu.Unlock()
	extensions[name] = extension{fn: fn, message: message}
}

func lookupExtension(name string) (extension, bool) {
	extMu.RLock()
	defer extMu.RUnlock()
	ext, ok := extensions[name]
	return ext, ok
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|integer|between:14,100"}
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data     map[string]string
	rules    Rules
	order    []string
	messages map[string]string
	errors   *Errors
}

// Make creates a new Validator, mirroring Validator::make($data, $rules).
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Order sets the order fields are validated and reported in. Fields with
// rules that are not listed follow in name order.
func (v *Validator) Order(fields ...string) *Validator {
	v.order = fields
	return v
}

// Messages sets custom messages keyed by "field.rule" or by "field" for
// every rule of that field. The more specific key wins.
//
//	v.Messages(map[string]string{"age.between": "Age must be 14 to 100."})
func (v *Validator) Messages(m map[string]string) *Validator {
	v.messages = m
	return v
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the error bag of the last run.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

type outcome int

const (
	next outcome = iota // rule passed, go on
	done                // rule passed, skip the rest of this field
	failed
)

func (v *Validator) validate() {
	v.errors = &Errors{}
	for _, field := range v.fieldOrder() {
		value := v.data[field]
		rules := strings.Split(v.rules[field], "|")
		numeric := hasNumericRule(rules)

		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			out, msg := v.applyRule(field, value, name, param, numeric)
			if out == failed {
				v.errors.add(field, v.message(field, name, msg))
			}
			if out != next {
				break // bail on first failure, like Laravel's bail
			}
		}
	}
}

func (v *Validator) fieldOrder() []string {
	seen := make(map[string]bool, len(v.rules))
	out := make([]string, 0, len(v.rules))
	for _, f := range v.order {
		if _, ok := v.rules[f]; ok && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	rest := make([]string, 0, len(v.rules)-len(out))
	for f := range v.rules {
		if !seen[f] {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (v *Validator) message(field, rule, fallback string) string {
	if m, ok := v.messages[field+"."+rule]; ok {
		return m
	}
	if m, ok := v.messages[field]; ok {
		return m
	}
	return fallback
}

// hasNumericRule reports whether size rules compare values instead of lengths.
func hasNumericRule(rules []string) bool {
	for _, r := range rules {
		switch strings.TrimSpace(r) {
		case "numeric", "integer":
			return true
		}
	}
	return false
}

var (
	urlPattern       = regexp.MustCompile(`^https?://`)
	alphaPattern     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumPattern  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	patterns sync.Map // regex rule param → *regexp.Regexp
)

func compiled(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patterns.Store(pattern, re)
	return re, nil
}

// size is the rune count of value, or its numeric value for numeric fields.
func size(value string, numeric bool) float64 {
	if numeric {
		f, _ := strconv.ParseFloat(value, 64)
		return f
	}
	return float64(utf8.RuneCountInString(value))
}

// applyRule checks one rule; on failure it also returns the default message.
func (v *Validator) applyRule(field, value, rule, param string, numeric bool) (outcome, string) {
	unit := " characters"
	if numeric {
		unit = ""
	}

	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			return failed, fmt.Sprintf("The %s field is required.", field)
		}

	case "string":
		// Form values are already strings.

	case "numeric":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return failed, fmt.Sprintf("The %s must be a number.", field)
		}

	case "integer":
		if _, err := strconv.Atoi(value); err != nil {
			return failed, fmt.Sprintf("The %s must be an integer.", field)
		}

	case "boolean":
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no":
		default:
			return failed, fmt.Sprintf("The %s field must be true or false.", field)
		}

	case "email":
		if _, err := mail.ParseAddress(value); err != nil {
			return failed, fmt.Sprintf("The %s must be a valid email address.", field)
		}

	case "url":
		if !urlPattern.MatchString(value) {
			return failed, fmt.Sprintf("The %s must be a valid URL.", field)
		}

	case "min":
		n, _ := strconv.ParseFloat(param, 64)
		if size(value, numeric) < n {
			return failed, fmt.Sprintf("The %s must be at least %s%s.", field, param, unit)
		}

	case "max":
		n, _ := strconv.ParseFloat(param, 64)
		if size(value, numeric) > n {
			return failed, fmt.Sprintf("The %s may not be greater than %s%s.", field, param, unit)
		}

	case "size":
		n, _ := strconv.ParseFloat(param, 64)
		if size(value, numeric) != n {
			return failed, fmt.Sprintf("The %s must be %s%s.", field, param, unit)
		}

	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			break
		}
		low, _ := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		high, _ := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if s := size(value, numeric); s < low || s > high {
			return failed, fmt.Sprintf("The %s must be between %s and %s%s.",
				field, strings.TrimSpace(lo), strings.TrimSpace(hi), unit)
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if strings.TrimSpace(a) == value {
				return next, ""
			}
		}
		return failed, fmt.Sprintf("The selected %s is invalid.", field)

	case "not_in":
		for _, d := range strings.Split(param, ",") {
			if strings.TrimSpace(d) == value {
				return failed, fmt.Sprintf("The selected %s is invalid.", field)
			}
		}

	case "confirmed":
		if v.data[field+"_confirmation"] != value {
			return failed, fmt.Sprintf("The %s confirmation does not match.", field)
		}

	case "same":
		if v.data[param] != value {
			return failed, fmt.Sprintf("The %s and %s must match.", field, param)
		}

	case "different":
		if v.data[param] == value {
			return failed, fmt.Sprintf("The %s and %s must be different.", field, param)
		}

	case "alpha":
		if !alphaPattern.MatchString(value) {
			return failed, fmt.Sprintf("The %s may only contain letters.", field)
		}

	case "alpha_num":
		if !alphaNumPattern.MatchString(value) {
			return failed, fmt.Sprintf("The %s may only contain letters and numbers.", field)
		}

	case "alpha_dash":
		if !alphaDashPattern.MatchString(value) {
			return failed, fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field)
		}

	case "regex":
		re, err := compiled(param)
		if err != nil || !re.MatchString(value) {
			return failed, fmt.Sprintf("The %s format is invalid.", field)
		}

	case "nullable":
		if value == "" {
			return done, ""
		}

	case "sometimes":
		if _, present := v.data[field]; !present {
			return done, ""
		}

	case "gt", "gte", "lt", "lte":
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		ok, phrase := compare(rule, f, t)
		if !ok {
			return failed, fmt.Sprintf("The %s must be %s %s.", field, phrase, param)
		}

	default:
		if ext, ok := lookupExtension(rule); ok && !ext.fn(value, param, v.data) {
			return failed, strings.ReplaceAll(ext.message, ":attribute", field)
		}
	}

	return next, ""
}

func compare(rule string, f, t float64) (bool, string) {
	switch rule {
	case "gt":
		return f > t, "greater than"
	case "gte":
		return f >= t, "greater than or equal to"
	case "lt":
		return f < t, "less than"
	}
	return f <= t, "less than or equal to"
}
