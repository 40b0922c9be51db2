package signup

import (
	"encoding/json"
	"errors"
	"strings"
)

// Result is the outcome of one rule. Message is empty iff Valid.
type Result struct {
	Field   Field  `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Report collects the results of one validation run.
type Report struct {
	Results []Result
}

// Valid is the logical AND of every result.
func (r Report) Valid() bool {
	for _, res := range r.Results {
		if !res.Valid {
			return false
		}
	}
	return true
}

// Result returns the result recorded for f.
func (r Report) Result(f Field) (Result, bool) {
	for _, res := range r.Results {
		if res.Field == f {
			return res, true
		}
	}
	return Result{}, false
}

// Failed returns the fields whose rule failed, in evaluation order.
func (r Report) Failed() []Field {
	var out []Field
	for _, res := range r.Results {
		if !res.Valid {
			out = append(out, res.Field)
		}
	}
	return out
}

// Err returns the failures as Errors, or nil when the report is valid.
func (r Report) Err() error {
	var errs Errors
	for _, res := range r.Results {
		if !res.Valid {
			errs = append(errs, FieldError{Field: res.Field, Message: res.Message})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FieldError is the single failure kind: a field and its localized message.
type FieldError struct {
	Field   Field
	Message string
}

func (e FieldError) Error() string { return string(e.Field) + ": " + e.Message }

// Errors is the error bag of a failed validation run.
// JSON output: {"errors": {"field": ["msg"]}}
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether f failed.
func (e Errors) Has(f Field) bool { return e.First(f) != "" }

// First returns the first message recorded for f.
func (e Errors) First(f Field) string {
	for _, fe := range e {
		if fe.Field == f {
			return fe.Message
		}
	}
	return ""
}

// Bag groups the messages by field id.
func (e Errors) Bag() map[string][]string {
	bag := make(map[string][]string, len(e))
	for _, fe := range e {
		bag[string(fe.Field)] = append(bag[string(fe.Field)], fe.Message)
	}
	return bag
}

func (e Errors) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Errors map[string][]string `json:"errors"`
	}{Errors: e.Bag()})
}

// AsErrors extracts Errors from err.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
