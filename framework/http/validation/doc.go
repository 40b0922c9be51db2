// Package validation provides Laravel-style input validation.
//
// Rules are pipe-separated strings on a map of field names.
//
//	v := validation.Make(map[string]string{
//	    "user-id": "user123",
//	    "age":     "25",
//	}, validation.Rules{
//	    "user-id": `regex:^[a-zA-Z0-9]{5,12}$`,
//	    "age":     "integer|between:14,100",
//	}).Order("user-id", "age")
//
//	if v.Fails() {
//	    // v.Errors() → {"errors": {"age": ["The age must be between 14 and 100."]}}
//	}
//
// Each field stops at its first failing rule, so it carries at most one
// message. Fields are checked in Order, then by name.
//
// # Available Rules
//
// String rules:
//   - required: present and not blank
//   - string: always passes
//   - min:n, max:n, size:n, between:a,b: rune count, or the value itself
//     when the field also has numeric or integer
//   - alpha, alpha_num, alpha_dash
//   - regex:pattern (the pattern must not contain "|")
//
// Format rules:
//   - email: RFC 5322 address
//   - url: http:// or https:// prefix
//
// Numeric rules:
//   - numeric, integer
//   - gt:n, gte:n, lt:n, lte:n
//
// Comparison rules:
//   - confirmed: field_confirmation must match
//   - same:other, different:other
//
// Type rules:
//   - boolean: true/false/1/0/yes/no, any case
//   - in:a,b,c and not_in:a,b,c
//
// Control rules:
//   - nullable: an empty value skips the remaining rules
//   - sometimes: an absent field skips the remaining rules
//
// # Messages
//
// Messages replaces the English defaults per "field.rule" or per field.
// Extend registers application rules under a new name.
package validation
