package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// maxBody caps JSON and form bodies; a sign-up form is a handful of short
// strings.
const maxBody = 64 << 10

var (
	// ErrEmptyBody is returned for a JSON request without a body.
	ErrEmptyBody = errors.New("empty request body")
	// ErrNestedValue is returned by Values for a JSON object or array value.
	ErrNestedValue = errors.New("nested value in request body")
)

// Request wraps *http.Request with input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Binding ──────────────────────────────────────────────────────────────────

// Values returns the request input as a flat map: the decoded JSON object for
// application/json bodies, otherwise query and form values. JSON numbers and
// booleans are kept in their literal form ("25", "true"); null becomes "".
// Nested objects and arrays are rejected with ErrNestedValue.
func (req *Request) Values() (map[string]string, error) {
	if strings.Contains(req.ContentType(), "application/json") {
		return req.jsonValues()
	}
	req.raw.Body = http.MaxBytesReader(nil, req.raw.Body, maxBody)
	if err := req.raw.ParseForm(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(req.raw.Form))
	for k, v := range req.raw.Form {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

func (req *Request) jsonValues() (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := req.bindJSON(&raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, msg := range raw {
		v, err := scalar(msg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, k)
		}
		out[k] = v
	}
	return out, nil
}

// scalar renders a JSON scalar as the string a form field would carry.
func scalar(msg json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", ErrNestedValue
}

// Bind decodes a JSON body into v.
func (req *Request) Bind(v any) error {
	return req.bindJSON(v)
}

func (req *Request) bindJSON(v any) error {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(io.LimitReader(req.raw.Body, maxBody))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(body, v)
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Cookie returns a cookie value, or "" when absent.
func (req *Request) Cookie(name string) string {
	c, err := req.raw.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// LanguagePreferences lists the client's language preferences in priority
// order: ?lang=, the lang cookie, then Accept-Language.
func (req *Request) LanguagePreferences() []string {
	return []string{
		req.Query("lang"),
		req.Cookie("lang"),
		req.Header("Accept-Language"),
	}
}

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSON returns true when the request expects a JSON response.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.ContentType(), "application/json")
}
