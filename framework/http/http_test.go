package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	gohttp "github.com/km-arc/go-signup/framework/http"
	"github.com/km-arc/go-signup/signup"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newResponse(t *testing.T) (*gohttp.Response, *httptest.ResponseRecorder) {
	t.Helper()
	rr := httptest.NewRecorder()
	return gohttp.NewResponse(rr), rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&m); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	return m
}

// ── Request ──────────────────────────────────────────────────────────────────

func TestRequest_ValuesJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"user-id":"user123","age":"25"}`))
	r.Header.Set("Content-Type", "application/json")

	values, err := gohttp.NewRequest(r).Values()
	if err != nil {
		t.Fatalf("Values error: %v", err)
	}
	if values["user-id"] != "user123" || values["age"] != "25" {
		t.Errorf("values: got %v", values)
	}
}

func TestRequest_ValuesJSON_EmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	r.Header.Set("Content-Type", "application/json")

	if _, err := gohttp.NewRequest(r).Values(); !errors.Is(err, gohttp.ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}

func TestRequest_ValuesJSON_Scalars(t *testing.T) {
	body := `{"age":25,"ratio":0.5,"agree":true,"nick":null,"name":"Kim"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	values, err := gohttp.NewRequest(r).Values()
	if err != nil {
		t.Fatalf("Values error: %v", err)
	}
	want := map[string]string{"age": "25", "ratio": "0.5", "agree": "true", "nick": "", "name": "Kim"}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("%s: got %q want %q", k, values[k], v)
		}
	}
}

func TestRequest_ValuesJSON_NestedRejected(t *testing.T) {
	for _, body := range []string{`{"age":{"years":25}}`, `{"age":[25]}`, `[1,2]`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")

		_, err := gohttp.NewRequest(r).Values()
		if err == nil {
			t.Errorf("%s: expected error", body)
		}
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"age":[25]}`))
	r.Header.Set("Content-Type", "application/json")
	if _, err := gohttp.NewRequest(r).Values(); !errors.Is(err, gohttp.ErrNestedValue) {
		t.Errorf("expected ErrNestedValue, got %v", err)
	}
}

func TestRequest_Bind(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"submit"}`))
	r.Header.Set("Content-Type", "application/json")

	var body struct {
		Type string `json:"type"`
	}
	if err := gohttp.NewRequest(r).Bind(&body); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if body.Type != "submit" {
		t.Errorf("type: got %q want submit", body.Type)
	}
}

func TestRequest_ValuesForm(t *testing.T) {
	form := url.Values{"name": {"Kim"}, "email": {"a@b.com"}}
	r := httptest.NewRequest(http.MethodPost, "/?lang=en", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values, err := gohttp.NewRequest(r).Values()
	if err != nil {
		t.Fatalf("Values error: %v", err)
	}
	if values["name"] != "Kim" || values["email"] != "a@b.com" || values["lang"] != "en" {
		t.Errorf("values: got %v", values)
	}
}

func TestRequest_Query_Fallback(t *testing.T) {
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/?page=2", nil))
	if got := req.Query("page"); got != "2" {
		t.Errorf("got %q want %q", got, "2")
	}
	if got := req.Query("missing", "default"); got != "default" {
		t.Errorf("got %q want %q", got, "default")
	}
}

func TestRequest_LanguagePreferences(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	r.AddCookie(&http.Cookie{Name: "lang", Value: "ko"})
	r.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	got := gohttp.NewRequest(r).LanguagePreferences()
	want := []string{"en", "ko", "fr-FR,fr;q=0.9"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestRequest_IsJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "application/json")
	if !gohttp.NewRequest(r).IsJSON() {
		t.Error("expected IsJSON true for Accept: application/json")
	}
	if gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil)).IsJSON() {
		t.Error("expected IsJSON false without headers")
	}
}

// ── Response ─────────────────────────────────────────────────────────────────

func TestResponse_JSON(t *testing.T) {
	res, rr := newResponse(t)
	res.JSON(http.StatusOK, map[string]any{"key": "val"})

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q want application/json", ct)
	}
	if m := decodeJSON(t, rr); m["key"] != "val" {
		t.Errorf("body key: got %v want val", m["key"])
	}
}

func TestResponse_Success(t *testing.T) {
	res, rr := newResponse(t)
	res.Success(map[string]any{"valid": true})

	data, ok := decodeJSON(t, rr)["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data envelope")
	}
	if data["valid"] != true {
		t.Errorf("data.valid: got %v", data["valid"])
	}
}

func TestResponse_Errors(t *testing.T) {
	res, rr := newResponse(t)
	res.Error(http.StatusBadRequest, "bad input")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d want 400", rr.Code)
	}
	if m := decodeJSON(t, rr); m["message"] != "bad input" {
		t.Errorf("message: got %v", m["message"])
	}

	res, rr = newResponse(t)
	res.NotFound()
	if m := decodeJSON(t, rr); rr.Code != http.StatusNotFound || m["message"] != "Not found." {
		t.Errorf("NotFound: got %d %v", rr.Code, m)
	}

	res, rr = newResponse(t)
	res.ServerError("db down")
	if m := decodeJSON(t, rr); rr.Code != http.StatusInternalServerError || m["message"] != "db down" {
		t.Errorf("ServerError: got %d %v", rr.Code, m)
	}
}

func TestResponse_ValidationError_Bag(t *testing.T) {
	res, rr := newResponse(t)
	res.ValidationError(signup.Errors{{Field: signup.FieldEmail, Message: "bad email"}})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d want 422", rr.Code)
	}
	errs, ok := decodeJSON(t, rr)["errors"].(map[string]any)
	if !ok {
		t.Fatal("expected errors bag")
	}
	if msgs, _ := errs["email"].([]any); len(msgs) != 1 || msgs[0] != "bad email" {
		t.Errorf("errors.email: got %v", errs["email"])
	}
}

func TestResponse_ValidationError_Plain(t *testing.T) {
	res, rr := newResponse(t)
	res.ValidationError(errors.New("nope"))

	if m := decodeJSON(t, rr); m["message"] != "nope" {
		t.Errorf("message: got %v", m["message"])
	}
}

// ── ViewEngine ───────────────────────────────────────────────────────────────

func TestViewEngine_View(t *testing.T) {
	ve := gohttp.NewViewEngine(os.DirFS("testdata"), ".html", false)
	rr := httptest.NewRecorder()

	ve.View(rr, "layouts/base", "hello", map[string]string{"Name": "Kim"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if got := rr.Body.String(); !strings.Contains(got, "<main><p>Hello, Kim</p></main>") {
		t.Errorf("body: got %q", got)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
}

func TestViewEngine_MissingTemplate(t *testing.T) {
	ve := gohttp.NewViewEngine(os.DirFS("testdata"), ".html", true)
	rr := httptest.NewRecorder()

	ve.View(rr, "layouts/base", "nope", nil)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d want 500", rr.Code)
	}
}

func TestViewEngine_RenderErrorSendsNoPartialPage(t *testing.T) {
	ve := gohttp.NewViewEngine(os.DirFS("testdata"), ".html", false)
	rr := httptest.NewRecorder()

	ve.View(rr, "layouts/base", "broken", map[string]string{})

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "<main>") {
		t.Errorf("partial page sent: %q", rr.Body.String())
	}
}
