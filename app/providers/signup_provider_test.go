package providers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-signup/app/controllers"
	"github.com/km-arc/go-signup/app/providers"
	"github.com/km-arc/go-signup/framework/app"
	"github.com/km-arc/go-signup/framework/container"
	"github.com/km-arc/go-signup/signup"
)

func newApp(t *testing.T, p *providers.SignupServiceProvider) *app.Application {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("APP_PORT", "0")
	t.Setenv("APP_LOCALE", "en")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")

	application, err := app.New("testdata/missing.env")
	require.NoError(t, err)
	require.NoError(t, application.Register(p))
	require.NoError(t, application.Boot())
	return application
}

func TestSignupProvider_Bindings(t *testing.T) {
	application := newApp(t, &providers.SignupServiceProvider{})

	catalog, err := container.Resolve[*signup.Catalog](application.Container, "signup.catalog")
	require.NoError(t, err)
	assert.Equal(t, "en", catalog.Locales()[0], "APP_LOCALE picks the default locale")

	_, err = container.Resolve[*controllers.SignupController](application.Container, "signup.controller")
	assert.NoError(t, err)
	assert.True(t, application.IsTesting())
}

func TestSignupProvider_RoutesMounted(t *testing.T) {
	var accepted []signup.Validated
	application := newApp(t, &providers.SignupServiceProvider{
		OnValid: func(v signup.Validated) { accepted = append(accepted, v) },
	})

	rr := httptest.NewRecorder()
	application.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/signup", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<html lang="en">`)

	body := `{"password":"Abc12345!","password-confirm":"Abc12345!","user-id":"user123","name":"Kim","age":"25","email":"kim@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/signup/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	application.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, accepted, 1)
}

func TestApplication_RunStopsWithContext(t *testing.T) {
	application := newApp(t, &providers.SignupServiceProvider{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(app.ShutdownTimeout):
		t.Fatal("Run did not return after cancel")
	}
}
