package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/km-arc/go-signup/app/live"
	"github.com/km-arc/go-signup/framework/app"
	"github.com/km-arc/go-signup/framework/config"
	gohttp "github.com/km-arc/go-signup/framework/http"
	"github.com/km-arc/go-signup/signup"
)

// SignupController serves the sign-up page, its live websocket and the
// stateless validation endpoint.
type SignupController struct {
	app.Controller

	catalog  *signup.Catalog
	views    *gohttp.ViewEngine
	cfg      config.SignupConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader

	// OnValid receives every form that passes submit validation, from either
	// the websocket or the JSON endpoint.
	OnValid func(signup.Validated)
}

// NewSignupController builds the controller. A nil logger discards output.
func NewSignupController(catalog *signup.Catalog, views *gohttp.ViewEngine, cfg config.SignupConfig, logger *zap.Logger) *SignupController {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &SignupController{
		catalog: catalog,
		views:   views,
		cfg:     cfg,
		logger:  logger,
	}
	c.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(cfg.AllowedOrigin),
	}
	return c
}

// checkOrigin returns nil (same-origin only) for an empty allowed origin.
func checkOrigin(allowed string) func(*http.Request) bool {
	switch allowed {
	case "":
		return nil
	case "*":
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		return r.Header.Get("Origin") == allowed
	}
}

type fieldView struct {
	ID    string
	Label string
	Type  string
	Slot  string
}

type pageData struct {
	Title    string
	Locale   string
	Submit   string
	LivePath string
	Fields   []fieldView
}

// Show renders the sign-up page.
//
//	GET /signup
func (c *SignupController) Show(w http.ResponseWriter, r *http.Request) {
	req := c.Request(r)
	msgs := c.catalog.Match(req.LanguagePreferences()...)

	if lang := req.Query("lang"); lang != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     "lang",
			Value:    msgs.Tag.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	data := pageData{
		Title:    msgs.Text(signup.MsgPageTitle),
		Locale:   msgs.Tag.String(),
		Submit:   msgs.Text(signup.MsgPageSubmit),
		LivePath: c.cfg.LivePath,
		Fields:   make([]fieldView, 0, len(signup.Fields)),
	}
	for _, f := range signup.Fields {
		data.Fields = append(data.Fields, fieldView{
			ID:    f.String(),
			Label: msgs.Label(f),
			Type:  inputType(f),
			Slot:  f.Slot(),
		})
	}
	c.views.View(w, "layouts/app", "signup", data)
}

func inputType(f signup.Field) string {
	switch {
	case f.Secret():
		return "password"
	case f == signup.FieldEmail:
		return "email"
	case f == signup.FieldAge:
		return "number"
	}
	return "text"
}

type ruleView struct {
	Field    string `json:"field"`
	Slot     string `json:"slot"`
	Triggers string `json:"triggers"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
}

// Rules lists the rule table with messages in the negotiated locale.
//
//	GET /signup/rules
func (c *SignupController) Rules(w http.ResponseWriter, r *http.Request) {
	msgs := c.catalog.Match(c.Request(r).LanguagePreferences()...)

	rules := signup.Rules()
	out := make([]ruleView, len(rules))
	for i, rule := range rules {
		out[i] = ruleView{
			Field:    rule.Field.String(),
			Slot:     rule.Field.Slot(),
			Triggers: rule.Triggers.String(),
			Rule:     rule.Constraint,
			Message:  msgs.Text(rule.MessageKey),
		}
	}
	c.Response(w).Success(envelope{"locale": msgs.Tag.String(), "rules": out})
}

// Validate runs submit validation over a JSON or form body. JSON values may
// be strings, numbers or booleans; a nested value is a 400.
//
//	POST /signup/validate
//	200 {"data": {"valid": true, "id": "...", "message": "..."}}
//	422 {"errors": {"email": ["..."]}}
func (c *SignupController) Validate(w http.ResponseWriter, r *http.Request) {
	req := c.Request(r)
	res := c.Response(w)

	input, err := req.Values()
	if err != nil {
		if errors.Is(err, gohttp.ErrEmptyBody) {
			res.Error(http.StatusBadRequest, "request body is empty")
			return
		}
		res.Error(http.StatusBadRequest, "request body could not be read")
		return
	}

	values := make(map[signup.Field]string, len(signup.Fields))
	for k, v := range input {
		if f, err := signup.ParseField(k); err == nil {
			values[f] = v
		}
	}

	surface := signup.NewMemorySurface(values)
	v := signup.New(surface, c.validatorOptions(req)...)
	report := v.Submit(&signup.SubmitEvent{})
	if !report.Valid() {
		res.ValidationError(report.Err())
		return
	}

	done := surface.Successes()[0]
	res.Success(envelope{
		"valid":   true,
		"id":      done.ID.String(),
		"message": done.Message,
	})
}

// Live upgrades to a websocket and runs a live validation session on it.
//
//	GET /signup/live
func (c *SignupController) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		c.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	req := c.Request(r)
	msgs := c.catalog.Match(req.LanguagePreferences()...)
	session := live.NewSession(conn,
		live.WithLogger(c.logger),
		live.WithReadLimit(int64(c.cfg.ReadLimit)),
		live.WithLocale(msgs.Tag.String()),
	)
	signup.New(session, c.validatorOptions(req)...)

	if err := session.Run(r.Context()); err != nil && !errors.Is(err, r.Context().Err()) {
		c.logger.Warn("live session ended", zap.Stringer("session", session.ID), zap.Error(err))
	}
}

func (c *SignupController) validatorOptions(req *gohttp.Request) []signup.Option {
	opts := []signup.Option{
		signup.WithMessages(c.catalog.Match(req.LanguagePreferences()...)),
		signup.WithLogger(c.logger),
		signup.WithLenientSubmit(c.cfg.LenientSubmit),
	}
	if c.OnValid != nil {
		opts = append(opts, signup.WithOnValid(c.OnValid))
	}
	return opts
}

type envelope map[string]any
