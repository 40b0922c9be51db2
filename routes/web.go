// Package routes maps URLs to controllers.
package routes

import (
	"net/http"

	"github.com/km-arc/go-signup/app/controllers"
	"github.com/km-arc/go-signup/framework/routing"
	"github.com/km-arc/go-signup/resources"
)

// Register mounts the sign-up routes and the embedded assets.
func Register(r *routing.Router, signup *controllers.SignupController, livePath string) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/signup", http.StatusFound)
	})

	r.Get("/signup", signup.Show)
	r.Get("/signup/rules", signup.Rules)
	r.Post("/signup/validate", signup.Validate)
	r.Get(livePath, signup.Live)

	r.Static("/assets", http.FS(resources.Assets()))
}
