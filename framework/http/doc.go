// Package http provides request, response and view helpers for handlers.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	values, err := req.Values()      // JSON object or form values, flat
//	lang := req.Query("lang", "ko")
//	prefs := req.LanguagePreferences() // ?lang=, cookie, Accept-Language
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)            // raw JSON with status
//	res.Success(data)              // 200 {"data": ...}
//	res.Error(400, "bad input")    // {"message": "bad input"}
//	res.NotFound()                 // 404 {"message": "Not found."}
//	res.ValidationError(err)       // 422 {"errors": {"field": ["msg"]}}
//
// # ViewEngine
//
//	engine := gohttp.NewViewEngine(views.FS, ".html", false)
//	engine.View(w, "layouts/app", "signup", data)
package http
