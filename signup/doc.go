// Package signup validates the sign-up form: password complexity and
// confirmation, user id, name, age and email.
//
// # Rules
//
// Every rule is a pure function of a Snapshot and can be run without a form:
//
//	report := signup.Check(snapshot, false, signup.DefaultMessages())
//	if err := report.Err(); err != nil {
//	    errs, _ := signup.AsErrors(err)
//	    fmt.Println(errs.First(signup.FieldEmail))
//	}
//
// # Form binding
//
// FormValidator binds the rules to a Surface:
//
//	s := signup.NewMemorySurface(nil)
//	signup.New(s, signup.WithOnValid(func(ev signup.Validated) {
//	    // hand the form to the backend
//	}))
//	s.Input(signup.FieldPassword, "Abc12345!")   // live: complexity + match
//	s.Submit()                                  // all six rules
//
// Live checks run on password and confirmation changes and leave empty
// inputs unreported. Submit checks run all rules and report empty passwords
// unless WithLenientSubmit is set.
//
// # Messages
//
// Error texts come from a YAML catalog (Korean default, English built in).
// Catalog.Match negotiates a locale from tags or Accept-Language values.
package signup
