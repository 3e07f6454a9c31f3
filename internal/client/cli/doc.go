// Package cli provides the interactive finmate terminal client.
//
// The App drives the same session, catalog and article stores the view
// server uses, through a read-eval-print loop. View commands navigate through
// the router first, so protected views (profile, recommend) are guarded the
// same way as in the browser: an anonymous session gets the login-required
// notice and lands on login.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command set.
package cli
