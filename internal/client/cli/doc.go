// Package cli provides the interactive profilekeeper command-line client.
//
// The REPL drives a services.SessionManager: a login/register form while
// logged out, and a profile view with an edit mode while logged in. Every
// failure is reported with one short message from services.Message; details
// go to the log.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
