package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Toggle(ctx context.Context) error
	Submit(ctx context.Context) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Save(ctx context.Context) error
	Cancel(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	Logout(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - login          fill in and submit the login form
//	  - register       fill in and submit the registration form
//	  - toggle         switch between the login and registration forms
//	  - submit         submit the current form
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - show           print the profile
//	  - edit           start editing the profile
//	  - save           save the edited profile
//	  - cancel         drop the edits
//	  - avatar <file>  upload a profile picture
//	  - logout         log out
//	  - exit | quit    leave the program
//
// Handler errors are ignored here: handlers print the user message
// themselves and log the details.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pk %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: show, edit, save, cancel, avatar <file>, logout, exit")
			} else {
				printlnFn("Available commands: login, register, toggle, submit, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "toggle":
			_ = a.Toggle(ctx)

		case "submit":
			_ = a.Submit(ctx)

		case "show":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "save":
			_ = a.Save(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "avatar":
			if len(args) == 0 {
				printlnFn("Usage: avatar <file>")
				continue
			}
			_ = a.Avatar(ctx, args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
