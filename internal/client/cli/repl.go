package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Go(ctx context.Context, path string) error
	Back(ctx context.Context) error
	Deposits(ctx context.Context) error
	Savings(ctx context.Context) error
	Loans(ctx context.Context) error
	Join(ctx context.Context, code string) error
	Profile(ctx context.Context, path string) error
	SetProfile(ctx context.Context) error
	UpdateJoined(ctx context.Context, id string) error
	Terminate(ctx context.Context, id string) error
	Recommend(ctx context.Context) error
	Articles(ctx context.Context) error
	Post(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

const (
	helpAnonymous = "Available commands: login, signup, go <path>, back, deposits, savings, loans, articles, exit"
	helpLoggedIn  = "Available commands: whoami, go <path>, back, deposits, savings, loans, join <code>, " +
		"profile [jsonpath], setprofile, updatejoined <id>, terminate <id>, recommend, " +
		"articles, post, edit <id>, remove <id>, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the finmate CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands that take an argument print their usage when it is missing.
// Commands that need a session are still dispatched when anonymous: the
// stores and the navigation guard answer with the login-required notice.
//
// Any errors returned by command handlers are ignored here; handlers and the
// stores report failures themselves. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("finmate %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		arg := func(usage string) (string, bool) {
			if len(args) == 0 {
				printlnFn("Usage:", usage)
				return "", false
			}
			return args[0], true
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "login":
			_ = a.Login(ctx)

		case "signup":
			_ = a.Signup(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "go":
			if path, ok := arg("go <path>"); ok {
				_ = a.Go(ctx, path)
			}

		case "back":
			_ = a.Back(ctx)

		case "deposits":
			_ = a.Deposits(ctx)

		case "savings":
			_ = a.Savings(ctx)

		case "loans":
			_ = a.Loans(ctx)

		case "join":
			if code, ok := arg("join <code>"); ok {
				_ = a.Join(ctx, code)
			}

		case "profile":
			_ = a.Profile(ctx, strings.Join(args, " "))

		case "setprofile":
			_ = a.SetProfile(ctx)

		case "updatejoined":
			if id, ok := arg("updatejoined <id>"); ok {
				_ = a.UpdateJoined(ctx, id)
			}

		case "terminate":
			if id, ok := arg("terminate <id>"); ok {
				_ = a.Terminate(ctx, id)
			}

		case "recommend":
			_ = a.Recommend(ctx)

		case "articles":
			_ = a.Articles(ctx)

		case "post":
			_ = a.Post(ctx)

		case "edit":
			if id, ok := arg("edit <id>"); ok {
				_ = a.Edit(ctx, id)
			}

		case "remove":
			if id, ok := arg("remove <id>"); ok {
				_ = a.Remove(ctx, id)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
