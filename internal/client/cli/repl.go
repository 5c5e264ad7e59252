package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	status() string
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	List(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads a command per line and dispatches to a. The reader is shared
// with the command prompts, so there is a single input buffer. Errors from
// command handlers are reported by the handlers themselves; the loop keeps
// going. Exits on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, in *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "userboard> %s > ", a.status())
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: list, edit, delete, whoami, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, exit")
			}

		case "register":
			_ = requireLogout(ctx, a, out, a.Register)

		case "login":
			_ = requireLogout(ctx, a, out, a.Login)

		case "l", "list":
			_ = requireLogin(ctx, a, out, a.List)

		case "edit":
			_ = requireLogin(ctx, a, out, a.Edit)

		case "delete":
			_ = requireLogin(ctx, a, out, a.Delete)

		case "whoami":
			_ = requireLogin(ctx, a, out, a.WhoAmI)

		case "logout":
			_ = requireLogin(ctx, a, out, a.Logout)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func requireLogin(ctx context.Context, a execIface, out io.Writer, fn func(context.Context) error) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(out, "Please login first.")
		return nil
	}
	return fn(ctx)
}

func requireLogout(ctx context.Context, a execIface, out io.Writer, fn func(context.Context) error) error {
	if a.isLoggedIn() {
		fmt.Fprintln(out, "Already logged in. Logout first.")
		return nil
	}
	return fn(ctx)
}

// Run restores any saved session and starts the REPL on the app's own
// input buffer.
func Run(ctx context.Context, a *App) {
	a.LoadSession()
	runREPL(ctx, a, a.in, a.out)
}
