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

// execIface is the command surface the REPL dispatches to. *App implements it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Show(ctx context.Context, id string) error
	SetVisibility(ctx context.Context, id, visibility string) error
	Delete(ctx context.Context, id string) error
	Attach(ctx context.Context, id, path string) error
	Public(ctx context.Context, handle string, args []string) error
	Download(ctx context.Context, handle, id string) error
}

const (
	guestHelp = "Available commands: register, login, public <handle> [-t type] [query], download <handle> <id>, help, exit"
	userHelp  = "Available commands: (l)ist [-t type] [query], add, show <id>, publish <id>, hide <id>, delete <id>, " +
		"attach <id> <file>, public <handle> [-t type] [query], download <handle> <id>, me, logout, help, exit"
)

// runREPL reads commands line by line from in and dispatches them to a. The
// loop ends on EOF or "exit"/"quit". Handlers report their own errors, so
// they are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("proofolio %s > ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "add":
			_ = a.Add(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "publish", "hide":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			visibility := "public"
			if cmd == "hide" {
				visibility = "private"
			}
			_ = a.SetVisibility(ctx, args[0], visibility)

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "attach":
			if len(args) < 2 {
				printlnFn("Usage: attach <id> <file>")
				continue
			}
			// file names may contain spaces
			_ = a.Attach(ctx, args[0], strings.Join(args[1:], " "))

		case "public":
			if len(args) == 0 {
				printlnFn("Usage: public <handle> [-t type] [query]")
				continue
			}
			_ = a.Public(ctx, args[0], args[1:])

		case "download":
			if len(args) != 2 {
				printlnFn("Usage: download <handle> <id>")
				continue
			}
			_ = a.Download(ctx, args[0], args[1])

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

// parseFilter splits "[-t type] [query words]" into a query and a type.
// Types containing spaces are given by alias, e.g. "-t lab".
func parseFilter(args []string) (q, typ string) {
	if len(args) >= 2 && args[0] == "-t" {
		typ, args = args[1], args[2:]
	}
	return strings.Join(args, " "), typ
}
