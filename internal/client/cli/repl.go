package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUnknownCommand = errors.New("unknown command")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Me(ctx context.Context) error
	Profile(ctx context.Context) error
	Avatar(ctx context.Context, args []string) error
	CreateBand(ctx context.Context, args []string) error
	Members(ctx context.Context, args []string) error
	AddMember(ctx context.Context, args []string) error
}

func usage(loggedIn bool) string {
	if loggedIn {
		return "Available commands: me, profile, avatar <file>, band <name>, members <band id>, add-member <band id> [email] [role], status, logout, exit"
	}
	return "Available commands: register, login, status, exit"
}

// dispatch runs one command. The REPL-only commands help and exit are not
// handled here.
func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "status":
		return a.Status(ctx)
	case "me":
		return a.Me(ctx)
	case "profile":
		return a.Profile(ctx)
	case "avatar":
		return a.Avatar(ctx, args)
	case "band":
		return a.CreateBand(ctx, args)
	case "members":
		return a.Members(ctx, args)
	case "add-member":
		return a.AddMember(ctx, args)
	}
	return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
}

// runREPL starts a simple read–eval–print loop for the rehearsal CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches the rest as its arguments. Command errors are
// printed and the loop carries on. Commands prompt through the same reader,
// so no input is buffered away from them. The loop exits on EOF, when the
// user types "exit" or "quit", or when ctx is cancelled.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("rehearsal %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn(usage(a.isLoggedIn()))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			err := dispatch(ctx, a, cmd, parts[1:])
			switch {
			case errors.Is(err, errUnknownCommand):
				printlnFn("Unknown command:", cmd)
			case err != nil:
				printlnFn("Error:", err)
			}
		}
	}
}
