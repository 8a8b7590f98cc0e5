package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const helpText = `Available commands:
  scan                 start the camera
  stop                 stop the camera
  lookup <barcode>     enter a barcode manually
  pick <n>             look up the n-th similar product
  check                run the ingredient check for the last product
  history [all]        scans of the active profile (or of all profiles)
  alerts               products that violated a profile
  profiles             list profiles
  use <id>             switch the active profile
  newprofile           create a profile
  rmprofile <id>       delete a profile
  restrictions         show the active profile's restrictions
  setrestrictions      edit the active profile's restrictions
  theme [light|dark]   show or change the theme
  health               probe the backend
  clear                wipe local history and alerts
  storage              show the local storage and its slots
  reset                wipe all local data, theme included
  exit | quit          leave the program`

// execIface defines the command surface the REPL dispatches to. The real App
// type satisfies it; tests provide a lightweight stub.
type execIface interface {
	Scan(ctx context.Context) error
	Stop(ctx context.Context) error
	Lookup(ctx context.Context, args []string) error
	Pick(ctx context.Context, args []string) error
	Check(ctx context.Context) error
	History(ctx context.Context, args []string) error
	Alerts(ctx context.Context) error
	Profiles(ctx context.Context) error
	Use(ctx context.Context, args []string) error
	NewProfile(ctx context.Context) error
	RemoveProfile(ctx context.Context, args []string) error
	Restrictions(ctx context.Context) error
	SetRestrictions(ctx context.Context) error
	Theme(ctx context.Context, args []string) error
	Health(ctx context.Context) error
	Clear(ctx context.Context) error
	Storage(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL reads commands line by line from r and dispatches them to a. The
// prompt is written before every line when prompt returns a non-empty string.
//
// Errors returned by command handlers are ignored here; handlers report them
// to the user themselves. The loop exits on EOF, on "exit"/"quit" or when ctx
// is done.
func runREPL(ctx context.Context, a execIface, r *bufio.Reader, w io.Writer, prompt func() string) {
	for {
		if ctx.Err() != nil {
			return
		}
		if p := prompt(); p != "" {
			fmt.Fprint(w, p)
		}
		line, err := r.ReadString('\n')
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
			fmt.Fprintln(w, helpText)
		case "scan":
			_ = a.Scan(ctx)
		case "stop":
			_ = a.Stop(ctx)
		case "lookup":
			_ = a.Lookup(ctx, args)
		case "pick":
			_ = a.Pick(ctx, args)
		case "check":
			_ = a.Check(ctx)
		case "history":
			_ = a.History(ctx, args)
		case "alerts":
			_ = a.Alerts(ctx)
		case "profiles":
			_ = a.Profiles(ctx)
		case "use":
			_ = a.Use(ctx, args)
		case "newprofile":
			_ = a.NewProfile(ctx)
		case "rmprofile":
			_ = a.RemoveProfile(ctx, args)
		case "restrictions":
			_ = a.Restrictions(ctx)
		case "setrestrictions":
			_ = a.SetRestrictions(ctx)
		case "theme":
			_ = a.Theme(ctx, args)
		case "health":
			_ = a.Health(ctx)
		case "clear":
			_ = a.Clear(ctx)
		case "storage":
			_ = a.Storage(ctx)
		case "reset":
			_ = a.Reset(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
