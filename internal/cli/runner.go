// Package cli implements the one-shot subcommands. Every command talks to
// the same api.Service as the interactive client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Runner dispatches subcommands. Out receives results, Err receives
// failures and hints.
type Runner struct {
	Service api.Service
	Tokens  *auth.Store
	In      io.Reader
	Out     io.Writer
	Err     io.Writer

	// UI starts the interactive client; nil disables the ui subcommand.
	UI func(ctx context.Context) error

	Group bool // ls grouped by pending/completed
	Now   func() time.Time
}

// Run executes args and returns an exit code (0 ok, 1 error, 2 usage).
// No arguments starts the interactive client.
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return r.doUI(ctx)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		r.PrintHelp()
		return ExitOK

	case "ui":
		return r.doUI(ctx)

	case "ls", "list":
		if len(a) > 1 {
			ui.Fail(r.Err, "usage: tada ls [all|pending|completed]")
			return ExitUsage
		}
		f, err := model.ParseFilter(strings.Join(a, ""))
		if err != nil {
			ui.Fail(r.Err, "ls: "+err.Error())
			return ExitUsage
		}
		return r.doList(ctx, f)

	case "add":
		if len(a) == 0 {
			ui.Fail(r.Err, "usage: tada add <body...>")
			return ExitUsage
		}
		return r.doAdd(ctx, strings.Join(a, " "))

	case "toggle", "done":
		id, code := r.parseID(cmd, a)
		if code != ExitOK {
			return code
		}
		return r.doToggle(ctx, id)

	case "rm", "delete":
		id, code := r.parseID(cmd, a)
		if code != ExitOK {
			return code
		}
		return r.doRemove(ctx, id)

	case "auth":
		return r.doAuth(a)
	}

	ui.Fail(r.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.Err)
	r.PrintHelp()
	return ExitUsage
}

func (r *Runner) PrintHelp() {
	fmt.Fprint(r.Out, `tada - todo client

Usage:
  tada [flags] [subcommand] [args]

Subcommands:
  ui                        Interactive client (default)
  ls [all|pending|completed] List todos
  add <body...>             Add a todo (body can be multiple words)
  toggle <id>               Flip a todo between pending and completed
  rm <id>                   Delete a todo
  auth login [token]        Save the bearer token sent to the API (reads stdin if omitted)
  auth logout               Forget the saved token
  auth status               Show where the token comes from and when it expires
  auth whoami               Show the token's claims
  help                      Show this help

Examples:
  tada add "Buy milk"
  tada ls pending
  tada toggle 2
  tada -backend grpc -grpc-addr localhost:50051 ls
`)
}

func (r *Runner) parseID(cmd string, a []string) (int64, int) {
	if len(a) != 1 {
		ui.Fail(r.Err, fmt.Sprintf("usage: tada %s <id>", cmd))
		return 0, ExitUsage
	}
	id, err := strconv.ParseInt(a[0], 10, 64)
	if err != nil || id <= 0 {
		ui.Fail(r.Err, fmt.Sprintf("%s: not a todo id: %s", cmd, a[0]))
		return 0, ExitUsage
	}
	return id, ExitOK
}

// -------------- subcommand impls ----------------

func (r *Runner) doUI(ctx context.Context) int {
	if r.UI == nil {
		ui.Fail(r.Err, "interactive client not available")
		return ExitError
	}
	if err := r.UI(ctx); err != nil {
		ui.Fail(r.Err, "ui: "+err.Error())
		return ExitError
	}
	return ExitOK
}

func (r *Runner) doList(ctx context.Context, f model.Filter) int {
	all, err := r.Service.GetAll(ctx, model.FilterAll.Statuses())
	if err != nil {
		r.remoteFail("load", err)
		return ExitError
	}
	todos := model.Apply(f, all)

	d, p := model.Stats(all)
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymUnchecked), p,
		ui.C(t.Accent, "Total"), len(all),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	if f != model.FilterAll {
		lines = append(lines, ui.C(t.Muted, "filter: "+string(f)))
	}
	lines = append(lines, "")

	if r.Group && f == model.FilterAll {
		lines = append(lines, groupLines(todos)...)
	} else {
		lines = append(lines, todoLines(todos)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `tada add \"Buy milk\"`"))
	ui.Panel(r.Out, lines)
	return ExitOK
}

func (r *Runner) doAdd(ctx context.Context, body string) int {
	body, err := model.ValidateBody(body)
	if err != nil {
		ui.Fail(r.Err, "add: please enter todo")
		return ExitUsage
	}
	t, err := r.Service.Create(ctx, body)
	if err != nil {
		r.remoteFail("add", err)
		return ExitError
	}
	ui.OK(r.Out, fmt.Sprintf("added #%d %s", t.ID, t.Body))
	return ExitOK
}

func (r *Runner) doToggle(ctx context.Context, id int64) int {
	all, err := r.Service.GetAll(ctx, model.FilterAll.Statuses())
	if err != nil {
		r.remoteFail("load", err)
		return ExitError
	}
	var cur *model.Todo
	for i := range all {
		if all[i].ID == id {
			cur = &all[i]
			break
		}
	}
	if cur == nil {
		ui.Fail(r.Err, fmt.Sprintf("toggle: no todo with id %d", id))
		fmt.Fprintln(r.Err, ui.Dim("Hint: run `tada ls` to see valid ids"))
		return ExitError
	}

	t, err := r.Service.UpdateStatus(ctx, id, cur.Status.Toggle())
	if err != nil {
		r.remoteFail("toggle", err)
		return ExitError
	}
	ui.OK(r.Out, fmt.Sprintf("#%d %s: %s", t.ID, t.Status, t.Body))
	return ExitOK
}

func (r *Runner) doRemove(ctx context.Context, id int64) int {
	err := r.Service.Delete(ctx, id)
	switch {
	case errors.Is(err, api.ErrNotFound):
		fmt.Fprintln(r.Err, ui.Dim(fmt.Sprintf("todo %d was already gone", id)))
		return ExitOK
	case err != nil:
		r.remoteFail("rm", err)
		return ExitError
	}
	ui.OK(r.Out, fmt.Sprintf("removed #%d", id))
	return ExitOK
}

func (r *Runner) remoteFail(op string, err error) {
	ui.Fail(r.Err, op+": "+err.Error())
	if errors.Is(err, api.ErrUnavailable) {
		fmt.Fprintln(r.Err, ui.Dim("Hint: check -api-url / -grpc-addr, or try -backend memory"))
	}
}

// -------------- auth ----------------

func (r *Runner) doAuth(a []string) int {
	if r.Tokens == nil {
		ui.Fail(r.Err, "auth: no credential store")
		return ExitError
	}
	if len(a) == 0 {
		ui.Fail(r.Err, "usage: tada auth login|logout|status|whoami")
		return ExitUsage
	}

	switch a[0] {
	case "login":
		token := strings.Join(a[1:], " ")
		if token == "" && r.In != nil {
			sc := bufio.NewScanner(r.In)
			if sc.Scan() {
				token = sc.Text()
			}
		}
		ti, err := r.Tokens.Set(token)
		if err != nil {
			ui.Fail(r.Err, "auth login: "+err.Error())
			return ExitUsage
		}
		msg := "token saved"
		if ti.ExpiresAt != nil {
			msg += " (expires " + ti.ExpiresAt.Format(time.RFC3339) + ")"
		}
		ui.OK(r.Out, msg)
		return ExitOK

	case "logout":
		if err := r.Tokens.Delete(); err != nil {
			ui.Fail(r.Err, "auth logout: "+err.Error())
			return ExitError
		}
		ui.OK(r.Out, "logged out")
		return ExitOK

	case "status":
		ti, err := r.Tokens.Get()
		if err != nil {
			ui.Fail(r.Err, "auth status: "+err.Error())
			return ExitError
		}
		if ti == nil {
			ui.Fail(r.Err, "not logged in")
			return ExitError
		}
		fmt.Fprintf(r.Out, "source:  %s\n", ti.Source)
		if ti.ExpiresAt == nil {
			fmt.Fprintln(r.Out, "expires: never")
			return ExitOK
		}
		fmt.Fprintf(r.Out, "expires: %s\n", ti.ExpiresAt.Format(time.RFC3339))
		if ti.Expired(r.now()) {
			ui.Fail(r.Err, "token expired")
			return ExitError
		}
		return ExitOK

	case "whoami":
		tok := r.Tokens.Token()
		if tok == "" {
			ui.Fail(r.Err, "not logged in")
			return ExitError
		}
		claims, err := auth.Claims(tok)
		if err != nil {
			fmt.Fprintln(r.Out, "opaque token (no claims)")
			return ExitOK
		}
		keys := make([]string, 0, len(claims))
		for k := range claims {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.Out, "%s: %v\n", k, claims[k])
		}
		return ExitOK
	}

	ui.Fail(r.Err, "unknown auth subcommand: "+a[0])
	return ExitUsage
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// -------------- rendering helpers --------------

func todoLines(todos []model.Todo) []string {
	t := ui.Current()
	if len(todos) == 0 {
		return []string{ui.C(t.Muted, "no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, td := range todos {
		idx := ui.Dim(fmt.Sprintf("%3d.", td.ID))
		box := ui.C(t.Muted, t.BoxUnchecked)
		body := td.Body
		if r := []rune(body); len(r) > 80 {
			body = string(r[:77]) + "..."
		}
		if td.Completed() {
			box = ui.C(t.Success, t.BoxChecked)
			body = ui.Strike(body)
		}
		out = append(out, fmt.Sprintf("%s %s %s", idx, box, body))
	}
	return out
}

func groupLines(todos []model.Todo) []string {
	t := ui.Current()
	pend := model.Apply(model.FilterPending, todos)
	done := model.Apply(model.FilterCompleted, todos)

	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, todoLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Completed"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, todoLines(done)...)
	}
	return lines
}
