package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/items/internal/auth"
	"github.com/idilsaglam/items/internal/manager"
	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store/jsonfile"
	"github.com/idilsaglam/items/internal/ui"
)

// exitFor maps the outcome of a manager call to an exit code.
func exitFor(n manager.Notice) int {
	if n.Failed() {
		return 1
	}
	return 0
}

func newFlagSet(name string, opt Options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(opt.Stderr)
	return fs
}

func doUI(ctx context.Context, opt Options) int {
	c, err := opt.client()
	if err != nil {
		opt.fail(err.Error())
		return 1
	}
	if err := opt.RunTUI(ctx, c, opt.Logger); err != nil {
		opt.fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doList(ctx context.Context, opt Options) int {
	c, err := opt.client()
	if err != nil {
		opt.fail(err.Error())
		return 1
	}
	m := opt.manager(c, nil)
	if n := m.Refresh(ctx); n.Failed() {
		return 1
	}
	s := m.State()
	t := ui.Current()

	d, p := s.Counts()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Items"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(s.Items),
	)

	lines := []string{header, t.Muted.Render(ui.ProgressBar(d, d+p, 28)), ""}
	lines = append(lines, itemLines(s.Items)...)
	lines = append(lines, "", t.Muted.Render("Tip: add with `items add \"Buy milk\"`"))
	ui.Panel(opt.Stdout, lines)
	return 0
}

func itemLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("No Items yet.")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		box := t.Muted.Render(t.BoxUnchecked)
		title := ui.Truncate(it.Title, 60)
		if it.Completed {
			box = t.Success.Render(t.BoxChecked)
			title = t.Done.Render(title)
		}
		line := fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%5s", "#"+it.ID.String())), box, title)
		if desc := strings.Join(strings.Fields(it.Description), " "); desc != "" {
			line += t.Muted.Render(" — " + ui.Truncate(desc, 50))
		}
		out = append(out, line)
	}
	return out
}

func doAdd(ctx context.Context, args []string, opt Options) int {
	fs := newFlagSet("add", opt)
	desc := fs.String("d", "", "description")
	done := fs.Bool("done", false, "mark completed")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		opt.fail("usage: items add [-d desc] [-done] <title...>")
		return 2
	}

	c, err := opt.client()
	if err != nil {
		opt.fail(err.Error())
		return 1
	}
	m := opt.manager(c, nil)
	_ = m.UpdateField(manager.FieldTitle, title)
	_ = m.UpdateField(manager.FieldDescription, *desc)
	_ = m.UpdateField(manager.FieldCompleted, *done)
	return exitFor(m.Submit(ctx))
}

func doEdit(ctx context.Context, args []string, opt Options) int {
	fs := newFlagSet("edit", opt)
	title := fs.String("t", "", "new title")
	desc := fs.String("d", "", "new description")
	done := fs.Bool("done", false, "completed flag")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		opt.fail("usage: items edit [-t title] [-d desc] [-done=true|false] <id>")
		return 2
	}
	id := model.ID(fs.Arg(0))

	c, err := opt.client()
	if err != nil {
		opt.fail(err.Error())
		return 1
	}
	m := opt.manager(c, nil)
	if n := m.Refresh(ctx); n.Failed() {
		return 1
	}
	it, ok := m.State().Find(id)
	if !ok {
		opt.fail(fmt.Sprintf("no item with id %s", id))
		fmt.Fprintln(opt.Stderr, ui.Current().Muted.Render("Hint: run `items ls` to see valid ids"))
		return 2
	}
	m.BeginEdit(it)

	var ferr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			ferr = m.UpdateField(manager.FieldTitle, *title)
		case "d":
			ferr = m.UpdateField(manager.FieldDescription, *desc)
		case "done":
			ferr = m.UpdateField(manager.FieldCompleted, *done)
		}
	})
	if ferr != nil {
		opt.fail(ferr.Error())
		return 2
	}
	return exitFor(m.Submit(ctx))
}

func doRemove(ctx context.Context, args []string, opt Options) int {
	fs := newFlagSet("rm", opt)
	yes := fs.Bool("y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		opt.fail("usage: items rm [-y] <id>")
		return 2
	}
	id := model.ID(fs.Arg(0))

	c, err := opt.client()
	if err != nil {
		opt.fail(err.Error())
		return 1
	}
	var confirm manager.Confirmer = promptConfirmer{in: bufio.NewReader(opt.Stdin), out: opt.Stdout}
	if *yes {
		confirm = manager.AlwaysConfirm
	}
	m := opt.manager(c, confirm)
	n := m.Delete(ctx, id)
	if n.Empty() {
		fmt.Fprintln(opt.Stdout, ui.Current().Muted.Render("aborted"))
	}
	return exitFor(n)
}

// promptConfirmer asks on the terminal; anything but y/yes declines.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, _ := p.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func doExport(ctx context.Context, args []string, opt Options) int {
	if len(args) != 1 {
		opt.fail("usage: items export <file>")
		return 2
	}
	c, err := opt.client()
	if err != nil {
		opt.fail(err.Error())
		return 1
	}
	m := opt.manager(c, nil)
	if n := m.Refresh(ctx); n.Failed() {
		return 1
	}
	items := m.State().Items
	if err := jsonfile.Save(args[0], items); err != nil {
		opt.fail("export: " + err.Error())
		return 1
	}
	ui.OK(opt.Stdout, fmt.Sprintf("exported %d items to %s", len(items), args[0]))
	return 0
}

// doImport creates every item of the file through the create path. Ids in
// the file are ignored; the server assigns new ones.
func doImport(ctx context.Context, args []string, opt Options) int {
	if len(args) != 1 {
		opt.fail("usage: items import <file>")
		return 2
	}
	items, err := jsonfile.Load(args[0])
	if err != nil {
		opt.fail("import: " + err.Error())
		return 1
	}
	c, err := opt.client()
	if err != nil {
		opt.fail(err.Error())
		return 1
	}
	m := opt.manager(c, nil)
	failed := 0
	for _, it := range items {
		m.CancelEdit()
		f := it.Fields()
		_ = m.UpdateField(manager.FieldTitle, f.Title)
		_ = m.UpdateField(manager.FieldDescription, f.Description)
		_ = m.UpdateField(manager.FieldCompleted, f.Completed)
		if n := m.Submit(ctx); n.Failed() {
			failed++
		}
	}
	if failed > 0 {
		opt.fail(fmt.Sprintf("import: %d of %d items failed", failed, len(items)))
		return 1
	}
	ui.OK(opt.Stdout, fmt.Sprintf("imported %d items", len(items)))
	return 0
}

func doAuth(args []string, opt Options) int {
	if len(args) != 1 {
		opt.fail("usage: items auth <login|logout|status>")
		return 2
	}
	store := opt.tokens()
	switch args[0] {
	case "login":
		fmt.Fprint(opt.Stdout, "Paste your token: ")
		line, err := bufio.NewReader(opt.Stdin).ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			opt.fail("read token: " + err.Error())
			return 1
		}
		if err := store.Set(line); err != nil {
			opt.fail("save token: " + err.Error())
			return 1
		}
		ui.OK(opt.Stdout, "logged in")
		return 0

	case "logout":
		ti, _ := store.Get()
		if ti != nil && ti.Source == "env" {
			ui.OK(opt.Stdout, "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
			return 0
		}
		if err := store.Delete(); err != nil {
			opt.fail("logout: " + err.Error())
			return 1
		}
		ui.OK(opt.Stdout, "logged out")
		return 0

	case "status":
		ti, err := store.Get()
		if err != nil {
			opt.fail(err.Error())
			return 1
		}
		if ti == nil {
			fmt.Fprintln(opt.Stdout, ui.Current().Muted.Render("not logged in"))
			fmt.Fprintln(opt.Stdout, "Run: items auth login")
			return 0
		}
		fmt.Fprintf(opt.Stdout, "source: %s\n", ti.Source)
		if ti.ExpiresAt != nil {
			fmt.Fprintf(opt.Stdout, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
		} else {
			fmt.Fprintln(opt.Stdout, "expires: (unknown)")
		}
		if claims, ok := auth.Claims(ti.Token); ok {
			if sub, ok := claims["sub"]; ok {
				fmt.Fprintf(opt.Stdout, "subject: %v\n", sub)
			}
		}
		fmt.Fprintln(opt.Stdout, "env override: "+auth.EnvToken)
		return 0
	}
	opt.fail("usage: items auth <login|logout|status>")
	return 2
}

// doConfig writes or prints the effective settings, root flags included.
func doConfig(args []string, opt Options) int {
	const usage = "usage: items config <init [-f]|show>"
	if len(args) == 0 {
		opt.fail(usage)
		return 2
	}
	fs := newFlagSet("config "+args[0], opt)
	force := fs.Bool("f", false, "overwrite an existing config file")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	cfg := opt.Config

	switch args[0] {
	case "init":
		if _, err := os.Stat(cfg.Path()); err == nil && !*force {
			opt.fail(fmt.Sprintf("%s already exists (use -f to overwrite)", cfg.Path()))
			return 1
		}
		if err := cfg.Validate(); err != nil {
			opt.fail("config: " + err.Error())
			return 1
		}
		if err := cfg.Save(); err != nil {
			opt.fail("config: " + err.Error())
			return 1
		}
		ui.OK(opt.Stdout, "wrote "+cfg.Path())
		return 0

	case "show":
		b, err := yaml.Marshal(cfg)
		if err != nil {
			opt.fail("config: " + err.Error())
			return 1
		}
		fmt.Fprintf(opt.Stdout, "# %s\n%s", cfg.Path(), b)
		return 0
	}
	opt.fail(usage)
	return 2
}
