package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/idilsaglam/items/internal/api"
	"github.com/idilsaglam/items/internal/auth"
	"github.com/idilsaglam/items/internal/config"
	"github.com/idilsaglam/items/internal/manager"
	"github.com/idilsaglam/items/internal/tui"
	"github.com/idilsaglam/items/internal/ui"
)

// Options carry everything the subcommands need. Zero fields fall back to
// the process defaults.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// Client overrides the HTTP client built from Config (tests).
	Client manager.Client
	// RunTUI overrides the interactive screen (tests).
	RunTUI func(ctx context.Context, c manager.Client, log *slog.Logger) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *Options) defaults() {
	if o.Config == nil {
		o.Config = config.Default(config.DefaultDir())
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.RunTUI == nil {
		o.RunTUI = tui.Run
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

func (o Options) client() (manager.Client, error) {
	if o.Client != nil {
		return o.Client, nil
	}
	c := o.Config
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	opts := []api.Option{
		api.WithResource(c.Resource),
		api.WithTrailingSlash(c.TrailingSlash),
		api.WithTimeout(c.Timeout),
		api.WithLogger(o.Logger),
	}
	ts, err := o.tokens().TokenSource()
	switch {
	case err == nil:
		opts = append(opts, api.WithTokenSource(ts))
	case errors.Is(err, auth.ErrNoToken):
		// anonymous
	default:
		return nil, err
	}
	return api.New(c.BaseURL, opts...)
}

func (o Options) tokens() auth.Store { return auth.Store{Dir: o.Config.Dir} }

func (o Options) manager(c manager.Client, confirm manager.Confirmer) *manager.Manager {
	if confirm == nil {
		confirm = manager.AlwaysConfirm
	}
	return manager.NewManager(c,
		manager.WithNotifier(ui.Printer{Out: o.Stdout, Err: o.Stderr}),
		manager.WithConfirmer(confirm),
		manager.WithLogger(o.Logger),
	)
}

func (o Options) fail(msg string) { ui.Fail(o.Stderr, msg) }

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// With no subcommand it opens the interactive screen.
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		return doUI(ctx, opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0
	case "ui":
		return doUI(ctx, opt)
	case "ls":
		return doList(ctx, opt)
	case "add":
		return doAdd(ctx, a, opt)
	case "edit":
		return doEdit(ctx, a, opt)
	case "rm":
		return doRemove(ctx, a, opt)
	case "export":
		return doExport(ctx, a, opt)
	case "import":
		return doImport(ctx, a, opt)
	case "auth":
		return doAuth(a, opt)
	case "config":
		return doConfig(a, opt)
	}

	opt.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `items - manage a remote item collection

Usage:
  items [root flags] [subcommand] [args]

Subcommands:
  ui                                   Interactive form and list (default)
  ls                                   List items
  add [-d desc] [-done] <title...>     Create an item
  edit [-t title] [-d desc] [-done=true|false] <id>
                                       Update an item; unset flags keep their value
  rm [-y] <id>                         Delete an item (asks first unless -y)
  export <file>                        Write all items to a JSON file
  import <file>                        Create every item from a JSON file
  auth <login|logout|status>           Bearer token for the API
  config <init [-f]|show>              Write or print the effective settings

Root flags:
  -config <path>   -base-url <url>   -theme classic|neon|mono
  -timeout <dur>   -log-file <path>  -log-level debug|info|warn|error

Examples:
  items add "Buy milk"
  items ls
  items edit -done 7
  items rm 7
`)
}
