package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/items/internal/auth"
	"github.com/idilsaglam/items/internal/config"
	"github.com/idilsaglam/items/internal/manager"
	"github.com/idilsaglam/items/internal/manager/managertest"
	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store/jsonfile"
	"github.com/idilsaglam/items/internal/ui"
)

type harness struct {
	fc       *managertest.FakeClient
	opt      Options
	out, err *bytes.Buffer
}

func newHarness(t *testing.T, stdin string, items ...model.Item) *harness {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })
	t.Setenv(auth.EnvToken, "")

	h := &harness{fc: managertest.NewFakeClient(items...), out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	h.opt = Options{
		Config: config.Default(t.TempDir()),
		Client: h.fc,
		Stdin:  strings.NewReader(stdin),
		Stdout: h.out,
		Stderr: h.err,
	}
	return h
}

func (h *harness) run(args ...string) int {
	return Run(context.Background(), args, h.opt)
}

func TestHelpAndUnknown(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, 0, h.run("help"))
	assert.Contains(t, h.out.String(), "Subcommands:")

	assert.Equal(t, 2, h.run("frobnicate"))
	assert.Contains(t, h.err.String(), "unknown subcommand: frobnicate")
}

func TestNoArgsOpensUI(t *testing.T) {
	h := newHarness(t, "")
	var got manager.Client
	h.opt.RunTUI = func(_ context.Context, c manager.Client, _ *slog.Logger) error {
		got = c
		return nil
	}
	assert.Equal(t, 0, h.run())
	assert.Same(t, h.fc, got)

	h.opt.RunTUI = func(context.Context, manager.Client, *slog.Logger) error { return errors.New("no tty") }
	assert.Equal(t, 1, h.run("ui"))
	assert.Contains(t, h.err.String(), "tui: no tty")
}

func TestList(t *testing.T) {
	h := newHarness(t, "",
		model.Item{ID: "1", Title: "Buy milk"},
		model.Item{ID: "2", Title: "Call mom", Description: "on\nSunday", Completed: true},
	)
	assert.Equal(t, 0, h.run("ls"))
	out := h.out.String()
	assert.Contains(t, out, "#1 [ ] Buy milk")
	assert.Contains(t, out, "#2 [x] Call mom — on Sunday")
	assert.Contains(t, out, "Total 2")
}

func TestListEmptyAndFailure(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.out.String(), "No Items yet.")

	h.fc.ListErr = errors.New("offline")
	assert.Equal(t, 1, h.run("ls"))
	assert.Contains(t, h.err.String(), manager.StatusLoadFailed)
}

func TestAdd(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, 0, h.run("add", "-d", "2 liters", "Buy", "milk"))
	assert.Equal(t, managertest.Call{Op: "create", Fields: model.Fields{Title: "Buy milk", Description: "2 liters"}}, h.fc.Calls()[0])
	assert.Contains(t, h.out.String(), "Item created.")

	assert.Equal(t, 2, h.run("add"))

	h.fc.CreateErr = errors.New("400")
	assert.Equal(t, 1, h.run("add", "x"))
	assert.Contains(t, h.err.String(), "Save failed.")
}

func TestEditOnlyChangesGivenFields(t *testing.T) {
	h := newHarness(t, "", model.Item{ID: "7", Title: "A", Description: "B"})
	assert.Equal(t, 0, h.run("edit", "-done", "7"))

	var update managertest.Call
	for _, c := range h.fc.Calls() {
		if c.Op == "update" {
			update = c
		}
	}
	assert.Equal(t, managertest.Call{Op: "update", ID: "7", Fields: model.Fields{Title: "A", Description: "B", Completed: true}}, update)
	assert.Equal(t, 0, h.fc.CallCount("create"))
	assert.Contains(t, h.out.String(), "Item updated.")
}

func TestEditUnknownID(t *testing.T) {
	h := newHarness(t, "", model.Item{ID: "7", Title: "A"})
	assert.Equal(t, 2, h.run("edit", "-t", "x", "99"))
	assert.Contains(t, h.err.String(), "no item with id 99")
	assert.Equal(t, 0, h.fc.CallCount("update"))
}

func TestRemoveDeclined(t *testing.T) {
	h := newHarness(t, "n\n", model.Item{ID: "1", Title: "a"})
	assert.Equal(t, 0, h.run("rm", "1"))
	assert.Contains(t, h.out.String(), manager.DeletePrompt)
	assert.Contains(t, h.out.String(), "aborted")
	assert.Empty(t, h.fc.Calls())
}

func TestRemoveConfirmed(t *testing.T) {
	h := newHarness(t, "y\n", model.Item{ID: "1", Title: "a"})
	assert.Equal(t, 0, h.run("rm", "1"))
	assert.Equal(t, []managertest.Call{{Op: "delete", ID: "1"}}, h.fc.Calls())
	assert.Contains(t, h.out.String(), manager.StatusDeleted)
}

func TestRemoveYesAndFailure(t *testing.T) {
	h := newHarness(t, "", model.Item{ID: "1", Title: "a"})
	h.fc.DeleteErr = errors.New("boom")
	assert.Equal(t, 1, h.run("rm", "-y", "1"))
	assert.Contains(t, h.err.String(), manager.StatusDeleteFailed)
	assert.Equal(t, 2, h.run("rm"))
}

func TestExportImport(t *testing.T) {
	h := newHarness(t, "", model.Item{ID: "1", Title: "a"}, model.Item{ID: "2", Title: "b", Completed: true})
	p := filepath.Join(t.TempDir(), "items.json")
	assert.Equal(t, 0, h.run("export", p))
	assert.Contains(t, h.out.String(), "exported 2 items")

	saved, err := jsonfile.Load(p)
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	dst := newHarness(t, "")
	assert.Equal(t, 0, dst.run("import", p))
	assert.Equal(t, 2, dst.fc.CallCount("create"))
	got := dst.fc.Items()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Title)
	assert.True(t, got[1].Completed)
}

func TestImportReportsFailures(t *testing.T) {
	p := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, jsonfile.Save(p, []model.Item{{ID: "1", Title: "a"}}))
	h := newHarness(t, "")
	h.fc.CreateErr = errors.New("400")
	assert.Equal(t, 1, h.run("import", p))
	assert.Contains(t, h.err.String(), "1 of 1 items failed")
}

func TestImportMissingFile(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, 1, h.run("import", filepath.Join(t.TempDir(), "typo.json")))
	assert.Contains(t, h.err.String(), "import:")
	assert.NotContains(t, h.out.String(), "imported")
	assert.Empty(t, h.fc.Calls())
}

func TestConfigInitAndShow(t *testing.T) {
	t.Setenv("ITEMS_BASE_URL", "")
	t.Setenv("ITEMS_THEME", "")
	t.Setenv("ITEMS_LOG_FILE", "")
	h := newHarness(t, "")
	h.opt.Config.BaseURL = "http://10.0.0.2:9000"

	assert.Equal(t, 0, h.run("config", "init"))
	assert.Contains(t, h.out.String(), "wrote "+h.opt.Config.Path())
	got, err := config.Load(h.opt.Config.Path())
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:9000", got.BaseURL)

	assert.Equal(t, 1, h.run("config", "init"))
	assert.Contains(t, h.err.String(), "already exists")
	assert.Equal(t, 0, h.run("config", "init", "-f"))

	h.out.Reset()
	assert.Equal(t, 0, h.run("config", "show"))
	assert.Contains(t, h.out.String(), "base_url: http://10.0.0.2:9000")

	assert.Equal(t, 2, h.run("config"))
	assert.Equal(t, 2, h.run("config", "nope"))
}

func TestAuthLoginStatusLogout(t *testing.T) {
	h := newHarness(t, "Bearer tok-123\n")
	assert.Equal(t, 0, h.run("auth", "login"))
	assert.Contains(t, h.out.String(), "logged in")
	_, err := os.Stat(filepath.Join(h.opt.Config.Dir, "credentials.json"))
	require.NoError(t, err)

	h.out.Reset()
	assert.Equal(t, 0, h.run("auth", "status"))
	assert.Contains(t, h.out.String(), "source: file")

	h.out.Reset()
	assert.Equal(t, 0, h.run("auth", "logout"))
	assert.Contains(t, h.out.String(), "logged out")

	h.out.Reset()
	assert.Equal(t, 0, h.run("auth", "status"))
	assert.Contains(t, h.out.String(), "not logged in")

	assert.Equal(t, 2, h.run("auth"))
}

func TestClientFromConfig(t *testing.T) {
	t.Setenv(auth.EnvToken, "abc")
	opt := Options{Config: config.Default(t.TempDir())}
	opt.defaults()
	c, err := opt.client()
	require.NoError(t, err)
	assert.NotNil(t, c)

	opt.Config.BaseURL = "not a url"
	_, err = opt.client()
	assert.Error(t, err)
}
