package ui

import (
	"fmt"
	"io"

	"github.com/idilsaglam/items/internal/manager"
)

// OK prints a success line.
func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// Warn prints a warning line.
func Warn(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Pending.Render(t.SymWarn+" "+msg))
}

// Printer prints notices: failures to Err, everything else to Out.
type Printer struct {
	Out, Err io.Writer
}

// Notify implements manager.Notifier.
func (p Printer) Notify(n manager.Notice) {
	switch n.Level {
	case manager.LevelSuccess:
		OK(p.Out, n.Text)
	case manager.LevelWarn:
		Warn(p.Err, n.Text)
	case manager.LevelError:
		Fail(p.Err, n.Text)
	}
}
