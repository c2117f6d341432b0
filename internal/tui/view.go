package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/items/internal/manager"
	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/ui"
)

const (
	emptyText      = "No Items yet."
	actionsText    = "e edit · d delete"
	completedWidth = 9
	actionsWidth   = 18
)

func columns(width int) []table.Column {
	rest := width - completedWidth - actionsWidth - 10
	if rest < 20 {
		rest = 20
	}
	titleW := rest * 2 / 5
	return []table.Column{
		{Title: "Title", Width: titleW},
		{Title: "Description", Width: rest - titleW},
		{Title: "Completed", Width: completedWidth},
		{Title: "Actions", Width: actionsWidth},
	}
}

func itemRow(it model.Item) table.Row {
	done := "No"
	if it.Completed {
		done = "Yes"
	}
	// rows are single-line
	desc := strings.Join(strings.Fields(it.Description), " ")
	return table.Row{it.Title, desc, done, actionsText}
}

func (a *App) applyTheme() {
	t := ui.Current()
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.BorderColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = t.Selected
	a.table.SetStyles(s)
	a.spinner.Style = t.Accent
	a.help.Styles.ShortKey = t.Accent
	a.help.Styles.ShortDesc = t.Help
}

func (a *App) relayout() {
	w := a.width - 4
	if w < 40 {
		w = 40
	}
	a.title.Width = w - 4
	a.desc.SetWidth(w - 2)
	a.table.SetColumns(columns(w))
	a.table.SetWidth(w)
	a.help.Width = w

	// form ≈ 12 lines, list header 2, help 1, frame 2
	h := a.height - 17 - len(a.toasts)
	if h < 3 {
		h = 3
	}
	a.table.SetHeight(h)
}

func (a App) View() string {
	t := ui.Current()
	var b strings.Builder

	b.WriteString(t.Title.Render("Items"))
	done, pending := a.state.Counts()
	fmt.Fprintf(&b, "   %s %d  %s %d  %s %d\n",
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(a.state.Items))
	for _, tt := range a.toasts {
		b.WriteString(renderToast(tt.notice) + "\n")
	}
	b.WriteString(a.formView() + "\n")
	b.WriteString(a.listView() + "\n")

	if a.confirm != nil {
		b.WriteString(t.Error.Render(fmt.Sprintf("%s %q  (y/n)", manager.DeletePrompt, a.confirm.Title)))
	} else if a.focus == focusTable {
		b.WriteString(a.help.ShortHelpView(a.keys.listHelp()))
	} else {
		b.WriteString(a.help.ShortHelpView(a.keys.formHelp()))
	}
	return ui.PanelString(b.String())
}

func (a App) formView() string {
	t := ui.Current()
	label := func(f focus, s string) string {
		if a.focus == f {
			return t.Accent.Render(s)
		}
		return t.Muted.Render(s)
	}

	heading := "New item"
	if id, ok := a.state.EditingID(); ok {
		heading = "Editing item #" + id.String()
	}

	box := t.BoxUnchecked
	if a.state.Form.Completed {
		box = t.BoxChecked
	}
	check := box + " Completed"
	if a.focus == focusCompleted {
		check = t.Selected.Render(check)
	}

	buttons := t.Selected.Render(" " + a.state.SubmitLabel() + " ")
	if a.state.Saving {
		buttons += " " + t.Muted.Render("saving…")
	}
	if a.state.CanCancel() {
		buttons += "  " + t.Pending.Render("[ Cancel ]")
	}

	lines := []string{
		t.Title.Render(heading),
		label(focusTitle, "Title"),
		a.title.View(),
		label(focusDescription, "Description"),
		a.desc.View(),
		check,
		buttons,
	}
	if a.state.Status != "" {
		lines = append(lines, t.Accent.Render(a.state.Status))
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (a App) listView() string {
	t := ui.Current()
	refresh := "[ Refresh ]"
	if a.state.Loading {
		refresh = "[ Refreshing " + a.spinner.View() + "]"
	}
	header := t.Title.Render("Items") + "  " + t.Pending.Render(refresh)

	if a.state.ShowEmpty() {
		return header + "\n" + t.Muted.Render(emptyText)
	}
	return header + "\n" + a.table.View()
}

func renderToast(n manager.Notice) string {
	t := ui.Current()
	switch n.Level {
	case manager.LevelSuccess:
		return t.Success.Render(t.SymOK + " " + n.Text)
	case manager.LevelWarn:
		return t.Pending.Render(t.SymWarn + " " + n.Text)
	case manager.LevelError:
		return t.Error.Render(t.SymFail + " " + n.Text)
	}
	return n.Text
}
