package cli

import (
	"fmt"

	"github.com/Makepad-fr/tasks/internal/exitcode"
	"github.com/Makepad-fr/tasks/internal/model"
	"github.com/Makepad-fr/tasks/internal/tasklist"
	"github.com/Makepad-fr/tasks/internal/ui"
)

// Headings and empty-state text shared with the TUI.
const (
	HeadingToDo      = "Tasks To Do"
	HeadingCompleted = "Completed Tasks"
	NoTasks          = "There are no tasks to show here"
)

// maxTitleWidth caps titles so the panel fits a normal terminal.
const maxTitleWidth = 80

func doList(env Env) int {
	snap := env.Store.Snapshot()
	d, p := len(snap.Completed), len(snap.Uncompleted)
	t := ui.Current()

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Tasks"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymUnchecked), p,
		ui.C(t.Accent, "Total"), d+p,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	switch {
	case env.Group:
		lines = append(lines, groupLines(env.Store, snap)...)
	case env.Store.Len() == 0:
		lines = append(lines, noTasksLine())
	default:
		lines = append(lines, flatLines(env.Store, env.Store.Tasks())...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `tasks add \"Buy milk\"`"))
	ui.Panel(env.Out, lines)
	return exitcode.Success
}

// -------------- rendering helpers --------------

// flatLines numbers each task by its position in the full list, so the
// numbers are valid arguments for done and rm in both layouts.
func flatLines(s *tasklist.Store, tasks []model.Task) []string {
	width := ui.TermWidth() - 12
	if width > maxTitleWidth {
		width = maxTitleWidth
	}
	out := make([]string, 0, len(tasks))
	for _, it := range tasks {
		idx := fmt.Sprintf("%2d.", s.Position(it.ID))
		box := ui.Current().BoxUnchecked
		color := ui.Current().Muted
		title := ui.Truncate(it.Title, width)
		if it.IsCompleted {
			box, color = ui.Current().BoxChecked, ui.Current().Success
			title = ui.Strike(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", ui.Dim(idx), ui.C(color, box), title))
	}
	return out
}

func groupLines(s *tasklist.Store, snap tasklist.Snapshot) []string {
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, HeadingToDo))
	if s.HasUncompleted() {
		lines = append(lines, flatLines(s, snap.Uncompleted)...)
	} else {
		lines = append(lines, noTasksLine())
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, HeadingCompleted))
	if s.HasCompleted() {
		lines = append(lines, flatLines(s, snap.Completed)...)
	} else {
		lines = append(lines, noTasksLine())
	}
	return lines
}

func noTasksLine() string { return ui.C(ui.Current().Muted, NoTasks) }
