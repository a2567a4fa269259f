package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tasks/internal/exitcode"
	"github.com/Makepad-fr/tasks/internal/model"
	"github.com/Makepad-fr/tasks/internal/tasklist"
	"github.com/Makepad-fr/tasks/internal/ui"
)

// Env carries what subcommands need: the opened store, output streams and
// root-flag options.
type Env struct {
	Store  *tasklist.Store
	Out    io.Writer
	ErrOut io.Writer

	// Group lists to-do and completed tasks in separate sections.
	Group bool

	// Interactive starts the terminal UI for the `ui` subcommand.
	Interactive func() error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, env Env) int {
	if len(args) == 0 {
		PrintHelp(env.ErrOut)
		return exitcode.Usage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(env.Out)
		return exitcode.Success

	case "ls":
		return doList(env)

	case "add":
		if len(a) == 0 {
			ui.Fail(env.ErrOut, "usage: tasks add <title...>")
			return exitcode.Usage
		}
		return doAdd(env, strings.Join(a, " "))

	case "done":
		n, code := parseIndex(env, "done", a)
		if code != exitcode.Success {
			return code
		}
		return doComplete(env, n)

	case "rm":
		n, code := parseIndex(env, "rm", a)
		if code != exitcode.Success {
			return code
		}
		return doRemove(env, n)

	case "ui":
		if env.Interactive == nil {
			ui.Fail(env.ErrOut, "ui: not available")
			return exitcode.Failure
		}
		if err := env.Interactive(); err != nil {
			ui.Fail(env.ErrOut, "tui: "+err.Error())
			return exitcode.Failure
		}
		return exitcode.Success
	}

	ui.Fail(env.ErrOut, "unknown subcommand: "+cmd)
	fmt.Fprintln(env.ErrOut)
	PrintHelp(env.ErrOut)
	return exitcode.Usage
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `tasks - a persisted task list

Usage:
  tasks [flags] <subcommand> [args]

Subcommands:
  add <title...>     Add a new task (title can be multiple words)
  ls                 List tasks to do and completed tasks
  done <index>       Mark the task at 1-based index as completed
  rm <index>         Remove the task at 1-based index
  ui                 Interactive terminal UI

Flags:
  --config <path>    YAML config file (default $XDG_CONFIG_HOME/tasks/config.yaml)
  --backend <name>   Storage backend: file or sqlite
  --data <path>      Data directory (file) or database file (sqlite)
  --group            Group ls output by to do / completed (default true)
  --theme <name>     classic, neon or mono
  --color <mode>     auto, always or never
  --log-level <lvl>  debug, info, warn or error

Examples:
  tasks add "Buy milk"
  tasks ls
  tasks done 2
  tasks rm 3
`)
}

func parseIndex(env Env, name string, a []string) (int, int) {
	if len(a) != 1 {
		ui.Fail(env.ErrOut, "usage: tasks "+name+" <index>")
		return 0, exitcode.Usage
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(env.ErrOut, name+": not a number: "+a[0])
		return 0, exitcode.Usage
	}
	return n, exitcode.Success
}

// -------------- subcommand impls ----------------

func doAdd(env Env, title string) int {
	if _, err := env.Store.Add(title); err != nil {
		ui.Fail(env.ErrOut, "add: "+err.Error())
		if errors.Is(err, tasklist.ErrValidationRejected) {
			return exitcode.Usage
		}
		return exitcode.Failure
	}
	if code := checkSaved(env); code != exitcode.Success {
		return code
	}
	ui.OK(env.Out, "added")
	return exitcode.Success
}

func doComplete(env Env, userIndex int) int {
	t, code := lookup(env, userIndex)
	if code != exitcode.Success {
		return code
	}
	if t.IsCompleted {
		ui.OK(env.Out, "already completed")
		return exitcode.Success
	}
	if _, err := env.Store.MarkCompleted(t.ID); err != nil {
		ui.Fail(env.ErrOut, "done: "+err.Error())
		return exitcode.Failure
	}
	if code := checkSaved(env); code != exitcode.Success {
		return code
	}
	ui.OK(env.Out, "completed")
	return exitcode.Success
}

func doRemove(env Env, userIndex int) int {
	t, code := lookup(env, userIndex)
	if code != exitcode.Success {
		return code
	}
	if _, err := env.Store.Remove(t.ID); err != nil {
		ui.Fail(env.ErrOut, "rm: "+err.Error())
		return exitcode.Failure
	}
	if code := checkSaved(env); code != exitcode.Success {
		return code
	}
	ui.OK(env.Out, "removed")
	return exitcode.Success
}

func lookup(env Env, userIndex int) (model.Task, int) {
	t, ok := env.Store.At(userIndex)
	if !ok {
		ui.Fail(env.ErrOut, fmt.Sprintf("index out of range: have %d, got %d", env.Store.Len(), userIndex))
		fmt.Fprintln(env.ErrOut, ui.Dim("Hint: run `tasks ls` to see valid indexes"))
		return model.Task{}, exitcode.Usage
	}
	return t, exitcode.Success
}

// checkSaved turns a failed write into a non-zero exit. The store has
// already logged it.
func checkSaved(env Env) int {
	if err := env.Store.Err(); err != nil {
		ui.Fail(env.ErrOut, err.Error())
		return exitcode.Failure
	}
	return exitcode.Success
}
