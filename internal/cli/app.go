// pattern: Functional Core
package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// Group represents a group of related commands.
type Group struct {
	Name     string
	Summary  string
	Commands map[string]*Command
}

// App is the top-level CLI: ungrouped commands plus command groups.
type App struct {
	groups   map[string]*Group
	commands map[string]*Command
	order    []string
	version  string

	// Stderr receives help and usage text. Defaults to os.Stderr.
	Stderr io.Writer
	// Exit is called for unknown commands. Defaults to os.Exit.
	Exit func(int)
}

// NewApp creates a new CLI application with the given version.
func NewApp(version string) *App {
	return &App{
		groups:   make(map[string]*Group),
		commands: make(map[string]*Command),
		version:  version,
		Stderr:   os.Stderr,
		Exit:     os.Exit,
	}
}

// AddGroup creates and registers a new command group.
func (a *App) AddGroup(name, summary string) *Group {
	g := &Group{
		Name:     name,
		Summary:  summary,
		Commands: make(map[string]*Command),
	}
	a.groups[name] = g
	a.order = append(a.order, name)
	return g
}

// AddCommand registers an ungrouped (top-level) command. Help lists
// commands and groups in registration order.
func (a *App) AddCommand(cmd *Command) {
	a.commands[cmd.Name] = cmd
	a.order = append(a.order, cmd.Name)
}

// AddCommand registers a command in the group.
func (g *Group) AddCommand(cmd *Command) {
	g.Commands[cmd.Name] = cmd
}

// Execute dispatches the CLI arguments to the appropriate command.
// Returns true if the preview should be launched, false otherwise.
func (a *App) Execute(args []string) bool {
	if len(args) == 0 {
		return true
	}

	cmdName := args[0]

	if cmd, ok := a.commands[cmdName]; ok {
		if wantsHelp(args[1:]) {
			fmt.Fprintf(a.Stderr, "%s\n", cmd.Usage)
			return false
		}
		// Commands handle their own error reporting and exit codes.
		if err := cmd.Run(args[1:]); err != nil {
			fmt.Fprintf(a.Stderr, "error: %v\n", err)
			a.Exit(1)
		}
		return false
	}

	if group, ok := a.groups[cmdName]; ok {
		if len(args) < 2 || args[1] == "help" || args[1] == "--help" || args[1] == "-h" {
			group.PrintHelp(a.Stderr)
			return false
		}

		if cmd, ok := group.Commands[args[1]]; ok {
			if wantsHelp(args[2:]) {
				fmt.Fprintf(a.Stderr, "%s\n", cmd.Usage)
				return false
			}
			if err := cmd.Run(args[2:]); err != nil {
				fmt.Fprintf(a.Stderr, "error: %v\n", err)
				a.Exit(1)
			}
			return false
		}

		group.PrintHelp(a.Stderr)
		a.Exit(1)
		return false
	}

	a.PrintHelp(a.Stderr)
	a.Exit(1)
	return false
}

func wantsHelp(args []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool {
		return arg == "--help" || arg == "-h"
	})
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: devframe [options] [command]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  %-10s %s\n", "(none)", "Launch the terminal preview")

	for _, name := range a.order {
		if cmd, ok := a.commands[name]; ok {
			fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
		} else if g, ok := a.groups[name]; ok {
			fmt.Fprintf(w, "  %-10s %s\n", g.Name, g.Summary)
		}
	}

	fmt.Fprintf(w, "\nUse \"devframe <command> --help\" for command details.\n\n")
	fmt.Fprintf(w, "Options:\n")
}

// PrintHelp prints help for a specific group.
func (g *Group) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: devframe %s <command>\n\n", g.Name)
	fmt.Fprintf(w, "Commands:\n")
	for _, name := range slices.Sorted(maps.Keys(g.Commands)) {
		cmd := g.Commands[name]
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "\nUse \"devframe %s <command> --help\" for command details.\n", g.Name)
}
