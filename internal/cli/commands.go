// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"devframe/internal/config"
	"devframe/internal/instance"
	"devframe/internal/simulator"
)

// ResolveDataDir returns the directory holding the lock and port files.
// If configDir is specified, uses that; otherwise the config directory.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	return config.Dir()
}

var actionSummaries = map[string]string{
	simulator.ActionMobile:  "Switch to the mobile preset width",
	simulator.ActionDesktop: "Switch to the desktop preset width",
	simulator.ActionLive:    "Toggle live view",
	simulator.ActionGame:    "Toggle the game template",
}

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(version string, configDir string) *App {
	app := NewApp(version)

	app.AddCommand(&Command{
		Name:    "inspect",
		Summary: "Print the latest fit geometry as JSON",
		Usage:   "Usage: devframe inspect [--pretty]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
			pretty := fs.Bool("pretty", isTerminal(os.Stdout), "indent the JSON output")
			if err := fs.Parse(args); err != nil {
				return fmt.Errorf("usage: devframe inspect [--pretty]")
			}
			delegate := Delegate{ConfigDir: configDir}
			delegate.Run(func(c *instance.Client) error {
				data, err := c.RawGeometry()
				if err != nil {
					return err
				}
				return PrintJSON(delegate.Stdout, data, *pretty)
			})
			return nil
		},
	})

	app.AddCommand(&Command{
		Name:    "status",
		Summary: "Print the running preview's health",
		Usage:   "Usage: devframe status",
		Run: func(args []string) error {
			delegate := Delegate{ConfigDir: configDir}
			delegate.Run(func(c *instance.Client) error {
				h, err := c.Health()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(delegate.Stdout, "status=%s session=%s uptime=%ds fits=%d\n",
					h.Status, h.SessionID, h.UptimeSec, h.Fits)
				return err
			})
			return nil
		},
	})

	app.AddCommand(&Command{
		Name:    "watch",
		Summary: "Stream fit results from the running preview",
		Usage:   "Usage: devframe watch [--json] [-n/--count N]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("watch", flag.ContinueOnError)
			jsonOut := fs.Bool("json", false, "print each fit as a JSON line")
			count := fs.IntP("count", "n", 0, "stop after N fits")
			if err := fs.Parse(args); err != nil {
				return fmt.Errorf("usage: devframe watch [--json] [-n/--count N]")
			}
			if *count < 0 {
				return errors.New("count must not be negative")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			delegate := Delegate{ConfigDir: configDir}
			delegate.Run(func(c *instance.Client) error {
				conn, err := c.DialStream(ctx)
				if err != nil {
					return err
				}
				return Watch(ctx, conn, WatchConfig{JSON: *jsonOut, Count: *count, Writer: delegate.Stdout})
			})
			return nil
		},
	})

	actions := app.AddGroup("action", "Drive the simulator in the running preview")
	for _, name := range simulator.Actions {
		actions.AddCommand(&Command{
			Name:    name,
			Summary: actionSummaries[name],
			Usage:   "Usage: devframe action " + name,
			Run: func(args []string) error {
				delegate := Delegate{ConfigDir: configDir}
				delegate.Run(func(c *instance.Client) error {
					return c.PostAction(name)
				})
				return nil
			},
		})
	}
	actions.AddCommand(&Command{
		Name:    "list",
		Summary: "List the actions the preview accepts",
		Usage:   "Usage: devframe action list",
		Run: func(args []string) error {
			delegate := Delegate{ConfigDir: configDir}
			delegate.Run(func(c *instance.Client) error {
				names, err := c.Actions()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(delegate.Stdout, strings.Join(names, "\n"))
				return err
			})
			return nil
		},
	})

	app.AddCommand(&Command{
		Name:    "cleanup",
		Summary: "Remove a stale port file left by a crashed preview",
		Usage:   "Usage: devframe cleanup",
		Run: func(args []string) error {
			return runCleanupCommand(configDir)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: devframe version",
		Run: func(args []string) error {
			fmt.Println(version)
			return nil
		},
	})

	return app
}

func runCleanupCommand(configDir string) error {
	removed, err := instance.RemoveStale(ResolveDataDir(configDir))
	if err != nil {
		if errors.Is(err, instance.ErrAlreadyRunning) {
			return fmt.Errorf("a devframe preview appears to be running; stop it first")
		}
		return err
	}
	if removed {
		fmt.Println("Cleaned up stale port file.")
	} else {
		fmt.Println("Nothing to clean up.")
	}
	return nil
}
