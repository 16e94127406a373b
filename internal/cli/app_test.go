// pattern: Functional Core
package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestApp() (*App, *bytes.Buffer, *int) {
	app := NewApp("1.0.0")
	buf := &bytes.Buffer{}
	code := -1
	app.Stderr = buf
	app.Exit = func(c int) { code = c }
	return app, buf, &code
}

func TestApp_PrintHelp_ListsInRegistrationOrder(t *testing.T) {
	app, _, _ := newTestApp()
	app.AddCommand(&Command{Name: "inspect", Summary: "Print geometry"})
	app.AddGroup("action", "Drive the simulator")
	app.AddCommand(&Command{Name: "version", Summary: "Print version"})

	buf := &bytes.Buffer{}
	app.PrintHelp(buf)
	output := buf.String()

	for _, want := range []string{"(none)", "inspect", "action", "version"} {
		if !strings.Contains(output, want) {
			t.Errorf("help missing %q:\n%s", want, output)
		}
	}
	if strings.Index(output, "inspect") > strings.Index(output, "action") ||
		strings.Index(output, "action") > strings.Index(output, "version") {
		t.Errorf("help not in registration order:\n%s", output)
	}
}

func TestApp_Execute_NoArgs_ReturnsTrueForPreview(t *testing.T) {
	app, _, _ := newTestApp()
	if !app.Execute(nil) {
		t.Error("Execute(nil) returned false, want true")
	}
}

func TestApp_Execute_UngroupedCommand_Dispatches(t *testing.T) {
	app, _, code := newTestApp()
	var passedArgs []string
	app.AddCommand(&Command{
		Name: "watch",
		Run: func(args []string) error {
			passedArgs = args
			return nil
		},
	})

	if app.Execute([]string{"watch", "--json"}) {
		t.Error("Execute with command returned true, want false")
	}
	if len(passedArgs) != 1 || passedArgs[0] != "--json" {
		t.Errorf("Command received args %v, want [--json]", passedArgs)
	}
	if *code != -1 {
		t.Errorf("exit code = %d, want no exit", *code)
	}
}

func TestApp_Execute_CommandError_Exits1(t *testing.T) {
	app, buf, code := newTestApp()
	app.AddCommand(&Command{
		Name: "inspect",
		Run:  func([]string) error { return errors.New("boom") },
	})

	app.Execute([]string{"inspect"})

	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
	if !strings.Contains(buf.String(), "error: boom") {
		t.Errorf("stderr = %q, want error: boom", buf.String())
	}
}

func TestApp_Execute_GroupCommand_Dispatches(t *testing.T) {
	app, _, _ := newTestApp()
	group := app.AddGroup("action", "Drive the simulator")

	called := false
	group.AddCommand(&Command{
		Name: "mobile",
		Run: func(args []string) error {
			called = true
			return nil
		},
	})

	if app.Execute([]string{"action", "mobile"}) {
		t.Error("Execute with group command returned true, want false")
	}
	if !called {
		t.Error("Command Run was not called")
	}
}

func TestApp_Execute_HelpFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"group help word", []string{"action", "help"}, "mobile"},
		{"group --help", []string{"action", "--help"}, "mobile"},
		{"group -h", []string{"action", "-h"}, "mobile"},
		{"group no subcommand", []string{"action"}, "Usage: devframe action <command>"},
		{"grouped command --help", []string{"action", "mobile", "--help"}, "Usage: devframe action mobile"},
		{"ungrouped command -h", []string{"inspect", "-h"}, "Usage: devframe inspect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, buf, code := newTestApp()
			runCalled := false
			run := func([]string) error {
				runCalled = true
				return nil
			}
			app.AddCommand(&Command{Name: "inspect", Usage: "Usage: devframe inspect", Run: run})
			group := app.AddGroup("action", "Drive the simulator")
			group.AddCommand(&Command{Name: "mobile", Summary: "Mobile preset", Usage: "Usage: devframe action mobile", Run: run})

			if app.Execute(tt.args) {
				t.Error("Execute returned true, want false")
			}
			if runCalled {
				t.Error("Run was called, should have printed help instead")
			}
			if *code != -1 {
				t.Errorf("exit code = %d, want no exit", *code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output missing %q, got: %s", tt.want, buf.String())
			}
		})
	}
}

func TestApp_Execute_Unknown_Exits1(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown group command", []string{"action", "tablet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, buf, code := newTestApp()
			app.AddGroup("action", "Drive the simulator")

			app.Execute(tt.args)

			if *code != 1 {
				t.Errorf("exit code = %d, want 1", *code)
			}
			if !strings.Contains(buf.String(), "Usage: devframe") {
				t.Errorf("expected help on stderr, got: %s", buf.String())
			}
		})
	}
}
