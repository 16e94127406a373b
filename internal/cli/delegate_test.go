// pattern: Imperative Shell
package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"devframe/internal/fit"
	"devframe/internal/instance"
)

func TestDelegate_Run_NoInstance_ExitsCode2(t *testing.T) {
	exitCode := -1
	stderr := &bytes.Buffer{}

	delegate := Delegate{
		ConfigDir: t.TempDir(),
		ExitFunc:  func(code int) { exitCode = code },
		Stderr:    stderr,
	}

	delegate.Run(func(client *instance.Client) error {
		return fmt.Errorf("should not be called")
	})

	if exitCode != 2 {
		t.Errorf("exit code = %d, want 2", exitCode)
	}
	if !strings.Contains(stderr.String(), "no running devframe preview found") {
		t.Errorf("stderr should name the missing preview, got: %s", stderr.String())
	}
}

func TestDelegate_Run_Success(t *testing.T) {
	s, dir := startPreview(t)
	s.Publish(fit.Geometry{Seq: 1, Reason: "init"})

	exitCode := -1
	stdout := &bytes.Buffer{}
	delegate := Delegate{
		ConfigDir: dir,
		ExitFunc:  func(code int) { exitCode = code },
		Stdout:    stdout,
		Stderr:    &bytes.Buffer{},
	}

	delegate.Run(func(c *instance.Client) error {
		data, err := c.RawGeometry()
		if err != nil {
			return err
		}
		return PrintJSON(delegate.Stdout, data, false)
	})

	if exitCode != -1 {
		t.Errorf("exit code = %d, want no exit", exitCode)
	}
	if !strings.Contains(stdout.String(), `"reason":"init"`) {
		t.Errorf("stdout = %q, want geometry JSON", stdout.String())
	}
}

func TestDelegate_Run_ServerError_PrintsServerMessage(t *testing.T) {
	_, dir := startPreview(t)

	exitCode := -1
	stderr := &bytes.Buffer{}
	delegate := Delegate{
		ConfigDir: dir,
		ExitFunc:  func(code int) { exitCode = code },
		Stderr:    stderr,
	}

	delegate.Run(func(c *instance.Client) error {
		return c.PostAction("tablet")
	})

	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1", exitCode)
	}
	if got := stderr.String(); got != "error: unknown action: tablet\n" {
		t.Errorf("stderr = %q, want %q", got, "error: unknown action: tablet\n")
	}
}

func TestPrintJSON(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		pretty bool
		want   string
	}{
		{"raw passthrough", `{"seq":1}` + "\n", false, `{"seq":1}` + "\n"},
		{"pretty object", `{"seq":1,"live":true}`, true, "{\n  \"seq\": 1,\n  \"live\": true\n}\n"},
		{"pretty falls back on invalid JSON", `not json`, true, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := PrintJSON(buf, []byte(tt.data), tt.pretty); err != nil {
				t.Fatalf("PrintJSON() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("PrintJSON() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
