// pattern: Imperative Shell
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"devframe/internal/instance"
)

// Delegate discovers a running preview and hands a CLI command an HTTP
// client for it. It owns error classification and exit codes.
type Delegate struct {
	// ConfigDir is the config directory for lock/port file discovery.
	ConfigDir string

	// ExitFunc is called to exit the process. Defaults to os.Exit.
	ExitFunc func(int)

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// ClientTimeout is the HTTP client timeout. Defaults to 10 seconds.
	ClientTimeout time.Duration
}

func (d *Delegate) defaults() {
	if d.ExitFunc == nil {
		d.ExitFunc = os.Exit
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.ClientTimeout == 0 {
		d.ClientTimeout = 10 * time.Second
	}
}

// Client discovers the running preview and returns a client for it.
// On failure it prints the error, calls ExitFunc (2 when no preview is
// running, 1 otherwise) and returns nil.
func (d *Delegate) Client() *instance.Client {
	d.defaults()

	baseURL, err := instance.Discover(ResolveDataDir(d.ConfigDir))
	if err != nil {
		fmt.Fprintf(d.Stderr, "error: %v\n", err)
		if errors.Is(err, instance.ErrNotRunning) {
			d.ExitFunc(2)
		} else {
			d.ExitFunc(1)
		}
		return nil
	}
	return instance.NewClientWithTimeout(baseURL, d.ClientTimeout)
}

// Run executes fn against the discovered preview.
//
// Exit codes:
// - 2: no running preview found
// - 1: any other error
// - 0: success (fn returned nil)
func (d *Delegate) Run(fn func(*instance.Client) error) {
	client := d.Client()
	if client == nil {
		return
	}

	if err := fn(client); err != nil {
		fmt.Fprintf(d.Stderr, "error: %s\n", serverMessage(err))
		d.ExitFunc(1)
	}
}

// serverMessage strips the "devframe returned status N: " prefix so the
// user sees the server's own message.
func serverMessage(err error) string {
	msg := err.Error()
	if !strings.HasPrefix(msg, "devframe returned status") {
		return msg
	}
	if _, rest, ok := strings.Cut(msg, ": "); ok {
		return rest
	}
	return msg
}

// PrintJSON writes JSON data to w, indented when pretty is set.
func PrintJSON(w io.Writer, data []byte, pretty bool) error {
	if !pretty {
		_, err := w.Write(data)
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		_, err := w.Write(data)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
