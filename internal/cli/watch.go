// pattern: Imperative Shell
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"devframe/internal/fit"
)

// WatchConfig configures the geometry stream printer.
type WatchConfig struct {
	JSON   bool // one JSON object per line instead of a summary
	Count  int  // stop after this many fits; 0 streams until cancelled
	Writer io.Writer
}

// Watch reads fit results from an open stream and prints one line per fit.
// It returns nil when ctx is cancelled, Count fits were printed, or the
// preview closes the stream normally.
func Watch(ctx context.Context, conn *websocket.Conn, cfg WatchConfig) error {
	defer func() { _ = conn.CloseNow() }()

	seen := 0
	var lastSeq uint64
	for {
		var g fit.Geometry
		if err := wsjson.Read(ctx, conn, &g); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return fmt.Errorf("stream read: %w", err)
		}
		// The first frame can repeat the snapshot sent on connect.
		if g.Seq != 0 && g.Seq == lastSeq {
			continue
		}
		lastSeq = g.Seq

		if err := printGeometry(cfg, g); err != nil {
			return err
		}

		seen++
		if cfg.Count > 0 && seen >= cfg.Count {
			_ = conn.Close(websocket.StatusNormalClosure, "done")
			return nil
		}
	}
}

func printGeometry(cfg WatchConfig, g fit.Geometry) error {
	if cfg.JSON {
		data, err := json.Marshal(g)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cfg.Writer, "%s\n", data)
		return err
	}
	_, err := fmt.Fprintln(cfg.Writer, FormatGeometry(g))
	return err
}

// FormatGeometry renders a one-line summary of a fit result.
func FormatGeometry(g fit.Geometry) string {
	mode := "editor"
	if g.Live {
		mode = "live"
	}
	line := fmt.Sprintf("#%d %-24s %-6s viewport=%dx%d frame=%d workspace=%dx%d",
		g.Seq, g.Reason, mode, g.ViewportWidth, g.ViewportHeight,
		g.FrameHeight, g.WorkspaceWidth, g.WorkspaceHeight)
	if g.Game {
		line += fmt.Sprintf(" icon=%ddeg", g.IconRotation)
	} else if g.GridCell > 0 {
		line += fmt.Sprintf(" cell=%.2fpx", g.GridCell)
	}
	if g.OverflowFrame > 0 || g.OverflowGrid > 0 {
		line += fmt.Sprintf(" overflow=%d/%d", g.OverflowFrame, g.OverflowGrid)
	}
	return line
}
