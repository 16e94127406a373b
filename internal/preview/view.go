// pattern: Imperative Shell

package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"devframe/internal/fit"
	"devframe/internal/gate"
	"devframe/internal/logging"
)

// View renders the preview.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	g, ok := m.engine.Fit.Last()
	helpView := m.styles.HelpStyle().Render(m.help.View(m.keys))
	helpHeight := lipgloss.Height(helpView)

	var frameCols, frameRows int
	if ok {
		frameCols = m.scale.Cols(g.FrameWidth) + 2
		frameRows = m.scale.Rows(g.FrameHeight) + 2
	}
	layout := ComputeLayout(m.width, m.height, frameCols, frameRows, helpHeight)

	frameView := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderFrame(layout.Frame, g, ok))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderToolbar(layout.Toolbar.Width),
		frameView,
		m.renderStatusBar(layout.Status.Width, g, ok),
		m.renderLogLine(layout.Log.Width),
		helpView,
	)
}

// renderToolbar shows the simulator controls with the active ones lit.
func (m Model) renderToolbar(width int) string {
	sim := m.engine.Sim
	live := sim.Live()
	buttons := []string{
		m.styles.TitleStyle().Render("devframe"),
		m.styles.ButtonStyle(!live && sim.Width() == m.cfg.Simulator.MobileWidth).Render("Mobile"),
		m.styles.ButtonStyle(!live && sim.Width() == m.cfg.Simulator.DesktopWidth).Render("Desktop"),
		m.styles.ButtonStyle(live).Render("Live"),
		m.styles.ButtonStyle(sim.Game()).Render("Game"),
		m.styles.InfoStyle().Render(fmt.Sprintf("%dpx", sim.Width())),
	}
	return ansi.Truncate(strings.Join(buttons, " "), width, "…")
}

// renderFrame draws the device frame box: header, then the workspace tile
// with grid dots or the game icon. A blocked gate covers the whole frame.
func (m Model) renderFrame(r Region, g fit.Geometry, ok bool) string {
	innerW := max(r.Width-2, 1)
	innerH := max(r.Height-2, 1)

	var body string
	switch {
	case !ok:
		body = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center,
			m.styles.HelpStyle().Render("waiting for first fit"))
	case m.engine.Gate.State() == gate.Blocked:
		overlay := m.styles.OverlayStyle().Render(
			m.styles.TitleStyle().Render(gate.OverlayTitle) + "\n" + gate.OverlayMessage,
		)
		body = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, overlay)
	default:
		body = m.renderPage(innerW, innerH, g)
	}

	return m.styles.FrameStyle(g.Live).
		Width(innerW).
		Height(innerH).
		MaxHeight(innerH + 2).
		Render(body)
}

func (m Model) renderPage(width, height int, g fit.Geometry) string {
	mode := "editor"
	if g.Live {
		mode = "live"
	}
	template := "workspace"
	if g.Game {
		template = "game"
	}
	title := fmt.Sprintf(" Preview · %s · %s", mode, template)
	header := m.styles.HeaderStyle().Width(width).Render(ansi.Truncate(title, width, "…"))

	rows := clamp(m.scale.Rows(g.WorkspaceHeight), 1, max(height-1, 1))
	cols := clamp(m.scale.Cols(g.WorkspaceWidth), 1, width)

	var tile string
	if g.Game {
		tile = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center,
			m.styles.IconStyle().Render(iconGlyph(g.IconRotation)))
	} else {
		tile = m.styles.GridStyle().Render(m.renderGrid(cols, rows, g.GridCell))
	}

	page := lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.PlaceHorizontal(width, lipgloss.Center, tile))
	return lipgloss.NewStyle().MaxHeight(height).Render(page)
}

// renderGrid puts a dot wherever a vertical and a horizontal grid line
// cross inside a cell.
func (m Model) renderGrid(cols, rows int, cell float64) string {
	colMarks := gridMarks(cols, m.scale.PxPerCol, cell)
	rowMarks := gridMarks(rows, m.scale.PxPerRow, cell)

	var sb strings.Builder
	for r, onRow := range rowMarks {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, onCol := range colMarks {
			if onRow && onCol {
				sb.WriteString("·")
			} else {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

// renderStatusBar summarizes the last fit pass, with the web address on
// the right.
func (m Model) renderStatusBar(width int, g fit.Geometry, ok bool) string {
	var status string
	switch {
	case m.err != nil:
		status = m.styles.ErrorStyle().Render("✗ " + m.err.Error())
	case !ok:
		status = m.styles.InfoStyle().Render("no fit yet")
	default:
		parts := []string{fmt.Sprintf("fit #%d %s", g.Seq, g.Reason)}
		if m.engine.Gate.Active() {
			parts = append(parts, "gate "+m.engine.Gate.State().String())
		}
		parts = append(parts,
			fmt.Sprintf("frame %dpx", g.FrameHeight),
			fmt.Sprintf("workspace %dpx", g.WorkspaceHeight),
		)
		if !g.Game && g.GridCell > 0 {
			parts = append(parts, fmt.Sprintf("cell %.2fpx", g.GridCell))
		}
		status = m.styles.InfoStyle().Render(strings.Join(parts, " · "))
	}

	var right string
	if m.webURL != "" {
		right = m.styles.AccentStyle().Render(m.webURL)
	}
	rightWidth := lipgloss.Width(right)

	status = ansi.Truncate(status, max(width-rightWidth-1, 0), "…")
	spacerWidth := max(width-lipgloss.Width(status)-rightWidth, 1)
	return status + strings.Repeat(" ", spacerWidth) + right
}

// renderLogLine shows the latest warning or error, else the latest entry.
func (m Model) renderLogLine(width int) string {
	entry := m.lastProblem
	if entry == nil {
		entry = m.lastLog
	}
	if entry == nil {
		return ""
	}
	return ansi.Truncate(m.renderLogEntry(*entry), width, "…")
}

// renderLogEntry formats a single log entry for display.
func (m Model) renderLogEntry(entry logging.LogEntry) string {
	ts := m.styles.LogTimestampStyle().Render(entry.Timestamp.Format("15:04:05"))
	level := m.styles.LogLevelStyle(entry.Level).Render(entry.Level)
	scope := m.styles.LogScopeStyle().Render("[" + entry.Scope + "]")
	return fmt.Sprintf("%s %s %s %s", ts, level, scope, entry.Message)
}
