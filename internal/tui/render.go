package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginTop(1)
	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Bold(true)
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func (m model) renderMonitors() string {
	if len(m.rows) == 0 {
		return dimStyle.Padding(1, 2).Render("no monitors reported by the daemon")
	}

	var sb strings.Builder
	i := 0
	for _, mon := range m.monitors {
		title := fmt.Sprintf("Monitor %d", mon.ID)
		if mon.Detached {
			title += dimStyle.Render("  (detached)")
		}
		sb.WriteString(headerStyle.Render(title))
		sb.WriteString("\n")

		for _, ws := range mon.Workspaces {
			marker := "  "
			if ws.Active {
				marker = activeStyle.Render("● ")
			}
			line := fmt.Sprintf("%s%-24s %s", marker, ws.Name, dimStyle.Render(fmt.Sprintf("%d windows", ws.WindowCount)))
			if i == m.cursor {
				line = cursorStyle.Render("> " + line)
			} else {
				line = rowStyle.Render("  " + line)
			}
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
			i++
		}
	}
	return sb.String()
}

func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar renders the daemon connection status bar.
func renderStatusBar(connected bool, monitors, workspaces, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		status = strings.Join(intersperse([]string{
			dot + " daemon connected",
			fmt.Sprintf("monitors:%d", monitors),
			fmt.Sprintf("workspaces:%d", workspaces),
			"switching paused",
		}, "·"), " ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

func renderMessage(msg string, isError bool, width int) string {
	color := lipgloss.Color("250")
	if isError {
		color = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().Width(width).Foreground(color).Padding(0, 1).Render(msg)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(mode mode, width int) string {
	help := helpLine(bindingsFor(mode))
	if mode == modeConfirmRemove {
		help += "  any other key: cancel"
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
