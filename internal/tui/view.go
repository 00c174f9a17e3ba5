package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"modelconsole/internal/models"
)

// Table column headers
var tableColumns = []string{"Select", "Info", "Name", "Update", "Last Modified Date", "Size"}

const (
	noModelSelected = "No model selected"
	noResultsYet    = "No Results Yet"
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpScreen()
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))

	b.WriteString(titleStyle.Render("Model Console"))
	b.WriteString("\n\n")

	if m.state.Notice != nil {
		b.WriteString(m.renderNotice())
		b.WriteString("\n")
	}

	b.WriteString(m.renderModelsSection())

	if m.showCatalog {
		b.WriteString("\n")
		b.WriteString(m.renderCatalogSection())
	}

	b.WriteString("\n")
	b.WriteString(m.renderQuerySection())

	if m.statusMessage != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusMessage))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render(m.hintLine()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) hintLine() string {
	switch m.focus {
	case FocusQuery:
		return "Press Ctrl+S to submit, Tab or Esc to leave the input, Ctrl+C to quit"
	case FocusCatalog:
		return "Press Enter to pull, 'r' to refresh, 'a' to close, Tab to switch, '?' for help, 'q' to quit"
	default:
		return "Press Space to select, 'i' for info, 'u' to update, 'r' to refresh, 'a' to add models, '?' for help, 'q' to quit"
	}
}

// renderNotice renders the dismissible download notice
func (m Model) renderNotice() string {
	n := m.state.Notice

	borderColor := lipgloss.Color("#87d7af")
	if n.IsError {
		borderColor = lipgloss.Color("#ff5f5f")
	}
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor).Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	fileStyle := lipgloss.NewStyle().Bold(true).Italic(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))

	var body string
	if n.IsError {
		body = errorStyle.Render(n.Text)
	} else {
		where := "your Downloads folder"
		if m.downloadsDir != "" {
			where = m.downloadsDir
		}
		body = fileStyle.Render(n.Text) + fmt.Sprintf(" has been downloaded. (Check %s)", where)
	}

	content := titleStyle.Render(n.Title) + "\n" + body + "\n" + hintStyle.Render("Esc to close")
	return boxStyle.Render(content) + "\n"
}

// renderModelsSection renders the installed model table or its loading state
func (m Model) renderModelsSection() string {
	var b strings.Builder

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))

	b.WriteString(sectionStyle.Render("Models"))
	b.WriteString("\n")

	src := m.state.ModelsSource
	switch {
	case !src.HasData() && src.Busy():
		b.WriteString(Indicator(m.spinner, LabelLoadingModels))
		b.WriteString("\n")
		return b.String()
	case !src.HasData() && src.LastErr != "":
		b.WriteString(errorStyle.Render("Could not load models: " + src.LastErr))
		b.WriteString("\n")
		return b.String()
	case len(m.state.Models) == 0:
		b.WriteString(emptyStyle.Render("No models installed. Press 'a' to browse the catalog."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderModelTable())
	return b.String()
}

func (m Model) renderModelTable() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87d7af"))
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00d7ff")).Bold(true)

	rows := make([][]string, len(m.state.Models))
	selected := m.state.SelectionVector()
	for i, model := range m.state.Models {
		check := "[ ]"
		if selected[i] {
			check = "[x]"
		}
		info := "-"
		if m.state.HasInfo(model.Name) {
			info = "↓"
		}
		update := "⟳"
		if m.pulling[model.Name] {
			update = "…"
		}
		rows[i] = []string{
			check,
			info,
			model.Name,
			update,
			models.FormatModified(model.ModifiedAt, m.location),
			models.FormatBytes(model.Size),
		}
	}

	widths := columnWidths(tableColumns, rows)

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(formatRow(tableColumns, widths)))
	b.WriteString("\n")

	for i, row := range rows {
		line := formatRow(row, widths)
		if i == m.cursor && m.focus == FocusModels {
			b.WriteString("> ")
			b.WriteString(cursorStyle.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderCatalogSection renders the installable model list
func (m Model) renderCatalogSection() string {
	var b strings.Builder

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00d7ff")).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).PaddingLeft(2)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))

	b.WriteString(sectionStyle.Render("Available Models"))
	b.WriteString("\n")

	src := m.state.CatalogSource
	if src.Busy() && !src.HasData() {
		b.WriteString(Indicator(m.spinner, "Loading catalog..."))
		b.WriteString("\n")
		return b.String()
	}
	if src.LastErr != "" {
		b.WriteString(errorStyle.Render("Could not load catalog: " + src.LastErr))
		b.WriteString("\n")
	}

	for i, entry := range m.state.Catalog {
		label := entry.Name
		if m.pulling[entry.Name] {
			label += " (pulling)"
		}
		if i == m.catalogCursor && m.focus == FocusCatalog {
			b.WriteString("> " + selectedStyle.Render(label))
		} else {
			b.WriteString("  " + itemStyle.Render(label))
		}
		if entry.Description != "" {
			b.WriteString(descStyle.Render(entry.Description))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderQuerySection renders the ask header, input, timer and response
func (m Model) renderQuerySection() string {
	var b strings.Builder

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af"))
	boxStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#5fafff")).Padding(0, 1)

	if name, ok := m.state.ActiveModel(); ok {
		b.WriteString(sectionStyle.Render("Ask " + name))
	} else {
		b.WriteString(mutedStyle.Render(noModelSelected))
	}
	b.WriteString("\n")

	input := m.input.View()
	if !m.state.InputEnabled() {
		input = mutedStyle.Render(input)
	}
	b.WriteString(input)
	b.WriteString("\n")

	if m.state.Query.Working {
		b.WriteString(Indicator(m.spinner, LabelWorking))
		b.WriteString("\n")
	}

	if m.state.Query.Elapsed > 0 {
		b.WriteString(timeStyle.Render(fmt.Sprintf("Time: %ss", models.FormatElapsed(m.state.Query.Elapsed))))
		b.WriteString("\n")
	}

	if m.rendered == "" {
		b.WriteString(boxStyle.Render(mutedStyle.Render(noResultsYet)))
	} else {
		b.WriteString(boxStyle.Render(m.response.View()))
	}
	b.WriteString("\n")

	return b.String()
}

// renderHelpScreen renders the key binding overlay
func (m Model) renderHelpScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700")).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af")).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(2)

	b.WriteString(titleStyle.Render("Help: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range m.keys.HelpSections() {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, binding := range section.Bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(fmt.Sprintf("%-12s", h.Key)))
			b.WriteString(descStyle.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Press '?' or Esc to close help"))
	b.WriteString("\n")

	return b.String()
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
	}
	return strings.Join(padded, "  ")
}
