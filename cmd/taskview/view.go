package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"task-manager/dashboard"
	"task-manager/tasklist"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Padding(0, 1)
	emptyStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Padding(1, 2)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const (
	emptyMessage     = "No tasks available"
	noMatchesMessage = "No tasks match the current search and filters"
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	return s
}

func (m model) View() string {
	var b strings.Builder
	snap := m.store.Snapshot()

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("  ")
	b.WriteString(summaryStyle.Render(m.summary()))
	b.WriteString("\n")

	if snap.Error != "" {
		b.WriteString(errorStyle.Render("Error: " + snap.Error + " (x to dismiss)"))
		b.WriteString("\n")
	}
	if m.focus == focusSearch || snap.SearchQuery != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	switch {
	case snap.Loading && len(snap.Tasks) == 0:
		b.WriteString(emptyStyle.Render("Loading tasks..."))
	default:
		b.WriteString(m.body(len(snap.Tasks)))
	}
	b.WriteString("\n")

	switch m.focus {
	case focusFilters:
		b.WriteString(m.filtersPanel())
		b.WriteString("\n")
	case focusColumns:
		b.WriteString(m.columnsPanel())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m model) body(total int) string {
	res := m.view.Result()
	switch res.Outcome(total) {
	case tasklist.OutcomeEmpty:
		return emptyStyle.Render(emptyMessage)
	case tasklist.OutcomeNoMatches:
		return emptyStyle.Render(noMatchesMessage)
	}
	out := m.table.View()
	switch {
	case m.view.LoadingMore():
		out += "\n" + summaryStyle.Render("Loading more...")
	case res.HasMore:
		out += "\n" + summaryStyle.Render(fmt.Sprintf("%d more (m to load)", len(res.Processed)-len(res.Displayed)))
	}
	return out
}

func (m model) summary() string {
	res := m.view.Result()
	counts := dashboard.CountStatuses(res.Processed)
	sortBy, dir := m.view.Sort()
	parts := []string{
		fmt.Sprintf("%d of %d shown", len(res.Displayed), len(res.Processed)),
		fmt.Sprintf("to do %d · in progress %d · completed %d", counts.ToDo, counts.InProgress, counts.Completed),
		fmt.Sprintf("sort %s %s", sortBy.Label(), dir),
	}
	if n := m.view.ActiveFilterCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d filters", n))
	}
	return strings.Join(parts, " | ")
}

func (m model) filtersPanel() string {
	var b strings.Builder
	idx := 0
	for _, cfg := range m.view.FilterConfigs(m.store.Snapshot().Tasks) {
		b.WriteString(titleStyle.Render(cfg.Label))
		b.WriteString("\n")
		for _, opt := range cfg.Options {
			b.WriteString(m.panelLine(idx, cfg.IsSelected(opt), opt))
			idx++
		}
	}
	if idx == 0 {
		b.WriteString("no filter options")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) columnsPanel() string {
	var b strings.Builder
	for i, it := range m.columns.Selectable() {
		b.WriteString(m.panelLine(i, it.Selected, it.Label))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) panelLine(idx int, selected bool, label string) string {
	box := "[ ]"
	if selected {
		box = "[x]"
	}
	line := box + " " + label
	if idx == m.panelCursor {
		return cursorStyle.Render("> "+line) + "\n"
	}
	return "  " + line + "\n"
}

func (m model) help() string {
	var bindings []string
	switch m.focus {
	case focusSearch:
		bindings = []string{"enter keep", "esc clear"}
	case focusFilters:
		bindings = []string{helpEntry(m.keys.Toggle), helpEntry(m.keys.ResetFilters), helpEntry(m.keys.Back)}
	case focusColumns:
		bindings = []string{helpEntry(m.keys.Toggle), helpEntry(m.keys.MoveLeft), helpEntry(m.keys.MoveRight), helpEntry(m.keys.Back)}
	default:
		bindings = []string{
			"1-9 sort",
			helpEntry(m.keys.Search),
			helpEntry(m.keys.Filters),
			helpEntry(m.keys.Columns),
			helpEntry(m.keys.LoadMore),
			helpEntry(m.keys.Reload),
			helpEntry(m.keys.Quit),
		}
	}
	return strings.Join(bindings, " • ")
}

func helpEntry(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
