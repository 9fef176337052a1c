package main

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"task-manager/domain"
	"task-manager/tasklist"
)

// loadMoreDelay is how long the "loading more" row shows before the next
// page is revealed.
const loadMoreDelay = 150 * time.Millisecond

type focus int

const (
	focusTable focus = iota
	focusSearch
	focusFilters
	focusColumns
)

type tasksLoadedMsg struct{ err error }

type loadMoreDoneMsg struct{}

// filterItem is one row of the filter panel.
type filterItem struct {
	field  tasklist.FilterField
	option string
}

// model is the bubbletea model of the task table. Every key is translated
// into a tasklist.View intent or a tasklist.Store call.
type model struct {
	ctx     context.Context
	store   *tasklist.Store
	view    *tasklist.View
	columns *tasklist.Columns
	keys    keyMap

	table  table.Model
	search textinput.Model
	focus  focus

	panelCursor int
	width       int
	height      int
}

func newModel(ctx context.Context, store *tasklist.Store, settings domain.Settings) model {
	search := textinput.New()
	search.Placeholder = "Search title or description"
	search.Prompt = "/ "

	t := table.New(table.WithFocused(true), table.WithHeight(15))
	t.SetStyles(tableStyles())

	m := model{
		ctx:     ctx,
		store:   store,
		view:    tasklist.NewView(settings),
		columns: tasklist.NewColumns(settings.Columns...),
		keys:    defaultKeys,
		table:   t,
		search:  search,
	}
	m.syncTable()
	return m
}

func (m model) Init() tea.Cmd {
	return m.load()
}

func (m model) load() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return tasksLoadedMsg{err: store.Load(ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case tasksLoadedMsg:
		if errors.Is(msg.err, tasklist.ErrSuperseded) {
			return m, nil
		}
		m.sourceChanged()
		return m, nil

	case loadMoreDoneMsg:
		m.apply(tasklist.LoadMoreFinished{})
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusFilters:
			return m.updateFilters(msg), nil
		case focusColumns:
			return m.updateColumns(msg), nil
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Filters):
		m.focus = focusFilters
		m.panelCursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Columns):
		m.focus = focusColumns
		m.panelCursor = 0
		return m, nil
	case key.Matches(msg, m.keys.ResetFilters):
		m.apply(tasklist.ResetFilters{})
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	case key.Matches(msg, m.keys.Dismiss):
		m.store.DismissError()
		return m, nil
	case key.Matches(msg, m.keys.LoadMore):
		return m, m.startLoadMore()
	}

	if col, ok := m.sortColumnForKey(msg); ok {
		m.apply(tasklist.SortBy{Column: col})
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	rows := len(m.view.Result().Displayed)
	if rows > 0 && m.table.Cursor() >= rows-1 {
		return m, tea.Batch(cmd, m.startLoadMore())
	}
	return m, cmd
}

// sortColumnForKey maps "1".."9" to the visible column at that position.
func (m model) sortColumnForKey(msg tea.KeyMsg) (domain.Column, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return "", false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return "", false
	}
	visible := m.columns.Visible()
	idx := int(r - '1')
	if idx >= len(visible) {
		return "", false
	}
	return visible[idx], true
}

func (m *model) startLoadMore() tea.Cmd {
	if m.view.LoadingMore() || !m.view.Result().HasMore {
		return nil
	}
	m.view.Update(tasklist.LoadMoreStarted{})
	return tea.Tick(loadMoreDelay, func(time.Time) tea.Msg { return loadMoreDoneMsg{} })
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.focus = focusTable
		m.store.Search("")
		m.sourceChanged()
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		m.focus = focusTable
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.store.Search(m.search.Value())
		m.sourceChanged()
	}
	return m, cmd
}

func (m model) filterItems() []filterItem {
	var items []filterItem
	for _, cfg := range m.view.FilterConfigs(m.store.Snapshot().Tasks) {
		for _, opt := range cfg.Options {
			items = append(items, filterItem{field: cfg.ID, option: opt})
		}
	}
	return items
}

func (m model) updateFilters(msg tea.KeyMsg) model {
	items := m.filterItems()
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Filters):
		m.focus = focusTable
	case key.Matches(msg, m.keys.Up):
		m.panelCursor = max(m.panelCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.panelCursor = min(m.panelCursor+1, max(len(items)-1, 0))
	case key.Matches(msg, m.keys.Toggle):
		if m.panelCursor < len(items) {
			it := items[m.panelCursor]
			m.apply(tasklist.ToggleFilterValue{Field: it.field, Value: it.option})
		}
	case key.Matches(msg, m.keys.ResetFilters):
		m.apply(tasklist.ResetFilters{})
	}
	return m
}

func (m model) updateColumns(msg tea.KeyMsg) model {
	items := m.columns.Selectable()
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Columns):
		m.focus = focusTable
	case key.Matches(msg, m.keys.Up):
		m.panelCursor = max(m.panelCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.panelCursor = min(m.panelCursor+1, len(items)-1)
	case key.Matches(msg, m.keys.Toggle):
		it := items[m.panelCursor]
		// Keep at least one column on screen.
		if it.Selected && len(m.columns.Visible()) == 1 {
			break
		}
		m.columns.Toggle(it.Column, !it.Selected)
		m.syncTable()
	case key.Matches(msg, m.keys.MoveLeft), key.Matches(msg, m.keys.MoveRight):
		m.moveColumn(items[m.panelCursor].Column, key.Matches(msg, m.keys.MoveRight))
	}
	return m
}

func (m *model) moveColumn(col domain.Column, right bool) {
	visible := m.columns.Visible()
	from := -1
	for i, c := range visible {
		if c == col {
			from = i
		}
	}
	if from < 0 {
		return
	}
	to := from - 1
	if right {
		to = from + 1
	}
	if m.columns.Move(from, to) {
		m.syncTable()
	}
}

// sourceChanged feeds the store's search-narrowed list into the view.
func (m *model) sourceChanged() {
	m.apply(tasklist.SourceChanged{Tasks: m.store.Snapshot().FilteredTasks})
	m.table.GotoTop()
}

func (m *model) apply(in tasklist.Intent) {
	m.view.Update(in)
	m.syncTable()
}

// syncTable rebuilds the table columns and rows from the current result.
func (m *model) syncTable() {
	visible := m.columns.Visible()
	cols := make([]table.Column, len(visible))
	sortBy, dir := m.view.Sort()
	for i, c := range visible {
		title := c.Label()
		if c == sortBy {
			title += sortIndicator(dir)
		}
		cols[i] = table.Column{Title: title, Width: columnWidth(c)}
	}
	displayed := m.view.Result().Displayed
	rows := make([]table.Row, len(displayed))
	for i, t := range displayed {
		row := make(table.Row, len(visible))
		for j, c := range visible {
			row[j] = c.Value(t)
		}
		rows[i] = row
	}
	cursor := m.table.Cursor()
	// Rows must match the column count at every step.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if cursor < len(rows) {
		m.table.SetCursor(cursor)
	}
}

func sortIndicator(dir domain.SortDirection) string {
	if dir == domain.SortDesc {
		return " ▼"
	}
	return " ▲"
}

func columnWidth(c domain.Column) int {
	switch c {
	case domain.ColumnTitle:
		return 28
	case domain.ColumnDescription:
		return 36
	case domain.ColumnAssignee:
		return 16
	case domain.ColumnPriority:
		return 8
	case domain.ColumnEstimatedHours:
		return 10
	default:
		return 12
	}
}
