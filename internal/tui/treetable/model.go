package treetable

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// headerHeight is the header line plus the rule beneath it.
const headerHeight = 2

// glyphCells is the width of the expand glyph and the space after it.
const glyphCells = 2

type rowKind int

const (
	rowItem rowKind = iota
	rowLoading
	rowError
	rowEmpty
)

// row is one rendered line. For placeholders, node is the expanded owner.
type row[T any] struct {
	kind rowKind
	node *node[T]
}

// Model is a lazy-loading tree table.
type Model[T any] struct {
	columns    []Column[T]
	roots      []*node[T]
	getID      func(T) string
	resolver   ChildrenResolver[T]
	indent     int
	messages   Messages
	onRowClick func(T) tea.Cmd
	keys       KeyMap

	rows     []row[T]
	itemRows []int // line index of every item row, in order
	cursor   int   // ordinal into itemRows
	selected *node[T]
	offset   int

	height int
	width  int
}

// New builds a Model. Roots start collapsed, so no fetch is issued until the
// user expands a node.
func New[T any](opts Options[T]) Model[T] {
	m := Model[T]{
		columns:    opts.Columns,
		getID:      opts.GetID,
		resolver:   opts.Resolver,
		indent:     opts.IndentUnit,
		messages:   opts.Messages.withDefaults(),
		onRowClick: opts.OnRowClick,
		keys:       opts.KeyMap,
		height:     opts.Height,
		width:      opts.Width,
	}
	if m.indent <= 0 {
		m.indent = DefaultIndentUnit
	}
	if m.getID == nil {
		m.getID = func(item T) string { return fmt.Sprint(item) }
	}
	if m.resolver == nil {
		m.resolver = func(T, bool) (ChildrenState[T], tea.Cmd) {
			return ChildrenState[T]{IsFetched: true}, nil
		}
	}
	if len(m.keys.Toggle.Keys()) == 0 {
		m.keys = DefaultKeyMap()
	}

	m.roots = reconcile[T](nil, nil, opts.Data, m.getID, 0)
	_ = m.sync()
	return m
}

// Init implements tea.Model.
func (m Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles input, then re-resolves every mounted node and returns the
// batched fetch commands together with any row activation command.
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	}
	cmd = tea.Batch(cmd, m.sync())
	return m, cmd
}

// SetData replaces the root items. Roots that keep their id keep their
// expansion state.
func (m Model[T]) SetData(data []T) (Model[T], tea.Cmd) {
	m.roots = reconcile[T](nil, m.roots, data, m.getID, 0)
	cmd := m.sync()
	return m, cmd
}

// SetSize sets the visible width and the number of body rows.
func (m *Model[T]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

// Selected returns the item under the cursor.
func (m Model[T]) Selected() (T, bool) {
	if m.selected == nil {
		var zero T
		return zero, false
	}
	return m.selected.item, true
}

// KeyMap returns the active key bindings.
func (m Model[T]) KeyMap() KeyMap {
	return m.keys
}

// Len returns the number of item rows currently rendered.
func (m Model[T]) Len() int {
	return len(m.itemRows)
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.pageSize())
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.itemRows))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.itemRows))
	case key.Matches(msg, m.keys.Toggle):
		m.toggle(m.selected)
	case key.Matches(msg, m.keys.Expand):
		if n := m.selected; n != nil && !n.expanded {
			m.toggle(n)
		}
	case key.Matches(msg, m.keys.Collapse):
		n := m.selected
		switch {
		case n == nil:
		case n.expanded:
			m.toggle(n)
		case n.parent != nil:
			m.selected = n.parent
		}
	case key.Matches(msg, m.keys.Activate):
		return m.activate(m.selected)
	}
	return nil
}

// handleMouse maps a click to a row. Coordinates are relative to the top-left
// corner of the table, header included.
func (m *Model[T]) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
		return nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	line := msg.Y - headerHeight + m.offset
	if msg.Y < headerHeight || line >= len(m.rows) {
		return nil
	}
	r := m.rows[line]
	if r.kind != rowItem {
		return nil
	}
	m.selected = r.node

	start := r.node.depth * m.indent
	switch {
	case msg.X >= start && msg.X < start+glyphCells:
		m.toggle(r.node)
	case msg.X >= start+glyphCells && msg.X < m.columnWidth(0):
		return m.activate(r.node)
	}
	return nil
}

func (m *Model[T]) toggle(n *node[T]) {
	if n == nil || !n.toggleVisible() {
		return
	}
	n.expanded = !n.expanded
	if !n.expanded {
		n.children = nil
	}
}

func (m *Model[T]) activate(n *node[T]) tea.Cmd {
	if n == nil || m.onRowClick == nil {
		return nil
	}
	return m.onRowClick(n.item)
}

func (m *Model[T]) moveCursor(delta int) {
	if len(m.itemRows) == 0 {
		return
	}
	c := m.cursor + delta
	c = max(0, min(c, len(m.itemRows)-1))
	m.cursor = c
	m.selected = m.rows[m.itemRows[c]].node
	m.clampOffset()
}

func (m *Model[T]) pageSize() int {
	if m.height > 0 {
		return m.height
	}
	return len(m.itemRows)
}

// sync re-resolves the mounted tree and rebuilds the rendered rows.
func (m *Model[T]) sync() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.roots {
		cmds = m.resolve(n, cmds)
	}
	m.rebuild()
	return tea.Batch(cmds...)
}

func (m *Model[T]) resolve(n *node[T], cmds []tea.Cmd) []tea.Cmd {
	st, cmd := m.resolver(n.item, n.expanded)
	n.state = st
	if !n.expanded {
		n.children = nil
		return cmds
	}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if !n.showsChildren() {
		n.children = nil
		return cmds
	}
	n.children = reconcile(n, n.children, st.Data, m.getID, n.depth+1)
	for _, c := range n.children {
		cmds = m.resolve(c, cmds)
	}
	return cmds
}

func (m *Model[T]) rebuild() {
	m.rows = make([]row[T], 0, len(m.rows))
	m.itemRows = make([]int, 0, len(m.itemRows))
	for _, n := range m.roots {
		m.appendRows(n)
	}

	m.cursor = min(m.cursor, max(len(m.itemRows)-1, 0))
	found := false
	for i, line := range m.itemRows {
		if m.rows[line].node == m.selected {
			m.cursor = i
			found = true
			break
		}
	}
	switch {
	case len(m.itemRows) == 0:
		m.selected = nil
	case !found:
		m.selected = m.rows[m.itemRows[m.cursor]].node
	}
	m.clampOffset()
}

func (m *Model[T]) appendRows(n *node[T]) {
	m.itemRows = append(m.itemRows, len(m.rows))
	m.rows = append(m.rows, row[T]{kind: rowItem, node: n})
	if !n.expanded {
		return
	}

	switch {
	case n.state.IsLoading:
		m.rows = append(m.rows, row[T]{kind: rowLoading, node: n})
	case n.state.IsError:
		m.rows = append(m.rows, row[T]{kind: rowError, node: n})
	case len(n.children) == 0:
		m.rows = append(m.rows, row[T]{kind: rowEmpty, node: n})
	default:
		for _, c := range n.children {
			m.appendRows(c)
		}
	}
}

// clampOffset scrolls so the cursor row is inside the visible window.
func (m *Model[T]) clampOffset() {
	if m.height <= 0 || len(m.itemRows) == 0 {
		m.offset = 0
		return
	}
	line := m.itemRows[m.cursor]
	if line < m.offset {
		m.offset = line
	}
	if line >= m.offset+m.height {
		m.offset = line - m.height + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-m.height))
}
