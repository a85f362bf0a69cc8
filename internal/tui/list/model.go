package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultBufferSize is the number of extra rows rendered above/below the window.
const defaultBufferSize = 2

// halfViewportDivisor is used to centre the selection in the window.
const halfViewportDivisor = 2

// RenderFunc renders one item. selected reports whether it has the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// KeyMap holds the list navigation bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

// DefaultKeyMap returns arrow, page and vim-style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	}
}

// VirtualListModel renders a window of items around the selection.
type VirtualListModel[T any] struct {
	items      []T
	renderFunc RenderFunc[T]
	keys       KeyMap

	// selected is the index of the item under the cursor.
	selected int

	// visibleFrom and visibleTo bound the window (to is exclusive).
	visibleFrom int
	visibleTo   int

	height     int
	width      int
	bufferSize int
}

// NewVirtualListModel creates a list showing height rows.
func NewVirtualListModel[T any](items []T, height, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:      items,
		renderFunc: renderFunc,
		keys:       DefaultKeyMap(),
		height:     height,
		width:      width,
		bufferSize: defaultBufferSize,
	}
	m.updateVisibleRange()
	return m
}

// Update handles navigation keys. It reports whether the selection moved.
func (m *VirtualListModel[T]) Update(msg tea.Msg) bool {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return false
	}

	before := m.selected
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.SetSelected(m.selected - 1)
	case key.Matches(keyMsg, m.keys.Down):
		m.SetSelected(m.selected + 1)
	case key.Matches(keyMsg, m.keys.PageUp):
		m.SetSelected(m.selected - max(m.height, 1))
	case key.Matches(keyMsg, m.keys.PageDown):
		m.SetSelected(m.selected + max(m.height, 1))
	case key.Matches(keyMsg, m.keys.Home):
		m.SetSelected(0)
	case key.Matches(keyMsg, m.keys.End):
		m.SetSelected(len(m.items) - 1)
	}
	return m.selected != before
}

// SetItems replaces the items, keeping the selection index when possible.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetSize sets the window height and width.
func (m *VirtualListModel[T]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.updateVisibleRange()
}

// updateVisibleRange centres the window on the selection, clamped to the ends.
func (m *VirtualListModel[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom = 0
		m.visibleTo = 0
		return
	}

	half := m.height / halfViewportDivisor
	from := m.selected - half
	to := from + m.height

	if from < 0 {
		from = 0
		to = m.height
	}
	if to > len(m.items) {
		to = len(m.items)
		from = max(to-m.height, 0)
	}

	m.visibleFrom = from
	m.visibleTo = to
}

// View renders the window plus buffer rows.
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	from := max(m.visibleFrom-m.bufferSize, 0)
	to := min(m.visibleTo+m.bufferSize, len(m.items))

	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		lines = append(lines, m.renderFunc(m.items[i], i == m.selected))
	}
	return strings.Join(lines, "\n")
}

// ItemCount returns the number of items.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the selected index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SelectedItem returns the selected item, if any.
func (m *VirtualListModel[T]) SelectedItem() (T, bool) {
	if len(m.items) == 0 {
		var zero T
		return zero, false
	}
	return m.items[m.selected], true
}

// SetSelected moves the selection, clamped to the item range.
func (m *VirtualListModel[T]) SetSelected(index int) {
	switch {
	case len(m.items) == 0:
		m.selected = 0
	case index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.updateVisibleRange()
}

// VisibleFrom returns the first index in the window.
func (m *VirtualListModel[T]) VisibleFrom() int {
	return m.visibleFrom
}

// VisibleTo returns the index after the last one in the window.
func (m *VirtualListModel[T]) VisibleTo() int {
	return m.visibleTo
}

// KeyMap returns the navigation bindings.
func (m *VirtualListModel[T]) KeyMap() KeyMap {
	return m.keys
}
