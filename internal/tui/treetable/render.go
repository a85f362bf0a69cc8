package treetable

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	glyphExpanded  = "▾"
	glyphCollapsed = "▸"
	glyphHidden    = " "

	columnGap       = "  "
	minColumnWidth  = 10
	minPrimaryWidth = 24
	ellipsis        = "…"
)

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	ruleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	placeholderStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	errorRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// View renders the header followed by the visible rows.
func (m Model[T]) View() string {
	var b strings.Builder
	b.WriteString(m.clip(headerStyle.Render(m.headerLine())))
	b.WriteString("\n")
	b.WriteString(m.clip(ruleStyle.Render(strings.Repeat("─", m.totalWidth()))))

	from, to := m.visibleRange()
	for i := from; i < to; i++ {
		b.WriteString("\n")
		b.WriteString(m.clip(m.renderRow(m.rows[i])))
	}
	return b.String()
}

func (m Model[T]) visibleRange() (int, int) {
	if m.height <= 0 {
		return 0, len(m.rows)
	}
	return m.offset, min(m.offset+m.height, len(m.rows))
}

func (m Model[T]) headerLine() string {
	cells := make([]string, len(m.columns))
	for i, col := range m.columns {
		cells[i] = fit(col.Header, m.columnWidth(i))
	}
	return strings.Join(cells, columnGap)
}

func (m Model[T]) renderRow(r row[T]) string {
	switch r.kind {
	case rowLoading:
		return placeholderStyle.Render(m.placeholderLine(r.node, m.messages.LoadingChildren))
	case rowError:
		return errorRowStyle.Render(m.placeholderLine(r.node, m.messages.ErrorChildren(r.node.state.Err)))
	case rowEmpty:
		return placeholderStyle.Render(m.placeholderLine(r.node, m.messages.EmptyChildren))
	}

	line := m.itemLine(r.node)
	if r.node == m.selected {
		return selectedStyle.Render(line)
	}
	return line
}

func (m Model[T]) itemLine(n *node[T]) string {
	cells := make([]string, len(m.columns))
	for i, col := range m.columns {
		if i == 0 {
			cells[i] = fit(m.primaryCell(n), m.columnWidth(0))
			continue
		}
		var value string
		if col.Cell != nil {
			value = col.Cell(n.item)
		}
		cells[i] = fit(value, m.columnWidth(i))
	}
	return strings.Join(cells, columnGap)
}

// primaryCell is the indentation, the expand glyph and the label.
func (m Model[T]) primaryCell(n *node[T]) string {
	glyph := glyphHidden
	switch {
	case !n.toggleVisible():
	case n.expanded:
		glyph = glyphExpanded
	default:
		glyph = glyphCollapsed
	}

	label := n.id
	if len(m.columns) > 0 && m.columns[0].Cell != nil {
		label = m.columns[0].Cell(n.item)
	}
	return strings.Repeat(" ", n.depth*m.indent) + glyph + " " + label
}

// placeholderLine aligns a message with the labels of owner's children.
func (m Model[T]) placeholderLine(owner *node[T], msg string) string {
	pad := strings.Repeat(" ", (owner.depth+1)*m.indent+glyphCells)
	return fit(pad+msg, m.totalWidth())
}

func (m Model[T]) columnWidth(i int) int {
	if i < 0 || i >= len(m.columns) {
		return 0
	}
	col := m.columns[i]
	if col.Width > 0 {
		return col.Width
	}
	floor := minColumnWidth
	if i == 0 {
		floor = minPrimaryWidth
	}
	return max(ansi.StringWidth(col.Header), floor)
}

func (m Model[T]) totalWidth() int {
	total := 0
	for i := range m.columns {
		total += m.columnWidth(i)
	}
	if len(m.columns) > 1 {
		total += (len(m.columns) - 1) * len(columnGap)
	}
	return total
}

func (m Model[T]) clip(line string) string {
	if m.width <= 0 {
		return line
	}
	return ansi.Truncate(line, m.width, "")
}

// fit truncates s to width cells and pads it with spaces.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, ellipsis)
	}
	return s + strings.Repeat(" ", width-ansi.StringWidth(s))
}
