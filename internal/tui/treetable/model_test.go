package treetable

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

// TestNew_EmptyDataRendersHeaderOnly verifies the table never shows its own empty message.
func TestNew_EmptyDataRendersHeaderOnly(t *testing.T) {
	h := newHarness(t, nil, nil, nil)

	view := h.model.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, headerHeight)
	assert.Contains(t, lines[0], "Product ID")
	assert.Contains(t, lines[0], "Name")
	assert.Equal(t, 0, h.model.Len())
	_, ok := h.model.Selected()
	assert.False(t, ok)
}

// TestNew_RootsStartCollapsedWithoutFetching verifies no fetch happens until a node is expanded.
func TestNew_RootsStartCollapsedWithoutFetching(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}, {ID: "P2"}}, nil, nil)

	h.expectLayout("P1", "P2")
	assert.Empty(t, h.fetches)

	// Unrelated messages re-resolve but never fetch collapsed nodes.
	cmd := h.send(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Nil(t, cmd)
	assert.Empty(t, h.fetches)
}

// TestToggleVisibility checks every combination of the expand control rule.
func TestToggleVisibility(t *testing.T) {
	tests := []struct {
		name     string
		expanded bool
		state    ChildrenState[product]
		want     bool
	}{
		{"unfetched collapsed", false, ChildrenState[product]{}, true},
		{"loading collapsed", false, ChildrenState[product]{IsLoading: true}, true},
		{"fetched empty collapsed", false, ChildrenState[product]{IsFetched: true}, false},
		{"fetched empty expanded", true, ChildrenState[product]{IsFetched: true}, true},
		{"fetched children collapsed", false, ChildrenState[product]{IsFetched: true, Data: []product{{ID: "c"}}}, true},
		{"unfetched expanded", true, ChildrenState[product]{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &node[product]{expanded: tt.expanded, state: tt.state}
			assert.Equal(t, tt.want, n.toggleVisible())
		})
	}
}

// TestToggleVisibility_FailedFetchIsExceptionToEmptyRule pins the one case
// where a collapsed node with a completed, childless fetch keeps its control.
func TestToggleVisibility_FailedFetchIsExceptionToEmptyRule(t *testing.T) {
	empty := &node[product]{state: ChildrenState[product]{IsFetched: true}}
	failed := &node[product]{state: ChildrenState[product]{IsFetched: true, IsError: true, Err: errUpstream}}

	assert.False(t, empty.toggleVisible(), "an empty result hides the control")
	assert.Empty(t, failed.state.Data)
	assert.True(t, failed.toggleVisible(), "a failed fetch keeps the control so the node can be retried")
}

// TestScenario_EmptyChildren expands a node whose fetch returns nothing.
func TestScenario_EmptyChildren(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}}, map[string][]product{"P1": {}}, nil)

	h.selectID("P1")
	cmd := h.send(spaceKey)
	require.NotNil(t, cmd)
	h.expectLayout("P1", "#loading@P1")
	assert.Contains(t, h.model.View(), "Loading child products…")

	h.settle(cmd)
	h.expectLayout("P1", "#empty@P1")
	assert.Contains(t, h.model.View(), "No child products found.")
	assert.Equal(t, 1, h.fetches["P1"])

	// Collapsing a proven leaf hides the control for good.
	h.press(spaceKey)
	p1 := h.find("P1")
	require.NotNil(t, p1)
	assert.False(t, p1.expanded)
	assert.False(t, p1.toggleVisible())
	assert.True(t, strings.HasPrefix(h.model.primaryCell(p1), glyphHidden+" "))

	h.press(spaceKey)
	assert.False(t, h.find("P1").expanded, "toggle on a leaf is a no-op")
	h.expectLayout("P1")
	assert.Equal(t, 1, h.fetches["P1"])
}

// TestScenario_SiblingsAreIndependent expands two siblings with different outcomes.
func TestScenario_SiblingsAreIndependent(t *testing.T) {
	h := newHarness(t,
		[]product{{ID: "P1"}, {ID: "P2"}},
		map[string][]product{"P1": {{ID: "P1-A"}}, "P2": {}},
		nil,
	)

	h.toggle("P1")
	assert.Equal(t, 1, h.fetches["P1"])
	assert.Zero(t, h.fetches["P2"], "expanding P1 must not fetch P2")

	h.toggle("P2")
	h.expectLayout("P1", "P1-A", "P2", "#empty@P2")
	assert.Equal(t, 1, h.find("P1-A").depth)

	p2Before := h.find("P2").state
	h.toggle("P1")
	h.expectLayout("P1", "P2", "#empty@P2")
	assert.Equal(t, p2Before, h.find("P2").state)
	assert.True(t, h.find("P2").expanded)
}

// TestScenario_ErrorRetriesOnReexpand verifies the error row and the retry
// cycle, which depends on a failed node keeping its expand control.
func TestScenario_ErrorRetriesOnReexpand(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}, {ID: "P2"}}, nil, map[string]error{"P1": errUpstream})

	h.toggle("P1")
	h.expectLayout("P1", "#error@P1", "P2")
	assert.Contains(t, h.model.View(), "Failed to load child products: upstream unavailable")
	assert.Equal(t, 1, h.fetches["P1"])

	// Other keys do not retry.
	h.press(tea.KeyMsg{Type: tea.KeyDown})
	h.press(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, h.fetches["P1"])

	h.toggle("P1")
	h.expectLayout("P1", "P2")
	assert.True(t, h.find("P1").toggleVisible(), "a failed node can be expanded again")

	delete(h.errs, "P1")
	h.children = map[string][]product{"P1": {{ID: "P1-A"}}}
	h.selectID("P1")
	cmd := h.send(spaceKey)
	h.expectLayout("P1", "#loading@P1", "P2")
	h.settle(cmd)
	assert.Equal(t, 2, h.fetches["P1"])
	h.expectLayout("P1", "P1-A", "P2")
}

// TestScenario_ThreeLevelIndentation walks a chain and checks cumulative indentation.
func TestScenario_ThreeLevelIndentation(t *testing.T) {
	h := newHarness(t,
		[]product{{ID: "P1"}},
		map[string][]product{
			"P1":     {{ID: "P1-A"}},
			"P1-A":   {{ID: "P1-A-1"}},
			"P1-A-1": {},
		},
		nil,
	)

	h.toggle("P1")
	h.toggle("P1-A")
	h.toggle("P1-A-1")
	h.expectLayout("P1", "P1-A", "P1-A-1", "#empty@P1-A-1")

	for depth, id := range []string{"P1", "P1-A", "P1-A-1"} {
		n := h.find(id)
		require.NotNil(t, n)
		assert.Equal(t, depth, n.depth)
		indent := strings.Repeat(" ", depth*DefaultIndentUnit)
		assert.Equal(t, indent+glyphExpanded+" "+id, h.model.primaryCell(n))
		assert.Equal(t, 1, h.fetches[id], "fetched under its own id")
	}
}

// TestCollapseExpand_ReproducesChildren verifies collapse and re-expand give the same rows.
func TestCollapseExpand_ReproducesChildren(t *testing.T) {
	h := newHarness(t,
		[]product{{ID: "P1"}},
		map[string][]product{"P1": {{ID: "P1-B"}, {ID: "P1-A"}, {ID: "P1-C"}}},
		nil,
	)

	h.toggle("P1")
	first := h.layout()
	h.toggle("P1")
	h.toggle("P1")
	assert.Equal(t, first, h.layout())
	assert.Equal(t, []string{"P1", "P1-B", "P1-A", "P1-C"}, first, "resolver order kept")
	assert.Equal(t, 1, h.fetches["P1"], "cached result reused")
}

// TestCollapse_ResetsDescendantState verifies re-expanded children start collapsed.
func TestCollapse_ResetsDescendantState(t *testing.T) {
	h := newHarness(t,
		[]product{{ID: "P1"}},
		map[string][]product{"P1": {{ID: "P1-A"}}, "P1-A": {{ID: "P1-A-1"}}},
		nil,
	)

	h.toggle("P1")
	h.toggle("P1-A")
	h.expectLayout("P1", "P1-A", "P1-A-1")

	h.toggle("P1")
	h.toggle("P1")
	h.expectLayout("P1", "P1-A")
	assert.False(t, h.find("P1-A").expanded)
}

// TestLateResult_AfterCollapseIsNotRendered verifies a response for a collapsed node is ignored by the view.
func TestLateResult_AfterCollapseIsNotRendered(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}}, map[string][]product{"P1": {{ID: "P1-A"}}}, nil)

	h.selectID("P1")
	pending := h.send(spaceKey)
	require.NotNil(t, pending)
	h.press(spaceKey)
	h.expectLayout("P1")

	h.settle(pending)
	h.expectLayout("P1")
	p1 := h.find("P1")
	assert.False(t, p1.expanded)
	assert.True(t, p1.toggleVisible())
	assert.True(t, strings.HasPrefix(h.model.primaryCell(p1), glyphCollapsed))
}

// TestRowClick_IsolatedFromToggle verifies activation and toggling never trigger each other.
func TestRowClick_IsolatedFromToggle(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}}, map[string][]product{"P1": {{ID: "P1-A"}}}, nil)

	h.selectID("P1")
	h.press(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"P1"}, h.clicks)
	assert.False(t, h.find("P1").expanded)
	assert.Empty(t, h.fetches)

	h.press(spaceKey)
	assert.True(t, h.find("P1").expanded)
	assert.Equal(t, []string{"P1"}, h.clicks)

	h.selectID("P1-A")
	h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	assert.Equal(t, []string{"P1", "P1-A"}, h.clicks)
	assert.False(t, h.find("P1-A").expanded)
}

// TestMouse_GlyphTogglesLabelActivates verifies the two click targets of the primary cell.
func TestMouse_GlyphTogglesLabelActivates(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}, {ID: "P2"}}, map[string][]product{"P1": {{ID: "P1-A"}}}, nil)
	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	// Row 0 is at y == headerHeight; its glyph is at x == 0.
	h.settle(h.send(click(0, headerHeight)))
	assert.True(t, h.find("P1").expanded)
	assert.Empty(t, h.clicks)
	h.expectLayout("P1", "P1-A", "P2")

	// Label of P1-A at depth 1.
	h.settle(h.send(click(DefaultIndentUnit+glyphCells+1, headerHeight+1)))
	assert.Equal(t, []string{"P1-A"}, h.clicks)
	assert.False(t, h.find("P1-A").expanded)
	sel, _ := h.model.Selected()
	assert.Equal(t, "P1-A", sel.ID)

	// Header and out-of-range clicks are ignored.
	assert.Nil(t, h.send(click(0, 0)))
	assert.Nil(t, h.send(click(0, headerHeight+10)))
	assert.Equal(t, []string{"P1-A"}, h.clicks)
}

// TestKeys_LeftCollapsesThenJumpsToParent verifies left-arrow behavior.
func TestKeys_LeftCollapsesThenJumpsToParent(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}}, map[string][]product{"P1": {{ID: "P1-A"}}}, nil)

	h.selectID("P1")
	h.press(tea.KeyMsg{Type: tea.KeyRight})
	h.selectID("P1-A")

	h.press(tea.KeyMsg{Type: tea.KeyLeft})
	sel, _ := h.model.Selected()
	assert.Equal(t, "P1", sel.ID)
	assert.True(t, h.find("P1").expanded)

	h.press(tea.KeyMsg{Type: tea.KeyLeft})
	assert.False(t, h.find("P1").expanded)
	h.expectLayout("P1")
}

// TestCursor_SkipsPlaceholders verifies placeholder rows are never selected.
func TestCursor_SkipsPlaceholders(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}, {ID: "P2"}}, map[string][]product{"P1": {}}, nil)

	h.toggle("P1")
	h.expectLayout("P1", "#empty@P1", "P2")

	h.selectID("P1")
	h.press(tea.KeyMsg{Type: tea.KeyDown})
	sel, _ := h.model.Selected()
	assert.Equal(t, "P2", sel.ID)

	h.press(tea.KeyMsg{Type: tea.KeyDown})
	sel, _ = h.model.Selected()
	assert.Equal(t, "P2", sel.ID, "cursor stops at the last item")
}

// TestScrolling_KeepsCursorVisible verifies the window follows the cursor.
func TestScrolling_KeepsCursorVisible(t *testing.T) {
	var roots []product
	for _, id := range []string{"A", "B", "C", "D", "E", "F"} {
		roots = append(roots, product{ID: id})
	}
	h := newHarness(t, roots, nil, nil)
	h.model.SetSize(80, 3)

	lines := strings.Split(h.model.View(), "\n")
	assert.Len(t, lines, headerHeight+3)

	h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	sel, _ := h.model.Selected()
	assert.Equal(t, "F", sel.ID)
	view := h.model.View()
	assert.Contains(t, view, glyphCollapsed+" F")
	assert.NotContains(t, view, glyphCollapsed+" A")
	assert.Equal(t, 3, h.model.offset)
}

// TestSetData_KeepsExpansionForSurvivingRoots verifies reconciliation by id.
func TestSetData_KeepsExpansionForSurvivingRoots(t *testing.T) {
	h := newHarness(t, []product{{ID: "P1"}, {ID: "P2"}}, map[string][]product{"P1": {{ID: "P1-A"}}}, nil)
	h.toggle("P1")

	var cmd tea.Cmd
	h.model, cmd = h.model.SetData([]product{{ID: "P3"}, {ID: "P1", Name: "renamed"}})
	h.settle(cmd)
	h.expectLayout("P3", "P1", "P1-A")
	assert.Equal(t, "renamed", h.find("P1").item.Name)
}

// TestView_Truncation verifies cells are fit to their column width.
func TestView_Truncation(t *testing.T) {
	assert.Equal(t, "abc  ", fit("abc", 5))
	assert.Equal(t, "abcd…", fit("abcdefgh", 5))
	assert.Equal(t, "", fit("abc", 0))
}

// TestMessages_Defaults verifies default placeholder texts.
func TestMessages_Defaults(t *testing.T) {
	m := Messages{}.withDefaults()
	assert.Equal(t, DefaultLoadingChildren, m.LoadingChildren)
	assert.Equal(t, DefaultEmptyChildren, m.EmptyChildren)
	assert.Equal(t, DefaultErrorChildren, m.ErrorChildren(errUpstream))
}

// TestResolver_CommandIgnoredWhileCollapsed verifies a misbehaving resolver cannot fetch for collapsed nodes.
func TestResolver_CommandIgnoredWhileCollapsed(t *testing.T) {
	fired := 0
	m := New(Options[product]{
		Data:  []product{{ID: "P1"}},
		GetID: func(p product) string { return p.ID },
		Resolver: func(product, bool) (ChildrenState[product], tea.Cmd) {
			return ChildrenState[product]{}, func() tea.Msg { fired++; return nil }
		},
	})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, cmd)
	assert.Zero(t, fired)
}

// TestResolver_ZeroStateTreatedAsEmpty verifies an expanded node with no resolver data shows the empty row.
func TestResolver_ZeroStateTreatedAsEmpty(t *testing.T) {
	m := New(Options[product]{
		Columns: []Column[product]{{Header: "ID", Cell: func(p product) string { return p.ID }}},
		Data:    []product{{ID: "P1"}},
		GetID:   func(p product) string { return p.ID },
		Resolver: func(product, bool) (ChildrenState[product], tea.Cmd) {
			return ChildrenState[product]{}, nil
		},
	})
	m, _ = m.Update(spaceKey)
	require.Len(t, m.rows, 2)
	assert.Equal(t, rowEmpty, m.rows[1].kind)
	assert.Contains(t, m.View(), DefaultEmptyChildren)
}
