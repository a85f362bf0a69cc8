package treetable

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rshade/catalogview/internal/query"
)

type product struct {
	ID   string
	Name string
}

type clickedMsg struct{ id string }

// harness wires a Model to a query cache the way the products page does.
type harness struct {
	t        *testing.T
	cache    *query.Cache[[]product]
	children map[string][]product
	errs     map[string]error
	fetches  map[string]int
	clicks   []string
	model    Model[product]
}

func newHarness(t *testing.T, roots []product, children map[string][]product, errs map[string]error) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		cache:    query.NewCache[[]product]("children", query.Config{}),
		children: children,
		errs:     errs,
		fetches:  map[string]int{},
	}
	h.model = New(Options[product]{
		Columns: []Column[product]{
			{Header: "Product ID", Width: 40, Cell: func(p product) string { return p.ID }},
			{Header: "Name", Width: 20, Cell: func(p product) string { return p.Name }},
		},
		Data:     roots,
		GetID:    func(p product) string { return p.ID },
		Resolver: h.resolve,
		Messages: Messages{
			LoadingChildren: "Loading child products…",
			EmptyChildren:   "No child products found.",
			ErrorChildren: func(err error) string {
				return "Failed to load child products: " + err.Error()
			},
		},
		OnRowClick: func(p product) tea.Cmd {
			return func() tea.Msg { return clickedMsg{id: p.ID} }
		},
	})
	return h
}

func (h *harness) resolve(p product, expanded bool) (ChildrenState[product], tea.Cmd) {
	st, cmd := h.cache.Query(p.ID, expanded, func(context.Context) ([]product, error) {
		h.fetches[p.ID]++
		if err := h.errs[p.ID]; err != nil {
			return nil, err
		}
		return h.children[p.ID], nil
	})
	return ChildrenState[product]{
		Data:      st.Data,
		IsLoading: st.IsLoading,
		IsFetched: st.IsFetched,
		IsError:   st.IsError,
		Err:       st.Err,
	}, cmd
}

// send delivers msg and returns the commands produced, without running them.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	return cmd
}

// settle runs cmd and every command it leads to, feeding results back.
func (h *harness) settle(cmd tea.Cmd) {
	h.t.Helper()
	for _, msg := range collect(cmd) {
		switch msg := msg.(type) {
		case query.ResultMsg[[]product]:
			h.cache.Handle(msg)
			h.settle(h.send(msg))
		case clickedMsg:
			h.clicks = append(h.clicks, msg.id)
		}
	}
}

func (h *harness) press(msg tea.KeyMsg) {
	h.settle(h.send(msg))
}

// selectID moves the cursor to the item row with id.
func (h *harness) selectID(id string) {
	h.t.Helper()
	h.press(tea.KeyMsg{Type: tea.KeyHome})
	for range h.model.Len() {
		if sel, ok := h.model.Selected(); ok && sel.ID == id {
			return
		}
		h.press(tea.KeyMsg{Type: tea.KeyDown})
	}
	sel, _ := h.model.Selected()
	require.Equal(h.t, id, sel.ID, "row %q not visible", id)
}

func (h *harness) toggle(id string) {
	h.selectID(id)
	h.press(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
}

func (h *harness) find(id string) *node[product] {
	for _, r := range h.model.rows {
		if r.kind == rowItem && r.node.id == id {
			return r.node
		}
	}
	return nil
}

// layout describes the rendered rows as "id" for items and "#kind@owner"
// for placeholders.
func (h *harness) layout() []string {
	out := make([]string, 0, len(h.model.rows))
	for _, r := range h.model.rows {
		switch r.kind {
		case rowItem:
			out = append(out, r.node.id)
		case rowLoading:
			out = append(out, "#loading@"+r.node.id)
		case rowError:
			out = append(out, "#error@"+r.node.id)
		case rowEmpty:
			out = append(out, "#empty@"+r.node.id)
		}
	}
	return out
}

// expectLayout fails the test when the visible rows differ from want.
func (h *harness) expectLayout(want ...string) {
	h.t.Helper()
	if diff := cmp.Diff(want, h.layout()); diff != "" {
		h.t.Errorf("row layout mismatch (-want +got):\n%s", diff)
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

var errUpstream = errors.New("upstream unavailable")
