package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/catalogview/internal/api"
	"github.com/rshade/catalogview/internal/format"
	"github.com/rshade/catalogview/internal/tui/treetable"
)

type childrenState = treetable.ChildrenState[api.Product]

// Product tree texts.
const (
	msgLoadingProducts    = "Loading products…"
	msgFailedProducts     = "Failed to load products: "
	msgNoProducts         = "No products available yet."
	msgLoadingChildren    = "Loading child products…"
	msgNoChildren         = "No child products found."
	msgFailedChildren     = "Failed to load child products: "
	productIDColumnWidth  = 36
	productNameWidth      = 32
	availableFromColWidth = 16

	// treetableHeaderLines is the tree's column header and rule.
	treetableHeaderLines = 2
)

// ProductsModel is the product tree page.
type ProductsModel struct {
	s      *session
	indent int

	state ViewState
	err   error

	tree       treetable.Model[api.Product]
	treeReady  bool
	rootsStamp time.Time

	width  int
	height int
}

func newProductsModel(s *session, indent int) ProductsModel {
	return ProductsModel{s: s, indent: indent, state: ViewStateLoading}
}

// Update queries the roots, keeps the tree in step with them and forwards
// msg to the tree once it exists.
func (m ProductsModel) Update(msg tea.Msg) (ProductsModel, tea.Cmd) {
	st, rootsCmd := m.s.queryRoots()

	switch {
	case st.IsLoading || (!st.IsFetched && !st.IsError):
		m.state = ViewStateLoading
		return m, rootsCmd
	case st.IsError:
		m.state = ViewStateError
		m.err = st.Err
		return m, rootsCmd
	case len(st.Data) == 0:
		m.state = ViewStateEmpty
		return m, rootsCmd
	}

	m.state = ViewStateReady
	var cmds []tea.Cmd
	cmds = append(cmds, rootsCmd)

	switch {
	case !m.treeReady:
		m.tree = m.newTree(st.Data)
		m.treeReady = true
		m.rootsStamp = st.UpdatedAt
	case !st.UpdatedAt.Equal(m.rootsStamp):
		var cmd tea.Cmd
		m.tree, cmd = m.tree.SetData(st.Data)
		m.rootsStamp = st.UpdatedAt
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.tree, cmd = m.tree.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// SetSize sizes the tree to the space below the app header.
func (m *ProductsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.treeReady {
		m.tree.SetSize(width, m.treeBodyHeight())
	}
}

func (m ProductsModel) treeBodyHeight() int {
	return max(m.height-treetableHeaderLines, 1)
}

func (m ProductsModel) newTree(roots []api.Product) treetable.Model[api.Product] {
	return treetable.New(treetable.Options[api.Product]{
		Columns: []treetable.Column[api.Product]{
			{Header: "Product ID", Width: productIDColumnWidth, Cell: func(p api.Product) string { return p.ProductID }},
			{Header: "Name", Width: productNameWidth, Cell: func(p api.Product) string { return p.Name }},
			{Header: "Available From", Width: availableFromColWidth, Cell: func(p api.Product) string {
				return format.Date(p.AvailableFrom)
			}},
		},
		Data:       roots,
		GetID:      func(p api.Product) string { return p.ProductID },
		Resolver:   m.s.childrenResolver,
		IndentUnit: m.indent,
		Messages: treetable.Messages{
			LoadingChildren: msgLoadingChildren,
			EmptyChildren:   msgNoChildren,
			ErrorChildren: func(err error) string {
				return msgFailedChildren + err.Error()
			},
		},
		OnRowClick: func(p api.Product) tea.Cmd {
			return navigate(openDetailMsg{productID: p.ProductID})
		},
		Width:  m.width,
		Height: m.treeBodyHeight(),
	})
}

// View renders the banner for the current state or the tree.
func (m ProductsModel) View(loading *LoadingState) string {
	switch m.state {
	case ViewStateLoading:
		return BannerStyle.Render(RenderLoading(loading, msgLoadingProducts))
	case ViewStateError:
		return ErrorBannerStyle.Render(CriticalStyle.Render(msgFailedProducts + errText(m.err)))
	case ViewStateEmpty:
		return BannerStyle.Render(SubtleStyle.Render(msgNoProducts))
	case ViewStateReady:
		return m.tree.View()
	default:
		return ""
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
