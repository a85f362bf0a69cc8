package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/catalogview/internal/api"
	"github.com/rshade/catalogview/internal/format"
)

// Detail page texts.
const (
	msgLoadingDetail = "Loading product detail…"
	msgDetailFailed  = "Unable to load product detail"
	msgNotFound      = "Product not found"
	msgViewReviews   = "View reviews"
	msgLastUpdated   = "Last updated on "
)

// DetailModel is the product detail page.
type DetailModel struct {
	s             *session
	productID     string
	markdownStyle string

	state  ViewState
	err    error
	detail *api.ProductDetail

	viewport     viewport.Model
	renderedFrom *api.ProductDetail
	renderWidth  int
}

func newDetailModel(s *session, productID, markdownStyle string, width, height int) DetailModel {
	return DetailModel{
		s:             s,
		productID:     productID,
		markdownStyle: markdownStyle,
		state:         ViewStateLoading,
		viewport:      viewport.New(width, height),
	}
}

// Title is the product name, or its id until the detail has loaded.
func (m DetailModel) Title() string {
	if m.detail != nil && strings.TrimSpace(m.detail.Name) != "" {
		return m.detail.Name
	}
	return m.productID
}

// Update queries the detail and scrolls the rendered page.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	st, cmd := m.s.queryDetail(m.productID)

	switch {
	case st.IsLoading || (!st.IsFetched && !st.IsError):
		m.state = ViewStateLoading
		return m, cmd
	case st.IsError:
		m.state = ViewStateError
		m.err = st.Err
		return m, cmd
	case st.Data == nil:
		m.state = ViewStateNotFound
		return m, cmd
	}

	m.state = ViewStateReady
	m.detail = st.Data
	if m.renderedFrom != m.detail || m.renderWidth != m.viewport.Width {
		m.viewport.SetContent(m.renderContent())
		m.renderedFrom = m.detail
		m.renderWidth = m.viewport.Width
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, vpCmd)
}

// SetSize resizes the scrollable area.
func (m *DetailModel) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}

func (m DetailModel) renderContent() string {
	d := m.detail
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.Title()))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(d.ProductID))
	b.WriteString("\n\n")

	b.WriteString(LabelStyle.Render("Price: "))
	b.WriteString(ValueStyle.Render(format.Currency(d.Price, d.Currency)))
	b.WriteString("\n")
	if d.LastUpdated != "" {
		b.WriteString(LabelStyle.Render(msgLastUpdated))
		b.WriteString(ValueStyle.Render(format.Date(d.LastUpdated)))
		b.WriteString("\n")
	}

	if overview := RenderMarkdown(d.Overview, m.viewport.Width, m.markdownStyle); overview != "" {
		b.WriteString("\n")
		b.WriteString(overview)
		b.WriteString("\n")
	}

	if len(d.Categories) > 0 {
		chips := make([]string, 0, len(d.Categories))
		for _, c := range d.Categories {
			chips = append(chips, ChipStyle.Render(c))
		}
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Categories"))
		b.WriteString("\n")
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render("[r] " + msgViewReviews))
	return b.String()
}

// View renders the banner for the current state or the detail.
func (m DetailModel) View(loading *LoadingState) string {
	switch m.state {
	case ViewStateLoading:
		return BannerStyle.Render(RenderLoading(loading, msgLoadingDetail))
	case ViewStateError:
		return ErrorBannerStyle.Render(CriticalStyle.Render(msgDetailFailed) + "\n" + errText(m.err))
	case ViewStateNotFound:
		return BannerStyle.Render(WarningStyle.Render(msgNotFound))
	case ViewStateReady:
		return m.viewport.View()
	default:
		return ""
	}
}
