package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/catalogview/internal/api"
	"github.com/rshade/catalogview/internal/format"
	listview "github.com/rshade/catalogview/internal/tui/list"
)

// Reviews page texts.
const (
	msgLoadingReviews = "Loading reviews…"
	msgReviewsFailed  = "Unable to load reviews"
	msgNoReviews      = "No reviews published yet."
	msgReviewsTitle   = " reviews"
	msgReviewsSub     = "Customer impressions and feedback"

	maxReviewListRows = 6
	// reviewsChromeLines is the heading, subtitle, blank line and list/body separator.
	reviewsChromeLines = 4
)

// ReviewsModel is the reviews page: a list of authors and the selected review's body.
type ReviewsModel struct {
	s             *session
	productID     string
	title         string
	markdownStyle string

	state ViewState
	err   error

	list     *listview.VirtualListModel[api.Review]
	stamp    time.Time
	body     viewport.Model
	bodyFor  string
	bodyWide int

	width  int
	height int
}

func newReviewsModel(s *session, productID, title, markdownStyle string, width, height int) ReviewsModel {
	body := viewport.New(width, 0)
	body.KeyMap = viewport.KeyMap{
		HalfPageUp:   key.NewBinding(key.WithKeys("u", "ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("d", "ctrl+d")),
	}
	if strings.TrimSpace(title) == "" {
		title = productID
	}
	m := ReviewsModel{
		s:             s,
		productID:     productID,
		title:         title,
		markdownStyle: markdownStyle,
		state:         ViewStateLoading,
		body:          body,
	}
	m.SetSize(width, height)
	return m
}

// Update queries the reviews, moves the selection and scrolls the body.
func (m ReviewsModel) Update(msg tea.Msg) (ReviewsModel, tea.Cmd) {
	st, cmd := m.s.queryReviews(m.productID)

	switch {
	case st.IsLoading || (!st.IsFetched && !st.IsError):
		m.state = ViewStateLoading
		return m, cmd
	case st.IsError:
		m.state = ViewStateError
		m.err = st.Err
		return m, cmd
	case len(st.Data) == 0:
		m.state = ViewStateEmpty
		return m, cmd
	}

	m.state = ViewStateReady
	switch {
	case m.list == nil:
		m.list = listview.NewVirtualListModel(st.Data, m.listRows(len(st.Data)), m.width, renderReviewLine)
		m.stamp = st.UpdatedAt
	case !st.UpdatedAt.Equal(m.stamp):
		m.list.SetItems(st.Data)
		m.list.SetSize(m.width, m.listRows(len(st.Data)))
		m.stamp = st.UpdatedAt
		m.bodyFor = ""
	}

	m.list.Update(msg)
	m.body.Height = m.bodyHeight()
	m.renderBody()

	var vpCmd tea.Cmd
	m.body, vpCmd = m.body.Update(msg)
	return m, tea.Batch(cmd, vpCmd)
}

// SetSize lays out the list and the body.
func (m *ReviewsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.body.Width = width
	if m.list != nil {
		m.list.SetSize(width, m.listRows(m.list.ItemCount()))
	}
	m.body.Height = m.bodyHeight()
}

func (m ReviewsModel) listRows(n int) int {
	return min(n, maxReviewListRows)
}

func (m ReviewsModel) bodyHeight() int {
	rows := 0
	if m.list != nil {
		rows = m.listRows(m.list.ItemCount())
	}
	return max(m.height-reviewsChromeLines-rows, 1)
}

// renderBody renders the selected review once per selection and width.
func (m *ReviewsModel) renderBody() {
	review, ok := m.list.SelectedItem()
	if !ok {
		return
	}
	if review.ReviewID == m.bodyFor && m.bodyWide == m.body.Width {
		return
	}
	m.body.SetContent(RenderMarkdown(review.ReviewContent, m.body.Width, m.markdownStyle))
	m.body.GotoTop()
	m.bodyFor = review.ReviewID
	m.bodyWide = m.body.Width
}

func renderReviewLine(r api.Review, selected bool) string {
	name := r.ReviewInfo.Name
	if strings.TrimSpace(name) == "" {
		name = "Anonymous"
	}
	parts := []string{name}
	if r.ReviewInfo.Date != "" {
		parts = append(parts, format.Date(r.ReviewInfo.Date))
	}
	if r.ReviewInfo.Email != "" {
		parts = append(parts, r.ReviewInfo.Email)
	}
	line := strings.Join(parts, " · ")
	if selected {
		return SelectedStyle.Render("▸ " + line)
	}
	return "  " + line
}

// View renders the banner for the current state or the reviews.
func (m ReviewsModel) View(loading *LoadingState) string {
	heading := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(m.title+msgReviewsTitle),
		SubtleStyle.Render(msgReviewsSub),
		"",
	)

	var content string
	switch m.state {
	case ViewStateLoading:
		content = BannerStyle.Render(RenderLoading(loading, msgLoadingReviews))
	case ViewStateError:
		content = ErrorBannerStyle.Render(CriticalStyle.Render(msgReviewsFailed) + "\n" + errText(m.err))
	case ViewStateEmpty:
		content = BannerStyle.Render(SubtleStyle.Render(msgNoReviews))
	case ViewStateReady:
		rule := SubtleStyle.Render(strings.Repeat("─", max(m.width, 1)))
		content = lipgloss.JoinVertical(lipgloss.Left, m.list.View(), rule, m.body.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, heading, content)
}
