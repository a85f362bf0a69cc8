package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/catalogview/internal/logging"
	listview "github.com/rshade/catalogview/internal/tui/list"
	"github.com/rshade/catalogview/internal/tui/treetable"
)

// Header texts.
const (
	brandName = "ZAFIN"
	pageTitle = "Products"
)

// Default dimensions before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 30

	// appHeaderLines is the header text, its bottom border and margin.
	appHeaderLines = 3
	// appFooterLines is the help line.
	appFooterLines = 1
)

// openDetailMsg is sent by the product tree when a row is activated.
type openDetailMsg struct{ productID string }

func navigate(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// route is one entry of the page history.
type route struct {
	page      Page
	productID string
	title     string
}

// AppOptions configures the app.
type AppOptions struct {
	// IndentWidth is the tree indentation per level. Zero uses the tree default.
	IndentWidth int
	// StaleAfter is how long query results stay fresh.
	StaleAfter time.Duration
	// MarkdownStyle is a glamour style name or path; empty means auto.
	MarkdownStyle string
	Logger        zerolog.Logger
}

// App is the root model: a header, the active page and a help line.
type App struct {
	ctx     context.Context
	s       *session
	opts    AppOptions
	logger  zerolog.Logger
	loading *LoadingState
	help    help.Model
	keys    AppKeyMap

	current route
	history []route

	products ProductsModel
	detail   DetailModel
	reviews  ReviewsModel

	width    int
	height   int
	quitting bool
}

// NewApp creates the app on the products page.
func NewApp(ctx context.Context, client CatalogClient, opts AppOptions) App {
	logger := logging.ComponentLogger(opts.Logger, "tui")
	s := newSession(ctx, client, logger, opts.StaleAfter)
	a := App{
		ctx:     ctx,
		s:       s,
		opts:    opts,
		logger:  logger,
		loading: NewLoadingState(),
		help:    help.New(),
		keys:    DefaultAppKeyMap(),
		current: route{page: PageProducts},
		width:   defaultWidth,
		height:  defaultHeight,
	}
	a.products = newProductsModel(s, opts.IndentWidth)
	a.products.SetSize(a.width, a.pageHeight())
	return a
}

// Init starts the spinner and the roots fetch.
func (a App) Init() tea.Cmd {
	_, cmd := a.s.queryRoots()
	return tea.Batch(a.loading.Init(), cmd)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resizePages()
		return a.updatePage(msg)

	case spinner.TickMsg:
		return a, a.loading.Update(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		msg.Y -= appHeaderLines
		return a.updatePage(msg)

	case openDetailMsg:
		return a.push(route{page: PageDetail, productID: msg.productID})

	}

	if a.s.handle(msg) {
		a.logger.Debug().Str("page", a.current.page.String()).Msg("query result applied")
	}
	return a.updatePage(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	case key.Matches(msg, a.keys.Refresh):
		a.logger.Info().Msg("refreshing catalog data")
		a.s.clear()
		return a.updatePage(msg)
	case key.Matches(msg, a.keys.Back) && a.current.page != PageProducts:
		return a.back()
	case key.Matches(msg, a.keys.Reviews) && a.current.page == PageDetail:
		return a.push(route{page: PageReviews, productID: a.detail.productID, title: a.detail.Title()})
	}
	return a.updatePage(msg)
}

// push opens r and remembers the current page.
func (a App) push(r route) (tea.Model, tea.Cmd) {
	a.logger.Debug().Str("from", a.current.page.String()).Str("to", r.page.String()).
		Str("product_id", r.productID).Msg("navigate")
	a.history = append(a.history, a.current)
	return a.open(r)
}

// back returns to the previous page, or to the products page when there is
// no history.
func (a App) back() (tea.Model, tea.Cmd) {
	prev := route{page: PageProducts}
	if n := len(a.history); n > 0 {
		prev = a.history[n-1]
		a.history = a.history[:n-1]
	}
	return a.open(prev)
}

func (a App) open(r route) (tea.Model, tea.Cmd) {
	a.current = r
	switch r.page {
	case PageDetail:
		a.detail = newDetailModel(a.s, r.productID, a.opts.MarkdownStyle, a.width, a.pageHeight())
	case PageReviews:
		a.reviews = newReviewsModel(a.s, r.productID, r.title, a.opts.MarkdownStyle, a.width, a.pageHeight())
	case PageProducts:
	}
	return a.updatePage(nil)
}

// updatePage forwards msg to the active page.
func (a App) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.current.page {
	case PageProducts:
		a.products, cmd = a.products.Update(msg)
	case PageDetail:
		a.detail, cmd = a.detail.Update(msg)
	case PageReviews:
		a.reviews, cmd = a.reviews.Update(msg)
	}
	return a, cmd
}

func (a *App) resizePages() {
	h := a.pageHeight()
	a.products.SetSize(a.width, h)
	a.detail.SetSize(a.width, h)
	a.reviews.SetSize(a.width, h)
}

func (a App) pageHeight() int {
	return max(a.height-appHeaderLines-appFooterLines, 1)
}

// Page returns the active page.
func (a App) Page() Page {
	return a.current.page
}

// View implements tea.Model.
func (a App) View() string {
	if a.quitting {
		return ""
	}

	header := HeaderBarStyle.Width(a.width).Render(
		BrandStyle.Render(brandName) + "  " + HeaderStyle.Render(pageTitle),
	)

	var body string
	switch a.current.page {
	case PageProducts:
		body = a.products.View(a.loading)
	case PageDetail:
		body = a.detail.View(a.loading)
	case PageReviews:
		body = a.reviews.View(a.loading)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, a.help.View(a.helpKeys()))
}

func (a App) helpKeys() helpKeys {
	h := helpKeys{app: a.keys, page: a.current.page}
	switch a.current.page {
	case PageProducts:
		tk := treetable.DefaultKeyMap()
		if a.products.treeReady {
			tk = a.products.tree.KeyMap()
		}
		h.short = tk.ShortHelp()
		h.full = tk.FullHelp()
	case PageReviews:
		lk := listview.DefaultKeyMap()
		h.short = []key.Binding{lk.Up, lk.Down}
	case PageDetail:
	}
	return h
}
