package tui

// ViewState is the display state of a page.
type ViewState int

const (
	// ViewStateLoading shows a spinner while the page's data is fetched.
	ViewStateLoading ViewState = iota
	// ViewStateError shows the fetch error.
	ViewStateError
	// ViewStateEmpty shows the page's empty banner.
	ViewStateEmpty
	// ViewStateNotFound shows the not-found banner.
	ViewStateNotFound
	// ViewStateReady shows the page content.
	ViewStateReady
)

// String returns a lowercase name for logs.
func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateError:
		return "error"
	case ViewStateEmpty:
		return "empty"
	case ViewStateNotFound:
		return "not_found"
	case ViewStateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Page identifies a screen of the app.
type Page int

const (
	PageProducts Page = iota
	PageDetail
	PageReviews
)

func (p Page) String() string {
	switch p {
	case PageProducts:
		return "products"
	case PageDetail:
		return "detail"
	case PageReviews:
		return "reviews"
	default:
		return "unknown"
	}
}
