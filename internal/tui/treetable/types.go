package treetable

import (
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultIndentUnit is the indentation, in cells, added per depth level.
const DefaultIndentUnit = 2

// Default placeholder texts.
const (
	DefaultLoadingChildren = "Loading…"
	DefaultEmptyChildren   = "No items found."
	DefaultErrorChildren   = "Failed to load data."
)

// Column describes one table column. Column 0 is the primary column and also
// carries the indentation and the expand control.
type Column[T any] struct {
	Header string
	// Width in cells. Zero uses the header width, with a floor of minColumnWidth.
	Width int
	Cell  func(item T) string
}

// ChildrenState is the fetch state of one node's children.
type ChildrenState[T any] struct {
	Data      []T
	IsLoading bool
	// IsFetched is true once a request has completed, successfully or not.
	IsFetched bool
	IsError   bool
	Err       error
}

// ChildrenResolver reports the children state for item.
//
// The returned command, when non-nil, starts a fetch and must only be returned
// when expanded is true. While collapsed the resolver may still return cached
// data so the model can tell a leaf from an unexplored node. Repeated calls
// for the same item must not start duplicate fetches.
type ChildrenResolver[T any] func(item T, expanded bool) (ChildrenState[T], tea.Cmd)

// Messages overrides the placeholder rows.
type Messages struct {
	LoadingChildren string
	EmptyChildren   string
	ErrorChildren   func(err error) string
}

// Options configures a Model.
type Options[T any] struct {
	Columns  []Column[T]
	Data     []T
	GetID    func(item T) string
	Resolver ChildrenResolver[T]

	// IndentUnit defaults to DefaultIndentUnit.
	IndentUnit int
	Messages   Messages

	// OnRowClick is invoked when a row's label is activated. It never fires on toggle.
	OnRowClick func(item T) tea.Cmd

	// Height is the number of body rows shown below the header. Zero shows all rows.
	Height int
	Width  int
	KeyMap KeyMap
}

func (m Messages) withDefaults() Messages {
	if m.LoadingChildren == "" {
		m.LoadingChildren = DefaultLoadingChildren
	}
	if m.EmptyChildren == "" {
		m.EmptyChildren = DefaultEmptyChildren
	}
	if m.ErrorChildren == nil {
		m.ErrorChildren = func(error) string { return DefaultErrorChildren }
	}
	return m
}
