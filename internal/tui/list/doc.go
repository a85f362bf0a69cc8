// Package listview provides a windowed, selectable list for Bubble Tea views.
//
// Only the rows inside the window (plus a small buffer) are rendered, and the
// window follows the selection. Items render through a caller-supplied
// function, so the same model serves any item type.
package listview
