package treetable

// node is one mounted item. Its expanded flag lives here and dies with it:
// collapsing a parent drops its child nodes.
type node[T any] struct {
	item     T
	id       string
	depth    int
	expanded bool
	parent   *node[T]
	state    ChildrenState[T]
	children []*node[T]
}

// toggleVisible reports whether the expand control is shown. The rule is that
// a collapsed node whose completed fetch returned no children loses it.
//
// Deliberate exception: a failed fetch also completes with no children, yet
// the control stays. Hiding it would leave no way to expand the node again,
// and re-expanding is how an error is retried.
func (n *node[T]) toggleVisible() bool {
	return n.expanded || !n.state.IsFetched || n.state.IsError || len(n.state.Data) > 0
}

// showsChildren reports whether the node's children replace its placeholder.
func (n *node[T]) showsChildren() bool {
	return n.expanded && !n.state.IsLoading && !n.state.IsError && len(n.state.Data) > 0
}

// reconcile builds the child list for items, reusing existing nodes with the
// same id so their expansion state survives a refresh.
func reconcile[T any](parent *node[T], existing []*node[T], items []T, getID func(T) string, depth int) []*node[T] {
	byID := make(map[string]*node[T], len(existing))
	for _, n := range existing {
		byID[n.id] = n
	}

	out := make([]*node[T], 0, len(items))
	for _, item := range items {
		id := getID(item)
		n, ok := byID[id]
		if ok {
			delete(byID, id)
			n.item = item
			n.depth = depth
			n.parent = parent
		} else {
			n = &node[T]{item: item, id: id, depth: depth, parent: parent}
		}
		out = append(out, n)
	}
	return out
}
