// Package treetable renders a hierarchical table whose children are loaded
// on demand.
//
// Callers supply the already-fetched root items, the columns, an id accessor
// and a ChildrenResolver. The model owns the expanded flag of every visible
// node; the resolver owns fetching and caching. After every message the model
// asks the resolver for the state of each mounted node and batches any fetch
// commands it returns, so a node's subtree shows a loading, error or empty
// placeholder until its children arrive.
//
// The model never shows a "no roots" message. Callers decide what to render
// when Data is empty.
package treetable
