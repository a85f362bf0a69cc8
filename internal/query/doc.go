// Package query provides a small keyed query cache for Bubble Tea programs.
//
// A Cache[T] remembers, per key, the last fetched value together with its
// loading and error state. Query is called from a model's Update/View path
// and returns the current State plus, when a fetch has to start, a tea.Cmd
// that performs it off the UI goroutine. The command reports back with a
// ResultMsg that the owning model hands to Cache.Handle.
//
// Every fetch is stamped with a generation number. Results whose generation
// no longer matches the entry (the key was invalidated, cleared, or refetched
// since) are discarded.
//
// A Cache is owned by the Update loop and is not safe for concurrent use.
package query
