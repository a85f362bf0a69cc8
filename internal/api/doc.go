// Package api is the HTTP client for the catalog service.
//
// It issues JSON GET requests against the configured base URL, attaching a
// bearer token when one is stored, and exposes typed fetchers for products,
// product details and reviews. Identical in-flight GETs are coalesced, and
// successful bodies may be persisted to the on-disk response cache.
package api
