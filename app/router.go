package app

import (
	"fmt"
	"regexp"

	"github.com/signet-one/signet"
	"github.com/signet-one/signet/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/\-]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]signet.Handler
}

var _ signet.Registry = (*Router)(nil)
var _ signet.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]signet.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. It panics if
// another handler was already registered there, or on a malformed
// path, as this is a configuration error that should abort startup.
func (r *Router) Handle(path string, h signet.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("Illegal route: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// If no path is found, returns a noSuchPathHandler.
// This allows us to always obtain a Handler for any path, and
// makes the "not found" case just another error to return.
func (r *Router) Handler(path string) signet.Handler {
	h, ok := r.routes[path]
	if !ok {
		return noSuchPathHandler{path}
	}
	return h
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx signet.Context, store signet.KVStore, tx signet.Tx) (*signet.CheckResult, error) {
	path := signet.GetPath(tx)
	h := r.Handler(path)
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx signet.Context, store signet.KVStore, tx signet.Tx) (*signet.DeliverResult, error) {
	path := signet.GetPath(tx)
	h := r.Handler(path)
	return h.Deliver(ctx, store, tx)
}

// noSuchPathHandler always returns ErrNotFound
type noSuchPathHandler struct {
	path string
}

var _ signet.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(ctx signet.Context, store signet.KVStore, tx signet.Tx) (*signet.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", h.path)
}

func (h noSuchPathHandler) Deliver(ctx signet.Context, store signet.KVStore, tx signet.Tx) (*signet.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", h.path)
}
