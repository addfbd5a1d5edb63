package bserve

import (
	"sort"
	"strings"
)

// Route binds a (method, normalized path) pair to a handler. Routes are
// created at registration and owned by the route table thereafter.
type Route[V any] struct {
	Path    string
	Method  Method
	Handler Handler[V]
}

// routeTable stores routes partitioned by method: one ordered list per
// concrete method plus the wildcard bucket, which holds routes registered
// against Any and doubles as the fallback on an exact-method miss.
//
// Registration appends in O(1). A one-time prep sorts every bucket
// lexicographically by path, after which lookups binary search and the table
// is read-only, safe for concurrent access from connection goroutines.
type routeTable[V any] struct {
	get    []Route[V]
	post   []Route[V]
	put    []Route[V]
	patch  []Route[V]
	delete []Route[V]
	any    []Route[V]

	prepped bool
}

func (t *routeTable[V]) bucket(m Method) *[]Route[V] {
	switch m {
	case Get:
		return &t.get
	case Post:
		return &t.post
	case Put:
		return &t.put
	case Patch:
		return &t.patch
	case Delete:
		return &t.delete
	default:
		return &t.any
	}
}

func (t *routeTable[V]) add(r Route[V]) {
	r.Path = NormalizePath(r.Path)

	bucket := t.bucket(r.Method)
	*bucket = append(*bucket, r)
}

// prep sorts every bucket by path, enabling binary-search lookup. It runs
// exactly once, before the accept loop starts.
func (t *routeTable[V]) prep() {
	for _, bucket := range []*[]Route[V]{&t.get, &t.post, &t.put, &t.patch, &t.delete, &t.any} {
		routes := *bucket
		sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	}

	t.prepped = true
}

// lookup resolves a (method, path) pair to a handler: first the bucket for
// the exact method, then, unless the request method is itself the wildcard,
// the wildcard bucket.
func (t *routeTable[V]) lookup(m Method, path string) (Handler[V], bool) {
	if r, ok := search(*t.bucket(m), path); ok {
		return r.Handler, true
	}

	if m != Any {
		if r, ok := search(t.any, path); ok {
			return r.Handler, true
		}
	}

	return nil, false
}

func search[V any](routes []Route[V], path string) (Route[V], bool) {
	i := sort.Search(len(routes), func(i int) bool { return routes[i].Path >= path })
	if i < len(routes) && routes[i].Path == path {
		return routes[i], true
	}

	return Route[V]{}, false
}

// Module groups related routes for registration under a shared path prefix.
type Module[V any] interface {
	Mount(b *Block[V])
}

// Block collects the routes of a [Module]. The prefix is applied to every
// added path before normalization.
type Block[V any] struct {
	prefix string
	routes []Route[V]
}

// Add registers a handler function under the block's prefix.
func (b *Block[V]) Add(method Method, path string, h HandlerFunc[V]) {
	b.AddHandler(method, path, h)
}

// AddHandler registers a handler under the block's prefix.
func (b *Block[V]) AddHandler(method Method, path string, h Handler[V]) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	b.routes = append(b.routes, Route[V]{
		Path:    NormalizePath(b.prefix + path),
		Method:  method,
		Handler: h,
	})
}
