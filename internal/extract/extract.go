// Package extract flattens a collection's nested folder/request tree into a
// list of normalized endpoint descriptors.
package extract

import (
	"net/url"
	"strings"

	"github.com/studiowebux/postdash/internal/types"
)

// Kind classifies a tree node once at ingestion so traversal code can
// switch exhaustively instead of probing optional fields.
type Kind int

const (
	// KindEmpty is a node with neither a request nor children
	KindEmpty Kind = iota
	// KindFolder is a node that only groups children
	KindFolder
	// KindRequestLeaf is a node carrying a request definition. It may
	// still have children; they are traversed independently.
	KindRequestLeaf
)

// Classify returns the node kind for an item
func Classify(item types.Item) Kind {
	if item.Request != nil {
		return KindRequestLeaf
	}
	if len(item.Items) > 0 {
		return KindFolder
	}
	return KindEmpty
}

// Endpoint is the normalized projection of one request leaf
type Endpoint struct {
	// ID is the remote item id when the API provides one; it keeps two
	// same-path/method requests distinct in the selection key.
	ID             string
	Name           string
	Method         string
	RawURL         string
	NormalizedPath string
	Request        *types.Request
	Responses      []types.Response
}

// Endpoints walks items depth-first in pre-order and returns one descriptor
// per request-bearing node. A node that carries both a request and children
// contributes its own endpoint and its descendants' endpoints. The walk is
// total: missing fields are treated as absence, never as an error, and the
// output order is deterministic for a given tree.
func Endpoints(items []types.Item) []Endpoint {
	var out []Endpoint
	for _, item := range items {
		if item.Request != nil {
			out = append(out, fromLeaf(item))
		}
		if len(item.Items) > 0 {
			out = append(out, Endpoints(item.Items)...)
		}
	}
	return out
}

// Count returns the number of request-bearing nodes reachable via item edges
func Count(items []types.Item) int {
	n := 0
	for _, item := range items {
		if item.Request != nil {
			n++
		}
		n += Count(item.Items)
	}
	return n
}

func fromLeaf(item types.Item) Endpoint {
	req := item.Request

	method := req.Method
	if method == "" {
		method = "GET"
	}

	return Endpoint{
		ID:             item.ID,
		Name:           item.Name,
		Method:         method,
		RawURL:         req.URL.Raw,
		NormalizedPath: NormalizePath(req.URL.Raw),
		Request:        req,
		Responses:      item.Responses,
	}
}

// NormalizePath reduces a raw URL to its path component. A URL containing
// an unresolved {{variable}} placeholder is returned verbatim, since the
// placeholder is typically the environment base URL and worth keeping
// visible. A URL that cannot be parsed as an absolute URL is also returned
// unchanged. This function never fails and is idempotent on templated input.
func NormalizePath(raw string) string {
	if strings.Contains(raw, "{{") {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return raw
	}

	if u.Path == "" {
		return "/"
	}
	return u.Path
}
