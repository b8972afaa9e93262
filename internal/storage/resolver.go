package storage

import "strings"

// Resolver maps stored object keys to publicly fetchable URLs. Keys that are
// already absolute URLs pass through untouched so externally hosted images
// keep working.
type Resolver struct {
	baseURL string
}

// NewResolver creates a Resolver rooted at the public base URL.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL resolves a storage key to a fetchable URL. Empty keys resolve to "".
func (r *Resolver) URL(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	if r == nil || r.baseURL == "" {
		return key
	}
	return r.baseURL + "/" + strings.TrimLeft(key, "/")
}
