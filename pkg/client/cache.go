package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/gregjones/httpcache"
)

// cachingTransport revalidates GET responses through httpcache. Every request
// is sent as "Cache-Control: max-age=0", so the server is always asked; a 304
// answer reuses the stored body. Entries are kept per Authorization header so
// a response is only ever replayed to the credential that fetched it.
type cachingTransport struct {
	base http.RoundTripper

	mu     sync.Mutex
	scopes map[string]*httpcache.Transport
}

func newCachingTransport(base http.RoundTripper) *cachingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &cachingTransport{base: base, scopes: make(map[string]*httpcache.Transport)}
}

type bypassCacheKey struct{}

// withoutCache marks a request to skip the cache entirely.
func withoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

func (t *cachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if bypass, _ := req.Context().Value(bypassCacheKey{}).(bool); bypass {
		return t.base.RoundTrip(req)
	}
	if req.Header.Get("Cache-Control") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "max-age=0")
	}
	return t.scope(req.Header.Get("Authorization")).RoundTrip(req)
}

func (t *cachingTransport) scope(auth string) *httpcache.Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, ok := t.scopes[auth]
	if !ok {
		tr = httpcache.NewTransport(httpcache.NewMemoryCache())
		tr.Transport = t.base
		tr.MarkCachedResponses = true
		t.scopes[auth] = tr
	}
	return tr
}

// Reset drops every cached response for every credential.
func (t *cachingTransport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scopes = make(map[string]*httpcache.Transport)
}
