package client

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is used when neither the config nor the environment names a server.
const DefaultBaseURL = "http://localhost:4000"

// DefaultTimeout bounds calls made with the default HTTP client.
const DefaultTimeout = 30 * time.Second

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HeaderSource produces the headers attached to a call. It is consulted on every call.
type HeaderSource interface {
	Headers(ctx context.Context) (map[string]string, error)
}

// StaticHeaders is a fixed header set.
type StaticHeaders map[string]string

func (h StaticHeaders) Headers(context.Context) (map[string]string, error) {
	return h, nil
}

// HeaderFunc computes headers per call, e.g. to attach a freshly refreshed access token.
type HeaderFunc func(ctx context.Context) (map[string]string, error)

func (f HeaderFunc) Headers(ctx context.Context) (map[string]string, error) {
	return f(ctx)
}

// Config configures New. Zero values select defaults.
type Config struct {
	// BaseURL of the server, without the /rpc suffix. Empty resolves via ResolveBaseURL.
	BaseURL string
	Headers HeaderSource
	// HTTPClient defaults to an *http.Client with DefaultTimeout.
	HTTPClient Doer
}

// ResolveBaseURL returns explicit when set, else NEXT_PUBLIC_API_URL, else
// EXPO_PUBLIC_API_URL, else DefaultBaseURL.
func ResolveBaseURL(explicit string) string {
	return resolveBaseURL(explicit, os.Getenv)
}

func resolveBaseURL(explicit string, getenv func(string) string) string {
	for _, v := range []string{explicit, getenv("NEXT_PUBLIC_API_URL"), getenv("EXPO_PUBLIC_API_URL")} {
		if v = strings.TrimSpace(v); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return DefaultBaseURL
}
