package domain

import (
	"context"
	"net/http"
	"net/url"
)

// HTTPAdapter defines the interface for HTTP operations.
// Callers own and must close the returned response body.
type HTTPAdapter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
	Post(ctx context.Context, url string, payload any) (*http.Response, error)
	PostWithAuth(ctx context.Context, url, authorization string, payload any) (*http.Response, error)
	PostForm(ctx context.Context, url string, form url.Values) (*http.Response, error)
}
