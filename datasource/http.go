package datasource

import (
	"context"
	"net/url"
	"strings"
)

// Reads data files relative to a base URL.
type HTTP struct {
	BaseURL string
	Options Options
}

func NewHTTP(baseURL string, options Options) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Options: options,
	}
}

func (h *HTTP) Read(ctx context.Context, name string) ([]byte, error) {
	return HTTPGet(ctx, h.BaseURL+"/"+url.PathEscape(name), h.Options)
}
