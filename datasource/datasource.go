package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("file not found")
	ErrTooLarge = errors.New("file too large")
)

type Options struct {
	// Maximum number of bytes to accept. Larger files are rejected
	// rather than truncated. 0 means no limit.
	MaxSize int
	Timeout time.Duration
}

// A thing capable of reading a named data file.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// Picks a Source for the given location. Locations starting with
// http:// or https:// are treated as base URLs, anything else as a
// directory.
func New(location string, options Options) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTP(location, options)
	}
	fs := NewFilesystem(location)
	fs.MaxSize = options.MaxSize
	return fs
}

// Gets a file over HTTP. Provided as convenience for implementing
// custom Sources.
func HTTPGet(ctx context.Context, url string, options Options) ([]byte, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	if options.MaxSize > 0 && resp.ContentLength > int64(options.MaxSize) {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, url, resp.ContentLength, options.MaxSize)
	}

	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize)+1)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if options.MaxSize > 0 && len(body) > options.MaxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, options.MaxSize)
	}

	return body, nil
}
