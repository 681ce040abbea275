package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Reads data files from a local directory.
type Filesystem struct {
	Dir string

	// Files larger than this are rejected. 0 means no limit.
	MaxSize int
}

func NewFilesystem(dir string) *Filesystem {
	if dir == "" {
		dir = "."
	}
	return &Filesystem{Dir: dir}
}

func (f *Filesystem) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(f.Dir, name)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if f.MaxSize > 0 && info.Size() > int64(f.MaxSize) {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, path, info.Size(), f.MaxSize)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}

	return buf, nil
}
