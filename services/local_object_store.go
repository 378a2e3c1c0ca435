package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpupo63/data-table-transformer/errs"
)

// LocalObjectStore writes objects below a directory on disk.
type LocalObjectStore struct {
	baseDir string
	baseURL string
}

var _ ObjectStore = (*LocalObjectStore)(nil)

func NewLocalObjectStore(dir, baseURL string) (*LocalObjectStore, error) {
	baseDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}
	return &LocalObjectStore{baseDir: baseDir, baseURL: baseURL}, nil
}

func (s *LocalObjectStore) fullPath(key string) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if !strings.HasPrefix(path, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes storage directory", key)
	}
	return path, nil
}

func (s *LocalObjectStore) Upload(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) (string, error) {
	path, err := s.fullPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	dst, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("%s: %w", key, errs.ErrObjectKeyExists)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", key, err)
	}
	defer dst.Close()

	progress := newProgressReader(body, size, opts.OnProgress)
	if _, err := io.Copy(dst, readerWithContext(ctx, progress)); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", key, err)
	}
	progress.done()

	return joinURL(s.baseURL, key), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// readerWithContext stops reading once ctx is done
func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
