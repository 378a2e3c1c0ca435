package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rpupo63/data-table-transformer/models"
)

type fakeObjectStore struct {
	mu      sync.Mutex
	calls   int
	keys    []string
	opts    []UploadOptions
	content []byte
	err     error
}

func (f *fakeObjectStore) Upload(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.keys = append(f.keys, key)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	progress := newProgressReader(body, size, opts.OnProgress)
	data, err := io.ReadAll(progress)
	if err != nil {
		return "", err
	}
	progress.done()
	f.content = data
	return "https://files.test/" + key, nil
}

type fakeConnector struct {
	calls  int
	result *ConnectResult
	err    error
}

func (f *fakeConnector) Connect(ctx context.Context, cfg models.S3Config) (*ConnectResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return &ConnectResult{}, nil
	}
	return f.result, nil
}

type fakeProjectDB struct {
	mu       sync.Mutex
	projects []models.Project
	err      error
}

func (f *fakeProjectDB) Add(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.projects = append(f.projects, *project)
	return nil
}

type fakeFallback struct {
	mu       sync.Mutex
	projects []models.Project
	err      error
}

func (f *fakeFallback) Append(project models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.projects = append(f.projects, project)
	return nil
}

var errUnavailable = errors.New("connection refused")
