package services

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
)

// UploadOptions controls a single object upload
type UploadOptions struct {
	// Upsert allows replacing an existing object under the same key.
	Upsert bool
	// OnProgress receives whole percentages, never decreasing, ending at 100.
	OnProgress func(percent int)
}

// ObjectStore stores uploaded files and hands back a URL they can be fetched from.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, opts UploadOptions) (publicURL string, err error)
}

// progressReader reports how much of body has been consumed
type progressReader struct {
	r        io.Reader
	size     int64
	read     int64
	last     int
	mu       sync.Mutex
	callback func(int)
}

func newProgressReader(r io.Reader, size int64, callback func(int)) *progressReader {
	return &progressReader{r: r, size: size, last: -1, callback: callback}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.read += int64(n)
		percent := 100
		if p.size > 0 {
			percent = int(p.read * 100 / p.size)
		}
		if percent > 99 {
			// 100 is reserved for a finished upload
			percent = 99
		}
		p.report(percent)
		p.mu.Unlock()
	}
	return n, err
}

func (p *progressReader) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.report(100)
}

// report must be called with mu held
func (p *progressReader) report(percent int) {
	if p.callback == nil || percent <= p.last {
		return
	}
	p.last = percent
	p.callback(percent)
}

// joinURL appends an object key to a base URL, escaping each path segment
func joinURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
