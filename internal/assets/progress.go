package assets

import (
	"bytes"
	"context"
	"io"
)

// Progress is a snapshot of a download. Total is 0 when unknown.
type Progress struct {
	Loaded int64
	Total  int64
}

// Percent returns round(Loaded/Total*100), or 0 when Total is unknown.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	pct := int((p.Loaded*200 + p.Total) / (p.Total * 2))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// countingReader reports bytes read so far.
type countingReader struct {
	r      io.Reader
	ctx    context.Context
	loaded int64
	total  int64
	onRead func(Progress)
}

func (c *countingReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.r.Read(p)
	if n > 0 {
		c.loaded += int64(n)
		if c.onRead != nil {
			c.onRead(Progress{Loaded: c.loaded, Total: c.total})
		}
	}
	return n, err
}

func fetch(ctx context.Context, src Source, name string, onProgress func(Progress)) ([]byte, error) {
	rc, size, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if size < 0 {
		size = 0
	}
	var buf bytes.Buffer
	if size > 0 {
		buf.Grow(int(size))
	}
	cr := &countingReader{r: rc, ctx: ctx, total: size, onRead: onProgress}
	if _, err := io.Copy(&buf, cr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
