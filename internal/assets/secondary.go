package assets

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallel bounds concurrent secondary fetches.
const maxParallel = 4

// Secondary holds the optional assets loaded after the main model. Missing
// entries failed to load and were logged.
type Secondary struct {
	Font   []byte
	Images map[string]image.Image
}

// LoadSecondary fetches the font and images concurrently. Individual
// failures are logged and skipped; only context cancellation is returned.
func (m *Manager) LoadSecondary(ctx context.Context, font string, images []string) (*Secondary, error) {
	out := &Secondary{Images: make(map[string]image.Image, len(images))}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	if font != "" {
		g.Go(func() error {
			data, err := m.LoadSync(ctx, font, nil)
			if err != nil {
				m.log.Warn("font not loaded", zap.String("name", font), zap.Error(err))
				return ctx.Err()
			}
			mu.Lock()
			out.Font = data
			mu.Unlock()
			return nil
		})
	}

	for _, name := range images {
		g.Go(func() error {
			data, err := m.LoadSync(ctx, name, nil)
			if err != nil {
				m.log.Warn("image not loaded", zap.String("name", name), zap.Error(err))
				return ctx.Err()
			}
			img, format, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				m.log.Warn("image not decoded", zap.String("name", name), zap.Error(err))
				return nil
			}
			m.log.Debug("image decoded",
				zap.String("name", name),
				zap.String("format", format),
				zap.Stringer("bounds", img.Bounds()),
			)
			mu.Lock()
			out.Images[name] = img
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// LoadSecondaryAsync runs LoadSecondary on a goroutine.
func (m *Manager) LoadSecondaryAsync(ctx context.Context, font string, images []string) <-chan *Secondary {
	ch := make(chan *Secondary, 1)
	go func() {
		defer close(ch)
		s, err := m.LoadSecondary(ctx, font, images)
		if err != nil {
			m.log.Warn("secondary assets interrupted", zap.Error(err))
		}
		ch <- s
	}()
	return ch
}
