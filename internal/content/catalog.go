package content

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/logger"
)

// Catalog maps hotspot ids to panels. Entries loaded from a file replace
// the built-in panel with the same id. It is owned by the render thread.
type Catalog struct {
	panels  map[string]Panel
	order   []string
	path    string
	version uint64
	log     *zap.Logger
}

// NewCatalog creates a catalog holding the built-in panels.
func NewCatalog() *Catalog {
	c := &Catalog{
		panels: make(map[string]Panel),
		log:    logger.Named("content"),
	}
	c.merge(DefaultPanels())
	return c
}

func (c *Catalog) merge(panels []Panel) {
	for _, p := range panels {
		if _, ok := c.panels[p.HotspotID]; !ok {
			c.order = append(c.order, p.HotspotID)
		}
		c.panels[p.HotspotID] = p
	}
	c.version++
}

// LoadFile merges panels from a YAML file. On error the catalog is left
// unchanged. The path is remembered for Reload.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open panels: %w", err)
	}
	defer f.Close()

	panels, err := Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	c.path = path
	c.merge(panels)
	c.log.Info("panels loaded", zap.String("path", path), zap.Int("count", len(panels)))
	return nil
}

// Reload re-reads the last loaded file.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}
	return c.LoadFile(c.path)
}

// Path returns the file the catalog was loaded from, if any.
func (c *Catalog) Path() string {
	return c.path
}

// Get returns the panel for a hotspot.
func (c *Catalog) Get(id string) (Panel, bool) {
	p, ok := c.panels[id]
	return p, ok
}

// All returns panels in first-seen order.
func (c *Catalog) All() []Panel {
	out := make([]Panel, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.panels[id])
	}
	return out
}

// Version increases every time panels change.
func (c *Catalog) Version() uint64 {
	return c.version
}

// Unmatched returns panel ids for which has reports false, in catalog order.
func (c *Catalog) Unmatched(has func(id string) bool) []string {
	var out []string
	for _, id := range c.order {
		if !has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Poll drains pending change notifications from w and reloads once if
// any arrived. It never blocks.
func (c *Catalog) Poll(w *Watcher) bool {
	if w == nil {
		return false
	}
	changed := false
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return c.reloadIf(changed)
			}
			changed = true
		case err, ok := <-w.Errors:
			if ok {
				c.log.Warn("watch error", zap.Error(err))
			}
		default:
			return c.reloadIf(changed)
		}
	}
}

func (c *Catalog) reloadIf(changed bool) bool {
	if !changed {
		return false
	}
	if err := c.Reload(); err != nil {
		c.log.Warn("panel reload failed, keeping previous", zap.Error(err))
		return false
	}
	return true
}
