package booster

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"

	"github.com/imamik/missioncontrol/internal/launcherr"
)

// Loader produces the boosters of a catalog source.
type Loader interface {
	Load(ctx context.Context) ([]Booster, error)
}

// LoaderFunc adapts a function to a Loader.
type LoaderFunc func(ctx context.Context) ([]Booster, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) ([]Booster, error) {
	return f(ctx)
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the logger used for index progress and duplicate reports.
func WithLogger(logger logr.Logger) CatalogOption {
	return func(c *Catalog) {
		c.log = logger
	}
}

// Catalog is a booster index populated once per process.
type Catalog struct {
	loader Loader
	log    logr.Logger

	once sync.Once
	done chan struct{}

	mu       sync.RWMutex
	byID     map[string]Booster
	ordered  []Booster
	indexErr error
}

// NewCatalog returns a catalog that indexes from loader on first use.
func NewCatalog(loader Loader, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		loader: loader,
		log:    logr.Discard(),
		done:   make(chan struct{}),
		byID:   map[string]Booster{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Index starts the background population if it has not started yet.
// The load keeps ctx's values but not its cancellation.
func (c *Catalog) Index(ctx context.Context) {
	c.once.Do(func() {
		go c.load(context.WithoutCancel(ctx))
	})
}

func (c *Catalog) load(ctx context.Context) {
	defer close(c.done)

	c.log.Info("indexing booster catalog")
	boosters, err := c.loader.Load(ctx)
	if err != nil {
		c.mu.Lock()
		c.indexErr = fmt.Errorf("failed to index booster catalog: %w", err)
		c.mu.Unlock()
		c.log.Error(err, "booster catalog index failed")
		return
	}

	byID := make(map[string]Booster, len(boosters))
	ordered := make([]Booster, 0, len(boosters))
	for _, b := range boosters {
		if _, dup := byID[b.ID]; dup {
			c.log.Info("ignoring duplicate booster", "id", b.ID)
			continue
		}
		byID[b.ID] = b
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	c.mu.Lock()
	c.byID = byID
	c.ordered = ordered
	c.mu.Unlock()

	c.log.Info("booster catalog indexed", "boosters", len(ordered))
}

// WaitForIndex starts indexing if needed and blocks until it completes.
// After completion it returns immediately with the index result. If ctx
// ends first, ctx.Err() is returned and the load continues for others.
func (c *Catalog) WaitForIndex(ctx context.Context) error {
	c.Index(ctx)

	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether indexing has completed, successfully or not.
func (c *Catalog) Ready() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Err returns the index failure, if any.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexErr
}

// Boosters returns the indexed boosters sorted by ID. It never blocks and
// is empty until the index completes.
func (c *Catalog) Boosters() []Booster {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Booster, len(c.ordered))
	for i, b := range c.ordered {
		out[i] = b.clone()
	}
	return out
}

// Resolve returns the booster with the given ID.
func (c *Catalog) Resolve(id string) (Booster, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.byID[id]
	if !ok {
		return Booster{}, launcherr.Newf(launcherr.CodeTemplateNotFound, id, "booster %q is not in the catalog", id)
	}
	return b.clone(), nil
}
