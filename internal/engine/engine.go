// Package engine owns the browse state: the directory cache, the
// derived render sequence, the text filter, the cell grid and the
// viewer. One Engine instance per browsing session; all state lives on
// the instance, nothing is global.
package engine

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/tkarls/mediagrid/internal/adapters/clock"
	"github.com/tkarls/mediagrid/internal/catalog"
	"github.com/tkarls/mediagrid/internal/grid"
	"github.com/tkarls/mediagrid/internal/viewer"
	"github.com/tkarls/mediagrid/pkg/mgrid"
	"go.uber.org/zap"
)

// ServerAPI is everything the engine needs from the media server.
// *serverapi.Client satisfies it.
type ServerAPI interface {
	Tree(ctx context.Context) ([]mgrid.TreeNode, error)
	ListDir(ctx context.Context, path string, since *float64) (mgrid.ListDirResult, error)
	FetchThumb(ctx context.Context, key string) ([]byte, error)
	ThumbURL(key string) string
	FileURL(key string) string
	StartTranscode(ctx context.Context, key string) (mgrid.TranscodeReply, error)
	ResolveURL(ref string) string
}

// Config configures an engine instance.
type Config struct {
	Clock             clock.Clock
	Notifier          grid.Notifier
	ThumbTTL          time.Duration
	SlideshowInterval time.Duration

	// Notice receives transient user-facing messages.
	Notice func(string)
}

// Engine is single-threaded cooperative: every method runs to
// completion on the caller's goroutine before the next event is
// processed, so the cache map, cell map and viewer state need no locks.
type Engine struct {
	log    *zap.Logger
	api    ServerAPI
	notice func(string)

	cache    *catalog.DirCache
	grid     *grid.Grid
	viewer   *viewer.Viewer
	debounce *catalog.Debouncer

	dir          string
	params       catalog.Params
	query        catalog.Query
	seq          catalog.Sequence
	visible      []catalog.Item
	visibleCount int

	// gen stamps directory fetches; a pass whose generation is stale
	// by the time its response lands is discarded instead of applied.
	gen uint64
}

// New creates an engine bound to one server API.
func New(log *zap.Logger, api ServerAPI, cfg Config) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = grid.NopNotifier{}
	}
	if cfg.Notice == nil {
		cfg.Notice = func(string) {}
	}

	e := &Engine{
		log:    log,
		api:    api,
		notice: cfg.Notice,
		cache:  catalog.NewDirCache(log, api),
		params: catalog.DefaultParams(),
		query:  catalog.ParseQuery(""),
	}
	loader := grid.NewLoader(log, api, cfg.ThumbTTL)
	e.grid = grid.New(log, cfg.Notifier, loader)
	e.viewer = viewer.New(log, cfg.Clock, cfg.Notice)
	if cfg.SlideshowInterval > 0 {
		e.viewer.SetSlideshowInterval(cfg.SlideshowInterval)
	}
	e.debounce = catalog.NewDebouncer(cfg.Clock, catalog.DefaultDebounceDelay, catalog.DefaultDebounceIdle, e.SetQuery)
	return e
}

// Tree fetches the server directory tree.
func (e *Engine) Tree(ctx context.Context) ([]mgrid.TreeNode, error) {
	return e.api.Tree(ctx)
}

// SetDir navigates to a directory and runs a full pass. A fetch error
// degrades to an empty catalog and is returned for surfacing.
func (e *Engine) SetDir(ctx context.Context, path string) error {
	e.dir = path
	return e.refresh(ctx, false)
}

// SetParams applies new view parameters and re-derives. Conditional
// revalidation keeps the refetch cheap when nothing changed remotely.
func (e *Engine) SetParams(ctx context.Context, p catalog.Params) error {
	e.params = p
	return e.refresh(ctx, false)
}

// Refresh revalidates the current directory; force skips conditional
// reads.
func (e *Engine) Refresh(ctx context.Context, force bool) error {
	return e.refresh(ctx, force)
}

// SetQuery applies filter text immediately: re-filter and reconcile
// without re-deriving groups.
func (e *Engine) SetQuery(text string) {
	e.query = catalog.ParseQuery(text)
	e.applyFilter()
}

// FilterInput feeds a debounced filter keystroke.
func (e *Engine) FilterInput(text string) { e.debounce.Input(text) }

// FilterFlush applies the pending filter text now (Enter).
func (e *Engine) FilterFlush() { e.debounce.Flush() }

// FilterClear empties the filter and applies immediately (Escape).
func (e *Engine) FilterClear() { e.debounce.Clear() }

func (e *Engine) refresh(ctx context.Context, force bool) error {
	if e.dir == "" {
		return nil
	}

	e.gen++
	gen := e.gen
	items, err := e.cache.GetEntries(ctx, e.dir, e.params.Recursive, force)
	if gen != e.gen {
		// A newer pass superseded this one while the fetch was in
		// flight; its result must not clobber newer state.
		e.log.Debug("discarding stale fetch", zap.String("dir", e.dir), zap.Uint64("gen", gen))
		return nil
	}
	if err != nil {
		e.log.Warn("directory fetch degraded", zap.String("dir", e.dir), zap.Error(err))
	}

	e.seq = catalog.Derive(items, e.params)
	e.applyFilter()
	return err
}

func (e *Engine) applyFilter() {
	e.visible = e.query.Apply(e.seq)
	e.visibleCount = e.grid.Reconcile(e.seq, e.query)
}

// Dir returns the current directory.
func (e *Engine) Dir() string { return e.dir }

// Params returns the current view parameters.
func (e *Engine) Params() catalog.Params { return e.params }

// Sequence returns the last derived render sequence.
func (e *Engine) Sequence() catalog.Sequence { return e.seq }

// Visible returns the visible sequence, the viewer's traversal order.
func (e *Engine) Visible() []catalog.Item { return e.visible }

// VisibleCount returns the visible item count from the last pass.
func (e *Engine) VisibleCount() int { return e.visibleCount }

// Grid exposes the cell grid to the embedding UI.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Viewer exposes the navigation state machine.
func (e *Engine) Viewer() *viewer.Viewer { return e.viewer }

// OpenKey opens the viewer on the visible item with the given identity
// key. Returns false when the key is not currently visible.
func (e *Engine) OpenKey(key string) bool {
	for i := range e.visible {
		if mgrid.EqualPaths(e.visible[i].Key, key) {
			return e.viewer.Open(e.visible[i], e.visible)
		}
	}
	e.log.Info("open aborted, key not visible", zap.String("key", key))
	return false
}

// OpenIndex opens the viewer on the i-th visible item.
func (e *Engine) OpenIndex(i int) bool {
	if i < 0 || i >= len(e.visible) {
		return false
	}
	return e.viewer.Open(e.visible[i], e.visible)
}

// Play renders the viewer's current item through a player, with the
// adaptive direct-then-transcode fallback.
func (e *Engine) Play(ctx context.Context, p viewer.Player) {
	e.viewer.Play(ctx, e.api, p)
}

// CopyFileURL puts an item's raw media URL on the system clipboard.
// Both outcomes surface as notices; neither is an error to the caller.
func (e *Engine) CopyFileURL(key string) {
	if err := clipboard.WriteAll(e.api.FileURL(key)); err != nil {
		e.log.Warn("clipboard write failed", zap.String("key", key), zap.Error(err))
		e.notice("Copy failed")
		return
	}
	e.notice("Copied file URL")
}
