package catalog

import (
	"context"
	"fmt"

	"github.com/tkarls/mediagrid/pkg/mgrid"
	"go.uber.org/zap"
)

// Lister is the slice of the server API the cache depends on.
type Lister interface {
	Tree(ctx context.Context) ([]mgrid.TreeNode, error)
	ListDir(ctx context.Context, path string, since *float64) (mgrid.ListDirResult, error)
}

// Snapshot is the cached listing of one directory. Snapshots are
// replaced wholesale on revalidation, never mutated in place. A
// snapshot without a ModTime is an error placeholder: the next fetch
// goes unconditional instead of reusing it.
type Snapshot struct {
	Path    string
	ModTime *float64
	Entries []mgrid.FileEntry
}

// DirCache holds per-directory snapshots and revalidates them with
// conditional reads. It is owned by the engine and must only be touched
// from the engine's goroutine.
type DirCache struct {
	log  *zap.Logger
	api  Lister
	dirs map[string]*Snapshot
}

// NewDirCache creates an empty cache backed by api.
func NewDirCache(log *zap.Logger, api Lister) *DirCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirCache{log: log, api: api, dirs: map[string]*Snapshot{}}
}

// GetEntries returns the items of path, and of its descendants when
// recursive is set. Cached snapshots are revalidated with a conditional
// read unless force is set. On a recursive walk, per-directory failures
// degrade to empty listings; the first error is still reported so the
// caller can surface it.
func (c *DirCache) GetEntries(ctx context.Context, path string, recursive bool, force bool) ([]Item, error) {
	paths := []string{path}
	if recursive {
		var err error
		paths, err = c.descendants(ctx, path)
		if err != nil {
			c.log.Warn("tree fetch failed", zap.String("path", path), zap.Error(err))
			return nil, err
		}
	}

	var items []Item
	var firstErr error
	for _, dir := range paths {
		entries, err := c.fetchDir(ctx, dir, force)
		if err != nil {
			c.log.Warn("listing failed", zap.String("path", dir), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, entry := range entries {
			items = append(items, NewItem(dir, entry))
		}
	}
	return items, firstErr
}

// Snapshot returns the cached snapshot for path, if any.
func (c *DirCache) Snapshot(path string) (*Snapshot, bool) {
	snap, ok := c.dirs[path]
	return snap, ok
}

// Invalidate drops the cached snapshot for path.
func (c *DirCache) Invalidate(path string) {
	delete(c.dirs, path)
}

func (c *DirCache) fetchDir(ctx context.Context, path string, force bool) ([]mgrid.FileEntry, error) {
	cached := c.dirs[path]

	var since *float64
	if !force && cached != nil && cached.ModTime != nil {
		since = cached.ModTime
	}

	res, err := c.api.ListDir(ctx, path, since)
	if err != nil {
		// Placeholder without a mod time, so the next call retries
		// instead of reusing an error-state snapshot.
		c.dirs[path] = &Snapshot{Path: path}
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	if res.NotModified {
		if cached == nil {
			c.dirs[path] = &Snapshot{Path: path}
			return nil, fmt.Errorf("list %s: not_modified without cached snapshot", path)
		}
		return cached.Entries, nil
	}

	snap := &Snapshot{Path: path, ModTime: res.MTime, Entries: res.Files}
	c.dirs[path] = snap
	return snap.Entries, nil
}

// descendants returns path plus every directory below it, in pre-order,
// discovered from the server tree.
func (c *DirCache) descendants(ctx context.Context, path string) ([]string, error) {
	roots, err := c.api.Tree(ctx)
	if err != nil {
		return nil, err
	}

	node := findNode(roots, path)
	if node == nil {
		// Directory vanished between navigation and fetch; fall back
		// to the single directory.
		return []string{path}, nil
	}

	var paths []string
	var walk func(n mgrid.TreeNode)
	walk = func(n mgrid.TreeNode) {
		paths = append(paths, n.Path)
		for _, child := range n.Dirs {
			walk(child)
		}
	}
	walk(*node)
	return paths, nil
}

func findNode(nodes []mgrid.TreeNode, path string) *mgrid.TreeNode {
	for i := range nodes {
		if mgrid.EqualPaths(nodes[i].Path, path) {
			return &nodes[i]
		}
		if found := findNode(nodes[i].Dirs, path); found != nil {
			return found
		}
	}
	return nil
}
