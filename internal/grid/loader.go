package grid

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Fetcher downloads thumbnail bytes for an identity key.
type Fetcher interface {
	FetchThumb(ctx context.Context, key string) ([]byte, error)
}

// Loader performs at most one thumbnail fetch per cell. Fetched bytes
// are kept in an expiring memory cache so a cell that is collected and
// re-created shortly after (directory round trip, filter churn) reloads
// without a network hit.
type Loader struct {
	log   *zap.Logger
	api   Fetcher
	bytes *gocache.Cache
}

// DefaultThumbTTL bounds how long fetched thumbnail bytes outlive their
// cell.
const DefaultThumbTTL = 10 * time.Minute

// NewLoader creates a loader with the given byte-cache TTL.
func NewLoader(log *zap.Logger, api Fetcher, ttl time.Duration) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultThumbTTL
	}
	return &Loader{
		log:   log,
		api:   api,
		bytes: gocache.New(ttl, ttl),
	}
}

// Load fetches the cell's thumbnail. Runs to completion on the calling
// goroutine; a failed fetch logs, returns the cell to Unloaded and is
// retried only if the cell is re-created later.
func (l *Loader) Load(cell *Cell) {
	if cached, ok := l.bytes.Get(cell.Key); ok {
		cell.Thumb = cached.([]byte)
		cell.State = Loaded
		return
	}

	cell.State = Loading
	data, err := l.api.FetchThumb(context.Background(), cell.Key)
	if err != nil {
		l.log.Warn("thumbnail load failed", zap.String("key", cell.Key), zap.Error(err))
		cell.State = Unloaded
		return
	}
	cell.Thumb = data
	cell.State = Loaded
	l.bytes.Set(cell.Key, data, gocache.DefaultExpiration)
}
