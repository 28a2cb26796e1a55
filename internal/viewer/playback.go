package viewer

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/tkarls/mediagrid/internal/catalog"
	"github.com/tkarls/mediagrid/pkg/mgrid"
	"go.uber.org/zap"
)

// Player renders media. ErrUnsupported from either method routes the
// viewer to its next fallback.
type Player interface {
	PlayFile(url string) error
	PlayHLS(playlistURL string) error
	Stop() error
}

// ErrUnsupported marks a playback path the player cannot take.
var ErrUnsupported = errors.New("unsupported")

// Transcoder is the slice of the server API playback depends on.
type Transcoder interface {
	FileURL(key string) string
	StartTranscode(ctx context.Context, key string) (mgrid.TranscodeReply, error)
	ResolveURL(ref string) string
}

// Container extensions commonly supported for direct playback. Anything
// else goes straight to the transcode fallback.
var directPlayExts = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
	".ogv":  true,
	".ogg":  true,
}

// DirectPlayable reports whether an item's container is worth a direct
// playback attempt.
func DirectPlayable(it catalog.Item) bool {
	return directPlayExts[strings.ToLower(path.Ext(mgrid.StripMarker(it.Name)))]
}

// Play renders the current item through the player. Images play
// directly. Videos try direct playback for supported containers, then
// fall back to an HLS transcode; if neither path is available a
// transient notice is shown and the viewer stays on the item.
func (v *Viewer) Play(ctx context.Context, api Transcoder, player Player) {
	current, ok := v.Current()
	if !ok {
		return
	}

	if current.Kind != mgrid.KindVideo {
		if err := player.PlayFile(api.FileURL(current.Key)); err != nil {
			v.log.Warn("image display failed", zap.String("key", current.Key), zap.Error(err))
			v.notice("Display failed")
		}
		return
	}

	if DirectPlayable(current) {
		err := player.PlayFile(api.FileURL(current.Key))
		if err == nil {
			return
		}
		v.log.Info("direct playback failed, trying transcode",
			zap.String("key", current.Key), zap.Error(err))
	}

	reply, err := api.StartTranscode(ctx, current.Key)
	if err != nil {
		v.log.Warn("transcode request failed", zap.String("key", current.Key), zap.Error(err))
		v.notice("Playback unavailable")
		return
	}
	if reply.Error != "" || reply.Playlist == "" {
		v.log.Info("transcode unavailable", zap.String("key", current.Key), zap.String("error", reply.Error))
		v.notice("Playback unavailable")
		return
	}

	if err := player.PlayHLS(api.ResolveURL(reply.Playlist)); err != nil {
		v.log.Warn("hls playback failed", zap.String("key", current.Key), zap.Error(err))
		v.notice("Playback unavailable")
	}
}
