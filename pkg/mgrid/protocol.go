// Package mgrid holds the wire types and path encoding shared between
// the browse engine and the media server API.
package mgrid

// Media kinds as reported by the server listing.
const (
	KindImage = "image"
	KindVideo = "video"
)

// TreeNode is one directory in the server's tree reply. Root nodes are
// the configured virtual roots.
type TreeNode struct {
	Path string     `json:"path"`
	Name string     `json:"name"`
	Dirs []TreeNode `json:"dirs"`
}

// TreeReply wraps the /api/tree response.
type TreeReply struct {
	Dirs []TreeNode `json:"dirs"`
}

// FileEntry is one media file in a directory listing. MTime is unix
// seconds with sub-second precision, matching the server's stat output.
type FileEntry struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	MTime float64 `json:"mtime"`
	Size  int64   `json:"size"`
}

// ListDirRequest asks for one directory, optionally conditional on the
// last known modification time.
type ListDirRequest struct {
	Path  string   `json:"path"`
	Since *float64 `json:"since,omitempty"`
}

// ListDirResult is the per-directory listing reply. When NotModified is
// set the other fields are absent and the cached listing is still valid.
type ListDirResult struct {
	NotModified bool        `json:"not_modified"`
	MTime       *float64    `json:"mtime"`
	Files       []FileEntry `json:"files"`
}

// TranscodeReply is the /api/start_hls response: either a playlist URL
// or a server-side error string.
type TranscodeReply struct {
	Playlist string `json:"playlist,omitempty"`
	Error    string `json:"error,omitempty"`
}
