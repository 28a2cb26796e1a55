// Package serverapi is the HTTP client for the media server's browse
// API: tree, conditional directory listings, thumbnails, raw files and
// the HLS transcode fallback.
package serverapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tkarls/mediagrid/pkg/mgrid"
	"go.uber.org/zap"
)

// Config configures the API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to one media server.
type Client struct {
	log     *zap.Logger
	http    *http.Client
	baseURL string
}

// NewClient creates an API client.
func NewClient(log *zap.Logger, cfg Config) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base_url required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		log:     log,
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Tree fetches the full directory tree. Root nodes are the server's
// virtual roots.
func (c *Client) Tree(ctx context.Context) ([]mgrid.TreeNode, error) {
	var reply mgrid.TreeReply
	if err := c.doJSON(ctx, http.MethodGet, "/api/tree", nil, nil, &reply); err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	return reply.Dirs, nil
}

// ListDir fetches one directory listing. A non-nil since makes the read
// conditional; the server answers not_modified when the directory is
// unchanged.
func (c *Client) ListDir(ctx context.Context, path string, since *float64) (mgrid.ListDirResult, error) {
	results, err := c.ListBatch(ctx, []mgrid.ListDirRequest{{Path: path, Since: since}})
	if err != nil {
		return mgrid.ListDirResult{}, err
	}
	res, ok := results[path]
	if !ok {
		return mgrid.ListDirResult{}, fmt.Errorf("list %s: missing from batch reply", path)
	}
	return res, nil
}

// ListBatch fetches several directory listings in one request.
func (c *Client) ListBatch(ctx context.Context, reqs []mgrid.ListDirRequest) (map[string]mgrid.ListDirResult, error) {
	results := map[string]mgrid.ListDirResult{}
	if err := c.doJSON(ctx, http.MethodPost, "/api/list-batch", nil, reqs, &results); err != nil {
		return nil, fmt.Errorf("list-batch: %w", err)
	}
	return results, nil
}

// ThumbURL returns the thumbnail URL for an identity key. The key's
// OSPath marker is preserved verbatim.
func (c *Client) ThumbURL(key string) string {
	return c.pathURL("/api/thumb", key)
}

// FileURL returns the raw media URL for an identity key.
func (c *Client) FileURL(key string) string {
	return c.pathURL("/api/file", key)
}

// FetchThumb downloads the thumbnail for an identity key.
func (c *Client) FetchThumb(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ThumbURL(key), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("thumb %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("thumb %s: %s", key, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// StartTranscode asks the server to start (or reuse) an HLS transcode
// for the item and returns the playlist location.
func (c *Client) StartTranscode(ctx context.Context, key string) (mgrid.TranscodeReply, error) {
	params := url.Values{}
	params.Set("path", key)

	var reply mgrid.TranscodeReply
	if err := c.doJSON(ctx, http.MethodGet, "/api/start_hls", params, nil, &reply); err != nil {
		return mgrid.TranscodeReply{}, fmt.Errorf("start transcode: %w", err)
	}
	return reply, nil
}

// ResolveURL makes a server-relative URL (such as an HLS playlist path)
// absolute against the client's base URL.
func (c *Client) ResolveURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref
}

func (c *Client) pathURL(endpoint, key string) string {
	params := url.Values{}
	params.Set("path", key)
	return c.baseURL + endpoint + "?" + params.Encode()
}

func (c *Client) doJSON(ctx context.Context, method string, endpoint string, params url.Values, body any, out any) error {
	endpointURL := c.baseURL + endpoint
	if len(params) > 0 {
		endpointURL += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpointURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server error: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
