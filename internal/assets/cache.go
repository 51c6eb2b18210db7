package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	CacheEnvVar        = "FLIPBOOK_CACHE_DIR"
	cacheSubdir        = "flipbook/pages"
	cacheTTL           = 24 * time.Hour
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 30 * time.Second
)

// Cache stores remote page images on disk and revalidates them with the
// server's ETag or Last-Modified once they go stale.
type Cache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// NewCache opens the page cache in FLIPBOOK_CACHE_DIR, or under the user
// cache directory.
func NewCache(client *http.Client) (*Cache, error) {
	dir := os.Getenv(CacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "flipbook-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Cache{dir: dir, client: client}, nil
}

func (c *Cache) Dir() string { return c.dir }

// Fetch returns a local path holding the resource at pageURL. A stale copy
// is served when the server cannot be reached.
func (c *Cache) Fetch(ctx context.Context, pageURL string) (string, error) {
	key := cacheKey(pageURL)
	filePath, metaPath, partialPath := c.pathsFor(key)

	if info, err := os.Stat(filePath); err == nil && time.Since(info.ModTime()) < cacheTTL && info.Size() > 0 {
		return filePath, nil
	}

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(filePath)
	local, err := c.download(ctx, pageURL, filePath, metaPath, partialPath, meta, info)
	if err == nil {
		return local, nil
	}
	if info != nil && info.Size() > 0 {
		return filePath, nil
	}
	return "", err
}

func (c *Cache) download(ctx context.Context, pageURL, filePath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	var partialSize int64
	if info, err := os.Stat(partialPath); err == nil && info.Size() > 0 {
		partialSize = info.Size()
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", partialSize))
		if meta.ETag != "" {
			req.Header.Set("If-Range", meta.ETag)
		} else if meta.LastModified != "" {
			req.Header.Set("If-Range", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			now := time.Now()
			meta.CachedAt = now.UTC()
			if err := writeMeta(metaPath, meta); err != nil {
				log.Printf("[assets] cache metadata not refreshed for %s: %v", pageURL, err)
			}
			if err := os.Chtimes(filePath, now, now); err != nil {
				log.Printf("[assets] cache timestamp not refreshed for %s: %v", pageURL, err)
			}
			return filePath, nil
		}
		return c.download(ctx, pageURL, filePath, metaPath, partialPath, cacheMeta{}, nil)
	case http.StatusOK:
		return c.saveBody(resp, filePath, metaPath, partialPath, false)
	case http.StatusPartialContent:
		return c.saveBody(resp, filePath, metaPath, partialPath, partialSize > 0)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("page download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
}

func (c *Cache) saveBody(resp *http.Response, filePath, metaPath, partialPath string, appendExisting bool) (string, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendExisting {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(partialPath, flags, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(partialPath, filePath); err != nil {
		return "", err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(filePath); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return filePath, nil
}

func (c *Cache) pathsFor(key string) (string, string, string) {
	base := filepath.Join(c.dir, key)
	return base, base + metaSuffix, base + partialSuffix
}

// cacheKey hashes the URL and keeps its extension so decoders can still
// sniff the file by name.
func cacheKey(pageURL string) string {
	sum := sha1.Sum([]byte(pageURL))
	key := hex.EncodeToString(sum[:])
	if u, err := url.Parse(pageURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 6 {
			key += strings.ToLower(ext)
		}
	}
	return key
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
