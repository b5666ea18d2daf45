package imagerecognizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/umputun/scam-spotter/lib/scam"
)

// Cached keeps recognized words by image content, the same image reposted under another url is not sent again
type Cached struct {
	ocr   scam.OCR
	ttl   time.Duration
	cache cache.Cache[string, []scam.OCRToken]
}

// NewCached wraps OCR with the cache of given size and ttl
func NewCached(ocr scam.OCR, size int, ttl time.Duration) *Cached {
	return &Cached{ocr: ocr, ttl: ttl, cache: cache.NewCache[string, []scam.OCRToken]().WithMaxKeys(size).WithTTL(ttl)}
}

// Extract returns cached words or recognizes the image. Errors are not cached.
func (c *Cached) Extract(ctx context.Context, path string) ([]scam.OCRToken, error) {
	key, err := fileHash(path)
	if err != nil {
		return nil, err
	}
	if tokens, ok := c.cache.Get(key); ok {
		log.Printf("[DEBUG] ocr cache hit for %s", path)
		return tokens, nil
	}
	tokens, err := c.ocr.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, tokens, c.ttl)
	return tokens, nil
}

// Len returns the number of cached images
func (c *Cached) Len() int { return c.cache.Len() }

func fileHash(path string) (string, error) {
	fh, err := os.Open(path) //nolint:gosec // path is made by fetcher
	if err != nil {
		return "", fmt.Errorf("can't open %s: %w", path, err)
	}
	defer fh.Close()
	h := sha256.New()
	if _, err := io.Copy(h, fh); err != nil {
		return "", fmt.Errorf("can't read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
