package imagerecognizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/fileutils"
	"github.com/go-pkgz/repeater"
)

// allowedExt lists image extensions accepted for download
var allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// Fetcher makes local files for image sources. Urls are downloaded to temporary files,
// local paths are used as is.
type Fetcher struct {
	Client     *http.Client
	TempDir    string // os.TempDir if empty
	MaxSize    int64  // maximum image size, 20M if not set
	Retries    int
	RetryDelay time.Duration
	LocalFiles bool // accept local paths, disabled for images coming from untrusted clients
}

// errSkip marks errors not worth retrying
type errSkip struct{ err error }

func (e *errSkip) Error() string { return e.err.Error() }

func (e *errSkip) Unwrap() error { return e.err }

// Fetch returns local file for the image source, temporary flag set for downloaded files
func (f *Fetcher) Fetch(ctx context.Context, src string) (string, bool, error) {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		if !f.LocalFiles {
			return "", false, fmt.Errorf("%s is not an image url", src)
		}
		if !fileutils.IsFile(src) {
			return "", false, fmt.Errorf("image file %s not found", src)
		}
		return filepath.Clean(src), false, nil
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if ext != "" && !allowedExt[ext] {
		return "", false, fmt.Errorf("unsupported image extension %q in %s", ext, src)
	}

	var res string
	var permanent error
	err = repeater.NewDefault(max(f.Retries, 1), f.RetryDelay).Do(ctx, func() error {
		var e error
		res, e = f.download(ctx, src, ext)
		var skip *errSkip
		if errors.As(e, &skip) {
			permanent = skip.err
			return nil
		}
		return e
	})
	if err == nil {
		err = permanent
	}
	if err != nil {
		return "", false, fmt.Errorf("can't download %s: %w", src, err)
	}
	return res, true, nil
}

func (f *Fetcher) download(ctx context.Context, src, ext string) (string, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	maxSize := f.MaxSize
	if maxSize <= 0 {
		maxSize = maxImageSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
	if err != nil {
		return "", &errSkip{err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("bad status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", &errSkip{err: fmt.Errorf("bad status %d", resp.StatusCode)}
	}
	if ext == "" {
		ext = extByContentType(resp.Header.Get("Content-Type"))
		if ext == "" {
			return "", &errSkip{err: fmt.Errorf("unsupported content type %q", resp.Header.Get("Content-Type"))}
		}
	}

	tmp, err := fileutils.TempFileName(f.TempDir, "image-*"+ext)
	if err != nil {
		return "", &errSkip{err: fmt.Errorf("can't make temp file: %w", err)}
	}
	fh, err := os.Create(tmp) //nolint:gosec // temp file name
	if err != nil {
		return "", &errSkip{err: fmt.Errorf("can't create %s: %w", tmp, err)}
	}
	n, err := io.Copy(fh, io.LimitReader(resp.Body, maxSize+1))
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxSize {
		err = &errSkip{err: fmt.Errorf("image is larger than %d bytes", maxSize)}
	}
	if err != nil {
		if rerr := os.Remove(tmp); rerr != nil {
			log.Printf("[WARN] can't remove %s: %v", tmp, rerr)
		}
		return "", err
	}
	log.Printf("[DEBUG] downloaded %s to %s, %d bytes", src, tmp, n)
	return tmp, nil
}

func extByContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch mt {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ""
}
