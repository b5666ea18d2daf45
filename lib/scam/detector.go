package scam

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/scam-spotter/lib/scamcheck"
)

//go:generate moq --out mocks/ocr.go --pkg mocks --skip-ensure --with-resets . OCR
//go:generate moq --out mocks/fetcher.go --pkg mocks --skip-ensure --with-resets . Fetcher
//go:generate moq --out mocks/template_matcher.go --pkg mocks --skip-ensure --with-resets . TemplateMatcher

// DefaultThreshold is the minimal score of a hit
const DefaultThreshold = 0.9

// Detector checks content items against the scam corpus, thread-safe.
// The corpus can be replaced at any time, a running check keeps the corpus it started with.
type Detector struct {
	Config
	ocr     OCR
	fetcher Fetcher
	matcher TemplateMatcher
	history *scamcheck.LastVerdicts

	corpus *Corpus
	lock   sync.RWMutex
}

// Config is a set of parameters for Detector
type Config struct {
	Threshold      float64 // minimal score of a hit, 0..1, DefaultThreshold if not set
	DataDir        string  // data directory, image templates are in "images" sub-directory
	MaxImages      int     // maximum number of images of a single item, 0 for unlimited
	OCRConcurrency int     // number of images recognized concurrently, 1 if not set
	HistorySize    int     // number of recent verdicts to keep in memory
	Trace          bool    // log every evaluation step with [DEBUG] level
	RenderDir      string  // if set, annotated copies of checked images are saved here
}

// OCR recognizes text on the image stored in a local file
type OCR interface {
	Extract(ctx context.Context, path string) ([]OCRToken, error)
}

// Fetcher makes a local file for the image source, e.g. downloads an url.
// Returned temporary flag means the file should be removed after the check.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (path string, temporary bool, err error)
}

// NewDetector makes a new Detector with the given config
func NewDetector(cfg Config) *Detector {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.OCRConcurrency < 1 {
		cfg.OCRConcurrency = 1
	}
	return &Detector{Config: cfg, history: scamcheck.NewLastVerdicts(cfg.HistorySize), fetcher: localFetcher{}}
}

// WithOCR sets OCR service, images are ignored without it
func (d *Detector) WithOCR(ocr OCR) *Detector {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.ocr = ocr
	return d
}

// WithFetcher sets image fetcher, by default only local files are accepted
func (d *Detector) WithFetcher(f Fetcher) *Detector {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.fetcher = f
	return d
}

// WithMatcher sets template matcher for image checkers
func (d *Detector) WithMatcher(m TemplateMatcher) *Detector {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.matcher = m
	return d
}

// Reload replaces the corpus
func (d *Detector) Reload(c *Corpus) error {
	if c == nil || c.Len() == 0 {
		return &ConfigError{Err: errors.New("empty corpus")}
	}
	d.lock.Lock()
	d.corpus = c
	d.lock.Unlock()
	log.Printf("[INFO] loaded %d checkers: %v", c.Len(), c.Count())
	return nil
}

// LoadCorpusFile loads corpus from file and replaces the current one, the current corpus is kept on error
func (d *Detector) LoadCorpusFile(path string, funcs FunctionLookup) error {
	c, err := LoadCorpusFile(path, funcs)
	if err != nil {
		return err
	}
	return d.Reload(c)
}

// Corpus returns the current corpus, nil if not loaded
func (d *Detector) Corpus() *Corpus {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.corpus
}

// Check evaluates a single content item. Failed images are skipped, the rest of the item is still evaluated.
// Returns error only if the corpus is not loaded or the context is canceled before evaluation.
func (d *Detector) Check(ctx context.Context, req scamcheck.Request) (res *Result, verdict scamcheck.Verdict, err error) {
	st := time.Now()
	d.lock.RLock()
	corpus, ocr, fetcher, matcher := d.corpus, d.ocr, d.fetcher, d.matcher
	d.lock.RUnlock()
	if corpus == nil {
		return nil, scamcheck.Verdict{}, &ConfigError{Err: errors.New("corpus not loaded")}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	images, skipped := d.recognize(ctx, req, ocr, fetcher)
	if err := ctx.Err(); err != nil {
		cleanup(images)
		return nil, scamcheck.Verdict{}, fmt.Errorf("check of %s canceled: %w", req.ID, err)
	}

	params := ContextParams{DataDir: d.DataDir, Matcher: matcher}
	if d.Trace {
		params.Trace = func(format string, args ...any) { log.Printf("[DEBUG] "+req.ID+" "+format, args...) }
	}
	sc := NewContext(req.Title, req.Body, images, params)
	defer sc.Close()

	res = d.run(sc, FilterCheckers(corpus.Checkers(), req.SelfPost))
	if d.RenderDir != "" {
		d.render(req.ID, res)
	}
	verdict = scamcheck.Verdict{ID: req.ID, Title: req.Title, Checks: res.Responses(), Images: len(images),
		Skipped: skipped, Duration: time.Since(st), Time: st}
	d.history.Push(verdict)
	log.Printf("[DEBUG] checked %s in %v, %s", req.ID, verdict.Duration, scamcheck.ChecksToString(verdict.Checks))
	return res, verdict, nil
}

// run evaluates context, panic in any checker is logged and yields an empty result
func (d *Detector) run(sc *Context, checkers []Checker) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] evaluation panic: %v", r)
			res = NewResult()
		}
	}()
	return sc.Run(checkers, d.Threshold)
}

// recognize fetches and recognizes images concurrently, failed images are logged and skipped.
// Image groups keep the order of request images.
func (d *Detector) recognize(ctx context.Context, req scamcheck.Request, ocr OCR, f Fetcher) (res []*Group, skipped int) {
	srcs := req.Images
	if d.MaxImages > 0 && len(srcs) > d.MaxImages {
		log.Printf("[INFO] %s has %d images, only first %d checked", req.ID, len(srcs), d.MaxImages)
		srcs = srcs[:d.MaxImages]
	}
	if len(srcs) == 0 {
		return nil, 0
	}
	if ocr == nil {
		log.Printf("[WARN] no OCR service, %d images of %s ignored", len(srcs), req.ID)
		return nil, len(srcs)
	}

	groups := make([]*Group, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.OCRConcurrency)
	for i, src := range srcs {
		g.Go(func() error {
			grp, err := recognizeImage(gctx, src, ocr, f)
			if err != nil {
				log.Printf("[WARN] image skipped, %v", err)
				return nil
			}
			groups[i] = grp
			return nil
		})
	}
	_ = g.Wait() // image errors are not propagated

	for _, grp := range groups {
		if grp == nil {
			skipped++
			continue
		}
		res = append(res, grp)
	}
	return res, skipped
}

func recognizeImage(ctx context.Context, src string, ocr OCR, f Fetcher) (*Group, error) {
	path, temp, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, &EvalError{Source: src, Err: fmt.Errorf("fetch: %w", err)}
	}
	tokens, err := ocr.Extract(ctx, path)
	if err != nil {
		if temp {
			if rerr := os.Remove(path); rerr != nil {
				log.Printf("[WARN] failed to remove temporary image %s: %v", path, rerr)
			}
		}
		return nil, &EvalError{Source: src, Err: fmt.Errorf("ocr: %w", err)}
	}
	grp := NewImageGroup(src, path, tokens)
	grp.Temporary = temp
	return grp, nil
}

func cleanup(images []*Group) {
	(&Context{Images: images}).Close()
}

// render saves annotated images of the result, errors are logged only
func (d *Detector) render(id string, res *Result) {
	if err := os.MkdirAll(d.RenderDir, 0o750); err != nil {
		log.Printf("[WARN] can't make render directory %s: %v", d.RenderDir, err)
		return
	}
	for i, g := range res.Images {
		img, err := Render(g, RenderMatches)
		if err != nil {
			log.Printf("[WARN] can't render image %s: %v", g.Label, err)
			continue
		}
		path := filepath.Join(d.RenderDir, fmt.Sprintf("%s-%d.png", id, i))
		if err := writePNG(path, img); err != nil {
			log.Printf("[WARN] can't save rendered image %s: %v", path, err)
			continue
		}
		log.Printf("[INFO] rendered image %s saved to %s", g.Label, path)
	}
}

func writePNG(path string, img image.Image) error {
	fh, err := os.Create(path) //nolint:gosec // path is made from config and item id
	if err != nil {
		return err
	}
	if err := png.Encode(fh, img); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

// LastVerdicts returns up to n most recent verdicts
func (d *Detector) LastVerdicts(n int) []scamcheck.Verdict {
	return d.history.Last(n)
}

// localFetcher accepts existing local files only
type localFetcher struct{}

// Fetch returns the path as is if the file exists
func (localFetcher) Fetch(_ context.Context, src string) (string, bool, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return "", false, fmt.Errorf("remote image %s not supported without fetcher", src)
	}
	path := filepath.Clean(src)
	st, err := os.Stat(path)
	if err != nil {
		return "", false, err
	}
	if st.IsDir() {
		return "", false, fmt.Errorf("%s is a directory", path)
	}
	return path, false, nil
}
