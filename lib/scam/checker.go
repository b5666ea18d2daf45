package scam

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/go-pkgz/fileutils"
)

// Checker is a single detection rule loaded from the scam corpus.
// Checkers are read-only after loading and shared by all contexts.
type Checker interface {
	Info() Info
	// Blacklisted returns true if one of the blacklist phrases is present in the context
	Blacklisted(c *Context, threshold float64) bool
	// Match returns the confidence of the rule for the context, 0 if nothing found
	Match(c *Context, threshold float64) (float64, error)
}

// Info is the common part of all checkers
type Info struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	IgnoreSelfPosts bool     `json:"ignore_self_posts"`
	Template        string   `json:"template"`
	Report          bool     `json:"report"`
	Blacklist       []string `json:"blacklist"`
}

// base implements the blacklist part of the Checker
type base struct {
	info      Info
	blacklist [][]string
}

func newBase(info Info) base {
	if info.Template == "" {
		info.Template = "default"
	}
	return base{info: info, blacklist: parsePhrases(info.Blacklist)}
}

// Info returns checker info
func (b *base) Info() Info { return b.info }

// Blacklisted checks blacklist phrases against the title, or against the body if the title is empty
func (b *base) Blacklisted(c *Context, threshold float64) bool {
	g := c.Title
	if g.Empty() {
		g = c.Body
	}
	return b.blacklistedIn(g, threshold)
}

func (b *base) blacklistedIn(g *Group, threshold float64) bool {
	if len(b.blacklist) == 0 || g.Empty() {
		return false
	}
	score, _ := MatchPhrases(g, b.blacklist, b.info.Name+"-blacklist", threshold)
	return score >= threshold
}

func parsePhrases(phrases []string) [][]string {
	res := make([][]string, 0, len(phrases))
	for _, p := range phrases {
		if tokens := ParsePhrase(p); len(tokens) > 0 {
			res = append(res, tokens)
		}
	}
	return res
}

// TextChecker matches phrases against the title and the body of the content item
type TextChecker struct {
	base
	title [][]string
	body  [][]string
}

// NewTextChecker makes a text checker, at least one of title and body phrase lists is required
func NewTextChecker(info Info, title, body []string) (*TextChecker, error) {
	res := &TextChecker{base: newBase(info), title: parsePhrases(title), body: parsePhrases(body)}
	if len(res.title) == 0 && len(res.body) == 0 {
		return nil, &ConfigError{Checker: info.Name, Err: errors.New("text checker needs title or body phrases")}
	}
	return res, nil
}

// Match returns the best of title and body scores
func (t *TextChecker) Match(c *Context, threshold float64) (float64, error) {
	var best float64
	if len(t.title) > 0 {
		score, _ := MatchPhrases(c.Title, t.title, t.info.Name, threshold)
		c.tracef("%s title score %.2f", t.info.Name, score)
		best = max(best, score)
	}
	if len(t.body) > 0 {
		score, _ := MatchPhrases(c.Body, t.body, t.info.Name, threshold)
		c.tracef("%s body score %.2f", t.info.Name, score)
		best = max(best, score)
	}
	return best, nil
}

// OCRChecker matches phrases against text recognized on every image
type OCRChecker struct {
	base
	phrases [][]string
}

// NewOCRChecker makes an OCR checker
func NewOCRChecker(info Info, phrases []string) (*OCRChecker, error) {
	return &OCRChecker{base: newBase(info), phrases: parsePhrases(phrases)}, nil
}

// Match returns the best score over all images
func (o *OCRChecker) Match(c *Context, threshold float64) (float64, error) {
	var best float64
	for _, img := range c.Images {
		score, _ := MatchPhrases(img, o.phrases, o.info.Name, threshold)
		c.tracef("%s image %s score %.2f", o.info.Name, img.Label, score)
		best = max(best, score)
	}
	return best, nil
}

// TemplateMatcher finds a template image on the target image, returns the bounding rectangle on hit
type TemplateMatcher interface {
	Match(template, target image.Image) (image.Rectangle, bool)
}

// ImageChecker looks for reference images (templates) on the content item images
type ImageChecker struct {
	base
	names []string // file names or glob patterns under <datadir>/images
}

// NewImageChecker makes an image-template checker
func NewImageChecker(info Info, names []string) (*ImageChecker, error) {
	if len(names) == 0 {
		return nil, &ConfigError{Checker: info.Name, Err: errors.New("img checker needs at least one image")}
	}
	return &ImageChecker{base: newBase(info), names: names}, nil
}

// Match returns 1 if any template is found on any image
func (m *ImageChecker) Match(c *Context, _ float64) (float64, error) {
	if len(c.Images) == 0 {
		return 0, nil
	}
	if c.matcher == nil {
		return 0, &EvalError{Source: m.info.Name, Err: errors.New("no template matcher")}
	}
	paths, err := m.paths(c.dataDir)
	if err != nil {
		return 0, &EvalError{Source: m.info.Name, Err: err}
	}
	loaded := 0
	var lastErr error
	for _, p := range paths {
		if !fileutils.IsFile(p) {
			lastErr = fmt.Errorf("no image template at %s", p)
			c.tracef("%s skip template: %v", m.info.Name, lastErr)
			continue
		}
		tmpl, err := c.decode(p)
		if err != nil {
			lastErr = err
			c.tracef("%s skip template %s: %v", m.info.Name, p, err)
			continue
		}
		loaded++
		for _, g := range c.Images {
			target, err := c.decode(g.Path)
			if err != nil {
				c.tracef("%s skip image %s: %v", m.info.Name, g.Label, err)
				continue
			}
			if rect, ok := c.matcher.Match(tmpl, target); ok {
				c.tracef("%s template %s found on %s at %v", m.info.Name, filepath.Base(p), g.Label, rect)
				g.Rectangles = append(g.Rectangles, rect)
				return 1, nil
			}
		}
	}
	if loaded == 0 && lastErr != nil {
		return 0, &EvalError{Source: m.info.Name, Err: lastErr}
	}
	return 0, nil
}

// paths resolves template names against the images directory, glob patterns expanded, duplicates skipped
func (m *ImageChecker) paths(dataDir string) ([]string, error) {
	var res []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			res = append(res, p)
		}
	}
	for _, name := range m.names {
		p := filepath.Join(dataDir, "images", name)
		if !strings.ContainsAny(name, "*?[") {
			add(p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad template pattern %q: %w", name, err)
		}
		for _, mp := range matches {
			add(mp)
		}
	}
	return res, nil
}

// FunctionChecker runs a registered heuristic function over every image
type FunctionChecker struct {
	base
	function string
	fn       Function
}

// NewFunctionChecker makes a function checker, unknown function name is a configuration error
func NewFunctionChecker(info Info, function string, funcs FunctionLookup) (*FunctionChecker, error) {
	if funcs == nil {
		return nil, &ConfigError{Checker: info.Name, Err: errors.New("no function registry")}
	}
	fn, ok := funcs.Function(function)
	if !ok {
		return nil, &ConfigError{Checker: info.Name, Err: fmt.Errorf("unknown function %q", function)}
	}
	return &FunctionChecker{base: newBase(info), function: function, fn: fn}, nil
}

// Match returns 1 if the function reports a hit on any image
func (f *FunctionChecker) Match(c *Context, _ float64) (float64, error) {
	for _, g := range c.Images {
		img, err := c.decode(g.Path)
		if err != nil {
			c.tracef("%s skip image %s: %v", f.info.Name, g.Label, err)
			continue
		}
		hit, err := f.fn(img)
		if err != nil {
			return 0, &EvalError{Source: f.info.Name, Err: fmt.Errorf("function %s: %w", f.function, err)}
		}
		if hit {
			c.tracef("%s function %s hit on %s", f.info.Name, f.function, g.Label)
			return 1, nil
		}
	}
	return 0, nil
}
