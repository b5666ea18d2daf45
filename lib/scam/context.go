package scam

import (
	"errors"
	"image"
	"log"
	"os"

	"github.com/umputun/scam-spotter/lib/imgmatch"
)

// Context is a single content item under evaluation: title, body and images recognized by OCR.
// It owns the groups and temporary image files, checkers are borrowed.
// Context is not thread-safe, trials mutate the words of its groups.
type Context struct {
	Title  *Group
	Body   *Group
	Images []*Group

	dataDir string
	matcher TemplateMatcher
	trace   func(format string, args ...any)
	decoded map[string]image.Image
}

// ContextParams are optional collaborators of the Context
type ContextParams struct {
	DataDir string                           // directory with "images" sub-directory of templates
	Matcher TemplateMatcher                  // template matcher for image checkers
	Trace   func(format string, args ...any) // optional trace of evaluation steps, nil to disable
}

// NewContext makes a context for the title, body and already recognized image groups
func NewContext(title, body string, images []*Group, params ContextParams) *Context {
	return &Context{
		Title:   NewTextGroup(KindTitle, title),
		Body:    NewTextGroup(KindBody, body),
		Images:  images,
		dataDir: params.DataDir,
		matcher: params.Matcher,
		trace:   params.Trace,
		decoded: map[string]image.Image{},
	}
}

// FilterCheckers drops checkers which ignore self posts if the item is a self post
func FilterCheckers(checkers []Checker, selfPost bool) []Checker {
	if !selfPost {
		return checkers
	}
	res := make([]Checker, 0, len(checkers))
	for _, ch := range checkers {
		if !ch.Info().IgnoreSelfPosts {
			res = append(res, ch)
		}
	}
	return res
}

// groupBlacklister is implemented by all built-in checkers, allows checking blacklist against any group
type groupBlacklister interface {
	blacklistedIn(g *Group, threshold float64) bool
}

// Run evaluates checkers against the context. Each checker is first checked against its blacklist,
// then matched. A score at or above threshold is recorded. The second pass drops recorded checkers
// with blacklist phrases found in any group, or in all groups joined together.
// Checker errors are logged and the checker is skipped.
func (c *Context) Run(checkers []Checker, threshold float64) *Result {
	res := NewResult()
	res.Titles = append(res.Titles, c.Title)
	res.Bodies = append(res.Bodies, c.Body)
	res.Images = append(res.Images, c.Images...)

	byName := make(map[string]Checker, len(checkers))
	for _, ch := range checkers {
		info := ch.Info()
		byName[info.Name] = ch
		if ch.Blacklisted(c, threshold) {
			c.tracef("%s blacklisted", info.Name)
			continue
		}
		score, err := ch.Match(c, threshold)
		if err != nil {
			log.Printf("[WARN] checker %s skipped: %v", info.Name, err)
			continue
		}
		if score >= threshold {
			c.tracef("%s matched with %.2f", info.Name, score)
			res.Add(info, score)
		}
	}

	c.dropBlacklisted(res, byName, threshold)
	return res
}

func (c *Context) dropBlacklisted(res *Result, checkers map[string]Checker, threshold float64) {
	groups := c.groups()
	for _, e := range res.Entries() {
		bl, ok := checkers[e.Name].(groupBlacklister)
		if !ok {
			continue
		}
		if c.blacklistedAnywhere(bl, groups, threshold) {
			c.tracef("%s removed, blacklisted in context", e.Name)
			res.Remove(e.Name)
		}
	}
}

func (c *Context) blacklistedAnywhere(bl groupBlacklister, groups []*Group, threshold float64) bool {
	for _, g := range groups {
		if bl.blacklistedIn(g, threshold) {
			return true
		}
	}
	return len(groups) > 1 && bl.blacklistedIn(joinGroups(groups...), threshold)
}

// groups returns all non-empty groups: title, body and images
func (c *Context) groups() []*Group {
	res := make([]*Group, 0, 2+len(c.Images))
	for _, g := range append([]*Group{c.Title, c.Body}, c.Images...) {
		if !g.Empty() {
			res = append(res, g)
		}
	}
	return res
}

// Close removes temporary image files. Failures are logged only.
func (c *Context) Close() {
	for _, g := range c.Images {
		if !g.Temporary || g.Path == "" {
			continue
		}
		if err := os.Remove(g.Path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Printf("[WARN] failed to remove temporary image %s: %v", g.Path, err)
			}
			continue
		}
		log.Printf("[DEBUG] removed temporary image %s", g.Path)
	}
	c.decoded = map[string]image.Image{}
}

// decode loads image from file, decoded images are cached for the context lifetime
func (c *Context) decode(path string) (image.Image, error) {
	if c.decoded == nil {
		c.decoded = map[string]image.Image{}
	}
	if img, ok := c.decoded[path]; ok {
		return img, nil
	}
	img, err := imgmatch.Load(path)
	if err != nil {
		return nil, err
	}
	c.decoded[path] = img
	return img, nil
}

func (c *Context) tracef(format string, args ...any) {
	if c.trace != nil {
		c.trace(format, args...)
	}
}
