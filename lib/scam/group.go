package scam

import (
	"image"
	"strconv"
	"strings"
)

// GroupKind defines what part of the content item the group came from
type GroupKind string

// enum of group kinds
const (
	KindTitle GroupKind = "title"
	KindBody  GroupKind = "body"
	KindImage GroupKind = "image"
)

// OCRToken is a single token recognized on an image by OCR service
type OCRToken struct {
	Text       string `json:"text"`
	Confidence int    `json:"conf"` // 0-100
	Line       int    `json:"line"`
	Left       int    `json:"left"`
	Top        int    `json:"top"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Group is an ordered sequence of words of one unit of text: a title, a body or a single image.
// Trial operations apply to all words of the group at once.
type Group struct {
	Kind  GroupKind
	Label string // human-readable label, image url or file name for image groups
	Words []*Word

	// image groups only
	Path       string            // local file with the original image
	Temporary  bool              // file should be removed on context close
	Rectangles []image.Rectangle // template hits, for rendering
}

// NewTextGroup makes a group from raw text. Text is split by lines and spaces,
// empty tokens are dropped, line numbers start with 0.
func NewTextGroup(kind GroupKind, text string) *Group {
	res := &Group{Kind: kind, Label: string(kind)}
	for ln, line := range strings.Split(text, "\n") {
		for _, tok := range strings.Fields(line) {
			if w := NewWord(tok, 100, ln); w.Text != "" {
				res.Words = append(res.Words, w)
			}
		}
	}
	return res
}

// NewImageGroup makes a group from OCR tokens of the image stored in path
func NewImageGroup(label, path string, tokens []OCRToken) *Group {
	res := &Group{Kind: KindImage, Label: label, Path: path}
	for _, t := range tokens {
		w := NewWord(t.Text, t.Confidence, t.Line)
		if w.Text == "" {
			continue
		}
		w.Box = &Box{Left: t.Left, Top: t.Top, Width: t.Width, Height: t.Height}
		res.Words = append(res.Words, w)
	}
	return res
}

// Empty returns true if the group has no words
func (g *Group) Empty() bool { return g == nil || len(g.Words) == 0 }

// Text returns normalized words joined with spaces
func (g *Group) Text() string {
	if g == nil {
		return ""
	}
	res := make([]string, 0, len(g.Words))
	for _, w := range g.Words {
		res = append(res, w.Text)
	}
	return strings.Join(res, " ")
}

// Push starts a new named trial on every word of the group
func (g *Group) Push(name string) {
	for _, w := range g.Words {
		w.push(name)
	}
}

// Pop discards the current trial on every word. The committed root state is never discarded.
func (g *Group) Pop() {
	for _, w := range g.Words {
		w.pop()
	}
}

// KeepOnly drops all trials whose name starts with prefix, except the one ending with "-<idx>".
// The kept trial is merged into the parent frame: minimal distance wins, consecutive flags are OR'ed.
// Nil idx drops all of them.
func (g *Group) KeepOnly(prefix string, idx *int) {
	suffix := ""
	if idx != nil {
		suffix = strconv.Itoa(*idx)
	}
	for _, w := range g.Words {
		w.keepOnly(prefix, suffix)
	}
}

// confident returns words with confidence at or above the floor, order preserved
func (g *Group) confident(floor int) []*Word {
	res := make([]*Word, 0, len(g.Words))
	for _, w := range g.Words {
		if w.Confidence >= floor {
			res = append(res, w)
		}
	}
	return res
}

// joinGroups makes a detached group with words of all given groups in order.
// Words are copied with the committed state only, trials on it don't affect the sources.
func joinGroups(groups ...*Group) *Group {
	res := &Group{Kind: KindBody, Label: "joined"}
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, w := range g.Words {
			res.Words = append(res.Words, w.clone())
		}
	}
	return res
}
