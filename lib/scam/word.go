package scam

import (
	"strings"
)

// NotSeen is the seen distance of a word never matched by any phrase.
const NotSeen = 1 << 20

// Box is a word position on the source image, in pixels of the image coordinate space.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// frame is one trial snapshot of the word match state.
type frame struct {
	name     string
	distance int
	consec   bool
}

// Word is a single normalized token of source text with its trial frames.
// Frame 0 is the committed root frame and is never removed.
type Word struct {
	Text       string
	Confidence int
	Line       int
	Box        *Box // set for OCR words only

	frames []frame
}

// NewWord makes a word from raw text, text is normalized.
func NewWord(raw string, confidence, line int) *Word {
	return &Word{
		Text:       normalizeWord(raw),
		Confidence: confidence,
		Line:       line,
		frames:     []frame{{name: "root", distance: NotSeen}},
	}
}

// SeenDistance returns the best edit distance recorded for the word in the current trial.
func (w *Word) SeenDistance() int { return w.top().distance }

// Consecutive returns true if the word is part of a matched run in the current trial.
func (w *Word) Consecutive() bool { return w.top().consec }

// Seen returns true if the word was matched at least once in the current trial.
func (w *Word) Seen() bool { return w.top().distance < NotSeen }

// Depth returns the number of frames, including the root one.
func (w *Word) Depth() int { return len(w.frames) }

func (w *Word) top() *frame { return &w.frames[len(w.frames)-1] }

func (w *Word) setDistance(d int) {
	if d < w.top().distance {
		w.top().distance = d
	}
}

func (w *Word) setConsecutive() { w.top().consec = true }

func (w *Word) push(name string) {
	f := *w.top()
	f.name = name
	w.frames = append(w.frames, f)
}

func (w *Word) pop() {
	if len(w.frames) > 1 {
		w.frames = w.frames[:len(w.frames)-1]
	}
}

// keepOnly removes all frames with the given name prefix. The frame named "<prefix>...-<suffix>"
// is merged into the frame which becomes the top after removal. Empty suffix removes all of them.
func (w *Word) keepOnly(prefix, suffix string) {
	var kept *frame
	res := w.frames[:1]
	for i := 1; i < len(w.frames); i++ {
		f := w.frames[i]
		if !strings.HasPrefix(f.name, prefix) {
			res = append(res, f)
			continue
		}
		if suffix != "" && strings.HasSuffix(f.name, "-"+suffix) {
			kf := f
			kept = &kf
		}
	}
	w.frames = res
	if kept == nil {
		return
	}
	top := w.top()
	top.distance = min(top.distance, kept.distance)
	top.consec = top.consec || kept.consec
}

// clone makes a copy of the word with the committed state only.
func (w *Word) clone() *Word {
	res := *w
	res.frames = []frame{w.frames[0]}
	return &res
}
