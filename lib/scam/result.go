package scam

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/umputun/scam-spotter/lib/scamcheck"
)

// Entry is a single matched checker with its confidence
type Entry struct {
	Info
	Score float64 `json:"score"`
}

// Percent returns rounded confidence in percents
func (e Entry) Percent() int { return int(math.Round(e.Score * 100)) }

// Result collects matched checkers for one content item, with the groups evaluated for it
type Result struct {
	entries map[string]Entry
	order   []string // insertion order, kept for the summary
	summary strings.Builder

	Titles []*Group
	Bodies []*Group
	Images []*Group
}

// NewResult makes an empty result
func NewResult() *Result {
	return &Result{entries: map[string]Entry{}}
}

// Add records the checker score, overwriting the previous one, and appends a line to the summary
func (r *Result) Add(info Info, score float64) {
	if _, ok := r.entries[info.Name]; !ok {
		r.order = append(r.order, info.Name)
	}
	r.entries[info.Name] = Entry{Info: info, Score: score}
	fmt.Fprintf(&r.summary, "%s: %d%%  \r\n", info.Name, int(math.Round(score*100)))
}

// Remove deletes the checker from the result, no-op if absent
func (r *Result) Remove(name string) {
	if _, ok := r.entries[name]; !ok {
		return
	}
	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Has returns true if the checker is in the result
func (r *Result) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Get returns the entry for the checker
func (r *Result) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Len returns number of matched checkers
func (r *Result) Len() int { return len(r.entries) }

// Empty returns true if nothing matched
func (r *Result) Empty() bool { return len(r.entries) == 0 }

// Entries returns matched checkers sorted by score, highest first, ties by name
func (r *Result) Entries() []Entry {
	res := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].Name < res[j].Name
	})
	return res
}

// Summary returns the running summary, one "name: pp%" line per Add call, removed checkers included
func (r *Result) Summary() string { return r.summary.String() }

// String returns a line per currently matched checker in insertion order
func (r *Result) String() string {
	var sb strings.Builder
	for _, name := range r.order {
		e := r.entries[name]
		fmt.Fprintf(&sb, "%s: %d%%  \r\n", e.Name, e.Percent())
	}
	return sb.String()
}

// Responses converts matched checkers to check responses, highest score first
func (r *Result) Responses() []scamcheck.Response {
	res := make([]scamcheck.Response, 0, len(r.entries))
	for _, e := range r.Entries() {
		res = append(res, scamcheck.Response{Name: e.Name, Score: e.Score, Template: e.Template, Report: e.Report})
	}
	return res
}

// Report returns true if any matched checker asks for a report
func (r *Result) Report() bool {
	for _, e := range r.entries {
		if e.Report {
			return true
		}
	}
	return false
}

// Template returns the reply template of the best matched checker, empty if nothing matched
func (r *Result) Template() string {
	entries := r.Entries()
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Template
}

// Groups returns all groups of the result, titles first, then bodies and images
func (r *Result) Groups() []*Group {
	res := make([]*Group, 0, len(r.Titles)+len(r.Bodies)+len(r.Images))
	res = append(res, r.Titles...)
	res = append(res, r.Bodies...)
	return append(res, r.Images...)
}

// Combine makes a new result with entries of both, b wins on collision, group lists are concatenated
func Combine(a, b *Result) *Result {
	res := NewResult()
	for _, src := range []*Result{a, b} {
		if src == nil {
			continue
		}
		for _, name := range src.order {
			e := src.entries[name]
			if _, ok := res.entries[name]; !ok {
				res.order = append(res.order, name)
			}
			res.entries[name] = e
		}
		res.summary.WriteString(src.summary.String())
		res.Titles = append(res.Titles, src.Titles...)
		res.Bodies = append(res.Bodies, src.Bodies...)
		res.Images = append(res.Images, src.Images...)
	}
	return res
}
