// Package scamcheck defines request and response types of the scam check, shared by the library and its clients.
package scamcheck

import (
	"fmt"
	"strings"
	"time"
)

// Request is a content item to check for scams
type Request struct {
	ID       string   `json:"id"`        // item id on the host system, generated if empty
	Title    string   `json:"title"`     // title, empty for comments and messages
	Body     string   `json:"body"`      // body text
	Images   []string `json:"images"`    // attached images, local paths or http(s) urls
	SelfPost bool     `json:"self_post"` // true for text-only posts, such items skip checkers ignoring self posts
	Author   string   `json:"author"`    // author name, informational only
}

func (r *Request) String() string {
	return fmt.Sprintf("id:%s, title:%q, body:%q, images:%d, self:%v, author:%q",
		r.ID, r.Title, shorten(r.Body, 64), len(r.Images), r.SelfPost, r.Author)
}

// Response is a single matched checker
type Response struct {
	Name     string  `json:"name"`     // checker name
	Score    float64 `json:"score"`    // confidence, 0..1
	Template string  `json:"template"` // reply template id
	Report   bool    `json:"report"`   // true if the item should be reported
}

// Percent returns rounded confidence in percents
func (r *Response) Percent() int { return int(r.Score*100 + 0.5) }

func (r *Response) String() string {
	return fmt.Sprintf("%s: %d%%", r.Name, r.Percent())
}

// Verdict is the outcome of a single item check
type Verdict struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Checks   []Response    `json:"checks"`
	Images   int           `json:"images"`  // number of images evaluated
	Skipped  int           `json:"skipped"` // number of images skipped because of errors
	Duration time.Duration `json:"duration"`
	Time     time.Time     `json:"time"`
}

// Scam returns true if any checker matched
func (v *Verdict) Scam() bool { return len(v.Checks) > 0 }

// ChecksToString converts a slice of checks to a string
func ChecksToString(checks []Response) string {
	elems := make([]string, 0, len(checks))
	for _, r := range checks {
		elems = append(elems, "{"+r.String()+"}")
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
