// Package bot checks incoming items for scams and makes replies. Items come from telegram or the web api,
// both are converted to Message and passed to ScamFilter.OnMessage.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/umputun/scam-spotter/lib/scamcheck"
)

// Response describes bot's reaction on particular message
type Response struct {
	Text     string            // reply text, made from the template of the best matched checker
	Send     bool              // reply should be sent
	ReplyTo  int               // telegram message to reply to, 0 for items from other sources
	Report   bool              // item should be reported to admins
	Ignored  bool              // item matched the ignore checker, nothing sent
	Template string            // name of the template used for the reply
	Verdict  scamcheck.Verdict // check results
}

// Message is primary record to pass data from/to bots
type Message struct {
	ID       string // unique item id, e.g. chat:message for telegram
	MsgID    int    `json:",omitempty"` // telegram message id
	ChatID   int64  `json:",omitempty"`
	From     User
	Sent     time.Time
	Title    string   `json:",omitempty"`
	Text     string   `json:",omitempty"`
	Images   []string `json:",omitempty"` // local files or urls
	Link     string   `json:",omitempty"` // link to the original item, used by reports
	SelfPost bool     `json:",omitempty"` // text only post, checkers ignoring self posts are skipped
}

// User defines user info of the Message
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"user_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Request converts message to the check request
func (m Message) Request() scamcheck.Request {
	return scamcheck.Request{ID: m.ID, Title: m.Title, Body: m.Text, Images: m.Images, SelfPost: m.SelfPost,
		Author: DisplayName(m)}
}

// Empty returns true if there is nothing to check
func (m Message) Empty() bool {
	return strings.TrimSpace(m.Title) == "" && strings.TrimSpace(m.Text) == "" && len(m.Images) == 0
}

// DisplayName returns user's display name or username or id
func DisplayName(msg Message) string {
	displayUsername := msg.From.DisplayName
	if displayUsername == "" {
		displayUsername = msg.From.Username
	}
	if displayUsername == "" && msg.From.ID != 0 {
		displayUsername = fmt.Sprintf("%d", msg.From.ID)
	}
	return strings.TrimSpace(displayUsername)
}
