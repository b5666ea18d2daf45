// Package webhook posts reported detections to a discord-compatible webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/repeater"

	"github.com/umputun/scam-spotter/app/bot"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

// Notifier sends a message with an embed for each detection with at least one reported check
type Notifier struct {
	Params
	client *http.Client
}

// Params defines notifier parameters
type Params struct {
	URL        string        // webhook url, notifier disabled if empty
	Username   string        // name shown as the sender
	Content    string        // text above the embed
	Retries    int           // attempts for server errors
	RetryDelay time.Duration // delay between attempts
	Timeout    time.Duration // http client timeout
}

type payload struct {
	Content  string  `json:"content,omitempty"`
	Username string  `json:"username,omitempty"`
	Embeds   []embed `json:"embeds"`
}

type embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url,omitempty"`
	Footer      *footer `json:"footer,omitempty"`
}

type footer struct {
	Text string `json:"text"`
}

// New makes a notifier
func New(params Params) *Notifier {
	if params.Retries < 1 {
		params.Retries = 1
	}
	if params.Timeout == 0 {
		params.Timeout = 10 * time.Second
	}
	return &Notifier{Params: params, client: &http.Client{Timeout: params.Timeout}}
}

// Record implements bot.Recorder, posts only detections asking for a report
func (n *Notifier) Record(ctx context.Context, msg bot.Message, v scamcheck.Verdict) error {
	if n.URL == "" || !reported(v) {
		return nil
	}

	e := embed{Title: msg.Title, Description: describe(v.Checks), URL: msg.Link}
	if e.Title == "" {
		e.Title = v.ID
	}
	if author := bot.DisplayName(msg); author != "" {
		e.Footer = &footer{Text: author}
	}
	body, err := json.Marshal(payload{Content: n.Content, Username: n.Username, Embeds: []embed{e}})
	if err != nil {
		return fmt.Errorf("can't marshal webhook payload: %w", err)
	}

	var rejected error
	err = repeater.NewDefault(n.Retries, n.RetryDelay).Do(ctx, func() error {
		status, e := n.post(ctx, body)
		if e != nil {
			return e
		}
		switch {
		case status >= 500 || status == http.StatusTooManyRequests:
			return fmt.Errorf("webhook responded with %d", status)
		case status >= 400:
			rejected = fmt.Errorf("webhook rejected payload with %d", status)
		}
		return nil
	})
	if err == nil {
		err = rejected
	}
	if err != nil {
		return fmt.Errorf("can't notify about %s: %w", v.ID, err)
	}
	log.Printf("[INFO] webhook notified about %s", v.ID)
	return nil
}

func (n *Notifier) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("can't make request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("can't post to webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// describe makes a line per check
func describe(checks []scamcheck.Response) string {
	lines := make([]string, 0, len(checks))
	for _, c := range checks {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}

func reported(v scamcheck.Verdict) bool {
	for _, c := range v.Checks {
		if c.Report {
			return true
		}
	}
	return false
}
