package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/scam-spotter/app/bot"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

func TestNotifier_Record(t *testing.T) {
	var calls atomic.Int32
	var got payload
	status := http.StatusNoContent
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var p payload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		got = p
		w.WriteHeader(status)
	}))
	defer ts.Close()

	n := New(Params{URL: ts.URL, Username: "scam-spotter", Content: "detected", Retries: 3, RetryDelay: time.Millisecond})
	msg := bot.Message{ID: "p1", Title: "free nitro", Link: "https://example.com/p1", From: bot.User{Username: "bob"}}
	reportedVerdict := scamcheck.Verdict{ID: "p1", Checks: []scamcheck.Response{
		{Name: "nitro", Score: 0.95, Report: true}, {Name: "gift", Score: 0.8}}}

	t.Run("clean and not reported skipped", func(t *testing.T) {
		require.NoError(t, n.Record(context.Background(), msg, scamcheck.Verdict{ID: "p1"}))
		require.NoError(t, n.Record(context.Background(), msg, scamcheck.Verdict{ID: "p1",
			Checks: []scamcheck.Response{{Name: "gift", Score: 0.8}}}))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("reported", func(t *testing.T) {
		calls.Store(0)
		require.NoError(t, n.Record(context.Background(), msg, reportedVerdict))
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, "scam-spotter", got.Username)
		assert.Equal(t, "detected", got.Content)
		require.Len(t, got.Embeds, 1)
		assert.Equal(t, "free nitro", got.Embeds[0].Title)
		assert.Equal(t, "https://example.com/p1", got.Embeds[0].URL)
		assert.Equal(t, "nitro: 95%\ngift: 80%", got.Embeds[0].Description)
		require.NotNil(t, got.Embeds[0].Footer)
		assert.Equal(t, "bob", got.Embeds[0].Footer.Text)
	})

	t.Run("server error retried", func(t *testing.T) {
		calls.Store(0)
		status = http.StatusBadGateway
		err := n.Record(context.Background(), msg, reportedVerdict)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("rejected not retried", func(t *testing.T) {
		calls.Store(0)
		status = http.StatusBadRequest
		err := n.Record(context.Background(), bot.Message{ID: "p2"}, scamcheck.Verdict{ID: "p2",
			Checks: []scamcheck.Response{{Name: "nitro", Score: 1, Report: true}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rejected payload with 400")
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, "p2", got.Embeds[0].Title, "id used without title")
		assert.Nil(t, got.Embeds[0].Footer)
	})
}

func TestNotifier_Disabled(t *testing.T) {
	n := New(Params{})
	assert.Equal(t, 1, n.Retries)
	assert.Equal(t, 10*time.Second, n.Timeout)
	require.NoError(t, n.Record(context.Background(), bot.Message{}, scamcheck.Verdict{
		Checks: []scamcheck.Response{{Name: "nitro", Score: 1, Report: true}}}))
}
