package scam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/scam-spotter/lib/scamcheck"
)

func TestResult(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Empty())
	assert.Empty(t, r.Template())
	assert.False(t, r.Report())

	r.Add(Info{Name: "nitro", Template: "nitro"}, 0.93)
	r.Add(Info{Name: "steam", Template: "steam", Report: true}, 0.97)
	r.Add(Info{Name: "crypto", Template: "crypto"}, 0.93)
	r.Add(Info{Name: "nitro", Template: "nitro"}, 0.95) // overwritten

	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Has("nitro"))
	e, ok := r.Get("nitro")
	require.True(t, ok)
	assert.Equal(t, 95, e.Percent())

	assert.Equal(t, []string{"steam", "nitro", "crypto"}, names(r.Entries()))
	assert.Equal(t, "steam", r.Template())
	assert.True(t, r.Report())
	assert.Equal(t, "nitro: 93%  \r\nsteam: 97%  \r\ncrypto: 93%  \r\nnitro: 95%  \r\n", r.Summary())
	assert.Equal(t, "nitro: 95%  \r\nsteam: 97%  \r\ncrypto: 93%  \r\n", r.String())

	r.Remove("steam")
	r.Remove("steam") // no-op
	r.Remove("unknown")
	assert.Equal(t, 2, r.Len())
	assert.False(t, r.Has("steam"))
	assert.False(t, r.Report())
	assert.Equal(t, "nitro: 95%  \r\ncrypto: 93%  \r\n", r.String())
	assert.Contains(t, r.Summary(), "steam: 97%", "summary keeps removed checkers")

	assert.Equal(t, []scamcheck.Response{
		{Name: "nitro", Score: 0.95, Template: "nitro"},
		{Name: "crypto", Score: 0.93, Template: "crypto"},
	}, r.Responses())
}

func TestCombine(t *testing.T) {
	a := NewResult()
	a.Titles = []*Group{NewTextGroup(KindTitle, "a")}
	a.Add(Info{Name: "one"}, 0.9)
	a.Add(Info{Name: "two"}, 0.91)

	b := NewResult()
	b.Bodies = []*Group{NewTextGroup(KindBody, "b")}
	b.Images = []*Group{{Kind: KindImage}}
	b.Add(Info{Name: "two", Template: "b"}, 0.99)
	b.Add(Info{Name: "three"}, 0.92)

	res := Combine(a, b)
	assert.Equal(t, 3, res.Len())
	two, ok := res.Get("two")
	require.True(t, ok)
	assert.Equal(t, "b", two.Template)
	assert.InDelta(t, 0.99, two.Score, 1e-9)
	assert.Equal(t, a.Summary()+b.Summary(), res.Summary())
	assert.Len(t, res.Groups(), 3)
	assert.Equal(t, "one: 90%  \r\ntwo: 99%  \r\nthree: 92%  \r\n", res.String())

	assert.Equal(t, 2, Combine(nil, a).Len())
	assert.True(t, Combine(nil, nil).Empty())
}
