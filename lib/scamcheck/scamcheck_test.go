package scamcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse_String(t *testing.T) {
	tests := []struct {
		name     string
		input    Response
		expected string
	}{
		{"full", Response{Name: "nitro", Score: 1}, "nitro: 100%"},
		{"rounded up", Response{Name: "steam", Score: 0.916}, "steam: 92%"},
		{"rounded down", Response{Name: "crypto", Score: 0.904}, "crypto: 90%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.String())
		})
	}
}

func TestRequestString(t *testing.T) {
	tests := []struct {
		name     string
		request  Request
		expected string
	}{
		{
			name:     "post with images",
			request:  Request{ID: "abc", Title: "free nitro", Body: "see the link", Images: []string{"a.png", "b.png"}},
			expected: `id:abc, title:"free nitro", body:"see the link", images:2, self:false, author:""`,
		},
		{
			name: "long body",
			request: Request{ID: "x", Body: "0123456789012345678901234567890123456789012345678901234567890123456789",
				SelfPost: true, Author: "bob"},
			expected: `id:x, title:"", body:"0123456789012345678901234567890123456789012345678901234567890123...", ` +
				`images:0, self:true, author:"bob"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.request.String())
		})
	}
}

func TestChecksToString(t *testing.T) {
	assert.Equal(t, "[]", ChecksToString(nil))
	assert.Equal(t, "[{nitro: 95%}, {steam: 90%}]",
		ChecksToString([]Response{{Name: "nitro", Score: 0.95}, {Name: "steam", Score: 0.9}}))
}

func TestVerdict_Scam(t *testing.T) {
	v := Verdict{}
	assert.False(t, v.Scam())
	v.Checks = append(v.Checks, Response{Name: "nitro", Score: 1})
	assert.True(t, v.Scam())
}
