package scam

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corpusJSON = `{"scams": [
	{"name": "nitro", "ocr": ["claim your free nitro now", "!free !nitro gift"], "blacklist": ["official discord"]},
	{"name": "steam-text", "type": "text", "title": ["steam gift"], "body": ["free steam gift card"], "template": "steam"},
	{"name": "gift-img", "type": "img", "img": "gift.png", "report": true},
	{"name": "gift-imgs", "type": "img", "img": ["gift-*.png", "other.png"]},
	{"name": "dark", "type": "function", "function": "dark_image", "ignore_self_posts": true}
]}`

func TestLoadCorpus(t *testing.T) {
	c, err := LoadCorpus(strings.NewReader(corpusJSON), NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, []string{"dark", "gift-img", "gift-imgs", "nitro", "steam-text"}, c.Names())
	assert.Equal(t, map[string]int{"ocr": 1, "text": 1, "img": 2, "function": 1}, c.Count())

	chs := c.Checkers()
	require.IsType(t, &OCRChecker{}, chs[0])
	oc := chs[0].(*OCRChecker)
	assert.Equal(t, [][]string{{"claim", "your", "free", "nitro", "now"}, {"!free", "!nitro", "gift"}}, oc.phrases)
	assert.Equal(t, [][]string{{"official", "discord"}}, oc.blacklist)
	assert.Equal(t, "default", oc.Info().Template)

	require.IsType(t, &TextChecker{}, chs[1])
	assert.Equal(t, "steam", chs[1].Info().Template)

	require.IsType(t, &ImageChecker{}, chs[2])
	assert.Equal(t, []string{"gift.png"}, chs[2].(*ImageChecker).names)
	assert.True(t, chs[2].Info().Report)
	assert.Equal(t, []string{"gift-*.png", "other.png"}, chs[3].(*ImageChecker).names)

	require.IsType(t, &FunctionChecker{}, chs[4])
	assert.True(t, chs[4].Info().IgnoreSelfPosts)
}

func TestLoadCorpus_Errors(t *testing.T) {
	tbl := []struct {
		name string
		json string
		errs []string
	}{
		{"bad json", `{"scams": [`, []string{"failed to decode corpus"}},
		{"empty", `{"scams": []}`, []string{"no checkers in corpus"}},
		{"no name", `{"scams": [{"ocr": ["a b"]}]}`, []string{"record #0: checker name is required"}},
		{"unknown type", `{"scams": [{"name": "x", "type": "video"}]}`, []string{`unknown checker type "video"`}},
		{"empty text", `{"scams": [{"name": "x", "type": "text"}]}`, []string{"text checker needs title or body phrases"}},
		{"no images", `{"scams": [{"name": "x", "type": "img"}]}`, []string{"img checker needs at least one image"}},
		{"bad images", `{"scams": [{"name": "x", "type": "img", "img": 42}]}`, []string{"img should be a string or a list"}},
		{"unknown function", `{"scams": [{"name": "x", "type": "function", "function": "nope"}]}`,
			[]string{`unknown function "nope"`}},
		{"duplicate", `{"scams": [{"name": "x", "ocr": ["a"]}, {"name": "x", "ocr": ["b"]}]}`,
			[]string{"duplicate checker name"}},
		{"all errors reported", `{"scams": [{"name": "x", "type": "video"}, {"name": "ok", "ocr": ["a"]}, {"type": "ocr"}]}`,
			[]string{"record #0", "record #2"}},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCorpus(strings.NewReader(tt.json), NewRegistry())
			require.Error(t, err)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			for _, e := range tt.errs {
				assert.Contains(t, err.Error(), e)
			}
		})
	}
}

func TestLoadCorpusFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "scams.json")
	require.NoError(t, os.WriteFile(p, []byte(corpusJSON), 0o600))

	c, err := LoadCorpusFile(p, NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())

	_, err = LoadCorpusFile(filepath.Join(dir, "missing.json"), NewRegistry())
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestNewCorpus(t *testing.T) {
	_, err := NewCorpus()
	require.Error(t, err)

	c, err := NewCorpus(&fakeChecker{info: Info{Name: "a"}}, &fakeChecker{info: Info{Name: "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, c.Names())
}
