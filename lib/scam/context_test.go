package scam

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	info        Info
	score       float64
	err         error
	blacklisted bool
	matched     int
}

func (f *fakeChecker) Info() Info                         { return f.info }
func (f *fakeChecker) Blacklisted(*Context, float64) bool { return f.blacklisted }
func (f *fakeChecker) Match(*Context, float64) (float64, error) {
	f.matched++
	return f.score, f.err
}

func TestContext_Run(t *testing.T) {
	checkers := []Checker{
		&fakeChecker{info: Info{Name: "high"}, score: 0.95},
		&fakeChecker{info: Info{Name: "exact"}, score: 0.9},
		&fakeChecker{info: Info{Name: "low"}, score: 0.5},
		&fakeChecker{info: Info{Name: "broken"}, score: 1, err: errors.New("failed")},
	}
	bl := &fakeChecker{info: Info{Name: "blacklisted"}, score: 1, blacklisted: true}
	checkers = append(checkers, bl)

	c := NewContext("title", "body", nil, ContextParams{})
	res := c.Run(checkers, 0.9)
	assert.Equal(t, []string{"high", "exact"}, names(res.Entries()))
	assert.Zero(t, bl.matched, "blacklisted checker not matched")
	require.Len(t, res.Titles, 1)
	require.Len(t, res.Bodies, 1)
	assert.Empty(t, res.Images)
}

func names(entries []Entry) []string {
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		res = append(res, e.Name)
	}
	return res
}

func TestContext_RunBlacklistOnImage(t *testing.T) {
	oc, err := NewOCRChecker(Info{Name: "nitro", Blacklist: []string{"official discord partner program"}}, []string{"free nitro"})
	require.NoError(t, err)

	t.Run("blacklist phrase on the same image", func(t *testing.T) {
		img := imageGroup("a.png", "", "free nitro from official discord partner program")
		c := NewContext("", "", []*Group{img}, ContextParams{})
		assert.False(t, oc.Blacklisted(c, 0.9), "no title or body to check")
		res := c.Run([]Checker{oc}, 0.9)
		assert.True(t, res.Empty())
		assert.Contains(t, res.Summary(), "nitro: 100%", "recorded before the blacklist pass")
	})

	t.Run("no blacklist phrase", func(t *testing.T) {
		img := imageGroup("a.png", "", "free nitro for everyone")
		res := NewContext("", "", []*Group{img}, ContextParams{}).Run([]Checker{oc}, 0.9)
		assert.True(t, res.Has("nitro"))
	})
}

func TestContext_RunBlacklistAcrossImages(t *testing.T) {
	oc, err := NewOCRChecker(Info{Name: "nitro", Blacklist: []string{"giveaway official partner of discord"}},
		[]string{"free nitro"})
	require.NoError(t, err)

	img1 := imageGroup("1.png", "", "claim free nitro giveaway")
	img2 := imageGroup("2.png", "", "official partner of discord")
	bl := []*Group{img1, img2}

	// neither image alone is long enough for the blacklist phrase
	for _, g := range bl {
		score, _ := MatchPhrases(g, oc.blacklist, "probe", 0.9)
		assert.Zero(t, score)
	}

	res := NewContext("", "", bl, ContextParams{}).Run([]Checker{oc}, 0.9)
	assert.False(t, res.Has("nitro"), "evidence split across images")

	res = NewContext("", "", []*Group{imageGroup("1.png", "", "claim free nitro giveaway")}, ContextParams{}).
		Run([]Checker{oc}, 0.9)
	assert.True(t, res.Has("nitro"))
}

func TestContext_RunBlacklistInBody(t *testing.T) {
	tc, err := NewTextChecker(Info{Name: "nitro", Blacklist: []string{"this is an official discord post"}},
		[]string{"free nitro"}, nil)
	require.NoError(t, err)

	// title present, so the first pass doesn't look at the body
	c := NewContext("free nitro", "hi this is an official discord post", nil, ContextParams{})
	res := c.Run([]Checker{tc}, 0.9)
	assert.True(t, res.Empty())
}

func TestFilterCheckers(t *testing.T) {
	checkers := []Checker{
		&fakeChecker{info: Info{Name: "a"}},
		&fakeChecker{info: Info{Name: "b", IgnoreSelfPosts: true}},
		&fakeChecker{info: Info{Name: "c"}},
	}
	assert.Len(t, FilterCheckers(checkers, false), 3)
	res := FilterCheckers(checkers, true)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Info().Name)
	assert.Equal(t, "c", res[1].Info().Name)
}

func TestContext_Close(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "tmp.png")
	keep := filepath.Join(dir, "keep.png")
	require.NoError(t, os.WriteFile(tmp, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o600))

	c := NewContext("", "", []*Group{
		{Kind: KindImage, Path: tmp, Temporary: true},
		{Kind: KindImage, Path: keep},
		{Kind: KindImage, Path: filepath.Join(dir, "gone.png"), Temporary: true},
	}, ContextParams{})
	c.Close()

	_, err := os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(keep)
	assert.NoError(t, err)
}

func TestContext_Trace(t *testing.T) {
	var lines []string
	tc, err := NewTextChecker(Info{Name: "nitro"}, []string{"free nitro"}, nil)
	require.NoError(t, err)
	c := NewContext("free nitro", "", nil, ContextParams{Trace: func(format string, args ...any) {
		lines = append(lines, format)
	}})
	c.Run([]Checker{tc}, 0.9)
	assert.Contains(t, lines, "%s title score %.2f")
	assert.Contains(t, lines, "%s matched with %.2f")
}

func TestContext_Decode(t *testing.T) {
	dir := t.TempDir()
	p := savePNG(t, filepath.Join(dir, "a.png"), solidImage(4, 3, color.White))
	c := &Context{} // decode cache initialized lazily
	img, err := c.decode(p)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	require.NoError(t, os.Remove(p))
	img2, err := c.decode(p)
	require.NoError(t, err, "served from cache")
	assert.Equal(t, img, img2)

	_, err = c.decode(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
