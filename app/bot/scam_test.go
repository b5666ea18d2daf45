package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/scam-spotter/app/bot/mocks"
	"github.com/umputun/scam-spotter/app/storage"
	"github.com/umputun/scam-spotter/lib/scam"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

func writeTemplates(t *testing.T, dir string, tmpls map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	for name, body := range tmpls {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".md"), []byte(body), 0o600))
	}
}

// detectorMock returns a detector matching items by title, title "nitro" matches nitro checker and so on
func detectorMock() *mocks.DetectorMock {
	infos := map[string]scam.Info{
		"nitro":      {Name: "nitro", Template: "nitro"},
		"steam":      {Name: "steam", Template: "unknown", Report: true},
		"IgnorePost": {Name: "IgnorePost", Template: "default"},
	}
	return &mocks.DetectorMock{
		CheckFunc: func(_ context.Context, req scamcheck.Request) (*scam.Result, scamcheck.Verdict, error) {
			if req.Title == "error" {
				return nil, scamcheck.Verdict{}, errors.New("corpus not loaded")
			}
			res := scam.NewResult()
			for _, w := range strings.Fields(req.Title) {
				if info, ok := infos[w]; ok {
					res.Add(info, 0.95)
				}
			}
			id := req.ID
			if id == "" {
				id = "generated"
			}
			return res, scamcheck.Verdict{ID: id, Title: req.Title, Checks: res.Responses()}, nil
		},
	}
}

func TestScamFilter_OnMessage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")
	writeTemplates(t, dir, map[string]string{
		"default": "Looks like a scam, {{.Author}}. This is the {{.Ordinal}} scam of {{.Checked}} posts.",
		"nitro":   "Free nitro is a scam.",
	})
	stats := &mocks.StatsMock{AllFunc: func(context.Context) (storage.StatsInfo, error) {
		return storage.StatsInfo{Total: 100, Detected: 21}, nil
	}}

	tests := []struct {
		name    string
		msg     Message
		params  ScamConfig
		want    Response
		wantErr bool
	}{
		{
			name: "clean",
			msg:  Message{ID: "1", MsgID: 10, Title: "hello world"},
			want: Response{ReplyTo: 10, Verdict: scamcheck.Verdict{ID: "1", Title: "hello world", Checks: []scamcheck.Response{}}},
		},
		{
			name: "own template",
			msg:  Message{ID: "2", MsgID: 11, Title: "nitro"},
			want: Response{Text: "Free nitro is a scam.", Send: true, ReplyTo: 11, Template: "nitro",
				Verdict: scamcheck.Verdict{ID: "2", Title: "nitro",
					Checks: []scamcheck.Response{{Name: "nitro", Score: 0.95, Template: "nitro"}}}},
		},
		{
			name: "missing template, default used",
			msg:  Message{ID: "3", Title: "steam", From: User{Username: "bob"}},
			want: Response{Text: "Looks like a scam, bob. This is the 21st scam of 100 posts.", Send: true, Report: true,
				Template: "default", Verdict: scamcheck.Verdict{ID: "3", Title: "steam",
					Checks: []scamcheck.Response{{Name: "steam", Score: 0.95, Template: "unknown", Report: true}}}},
		},
		{
			name:   "dry with summary",
			msg:    Message{ID: "4", Title: "nitro"},
			params: ScamConfig{Dry: true, WithSummary: true},
			want: Response{Text: "Free nitro is a scam.\n\nnitro: 95%", Template: "nitro",
				Verdict: scamcheck.Verdict{ID: "4", Title: "nitro",
					Checks: []scamcheck.Response{{Name: "nitro", Score: 0.95, Template: "nitro"}}}},
		},
		{
			name:   "ignored",
			msg:    Message{ID: "5", Title: "nitro IgnorePost"},
			params: ScamConfig{IgnoreName: "IgnorePost"},
			want: Response{Ignored: true, Verdict: scamcheck.Verdict{ID: "5", Title: "nitro IgnorePost",
				Checks: []scamcheck.Response{{Name: "IgnorePost", Score: 0.95, Template: "default"},
					{Name: "nitro", Score: 0.95, Template: "nitro"}}}},
		},
		{
			name: "empty message not checked",
			msg:  Message{ID: "6", Text: "  "},
			want: Response{},
		},
		{
			name:    "check failed",
			msg:     Message{ID: "7", Title: "error"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recorded []scamcheck.Verdict
			recorder := RecorderFunc(func(_ context.Context, msg Message, v scamcheck.Verdict) error {
				assert.Equal(t, tt.msg.ID, msg.ID)
				recorded = append(recorded, v)
				return errors.New("ignored")
			})
			params := tt.params
			params.TemplatesDir = dir
			s := NewScamFilter(context.Background(), detectorMock(), params).WithStats(stats).WithRecorders(recorder)
			require.NoError(t, s.LoadTemplates())

			resp, err := s.OnMessage(context.Background(), tt.msg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, recorded)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp)
			if tt.msg.Empty() {
				assert.Empty(t, recorded)
				return
			}
			require.Len(t, recorded, 1)
			assert.Equal(t, tt.want.Verdict, recorded[0])
		})
	}
}

func TestScamFilter_GeneratedID(t *testing.T) {
	var got string
	s := NewScamFilter(context.Background(), detectorMock(), ScamConfig{}).WithRecorders(
		RecorderFunc(func(_ context.Context, msg Message, _ scamcheck.Verdict) error {
			got = msg.ID
			return nil
		}))
	_, err := s.OnMessage(context.Background(), Message{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "generated", got)
}

func TestScamFilter_NoTemplates(t *testing.T) {
	s := NewScamFilter(context.Background(), detectorMock(), ScamConfig{})
	resp, err := s.OnMessage(context.Background(), Message{ID: "1", Title: "nitro"})
	require.NoError(t, err, "reply failure is not a check failure")
	assert.False(t, resp.Send)
	assert.True(t, resp.Verdict.Scam())
}

func TestScamFilter_StatsError(t *testing.T) {
	dir := t.TempDir()
	writeTemplates(t, dir, map[string]string{"default": "{{.Checked}}/{{.Ordinal}}"})
	stats := &mocks.StatsMock{AllFunc: func(context.Context) (storage.StatsInfo, error) {
		return storage.StatsInfo{}, errors.New("db is gone")
	}}
	s := NewScamFilter(context.Background(), detectorMock(), ScamConfig{TemplatesDir: dir}).WithStats(stats)
	require.NoError(t, s.LoadTemplates())
	resp, err := s.OnMessage(context.Background(), Message{ID: "1", Title: "nitro"})
	require.NoError(t, err)
	assert.Equal(t, "0/0th", resp.Text)
	assert.Len(t, stats.AllCalls(), 1)
}

func TestScamFilter_LoadTemplates(t *testing.T) {
	t.Run("default required", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplates(t, dir, map[string]string{"nitro": "x"})
		s := NewScamFilter(context.Background(), detectorMock(), ScamConfig{TemplatesDir: dir})
		require.ErrorContains(t, s.LoadTemplates(), "no default.md template")
	})

	t.Run("bad template keeps loaded ones", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplates(t, dir, map[string]string{"default": "ok", "nitro": "nitro"})
		require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("{{.Broken"), 0o600))
		s := NewScamFilter(context.Background(), detectorMock(), ScamConfig{TemplatesDir: dir})
		require.NoError(t, s.LoadTemplates())
		assert.Equal(t, []string{"default", "nitro"}, s.Templates())

		writeTemplates(t, dir, map[string]string{"steam": "{{.Broken"})
		require.ErrorContains(t, s.LoadTemplates(), "failed to parse template")
		assert.Equal(t, []string{"default", "nitro"}, s.Templates())
	})
}

func TestScamFilter_Reload(t *testing.T) {
	dir := t.TempDir()
	writeTemplates(t, filepath.Join(dir, "templates"), map[string]string{"default": "ok"})
	det := detectorMock()
	det.LoadCorpusFileFunc = func(path string, _ scam.FunctionLookup) error {
		if strings.HasSuffix(path, "bad.json") {
			return errors.New("bad corpus")
		}
		return nil
	}
	reg := scam.NewRegistry()

	s := NewScamFilter(context.Background(), det, ScamConfig{CorpusFile: filepath.Join(dir, "corpus.json"),
		TemplatesDir: filepath.Join(dir, "templates"), Functions: reg})
	require.NoError(t, s.Reload())
	require.Len(t, det.LoadCorpusFileCalls(), 1)
	assert.Equal(t, filepath.Join(dir, "corpus.json"), det.LoadCorpusFileCalls()[0].Path)
	assert.Equal(t, reg, det.LoadCorpusFileCalls()[0].Funcs)

	s = NewScamFilter(context.Background(), det, ScamConfig{CorpusFile: filepath.Join(dir, "bad.json"),
		TemplatesDir: filepath.Join(dir, "no-templates")})
	err := s.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad corpus")
	assert.Contains(t, err.Error(), "no default.md template")
}

func TestOrdinal(t *testing.T) {
	tbl := map[int]string{0: "0th", 1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 101: "101st", 111: "111th", 1003: "1003rd"}
	for n, want := range tbl {
		assert.Equal(t, want, ordinal(n), n)
	}
}

func TestScamFilter_Watch(t *testing.T) {
	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "templates")
	writeTemplates(t, tmplDir, map[string]string{"default": "v1"})
	corpus := filepath.Join(dir, "corpus.json")
	require.NoError(t, os.WriteFile(corpus, []byte(`{"scams": []}`), 0o600))

	det := detectorMock()
	det.LoadCorpusFileFunc = func(string, scam.FunctionLookup) error { return nil }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewScamFilter(ctx, det, ScamConfig{CorpusFile: corpus, TemplatesDir: tmplDir, WatchDelay: 50 * time.Millisecond})
	require.NoError(t, s.Reload())
	det.ResetCalls()
	time.Sleep(100 * time.Millisecond) // let the watcher start

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, det.LoadCorpusFileCalls(), "unrelated file ignored")

	for range 3 {
		require.NoError(t, os.WriteFile(corpus, []byte(`{"scams": [{"name": "a"}]}`), 0o600))
	}
	writeTemplates(t, tmplDir, map[string]string{"nitro": "v2"})
	assert.Eventually(t, func() bool { return len(det.LoadCorpusFileCalls()) == 1 }, time.Second, 20*time.Millisecond)
	assert.Eventually(t, func() bool { return len(s.Templates()) == 2 }, time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, det.LoadCorpusFileCalls(), 1, "changes debounced into a single reload")
}

func TestScamFilter_WatchMissingDir(t *testing.T) {
	s := &ScamFilter{params: ScamConfig{TemplatesDir: "/no/such/dir"}}
	err := s.watch(context.Background(), time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
