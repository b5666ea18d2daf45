package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/umputun/scam-spotter/app/storage"
	"github.com/umputun/scam-spotter/lib/scam"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

//go:generate moq --out mocks/detector.go --pkg mocks --skip-ensure --with-resets . Detector
//go:generate moq --out mocks/stats.go --pkg mocks --skip-ensure --with-resets . Stats

// defaultTemplate is used for checkers without own template and must always exist
const defaultTemplate = "default"

// ScamFilter checks items with scam.Detector and makes replies from templates.
// Reloads corpus and templates on file change.
type ScamFilter struct {
	Detector
	params    ScamConfig
	stats     Stats
	recorders []Recorder

	templates struct {
		sync.RWMutex
		set map[string]*template.Template
	}
}

// ScamConfig is a full set of parameters for scam bot
type ScamConfig struct {
	CorpusFile   string              // corpus json, watched for changes
	TemplatesDir string              // reply templates, <name>.md files, watched for changes
	Functions    scam.FunctionLookup // functions available to function checkers
	WatchDelay   time.Duration       // delay after the last change before reload, watching disabled if 0
	IgnoreName   string              // checker marking legit items, nothing is sent if it matched
	WithSummary  bool                // append matched checkers with confidence to replies
	Dry          bool                // never send replies
}

// Detector is a scam detector interface
type Detector interface {
	Check(ctx context.Context, req scamcheck.Request) (*scam.Result, scamcheck.Verdict, error)
	LoadCorpusFile(path string, funcs scam.FunctionLookup) error
}

// Recorder gets verdicts of all checked items, e.g. to store detections or to notify about them
type Recorder interface {
	Record(ctx context.Context, msg Message, v scamcheck.Verdict) error
}

// RecorderFunc is a function that implements Recorder interface
type RecorderFunc func(ctx context.Context, msg Message, v scamcheck.Verdict) error

// Record calls f(ctx, msg, v)
func (f RecorderFunc) Record(ctx context.Context, msg Message, v scamcheck.Verdict) error {
	return f(ctx, msg, v)
}

// Stats provides counters used by reply templates
type Stats interface {
	All(ctx context.Context) (storage.StatsInfo, error)
}

// TemplateData is passed to reply templates
type TemplateData struct {
	Checked  int                  // number of checked items
	Detected int                  // number of detected items, this one included
	Ordinal  string               // Detected with ordinal suffix, like 21st
	Author   string               // author of the item
	Checks   []scamcheck.Response // matched checkers, best first
	Summary  string               // matched checkers with confidence, one per line
}

// NewScamFilter creates new scam filter. The corpus and templates watcher is started if WatchDelay is set,
// it stops with the context.
func NewScamFilter(ctx context.Context, detector Detector, params ScamConfig) *ScamFilter {
	res := &ScamFilter{Detector: detector, params: params}
	if params.WatchDelay > 0 {
		go func() {
			if err := res.watch(ctx, params.WatchDelay); err != nil {
				log.Printf("[WARN] corpus watcher failed: %v", err)
			}
		}()
	}
	return res
}

// WithStats sets counters source for templates
func (s *ScamFilter) WithStats(st Stats) *ScamFilter {
	s.stats = st
	return s
}

// WithRecorders adds recorders called for every checked item
func (s *ScamFilter) WithRecorders(recorders ...Recorder) *ScamFilter {
	s.recorders = append(s.recorders, recorders...)
	return s
}

// OnMessage checks the item and makes the reply for detected scams.
// Error returned only if the check itself failed, recorders' errors are logged.
func (s *ScamFilter) OnMessage(ctx context.Context, msg Message) (Response, error) {
	if msg.Empty() {
		return Response{}, nil
	}
	res, verdict, err := s.Check(ctx, msg.Request())
	if err != nil {
		return Response{}, fmt.Errorf("can't check %s: %w", msg.ID, err)
	}
	msg.ID = verdict.ID // generated for items without id

	for _, r := range s.recorders {
		if err := r.Record(ctx, msg, verdict); err != nil {
			log.Printf("[WARN] failed to record verdict for %s: %v", msg.ID, err)
		}
	}

	resp := Response{ReplyTo: msg.MsgID, Verdict: verdict}
	if !verdict.Scam() {
		log.Printf("[DEBUG] item %s is clean, images: %d, skipped: %d", msg.ID, verdict.Images, verdict.Skipped)
		return resp, nil
	}

	resp.Report = res.Report()
	log.Printf("[INFO] item %s from %q detected as scam: %s, report: %v",
		msg.ID, DisplayName(msg), scamcheck.ChecksToString(verdict.Checks), resp.Report)

	if s.params.IgnoreName != "" && res.Has(s.params.IgnoreName) {
		log.Printf("[INFO] item %s matched %q, no reply", msg.ID, s.params.IgnoreName)
		resp.Ignored = true
		return resp, nil
	}

	data := TemplateData{Author: DisplayName(msg), Checks: verdict.Checks, Summary: res.String()}
	if s.stats != nil {
		info, err := s.stats.All(ctx)
		if err != nil {
			log.Printf("[WARN] can't get stats: %v", err)
		}
		data.Checked, data.Detected = info.Total, info.Detected
	}
	data.Ordinal = ordinal(data.Detected)

	resp.Template, resp.Text, err = s.render(res.Template(), data)
	if err != nil {
		log.Printf("[WARN] can't make reply for %s: %v", msg.ID, err)
		return resp, nil
	}
	if s.params.WithSummary {
		resp.Text += "\n\n" + strings.TrimSpace(data.Summary)
	}
	resp.Send = !s.params.Dry
	return resp, nil
}

// Reload loads corpus and templates, the current ones are kept on error
func (s *ScamFilter) Reload() error {
	errs := new(multierror.Error)
	if s.params.CorpusFile != "" {
		if err := s.LoadCorpusFile(s.params.CorpusFile, s.params.Functions); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to load corpus %s: %w", s.params.CorpusFile, err))
		}
	}
	if err := s.LoadTemplates(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// LoadTemplates reads all .md files from the templates directory, the template name is the file name
// without extension. The default template is required.
func (s *ScamFilter) LoadTemplates() error {
	files, err := filepath.Glob(filepath.Join(s.params.TemplatesDir, "*.md"))
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	set := map[string]*template.Template{}
	errs := new(multierror.Error)
	for _, f := range files {
		data, err := os.ReadFile(f) //nolint:gosec // path from the admin configured directory
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to read template %s: %w", f, err))
			continue
		}
		name := strings.TrimSuffix(filepath.Base(f), ".md")
		tmpl, err := template.New(name).Option("missingkey=zero").Parse(string(data))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to parse template %s: %w", f, err))
			continue
		}
		set[name] = tmpl
	}
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	if _, ok := set[defaultTemplate]; !ok {
		return fmt.Errorf("no %s.md template in %q", defaultTemplate, s.params.TemplatesDir)
	}

	s.templates.Lock()
	s.templates.set = set
	s.templates.Unlock()
	log.Printf("[INFO] loaded %d templates: %s", len(set), strings.Join(templateNames(set), ", "))
	return nil
}

// Templates returns names of loaded templates
func (s *ScamFilter) Templates() []string {
	s.templates.RLock()
	defer s.templates.RUnlock()
	return templateNames(s.templates.set)
}

// render executes the named template, the default one is used if missing
func (s *ScamFilter) render(name string, data TemplateData) (used, text string, err error) {
	s.templates.RLock()
	tmpl, ok := s.templates.set[name]
	if !ok {
		tmpl, ok = s.templates.set[defaultTemplate]
		name = defaultTemplate
	}
	s.templates.RUnlock()
	if !ok {
		return "", "", errors.New("templates not loaded")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return name, strings.TrimSpace(buf.String()), nil
}

func templateNames(set map[string]*template.Template) []string {
	res := make([]string, 0, len(set))
	for name := range set {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// ordinal returns the number with english ordinal suffix
func ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}
