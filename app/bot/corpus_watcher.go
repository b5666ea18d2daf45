package bot

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
)

// watch watches for changes of the corpus and templates and reloads them.
// Directories are watched instead of files, editors often replace files on save.
// delay is a time to wait after the last change before reloading to avoid multiple reloads
func (s *ScamFilter) watch(ctx context.Context, delay time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	errs := new(multierror.Error)
	dirs := map[string]bool{}
	if s.params.CorpusFile != "" {
		dirs[filepath.Dir(s.params.CorpusFile)] = true
	}
	if s.params.TemplatesDir != "" {
		dirs[filepath.Clean(s.params.TemplatesDir)] = true
	}
	for dir := range dirs {
		log.Printf("[DEBUG] add %q to watcher", dir)
		if err := watcher.Add(dir); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to watch %q: %w", dir, err))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("failed to add some directories to watcher: %w", err)
	}

	reloadTimer := time.NewTimer(delay)
	reloadTimer.Stop()
	reloadPending := false

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping corpus watcher: %v", ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.isWatched(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			log.Printf("[DEBUG] file %q updated, op: %v", event.Name, event.Op)
			if !reloadPending {
				reloadPending = true
				reloadTimer.Reset(delay)
			}
		case <-reloadTimer.C:
			if !reloadPending {
				continue
			}
			reloadPending = false
			if err := s.Reload(); err != nil {
				log.Printf("[WARN] reload failed, previous corpus and templates kept: %v", err)
			}
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		}
	}
}

// isWatched checks if the changed file is the corpus or a template
func (s *ScamFilter) isWatched(name string) bool {
	name = filepath.Clean(name)
	if s.params.CorpusFile != "" && name == filepath.Clean(s.params.CorpusFile) {
		return true
	}
	return s.params.TemplatesDir != "" && filepath.Dir(name) == filepath.Clean(s.params.TemplatesDir) &&
		strings.HasSuffix(name, ".md")
}
