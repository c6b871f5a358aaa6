package trainer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-pkgz/fileutils"
	"github.com/hashicorp/go-multierror"
)

// Watch watches sample files for changes and reloads samples, blocks until ctx is done.
// WatchDelay is a time to wait after the last change before reloading to avoid multiple reloads.
// Dynamic files are watched through their directories, so they may be created later.
func (t *Trainer) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	files, dirs := t.watchTargets()
	errs := new(multierror.Error)
	for _, f := range files {
		if !fileutils.IsFile(f) {
			errs = multierror.Append(errs, fmt.Errorf("file %q not found", f))
			continue
		}
		log.Printf("[DEBUG] add file %q to watcher", f)
		errs = multierror.Append(errs, watcher.Add(f))
	}
	for _, d := range dirs {
		log.Printf("[DEBUG] add dir %q to watcher", d)
		errs = multierror.Append(errs, watcher.Add(d))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("failed to add some files to watcher: %w", err)
	}

	delay := t.params.WatchDelay
	if delay <= 0 {
		delay = time.Second
	}
	reloadTimer := time.NewTimer(delay)
	reloadTimer.Stop()
	defer reloadTimer.Stop()
	reloadPending := false

	watched := make(map[string]bool, len(files)+len(dirs))
	for _, f := range files {
		watched[filepath.Clean(f)] = true
	}
	for _, cls := range t.params.Classes {
		if cls.DynamicFile != "" {
			watched[filepath.Clean(cls.DynamicFile)] = true
		}
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping watcher for samples: %v", ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] || event.Op == fsnotify.Chmod {
				continue
			}
			log.Printf("[DEBUG] file %q updated, op: %v", event.Name, event.Op)
			if !reloadPending {
				reloadPending = true
				reloadTimer.Reset(delay)
			}
		case <-reloadTimer.C:
			if reloadPending {
				reloadPending = false
				if _, err := t.Reload(ctx); err != nil {
					log.Printf("[WARN] %v", err)
				}
			}
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		}
	}
}

// watchTargets returns preset sample files to watch directly and directories of dynamic files
func (t *Trainer) watchTargets() (files, dirs []string) {
	seenDirs := map[string]bool{}
	for _, cls := range t.params.Classes {
		if cls.SamplesFile != "" {
			files = append(files, cls.SamplesFile)
		}
		if cls.DynamicFile == "" {
			continue
		}
		dir := filepath.Dir(cls.DynamicFile)
		if !seenDirs[dir] {
			seenDirs[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return files, dirs
}
