package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"
)

// ignoredDirs are never watched.
var ignoredDirs = map[string]bool{
	".git":         true,
	".idea":        true,
	".vscode":      true,
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
}

// runWatch generates once, then regenerates whenever a Go source file (or
// the manifest) changes, until ctx is cancelled.
func runWatch(ctx context.Context, p *pipeline, out, errOut io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, p); err != nil {
		return err
	}

	var mu sync.Mutex
	regenerate := func() {
		mu.Lock()
		defer mu.Unlock()

		if err := p.generate(ctx, out, errOut); err != nil && !errors.Is(err, ErrDiagnostics) {
			p.log.Error("Generation failed", "error", err)
		}
	}

	regenerate()

	trigger, cancel := debounce.NewWithMaxWait(p.cfg.Watch.Debounce, p.cfg.Watch.MaxWait, regenerate)
	defer cancel()

	p.log.Info("Watching for changes", "dir", p.cfg.Dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !ignoredDirs[info.Name()] {
					_ = watcher.Add(event.Name)
				}
			}

			if p.relevant(event) {
				p.log.Debug("Detected change", "file", event.Name, "op", event.Op.String())
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			p.log.Error("Watcher error", "error", err)
		}
	}
}

// watchTree adds every directory below Dir, or the manifest's directory in
// manifest mode.
func watchTree(watcher *fsnotify.Watcher, p *pipeline) error {
	if p.cfg.Manifest != "" {
		return watcher.Add(filepath.Dir(p.manifestPath()))
	}

	return filepath.WalkDir(p.cfg.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != p.cfg.Dir && ignoredDirs[d.Name()] {
			return filepath.SkipDir
		}

		if err := watcher.Add(path); err != nil {
			p.log.Warn("Failed to watch directory", "path", path, "error", err)
		}

		return nil
	})
}

// relevant reports whether an event can change the generated output. The
// generator's own files are ignored so that writing them does not loop.
func (p *pipeline) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if p.cfg.Manifest != "" {
		return filepath.Clean(event.Name) == filepath.Clean(p.manifestPath())
	}

	name := filepath.Base(event.Name)
	if name == p.cfg.Output || strings.HasSuffix(name, ".unformatted.go") {
		return false
	}

	return strings.HasSuffix(name, ".go")
}
