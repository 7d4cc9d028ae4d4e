package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/mdxoutline/internal/models"
)

// ModifiedFunc receives a "content modified" notification for one document.
type ModifiedFunc func(ctx context.Context, doc models.Document)

// Watch starts an fsnotify watcher on the vault root and reports content
// writes as modification notifications until ctx is cancelled.
//
// Writes and file creations are reported; a creation covers editors that
// save by renaming a temp file over the document. Removes and renames away
// are not observed, so artifacts of deleted or renamed documents stay
// behind. New directories created at runtime are added to the watch list;
// hidden directories (the cache directory among them) are never watched.
func Watch(ctx context.Context, vaultRoot string, logger *slog.Logger, onModified ModifiedFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", vaultRoot))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if hidden(info.Name()) {
						continue
					}
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || hidden(filepath.Base(ev.Name)) {
				continue
			}

			rel, relErr := filepath.Rel(vaultRoot, ev.Name)
			if relErr != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			doc := models.NewDocument(filepath.ToSlash(rel))
			logger.Debug("watcher: modified", slog.String("path", doc.Path))
			onModified(ctx, doc)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
