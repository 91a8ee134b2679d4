package ml

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ArtifactWatcher reports changes to the artifact file on disk. It never
// reloads the model: the loaded model stays fixed for the process lifetime.
type ArtifactWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewArtifactWatcher starts watching the directory holding path, so that
// replace-by-rename writes are seen as well.
func NewArtifactWatcher(path string) (*ArtifactWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &ArtifactWatcher{path: abs, watcher: w}, nil
}

// Run calls onChange for every write, create, rename or remove of the artifact
// and onError for watcher errors, until ctx is done.
func (aw *ArtifactWatcher) Run(ctx context.Context, onChange func(fsnotify.Event), onError func(error)) error {
	defer aw.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-aw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != aw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				onChange(event)
			}
		case err, ok := <-aw.watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
