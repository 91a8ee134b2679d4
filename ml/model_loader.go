package ml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// LoadModel reads and decodes the artifact at path.
func LoadModel(path string) (Model, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}
	model, err := DecodeArtifact(payload)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return model, nil
}

// Loader loads the artifact at a fixed path at most once and hands out the
// same model on every call afterwards. A failed load is cached too.
type Loader struct {
	path string
	load func(string) (Model, error)

	once  sync.Once
	model Model
	err   error
}

func NewLoader(path string) *Loader {
	return &Loader{path: path, load: LoadModel}
}

func (l *Loader) Path() string { return l.path }

func (l *Loader) Load() (Model, error) {
	l.once.Do(func() {
		l.model, l.err = l.load(l.path)
	})
	return l.model, l.err
}
