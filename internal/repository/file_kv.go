package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/nikolayk812/notesmarket/internal/port"
)

var fileKeyRE = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// fileKV keeps one file per key under dir. Writes go through a temp file
// and a rename so a reader never sees a partial value.
type fileKV struct {
	mu  sync.Mutex
	dir string
}

func NewFileKV(dir string) (port.KVStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	return &fileKV{dir: dir}, nil
}

func (f *fileKV) Get(_ context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.read(key, path)
}

func (f *fileKV) Set(_ context.Context, key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.write(path, value)
}

func (f *fileKV) Delete(_ context.Context, key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove: %w", err)
	}

	return nil
}

func (f *fileKV) Update(_ context.Context, key string, fn port.UpdateFunc) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read(key, path)
	found := err == nil
	if err != nil && !errors.Is(err, port.ErrNotFound) {
		return err
	}

	next, err := fn(current, found)
	if err != nil {
		return err
	}

	return f.write(path, next)
}

func (f *fileKV) Close() error {
	return nil
}

func (f *fileKV) path(key string) (string, error) {
	if !fileKeyRE.MatchString(key) {
		return "", fmt.Errorf("key[%s] is not valid", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *fileKV) read(key, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("key[%s]: %w", key, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	return data, nil
}

func (f *fileKV) write(path string, value []byte) (err error) {
	tmp, err := os.CreateTemp(f.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(tmp.Name()))
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}
