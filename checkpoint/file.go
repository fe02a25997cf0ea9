package checkpoint

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/ceyewan/trialkit/xerrors"
)

const fileExt = ".ckpt"

type fileBackend struct {
	dir string
}

func newFileBackend(cfg *Config) (backend, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, xerrors.Wrapf(err, "create checkpoint dir %s", cfg.Dir)
	}
	return &fileBackend{dir: cfg.Dir}, nil
}

// path 键经过转义，"/" 等字符不会逃出目录
func (f *fileBackend) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+fileExt)
}

func (f *fileBackend) put(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *fileBackend) get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (f *fileBackend) del(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f *fileBackend) close() error { return nil }
