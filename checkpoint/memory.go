package checkpoint

import (
	"context"

	"github.com/maypok86/otter/v2"

	"github.com/ceyewan/trialkit/xerrors"
)

type memoryBackend struct {
	cache *otter.Cache[string, []byte]
}

func newMemoryBackend(cfg *Config) (backend, error) {
	opts := &otter.Options[string, []byte]{
		MaximumSize: cfg.Capacity,
	}
	// 过期时间从写入开始计算，读取不会续期，与 redis TTL 语义一致
	if cfg.TTL > 0 {
		opts.ExpiryCalculator = otter.ExpiryWriting[string, []byte](cfg.TTL)
	}

	cache, err := otter.New(opts)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to build otter cache")
	}
	return &memoryBackend{cache: cache}, nil
}

func (m *memoryBackend) put(_ context.Context, key string, data []byte) error {
	m.cache.Set(key, data)
	return nil
}

func (m *memoryBackend) get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.cache.GetIfPresent(key)
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *memoryBackend) del(_ context.Context, key string) error {
	m.cache.Invalidate(key)
	return nil
}

func (m *memoryBackend) close() error {
	m.cache.InvalidateAll()
	m.cache.StopAllGoroutines()
	return nil
}
