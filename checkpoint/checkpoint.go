// Package checkpoint 按键持久化 trial 快照。
//
// 支持四种驱动：
//   - memory: 进程内 otter 缓存，容量有上限，可设置 TTL
//   - file: 每个键一个文件，写入通过临时文件加 rename 保证原子性
//   - sqlite: GORM 表 trial_checkpoints，同键覆盖写
//   - redis: SET / GET / DEL，可设置 TTL
//
// 快照先经 serializer 编码为字节再交给驱动，因此各驱动的读写语义一致：
// Load 返回的总是一份独立的副本。
//
// 基本使用：
//
//	store, err := checkpoint.New(&checkpoint.Config{Driver: "file", Dir: "./ckpt"},
//		checkpoint.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	if err := store.Save(ctx, t.ID, t.GetConfig()); err != nil {
//		return err
//	}
package checkpoint

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/metrics"
	"github.com/ceyewan/trialkit/serializer"
	"github.com/ceyewan/trialkit/trial"
	"github.com/ceyewan/trialkit/xerrors"
)

// Store trial 快照存储，并发安全
type Store interface {
	// Save 保存快照，同键覆盖
	Save(ctx context.Context, key string, cfg *trial.Config) error

	// Load 读取快照，键不存在时返回 ErrNotFound
	Load(ctx context.Context, key string) (*trial.Config, error)

	// Delete 删除快照，键不存在时不报错
	Delete(ctx context.Context, key string) error

	// Close 释放驱动自身持有的资源，借用的连接器不会被关闭
	Close() error
}

// backend 驱动只处理字节
type backend interface {
	put(ctx context.Context, key string, data []byte) error
	get(ctx context.Context, key string) ([]byte, error)
	del(ctx context.Context, key string) error
	close() error
}

const (
	MetricOps      = "trialkit_checkpoint_ops_total"
	MetricDuration = "trialkit_checkpoint_op_duration_seconds"
)

type store struct {
	driver   string
	backend  backend
	codec    serializer.Serializer
	logger   clog.Logger
	ops      metrics.Counter
	duration metrics.Histogram
	closed   atomic.Bool
}

// New 按配置创建 Store，cfg 为 nil 时使用 DefaultConfig()
func New(cfg *Config, opts ...Option) (Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	codec, err := serializer.New(cfg.Serializer)
	if err != nil {
		return nil, xerrors.Wrapf(ErrInvalidConfig, "%v", err)
	}

	o := applyOptions(opts)
	s := &store{
		driver: cfg.Driver,
		codec:  codec,
		logger: o.logger.With(clog.String("driver", cfg.Driver)),
	}

	if s.ops, err = o.meter.Counter(MetricOps, "checkpoint 操作次数"); err != nil {
		return nil, xerrors.Wrap(err, "create checkpoint counter")
	}
	if s.duration, err = o.meter.Histogram(MetricDuration, "checkpoint 操作耗时",
		metrics.WithUnit("s"), metrics.WithBuckets(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1)); err != nil {
		return nil, xerrors.Wrap(err, "create checkpoint histogram")
	}

	var b backend
	switch cfg.Driver {
	case DriverMemory:
		b, err = newMemoryBackend(cfg)
	case DriverFile:
		b, err = newFileBackend(cfg)
	case DriverSQLite:
		b, err = newSQLiteBackend(o.sqlite)
	case DriverRedis:
		b, err = newRedisBackend(cfg, o.redis)
	}
	if err != nil {
		return nil, err
	}
	s.backend = b

	s.logger.Info("checkpoint store ready", clog.String("serializer", codec.Name()))
	return s, nil
}

func (s *store) Save(ctx context.Context, key string, cfg *trial.Config) (err error) {
	defer s.observe(ctx, "save", time.Now(), &err)

	if err = s.check(key); err != nil {
		return err
	}
	if cfg == nil {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "checkpoint %q: nil config", key)
	}

	data, err := s.codec.Marshal(cfg)
	if err != nil {
		return xerrors.Wrapf(err, "checkpoint %q: encode", key)
	}
	if err = s.backend.put(ctx, key, data); err != nil {
		return xerrors.Wrapf(err, "checkpoint %q: save", key)
	}
	return nil
}

func (s *store) Load(ctx context.Context, key string) (_ *trial.Config, err error) {
	defer s.observe(ctx, "load", time.Now(), &err)

	if err = s.check(key); err != nil {
		return nil, err
	}

	data, err := s.backend.get(ctx, key)
	if err != nil {
		return nil, xerrors.Wrapf(err, "checkpoint %q", key)
	}

	var cfg trial.Config
	if err = s.codec.Unmarshal(data, &cfg); err != nil {
		return nil, xerrors.Wrapf(err, "checkpoint %q: decode", key)
	}
	return &cfg, nil
}

func (s *store) Delete(ctx context.Context, key string) (err error) {
	defer s.observe(ctx, "delete", time.Now(), &err)

	if err = s.check(key); err != nil {
		return err
	}
	if err = s.backend.del(ctx, key); err != nil {
		return xerrors.Wrapf(err, "checkpoint %q: delete", key)
	}
	return nil
}

func (s *store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Info("closing checkpoint store")
	return s.backend.close()
}

func (s *store) check(key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if key == "" {
		return xerrors.Wrap(ErrInvalidKey, "empty key")
	}
	return nil
}

// observe 记录一次操作的结果与耗时，未找到不算错误
func (s *store) observe(ctx context.Context, op string, start time.Time, errp *error) {
	outcome := "ok"
	switch err := *errp; {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
		errField := clog.Error(err)
		if code := xerrors.GetCode(err); code != "" {
			errField = clog.ErrorWithCode(err, code)
		}
		s.logger.Warn("checkpoint operation failed", clog.String("op", op), errField)
	}

	s.ops.Inc(ctx, metrics.L("op", op), metrics.L("driver", s.driver), metrics.L("outcome", outcome))
	s.duration.Record(ctx, time.Since(start).Seconds(), metrics.L("op", op), metrics.L("driver", s.driver))
}
