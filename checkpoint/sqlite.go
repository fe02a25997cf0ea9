package checkpoint

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ceyewan/trialkit/connector"
	"github.com/ceyewan/trialkit/xerrors"
)

// checkpointRecord trial_checkpoints 表的一行
type checkpointRecord struct {
	Key       string `gorm:"column:ckpt_key;primaryKey;size:255"`
	Data      []byte `gorm:"column:data;not null"`
	UpdatedAt time.Time
}

func (checkpointRecord) TableName() string {
	return "trial_checkpoints"
}

type sqliteBackend struct {
	conn connector.SQLiteConnector
}

// newSQLiteBackend 连接器必须已 Connect，建表在这里完成
func newSQLiteBackend(conn connector.SQLiteConnector) (backend, error) {
	if conn == nil {
		return nil, xerrors.Wrap(ErrInvalidConfig, "sqlite driver requires WithSQLiteConnector")
	}
	db := conn.GetClient()
	if db == nil {
		return nil, xerrors.Wrapf(connector.ErrClientNil, "sqlite connector[%s] is not connected", conn.Name())
	}
	if err := db.AutoMigrate(&checkpointRecord{}); err != nil {
		return nil, xerrors.Wrap(err, "migrate trial_checkpoints")
	}
	return &sqliteBackend{conn: conn}, nil
}

func (b *sqliteBackend) db(ctx context.Context) (*gorm.DB, error) {
	db := b.conn.GetClient()
	if db == nil {
		return nil, xerrors.Wrapf(connector.ErrClientNil, "sqlite connector[%s]", b.conn.Name())
	}
	return db.WithContext(ctx), nil
}

func (b *sqliteBackend) put(ctx context.Context, key string, data []byte) error {
	db, err := b.db(ctx)
	if err != nil {
		return err
	}
	rec := checkpointRecord{Key: key, Data: data}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ckpt_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
}

func (b *sqliteBackend) get(ctx context.Context, key string) ([]byte, error) {
	db, err := b.db(ctx)
	if err != nil {
		return nil, err
	}
	var rec checkpointRecord
	err = db.Where("ckpt_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

func (b *sqliteBackend) del(ctx context.Context, key string) error {
	db, err := b.db(ctx)
	if err != nil {
		return err
	}
	return db.Where("ckpt_key = ?", key).Delete(&checkpointRecord{}).Error
}

func (b *sqliteBackend) close() error { return nil }
