// AngelaMos | 2026
// open.go

package store

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/course-gate/internal/config"
	"github.com/carterperez-dev/templates/course-gate/internal/core"
)

// Opened is a ready backend plus the connection that must be closed with it.
// DB or Redis is set when the backend runs on that connection.
type Opened struct {
	Backend Backend
	Name    string
	DB      *core.Database
	Redis   *core.Redis
	closeFn func() error
}

func (o *Opened) Close() error {
	if err := o.Backend.Close(); err != nil {
		return err
	}
	if o.closeFn != nil {
		return o.closeFn()
	}
	return nil
}

func Open(ctx context.Context, cfg *config.Config) (*Opened, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return &Opened{Backend: NewMemory(), Name: config.BackendMemory}, nil

	case config.BackendRedis:
		rdb, err := core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Opened{
			Backend: NewRedis(rdb.Client, cfg.Storage.Prefix),
			Name:    config.BackendRedis,
			Redis:   rdb,
			closeFn: rdb.Close,
		}, nil

	case config.BackendPostgres:
		db, err := core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return openSQL(ctx, db, config.BackendPostgres)

	case config.BackendSQLite:
		db, err := core.NewSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return openSQL(ctx, db, config.BackendSQLite)
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func openSQL(ctx context.Context, db *core.Database, name string) (*Opened, error) {
	backend, err := NewSQL(ctx, db.DB)
	if err != nil {
		_ = db.Close() //nolint:errcheck // cleanup on schema failure
		return nil, err
	}
	return &Opened{Backend: backend, Name: name, DB: db, closeFn: db.Close}, nil
}
