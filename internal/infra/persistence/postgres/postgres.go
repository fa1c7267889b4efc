package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"rutopia/config"
	"rutopia/internal/domain/lifecycle"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolMonitorInterval     = 5 * time.Second
	poolWaitWarnThreshold   = 50 * time.Millisecond
	errMissingPostgresBlock = "postgres configuration is required for the postgres storage driver"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Spatial SpatialIndex
}

// alertDB owns the connection pool behind the alert store for the lifetime of the app.
type alertDB struct {
	db            *gorm.DB
	sqlDB         *sql.DB
	spatial       SpatialIndex
	logger        *slog.Logger
	autoMigrate   bool
	cancelMonitor context.CancelFunc
}

// New opens the alert database. The pool is pinged, and the schema optionally
// migrated, when the app starts; it is closed when the app stops.
func New(params Params) (*gorm.DB, error) {
	if params.Config.Postgres == nil {
		return nil, errors.New(errMissingPostgresBlock)
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	// Single statements run without GORM's implicit transaction; report appends
	// open an explicit one to hold the row lock.
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	store := &alertDB{
		db:          db,
		sqlDB:       sqlDB,
		spatial:     params.Spatial,
		logger:      params.Logger,
		autoMigrate: params.Config.Storage.AutoMigrate,
	}
	params.Append(fx.Hook{
		OnStart: store.start,
		OnStop:  store.stop,
	})

	return db, nil
}

func (s *alertDB) start(startCtx context.Context) error {
	ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
	defer cancel()

	if err := s.sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping PostgreSQL")
	}

	if s.autoMigrate {
		if err := Migrate(ctx, s.db, s.spatial, s.logger); err != nil {
			return err
		}
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	s.cancelMonitor = cancelMonitor
	go monitorPool(monitorCtx, s.logger, s.sqlDB, poolMonitorInterval)

	s.logger.Info("PostgreSQL alert store ready",
		slog.String("geo_index", s.spatial.Name()),
		slog.Bool("auto_migrate", s.autoMigrate),
	)

	return nil
}

func (s *alertDB) stop(_ context.Context) error {
	if s.cancelMonitor != nil {
		s.cancelMonitor()
	}

	return errors.Wrap(s.sqlDB.Close(), "failed to close PostgreSQL pool")
}

// monitorPool reports connection waits between ticks. Sustained waits mean alert
// reads and writes are queueing for a connection.
func monitorPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			if level, attrs, waited := poolWaitReport(prev, cur); waited {
				logger.LogAttrs(ctx, level, "Alert store connection wait", attrs...)
			}
			prev = cur
		}
	}
}

// poolWaitReport compares two pool snapshots. It reports false when no caller
// waited for a connection in between.
func poolWaitReport(prev, cur sql.DBStats) (slog.Level, []slog.Attr, bool) {
	waits := cur.WaitCount - prev.WaitCount
	if waits <= 0 {
		return slog.LevelDebug, nil, false
	}

	waited := cur.WaitDuration - prev.WaitDuration
	level := slog.LevelDebug
	if waited >= poolWaitWarnThreshold {
		level = slog.LevelWarn
	}

	return level, []slog.Attr{
		slog.Int64("waits", waits),
		slog.Duration("waited", waited),
		slog.Duration("avg_wait", waited/time.Duration(waits)),
		slog.Int("max_open", cur.MaxOpenConnections),
		slog.Int("open", cur.OpenConnections),
		slog.Int("in_use", cur.InUse),
		slog.Int("idle", cur.Idle),
	}, true
}
