// Package migration applies the database schema. It must be run explicitly
// by the migrate entrypoint before serving traffic.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	branchdomain "github.com/movecrewlabs/movecrew/internal/branch/domain"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	customerdomain "github.com/movecrewlabs/movecrew/internal/customer/domain"
	estimatedomain "github.com/movecrewlabs/movecrew/internal/estimate/domain"
	templatedomain "github.com/movecrewlabs/movecrew/internal/template/domain"
)

const advisoryLockKey int64 = 7_155_203_418

// Models lists every persisted type in migration order. Parents precede
// children so foreign keys resolve on a fresh database.
func Models() []any {
	return []any{
		&branchdomain.Branch{},
		&customerdomain.Customer{},
		&catalogdomain.ChargeCategory{},
		&catalogdomain.ChargeDefinition{},
		&templatedomain.EstimateTemplate{},
		&templatedomain.TemplateLineItem{},
		&estimatedomain.Estimate{},
		&estimatedomain.EstimateLineItem{},
	}
}

// RunMigrations brings the schema up to date. On postgres it serializes
// concurrent runs with an advisory lock; sqlite runs are single-process.
func RunMigrations(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if db.Name() == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("unwrap database handle: %w", err)
		}
		unlock, err := acquireAdvisoryLock(ctx, sqlDB)
		if err != nil {
			return err
		}
		defer func() {
			_ = unlock(context.Background())
		}()
	}

	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

type unlockFunc func(ctx context.Context) error

func acquireAdvisoryLock(ctx context.Context, db *sql.DB) (unlockFunc, error) {
	var locked bool
	err := db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", advisoryLockKey).Scan(&locked)
	if err != nil {
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another migration process holds the advisory lock")
	}

	return func(unlockCtx context.Context) error {
		var released bool
		if err := db.QueryRowContext(unlockCtx, "SELECT pg_advisory_unlock($1)", advisoryLockKey).Scan(&released); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		if !released {
			return errors.New("advisory lock was not held by this session")
		}
		return nil
	}, nil
}
