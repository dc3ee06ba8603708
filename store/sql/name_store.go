package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-apps/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AppNameStore persists registered app names so lookup diagnostics survive
// process restarts. Rows are keyed by the url-safe persistence key, never by
// the raw name, so names with arbitrary characters index cleanly.
type AppNameStore struct {
	db   *bun.DB
	repo repository.Repository[*appNameRecord]
}

func NewAppNameStore(db *bun.DB) (*AppNameStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*appNameRecord](db, appNameHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid app name repository wiring: %w", err)
		}
	}
	return &AppNameStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *AppNameStore) Persist(ctx context.Context, name string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: app name store is not configured")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("sqlstore: app name is required")
	}
	nameKey := core.PersistenceKey(trimmed)
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := findAppNameTx(ctx, tx, nameKey)
		if err != nil {
			return err
		}
		if existing == nil {
			record := &appNameRecord{
				ID:        uuid.NewString(),
				Name:      trimmed,
				NameKey:   nameKey,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, insertErr := tx.NewInsert().Model(record).Exec(ctx); insertErr != nil {
				return insertErr
			}
			return nil
		}
		existing.Name = trimmed
		existing.UpdatedAt = now
		if _, updateErr := tx.NewUpdate().
			Model(existing).
			Where("id = ?", existing.ID).
			Exec(ctx); updateErr != nil {
			return updateErr
		}
		return nil
	})
}

func (s *AppNameStore) Remove(ctx context.Context, name string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: app name store is not configured")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("sqlstore: app name is required")
	}
	_, err := s.db.NewDelete().
		Model((*appNameRecord)(nil)).
		Where("name_key = ?", core.PersistenceKey(trimmed)).
		Exec(ctx)
	return err
}

func (s *AppNameStore) ListNames(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: app name store is not configured")
	}
	var records []*appNameRecord
	err := s.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}
	return names, nil
}

func findAppNameTx(ctx context.Context, tx bun.Tx, nameKey string) (*appNameRecord, error) {
	record := &appNameRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name_key = ?", nameKey).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}
