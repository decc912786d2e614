package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/planloop/content-planner/internal/domain"
	apperrors "github.com/planloop/content-planner/pkg/errors"
	"github.com/planloop/content-planner/pkg/logger"
)

const contentPrefix = "content:"

// LocalRepository keeps guest collections in the local Badger database under
// a scope-qualified key.
type LocalRepository struct {
	db     *badger.DB
	logger logger.Logger
}

func NewLocalRepository(db *badger.DB, logger logger.Logger) *LocalRepository {
	return &LocalRepository{
		db:     db,
		logger: logger,
	}
}

var _ Repository = (*LocalRepository)(nil)

func (r *LocalRepository) LoadAll(ctx context.Context, scope domain.Scope) ([]domain.ContentRecord, LoadOutcome, error) {
	key := []byte(contentPrefix + string(scope))

	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, LoadEmpty, nil
		}
		return nil, LoadFailed, fmt.Errorf("load collection for scope %s: %w", scope, errors.Join(apperrors.ErrStorageFailure, err))
	}

	var records []domain.ContentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		// Unreadable saved data is dropped so the app keeps working.
		r.logger.Error("Stored collection is corrupt, clearing it", "scope", scope, "error", err)
		if derr := r.db.Update(func(txn *badger.Txn) error { return txn.Delete(key) }); derr != nil {
			r.logger.Error("Failed to clear corrupt collection", "scope", scope, "error", derr)
		}
		return nil, LoadFailed, fmt.Errorf("decode collection for scope %s: %w", scope, err)
	}

	if len(records) == 0 {
		return nil, LoadEmpty, nil
	}
	return records, LoadOK, nil
}

func (r *LocalRepository) SaveAll(ctx context.Context, scope domain.Scope, records []domain.ContentRecord) error {
	if records == nil {
		records = []domain.ContentRecord{}
	}

	buf, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection for scope %s: %w", scope, err)
	}

	key := []byte(contentPrefix + string(scope))
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
	if err != nil {
		return fmt.Errorf("save collection for scope %s: %w", scope, errors.Join(apperrors.ErrStorageFailure, err))
	}

	return nil
}

// Scopes lists every scope with a locally stored collection. The maintenance
// sweep uses it to find which records are still referenced.
func (r *LocalRepository) Scopes(ctx context.Context) ([]domain.Scope, error) {
	var scopes []domain.Scope
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(contentPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			scopes = append(scopes, domain.Scope(key[len(contentPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list local scopes: %w", errors.Join(apperrors.ErrStorageFailure, err))
	}

	return scopes, nil
}
