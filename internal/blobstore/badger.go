package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/planloop/content-planner/internal/domain"
	apperrors "github.com/planloop/content-planner/pkg/errors"
	"github.com/planloop/content-planner/pkg/logger"
)

const blobPrefix = "blob:"

// BadgerStore persists blob entries in the local Badger database.
type BadgerStore struct {
	db     *badger.DB
	logger logger.Logger

	// Serializes the read-modify-write of Put per record id so that a video
	// and a thumbnail attached at the same time cannot lose each other.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBadgerStore(db *badger.DB, logger logger.Logger) *BadgerStore {
	return &BadgerStore{
		db:     db,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

var _ Store = (*BadgerStore)(nil)

func (s *BadgerStore) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *BadgerStore) Put(ctx context.Context, id string, kind domain.BlobKind, name string, data []byte) error {
	if id == "" {
		return fmt.Errorf("blob id is required: %w", apperrors.ErrInvalidInput)
	}

	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	key := []byte(blobPrefix + id)

	err := s.db.Update(func(txn *badger.Txn) error {
		entry := domain.BlobEntry{ID: id}

		item, err := txn.Get(key)
		switch {
		case err == nil:
			verr := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if verr != nil {
				// A corrupt entry is overwritten rather than kept poisoning
				// every later write.
				s.logger.Warn("Discarding unreadable blob entry", "id", id, "error", verr)
				entry = domain.BlobEntry{ID: id}
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			// First attachment for this record, entry created lazily.
		default:
			return err
		}

		switch kind {
		case domain.BlobVideo:
			entry.Video = data
			entry.VideoName = name
		case domain.BlobThumbnail:
			entry.Thumbnail = data
			entry.ThumbnailName = name
		default:
			return fmt.Errorf("unknown blob kind %q: %w", kind, apperrors.ErrInvalidInput)
		}
		entry.UpdatedAt = time.Now()

		buf, err := json.Marshal(&entry)
		if err != nil {
			return fmt.Errorf("marshal blob entry: %w", err)
		}
		return txn.Set(key, buf)
	})
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			return err
		}
		return fmt.Errorf("put blob %s/%s: %w", id, kind, errors.Join(apperrors.ErrStorageFailure, err))
	}

	return nil
}

func (s *BadgerStore) Get(ctx context.Context, id string) (*domain.BlobEntry, error) {
	key := []byte(blobPrefix + id)

	var entry domain.BlobEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blob %s: %w", id, errors.Join(apperrors.ErrStorageFailure, err))
	}

	return &entry, nil
}

func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(blobPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", id, errors.Join(apperrors.ErrStorageFailure, err))
	}

	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()

	return nil
}

func (s *BadgerStore) Keys(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(blobPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), blobPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list blob keys: %w", errors.Join(apperrors.ErrStorageFailure, err))
	}

	return ids, nil
}
