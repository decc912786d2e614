package cardimpl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/planloop/content-planner/internal/blobstore"
	"github.com/planloop/content-planner/internal/card"
	"github.com/planloop/content-planner/internal/collection"
	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/internal/generator"
	"github.com/planloop/content-planner/internal/notifier"
	"github.com/planloop/content-planner/pkg/config"
	apperrors "github.com/planloop/content-planner/pkg/errors"
	"github.com/planloop/content-planner/pkg/id"
	"github.com/planloop/content-planner/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Scope      card.ScopeSource
	Blobs      blobstore.Store
	Generator  generator.Client
	Collection *collection.Collection
	Notifier   notifier.Notifier
	Logger     logger.Logger
	Config     *config.Config
}

type CardImpl struct {
	scope      card.ScopeSource
	blobs      blobstore.Store
	generator  generator.Client
	collection *collection.Collection
	notifier   notifier.Notifier
	logger     logger.Logger
	debounce   time.Duration

	// Pending-save timers, one per record, reset on each edit and
	// cancelled on deletion.
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(opts Opts) *CardImpl {
	return &CardImpl{
		scope:      opts.Scope,
		blobs:      opts.Blobs,
		generator:  opts.Generator,
		collection: opts.Collection,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
		debounce:   opts.Config.Card.SaveDebounce,
		timers:     make(map[string]*time.Timer),
	}
}

var _ card.Controller = (*CardImpl)(nil)

func (c *CardImpl) CreateRecord(ctx context.Context) (domain.ContentRecord, error) {
	recordID, err := id.Generate("rec")
	if err != nil {
		return domain.ContentRecord{}, err
	}

	record := domain.ContentRecord{
		ID:            recordID,
		ScheduledDate: domain.Today(),
		Hashtags:      []string{},
		CreatedAt:     time.Now(),
	}
	c.collection.Append(record)

	if err := c.saveNow(ctx); err != nil {
		return domain.ContentRecord{}, err
	}
	return record, nil
}

func (c *CardImpl) OnFieldChanged(ctx context.Context, recordID string, field card.Field, value string) error {
	ok := c.collection.Update(recordID, func(r *domain.ContentRecord) {
		switch field {
		case card.FieldScheduledDate:
			r.ScheduledDate = value
		case card.FieldTopicContext:
			r.TopicContext = value
		case card.FieldCaption:
			r.Caption = value
		}
	})
	if !ok {
		return fmt.Errorf("record %s: %w", recordID, apperrors.ErrNotFound)
	}

	switch field {
	case card.FieldScheduledDate, card.FieldTopicContext, card.FieldCaption:
	default:
		return fmt.Errorf("unknown field %q: %w", field, apperrors.ErrInvalidInput)
	}

	c.scheduleSave(recordID)
	return nil
}

func (c *CardImpl) OnHashtagsChanged(ctx context.Context, recordID string, tags []string) (bool, error) {
	ok := c.collection.Update(recordID, func(r *domain.ContentRecord) {
		r.Hashtags = append([]string(nil), tags...)
	})
	if !ok {
		return false, fmt.Errorf("record %s: %w", recordID, apperrors.ErrNotFound)
	}

	c.scheduleSave(recordID)
	return len(tags) > domain.MaxHashtags, nil
}

func (c *CardImpl) OnMediaAttached(ctx context.Context, recordID string, kind domain.BlobKind, filename string, data []byte) error {
	if _, ok := c.collection.Get(recordID); !ok {
		return fmt.Errorf("record %s: %w", recordID, apperrors.ErrNotFound)
	}

	if err := c.blobs.Put(ctx, recordID, kind, filename, data); err != nil {
		// The entered text fields are untouched; only the attachment
		// failed.
		c.logger.Error("Media attachment failed", "record", recordID, "kind", kind, "error", err)
		c.notifier.Notify(ctx, "The media file could not be stored. Your card text is unchanged.")
		return err
	}

	c.collection.Update(recordID, func(r *domain.ContentRecord) {
		switch kind {
		case domain.BlobVideo:
			r.VideoBlobRef = filename
		case domain.BlobThumbnail:
			r.ThumbnailBlobRef = filename
		}
	})

	// Attachment saves are immediate, never debounced.
	return c.saveNow(ctx)
}

func (c *CardImpl) OnGenerateRequested(ctx context.Context, recordID string) (*domain.GeneratedContent, error) {
	record, ok := c.collection.Get(recordID)
	if !ok {
		return nil, fmt.Errorf("record %s: %w", recordID, apperrors.ErrNotFound)
	}

	result, err := c.generator.Generate(ctx, record.TopicContext)
	if err != nil {
		return nil, err
	}

	c.collection.Update(recordID, func(r *domain.ContentRecord) {
		r.Caption = result.Caption
		r.Hashtags = append([]string(nil), result.Hashtags...)
	})

	if err := c.saveNow(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *CardImpl) OnDeleteRequested(ctx context.Context, recordID string) error {
	c.cancelPending(recordID)

	// Both removals run even when one fails; neither failure is
	// swallowed.
	blobErr := c.blobs.Delete(ctx, recordID)
	if blobErr != nil {
		c.logger.Error("Blob removal failed", "record", recordID, "error", blobErr)
	}

	c.collection.Remove(recordID)
	saveErr := c.saveNow(ctx)

	if blobErr != nil || saveErr != nil {
		c.notifier.Notify(ctx, "The card could not be fully removed. It may reappear after a reload.")
		return errors.Join(blobErr, saveErr)
	}
	return nil
}

func (c *CardImpl) Flush(ctx context.Context) error {
	c.mu.Lock()
	pending := len(c.timers)
	for recordID, t := range c.timers {
		t.Stop()
		delete(c.timers, recordID)
	}
	c.mu.Unlock()

	if pending == 0 {
		return nil
	}
	return c.saveNow(ctx)
}

// scheduleSave starts or resets the record's pending-save timer. The save
// itself snapshots the collection when the timer fires, so sibling-field
// edits made during the debounce window are never lost.
func (c *CardImpl) scheduleSave(recordID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[recordID]; ok {
		t.Reset(c.debounce)
		return
	}
	c.timers[recordID] = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		delete(c.timers, recordID)
		c.mu.Unlock()

		if err := c.saveNow(context.Background()); err != nil {
			c.logger.Error("Debounced save failed", "record", recordID, "error", err)
		}
	})
}

func (c *CardImpl) cancelPending(recordID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[recordID]; ok {
		t.Stop()
		delete(c.timers, recordID)
	}
}

// saveNow overwrites the active scope's stored collection with the current
// in-memory state. Last write wins on the whole collection.
func (c *CardImpl) saveNow(ctx context.Context) error {
	repo, scope, err := c.scope.ActiveStore()
	if err != nil {
		return err
	}

	if err := repo.SaveAll(ctx, scope, c.collection.Snapshot()); err != nil {
		c.logger.Error("Collection save failed", "scope", scope, "error", err)
		c.notifier.Notify(ctx, "Your latest changes could not be saved.")
		return err
	}
	return nil
}
