package card

import (
	"context"

	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/internal/repositories/content"
)

// Field names a text field of a content record that the UI can edit.
type Field string

const (
	FieldScheduledDate Field = "scheduledDate"
	FieldTopicContext  Field = "topicContext"
	FieldCaption       Field = "caption"
)

// ScopeSource is the slice of the session coordinator the controller needs:
// which metadata backend is active right now, and under which scope.
type ScopeSource interface {
	ActiveStore() (content.Repository, domain.Scope, error)
}

// Controller orchestrates record lifecycles. The UI collaborator emits
// commands into it; the controller owns no UI references. Text edits are
// debounced into a save, media attachments and deletions save immediately,
// and every save persists the full collection as it stands at fire time.
type Controller interface {
	// CreateRecord appends a new empty record dated today and persists it.
	CreateRecord(ctx context.Context) (domain.ContentRecord, error)
	// OnFieldChanged applies a text edit and schedules a debounced save.
	OnFieldChanged(ctx context.Context, id string, field Field, value string) error
	// OnHashtagsChanged replaces the record's hashtags. Exceeding the
	// recommended ceiling returns overflow=true; the record is persisted
	// with every entry regardless.
	OnHashtagsChanged(ctx context.Context, id string, tags []string) (overflow bool, err error)
	// OnMediaAttached stores the media blob and immediately persists the
	// updated record reference. A storage failure is reported without
	// losing any entered text.
	OnMediaAttached(ctx context.Context, id string, kind domain.BlobKind, filename string, data []byte) error
	// OnGenerateRequested runs generation for the record's topic and
	// writes the result into caption and hashtags.
	OnGenerateRequested(ctx context.Context, id string) (*domain.GeneratedContent, error)
	// OnDeleteRequested removes the record's blob entry and its metadata.
	// Both removals are attempted even if one fails.
	OnDeleteRequested(ctx context.Context, id string) error
	// Flush persists any pending debounced edits now.
	Flush(ctx context.Context) error
}
