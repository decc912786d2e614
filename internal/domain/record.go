package domain

import "time"

// MaxHashtags is the recommended ceiling for hashtags on a single record.
// Exceeding it is a validation warning, not a hard rejection: the record is
// persisted with every entry and the caller is expected to flag the overflow.
const MaxHashtags = 5

// DateLayout is the calendar-date format used for scheduling. Records carry
// a semantic date only, never a time component.
const DateLayout = "2006-01-02"

// ContentRecord is one planned post. Binary media is never embedded here;
// VideoBlobRef and ThumbnailBlobRef are filename labels pointing at the blob
// store entry keyed by the same ID.
type ContentRecord struct {
	ID               string    `json:"id"`
	ScheduledDate    string    `json:"scheduledDate"`
	TopicContext     string    `json:"topicContext,omitempty"`
	Caption          string    `json:"caption"`
	Hashtags         []string  `json:"hashtags"`
	VideoBlobRef     string    `json:"videoBlobRef,omitempty"`
	ThumbnailBlobRef string    `json:"thumbnailBlobRef,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// HashtagOverflow reports whether the record carries more hashtags than the
// recommended ceiling.
func (r *ContentRecord) HashtagOverflow() bool {
	return len(r.Hashtags) > MaxHashtags
}

// Today returns the current calendar date in the record date format.
func Today() string {
	return time.Now().Format(DateLayout)
}
