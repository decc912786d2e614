package domain

import "time"

// BlobKind distinguishes the two media slots of a blob entry.
type BlobKind string

const (
	BlobVideo     BlobKind = "video"
	BlobThumbnail BlobKind = "thumbnail"
)

// BlobEntry holds the binary media for one content record, keyed by the
// record ID. Either slot may be empty. Entries are created lazily on the
// first media attachment and never created empty.
type BlobEntry struct {
	ID            string    `json:"id"`
	Video         []byte    `json:"video,omitempty"`
	VideoName     string    `json:"videoName,omitempty"`
	Thumbnail     []byte    `json:"thumbnail,omitempty"`
	ThumbnailName string    `json:"thumbnailName,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasVideo reports whether the video slot is populated.
func (e *BlobEntry) HasVideo() bool { return len(e.Video) > 0 }

// HasThumbnail reports whether the thumbnail slot is populated.
func (e *BlobEntry) HasThumbnail() bool { return len(e.Thumbnail) > 0 }
