package file

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrBadType     = errors.New("file type is not allowed")
	ErrNoThumbnail = errors.New("thumbnail not available for this file")
)

// File is the metadata row for one uploaded blob. Storage paths are internal
// and never leave the server; clients address files by ID.
type File struct {
	ID            string
	UserID        string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// FileURL returns the public URL for a file by its ID.
func FileURL(id string) string {
	return "/files/" + id
}

// ThumbnailURL returns the public URL for a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/files/" + id + "/thumbnail"
}
