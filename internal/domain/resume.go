package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Resume is the stored metadata for an uploaded document. The file itself
// lives on disk under the uploads directory; FileURL is the reference handed
// back to clients and later fed to the feedback pipeline.
type Resume struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileURL    string    `json:"file_url"`
	FileSize   int64     `json:"file_size"`
	Pages      int       `json:"pages"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// FileSelection is a single file picked for upload. Content is read once
// during submission.
type FileSelection struct {
	Name     string
	MIMEType string
	Size     int64
	Content  io.Reader
}
