// Package uploads stores user-submitted images in object storage and hands
// back the public URL the rest of the application embeds in records.
package uploads

import (
	"context"
	"io"
)

// FileStore persists an uploaded file and returns its public URL.
type FileStore interface {
	Save(ctx context.Context, filename string, contentType string, body io.Reader) (string, error)
}
