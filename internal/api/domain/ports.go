package domain

import "context"

// JobStore is the driven port for job persistence.
type JobStore interface {
	Insert(ctx context.Context, job *Job) error
	GetByJobID(ctx context.Context, jobID string) (*Job, error)
	List(ctx context.Context) ([]Job, error)
	SetStatus(ctx context.Context, jobID, status string) error
	SetImageURL(ctx context.Context, jobID, imageURL string) error
}

// BlobStore is the driven port for image hosting. Upload sends the
// staged file and returns its durable public URL.
type BlobStore interface {
	Upload(ctx context.Context, path string) (string, error)
}

// CodeEncoder is the driven port for QR rendering: text in, an inline
// displayable image (data URI) out.
type CodeEncoder interface {
	Encode(text string) (string, error)
}

// EventPublisher is the driven port for job lifecycle notifications.
type EventPublisher interface {
	PublishJobEvent(ctx context.Context, event JobEvent) error
}
