package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/st-studio/job-tracker/internal/api/domain"
)

// JobService owns the job lifecycle: create, list, status updates,
// image attachment and the public tracking lookup.
type JobService struct {
	store         domain.JobStore
	blobs         domain.BlobStore
	codes         domain.CodeEncoder
	events        domain.EventPublisher
	baseURL       string
	uploadTimeout time.Duration
	logger        *slog.Logger
}

// Config holds JobService dependencies and settings.
type Config struct {
	Store         domain.JobStore
	Blobs         domain.BlobStore
	Codes         domain.CodeEncoder
	Events        domain.EventPublisher
	BaseURL       string
	UploadTimeout time.Duration
	Logger        *slog.Logger
}

func NewJobService(cfg Config) *JobService {
	return &JobService{
		store:         cfg.Store,
		blobs:         cfg.Blobs,
		codes:         cfg.Codes,
		events:        cfg.Events,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		uploadTimeout: cfg.UploadTimeout,
		logger:        cfg.Logger,
	}
}

// TrackingURL builds the public URL for a job. It is the payload of
// the QR code and safe to hand to the customer: the jobId is the only
// credential.
func (s *JobService) TrackingURL(jobID string) string {
	return s.baseURL + "/track/" + jobID
}

// CreateJobParams are the attributes staff supply for a new job. None
// of them is required; blanks persist as empty values.
type CreateJobParams struct {
	CustomerName string
	Phone        string
	ItemType     string
	Quantity     int
}

// CreateJob persists a new job with a fresh high-entropy jobId and the
// default status.
func (s *JobService) CreateJob(ctx context.Context, params CreateJobParams) (*domain.Job, error) {
	job := &domain.Job{
		JobID:        uuid.NewString(),
		CustomerName: params.CustomerName,
		Phone:        params.Phone,
		ItemType:     params.ItemType,
		Quantity:     params.Quantity,
		Status:       domain.DefaultStatus,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.publishEvent(ctx, job.JobID, job.Status)

	s.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("item_type", job.ItemType),
	)

	return job, nil
}

// ListJobs returns every job newest-first, each with a freshly encoded
// QR image for its tracking URL. The QR is derived per call and never
// cached or persisted. A render failure for one job degrades that row
// to an empty QR instead of failing the whole listing.
func (s *JobService) ListJobs(ctx context.Context) ([]domain.JobWithQR, error) {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	result := make([]domain.JobWithQR, len(jobs))
	for i, job := range jobs {
		result[i].Job = job

		qr, err := s.codes.Encode(s.TrackingURL(job.JobID))
		if err != nil {
			s.logger.Warn("Failed to encode tracking QR",
				slog.String("job_id", job.JobID),
				slog.Any("error", err),
			)
			continue
		}
		result[i].QRDataURI = qr
	}

	return result, nil
}

// UpdateStatus persists newStatus onto the matching job. Any string is
// accepted; there is no transition graph. An unknown jobID is a silent
// no-op.
func (s *JobService) UpdateStatus(ctx context.Context, jobID, newStatus string) error {
	err := s.store.SetStatus(ctx, jobID, newStatus)
	if errors.Is(err, domain.ErrJobNotFound) {
		s.logger.Warn("Status update for unknown job ignored",
			slog.String("job_id", jobID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	s.publishEvent(ctx, jobID, newStatus)

	return nil
}

// AttachImage stages the uploaded image to a temp file, sends it to
// the blob store and persists the returned URL onto the job. The temp
// file is removed on every path. When jobID matches nothing the upload
// still happens and the URL write is a no-op; the orphaned blob is
// logged so it is at least visible.
func (s *JobService) AttachImage(ctx context.Context, jobID string, image io.Reader) (*domain.Job, error) {
	tmp, err := os.CreateTemp("", "studio-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, image); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	uploadCtx := ctx
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	url, err := s.blobs.Upload(uploadCtx, tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	err = s.store.SetImageURL(ctx, jobID, url)
	if errors.Is(err, domain.ErrJobNotFound) {
		s.logger.Warn("Image uploaded for unknown job; blob is orphaned",
			slog.String("job_id", jobID),
			slog.String("image_url", url),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist image url: %w", err)
	}

	s.logger.Info("Image attached",
		slog.String("job_id", jobID),
		slog.String("image_url", url),
	)

	return s.store.GetByJobID(ctx, jobID)
}

// GetJobForTracking is the public lookup: any holder of a jobId reads
// the full record. That is the documented trust model, not an
// oversight. Unknown ids return domain.ErrJobNotFound.
func (s *JobService) GetJobForTracking(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.store.GetByJobID(ctx, jobID)
	if errors.Is(err, domain.ErrJobNotFound) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up job: %w", err)
	}

	return job, nil
}

// publishEvent emits a lifecycle event; failures are logged and never
// fail the request.
func (s *JobService) publishEvent(ctx context.Context, jobID, status string) {
	if s.events == nil {
		return
	}

	event := domain.JobEvent{
		JobID:      jobID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.events.PublishJobEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish job event",
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
	}
}
