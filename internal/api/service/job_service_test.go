package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/st-studio/job-tracker/internal/api/domain"
)

// fakeStore implements domain.JobStore in memory, newest-first like
// the real storage layer.
type fakeStore struct {
	jobs      map[string]*domain.Job
	insertErr error
	listErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: make(map[string]*domain.Job)}
}

func (f *fakeStore) Insert(ctx context.Context, job *domain.Job) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	copied := *job
	f.jobs[job.JobID] = &copied
	return nil
}

func (f *fakeStore) GetByJobID(ctx context.Context, jobID string) (*domain.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (f *fakeStore) List(ctx context.Context) ([]domain.Job, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var jobs []domain.Job
	for _, job := range f.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].JobID > jobs[j].JobID
	})
	return jobs, nil
}

func (f *fakeStore) SetStatus(ctx context.Context, jobID, status string) error {
	job, ok := f.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	job.Status = status
	return nil
}

func (f *fakeStore) SetImageURL(ctx context.Context, jobID, imageURL string) error {
	job, ok := f.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	job.ImageURL = imageURL
	return nil
}

// fakeBlobs counts uploads and returns a distinct URL each time.
type fakeBlobs struct {
	uploads int
	err     error
}

func (f *fakeBlobs) Upload(ctx context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return fmt.Sprintf("https://images.example/%d.png", f.uploads), nil
}

// fakeCodes echoes its input and counts calls.
type fakeCodes struct {
	calls int
	err   error
}

func (f *fakeCodes) Encode(text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "qr:" + text, nil
}

// fakeEvents records published events.
type fakeEvents struct {
	events []domain.JobEvent
	err    error
}

func (f *fakeEvents) PublishJobEvent(ctx context.Context, event domain.JobEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	svc    *JobService
	store  *fakeStore
	blobs  *fakeBlobs
	codes  *fakeCodes
	events *fakeEvents
}

func newFixture() *fixture {
	f := &fixture{
		store:  newFakeStore(),
		blobs:  &fakeBlobs{},
		codes:  &fakeCodes{},
		events: &fakeEvents{},
	}
	f.svc = NewJobService(Config{
		Store:   f.store,
		Blobs:   f.blobs,
		Codes:   f.codes,
		Events:  f.events,
		BaseURL: "https://jobs.ststudio.example/",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func TestCreateJobAssignsUniqueIDs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		job, err := f.svc.CreateJob(ctx, CreateJobParams{ItemType: "mug"})
		require.NoError(t, err)

		assert.False(t, seen[job.JobID], "duplicate job id %s", job.JobID)
		seen[job.JobID] = true
	}
}

func TestCreateJobDefaults(t *testing.T) {
	f := newFixture()

	job, err := f.svc.CreateJob(context.Background(), CreateJobParams{
		CustomerName: "Somchai",
		Phone:        "0899999999",
		ItemType:     "mug",
		Quantity:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultStatus, job.Status)
	assert.Empty(t, job.ImageURL)
	assert.WithinDuration(t, time.Now(), job.CreatedAt, 5*time.Second)

	// The default status is immediately visible on the public lookup.
	tracked, err := f.svc.GetJobForTracking(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStatus, tracked.Status)
	assert.Equal(t, "Somchai", tracked.CustomerName)
}

func TestCreateJobAllowsBlankFields(t *testing.T) {
	f := newFixture()

	job, err := f.svc.CreateJob(context.Background(), CreateJobParams{})
	require.NoError(t, err)

	assert.NotEmpty(t, job.JobID)
	assert.Empty(t, job.CustomerName)
	assert.Equal(t, domain.DefaultStatus, job.Status)
}

func TestListJobsNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Seed in scrambled creation order.
	base := time.Now().UTC()
	offsets := []int{3, 1, 4, 0, 2}
	for _, off := range offsets {
		require.NoError(t, f.store.Insert(ctx, &domain.Job{
			JobID:     fmt.Sprintf("job-%d", off),
			Status:    domain.DefaultStatus,
			CreatedAt: base.Add(time.Duration(off) * time.Minute),
		}))
	}

	jobs, err := f.svc.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, len(offsets))

	for i := 1; i < len(jobs); i++ {
		assert.False(t, jobs[i].CreatedAt.After(jobs[i-1].CreatedAt),
			"jobs out of order at index %d", i)
	}
}

func TestListJobsAttachesFreshQR(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, CreateJobParams{ItemType: "sticker"})
	require.NoError(t, err)

	jobs, err := f.svc.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "qr:https://jobs.ststudio.example/track/"+job.JobID, jobs[0].QRDataURI)
	assert.Equal(t, 1, f.codes.calls)

	// Recomputed on every listing, never cached.
	_, err = f.svc.ListJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.codes.calls)
}

func TestListJobsQRFailureDegradesRow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateJob(ctx, CreateJobParams{})
	require.NoError(t, err)

	f.codes.err = errors.New("encoder down")

	jobs, err := f.svc.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Empty(t, jobs[0].QRDataURI)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, CreateJobParams{})
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(ctx, job.JobID, "done"))

	tracked, err := f.svc.GetJobForTracking(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, "done", tracked.Status)
}

func TestUpdateStatusAcceptsAnyString(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, CreateJobParams{})
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(ctx, job.JobID, "waiting on gold foil"))

	tracked, err := f.svc.GetJobForTracking(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, "waiting on gold foil", tracked.Status)
}

func TestUpdateStatusUnknownJobIsSilentNoOp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, CreateJobParams{})
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(ctx, "not-a-real-id", "done"))

	// Existing jobs are untouched.
	tracked, err := f.svc.GetJobForTracking(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStatus, tracked.Status)
}

func TestAttachImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, CreateJobParams{})
	require.NoError(t, err)

	updated, err := f.svc.AttachImage(ctx, job.JobID, strings.NewReader("png bytes"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "https://images.example/1.png", updated.ImageURL)

	// A second upload overwrites the first URL.
	updated, err = f.svc.AttachImage(ctx, job.JobID, strings.NewReader("new png bytes"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "https://images.example/2.png", updated.ImageURL)

	tracked, err := f.svc.GetJobForTracking(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/2.png", tracked.ImageURL)
}

func TestAttachImageUnknownJobStillUploads(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.AttachImage(ctx, "not-a-real-id", strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.Nil(t, job)

	// The blob went out even though no record was updated.
	assert.Equal(t, 1, f.blobs.uploads)
}

func TestAttachImageCleansUpTempFile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	job, err := f.svc.CreateJob(ctx, CreateJobParams{})
	require.NoError(t, err)

	_, err = f.svc.AttachImage(ctx, job.JobID, strings.NewReader("png bytes"))
	require.NoError(t, err)

	// Failure path cleans up too.
	f.blobs.err = errors.New("image host unavailable")
	_, err = f.svc.AttachImage(ctx, job.JobID, strings.NewReader("png bytes"))
	require.Error(t, err)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged upload files were left behind")
}

func TestAttachImageUploadFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, CreateJobParams{})
	require.NoError(t, err)

	f.blobs.err = errors.New("image host unavailable")

	_, err = f.svc.AttachImage(ctx, job.JobID, strings.NewReader("png bytes"))
	require.Error(t, err)

	tracked, err := f.svc.GetJobForTracking(ctx, job.JobID)
	require.NoError(t, err)
	assert.Empty(t, tracked.ImageURL)
}

func TestGetJobForTrackingUnknownID(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetJobForTracking(context.Background(), "not-a-real-id")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobEventsPublished(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, CreateJobParams{})
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateStatus(ctx, job.JobID, domain.StatusPrinting))

	require.Len(t, f.events.events, 2)
	assert.Equal(t, domain.DefaultStatus, f.events.events[0].Status)
	assert.Equal(t, domain.StatusPrinting, f.events.events[1].Status)
	assert.Equal(t, job.JobID, f.events.events[1].JobID)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker down")

	_, err := f.svc.CreateJob(context.Background(), CreateJobParams{})
	assert.NoError(t, err)
}

func TestEndToEndScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.svc.CreateJob(ctx, CreateJobParams{
		CustomerName: "Somchai",
		Phone:        "0899999999",
		ItemType:     "mug",
		Quantity:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, job.Status)

	require.NoError(t, f.svc.UpdateStatus(ctx, job.JobID, "printing"))

	tracked, err := f.svc.GetJobForTracking(ctx, job.JobID)
	require.NoError(t, err)
	assert.Equal(t, "printing", tracked.Status)
	assert.Equal(t, "Somchai", tracked.CustomerName)
	assert.Empty(t, tracked.ImageURL)

	_, err = f.svc.AttachImage(ctx, job.JobID, strings.NewReader("photo"))
	require.NoError(t, err)

	tracked, err = f.svc.GetJobForTracking(ctx, job.JobID)
	require.NoError(t, err)
	assert.NotEmpty(t, tracked.ImageURL)
}
