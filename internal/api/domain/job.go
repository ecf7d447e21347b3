package domain

import (
	"errors"
	"time"
)

// Status values the shop uses day to day. UpdateStatus accepts any
// string; these exist so templates and callers agree on the common
// spellings.
const (
	StatusReceived = "received"
	StatusPrinting = "printing"
	StatusReady    = "ready"
	StatusDone     = "done"
)

// DefaultStatus is assigned to every job at creation.
const DefaultStatus = StatusReceived

var (
	ErrJobNotFound = errors.New("job not found")
)

// Job is a single customer work order. JobID is the opaque external
// identifier embedded in the tracking URL; it never changes and is
// never reused.
type Job struct {
	JobID        string
	CustomerName string
	Phone        string
	ItemType     string
	Quantity     int
	Status       string
	ImageURL     string
	CreatedAt    time.Time
}

// JobWithQR is a listing row: the stored job plus the QR image for its
// tracking URL, rendered fresh for that listing and never persisted.
type JobWithQR struct {
	Job
	QRDataURI string
}

// JobEvent is published when a job is created or its status changes.
type JobEvent struct {
	JobID      string    `json:"job_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
