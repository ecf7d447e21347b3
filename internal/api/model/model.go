package model

import (
	"time"

	"github.com/st-studio/job-tracker/internal/api/domain"
)

// Job is the database row for a work order.
type Job struct {
	JobID        string    `db:"job_id"`
	CustomerName string    `db:"customer_name"`
	Phone        string    `db:"phone"`
	ItemType     string    `db:"item_type"`
	Quantity     int       `db:"quantity"`
	Status       string    `db:"status"`
	ImageURL     string    `db:"image_url"`
	CreatedAt    time.Time `db:"created_at"`
}

// ToDomain converts the row into the domain entity.
func (j *Job) ToDomain() *domain.Job {
	return &domain.Job{
		JobID:        j.JobID,
		CustomerName: j.CustomerName,
		Phone:        j.Phone,
		ItemType:     j.ItemType,
		Quantity:     j.Quantity,
		Status:       j.Status,
		ImageURL:     j.ImageURL,
		CreatedAt:    j.CreatedAt,
	}
}

// FromDomain converts a domain entity into a row.
func FromDomain(j *domain.Job) *Job {
	return &Job{
		JobID:        j.JobID,
		CustomerName: j.CustomerName,
		Phone:        j.Phone,
		ItemType:     j.ItemType,
		Quantity:     j.Quantity,
		Status:       j.Status,
		ImageURL:     j.ImageURL,
		CreatedAt:    j.CreatedAt,
	}
}
