package handler

import (
	"log/slog"

	"github.com/st-studio/job-tracker/internal/api/auth"
	"github.com/st-studio/job-tracker/internal/api/service"
)

// Dependencies holds everything the handlers and router need.
type Dependencies struct {
	Logger        *slog.Logger
	Jobs          *service.JobService
	Gate          *auth.Gate
	SessionSecret string
	TemplatesGlob string
	RedactPhone   bool
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger      *slog.Logger
	jobs        *service.JobService
	gate        *auth.Gate
	redactPhone bool
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:      deps.Logger,
		jobs:        deps.Jobs,
		gate:        deps.Gate,
		redactPhone: deps.RedactPhone,
	}
}
