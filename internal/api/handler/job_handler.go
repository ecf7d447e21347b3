package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/st-studio/job-tracker/internal/api/dto"
	"github.com/st-studio/job-tracker/internal/api/service"
)

// Dashboard handles GET /
// Renders all jobs newest-first, each with its tracking QR.
func (h *JobHandler) Dashboard(c *gin.Context) {
	jobs, err := h.jobs.ListJobs(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list jobs", slog.Any("error", err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"jobs": jobs,
	})
}

// CreateJob handles POST /create
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error("Invalid create form", slog.Any("error", err))
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	_, err := h.jobs.CreateJob(c.Request.Context(), service.CreateJobParams{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		ItemType:     req.ItemType,
		Quantity:     req.Quantity,
	})
	if err != nil {
		h.logger.Error("Failed to create job", slog.Any("error", err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// UpdateStatus handles POST /update/:id
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	jobID := c.Param("id")

	var req dto.UpdateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error("Invalid status form", slog.Any("error", err))
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	if err := h.jobs.UpdateStatus(c.Request.Context(), jobID, req.Status); err != nil {
		h.logger.Error("Failed to update status",
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// UploadImage handles POST /upload/:id (multipart form, field "image")
func (h *JobHandler) UploadImage(c *gin.Context) {
	jobID := c.Param("id")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.String(http.StatusBadRequest, "image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", slog.Any("error", err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	defer file.Close()

	if _, err := h.jobs.AttachImage(c.Request.Context(), jobID, file); err != nil {
		h.logger.Error("Failed to attach image",
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}
