package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/st-studio/job-tracker/internal/api/domain"
)

// Track handles GET /track/:id — the public status page. Anyone with
// the jobId sees the record; that is the documented trust model.
func (h *JobHandler) Track(c *gin.Context) {
	jobID := c.Param("id")

	job, err := h.jobs.GetJobForTracking(c.Request.Context(), jobID)
	if errors.Is(err, domain.ErrJobNotFound) {
		c.String(http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to look up tracking job",
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	phone := job.Phone
	if h.redactPhone {
		phone = maskPhone(phone)
	}

	c.HTML(http.StatusOK, "track.html", gin.H{
		"job":   job,
		"phone": phone,
	})
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
