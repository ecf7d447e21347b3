package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/st-studio/job-tracker/internal/api/dto"
)

// ShowLogin handles GET /login
func (h *JobHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login handles POST /login. A failed attempt gets one plain message
// regardless of which credential was wrong.
func (h *JobHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid login form")
		return
	}

	if !h.gate.VerifyCredentials(req.Username, req.Password) {
		h.logger.Info("Login failed",
			slog.String("ip", c.ClientIP()),
		)
		c.String(http.StatusUnauthorized, "login failed")
		return
	}

	if err := h.gate.StartSession(c); err != nil {
		h.logger.Error("Failed to start session", slog.Any("error", err))
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	h.logger.Info("Admin logged in",
		slog.String("ip", c.ClientIP()),
	)

	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles POST /logout
func (h *JobHandler) Logout(c *gin.Context) {
	if err := h.gate.EndSession(c); err != nil {
		h.logger.Error("Failed to end session", slog.Any("error", err))
	}

	c.Redirect(http.StatusSeeOther, "/login")
}
