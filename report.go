package main

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lg/calorie-tracker/internal/report"
)

const defaultReportDays = 7

// getReport composes the goal, food log and weight report for the trailing days.
// GET /api/report?days=7&format=json|text.
func (h *Handler) getReport(c *gin.Context) {
	days := defaultReportDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apiError(c, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = n
	}

	r, err := h.reports.BuildReport(c.Request.Context(), currentUserID(c), days)
	if err != nil {
		respondError(c, err, "failed to build report")
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, r)
	case "text":
		var buf bytes.Buffer
		if err := report.WriteText(&buf, r); err != nil {
			respondError(c, err, "failed to render report")
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
	default:
		apiError(c, http.StatusBadRequest, "format must be json or text")
	}
}
