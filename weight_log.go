package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lg/calorie-tracker/internal/models"
	"lg/calorie-tracker/internal/store"
	"lg/calorie-tracker/internal/weight"
)

// getWeightHistory returns the user's measurements within [start, end], each
// with its change from the previous measurement.
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params are optional.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightHistory(c *gin.Context) {
	start, ok := queryDate(c, "start", time.Time{})
	if !ok {
		return
	}
	end, ok := queryDate(c, "end", time.Time{})
	if !ok {
		return
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}
	var to time.Time
	if !end.IsZero() {
		to = store.DayEnd(end)
	}

	entries, err := h.weights.History(c.Request.Context(), currentUserID(c), start, to)
	if err != nil {
		respondError(c, err, "failed to fetch weight log")
		return
	}
	if entries == nil {
		entries = []weight.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// getWeightChange returns the weight difference between two dates, each
// resolved to the nearest measurement on or before it.
// GET /api/weight-log/change?start=YYYY-MM-DD&end=YYYY-MM-DD (end defaults to
// today). 422 when nothing was measured on or before start.
func (h *Handler) getWeightChange(c *gin.Context) {
	if c.Query("start") == "" {
		apiError(c, http.StatusBadRequest, "start query param is required")
		return
	}
	start, ok := queryDate(c, "start", time.Time{})
	if !ok {
		return
	}
	end, ok := queryDate(c, "end", h.today())
	if !ok {
		return
	}

	change, err := h.weights.ChangeOverRange(c.Request.Context(), currentUserID(c), start, end)
	if err != nil {
		respondError(c, err, "failed to compute weight change")
		return
	}
	c.JSON(http.StatusOK, change)
}

// createWeightEntry records a measurement. Several entries per day are allowed;
// the latest created one is the weight for that day.
// POST /api/weight-log. Body: { "date"?: "YYYY-MM-DD", "weight_kg": 74.5, "notes"? }.
func (h *Handler) createWeightEntry(c *gin.Context) {
	var body createWeightRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry := &models.WeightLog{
		UserID:   currentUserID(c),
		WeightKG: body.WeightKG,
		Notes:    body.Notes,
	}
	if body.Date != nil {
		entry.LogDate = body.Date.Time
	}

	created, err := h.store.CreateWeightLog(c.Request.Context(), entry)
	if err != nil {
		respondError(c, err, "failed to create weight entry")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteWeightLog(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err, "failed to delete weight entry")
		return
	}
	c.Status(http.StatusNoContent)
}
