package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/calorie-tracker/internal/models"
)

// defaultSummaryDays is the window used by the summary endpoint when start is omitted.
const defaultSummaryDays = 7

// getDailyLog returns the day's logs grouped by meal with derived nutrients and totals.
// GET /api/food-log/daily?date=YYYY-MM-DD&meal=lunch (date defaults to today).
func (h *Handler) getDailyLog(c *gin.Context) {
	date, ok := queryDate(c, "date", h.today())
	if !ok {
		return
	}
	meal := models.MealType(strings.ToLower(strings.TrimSpace(c.Query("meal"))))

	day, err := h.logs.LogsForDate(c.Request.Context(), currentUserID(c), date, meal)
	if err != nil {
		respondError(c, err, "failed to fetch food log")
		return
	}
	c.JSON(http.StatusOK, day)
}

// getLogSummary returns averages, macro split, goal adherence and per-day rows
// over an inclusive date range.
// GET /api/food-log/summary?start=YYYY-MM-DD&end=YYYY-MM-DD. end defaults to
// today and start to six days before end.
func (h *Handler) getLogSummary(c *gin.Context) {
	end, ok := queryDate(c, "end", h.today())
	if !ok {
		return
	}
	start, ok := queryDate(c, "start", end.AddDate(0, 0, -(defaultSummaryDays-1)))
	if !ok {
		return
	}

	summary, err := h.logs.Summary(c.Request.Context(), currentUserID(c), start, end)
	if err != nil {
		respondError(c, err, "failed to summarize food log")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getEarliestLogDate returns the date of the user's first food log, or null.
// GET /api/food-log/earliest-date.
func (h *Handler) getEarliestLogDate(c *gin.Context) {
	earliest, err := h.store.EarliestFoodLogDate(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "failed to fetch earliest date")
		return
	}
	var date *DateOnly
	if earliest != nil {
		date = &DateOnly{*earliest}
	}
	c.JSON(http.StatusOK, gin.H{"date": date})
}

// createFoodLogItem records a serving of an existing food.
// POST /api/food-log/items.
func (h *Handler) createFoodLogItem(c *gin.Context) {
	var body createFoodLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry := &models.FoodLog{
		UserID:       currentUserID(c),
		FoodID:       body.FoodID,
		MealType:     models.MealType(strings.ToLower(strings.TrimSpace(body.MealType))),
		ServingSizeG: body.ServingSizeG,
		Notes:        body.Notes,
	}
	if strings.TrimSpace(body.Date) != "" {
		t, err := parseLogTime(body.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
		entry.LogDate = t
	}

	created, err := h.store.CreateFoodLog(c.Request.Context(), entry)
	if err != nil {
		respondError(c, err, "failed to create food log item")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// getFoodLogItem returns one of the user's food logs as stored.
// GET /api/food-log/items/:id.
func (h *Handler) getFoodLogItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.store.GetFoodLog(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err, "failed to fetch food log item")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// updateFoodLogItem partially updates one of the user's food logs.
// PATCH /api/food-log/items/:id. Omitted fields keep their current values.
func (h *Handler) updateFoodLogItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body patchFoodLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	patch, err := body.toPatch()
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	updated, err := h.store.UpdateFoodLog(c.Request.Context(), currentUserID(c), id, patch)
	if err != nil {
		respondError(c, err, "failed to update food log item")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// deleteFoodLogItem removes one of the user's food logs.
// DELETE /api/food-log/items/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteFoodLogItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteFoodLog(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err, "failed to delete food log item")
		return
	}
	c.Status(http.StatusNoContent)
}
