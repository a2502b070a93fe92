package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// getProfile returns the authenticated user's profile, including the stored
// daily calorie goal.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	u, err := h.store.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, u)
}

// patchProfile updates only the provided profile fields. The store recomputes
// daily_calorie_goal in the same transaction when a field it depends on changes.
// PATCH /api/profile.
func (h *Handler) patchProfile(c *gin.Context) {
	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.store.UpdateUser(c.Request.Context(), currentUserID(c), body.toPatch())
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, u)
}

// getProfileMetrics returns the derivation behind the calorie goal: age, BMR,
// TDEE, the goal offset and whether the safety floor applied.
// GET /api/profile/metrics.
func (h *Handler) getProfileMetrics(c *gin.Context) {
	u, err := h.store.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "failed to fetch profile")
		return
	}
	res, err := h.store.Engine().Compute(u)
	if err != nil {
		respondError(c, err, "failed to compute metrics")
		return
	}
	c.JSON(http.StatusOK, res)
}

// archiveProfile archives the authenticated user. Their token stops working
// immediately. ?purge_logs=true also deletes every food and weight log.
// DELETE /api/profile.
func (h *Handler) archiveProfile(c *gin.Context) {
	purge, ok := queryBool(c, "purge_logs")
	if !ok {
		return
	}
	userID := currentUserID(c)
	purgeLogs := purge != nil && *purge

	if err := h.store.ArchiveUser(c.Request.Context(), userID, purgeLogs); err != nil {
		respondError(c, err, "failed to archive profile")
		return
	}
	log.WithFields(log.Fields{"user_id": userID, "purge_logs": purgeLogs}).Info("profile archived")
	c.Status(http.StatusNoContent)
}
