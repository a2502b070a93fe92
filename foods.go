package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/calorie-tracker/internal/models"
	"lg/calorie-tracker/internal/store"
)

// listCategories returns every food category ordered by name.
// GET /api/categories.
func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch categories")
		return
	}
	if cats == nil {
		cats = []models.FoodCategory{}
	}
	c.JSON(http.StatusOK, cats)
}

// createCategory adds a category. Names are unique.
// POST /api/categories. Body: { "name": "Dairy", "description"? }.
func (h *Handler) createCategory(c *gin.Context) {
	var body struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cat, err := h.store.CreateCategory(c.Request.Context(), body.Name, body.Description)
	if err != nil {
		respondError(c, err, "failed to create category")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// listFoods searches the food database.
// GET /api/foods?q=&category=&verified=&custom=&limit=. An unknown category
// yields an empty list.
func (h *Handler) listFoods(c *gin.Context) {
	filter := store.FoodFilter{
		Query:    c.Query("q"),
		Category: strings.TrimSpace(c.Query("category")),
	}
	var ok bool
	if filter.Verified, ok = queryBool(c, "verified"); !ok {
		return
	}
	if filter.Custom, ok = queryBool(c, "custom"); !ok {
		return
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			apiError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	foods, err := h.store.ListFoods(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to fetch foods")
		return
	}
	// Ensure empty array (not null) in JSON
	if foods == nil {
		foods = []models.Food{}
	}
	c.JSON(http.StatusOK, foods)
}

// createFood adds a custom food owned by the authenticated user. Unknown
// category names are created on the fly.
// POST /api/foods.
func (h *Handler) createFood(c *gin.Context) {
	var body createFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	food, err := h.store.CreateFood(c.Request.Context(), body.toFood(currentUserID(c)), body.Categories)
	if err != nil {
		respondError(c, err, "failed to create food")
		return
	}
	c.JSON(http.StatusCreated, food)
}

// getFood returns one food with its categories.
// GET /api/foods/:id.
func (h *Handler) getFood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	food, err := h.store.GetFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch food")
		return
	}
	c.JSON(http.StatusOK, food)
}

// updateFood partially updates a food. Nutrient edits apply to every existing
// log of the food, since log nutrients are derived on read.
// PATCH /api/foods/:id.
func (h *Handler) updateFood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body store.FoodPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	food, err := h.store.UpdateFood(c.Request.Context(), id, body)
	if err != nil {
		respondError(c, err, "failed to update food")
		return
	}
	c.JSON(http.StatusOK, food)
}

// deleteFood removes a food. Existing logs are kept and count as zero.
// DELETE /api/foods/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteFood(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteFood(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete food")
		return
	}
	c.Status(http.StatusNoContent)
}
