package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lg/calorie-tracker/internal/apperr"
	"lg/calorie-tracker/internal/foodlog"
	"lg/calorie-tracker/internal/report"
	"lg/calorie-tracker/internal/store"
	"lg/calorie-tracker/internal/weight"
)

// Handler holds shared dependencies (store, analyzers, config) for all route handlers.
type Handler struct {
	store   *store.Store
	logs    *foodlog.Aggregator
	weights *weight.Analyzer
	reports *report.Composer
	openAI  openAIConfig
}

// openAIConfig configures the food suggestion client. BaseURL is overridable for tests.
type openAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// newHandler wires the core components around st.
func newHandler(st *store.Store, ai openAIConfig) *Handler {
	engine := st.Engine()
	logs := foodlog.NewAggregator(st, engine.Config())
	weights := weight.NewAnalyzer(st)
	return &Handler{
		store:   st,
		logs:    logs,
		weights: weights,
		reports: report.NewComposer(st, logs, weights, engine),
		openAI:  ai,
	}
}

/* ─── Response helpers ────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondError maps core errors to status codes. Anything unclassified is
// logged and reported as a 500 with the generic message.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case apperr.IsValidation(err):
		apiError(c, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		apiError(c, http.StatusNotFound, err.Error())
	case apperr.IsInsufficientData(err):
		apiError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error(message)
		apiError(c, http.StatusInternalServerError, message)
	}
}

/* ─── Request helpers ─────────────────────────────────────────────────── */

// currentUserID returns the id set by authMiddleware.
func currentUserID(c *gin.Context) uint64 {
	return c.GetUint64("user_id")
}

// pathID parses the :id route param. It writes a 400 and returns false on failure.
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apiError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// queryDate parses a YYYY-MM-DD query param, falling back to def when absent.
func queryDate(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// queryBool parses an optional boolean query param; nil means "not given".
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+name+", expected true or false")
		return nil, false
	}
	return &v, true
}

// today is the current UTC day according to the engine's clock.
func (h *Handler) today() time.Time {
	return store.DayStart(h.store.Engine().Now())
}

/* ─── Routes ──────────────────────────────────────────────────────────── */

// newRouter builds the gin engine with all routes registered.
func (h *Handler) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	_ = router.SetTrustedProxies(nil)
	h.registerRoutes(router)
	return router
}

// requestLogger logs one line per request through logrus.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request")
	}
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/api/health", h.health)
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())

	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.DELETE("/profile", h.archiveProfile)
	api.GET("/profile/metrics", h.getProfileMetrics)

	api.GET("/categories", h.listCategories)
	api.POST("/categories", h.createCategory)
	api.GET("/foods", h.listFoods)
	api.POST("/foods", h.createFood)
	api.POST("/foods/suggest", h.suggestFood)
	api.GET("/foods/:id", h.getFood)
	api.PATCH("/foods/:id", h.updateFood)
	api.DELETE("/foods/:id", h.deleteFood)

	api.GET("/food-log/daily", h.getDailyLog)
	api.GET("/food-log/summary", h.getLogSummary)
	api.GET("/food-log/earliest-date", h.getEarliestLogDate)
	api.POST("/food-log/items", h.createFoodLogItem)
	api.GET("/food-log/items/:id", h.getFoodLogItem)
	api.PATCH("/food-log/items/:id", h.updateFoodLogItem)
	api.DELETE("/food-log/items/:id", h.deleteFoodLogItem)

	api.GET("/weight-log", h.getWeightHistory)
	api.GET("/weight-log/change", h.getWeightChange)
	api.POST("/weight-log", h.createWeightEntry)
	api.DELETE("/weight-log/:id", h.deleteWeightEntry)

	api.GET("/report", h.getReport)
}

// health reports whether the database is reachable.
// GET /api/health (public).
func (h *Handler) health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		log.WithError(err).Warn("health: database unreachable")
		apiError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
