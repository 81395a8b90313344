package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/record-search/internal/analytics"
	internalErrors "github.com/gcbaptista/record-search/internal/errors"
	"github.com/gcbaptista/record-search/internal/metrics"
	"github.com/gcbaptista/record-search/model"
	"github.com/gcbaptista/record-search/services"
)

// API holds dependencies for API handlers.
type API struct {
	engine    services.RecordEngine
	jobs      services.JobManager
	analytics *analytics.Service
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.RecordEngine, jobs services.JobManager) *API {
	return &API{
		engine:    engine,
		jobs:      jobs,
		analytics: analytics.NewService(engine, 0),
	}
}

// RouterConfig configures NewRouter.
type RouterConfig struct {
	MaxBodyBytes int64
	Metrics      *metrics.Metrics // nil disables /metrics and request metrics
}

// NewRouter builds a gin engine with the standard middleware chain and every route.
func NewRouter(engine services.RecordEngine, jobs services.JobManager, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), RequestLoggerMiddleware(), CORSMiddleware())
	if cfg.MaxBodyBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
	}
	if cfg.Metrics != nil {
		router.Use(MetricsMiddleware(cfg.Metrics))
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	SetupRoutes(router, engine, jobs)
	return router
}

// SetupRoutes defines all the API routes for the search engine.
func SetupRoutes(router *gin.Engine, engine services.RecordEngine, jobs services.JobManager) {
	apiHandler := NewAPI(engine, jobs)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)
	router.GET("/search", apiHandler.SearchHandler)
	router.GET("/filter-options", apiHandler.FilterOptionsHandler)
	router.DELETE("/cache", apiHandler.ClearCacheHandler)

	itemRoutes := router.Group("/items")
	{
		itemRoutes.PUT("", apiHandler.AppendItemsHandler)                       // Append items in a background job
		itemRoutes.POST("/filter", apiHandler.FilterHandler)                    // Filter supplied or indexed items
		itemRoutes.GET("/:id", apiHandler.GetItemHandler)                       // Get one item
		itemRoutes.GET("/:id/alternatives", apiHandler.FindAlternativesHandler) // Items sharing identifiers or tags
	}

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
	}
}

// HealthCheckHandler reports liveness and the indexed item count.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"items":     api.engine.Len(),
		"timestamp": time.Now().UTC(),
	})
}

// GetItemHandler returns a single item by id.
func (api *API) GetItemHandler(c *gin.Context) {
	raw := c.Param("id")
	id, result := ValidateItemID(raw)
	if result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	item, ok := api.engine.Item(id)
	if !ok {
		SendItemNotFoundError(c, raw)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AppendItemsHandler validates the submitted items and appends them in a background job.
// Request Body: []model.Item
func (api *API) AppendItemsHandler(c *gin.Context) {
	var items []model.Item
	if err := c.ShouldBindJSON(&items); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateItems(items); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	jobID, err := api.engine.AppendItemsAsync(items)
	switch {
	case errors.Is(err, internalErrors.ErrDuplicateItem), errors.Is(err, internalErrors.ErrInvalidInput):
		SendEngineError(c, "append items", err)
		return
	case err != nil:
		SendJobExecutionError(c, "append items", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Appending items started",
		"job_id":  jobID,
		"items":   len(items),
	})
}

// FilterRequest is the body of POST /items/filter. When Items is omitted the
// indexed items are filtered.
type FilterRequest struct {
	Items    []model.Item         `json:"items,omitempty"`
	Criteria model.FilterCriteria `json:"criteria"`
}

// FilterHandler applies filter criteria to the supplied or indexed items.
func (api *API) FilterHandler(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	items := req.Items
	if items == nil {
		items = api.engine.Items()
	}

	filtered, err := api.engine.Filter(items, req.Criteria)
	if err != nil {
		SendEngineError(c, "filter", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": filtered,
		"total": len(filtered),
	})
}

// FilterOptionsHandler returns the facet values over the indexed items.
func (api *API) FilterOptionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.FilterOptions())
}

// ClearCacheHandler drops every result cache.
func (api *API) ClearCacheHandler(c *gin.Context) {
	api.engine.ClearCache()
	c.JSON(http.StatusOK, gin.H{"message": "Caches cleared"})
}
