package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gcbaptista/record-search/internal/logger"
	"github.com/gcbaptista/record-search/model"
	"github.com/gcbaptista/record-search/services"
)

// SearchHandler runs a ranked query. Query parameter: q.
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()
	query := c.Query("q")

	if result := ValidateQuery(query); result.HasErrors() {
		SendInvalidQueryError(c, result)
		return
	}

	results := api.engine.Search(query)
	took := time.Since(startTime)
	response := services.SearchResponse{
		Query:   query,
		Results: results,
		Total:   len(results),
		Took:    took.Milliseconds(),
		QueryID: uuid.New().String(),
	}

	event := model.SearchEvent{Query: query, ResponseTime: took, ResultCount: len(results)}
	if len(results) > 0 {
		event.MatchType = results[0].MatchType
	}
	api.analytics.TrackSearchEvent(event)

	logger.FromContext(c.Request.Context()).Debug("search served",
		"query_id", response.QueryID, "results", response.Total)
	c.JSON(http.StatusOK, response)
}

// FindAlternativesHandler returns the alternatives of an item.
func (api *API) FindAlternativesHandler(c *gin.Context) {
	id, result := ValidateItemID(c.Param("id"))
	if result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	results, err := api.engine.FindAlternatives(id)
	if err != nil {
		SendEngineError(c, "find alternatives", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item_id": id,
		"results": results,
		"total":   len(results),
	})
}
