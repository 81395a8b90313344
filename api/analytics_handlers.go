package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsHandler returns the query analytics dashboard
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.analytics.GetDashboardData())
}
