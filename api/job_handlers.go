package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/record-search/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, optionally filtered by the status query parameter
func (api *API) ListJobsHandler(c *gin.Context) {
	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		if !status.IsValid() {
			SendInvalidRequestError(c, "Unknown job status '"+statusParam+"'")
			return
		}
		statusFilter = &status
	}

	jobs := api.jobs.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	metrics := api.jobs.GetMetrics()
	c.JSON(http.StatusOK, gin.H{
		"metrics":          metrics,
		"success_rate":     metrics.SuccessRate,
		"current_workload": api.jobs.GetCurrentWorkload(),
	})
}
