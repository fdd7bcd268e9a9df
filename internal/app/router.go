package app

import (
	"job_scoring_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	v1 := router.Group("/api/v1")
	a.registerJobRoutes(v1, c)
	a.registerApplicationRoutes(v1, c)
}

func (a *App) registerJobRoutes(v1 *gin.RouterGroup, c *controllers) {
	jobs := v1.Group("/jobs")
	{
		jobs.POST("", c.job.CreateJob)
		jobs.GET("", c.job.ListJobs)
		jobs.GET("/:jobId", c.job.GetJob)
		jobs.PUT("/:jobId", c.job.UpdateJob)
		jobs.DELETE("/:jobId", c.job.DeleteJob)
	}
}

func (a *App) registerApplicationRoutes(v1 *gin.RouterGroup, c *controllers) {
	apps := v1.Group("/job-applications")
	{
		apps.POST("/apply", c.application.Apply)
		apps.GET("/job/:jobId/top", c.application.TopApplicants)
		apps.GET("/job/:jobId", c.application.ListByJob)
		apps.GET("/:applicationId", c.application.Get)
		apps.PUT("/:applicationId/status", c.application.UpdateStatus)
	}
}
