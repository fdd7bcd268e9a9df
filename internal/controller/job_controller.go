package controller

import (
	"job_scoring_backend/internal/service"
	"job_scoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type JobController struct {
	Service *service.JobService
}

func NewJobController(svc *service.JobService) *JobController {
	return &JobController{Service: svc}
}

// @Summary 创建职位
// @Tags 职位
// @Accept json
// @Produce json
// @Param body body service.CreateJobRequest true "职位信息及评分题目"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/jobs [post]
func (c *JobController) CreateJob(ctx *gin.Context) {
	var req service.CreateJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	job, err := c.Service.CreateJob(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, job)
}

// @Summary 职位列表
// @Tags 职位
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	jobs, err := c.Service.ListJobs(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.SuccessList(ctx, jobs)
}

// @Summary 职位详情
// @Tags 职位
// @Produce json
// @Param jobId path string true "职位ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/jobs/{jobId} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	job, err := c.Service.GetJob(ctx.Request.Context(), ctx.Param("jobId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, job)
}

// @Summary 更新职位
// @Description 只更新请求中出现的字段；题目会重新校验
// @Tags 职位
// @Accept json
// @Produce json
// @Param jobId path string true "职位ID"
// @Param body body service.UpdateJobRequest true "要更新的字段"
// @Success 200 {object} util.Response
// @Router /api/v1/jobs/{jobId} [put]
func (c *JobController) UpdateJob(ctx *gin.Context) {
	var req service.UpdateJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	job, err := c.Service.UpdateJob(ctx.Request.Context(), ctx.Param("jobId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, job)
}

// @Summary 删除职位
// @Tags 职位
// @Produce json
// @Param jobId path string true "职位ID"
// @Success 200 {object} util.Response
// @Router /api/v1/jobs/{jobId} [delete]
func (c *JobController) DeleteJob(ctx *gin.Context) {
	if err := c.Service.DeleteJob(ctx.Request.Context(), ctx.Param("jobId")); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"id": ctx.Param("jobId")})
}
