package controller

import (
	"strconv"

	"job_scoring_backend/internal/service"
	"job_scoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type JobApplicationController struct {
	Service *service.JobApplicationService
}

func NewJobApplicationController(svc *service.JobApplicationService) *JobApplicationController {
	return &JobApplicationController{Service: svc}
}

// @Summary 投递职位
// @Description 根据职位题目为答案评分并保存申请
// @Tags 职位申请
// @Accept json
// @Produce json
// @Param body body service.ApplyJobRequest true "申请信息及答案"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/job-applications/apply [post]
func (c *JobApplicationController) Apply(ctx *gin.Context) {
	var req service.ApplyJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	app, err := c.Service.ApplyForJob(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, app)
}

// @Summary 职位的申请列表
// @Tags 职位申请
// @Produce json
// @Param jobId path string true "职位ID"
// @Param status query string false "状态过滤"
// @Param sortBy query string false "scorePercentage | appliedAt | applicantName"
// @Param sortOrder query string false "asc | desc"
// @Success 200 {object} util.Response
// @Router /api/v1/job-applications/job/{jobId} [get]
func (c *JobApplicationController) ListByJob(ctx *gin.Context) {
	var q service.ListApplicationsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		respondBindError(ctx, err)
		return
	}

	apps, err := c.Service.ListApplicationsByJob(ctx.Request.Context(), ctx.Param("jobId"), q)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.SuccessList(ctx, apps)
}

// @Summary 得分最高的申请者
// @Tags 职位申请
// @Produce json
// @Param jobId path string true "职位ID"
// @Param limit query int false "1-50，默认10"
// @Success 200 {object} util.Response
// @Router /api/v1/job-applications/job/{jobId}/top [get]
func (c *JobApplicationController) TopApplicants(ctx *gin.Context) {
	limit := util.DefaultTopApplicants
	if s := ctx.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			util.BadRequest(ctx, "limit must be an integer")
			return
		}
		limit = n
	}

	apps, err := c.Service.GetTopApplicants(ctx.Request.Context(), ctx.Param("jobId"), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.SuccessList(ctx, apps)
}

// @Summary 申请详情
// @Tags 职位申请
// @Produce json
// @Param applicationId path string true "申请ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/job-applications/{applicationId} [get]
func (c *JobApplicationController) Get(ctx *gin.Context) {
	app, err := c.Service.GetApplication(ctx.Request.Context(), ctx.Param("applicationId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, app)
}

// @Summary 更新申请状态
// @Tags 职位申请
// @Accept json
// @Produce json
// @Param applicationId path string true "申请ID"
// @Param body body service.UpdateStatusRequest true "新状态"
// @Success 200 {object} util.Response
// @Router /api/v1/job-applications/{applicationId}/status [put]
func (c *JobApplicationController) UpdateStatus(ctx *gin.Context) {
	var req service.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	app, err := c.Service.UpdateApplicationStatus(ctx.Request.Context(), ctx.Param("applicationId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, app)
}
