package controller

import (
	"errors"
	"fmt"

	"job_scoring_backend/internal/scoring"
	"job_scoring_backend/internal/service"
	"job_scoring_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError 将服务层错误映射为 HTTP 响应
func respondError(ctx *gin.Context, err error) {
	var qe *service.QuestionsError
	switch {
	case errors.As(err, &qe):
		util.ValidationError(ctx, "Invalid questions", qe.Problems())
	case errors.Is(err, scoring.ErrUnknownQuestion),
		errors.Is(err, scoring.ErrInvalidAnswerShape),
		errors.Is(err, util.ErrDuplicateAnswer),
		errors.Is(err, util.ErrInvalidStatus):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrJobNotFound),
		errors.Is(err, util.ErrApplicationNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrAlreadyApplied):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// respondBindError 请求体/参数校验失败
func respondBindError(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		util.ValidationError(ctx, "Invalid request", []string{err.Error()})
		return
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describeFieldError(fe))
	}
	util.ValidationError(ctx, "Validation failed", problems)
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
