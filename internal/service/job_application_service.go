package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job_scoring_backend/internal/model"
	"job_scoring_backend/internal/repository"
	"job_scoring_backend/internal/scoring"
	"job_scoring_backend/internal/util"
	"job_scoring_backend/pkg/logger"
	"job_scoring_backend/pkg/monitoring"
	"job_scoring_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type JobApplicationService struct {
	Repo   *repository.JobApplicationRepository
	Jobs   *JobService
	Scorer scoring.Scorer
	// now 便于测试替换
	now func() time.Time
}

func NewJobApplicationService(repo *repository.JobApplicationRepository, jobs *JobService, scorer scoring.Scorer) *JobApplicationService {
	return &JobApplicationService{
		Repo:   repo,
		Jobs:   jobs,
		Scorer: scorer,
		now:    time.Now,
	}
}

type ApplyJobRequest struct {
	JobID          string          `json:"jobId" binding:"required"`
	ApplicantID    string          `json:"applicantId" binding:"required,max=100"`
	ApplicantName  string          `json:"applicantName" binding:"required,max=100"`
	ApplicantEmail string          `json:"applicantEmail" binding:"required,email"`
	Answers        []AnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

type AnswerRequest struct {
	QuestionID string        `json:"questionId" binding:"required"`
	Answer     scoring.Value `json:"answer"`
}

func (r ApplyJobRequest) answers() []scoring.Answer {
	answers := make([]scoring.Answer, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, scoring.Answer{QuestionID: a.QuestionID, Answer: a.Answer})
	}
	return answers
}

type ListApplicationsQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending reviewed accepted rejected"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=scorePercentage appliedAt applicantName"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

type UpdateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	ReviewedBy string `json:"reviewedBy" binding:"omitempty,max=100"`
	Notes      string `json:"notes" binding:"omitempty,max=1000"`
}

// ApplyForJob 校验、评分并保存申请；评分失败时不落库
func (s *JobApplicationService) ApplyForJob(ctx context.Context, req ApplyJobRequest) (app *model.JobApplication, err error) {
	ctx, span := tracing.Start(ctx, "JobApplicationService.ApplyForJob",
		attribute.String("job.id", req.JobID),
		attribute.Int("answers", len(req.Answers)),
	)
	defer func() { tracing.End(span, err) }()

	job, err := s.Jobs.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	exists, err := s.Repo.ExistsForApplicant(ctx, req.JobID, req.ApplicantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyApplied
	}

	answers := req.answers()
	if err := checkDuplicateAnswers(answers); err != nil {
		return nil, err
	}

	res, err := s.Scorer.Score(job.Questions, answers)
	if err != nil {
		monitoring.ApplicationsScored.WithLabelValues(scoreOutcome(err)).Inc()
		logger.Log.Info("Application rejected by scorer",
			zap.String("jobId", job.ID),
			zap.String("applicantId", req.ApplicantID),
			zap.Error(err),
		)
		return nil, err
	}
	monitoring.ApplicationsScored.WithLabelValues(scoreOutcome(nil)).Inc()
	monitoring.ScorePercentage.Observe(float64(res.ScorePercentage))
	span.SetAttributes(attribute.Int("score.percentage", res.ScorePercentage))

	app = &model.JobApplication{
		JobID:          job.ID,
		ApplicantID:    req.ApplicantID,
		ApplicantName:  strings.TrimSpace(req.ApplicantName),
		ApplicantEmail: strings.ToLower(strings.TrimSpace(req.ApplicantEmail)),
		Status:         model.ApplicationStatusPending,
		AppliedAt:      s.now(),
	}
	app.ApplyScore(res)

	if err := s.Repo.Create(ctx, app); err != nil {
		// 并发重复提交由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyApplied
		}
		return nil, err
	}

	logger.Log.Info("Application scored",
		zap.String("applicationId", app.ID),
		zap.String("jobId", job.ID),
		zap.Float64("totalScore", app.TotalScore),
		zap.Float64("maxPossibleScore", app.MaxPossibleScore),
		zap.Int("scorePercentage", app.ScorePercentage),
	)
	return app, nil
}

func (s *JobApplicationService) ListApplicationsByJob(ctx context.Context, jobID string, q ListApplicationsQuery) ([]model.JobApplication, error) {
	filter := repository.ApplicationFilter{
		Status:    q.Status,
		SortOrder: q.SortOrder,
	}
	if q.SortBy != "" {
		column, ok := util.ApplicationSortColumns[q.SortBy]
		if !ok {
			return nil, fmt.Errorf("unsupported sortBy %q", q.SortBy)
		}
		filter.SortBy = column
	}
	return s.Repo.ListByJob(ctx, jobID, filter)
}

// GetTopApplicants limit 超出 1..50 时回退为默认值或上限
func (s *JobApplicationService) GetTopApplicants(ctx context.Context, jobID string, limit int) ([]model.JobApplication, error) {
	if limit <= 0 {
		limit = util.DefaultTopApplicants
	}
	if limit > util.MaxTopApplicants {
		limit = util.MaxTopApplicants
	}
	return s.Repo.TopByJob(ctx, jobID, limit)
}

func (s *JobApplicationService) GetApplication(ctx context.Context, id string) (*model.JobApplication, error) {
	app, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *JobApplicationService) UpdateApplicationStatus(ctx context.Context, id string, req UpdateStatusRequest) (*model.JobApplication, error) {
	if !model.ValidApplicationStatus(req.Status) {
		return nil, util.ErrInvalidStatus
	}

	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewedAt := s.now()
	app.Status = req.Status
	app.ReviewedAt = &reviewedAt
	if req.ReviewedBy != "" {
		app.ReviewedBy = req.ReviewedBy
	}
	if req.Notes != "" {
		app.Notes = req.Notes
	}

	if err := s.Repo.Update(ctx, app); err != nil {
		return nil, err
	}

	logger.Log.Info("Application status updated",
		zap.String("applicationId", app.ID),
		zap.String("status", app.Status),
		zap.String("reviewedBy", app.ReviewedBy),
	)
	return app, nil
}

// RescoreSummary reports the outcome of RescoreJob.
type RescoreSummary struct {
	Rescored int      `json:"rescored"`
	Skipped  []string `json:"skipped"`
}

// RescoreJob 职位题目修改后，按当前题目重新为已有申请评分。
// 答案与新题目不再匹配的申请保留原分数并记入 Skipped。
func (s *JobApplicationService) RescoreJob(ctx context.Context, jobID string) (summary *RescoreSummary, err error) {
	ctx, span := tracing.Start(ctx, "JobApplicationService.RescoreJob", attribute.String("job.id", jobID))
	defer func() { tracing.End(span, err) }()

	job, err := s.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	apps, err := s.Repo.ListByJob(ctx, jobID, repository.ApplicationFilter{})
	if err != nil {
		return nil, err
	}

	summary = &RescoreSummary{Skipped: []string{}}
	for i := range apps {
		app := &apps[i]
		answers := make([]scoring.Answer, 0, len(app.Answers))
		for _, a := range app.Answers {
			answers = append(answers, scoring.Answer{QuestionID: a.QuestionID, Answer: a.Answer})
		}

		res, scoreErr := s.Scorer.Score(job.Questions, answers)
		if scoreErr != nil {
			logger.Log.Warn("Skipping application during rescore",
				zap.String("applicationId", app.ID),
				zap.Error(scoreErr),
			)
			summary.Skipped = append(summary.Skipped, app.ID)
			continue
		}

		app.ApplyScore(res)
		if err := s.Repo.Update(ctx, app); err != nil {
			return summary, err
		}
		summary.Rescored++
	}

	logger.Log.Info("Job rescored",
		zap.String("jobId", jobID),
		zap.Int("rescored", summary.Rescored),
		zap.Int("skipped", len(summary.Skipped)),
	)
	return summary, nil
}

func checkDuplicateAnswers(answers []scoring.Answer) error {
	seen := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			return fmt.Errorf("%w: question %q", util.ErrDuplicateAnswer, a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}
	}
	return nil
}

func scoreOutcome(err error) string {
	switch {
	case err == nil:
		return "scored"
	case errors.Is(err, scoring.ErrUnknownQuestion):
		return "unknown_question"
	default:
		return "invalid_answer"
	}
}
