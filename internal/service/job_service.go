package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"job_scoring_backend/internal/model"
	"job_scoring_backend/internal/repository"
	"job_scoring_backend/internal/scoring"
	"job_scoring_backend/internal/util"
	"job_scoring_backend/pkg/logger"
	"job_scoring_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const jobCachePrefix = "job:"

// QuestionsError reports every problem found in a job's question catalogue.
type QuestionsError struct {
	Err error
}

func (e *QuestionsError) Error() string {
	return "invalid questions: " + e.Err.Error()
}

func (e *QuestionsError) Unwrap() error {
	return e.Err
}

// Problems 拆分为逐条错误信息
func (e *QuestionsError) Problems() []string {
	errs := multierr.Errors(e.Err)
	problems := make([]string, 0, len(errs))
	for _, err := range errs {
		problems = append(problems, err.Error())
	}
	return problems
}

type JobService struct {
	Repo     *repository.JobRepository
	Redis    *redis.Client
	CacheTTL time.Duration
}

// NewJobService rdb 为 nil 时不使用缓存
func NewJobService(repo *repository.JobRepository, rdb *redis.Client, cacheTTL time.Duration) *JobService {
	return &JobService{
		Repo:     repo,
		Redis:    rdb,
		CacheTTL: cacheTTL,
	}
}

type CreateJobRequest struct {
	Title       string             `json:"title" binding:"required,max=200"`
	Location    string             `json:"location" binding:"required,max=100"`
	Customer    string             `json:"customer" binding:"required,max=100"`
	JobName     string             `json:"jobName" binding:"required,max=150"`
	Description string             `json:"description" binding:"required,max=2000"`
	Questions   []scoring.Question `json:"questions" binding:"required,min=1"`
}

// UpdateJobRequest 所有字段可选，只更新传入的字段
type UpdateJobRequest struct {
	Title       *string            `json:"title" binding:"omitempty,min=1,max=200"`
	Location    *string            `json:"location" binding:"omitempty,min=1,max=100"`
	Customer    *string            `json:"customer" binding:"omitempty,min=1,max=100"`
	JobName     *string            `json:"jobName" binding:"omitempty,min=1,max=150"`
	Description *string            `json:"description" binding:"omitempty,min=1,max=2000"`
	Questions   []scoring.Question `json:"questions"`
}

func (s *JobService) CreateJob(ctx context.Context, req CreateJobRequest) (*model.Job, error) {
	if err := scoring.ValidateQuestions(req.Questions); err != nil {
		return nil, &QuestionsError{Err: err}
	}

	job := &model.Job{
		Title:       req.Title,
		Location:    req.Location,
		Customer:    req.Customer,
		JobName:     req.JobName,
		Description: req.Description,
		Questions:   req.Questions,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return nil, err
	}

	logger.Log.Info("Job created",
		zap.String("jobId", job.ID),
		zap.Int("questions", len(job.Questions)),
		zap.Float64("maxPossibleScore", job.MaxPossibleScore()),
	)
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context) ([]model.Job, error) {
	return s.Repo.List(ctx)
}

// GetJob 先查缓存，未命中再查库并回填
func (s *JobService) GetJob(ctx context.Context, id string) (*model.Job, error) {
	if job, ok := s.cachedJob(ctx, id); ok {
		return job, nil
	}

	job, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrJobNotFound
		}
		return nil, err
	}

	s.cacheJob(ctx, job)
	return job, nil
}

func (s *JobService) UpdateJob(ctx context.Context, id string, req UpdateJobRequest) (*model.Job, error) {
	job, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrJobNotFound
		}
		return nil, err
	}

	if req.Questions != nil {
		if err := scoring.ValidateQuestions(req.Questions); err != nil {
			return nil, &QuestionsError{Err: err}
		}
		job.Questions = req.Questions
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Customer != nil {
		job.Customer = *req.Customer
	}
	if req.JobName != nil {
		job.JobName = *req.JobName
	}
	if req.Description != nil {
		job.Description = *req.Description
	}

	if err := s.Repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrJobNotFound
	}

	s.invalidate(ctx, id)
	logger.Log.Info("Job deleted", zap.String("jobId", id))
	return nil
}

func (s *JobService) cachedJob(ctx context.Context, id string) (*model.Job, bool) {
	if s.Redis == nil {
		return nil, false
	}

	raw, err := s.Redis.Get(ctx, jobCachePrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			monitoring.JobCacheLookups.WithLabelValues("miss").Inc()
		} else {
			monitoring.JobCacheLookups.WithLabelValues("error").Inc()
			logger.Log.Warn("Job cache read failed", zap.String("jobId", id), zap.Error(err))
		}
		return nil, false
	}

	var job model.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		monitoring.JobCacheLookups.WithLabelValues("error").Inc()
		logger.Log.Warn("Discarding corrupt job cache entry", zap.String("jobId", id), zap.Error(err))
		s.invalidate(ctx, id)
		return nil, false
	}

	monitoring.JobCacheLookups.WithLabelValues("hit").Inc()
	return &job, true
}

func (s *JobService) cacheJob(ctx context.Context, job *model.Job) {
	if s.Redis == nil {
		return
	}

	raw, err := json.Marshal(job)
	if err != nil {
		logger.Log.Warn("Failed to encode job for cache", zap.String("jobId", job.ID), zap.Error(err))
		return
	}
	if err := s.Redis.Set(ctx, jobCachePrefix+job.ID, raw, s.CacheTTL).Err(); err != nil {
		logger.Log.Warn("Job cache write failed", zap.String("jobId", job.ID), zap.Error(err))
	}
}

func (s *JobService) invalidate(ctx context.Context, id string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, jobCachePrefix+id).Err(); err != nil {
		logger.Log.Warn("Job cache invalidation failed", zap.String("jobId", id), zap.Error(err))
	}
}
