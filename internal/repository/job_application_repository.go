package repository

import (
	"context"
	"fmt"

	"job_scoring_backend/internal/model"

	"gorm.io/gorm"
)

// ApplicationFilter narrows and orders the applications of one job.
// SortBy is a column name; callers are expected to whitelist it.
type ApplicationFilter struct {
	Status    string
	SortBy    string
	SortOrder string
}

type JobApplicationRepository struct {
	DB *gorm.DB
}

func NewJobApplicationRepository(db *gorm.DB) *JobApplicationRepository {
	return &JobApplicationRepository{DB: db}
}

func (r *JobApplicationRepository) Create(ctx context.Context, app *model.JobApplication) error {
	return r.DB.WithContext(ctx).Create(app).Error
}

func (r *JobApplicationRepository) ExistsForApplicant(ctx context.Context, jobID, applicantID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.JobApplication{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&count).Error
	return count > 0, err
}

func (r *JobApplicationRepository) ListByJob(ctx context.Context, jobID string, filter ApplicationFilter) ([]model.JobApplication, error) {
	var apps []model.JobApplication
	query := r.DB.WithContext(ctx).Where("job_id = ?", jobID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "score_percentage"
	}
	order := "desc"
	if filter.SortOrder == "asc" {
		order = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))
	if sortBy != "applied_at" {
		query = query.Order("applied_at asc")
	}

	err := query.Find(&apps).Error
	return apps, err
}

func (r *JobApplicationRepository) TopByJob(ctx context.Context, jobID string, limit int) ([]model.JobApplication, error) {
	var apps []model.JobApplication
	err := r.DB.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("score_percentage desc, applied_at asc").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

func (r *JobApplicationRepository) FindByID(ctx context.Context, id string) (*model.JobApplication, error) {
	var app model.JobApplication
	if err := r.DB.WithContext(ctx).Preload("Job").Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *JobApplicationRepository) Update(ctx context.Context, app *model.JobApplication) error {
	return r.DB.WithContext(ctx).Omit("Job").Save(app).Error
}
