package repository

import (
	"context"

	"job_scoring_backend/internal/model"

	"gorm.io/gorm"
)

type JobRepository struct {
	DB *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{DB: db}
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.DB.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) List(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	err := r.DB.WithContext(ctx).Order("created_at desc").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	return r.DB.WithContext(ctx).Save(job).Error
}

// Delete soft-deletes a job and reports whether a row was affected.
func (r *JobRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Job{})
	return result.RowsAffected > 0, result.Error
}
