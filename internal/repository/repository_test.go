package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"job_scoring_backend/internal/model"
	"job_scoring_backend/internal/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

var jobColumns = []string{"id", "created_at", "updated_at", "deleted_at", "title", "location", "customer", "job_name", "description", "questions"}

func TestJobRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `jobs` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(jobColumns).AddRow(
			"job-1", now, now, nil, "Backend Engineer", "Berlin", "Acme", "be-1", "Go services",
			[]byte(`[{"id":"q1","text":"Pick","type":"single-choice","options":["A","B"],"correctAnswer":"B","scoring":25}]`),
		))

	job, err := repo.FindByID(context.Background(), "job-1")

	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)
	require.Len(t, job.Questions, 1)
	assert.Equal(t, scoring.SingleChoice, job.Questions[0].Type)
	assert.Equal(t, scoring.String("B"), job.Questions[0].CorrectAnswer)
	assert.Equal(t, 25.0, job.MaxPossibleScore())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `jobs` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(jobColumns))

	job, err := repo.FindByID(context.Background(), "missing")

	assert.Nil(t, job)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `jobs`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	job := &model.Job{
		Title: "Backend Engineer",
		Questions: model.QuestionList{
			{ID: "q1", Text: "Rate Go", Type: scoring.Rating, Scoring: 10},
		},
	}
	err := repo.Create(context.Background(), job)

	require.NoError(t, err)
	assert.NotEmpty(t, job.ID, "uuid assigned before insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `jobs` SET `deleted_at`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "job-1")

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `jobs` SET `deleted_at`=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "nope")

	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestJobApplicationRepository_ExistsForApplicant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `job_applications`")).
		WithArgs("job-1", "applicant-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsForApplicant(context.Background(), "job-1", "applicant-1")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobApplicationRepository_ListByJobOrdering(t *testing.T) {
	tests := []struct {
		name    string
		filter  ApplicationFilter
		pattern string
	}{
		{
			name:    "defaults to score desc",
			filter:  ApplicationFilter{},
			pattern: "ORDER BY score_percentage desc,applied_at asc",
		},
		{
			name:    "status filter and name asc",
			filter:  ApplicationFilter{Status: "pending", SortBy: "applicant_name", SortOrder: "asc"},
			pattern: "status = ? AND `job_applications`.`deleted_at` IS NULL ORDER BY applicant_name asc,applied_at asc",
		},
		{
			name:    "applied at has no tiebreak",
			filter:  ApplicationFilter{SortBy: "applied_at", SortOrder: "desc"},
			pattern: "ORDER BY applied_at desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewJobApplicationRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta(tt.pattern)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "score_percentage"}).
					AddRow("a1", "job-1", 80).
					AddRow("a2", "job-1", 40))

			apps, err := repo.ListByJob(context.Background(), "job-1", tt.filter)

			require.NoError(t, err)
			assert.Len(t, apps, 2)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestJobApplicationRepository_TopByJob(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE job_id = ? AND `job_applications`.`deleted_at` IS NULL ORDER BY score_percentage desc, applied_at asc LIMIT")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "score_percentage", "answers"}).
			AddRow("a1", 90, `[{"questionId":"q1","answer":"B","score":25}]`))

	apps, err := repo.TopByJob(context.Background(), "job-1", 3)

	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Len(t, apps[0].Answers, 1)
	assert.Equal(t, 25.0, apps[0].Answers[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
