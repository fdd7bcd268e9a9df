package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"job_scoring_backend/internal/repository"
	"job_scoring_backend/internal/scoring"
	"job_scoring_backend/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var jobColumns = []string{"id", "created_at", "updated_at", "deleted_at", "title", "location", "customer", "job_name", "description", "questions"}

const questionsJSON = `[{"id":"q1","text":"Preferred stack?","type":"single-choice","options":["Go","Java"],"correctAnswer":"Go","scoring":40},` +
	`{"id":"q2","text":"Rate your SQL","type":"rating","scoring":60}]`

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
	Count   *int            `json:"count"`
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)

	jobSvc := service.NewJobService(repository.NewJobRepository(db), nil, 0)
	appSvc := service.NewJobApplicationService(repository.NewJobApplicationRepository(db), jobSvc, scoring.New())

	jobs := NewJobController(jobSvc)
	apps := NewJobApplicationController(appSvc)
	health := NewHealthController(db, nil)

	r := gin.New()
	r.GET("/api/health", health.HealthCheck)
	v1 := r.Group("/api/v1")
	v1.POST("/jobs", jobs.CreateJob)
	v1.GET("/jobs", jobs.ListJobs)
	v1.GET("/jobs/:jobId", jobs.GetJob)
	v1.DELETE("/jobs/:jobId", jobs.DeleteJob)
	v1.POST("/job-applications/apply", apps.Apply)
	v1.GET("/job-applications/job/:jobId/top", apps.TopApplicants)
	v1.GET("/job-applications/job/:jobId", apps.ListByJob)
	v1.PUT("/job-applications/:applicationId/status", apps.UpdateStatus)
	return r, mock
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func expectJob(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `jobs` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(jobColumns).AddRow(
			"job-1", now, now, nil, "Backend Engineer", "Berlin", "Acme", "be-1", "Go services", []byte(questionsJSON),
		))
}

func expectApplied(mock sqlmock.Sqlmock, count int) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `job_applications`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","components":{"database":"up"}}`, string(env.Data))
}

func TestCreateJob_ValidationErrors(t *testing.T) {
	r, mock := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/v1/jobs", map[string]interface{}{
		"location": "Berlin",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Contains(t, env.Errors, "CreateJobRequest.Title is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJob_InvalidQuestions(t *testing.T) {
	r, mock := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/v1/jobs", map[string]interface{}{
		"title":       "Backend Engineer",
		"location":    "Berlin",
		"customer":    "Acme",
		"jobName":     "be-1",
		"description": "Go services",
		"questions": []map[string]interface{}{
			{"id": "q1", "text": "Preferred stack?", "type": "single-choice", "options": []string{"Go"}, "scoring": 40},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid questions", env.Message)
	require.Len(t, env.Errors, 1)
	assert.Contains(t, env.Errors[0], "at least 2 options")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJob(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `jobs`")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, env := do(t, r, http.MethodPost, "/api/v1/jobs", `{
		"title": "Backend Engineer", "location": "Berlin", "customer": "Acme",
		"jobName": "be-1", "description": "Go services",
		"questions": `+questionsJSON+`
	}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var job struct {
		ID        string             `json:"id"`
		Questions []scoring.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.NotEmpty(t, job.ID)
	assert.Len(t, job.Questions, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJob_NotFound(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `jobs` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(jobColumns))

	w, env := do(t, r, http.MethodGet, "/api/v1/jobs/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "job not found", env.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListJobs_Empty(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `jobs`")).
		WillReturnRows(sqlmock.NewRows(jobColumns))

	w, env := do(t, r, http.MethodGet, "/api/v1/jobs", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
}

func applyBody(answers string) string {
	return `{"jobId":"job-1","applicantId":"cand-7","applicantName":"Ada","applicantEmail":"ada@example.com","answers":` + answers + `}`
}

func TestApply(t *testing.T) {
	r, mock := setupRouter(t)

	expectJob(mock)
	expectApplied(mock, 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `job_applications`")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, env := do(t, r, http.MethodPost, "/api/v1/job-applications/apply",
		applyBody(`[{"questionId":"q1","answer":"Go"},{"questionId":"q2","answer":5}]`))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var app struct {
		TotalScore       float64 `json:"totalScore"`
		MaxPossibleScore float64 `json:"maxPossibleScore"`
		ScorePercentage  int     `json:"scorePercentage"`
		Status           string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &app))
	assert.Equal(t, 70.0, app.TotalScore)
	assert.Equal(t, 100.0, app.MaxPossibleScore)
	assert.Equal(t, 70, app.ScorePercentage)
	assert.Equal(t, "pending", app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(sqlmock.Sqlmock)
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing answers",
			body:     `{"jobId":"job-1","applicantId":"cand-7","applicantName":"Ada","applicantEmail":"ada@example.com"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Validation failed",
		},
		{
			name:     "bad email",
			body:     `{"jobId":"job-1","applicantId":"cand-7","applicantName":"Ada","applicantEmail":"nope","answers":[{"questionId":"q1","answer":"Go"}]}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Validation failed",
		},
		{
			name:     "answer without question id",
			body:     applyBody(`[{"answer":"Go"}]`),
			wantCode: http.StatusBadRequest,
			wantMsg:  "Validation failed",
		},
		{
			name:     "answer with unsupported shape",
			body:     applyBody(`[{"questionId":"q1","answer":{"x":1}}]`),
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid request",
		},
		{
			name:     "unknown question",
			body:     applyBody(`[{"questionId":"q9","answer":"Go"}]`),
			setup:    func(m sqlmock.Sqlmock) { expectJob(m); expectApplied(m, 0) },
			wantCode: http.StatusBadRequest,
			wantMsg:  "question not found for the given answer",
		},
		{
			name:     "wrong answer type",
			body:     applyBody(`[{"questionId":"q2","answer":"five"}]`),
			setup:    func(m sqlmock.Sqlmock) { expectJob(m); expectApplied(m, 0) },
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid answer type",
		},
		{
			name:     "already applied",
			body:     applyBody(`[{"questionId":"q1","answer":"Go"}]`),
			setup:    func(m sqlmock.Sqlmock) { expectJob(m); expectApplied(m, 1) },
			wantCode: http.StatusConflict,
			wantMsg:  "you have already applied for this job",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := setupRouter(t)
			if tt.setup != nil {
				tt.setup(mock)
			}

			w, env := do(t, r, http.MethodPost, "/api/v1/job-applications/apply", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, env.Message, tt.wantMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTopApplicants_BadLimit(t *testing.T) {
	r, mock := setupRouter(t)

	w, _ := do(t, r, http.MethodGet, "/api/v1/job-applications/job/job-1/top?limit=ten", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByJob_InvalidSort(t *testing.T) {
	r, mock := setupRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/job-applications/job/job-1?sortBy=salary", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Contains(t, env.Errors[0], "SortBy must be one of")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_Invalid(t *testing.T) {
	r, mock := setupRouter(t)

	w, env := do(t, r, http.MethodPut, "/api/v1/job-applications/a-1/status", `{"status":"hired"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "status must be one of")
	assert.NoError(t, mock.ExpectationsWereMet())
}
