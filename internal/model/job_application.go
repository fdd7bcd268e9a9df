package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"job_scoring_backend/internal/scoring"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusReviewed = "reviewed"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

var ApplicationStatuses = []string{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

func ValidApplicationStatus(status string) bool {
	for _, s := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// AnswerList holds scored answers as a JSON column.
type AnswerList []scoring.ScoredAnswer

func (l AnswerList) Value() (driver.Value, error) {
	if l == nil {
		l = AnswerList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *AnswerList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// swagger:model JobApplication
type JobApplication struct {
	UUIDBase
	JobID            string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_job_applicant;index:idx_job_status,priority:1" json:"jobId"`
	Job              *Job       `gorm:"foreignKey:JobID" json:"job,omitempty"`
	ApplicantID      string     `gorm:"size:100;not null;uniqueIndex:idx_job_applicant" json:"applicantId"`
	ApplicantName    string     `gorm:"size:100;not null" json:"applicantName"`
	ApplicantEmail   string     `gorm:"size:255;not null;index" json:"applicantEmail"`
	Answers          AnswerList `gorm:"type:json" json:"answers"`
	TotalScore       float64    `gorm:"not null;default:0" json:"totalScore"`
	MaxPossibleScore float64    `gorm:"not null;default:0" json:"maxPossibleScore"`
	ScorePercentage  int        `gorm:"not null;default:0;index" json:"scorePercentage"`
	Status           string     `gorm:"size:20;default:'pending';index:idx_job_status,priority:2" json:"status"`
	AppliedAt        time.Time  `json:"appliedAt"`
	ReviewedAt       *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy       string     `gorm:"size:100" json:"reviewedBy,omitempty"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`
}

func (JobApplication) TableName() string {
	return "job_applications"
}

// ApplyScore copies a scoring result onto the application.
func (a *JobApplication) ApplyScore(res *scoring.Result) {
	a.Answers = res.Answers
	a.TotalScore = res.TotalScore
	a.MaxPossibleScore = res.MaxPossibleScore
	a.ScorePercentage = res.ScorePercentage
}
