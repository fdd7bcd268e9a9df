package model

import (
	"database/sql/driver"
	"encoding/json"

	"job_scoring_backend/internal/scoring"
)

// QuestionList is a job's question catalogue, stored as a JSON column.
type QuestionList []scoring.Question

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		l = QuestionList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *QuestionList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// swagger:model Job
type Job struct {
	UUIDBase
	Title       string       `gorm:"size:200;not null" json:"title"`
	Location    string       `gorm:"size:100;not null" json:"location"`
	Customer    string       `gorm:"size:100;not null" json:"customer"`
	JobName     string       `gorm:"size:150;not null" json:"jobName"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Questions   QuestionList `gorm:"type:json" json:"questions"`
}

func (Job) TableName() string {
	return "jobs"
}

// MaxPossibleScore is the sum of every question's ceiling.
func (j *Job) MaxPossibleScore() float64 {
	return scoring.MaxPossibleScore(j.Questions)
}
