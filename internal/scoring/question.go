package scoring

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/multierr"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	SingleChoice   QuestionType = "single-choice"
	Text           QuestionType = "text"
	Boolean        QuestionType = "boolean"
	Rating         QuestionType = "rating"
)

const (
	MaxQuestionScoring    = 100
	MaxQuestionTextLength = 500
)

// QuestionTypes lists every type the scorer has a rule for.
var QuestionTypes = []QuestionType{MultipleChoice, SingleChoice, Text, Boolean, Rating}

func (t QuestionType) Known() bool {
	switch t {
	case MultipleChoice, SingleChoice, Text, Boolean, Rating:
		return true
	}
	return false
}

func (t QuestionType) isChoice() bool {
	return t == MultipleChoice || t == SingleChoice
}

// Question is one scoring rubric item of a job posting.
// Scoring is the ceiling of points an answer to it can earn.
type Question struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer Value        `json:"correctAnswer"`
	Keywords      []string     `json:"keywords,omitempty"`
	Scoring       float64      `json:"scoring"`
}

// MaxPossibleScore sums the ceilings of every question.
func MaxPossibleScore(questions []Question) float64 {
	var total float64
	for _, q := range questions {
		total += q.Scoring
	}
	return total
}

// ValidateQuestions checks a job's question catalogue and reports every
// problem found, combined into one error.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}

	var err error
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID != "" {
			if _, dup := seen[q.ID]; dup {
				err = multierr.Append(err, fmt.Errorf("questions[%d]: duplicate question id %q", i, q.ID))
			}
			seen[q.ID] = struct{}{}
		}
		err = multierr.Append(err, ValidateQuestion(q))
	}
	return err
}

func ValidateQuestion(q Question) error {
	var err error
	prefix := fmt.Sprintf("question %q", q.ID)

	if q.ID == "" {
		prefix = "question"
		err = multierr.Append(err, fmt.Errorf("question id is required"))
	}
	if q.Text == "" {
		err = multierr.Append(err, fmt.Errorf("%s: text is required", prefix))
	} else if utf8.RuneCountInString(q.Text) > MaxQuestionTextLength {
		err = multierr.Append(err, fmt.Errorf("%s: text cannot exceed %d characters", prefix, MaxQuestionTextLength))
	}
	if q.Scoring < 0 || q.Scoring > MaxQuestionScoring {
		err = multierr.Append(err, fmt.Errorf("%s: scoring must be between 0 and %d", prefix, MaxQuestionScoring))
	}
	if !q.Type.Known() {
		return multierr.Append(err, fmt.Errorf("%s: type must be one of %v", prefix, QuestionTypes))
	}

	if q.Type.isChoice() && len(q.Options) < 2 {
		err = multierr.Append(err, fmt.Errorf("%s: %s questions must have at least 2 options", prefix, q.Type))
	}
	if len(q.Keywords) > 0 && q.Type != Text {
		err = multierr.Append(err, fmt.Errorf("%s: keywords are only allowed on text questions", prefix))
	}

	return multierr.Append(err, validateCorrectAnswer(prefix, q))
}

func validateCorrectAnswer(prefix string, q Question) error {
	ca := q.CorrectAnswer
	if ca.Kind() == KindNull {
		return nil
	}

	want := map[QuestionType]Kind{
		MultipleChoice: KindStrings,
		SingleChoice:   KindString,
		Text:           KindString,
		Boolean:        KindBool,
		Rating:         KindNumber,
	}[q.Type]
	if ca.Kind() != want {
		return fmt.Errorf("%s: correctAnswer must be a %s for %s questions, got %s", prefix, want, q.Type, ca.Kind())
	}

	if !q.Type.isChoice() {
		return nil
	}

	options := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		options[o] = struct{}{}
	}

	var values []string
	if s, ok := ca.AsString(); ok {
		values = []string{s}
	} else {
		values, _ = ca.AsStrings()
	}

	var err error
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := options[v]; !ok {
			err = multierr.Append(err, fmt.Errorf("%s: correctAnswer %q is not one of the options", prefix, v))
		}
		if _, dup := seen[v]; dup {
			err = multierr.Append(err, fmt.Errorf("%s: correctAnswer %q is listed more than once", prefix, v))
		}
		seen[v] = struct{}{}
	}
	return err
}
