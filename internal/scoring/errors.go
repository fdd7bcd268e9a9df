package scoring

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownQuestion    = errors.New("question not found for the given answer")
	ErrInvalidAnswerShape = errors.New("invalid answer type")
)

// AnswerError describes why a single answer aborted a scoring pass.
// It unwraps to ErrUnknownQuestion or ErrInvalidAnswerShape.
type AnswerError struct {
	QuestionID   string
	QuestionType QuestionType
	Got          Kind
	Err          error
}

func (e *AnswerError) Error() string {
	if errors.Is(e.Err, ErrUnknownQuestion) {
		return fmt.Sprintf("%s: %q", e.Err, e.QuestionID)
	}
	return fmt.Sprintf("%s: question %q (%s) does not accept a %s answer", e.Err, e.QuestionID, e.QuestionType, e.Got)
}

func (e *AnswerError) Unwrap() error {
	return e.Err
}

func unknownQuestion(id string) error {
	return &AnswerError{QuestionID: id, Err: ErrUnknownQuestion}
}

func invalidShape(q Question, got Kind) error {
	return &AnswerError{QuestionID: q.ID, QuestionType: q.Type, Got: got, Err: ErrInvalidAnswerShape}
}
