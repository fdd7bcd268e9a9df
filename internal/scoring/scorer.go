// Package scoring turns a candidate's raw answers into a deterministic score
// against a job's question catalogue. It performs no I/O and keeps no state,
// so a Scorer may be shared freely between goroutines.
package scoring

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// Text answers longer than this many characters earn the full score.
	textFullCreditLength = 50
	textPartialRatio     = 0.5
	ratingScale          = 10
)

// Answer is a candidate's response to one question.
type Answer struct {
	QuestionID string `json:"questionId"`
	Answer     Value  `json:"answer"`
}

// ScoredAnswer is an Answer together with the points it earned.
type ScoredAnswer struct {
	QuestionID string  `json:"questionId"`
	Answer     Value   `json:"answer"`
	Score      float64 `json:"score"`
}

// Result is the outcome of scoring one application.
type Result struct {
	Answers          []ScoredAnswer `json:"answers"`
	TotalScore       float64        `json:"totalScore"`
	MaxPossibleScore float64        `json:"maxPossibleScore"`
	ScorePercentage  int            `json:"scorePercentage"`
}

type Option func(*Scorer)

// WithStrictTypes makes the scorer reject answers to questions whose type it
// has no rule for, instead of awarding them full credit.
func WithStrictTypes() Option {
	return func(s *Scorer) {
		s.strictTypes = true
	}
}

type Scorer struct {
	strictTypes bool
}

func New(opts ...Option) Scorer {
	var s Scorer
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Score scores answers with the default Scorer.
func Score(questions []Question, answers []Answer) (*Result, error) {
	return Scorer{}.Score(questions, answers)
}

// Score computes per-answer scores and the aggregate totals. Any answer that
// references an unknown question or has the wrong shape fails the whole call.
func (s Scorer) Score(questions []Question, answers []Answer) (*Result, error) {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		if _, ok := byID[q.ID]; !ok {
			byID[q.ID] = q
		}
	}

	scored := make([]ScoredAnswer, 0, len(answers))
	var total float64
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, unknownQuestion(a.QuestionID)
		}

		points, err := s.scoreAnswer(q, a.Answer)
		if err != nil {
			return nil, err
		}
		points = clamp(points, q.Scoring)

		total += points
		scored = append(scored, ScoredAnswer{QuestionID: a.QuestionID, Answer: a.Answer, Score: points})
	}

	maxScore := MaxPossibleScore(questions)
	return &Result{
		Answers:          scored,
		TotalScore:       total,
		MaxPossibleScore: maxScore,
		ScorePercentage:  Percentage(total, maxScore),
	}, nil
}

// Percentage normalises total against maxScore on a 0..100 scale.
func Percentage(total, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(total / maxScore * 100))
}

func (s Scorer) scoreAnswer(q Question, v Value) (float64, error) {
	if v.IsBlank() {
		return 0, nil
	}

	switch q.Type {
	case MultipleChoice:
		picked, ok := v.AsStrings()
		if !ok {
			return 0, invalidShape(q, v.Kind())
		}
		return scoreMultipleChoice(q, picked), nil

	case SingleChoice:
		picked, ok := v.AsString()
		if !ok {
			return 0, invalidShape(q, v.Kind())
		}
		if correct, ok := q.CorrectAnswer.AsString(); ok && picked == correct {
			return q.Scoring, nil
		}
		return 0, nil

	case Text:
		text, ok := v.AsString()
		if !ok {
			return 0, invalidShape(q, v.Kind())
		}
		if len(q.Keywords) > 0 {
			return scoreKeywords(q, text), nil
		}
		if utf8.RuneCountInString(text) > textFullCreditLength {
			return q.Scoring, nil
		}
		return math.Floor(q.Scoring * textPartialRatio), nil

	case Boolean:
		b, ok := v.AsBool()
		if !ok {
			return 0, invalidShape(q, v.Kind())
		}
		if correct, ok := q.CorrectAnswer.AsBool(); ok && b == correct {
			return q.Scoring, nil
		}
		return 0, nil

	case Rating:
		n, ok := v.AsNumber()
		if !ok {
			return 0, invalidShape(q, v.Kind())
		}
		return math.Floor(n * q.Scoring / ratingScale), nil

	default:
		if s.strictTypes {
			return 0, invalidShape(q, v.Kind())
		}
		return q.Scoring, nil
	}
}

func scoreMultipleChoice(q Question, picked []string) float64 {
	correct, _ := q.CorrectAnswer.AsStrings()
	if len(correct) == 0 {
		return 0
	}

	want := make(map[string]struct{}, len(correct))
	for _, c := range correct {
		want[c] = struct{}{}
	}
	total := len(want)

	matched := 0
	for _, p := range picked {
		if _, ok := want[p]; ok {
			matched++
			delete(want, p)
		}
	}
	return q.Scoring * float64(matched) / float64(total)
}

func scoreKeywords(q Question, text string) float64 {
	lower := strings.ToLower(text)
	matched := 0
	for _, kw := range q.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matched++
		}
	}
	return q.Scoring * float64(matched) / float64(len(q.Keywords))
}

func clamp(points, ceiling float64) float64 {
	if math.IsNaN(points) || points < 0 {
		return 0
	}
	if ceiling < 0 {
		return 0
	}
	return math.Min(points, ceiling)
}
