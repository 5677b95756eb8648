package service

import (
	"fmt"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
)

type QuizScore struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// GradeQuiz 按下标比对答案，nil 表示未作答，永远不计分
func GradeQuiz(questions []model.QuizQuestion, answers []*int) QuizScore {
	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] != nil && *answers[i] == q.CorrectIndex {
			score++
		}
	}
	return QuizScore{Score: score, Total: len(questions)}
}

// ValidateQuizSubmission 要求每道题都有作答
func ValidateQuizSubmission(questions []model.QuizQuestion, answers []*int) error {
	if len(answers) != len(questions) {
		return util.NewValidationError("answers",
			fmt.Sprintf("expected %d answers, got %d", len(questions), len(answers)))
	}
	verr := &util.ValidationError{}
	for i, a := range answers {
		if a == nil {
			verr.Issues = append(verr.Issues, util.ValidationIssue{
				Field: fmt.Sprintf("answers[%d]", i), Week: -1, Topic: -1,
				Message: fmt.Sprintf("question %d is not answered", i+1),
			})
		}
	}
	if len(verr.Issues) > 0 {
		return verr
	}
	return nil
}
