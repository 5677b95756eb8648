package service

import (
	"context"
	"errors"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"
	"skillkart_backend/pkg/monitoring"
	"skillkart_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	RoadmapRepo *repository.RoadmapRepository
	AttemptRepo *repository.QuizAttemptRepository
}

func NewQuizService(roadmapRepo *repository.RoadmapRepository, attemptRepo *repository.QuizAttemptRepository) *QuizService {
	return &QuizService{RoadmapRepo: roadmapRepo, AttemptRepo: attemptRepo}
}

// QuizSubmission answers 中 null 表示未作答
type QuizSubmission struct {
	WeekIndex     int    `json:"weekIndex"`
	TopicIndex    int    `json:"topicIndex"`
	ResourceIndex int    `json:"resourceIndex"`
	Answers       []*int `json:"answers" binding:"required"`
}

type QuizResult struct {
	QuizScore
	AttemptID uint `json:"attemptId"`
	Passed    bool `json:"passed"`
}

func (s *QuizService) findQuiz(roadmapID uint, weekIndex, topicIndex, resourceIndex int) (*model.QuizPayload, error) {
	roadmap, err := s.RoadmapRepo.FindByID(roadmapID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoadmapNotFound
	} else if err != nil {
		return nil, err
	}
	topic, ok := roadmap.Topic(weekIndex, topicIndex)
	if !ok {
		return nil, util.ErrTopicNotFound
	}
	if resourceIndex < 0 || resourceIndex >= len(topic.Resources) {
		return nil, util.ErrResourceNotFound
	}
	res := topic.Resources[resourceIndex]
	if res.Type != model.ResourceQuiz || res.Quiz == nil {
		return nil, util.ErrNotAQuiz
	}
	return res.Quiz, nil
}

// Submit 校验并评分，评分结果作为一次作答记录保存
func (s *QuizService) Submit(ctx context.Context, userID, roadmapID uint, sub QuizSubmission) (result *QuizResult, err error) {
	_, span := tracing.StartSpan(ctx, "QuizService.Submit",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("roadmap.id", int64(roadmapID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	quiz, err := s.findQuiz(roadmapID, sub.WeekIndex, sub.TopicIndex, sub.ResourceIndex)
	if err != nil {
		return nil, err
	}
	if err := ValidateQuizSubmission(quiz.Questions, sub.Answers); err != nil {
		monitoring.QuizSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	score := GradeQuiz(quiz.Questions, sub.Answers)
	answers := make([]int, len(sub.Answers))
	for i, a := range sub.Answers {
		answers[i] = *a
	}
	attempt := &model.QuizAttempt{
		UserID:        userID,
		RoadmapID:     roadmapID,
		WeekIndex:     sub.WeekIndex,
		TopicIndex:    sub.TopicIndex,
		ResourceIndex: sub.ResourceIndex,
		Score:         score.Score,
		Total:         score.Total,
		Answers:       answers,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		logger.Log.Error("Failed to save quiz attempt",
			zap.Uint("userId", userID), zap.Uint("roadmapId", roadmapID), zap.Error(err))
		return nil, err
	}

	label := "failed"
	if attempt.Passed() {
		label = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(label).Inc()

	return &QuizResult{QuizScore: score, AttemptID: attempt.ID, Passed: attempt.Passed()}, nil
}

func (s *QuizService) History(userID, roadmapID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.FindByUserAndRoadmap(userID, roadmapID)
}
