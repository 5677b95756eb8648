package service

import (
	"context"
	"errors"
	"testing"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
)

func seedQuizRoadmap(t *testing.T, svc *QuizService, authorID uint) *model.Roadmap {
	t.Helper()
	r := &model.Roadmap{
		Title: "Quiz", Category: "backend", Difficulty: model.Beginner, Duration: 1, CreatedBy: authorID,
		Weeks: []model.Week{{WeekNumber: 1, Title: "w", Topics: []model.Topic{{
			Title: "t",
			Resources: []model.Resource{
				videoRes("https://v/1"),
				{Type: model.ResourceQuiz, Title: "q", Quiz: &model.QuizPayload{Questions: quizQuestions(0, 1, 2, 1)}},
			},
		}}}},
	}
	if err := svc.RoadmapRepo.Create(r); err != nil {
		t.Fatalf("seed roadmap: %v", err)
	}
	return r
}

func TestQuizSubmitAndHistory(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	learner := seedUser(t, db, "learner@example.com", model.Learner)
	svc := NewQuizService(repository.NewRoadmapRepository(db), repository.NewQuizAttemptRepository(db))
	roadmap := seedQuizRoadmap(t, svc, admin.ID)
	ctx := context.Background()

	sub := QuizSubmission{ResourceIndex: 1, Answers: []*int{intPtr(0), intPtr(1), intPtr(0), intPtr(0)}}
	res, err := svc.Submit(ctx, learner.ID, roadmap.ID, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 2 || res.Total != 4 || !res.Passed || res.AttemptID == 0 {
		t.Fatalf("result = %+v", res)
	}

	sub.Answers = []*int{intPtr(2), intPtr(2), intPtr(0), intPtr(0)}
	res, err = svc.Submit(ctx, learner.ID, roadmap.ID, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 0 || res.Passed {
		t.Fatalf("result = %+v", res)
	}

	history, err := svc.History(learner.ID, roadmap.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].Score != 0 || history[1].Score != 2 {
		t.Fatalf("history = %+v", history)
	}
	if len(history[1].Answers) != 4 {
		t.Fatalf("answers = %v", history[1].Answers)
	}
}

func TestQuizSubmitErrors(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	svc := NewQuizService(repository.NewRoadmapRepository(db), repository.NewQuizAttemptRepository(db))
	roadmap := seedQuizRoadmap(t, svc, admin.ID)
	full := []*int{intPtr(0), intPtr(1), intPtr(2), intPtr(1)}

	tests := []struct {
		name      string
		roadmapID uint
		sub       QuizSubmission
		want      error
	}{
		{"unknown roadmap", roadmap.ID + 1, QuizSubmission{ResourceIndex: 1, Answers: full}, util.ErrRoadmapNotFound},
		{"unknown topic", roadmap.ID, QuizSubmission{TopicIndex: 3, ResourceIndex: 1, Answers: full}, util.ErrTopicNotFound},
		{"unknown resource", roadmap.ID, QuizSubmission{ResourceIndex: 2, Answers: full}, util.ErrResourceNotFound},
		{"not a quiz", roadmap.ID, QuizSubmission{ResourceIndex: 0, Answers: full}, util.ErrNotAQuiz},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), admin.ID, tt.roadmapID, tt.sub); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	var verr *util.ValidationError
	unanswered := QuizSubmission{ResourceIndex: 1, Answers: []*int{intPtr(0), nil, intPtr(2), intPtr(1)}}
	if _, err := svc.Submit(context.Background(), admin.ID, roadmap.ID, unanswered); !errors.As(err, &verr) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if history, _ := svc.History(admin.ID, roadmap.ID); len(history) != 0 {
		t.Fatalf("rejected submissions were stored: %d", len(history))
	}
}
