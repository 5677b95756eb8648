package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
)

func TestRoadmapCreateValidation(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	svc := newTestRoadmapService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, admin.ID, RoadmapRequest{Category: "backend", Duration: 0})
	var verr *util.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want validation error", err)
	}
	fields := map[string]bool{}
	for _, issue := range verr.Issues {
		fields[issue.Field] = true
	}
	if !fields["title"] || !fields["duration"] {
		t.Fatalf("issues = %+v", verr.Issues)
	}

	// 未提供周结构时按 duration 生成空周
	r, err := svc.Create(ctx, admin.ID, RoadmapRequest{Title: "Go", Category: "backend", Duration: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(r.Weeks) != 3 || r.Weeks[2].WeekNumber != 3 || r.Difficulty != model.Beginner {
		t.Fatalf("roadmap = %+v", r)
	}
}

func TestRoadmapCreateWizardRequiresResources(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	svc := newTestRoadmapService(db)

	req := RoadmapRequest{
		Title: "Go", Category: "backend", Duration: 1, Wizard: true,
		Weeks: validRoadmap().Weeks,
	}
	if _, err := svc.Create(context.Background(), admin.ID, req); err == nil {
		t.Fatal("wizard roadmap with one resource per topic should be rejected")
	}

	svc.SetMinResourcesPerTopic(1)
	if _, err := svc.Create(context.Background(), admin.ID, req); err != nil {
		t.Fatalf("after lowering the minimum: %v", err)
	}
}

func TestRoadmapMutationsAreAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com", model.Admin)
	other := seedUser(t, db, "other@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, owner.ID, 1, 2)
	svc := newTestRoadmapService(db)
	ctx := context.Background()

	req := RoadmapRequest{Title: "Renamed", Category: "backend", Duration: 1}
	if _, err := svc.Update(ctx, other.ID, roadmap.ID, req); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("Update err = %v", err)
	}
	if _, err := svc.Delete(ctx, other.ID, roadmap.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("Delete err = %v", err)
	}
	if err := svc.DeleteTopic(ctx, other.ID, roadmap.ID, 0, 0); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("DeleteTopic err = %v", err)
	}
	if _, err := svc.Update(ctx, owner.ID, roadmap.ID+100, req); !errors.Is(err, util.ErrRoadmapNotFound) {
		t.Fatalf("Update unknown err = %v", err)
	}

	// Weeks 为 nil 时保留原结构
	updated, err := svc.Update(ctx, owner.ID, roadmap.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Renamed" || updated.TopicCount() != 2 {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestRoadmapDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 1, 2)
	kept := seedRoadmap(t, db, admin.ID, 1, 1)
	progressSvc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		u := seedUser(t, db, "learner"+string(rune('a'+i))+"@example.com", model.Learner)
		if _, err := progressSvc.CompleteTopic(ctx, u.ID, roadmap.ID, 0, 0); err != nil {
			t.Fatalf("CompleteTopic: %v", err)
		}
		if i == 0 {
			if _, err := progressSvc.CompleteTopic(ctx, u.ID, kept.ID, 0, 0); err != nil {
				t.Fatalf("CompleteTopic: %v", err)
			}
		}
	}
	if err := db.Create(&model.QuizAttempt{UserID: admin.ID, RoadmapID: roadmap.ID, Score: 1, Total: 1}).Error; err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	discussions := newTestDiscussionService(db)
	d, err := discussions.Create(admin.ID, roadmap.ID, DiscussionRequest{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("create discussion: %v", err)
	}
	if _, err := discussions.AddComment(admin.ID, d.ID, CommentRequest{Content: "hi"}); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	svc := newTestRoadmapService(db)
	removed, err := svc.Delete(ctx, admin.ID, roadmap.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed != 5 {
		t.Fatalf("removed = %d, want 5", removed)
	}

	if _, err := svc.Get(roadmap.ID); !errors.Is(err, util.ErrRoadmapNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
	counts := []struct {
		name  string
		model interface{}
		where string
		want  int64
	}{
		{"progress", &model.UserProgress{}, "roadmap_id = ?", 0},
		{"attempts", &model.QuizAttempt{}, "roadmap_id = ?", 0},
		{"discussions", &model.Discussion{}, "roadmap_id = ?", 0},
	}
	for _, c := range counts {
		var n int64
		db.Model(c.model).Where(c.where, roadmap.ID).Count(&n)
		if n != c.want {
			t.Fatalf("%s left = %d, want %d", c.name, n, c.want)
		}
	}
	var comments int64
	db.Model(&model.DiscussionComment{}).Count(&comments)
	if comments != 0 {
		t.Fatalf("comments left = %d", comments)
	}

	// 其他路线的进度不受影响
	if n, _ := svc.ProgressRepo.CountByRoadmap(kept.ID); n != 1 {
		t.Fatalf("kept progress = %d, want 1", n)
	}
	var topicRows int64
	db.Model(&model.TopicProgress{}).Count(&topicRows)
	if topicRows != 1 {
		t.Fatalf("topic rows = %d, want 1", topicRows)
	}
}

func TestDeleteTopicShiftsProgress(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	learner := seedUser(t, db, "learner@example.com", model.Learner)
	roadmap := seedRoadmap(t, db, admin.ID, 1, 3)
	progressSvc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	for _, topic := range []int{0, 1, 2} {
		if _, err := progressSvc.CompleteTopic(ctx, learner.ID, roadmap.ID, 0, topic); err != nil {
			t.Fatalf("CompleteTopic: %v", err)
		}
	}
	if _, err := progressSvc.MarkInProgress(ctx, learner.ID, roadmap.ID, 0, 2); err != nil {
		t.Fatalf("MarkInProgress: %v", err)
	}

	svc := newTestRoadmapService(db)
	if err := svc.DeleteTopic(ctx, admin.ID, roadmap.ID, 0, 1); err != nil {
		t.Fatalf("DeleteTopic: %v", err)
	}
	if err := svc.DeleteTopic(ctx, admin.ID, roadmap.ID, 0, 5); !errors.Is(err, util.ErrTopicNotFound) {
		t.Fatalf("DeleteTopic out of bounds err = %v", err)
	}

	stored, err := svc.Get(roadmap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.TopicCount() != 2 || stored.Weeks[0].Topics[1].Title != "Topic 1.3" {
		t.Fatalf("topics = %+v", stored.Weeks[0].Topics)
	}

	view, err := progressSvc.GetProgress(ctx, learner.ID, roadmap.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if len(view.Progress) != 2 {
		t.Fatalf("progress = %+v", view.Progress)
	}
	// 原第 3 个主题前移为下标 1，并保留学习中状态
	moved := view.Progress[1]
	if moved.TopicIndex != 1 || !moved.InProgress || moved.Completed {
		t.Fatalf("moved entry = %+v", moved)
	}
	if view.Percentage != 50 {
		t.Fatalf("Percentage = %d, want 50", view.Percentage)
	}
}

func TestImportYAMLIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	svc := newTestRoadmapService(db)
	ctx := context.Background()

	bad := []byte(`
roadmaps:
  - title: Go
    category: backend
    duration: 1
  - title: ""
    category: frontend
    duration: 2
`)
	_, err := svc.ImportYAML(ctx, admin.ID, bad)
	var verr *util.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(verr.Issues) == 0 || !strings.HasPrefix(verr.Issues[0].Field, "roadmaps[1].") {
		t.Fatalf("issues = %+v", verr.Issues)
	}
	if mine, _ := svc.ListMine(admin.ID); len(mine) != 0 {
		t.Fatalf("imported %d roadmaps from an invalid file", len(mine))
	}

	good := []byte(`
roadmaps:
  - title: Go
    category: backend
    duration: 1
    weeks:
      - title: Basics
        topics:
          - title: Syntax
            resources:
              - type: video
                title: Intro
                video:
                  url: https://v/1
  - title: React
    category: frontend
    difficulty: intermediate
    duration: 2
`)
	imported, err := svc.ImportYAML(ctx, admin.ID, good)
	if err != nil {
		t.Fatalf("ImportYAML: %v", err)
	}
	if len(imported) != 2 || imported[0].TopicCount() != 1 || len(imported[1].Weeks) != 2 {
		t.Fatalf("imported = %+v", imported)
	}

	if _, err := svc.ImportYAML(ctx, admin.ID, []byte("roadmaps: [")); err == nil {
		t.Fatal("malformed yaml should fail")
	}
}

func TestListByDifficultyRejectsUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := newTestRoadmapService(db)
	var verr *util.ValidationError
	if _, err := svc.ListByDifficulty(context.Background(), "expert"); !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
}
