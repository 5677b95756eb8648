package service

import (
	"context"
	"errors"
	"testing"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
)

func TestCompleteTopicTwoByTwo(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 2, 2)
	svc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	steps := []struct {
		week, topic int
		percentage  int
	}{
		{0, 0, 25},
		{0, 1, 50},
		{1, 0, 75},
		{1, 1, 100},
	}
	for i, step := range steps {
		res, err := svc.CompleteTopic(ctx, user.ID, roadmap.ID, step.week, step.topic)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !res.Changed || !res.Confetti {
			t.Fatalf("step %d: Changed=%v Confetti=%v", i, res.Changed, res.Confetti)
		}
		if res.Percentage != step.percentage {
			t.Fatalf("step %d: Percentage = %d, want %d", i, res.Percentage, step.percentage)
		}
		if res.Profile.XP != (i+1)*util.XPPerTopic {
			t.Fatalf("step %d: XP = %d", i, res.Profile.XP)
		}
	}

	view, err := svc.GetProgress(ctx, user.ID, roadmap.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if view.Percentage != 100 || len(view.Progress) != 4 {
		t.Fatalf("view = %+v", view)
	}
}

func TestCompleteTopicFirstCompletionBadge(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 1, 2)
	svc := newTestProgressService(db, day(1, 9))

	res, err := svc.CompleteTopic(context.Background(), user.ID, roadmap.ID, 0, 0)
	if err != nil {
		t.Fatalf("CompleteTopic: %v", err)
	}
	if res.NewBadge == nil || *res.NewBadge != util.BadgeFirstCompletion {
		t.Fatalf("NewBadge = %v, want %q", res.NewBadge, util.BadgeFirstCompletion)
	}
	if res.Profile.Streak != 1 {
		t.Fatalf("Streak = %d, want 1", res.Profile.Streak)
	}
}

func TestCompleteTopicIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 1, 2)
	svc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	if _, err := svc.CompleteTopic(ctx, user.ID, roadmap.ID, 0, 1); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	res, err := svc.CompleteTopic(ctx, user.ID, roadmap.ID, 0, 1)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if res.Changed {
		t.Fatal("second completion should not change anything")
	}
	if res.Profile.XP != util.XPPerTopic {
		t.Fatalf("XP = %d, want %d", res.Profile.XP, util.XPPerTopic)
	}
	if res.NewBadge != nil || len(res.NewBadges) != 0 {
		t.Fatalf("unexpected badges: %v %v", res.NewBadge, res.NewBadges)
	}
	if res.Percentage != 50 {
		t.Fatalf("Percentage = %d, want 50", res.Percentage)
	}

	stored, err := svc.UserRepo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Profile.XP != util.XPPerTopic {
		t.Fatalf("stored XP = %d", stored.Profile.XP)
	}
}

func containsBadge(badges []string, name string) bool {
	for _, b := range badges {
		if b == name {
			return true
		}
	}
	return false
}

// 第十个完成的主题分布在两条路线上，同样颁发 10 Topics Completed
func TestTenTopicsBadgeAcrossRoadmaps(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	first := seedRoadmap(t, db, admin.ID, 1, 5)
	second := seedRoadmap(t, db, admin.ID, 1, 5)
	svc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	var last *CompletionResult
	for _, roadmapID := range []uint{first.ID, second.ID} {
		for topic := 0; topic < 5; topic++ {
			res, err := svc.CompleteTopic(ctx, user.ID, roadmapID, 0, topic)
			if err != nil {
				t.Fatalf("CompleteTopic(%d, %d): %v", roadmapID, topic, err)
			}
			if containsBadge(res.Profile.Badges, util.Badge10Topics) && (roadmapID != second.ID || topic != 4) {
				t.Fatalf("badge awarded early at roadmap %d topic %d", roadmapID, topic)
			}
			last = res
		}
	}

	if last.NewBadge == nil || *last.NewBadge != util.Badge10Topics {
		t.Fatalf("NewBadge = %v, want %q", last.NewBadge, util.Badge10Topics)
	}
	if last.Profile.XP != 10*util.XPPerTopic || last.Percentage != 100 {
		t.Fatalf("XP = %d, Percentage = %d", last.Profile.XP, last.Percentage)
	}

	// 再次完成不会重复计分或重复颁发
	again, err := svc.CompleteTopic(ctx, user.ID, second.ID, 0, 4)
	if err != nil {
		t.Fatalf("repeat CompleteTopic: %v", err)
	}
	if again.Changed || again.Profile.XP != 10*util.XPPerTopic || len(again.NewBadges) != 0 {
		t.Fatalf("repeat result = %+v", again)
	}
	want := []string{util.BadgeFirstCompletion, util.Badge10Topics}
	if len(again.Profile.Badges) != len(want) {
		t.Fatalf("Badges = %v, want %v", again.Profile.Badges, want)
	}
	for i := range want {
		if again.Profile.Badges[i] != want[i] {
			t.Fatalf("Badges = %v, want %v", again.Profile.Badges, want)
		}
	}
}

func TestCompleteTopicStreakAcrossDays(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 1, 4)
	ctx := context.Background()

	plan := []struct {
		topic      int
		at         int
		wantStreak int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 3},
	}
	var last *CompletionResult
	for _, p := range plan {
		svc := newTestProgressService(db, day(p.at, 12))
		res, err := svc.CompleteTopic(ctx, user.ID, roadmap.ID, 0, p.topic)
		if err != nil {
			t.Fatalf("topic %d: %v", p.topic, err)
		}
		if res.Profile.Streak != p.wantStreak {
			t.Fatalf("topic %d: Streak = %d, want %d", p.topic, res.Profile.Streak, p.wantStreak)
		}
		last = res
	}
	if last.NewBadge == nil || *last.NewBadge != util.Badge3DayStreak {
		t.Fatalf("NewBadge = %v, want %q", last.NewBadge, util.Badge3DayStreak)
	}
}

func TestMarkInProgressClearsCompleted(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 1, 2)
	svc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	if _, err := svc.CompleteTopic(ctx, user.ID, roadmap.ID, 0, 0); err != nil {
		t.Fatalf("CompleteTopic: %v", err)
	}
	res, err := svc.MarkInProgress(ctx, user.ID, roadmap.ID, 0, 0)
	if err != nil {
		t.Fatalf("MarkInProgress: %v", err)
	}
	if len(res.Progress) != 1 {
		t.Fatalf("Progress = %+v", res.Progress)
	}
	tp := res.Progress[0]
	if tp.Completed || !tp.InProgress {
		t.Fatalf("topic = %+v, want in progress only", tp)
	}
	if res.Percentage != 0 {
		t.Fatalf("Percentage = %d, want 0", res.Percentage)
	}

	stored, _ := svc.UserRepo.FindByID(user.ID)
	if stored.Profile.XP != util.XPPerTopic {
		t.Fatalf("XP changed to %d", stored.Profile.XP)
	}
}

func TestResetTopic(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 1, 2)
	svc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	if _, err := svc.ResetTopic(ctx, user.ID, roadmap.ID, 0, 0); !errors.Is(err, util.ErrProgressNotFound) {
		t.Fatalf("reset without progress: err = %v", err)
	}

	if _, err := svc.CompleteTopic(ctx, user.ID, roadmap.ID, 0, 0); err != nil {
		t.Fatalf("CompleteTopic: %v", err)
	}
	res, err := svc.ResetTopic(ctx, user.ID, roadmap.ID, 0, 0)
	if err != nil {
		t.Fatalf("ResetTopic: %v", err)
	}
	if res.Percentage != 0 || res.Progress[0].Completed || res.Progress[0].InProgress {
		t.Fatalf("after reset = %+v", res)
	}

	// 条目不存在时为空操作
	if _, err := svc.ResetTopic(ctx, user.ID, roadmap.ID, 0, 1); err != nil {
		t.Fatalf("reset missing entry: %v", err)
	}

	// 重置不收回 XP 与徽章
	stored, _ := svc.UserRepo.FindByID(user.ID)
	if stored.Profile.XP != util.XPPerTopic || !stored.Profile.HasBadge(util.BadgeFirstCompletion) {
		t.Fatalf("profile after reset = %+v", stored.Profile)
	}
}

func TestProgressErrors(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 2, 2)
	svc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    uint
		roadmapID uint
		week      int
		topic     int
		want      error
	}{
		{"unknown roadmap", user.ID, roadmap.ID + 100, 0, 0, util.ErrRoadmapNotFound},
		{"week out of bounds", user.ID, roadmap.ID, 2, 0, util.ErrTopicNotFound},
		{"topic out of bounds", user.ID, roadmap.ID, 0, 2, util.ErrTopicNotFound},
		{"negative index", user.ID, roadmap.ID, -1, 0, util.ErrTopicNotFound},
		{"unknown user", user.ID + 100, roadmap.ID, 0, 0, util.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CompleteTopic(ctx, tt.userID, tt.roadmapID, tt.week, tt.topic); !errors.Is(err, tt.want) {
				t.Fatalf("CompleteTopic err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := svc.MarkInProgress(ctx, user.ID, roadmap.ID, 5, 5); !errors.Is(err, util.ErrTopicNotFound) {
		t.Fatalf("MarkInProgress err = %v", err)
	}

	// 失败的请求不能留下进度记录
	if n, _ := svc.ProgressRepo.CountByRoadmap(roadmap.ID); n != 0 {
		t.Fatalf("progress records = %d, want 0", n)
	}
}

func TestGetProgressWithoutRecord(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	roadmap := seedRoadmap(t, db, admin.ID, 1, 1)
	svc := newTestProgressService(db, day(1, 9))

	view, err := svc.GetProgress(context.Background(), user.ID, roadmap.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if view.Percentage != 0 || view.Progress == nil || len(view.Progress) != 0 {
		t.Fatalf("view = %+v", view)
	}
}

func TestListMyRoadmaps(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner@example.com", model.Learner)
	admin := seedUser(t, db, "admin@example.com", model.Admin)
	first := seedRoadmap(t, db, admin.ID, 1, 2)
	second := seedRoadmap(t, db, admin.ID, 1, 1)
	seedRoadmap(t, db, admin.ID, 1, 1)
	svc := newTestProgressService(db, day(1, 9))
	ctx := context.Background()

	if _, err := svc.CompleteTopic(ctx, user.ID, first.ID, 0, 0); err != nil {
		t.Fatalf("CompleteTopic: %v", err)
	}
	if _, err := svc.CompleteTopic(ctx, user.ID, second.ID, 0, 0); err != nil {
		t.Fatalf("CompleteTopic: %v", err)
	}

	mine, err := svc.ListMyRoadmaps(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListMyRoadmaps: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len = %d, want 2", len(mine))
	}
	byID := map[uint]model.MyRoadmap{}
	for _, m := range mine {
		byID[m.Roadmap.ID] = m
	}
	if byID[first.ID].Percentage != 50 || byID[first.ID].Status != model.StatusInProgress {
		t.Fatalf("first = %+v", byID[first.ID])
	}
	if byID[second.ID].Percentage != 100 || byID[second.ID].Status != model.StatusCompleted {
		t.Fatalf("second = %+v", byID[second.ID])
	}
}
