package service

import (
	"fmt"
	"testing"
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库；单连接保证事务与普通查询看到同一个库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{Email: email, Password: "x", Role: role, Profile: model.Profile{Name: email}}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedRoadmap weeks×topics 的路线，每个主题一个视频资源
func seedRoadmap(t *testing.T, db *gorm.DB, authorID uint, weeks, topics int) *model.Roadmap {
	t.Helper()
	r := &model.Roadmap{
		Title:      fmt.Sprintf("Roadmap %dx%d", weeks, topics),
		Category:   "backend",
		Difficulty: model.Beginner,
		Duration:   weeks,
		CreatedBy:  authorID,
	}
	for w := 0; w < weeks; w++ {
		week := model.Week{WeekNumber: w + 1, Title: fmt.Sprintf("Week %d", w+1)}
		for i := 0; i < topics; i++ {
			week.Topics = append(week.Topics, model.Topic{
				Title:     fmt.Sprintf("Topic %d.%d", w+1, i+1),
				Resources: []model.Resource{videoRes(fmt.Sprintf("https://v/%d/%d", w, i))},
			})
		}
		r.Weeks = append(r.Weeks, week)
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed roadmap: %v", err)
	}
	return r
}

func newTestProgressService(db *gorm.DB, now time.Time) *ProgressService {
	svc := NewProgressService(
		db,
		repository.NewProgressRepository(db),
		repository.NewRoadmapRepository(db),
		repository.NewUserRepository(db),
		nil,
		func() *time.Location { return time.UTC },
	)
	svc.Now = func() time.Time { return now }
	return svc
}

func newTestRoadmapService(db *gorm.DB) *RoadmapService {
	return NewRoadmapService(
		db,
		repository.NewRoadmapRepository(db),
		repository.NewProgressRepository(db),
		repository.NewQuizAttemptRepository(db),
		repository.NewDiscussionRepository(db),
		nil,
		DefaultMinResourcesPerTopic,
	)
}

func newTestDiscussionService(db *gorm.DB) *DiscussionService {
	return NewDiscussionService(repository.NewDiscussionRepository(db), repository.NewRoadmapRepository(db))
}
