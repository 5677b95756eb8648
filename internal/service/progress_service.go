package service

import (
	"context"
	"errors"
	"time"

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

type ProgressService struct {
	DB           *gorm.DB
	ProgressRepo *repository.ProgressRepository
	RoadmapRepo  *repository.RoadmapRepository
	UserRepo     *repository.UserRepository
	Hub          *NotificationHub
	Location     func() *time.Location
	Now          func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	progressRepo *repository.ProgressRepository,
	roadmapRepo *repository.RoadmapRepository,
	userRepo *repository.UserRepository,
	hub *NotificationHub,
	location func() *time.Location,
) *ProgressService {
	if location == nil {
		location = func() *time.Location { return time.Local }
	}
	return &ProgressService{
		DB:           db,
		ProgressRepo: progressRepo,
		RoadmapRepo:  roadmapRepo,
		UserRepo:     userRepo,
		Hub:          hub,
		Location:     location,
		Now:          time.Now,
	}
}

// CompletionResult 完成主题接口的返回体
type CompletionResult struct {
	Message    string                     `json:"message"`
	Progress   []model.TopicProgress      `json:"progress"`
	Percentage int                        `json:"percentage"`
	Profile    model.GamificationSnapshot `json:"profile"`
	NewBadge   *string                    `json:"newBadge"`
	NewBadges  []string                   `json:"newBadges"`
	Confetti   bool                       `json:"confetti"`
	Changed    bool                       `json:"changed"`
}

type ProgressResult struct {
	Message    string                `json:"message"`
	Progress   []model.TopicProgress `json:"progress"`
	Percentage int                   `json:"percentage"`
}

func (s *ProgressService) loadRoadmap(roadmapID uint) (*model.Roadmap, error) {
	roadmap, err := s.RoadmapRepo.FindByID(roadmapID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoadmapNotFound
	}
	return roadmap, err
}

// CompleteTopic 标记主题为已完成；仅在状态发生迁移时结算一次游戏化奖励
func (s *ProgressService) CompleteTopic(ctx context.Context, userID, roadmapID uint, weekIndex, topicIndex int) (result *CompletionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "ProgressService.CompleteTopic",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("roadmap.id", int64(roadmapID)),
		attribute.Int("week.index", weekIndex),
		attribute.Int("topic.index", topicIndex),
	)
	defer func() { tracing.EndSpan(span, err) }()

	roadmap, err := s.loadRoadmap(roadmapID)
	if err != nil {
		return nil, err
	}
	if !roadmap.HasTopic(weekIndex, topicIndex) {
		return nil, util.ErrTopicNotFound
	}

	var (
		progress *model.UserProgress
		user     *model.User
		outcome  *CompletionOutcome
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressRepo := s.ProgressRepo.WithTx(tx)
		userRepo := s.UserRepo.WithTx(tx)

		p, err := progressRepo.GetOrCreate(userID, roadmapID)
		if err != nil {
			return err
		}
		if err := progressRepo.EnsureTopic(p.ID, weekIndex, topicIndex); err != nil {
			return err
		}
		changed, err := progressRepo.MarkTopicCompleted(p.ID, weekIndex, topicIndex)
		if err != nil {
			return err
		}

		user, err = userRepo.FindByID(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		} else if err != nil {
			return err
		}

		if changed {
			if err := progressRepo.Touch(p.ID); err != nil {
				return err
			}
			total, err := progressRepo.CountCompletedByUser(userID)
			if err != nil {
				return err
			}
			o := ApplyTopicCompletion(user.Profile, int(total), s.Now().In(s.Location()))
			if err := userRepo.SaveGamification(userID, o.Profile); err != nil {
				return err
			}
			user.Profile = o.Profile
			outcome = &o
		}

		progress, err = progressRepo.FindOne(userID, roadmapID)
		return err
	})
	if err != nil {
		if !errors.Is(err, util.ErrUserNotFound) {
			logger.Log.Error("Failed to complete topic",
				zap.Uint("userId", userID),
				zap.Uint("roadmapId", roadmapID),
				zap.Int("weekIndex", weekIndex),
				zap.Int("topicIndex", topicIndex),
				zap.Error(err))
		}
		return nil, err
	}

	result = &CompletionResult{
		Message:    "Topic marked as complete",
		Progress:   nonNilTopics(progress.Topics),
		Percentage: progress.Percentage(roadmap),
		Profile:    user.Profile.Snapshot(),
		NewBadges:  []string{},
		Confetti:   true,
	}
	if outcome == nil {
		return result, nil
	}

	result.Changed = true
	result.Confetti = outcome.Celebrate
	result.NewBadges = outcome.NewBadges
	if outcome.NewBadge != "" {
		badge := outcome.NewBadge
		result.NewBadge = &badge
	}
	s.afterCompletion(ctx, userID, roadmapID, weekIndex, topicIndex, outcome)
	return result, nil
}

func (s *ProgressService) afterCompletion(ctx context.Context, userID, roadmapID uint, weekIndex, topicIndex int, o *CompletionOutcome) {
	monitoring.TopicsCompleted.Inc()
	logger.Log.Info("Topic completed",
		zap.Uint("userId", userID),
		zap.Uint("roadmapId", roadmapID),
		zap.Int("weekIndex", weekIndex),
		zap.Int("topicIndex", topicIndex),
		zap.Int("xp", o.Profile.XP),
		zap.Int("streak", o.Profile.Streak))

	s.Hub.Notify(ctx, userID, WSMessage{
		Type: EventTopicCompleted,
		Data: map[string]interface{}{
			"roadmapId":  roadmapID,
			"weekIndex":  weekIndex,
			"topicIndex": topicIndex,
			"xp":         o.Profile.XP,
			"streak":     o.Profile.Streak,
		},
	})
	for _, badge := range o.NewBadges {
		monitoring.BadgesAwarded.WithLabelValues(badge).Inc()
		s.Hub.Notify(ctx, userID, WSMessage{
			Type: EventBadgeUnlocked,
			Data: map[string]interface{}{"badge": badge},
		})
	}
}

// MarkInProgress 标记为学习中，同时清除已完成标记；不影响 XP
func (s *ProgressService) MarkInProgress(ctx context.Context, userID, roadmapID uint, weekIndex, topicIndex int) (*ProgressResult, error) {
	roadmap, err := s.loadRoadmap(roadmapID)
	if err != nil {
		return nil, err
	}
	if !roadmap.HasTopic(weekIndex, topicIndex) {
		return nil, util.ErrTopicNotFound
	}

	var progress *model.UserProgress
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.ProgressRepo.WithTx(tx)
		p, err := repo.GetOrCreate(userID, roadmapID)
		if err != nil {
			return err
		}
		if err := repo.EnsureTopic(p.ID, weekIndex, topicIndex); err != nil {
			return err
		}
		if _, err := repo.SetTopicFlags(p.ID, weekIndex, topicIndex, false, true); err != nil {
			return err
		}
		if err := repo.Touch(p.ID); err != nil {
			return err
		}
		progress, err = repo.FindOne(userID, roadmapID)
		return err
	})
	if err != nil {
		logger.Log.Error("Failed to mark topic in progress",
			zap.Uint("userId", userID), zap.Uint("roadmapId", roadmapID), zap.Error(err))
		return nil, err
	}

	return &ProgressResult{
		Message:    "Topic marked as in progress",
		Progress:   nonNilTopics(progress.Topics),
		Percentage: progress.Percentage(roadmap),
	}, nil
}

// ResetTopic 清除两个标记；没有进度记录时返回 ErrProgressNotFound，条目不存在时为空操作
func (s *ProgressService) ResetTopic(ctx context.Context, userID, roadmapID uint, weekIndex, topicIndex int) (*ProgressResult, error) {
	roadmap, err := s.loadRoadmap(roadmapID)
	if err != nil {
		return nil, err
	}

	repo := s.ProgressRepo.WithTx(s.DB.WithContext(ctx))
	progress, err := repo.FindOne(userID, roadmapID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProgressNotFound
	} else if err != nil {
		return nil, err
	}

	if progress.Reset(weekIndex, topicIndex) {
		if _, err := repo.SetTopicFlags(progress.ID, weekIndex, topicIndex, false, false); err != nil {
			logger.Log.Error("Failed to reset topic",
				zap.Uint("userId", userID), zap.Uint("roadmapId", roadmapID), zap.Error(err))
			return nil, err
		}
	}

	return &ProgressResult{
		Message:    "Topic progress has been reset",
		Progress:   nonNilTopics(progress.Topics),
		Percentage: progress.Percentage(roadmap),
	}, nil
}

// GetProgress 没有记录时返回空进度
func (s *ProgressService) GetProgress(ctx context.Context, userID, roadmapID uint) (*model.RoadmapProgressView, error) {
	roadmap, err := s.loadRoadmap(roadmapID)
	if err != nil {
		return nil, err
	}
	view := &model.RoadmapProgressView{RoadmapID: roadmapID, Progress: []model.TopicProgress{}}

	progress, err := s.ProgressRepo.WithTx(s.DB.WithContext(ctx)).FindOne(userID, roadmapID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return view, nil
	} else if err != nil {
		return nil, err
	}
	view.Progress = nonNilTopics(progress.Topics)
	view.Percentage = progress.Percentage(roadmap)
	return view, nil
}

// ListMyRoadmaps 学员参与过的所有路线，最近活动在前
func (s *ProgressService) ListMyRoadmaps(ctx context.Context, userID uint) ([]model.MyRoadmap, error) {
	progresses, err := s.ProgressRepo.WithTx(s.DB.WithContext(ctx)).FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(progresses))
	for _, p := range progresses {
		ids = append(ids, p.RoadmapID)
	}
	roadmaps, err := s.RoadmapRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Roadmap, len(roadmaps))
	for i := range roadmaps {
		byID[roadmaps[i].ID] = &roadmaps[i]
	}

	result := make([]model.MyRoadmap, 0, len(progresses))
	for i := range progresses {
		p := &progresses[i]
		r, ok := byID[p.RoadmapID]
		if !ok {
			continue
		}
		pct := p.Percentage(r)
		result = append(result, model.MyRoadmap{
			Roadmap:    r.Summary(),
			Percentage: pct,
			Status:     model.StatusFor(pct, p),
			UpdatedAt:  p.UpdatedAt,
		})
	}
	return result, nil
}

func nonNilTopics(topics []model.TopicProgress) []model.TopicProgress {
	if topics == nil {
		return []model.TopicProgress{}
	}
	return topics
}
