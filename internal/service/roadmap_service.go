package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type RoadmapService struct {
	DB             *gorm.DB
	RoadmapRepo    *repository.RoadmapRepository
	ProgressRepo   *repository.ProgressRepository
	AttemptRepo    *repository.QuizAttemptRepository
	DiscussionRepo *repository.DiscussionRepository
	Cache          *repository.CatalogCache

	minResources atomic.Int32
}

func NewRoadmapService(
	db *gorm.DB,
	roadmapRepo *repository.RoadmapRepository,
	progressRepo *repository.ProgressRepository,
	attemptRepo *repository.QuizAttemptRepository,
	discussionRepo *repository.DiscussionRepository,
	cache *repository.CatalogCache,
	minResourcesPerTopic int,
) *RoadmapService {
	s := &RoadmapService{
		DB:             db,
		RoadmapRepo:    roadmapRepo,
		ProgressRepo:   progressRepo,
		AttemptRepo:    attemptRepo,
		DiscussionRepo: discussionRepo,
		Cache:          cache,
	}
	s.SetMinResourcesPerTopic(minResourcesPerTopic)
	return s
}

// SetMinResourcesPerTopic 配置热更新时调用
func (s *RoadmapService) SetMinResourcesPerTopic(n int) {
	if n < 1 {
		n = DefaultMinResourcesPerTopic
	}
	s.minResources.Store(int32(n))
}

func (s *RoadmapService) rules(wizard bool) ValidationRules {
	if wizard {
		return WizardRules(int(s.minResources.Load()))
	}
	return APIRules
}

// RoadmapRequest Weeks 为 nil 表示未提供
type RoadmapRequest struct {
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Category    string           `json:"category" yaml:"category"`
	Difficulty  model.Difficulty `json:"difficulty" yaml:"difficulty"`
	Duration    int              `json:"duration" yaml:"duration"`
	Weeks       []model.Week     `json:"weeks" yaml:"weeks"`
	Wizard      bool             `json:"wizard" yaml:"-"`
}

type TopicRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	EstimatedTime float64          `json:"estimatedTime"`
	Resources     []model.Resource `json:"resources"`
}

// ---------- 目录查询 ----------

func (s *RoadmapService) listSummaries(ctx context.Context, key string, filter repository.RoadmapFilter) ([]model.RoadmapSummary, error) {
	var cached []model.RoadmapSummary
	if hit, err := s.Cache.Get(ctx, key, &cached); err != nil {
		logger.Log.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return cached, nil
	}

	roadmaps, err := s.RoadmapRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.RoadmapSummary, len(roadmaps))
	for i := range roadmaps {
		summaries[i] = roadmaps[i].Summary()
	}
	if err := s.Cache.Set(ctx, key, summaries); err != nil {
		logger.Log.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return summaries, nil
}

func (s *RoadmapService) List(ctx context.Context) ([]model.RoadmapSummary, error) {
	return s.listSummaries(ctx, "all", repository.RoadmapFilter{})
}

func (s *RoadmapService) ListByCategory(ctx context.Context, category string) ([]model.RoadmapSummary, error) {
	return s.listSummaries(ctx, "category:"+category, repository.RoadmapFilter{Category: category})
}

func (s *RoadmapService) ListByDifficulty(ctx context.Context, difficulty model.Difficulty) ([]model.RoadmapSummary, error) {
	if !difficulty.Valid() {
		return nil, util.NewValidationError("difficulty", "difficulty must be one of beginner, intermediate, advanced")
	}
	return s.listSummaries(ctx, "difficulty:"+string(difficulty), repository.RoadmapFilter{Difficulty: difficulty})
}

func (s *RoadmapService) Get(id uint) (*model.Roadmap, error) {
	roadmap, err := s.RoadmapRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoadmapNotFound
	}
	return roadmap, err
}

func (s *RoadmapService) ListMine(adminID uint) ([]model.Roadmap, error) {
	return s.RoadmapRepo.FindAll(repository.RoadmapFilter{CreatedBy: adminID})
}

func (s *RoadmapService) invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil {
		logger.Log.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

// ---------- 管理员编写 ----------

func (s *RoadmapService) buildRoadmap(adminID uint, req RoadmapRequest) (*model.Roadmap, error) {
	weeks := req.Weeks
	if weeks == nil && !req.Wizard {
		weeks = SkeletonWeeks(req.Duration)
	}
	roadmap := &model.Roadmap{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
		CreatedBy:   adminID,
		Weeks:       weeks,
	}
	if err := PrepareRoadmap(roadmap, s.rules(req.Wizard)); err != nil {
		return nil, err
	}
	return roadmap, nil
}

func (s *RoadmapService) Create(ctx context.Context, adminID uint, req RoadmapRequest) (*model.Roadmap, error) {
	roadmap, err := s.buildRoadmap(adminID, req)
	if err != nil {
		return nil, err
	}
	if err := s.RoadmapRepo.Create(roadmap); err != nil {
		logger.Log.Error("Failed to create roadmap", zap.Uint("adminId", adminID), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx)
	logger.Log.Info("Roadmap created",
		zap.Uint("roadmapId", roadmap.ID),
		zap.Uint("adminId", adminID),
		zap.Int("weeks", len(roadmap.Weeks)))
	return roadmap, nil
}

// ownedRoadmap 只有作者可以修改路线
func (s *RoadmapService) ownedRoadmap(adminID, roadmapID uint) (*model.Roadmap, error) {
	roadmap, err := s.Get(roadmapID)
	if err != nil {
		return nil, err
	}
	if roadmap.CreatedBy != adminID {
		return nil, util.ErrPermissionDenied
	}
	return roadmap, nil
}

// Update 整体替换路线内容；Weeks 为 nil 时保留原有结构
func (s *RoadmapService) Update(ctx context.Context, adminID, roadmapID uint, req RoadmapRequest) (*model.Roadmap, error) {
	roadmap, err := s.ownedRoadmap(adminID, roadmapID)
	if err != nil {
		return nil, err
	}
	roadmap.Title = req.Title
	roadmap.Description = req.Description
	roadmap.Category = req.Category
	roadmap.Difficulty = req.Difficulty
	roadmap.Duration = req.Duration
	if req.Weeks != nil {
		roadmap.Weeks = req.Weeks
	}
	if err := PrepareRoadmap(roadmap, s.rules(req.Wizard)); err != nil {
		return nil, err
	}
	if err := s.RoadmapRepo.Save(roadmap); err != nil {
		logger.Log.Error("Failed to update roadmap", zap.Uint("roadmapId", roadmapID), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx)
	return roadmap, nil
}

// Delete 在同一事务中删除路线及其进度、作答记录与讨论，返回被删除的进度记录数
func (s *RoadmapService) Delete(ctx context.Context, adminID, roadmapID uint) (int64, error) {
	if _, err := s.ownedRoadmap(adminID, roadmapID); err != nil {
		return 0, err
	}

	var removed int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.ProgressRepo.WithTx(tx).DeleteAllForRoadmap(roadmapID)
		if err != nil {
			return err
		}
		removed = n
		if err := s.AttemptRepo.WithTx(tx).DeleteAllForRoadmap(roadmapID); err != nil {
			return err
		}
		if err := s.DiscussionRepo.WithTx(tx).DeleteAllForRoadmap(roadmapID); err != nil {
			return err
		}
		return s.RoadmapRepo.WithTx(tx).Delete(roadmapID)
	})
	if err != nil {
		logger.Log.Error("Failed to delete roadmap", zap.Uint("roadmapId", roadmapID), zap.Error(err))
		return 0, err
	}
	s.invalidate(ctx)
	logger.Log.Info("Roadmap deleted",
		zap.Uint("roadmapId", roadmapID),
		zap.Int64("progressRecords", removed))
	return removed, nil
}

func (s *RoadmapService) AddTopic(ctx context.Context, adminID, roadmapID uint, weekIndex int, req TopicRequest) (*model.Roadmap, error) {
	roadmap, err := s.ownedRoadmap(adminID, roadmapID)
	if err != nil {
		return nil, err
	}
	if weekIndex < 0 || weekIndex >= len(roadmap.Weeks) {
		return nil, util.ErrTopicNotFound
	}
	week := &roadmap.Weeks[weekIndex]
	topic := model.Topic{
		Title:         req.Title,
		Description:   req.Description,
		EstimatedTime: req.EstimatedTime,
		Order:         len(week.Topics),
		Resources:     cleanResources(req.Resources),
	}
	if issues := ValidateTopic(topic, weekIndex, len(week.Topics)); len(issues) > 0 {
		return nil, &util.ValidationError{Issues: issues}
	}
	week.Topics = append(week.Topics, topic)
	if err := s.RoadmapRepo.Save(roadmap); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return roadmap, nil
}

// UpdateTopic 空字段保留原值
func (s *RoadmapService) UpdateTopic(ctx context.Context, adminID, roadmapID uint, weekIndex, topicIndex int, req TopicRequest) (*model.Roadmap, error) {
	roadmap, err := s.ownedRoadmap(adminID, roadmapID)
	if err != nil {
		return nil, err
	}
	topic, ok := roadmap.Topic(weekIndex, topicIndex)
	if !ok {
		return nil, util.ErrTopicNotFound
	}
	if req.Title != "" {
		topic.Title = req.Title
	}
	if req.Description != "" {
		topic.Description = req.Description
	}
	if req.EstimatedTime > 0 {
		topic.EstimatedTime = req.EstimatedTime
	}
	if req.Resources != nil {
		topic.Resources = cleanResources(req.Resources)
	}
	if issues := ValidateTopic(*topic, weekIndex, topicIndex); len(issues) > 0 {
		return nil, &util.ValidationError{Issues: issues}
	}
	if err := s.RoadmapRepo.Save(roadmap); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return roadmap, nil
}

// DeleteTopic 删除主题并同步调整学员的进度条目下标
func (s *RoadmapService) DeleteTopic(ctx context.Context, adminID, roadmapID uint, weekIndex, topicIndex int) error {
	roadmap, err := s.ownedRoadmap(adminID, roadmapID)
	if err != nil {
		return err
	}
	if !roadmap.HasTopic(weekIndex, topicIndex) {
		return util.ErrTopicNotFound
	}
	topics := roadmap.Weeks[weekIndex].Topics
	roadmap.Weeks[weekIndex].Topics = append(topics[:topicIndex:topicIndex], topics[topicIndex+1:]...)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ProgressRepo.WithTx(tx).RemoveTopic(roadmapID, weekIndex, topicIndex); err != nil {
			return err
		}
		return s.RoadmapRepo.WithTx(tx).Save(roadmap)
	})
	if err != nil {
		logger.Log.Error("Failed to delete topic", zap.Uint("roadmapId", roadmapID), zap.Error(err))
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *RoadmapService) AddResource(ctx context.Context, adminID, roadmapID uint, weekIndex, topicIndex int, res model.Resource) (*model.Roadmap, error) {
	roadmap, err := s.ownedRoadmap(adminID, roadmapID)
	if err != nil {
		return nil, err
	}
	topic, ok := roadmap.Topic(weekIndex, topicIndex)
	if !ok {
		return nil, util.ErrTopicNotFound
	}
	if msg := validateResource(res); msg != "" {
		return nil, util.NewValidationError("resource", msg)
	}
	cleaned := cleanResources([]model.Resource{res})
	if len(cleaned) == 0 {
		return nil, util.NewValidationError("resource", "resource url is required")
	}
	topic.Resources = append(topic.Resources, cleaned[0])
	if err := s.RoadmapRepo.Save(roadmap); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return roadmap, nil
}

// roadmapDocument YAML 导入文件格式
type roadmapDocument struct {
	Roadmaps []RoadmapRequest `yaml:"roadmaps"`
}

// ImportYAML 批量导入路线；任意一条校验失败则全部不导入
func (s *RoadmapService) ImportYAML(ctx context.Context, adminID uint, data []byte) ([]model.Roadmap, error) {
	var doc roadmapDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, util.NewValidationError("file", fmt.Sprintf("invalid yaml: %v", err))
	}
	if len(doc.Roadmaps) == 0 {
		return nil, util.NewValidationError("roadmaps", "no roadmaps found")
	}

	built := make([]model.Roadmap, 0, len(doc.Roadmaps))
	verr := &util.ValidationError{}
	for i, req := range doc.Roadmaps {
		r, err := s.buildRoadmap(adminID, req)
		var v *util.ValidationError
		if errors.As(err, &v) {
			for _, issue := range v.Issues {
				issue.Field = fmt.Sprintf("roadmaps[%d].%s", i, issue.Field)
				verr.Issues = append(verr.Issues, issue)
			}
			continue
		} else if err != nil {
			return nil, err
		}
		built = append(built, *r)
	}
	if len(verr.Issues) > 0 {
		return nil, verr
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.RoadmapRepo.WithTx(tx)
		for i := range built {
			if err := repo.Create(&built[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Error("Failed to import roadmaps", zap.Uint("adminId", adminID), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx)
	logger.Log.Info("Roadmaps imported", zap.Uint("adminId", adminID), zap.Int("count", len(built)))
	return built, nil
}
