package service

import (
	"errors"
	"strings"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DiscussionService struct {
	DiscussionRepo *repository.DiscussionRepository
	RoadmapRepo    *repository.RoadmapRepository
}

func NewDiscussionService(discussionRepo *repository.DiscussionRepository, roadmapRepo *repository.RoadmapRepository) *DiscussionService {
	return &DiscussionService{DiscussionRepo: discussionRepo, RoadmapRepo: roadmapRepo}
}

type DiscussionRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Tags       []string `json:"tags"`
	WeekIndex  *int     `json:"weekIndex"`
	TopicIndex *int     `json:"topicIndex"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

func (s *DiscussionService) List(filter repository.DiscussionFilter) ([]model.Discussion, error) {
	if _, err := s.RoadmapRepo.FindByID(filter.RoadmapID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoadmapNotFound
	} else if err != nil {
		return nil, err
	}
	return s.DiscussionRepo.Find(filter)
}

func (s *DiscussionService) Get(id string) (*model.Discussion, error) {
	d, err := s.DiscussionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDiscussionNotFound
	}
	return d, err
}

func (s *DiscussionService) Create(userID, roadmapID uint, req DiscussionRequest) (*model.Discussion, error) {
	roadmap, err := s.RoadmapRepo.FindByID(roadmapID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoadmapNotFound
	} else if err != nil {
		return nil, err
	}
	if (req.WeekIndex == nil) != (req.TopicIndex == nil) {
		return nil, util.NewValidationError("topicIndex", "weekIndex and topicIndex must be given together")
	}
	if req.WeekIndex != nil && !roadmap.HasTopic(*req.WeekIndex, *req.TopicIndex) {
		return nil, util.ErrTopicNotFound
	}

	d := &model.Discussion{
		RoadmapID:  roadmapID,
		WeekIndex:  req.WeekIndex,
		TopicIndex: req.TopicIndex,
		AuthorID:   userID,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Tags:       req.Tags,
	}
	if err := s.DiscussionRepo.Create(d); err != nil {
		logger.Log.Error("Failed to create discussion", zap.Uint("userId", userID), zap.Error(err))
		return nil, err
	}
	return s.Get(d.ID)
}

// ownedDiscussion 只有作者可以编辑或删除
func (s *DiscussionService) ownedDiscussion(userID uint, id string) (*model.Discussion, error) {
	d, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if d.AuthorID != userID {
		return nil, util.ErrPermissionDenied
	}
	return d, nil
}

func (s *DiscussionService) Update(userID uint, id string, req DiscussionRequest) (*model.Discussion, error) {
	if _, err := s.ownedDiscussion(userID, id); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"title":   strings.TrimSpace(req.Title),
		"content": req.Content,
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](req.Tags)
	}
	if err := s.DiscussionRepo.UpdateContent(id, updates); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *DiscussionService) Delete(userID uint, id string) error {
	if _, err := s.ownedDiscussion(userID, id); err != nil {
		return err
	}
	return s.DiscussionRepo.Delete(id)
}

func (s *DiscussionService) AddComment(userID uint, discussionID string, req CommentRequest) (*model.DiscussionComment, error) {
	if _, err := s.Get(discussionID); err != nil {
		return nil, err
	}
	c := &model.DiscussionComment{
		DiscussionID: discussionID,
		AuthorID:     userID,
		Content:      req.Content,
	}
	if err := s.DiscussionRepo.CreateComment(c); err != nil {
		return nil, err
	}
	return s.DiscussionRepo.FindCommentByID(c.ID)
}

func (s *DiscussionService) ownedComment(userID uint, id string) (*model.DiscussionComment, error) {
	c, err := s.DiscussionRepo.FindCommentByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCommentNotFound
	} else if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, util.ErrPermissionDenied
	}
	return c, nil
}

func (s *DiscussionService) UpdateComment(userID uint, id string, req CommentRequest) (*model.DiscussionComment, error) {
	c, err := s.ownedComment(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.DiscussionRepo.UpdateComment(id, req.Content); err != nil {
		return nil, err
	}
	c.Content = req.Content
	return c, nil
}

func (s *DiscussionService) DeleteComment(userID uint, id string) error {
	if _, err := s.ownedComment(userID, id); err != nil {
		return err
	}
	return s.DiscussionRepo.DeleteComment(id)
}

func (s *DiscussionService) ToggleDiscussionLike(userID uint, id string) (*LikeResult, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	liked, likes, err := s.DiscussionRepo.ToggleLike(userID, model.LikeDiscussion, id)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Likes: likes}, nil
}

func (s *DiscussionService) ToggleCommentLike(userID uint, id string) (*LikeResult, error) {
	if _, err := s.DiscussionRepo.FindCommentByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCommentNotFound
	} else if err != nil {
		return nil, err
	}
	liked, likes, err := s.DiscussionRepo.ToggleLike(userID, model.LikeComment, id)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Likes: likes}, nil
}
