package repository

import (
	"errors"

	"skillkart_backend/internal/model"

	"gorm.io/gorm"
)

type DiscussionRepository struct {
	DB *gorm.DB
}

// DiscussionFilter WeekIndex/TopicIndex 为 nil 时不按主题过滤
type DiscussionFilter struct {
	RoadmapID  uint
	WeekIndex  *int
	TopicIndex *int
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{DB: db}
}

func (r *DiscussionRepository) WithTx(tx *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{DB: tx}
}

func (r *DiscussionRepository) Find(filter DiscussionFilter) ([]model.Discussion, error) {
	var list []model.Discussion
	query := r.DB.Where("roadmap_id = ?", filter.RoadmapID)
	if filter.WeekIndex != nil {
		query = query.Where("week_index = ?", *filter.WeekIndex)
	}
	if filter.TopicIndex != nil {
		query = query.Where("topic_index = ?", *filter.TopicIndex)
	}
	err := query.Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *DiscussionRepository) FindByID(id string) (*model.Discussion, error) {
	var d model.Discussion
	err := r.DB.Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *DiscussionRepository) Create(d *model.Discussion) error {
	return r.DB.Create(d).Error
}

func (r *DiscussionRepository) UpdateContent(id string, updates map[string]interface{}) error {
	return r.DB.Model(&model.Discussion{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除讨论及其评论和点赞
func (r *DiscussionRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&model.DiscussionComment{}).Select("id").Where("discussion_id = ?", id)
		if err := tx.Where("content_type = ? AND content_id IN (?)", model.LikeComment, commentIDs).
			Delete(&model.DiscussionLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("discussion_id = ?", id).Delete(&model.DiscussionComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type = ? AND content_id = ?", model.LikeDiscussion, id).
			Delete(&model.DiscussionLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Discussion{}, "id = ?", id).Error
	})
}

// DeleteAllForRoadmap 调用方负责事务
func (r *DiscussionRepository) DeleteAllForRoadmap(roadmapID uint) error {
	discussionIDs := r.DB.Model(&model.Discussion{}).Select("id").Where("roadmap_id = ?", roadmapID)
	commentIDs := r.DB.Model(&model.DiscussionComment{}).Select("id").Where("discussion_id IN (?)", discussionIDs)

	if err := r.DB.Where("content_type = ? AND content_id IN (?)", model.LikeComment, commentIDs).
		Delete(&model.DiscussionLike{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("content_type = ? AND content_id IN (?)", model.LikeDiscussion, discussionIDs).
		Delete(&model.DiscussionLike{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("discussion_id IN (?)", discussionIDs).Delete(&model.DiscussionComment{}).Error; err != nil {
		return err
	}
	return r.DB.Where("roadmap_id = ?", roadmapID).Delete(&model.Discussion{}).Error
}

func (r *DiscussionRepository) CreateComment(c *model.DiscussionComment) error {
	return r.DB.Create(c).Error
}

func (r *DiscussionRepository) FindCommentByID(id string) (*model.DiscussionComment, error) {
	var c model.DiscussionComment
	err := r.DB.Preload("Author").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *DiscussionRepository) UpdateComment(id, content string) error {
	return r.DB.Model(&model.DiscussionComment{}).Where("id = ?", id).Update("content", content).Error
}

func (r *DiscussionRepository) DeleteComment(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_type = ? AND content_id = ?", model.LikeComment, id).
			Delete(&model.DiscussionLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DiscussionComment{}, "id = ?", id).Error
	})
}

func (r *DiscussionRepository) HasLiked(userID uint, contentType, contentID string) bool {
	if userID == 0 {
		return false
	}
	var count int64
	r.DB.Model(&model.DiscussionLike{}).
		Where("user_id = ? AND content_type = ? AND content_id = ?", userID, contentType, contentID).
		Count(&count)
	return count > 0
}

// ToggleLike 已点赞则取消，否则点赞；返回操作后的点赞状态与计数
func (r *DiscussionRepository) ToggleLike(userID uint, contentType, contentID string) (bool, int, error) {
	target := r.likeTarget(contentType)
	if target == nil {
		return false, 0, errors.New("unknown content type: " + contentType)
	}

	var liked bool
	var likes int
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var like model.DiscussionLike
		result := tx.Where("user_id = ? AND content_type = ? AND content_id = ?", userID, contentType, contentID).
			Limit(1).Find(&like)
		if result.Error != nil {
			return result.Error
		}

		delta := 1
		if result.RowsAffected > 0 {
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			delta = -1
		} else {
			if err := tx.Create(&model.DiscussionLike{UserID: userID, ContentType: contentType, ContentID: contentID}).Error; err != nil {
				return err
			}
			liked = true
		}

		if err := tx.Model(target).Where("id = ?", contentID).
			Update("likes", gorm.Expr("likes + ?", delta)).Error; err != nil {
			return err
		}
		return tx.Model(target).Select("likes").Where("id = ?", contentID).Scan(&likes).Error
	})
	return liked, likes, err
}

func (r *DiscussionRepository) likeTarget(contentType string) interface{} {
	switch contentType {
	case model.LikeDiscussion:
		return &model.Discussion{}
	case model.LikeComment:
		return &model.DiscussionComment{}
	}
	return nil
}
