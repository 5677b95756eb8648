package repository

import (
	"skillkart_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

func (r *ProgressRepository) topicsOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("week_index ASC").Order("topic_index ASC")
}

func (r *ProgressRepository) FindOne(userID, roadmapID uint) (*model.UserProgress, error) {
	var p model.UserProgress
	err := r.DB.Preload("Topics", r.topicsOrdered).
		Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		First(&p).Error
	return &p, err
}

func (r *ProgressRepository) FindAllByUser(userID uint) ([]model.UserProgress, error) {
	var list []model.UserProgress
	err := r.DB.Preload("Topics", r.topicsOrdered).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&list).Error
	return list, err
}

func (r *ProgressRepository) FindAllByRoadmap(roadmapID uint) ([]model.UserProgress, error) {
	var list []model.UserProgress
	err := r.DB.Preload("Topics", r.topicsOrdered).
		Where("roadmap_id = ?", roadmapID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// FindAllByRoadmaps 按路线分组返回进度记录
func (r *ProgressRepository) FindAllByRoadmaps(roadmapIDs []uint) (map[uint][]model.UserProgress, error) {
	grouped := make(map[uint][]model.UserProgress, len(roadmapIDs))
	if len(roadmapIDs) == 0 {
		return grouped, nil
	}
	var list []model.UserProgress
	err := r.DB.Preload("Topics").
		Where("roadmap_id IN ?", roadmapIDs).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		grouped[p.RoadmapID] = append(grouped[p.RoadmapID], p)
	}
	return grouped, nil
}

func (r *ProgressRepository) CountByRoadmap(roadmapID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).Where("roadmap_id = ?", roadmapID).Count(&count).Error
	return count, err
}

// GetOrCreate 唯一索引冲突时忽略插入并读取已有记录
func (r *ProgressRepository) GetOrCreate(userID, roadmapID uint) (*model.UserProgress, error) {
	p := &model.UserProgress{UserID: userID, RoadmapID: roadmapID}
	if err := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(p).Error; err != nil {
		return nil, err
	}
	return r.FindOne(userID, roadmapID)
}

// Save 同时写回主题条目
func (r *ProgressRepository) Save(p *model.UserProgress) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

func (r *ProgressRepository) EnsureTopic(progressID uint, weekIndex, topicIndex int) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.TopicProgress{
		ProgressID: progressID,
		WeekIndex:  weekIndex,
		TopicIndex: topicIndex,
	}).Error
}

// MarkTopicCompleted 条件更新，只有未完成的条目会被修改；返回是否发生了状态迁移
func (r *ProgressRepository) MarkTopicCompleted(progressID uint, weekIndex, topicIndex int) (bool, error) {
	result := r.DB.Model(&model.TopicProgress{}).
		Where("progress_id = ? AND week_index = ? AND topic_index = ? AND completed = ?",
			progressID, weekIndex, topicIndex, false).
		Updates(map[string]interface{}{"completed": true, "in_progress": false})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ProgressRepository) SetTopicFlags(progressID uint, weekIndex, topicIndex int, completed, inProgress bool) (int64, error) {
	result := r.DB.Model(&model.TopicProgress{}).
		Where("progress_id = ? AND week_index = ? AND topic_index = ?", progressID, weekIndex, topicIndex).
		Updates(map[string]interface{}{"completed": completed, "in_progress": inProgress})
	return result.RowsAffected, result.Error
}

// Touch 刷新 updated_at 作为最近活动时间
func (r *ProgressRepository) Touch(progressID uint) error {
	return r.DB.Model(&model.UserProgress{}).
		Where("id = ?", progressID).
		Update("updated_at", time.Now()).Error
}

// CountCompletedByUser 统计用户在所有路线上已完成的主题数
func (r *ProgressRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TopicProgress{}).
		Joins("JOIN user_progress ON user_progress.id = topic_progress.progress_id").
		Where("user_progress.user_id = ? AND topic_progress.completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// DeleteAllForRoadmap 物理删除路线下所有进度记录及其主题条目
func (r *ProgressRepository) DeleteAllForRoadmap(roadmapID uint) (int64, error) {
	sub := r.DB.Model(&model.UserProgress{}).Select("id").Where("roadmap_id = ?", roadmapID)
	if err := r.DB.Where("progress_id IN (?)", sub).Delete(&model.TopicProgress{}).Error; err != nil {
		return 0, err
	}
	result := r.DB.Where("roadmap_id = ?", roadmapID).Delete(&model.UserProgress{})
	return result.RowsAffected, result.Error
}

// RemoveTopic 删除某个主题的条目，并将同周后续主题的下标前移一位
func (r *ProgressRepository) RemoveTopic(roadmapID uint, weekIndex, topicIndex int) error {
	sub := r.DB.Model(&model.UserProgress{}).Select("id").Where("roadmap_id = ?", roadmapID)
	if err := r.DB.Where("progress_id IN (?) AND week_index = ? AND topic_index = ?", sub, weekIndex, topicIndex).
		Delete(&model.TopicProgress{}).Error; err != nil {
		return err
	}

	var later []model.TopicProgress
	if err := r.DB.Where("progress_id IN (?) AND week_index = ? AND topic_index > ?", sub, weekIndex, topicIndex).
		Order("topic_index ASC").
		Find(&later).Error; err != nil {
		return err
	}
	// 按下标升序逐条更新，避免唯一索引冲突
	for _, tp := range later {
		if err := r.DB.Model(&model.TopicProgress{}).
			Where("id = ?", tp.ID).
			Update("topic_index", tp.TopicIndex-1).Error; err != nil {
			return err
		}
	}
	return nil
}
