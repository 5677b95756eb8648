package repository

import (
	"skillkart_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizAttemptRepository) FindByUserAndRoadmap(userID, roadmapID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		Order("created_at DESC").Order("id DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *QuizAttemptRepository) DeleteAllForRoadmap(roadmapID uint) error {
	return r.DB.Where("roadmap_id = ?", roadmapID).Delete(&model.QuizAttempt{}).Error
}

func (r *QuizAttemptRepository) WithTx(tx *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: tx}
}
