package repository

import (
	"skillkart_backend/internal/model"

	"gorm.io/gorm"
)

type RoadmapRepository struct {
	DB *gorm.DB
}

// RoadmapFilter 为空的字段不参与过滤
type RoadmapFilter struct {
	Category   string
	Difficulty model.Difficulty
	CreatedBy  uint
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: db}
}

func (r *RoadmapRepository) WithTx(tx *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: tx}
}

func (r *RoadmapRepository) FindByID(id uint) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.DB.First(&roadmap, id).Error
	return &roadmap, err
}

func (r *RoadmapRepository) FindAll(filter RoadmapFilter) ([]model.Roadmap, error) {
	var roadmaps []model.Roadmap
	query := r.DB.Model(&model.Roadmap{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.CreatedBy != 0 {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	err := query.Order("created_at DESC").Order("id DESC").Find(&roadmaps).Error
	return roadmaps, err
}

func (r *RoadmapRepository) FindByIDs(ids []uint) ([]model.Roadmap, error) {
	var roadmaps []model.Roadmap
	if len(ids) == 0 {
		return roadmaps, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&roadmaps).Error
	return roadmaps, err
}

func (r *RoadmapRepository) Create(roadmap *model.Roadmap) error {
	return r.DB.Create(roadmap).Error
}

func (r *RoadmapRepository) Save(roadmap *model.Roadmap) error {
	return r.DB.Save(roadmap).Error
}

func (r *RoadmapRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Roadmap{}, id).Error
}
