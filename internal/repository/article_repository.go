package repository

import (
	"skillkart_backend/internal/model"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	DB *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{DB: db}
}

func (r *ArticleRepository) Create(article *model.Article) error {
	return r.DB.Create(article).Error
}

func (r *ArticleRepository) FindByID(id uint) (*model.Article, error) {
	var article model.Article
	err := r.DB.First(&article, id).Error
	return &article, err
}

func (r *ArticleRepository) FindByAuthor(userID uint) ([]model.Article, error) {
	var articles []model.Article
	err := r.DB.Where("created_by = ?", userID).Order("created_at DESC").Find(&articles).Error
	return articles, err
}
