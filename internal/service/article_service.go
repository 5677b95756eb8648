package service

import (
	"errors"
	"strings"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"

	"gorm.io/gorm"
)

const defaultReadingTime = 5

type ArticleService struct {
	ArticleRepo *repository.ArticleRepository
}

func NewArticleService(articleRepo *repository.ArticleRepository) *ArticleService {
	return &ArticleService{ArticleRepo: articleRepo}
}

type ArticleRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	ReadingTime int      `json:"readingTime"`
}

func (s *ArticleService) Create(adminID uint, req ArticleRequest) (*model.Article, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, util.NewValidationError("article", "Title and content are required.")
	}
	readingTime := req.ReadingTime
	if readingTime <= 0 {
		readingTime = defaultReadingTime
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	article := &model.Article{
		Title:       title,
		Content:     req.Content,
		Tags:        tags,
		ReadingTime: readingTime,
		CreatedBy:   adminID,
	}
	if err := s.ArticleRepo.Create(article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) Get(id uint) (*model.Article, error) {
	article, err := s.ArticleRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrArticleNotFound
	}
	return article, err
}

func (s *ArticleService) ListMine(adminID uint) ([]model.Article, error) {
	return s.ArticleRepo.FindByAuthor(adminID)
}
