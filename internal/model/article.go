package model

import "gorm.io/datatypes"

// Article 管理员在站内编写的文章，可被路线中 mode=write 的文章资源引用
type Article struct {
	BaseModel
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Content     string                      `gorm:"type:longtext" json:"content"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	ReadingTime int                         `gorm:"default:5" json:"readingTime"` // 分钟
	CreatedBy   uint                        `gorm:"index;not null" json:"createdBy"`
}

func (Article) TableName() string {
	return "articles"
}
