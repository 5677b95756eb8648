package model

type ResourceType string

const (
	ResourceVideo   ResourceType = "video"
	ResourceArticle ResourceType = "article"
	ResourceQuiz    ResourceType = "quiz"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceVideo, ResourceArticle, ResourceQuiz:
		return true
	}
	return false
}

type ArticleMode string

const (
	ArticleLink  ArticleMode = "link"
	ArticleWrite ArticleMode = "write" // 站内编写的文章，无外部链接
)

// Resource 主题下的学习资源，按 Type 区分，只有与 Type 对应的负载字段有效
type Resource struct {
	Type        ResourceType    `json:"type" yaml:"type"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description,omitempty" yaml:"description"`
	Video       *VideoPayload   `json:"video,omitempty" yaml:"video"`
	Article     *ArticlePayload `json:"article,omitempty" yaml:"article"`
	Quiz        *QuizPayload    `json:"quiz,omitempty" yaml:"quiz"`
}

type VideoPayload struct {
	URL      string  `json:"url" yaml:"url"`
	Duration float64 `json:"duration,omitempty" yaml:"duration"` // 分钟
}

type ArticlePayload struct {
	URL         string      `json:"url" yaml:"url"`
	Mode        ArticleMode `json:"mode,omitempty" yaml:"mode"`
	Content     string      `json:"content,omitempty" yaml:"content"`
	Tags        []string    `json:"tags,omitempty" yaml:"tags"`
	ReadingTime int         `json:"readingTime,omitempty" yaml:"readingTime"`
}

type QuizPayload struct {
	Questions []QuizQuestion `json:"questions" yaml:"questions"`
}

// QuizQuestion 正确答案以选项下标标识
type QuizQuestion struct {
	Question     string   `json:"question" yaml:"question"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correctIndex"`
}

// URL 返回资源的访问地址，测验没有地址
func (r Resource) URL() string {
	switch r.Type {
	case ResourceVideo:
		if r.Video != nil {
			return r.Video.URL
		}
	case ResourceArticle:
		if r.Article != nil {
			return r.Article.URL
		}
	}
	return ""
}

func (r Resource) IsInlineArticle() bool {
	return r.Type == ResourceArticle && r.Article != nil && r.Article.Mode == ArticleWrite
}
