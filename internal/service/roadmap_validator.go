package service

import (
	"fmt"
	"strings"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
)

// ValidationRules 路线结构的最低要求
type ValidationRules struct {
	MinTopicsPerWeek     int
	MinResourcesPerTopic int
}

const DefaultMinResourcesPerTopic = 3

// WizardRules 向导创建路线时使用，每周至少一个主题
func WizardRules(minResources int) ValidationRules {
	if minResources < 1 {
		minResources = DefaultMinResourcesPerTopic
	}
	return ValidationRules{MinTopicsPerWeek: 1, MinResourcesPerTopic: minResources}
}

// APIRules 允许空周；出现的主题至少带一个资源
var APIRules = ValidationRules{MinTopicsPerWeek: 0, MinResourcesPerTopic: 1}

// CleanRoadmapResources 去掉没有地址的视频/链接文章；有正文的站内文章缺地址时生成占位地址
func CleanRoadmapResources(weeks []model.Week) []model.Week {
	cleaned := make([]model.Week, len(weeks))
	for wi, w := range weeks {
		topics := make([]model.Topic, len(w.Topics))
		for ti, t := range w.Topics {
			t.Resources = cleanResources(t.Resources)
			topics[ti] = t
		}
		w.Topics = topics
		cleaned[wi] = w
	}
	return cleaned
}

func cleanResources(resources []model.Resource) []model.Resource {
	kept := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if r.Type != model.ResourceVideo && r.Type != model.ResourceArticle {
			kept = append(kept, r)
			continue
		}
		if strings.TrimSpace(r.URL()) != "" {
			kept = append(kept, r)
			continue
		}
		if r.IsInlineArticle() {
			// 没有正文的站内文章原样保留，交给校验报错，不生成占位地址
			if strings.TrimSpace(r.Article.Content) != "" {
				article := *r.Article
				article.URL = util.CustomArticlePrefix + model.GenerateUUID()
				r.Article = &article
			}
			kept = append(kept, r)
		}
	}
	return kept
}

// RenumberWeeks 按顺序将周编号重排为 1..n
func RenumberWeeks(weeks []model.Week) {
	for i := range weeks {
		weeks[i].WeekNumber = i + 1
	}
}

// SkeletonWeeks 生成 duration 个空周
func SkeletonWeeks(duration int) []model.Week {
	weeks := make([]model.Week, 0, duration)
	for i := 1; i <= duration; i++ {
		weeks = append(weeks, model.Week{
			WeekNumber: i,
			Title:      fmt.Sprintf("Week %d", i),
			Topics:     []model.Topic{},
		})
	}
	return weeks
}

// ValidateRoadmap 返回全部问题，空切片表示通过
func ValidateRoadmap(r *model.Roadmap, rules ValidationRules) []util.ValidationIssue {
	var issues []util.ValidationIssue
	add := func(field string, week, topic int, format string, args ...interface{}) {
		issues = append(issues, util.ValidationIssue{
			Field: field, Week: week, Topic: topic, Message: fmt.Sprintf(format, args...),
		})
	}

	if strings.TrimSpace(r.Title) == "" {
		add("title", -1, -1, "title is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		add("category", -1, -1, "category is required")
	}
	if r.Duration <= 0 {
		add("duration", -1, -1, "duration must be a positive number of weeks")
	}
	if !r.Difficulty.Valid() {
		add("difficulty", -1, -1, "difficulty must be one of beginner, intermediate, advanced")
	}

	for wi, w := range r.Weeks {
		if strings.TrimSpace(w.Title) == "" {
			add("weeks.title", wi, -1, "week %d: title is required", wi+1)
		}
		if len(w.Topics) < rules.MinTopicsPerWeek {
			add("weeks.topics", wi, -1, "week %d: at least %d topic(s) required", wi+1, rules.MinTopicsPerWeek)
		}
		for ti, t := range w.Topics {
			if strings.TrimSpace(t.Title) == "" {
				add("topics.title", wi, ti, "week %d topic %d: title is required", wi+1, ti+1)
			}
			if len(t.Resources) < rules.MinResourcesPerTopic {
				add("topics.resources", wi, ti, "week %d topic %d: at least %d resource(s) required",
					wi+1, ti+1, rules.MinResourcesPerTopic)
			}
			for ri, res := range t.Resources {
				if msg := validateResource(res); msg != "" {
					add("resources", wi, ti, "week %d topic %d resource %d: %s", wi+1, ti+1, ri+1, msg)
				}
			}
		}
	}
	return issues
}

// ValidateTopic 单独添加或修改主题时使用
func ValidateTopic(t model.Topic, weekIndex, topicIndex int) []util.ValidationIssue {
	var issues []util.ValidationIssue
	if strings.TrimSpace(t.Title) == "" {
		issues = append(issues, util.ValidationIssue{
			Field: "title", Week: weekIndex, Topic: topicIndex, Message: "topic title is required",
		})
	}
	for ri, res := range t.Resources {
		if msg := validateResource(res); msg != "" {
			issues = append(issues, util.ValidationIssue{
				Field: "resources", Week: weekIndex, Topic: topicIndex,
				Message: fmt.Sprintf("resource %d: %s", ri+1, msg),
			})
		}
	}
	return issues
}

func validateResource(r model.Resource) string {
	switch r.Type {
	case model.ResourceVideo:
		if r.Video == nil || strings.TrimSpace(r.Video.URL) == "" {
			return "video url is required"
		}
		if r.Video.Duration < 0 {
			return "video duration cannot be negative"
		}
	case model.ResourceArticle:
		if r.Article == nil {
			return "article payload is required"
		}
		if r.Article.Mode == model.ArticleWrite {
			if strings.TrimSpace(r.Article.Content) == "" && strings.TrimSpace(r.Article.URL) == "" {
				return "article content is required"
			}
		} else if strings.TrimSpace(r.Article.URL) == "" {
			return "article url is required"
		}
	case model.ResourceQuiz:
		if r.Quiz == nil || len(r.Quiz.Questions) == 0 {
			return "quiz needs at least one question"
		}
		for qi, q := range r.Quiz.Questions {
			if strings.TrimSpace(q.Question) == "" {
				return fmt.Sprintf("question %d: text is required", qi+1)
			}
			if len(q.Options) < 2 {
				return fmt.Sprintf("question %d: at least 2 options required", qi+1)
			}
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				return fmt.Sprintf("question %d: correct option out of range", qi+1)
			}
		}
	default:
		return fmt.Sprintf("unknown resource type %q", r.Type)
	}
	return ""
}

// PrepareRoadmap 依次执行清理、重排周编号与校验
func PrepareRoadmap(r *model.Roadmap, rules ValidationRules) error {
	if r.Difficulty == "" {
		r.Difficulty = model.Beginner
	}
	r.Weeks = CleanRoadmapResources(r.Weeks)
	RenumberWeeks(r.Weeks)
	if issues := ValidateRoadmap(r, rules); len(issues) > 0 {
		return &util.ValidationError{Issues: issues}
	}
	return nil
}

// RepairRoadmap 修复历史数据：补齐缺失的标题、重新编号周次，返回是否有改动
func RepairRoadmap(r *model.Roadmap) bool {
	changed := false
	if strings.TrimSpace(r.Title) == "" {
		r.Title = "Untitled Roadmap"
		changed = true
	}
	for i := range r.Weeks {
		w := &r.Weeks[i]
		if strings.TrimSpace(w.Title) == "" {
			w.Title = "Untitled Week"
			changed = true
		}
		if w.WeekNumber != i+1 {
			w.WeekNumber = i + 1
			changed = true
		}
	}
	return changed
}
