package model

import "testing"

func TestRoadmapTopicBounds(t *testing.T) {
	r := twoByTwo()
	tests := []struct {
		week, topic int
		want        bool
	}{
		{0, 0, true},
		{1, 1, true},
		{2, 0, false},
		{0, 2, false},
		{-1, 0, false},
		{0, -1, false},
	}
	for _, tt := range tests {
		if got := r.HasTopic(tt.week, tt.topic); got != tt.want {
			t.Errorf("HasTopic(%d, %d) = %v, want %v", tt.week, tt.topic, got, tt.want)
		}
	}
	if got := r.TopicCount(); got != 4 {
		t.Fatalf("TopicCount() = %d, want 4", got)
	}
}

func TestRoadmapSummaryOmitsResources(t *testing.T) {
	r := twoByTwo()
	r.ID = 7
	r.Title = "Go"
	s := r.Summary()
	if s.ID != 7 || s.TopicCount != 4 || len(s.Weeks) != 2 {
		t.Fatalf("Summary() = %+v", s)
	}
	if got := s.Weeks[0].Topics; len(got) != 2 || got[0] != "t" {
		t.Fatalf("Summary().Weeks[0].Topics = %v", got)
	}
}

func TestResourceURL(t *testing.T) {
	tests := []struct {
		name string
		r    Resource
		want string
	}{
		{"video", Resource{Type: ResourceVideo, Video: &VideoPayload{URL: "v"}}, "v"},
		{"article", Resource{Type: ResourceArticle, Article: &ArticlePayload{URL: "a"}}, "a"},
		{"video without payload", Resource{Type: ResourceVideo}, ""},
		{"quiz", Resource{Type: ResourceQuiz, Quiz: &QuizPayload{}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.URL(); got != tt.want {
				t.Fatalf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}
