package model

import "testing"

func boolPtr(b bool) *bool { return &b }

func twoByTwo() *Roadmap {
	topic := Topic{Title: "t", Resources: []Resource{{Type: ResourceQuiz}}}
	return &Roadmap{Weeks: []Week{
		{WeekNumber: 1, Title: "w1", Topics: []Topic{topic, topic}},
		{WeekNumber: 2, Title: "w2", Topics: []Topic{topic, topic}},
	}}
}

func TestSetTopicStateMutualExclusion(t *testing.T) {
	tests := []struct {
		name           string
		steps          []TopicStatePatch
		wantCompleted  bool
		wantInProgress bool
	}{
		{"complete", []TopicStatePatch{{Completed: boolPtr(true)}}, true, false},
		{"in progress", []TopicStatePatch{{InProgress: boolPtr(true)}}, false, true},
		{"in progress then complete", []TopicStatePatch{{InProgress: boolPtr(true)}, {Completed: boolPtr(true)}}, true, false},
		{"complete then in progress", []TopicStatePatch{{Completed: boolPtr(true)}, {InProgress: boolPtr(true)}}, false, true},
		{"complete then clear", []TopicStatePatch{{Completed: boolPtr(true)}, {Completed: boolPtr(false)}}, false, false},
		{"empty patch creates default entry", []TopicStatePatch{{}}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &UserProgress{}
			for _, step := range tt.steps {
				p.SetTopicState(1, 0, step)
			}
			if len(p.Topics) != 1 {
				t.Fatalf("len(Topics) = %d, want 1", len(p.Topics))
			}
			tp := p.Topics[0]
			if tp.Completed != tt.wantCompleted || tp.InProgress != tt.wantInProgress {
				t.Fatalf("state = {%v %v}, want {%v %v}", tp.Completed, tp.InProgress, tt.wantCompleted, tt.wantInProgress)
			}
			if tp.Completed && tp.InProgress {
				t.Fatal("completed and inProgress are both true")
			}
		})
	}
}

func TestSetTopicStateMatchesExactPair(t *testing.T) {
	p := &UserProgress{}
	p.SetTopicState(0, 1, TopicStatePatch{Completed: boolPtr(true)})
	p.SetTopicState(1, 0, TopicStatePatch{InProgress: boolPtr(true)})

	if len(p.Topics) != 2 {
		t.Fatalf("len(Topics) = %d, want 2", len(p.Topics))
	}
	if tp := p.FindTopic(0, 1); tp == nil || !tp.Completed {
		t.Fatalf("FindTopic(0, 1) = %+v, want completed", tp)
	}
	if tp := p.FindTopic(1, 0); tp == nil || !tp.InProgress {
		t.Fatalf("FindTopic(1, 0) = %+v, want in progress", tp)
	}
}

func TestReset(t *testing.T) {
	p := &UserProgress{}
	if p.Reset(0, 0) {
		t.Fatal("Reset() on missing entry = true, want false")
	}
	if len(p.Topics) != 0 {
		t.Fatal("Reset() created an entry")
	}

	p.SetTopicState(0, 0, TopicStatePatch{Completed: boolPtr(true)})
	if !p.Reset(0, 0) {
		t.Fatal("Reset() on existing entry = false, want true")
	}
	tp := p.FindTopic(0, 0)
	if tp.Completed || tp.InProgress {
		t.Fatalf("after Reset() state = %+v", tp)
	}
}

func TestPercentageTwoByTwo(t *testing.T) {
	r := twoByTwo()
	p := &UserProgress{}

	steps := []struct {
		week, topic int
		want        int
	}{
		{0, 0, 25},
		{0, 1, 50},
		{1, 0, 75},
		{1, 1, 100},
	}
	if got := p.Percentage(r); got != 0 {
		t.Fatalf("Percentage() = %d, want 0", got)
	}
	for _, s := range steps {
		p.SetTopicState(s.week, s.topic, TopicStatePatch{Completed: boolPtr(true)})
		if got := p.Percentage(r); got != s.want {
			t.Fatalf("after (%d,%d) Percentage() = %d, want %d", s.week, s.topic, got, s.want)
		}
	}
	if got := StatusFor(p.Percentage(r), p); got != StatusCompleted {
		t.Fatalf("StatusFor() = %s, want %s", got, StatusCompleted)
	}
}

func TestPercentageIgnoresOutOfBoundsEntries(t *testing.T) {
	r := twoByTwo()
	p := &UserProgress{}
	p.SetTopicState(0, 0, TopicStatePatch{Completed: boolPtr(true)})
	p.SetTopicState(5, 9, TopicStatePatch{Completed: boolPtr(true)})

	if got := p.CompletedCount(); got != 2 {
		t.Fatalf("CompletedCount() = %d, want 2", got)
	}
	if got := p.Percentage(r); got != 25 {
		t.Fatalf("Percentage() = %d, want 25", got)
	}
}

func TestPercentageBounds(t *testing.T) {
	empty := &Roadmap{}
	p := &UserProgress{}
	p.SetTopicState(0, 0, TopicStatePatch{Completed: boolPtr(true)})
	if got := p.Percentage(empty); got != 0 {
		t.Fatalf("Percentage() on roadmap without topics = %d, want 0", got)
	}

	three := &Roadmap{Weeks: []Week{{Topics: make([]Topic, 3)}}}
	if got := p.Percentage(three); got != 33 {
		t.Fatalf("Percentage() = %d, want 33", got)
	}
	p.SetTopicState(0, 1, TopicStatePatch{Completed: boolPtr(true)})
	if got := p.Percentage(three); got != 67 {
		t.Fatalf("Percentage() = %d, want 67", got)
	}
}

func TestStatusFor(t *testing.T) {
	idle := &UserProgress{}
	started := &UserProgress{}
	started.SetTopicState(0, 0, TopicStatePatch{InProgress: boolPtr(true)})

	tests := []struct {
		name string
		pct  int
		p    *UserProgress
		want ProgressStatus
	}{
		{"nothing", 0, idle, StatusNotStarted},
		{"in progress flag only", 0, started, StatusInProgress},
		{"partial", 40, idle, StatusInProgress},
		{"done", 100, idle, StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.pct, tt.p); got != tt.want {
				t.Fatalf("StatusFor() = %s, want %s", got, tt.want)
			}
		})
	}
}
