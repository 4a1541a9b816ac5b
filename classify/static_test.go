package classify

import (
	"testing"

	"github.com/codemarc/mailmind/model"
)

func testStatic() *Static {
	return NewStatic("sink@corp.example", DomainLists{
		Deny:  []string{"spam.example.net"},
		Defer: []string{"substack.com"},
	})
}

func TestStatic_Importance(t *testing.T) {
	tests := []struct {
		name string
		msg  model.Message
		want model.Category
	}{
		{
			name: "urgent deadline",
			msg:  model.Message{Subject: "Urgent: contract deadline today"},
			want: model.CategoryUrgent,
		},
		{
			name: "linkedin beats urgent",
			msg:  model.Message{SenderEmail: "digest@news.linkedin.com", Subject: "Urgent: you appeared in searches"},
			want: model.CategoryRoutine,
		},
		{
			name: "conference beats urgent",
			msg:  model.Message{Subject: "Join us on March 12 for the summit, urgent seats"},
			want: model.CategoryConference,
		},
		{
			name: "important needs org sender",
			msg:  model.Message{SenderEmail: "ceo@corp.example", Subject: "Important: quarterly priorities"},
			want: model.CategoryImportant,
		},
		{
			name: "important from outside is not important",
			msg:  model.Message{SenderEmail: "vendor@other.example", Subject: "Important announcement"},
			want: model.CategoryRoutine,
		},
		{
			name: "actionable",
			msg:  model.Message{SenderEmail: "it@other.example", Subject: "Please confirm your details"},
			want: model.CategoryActionable,
		},
		{
			name: "org sender fallback",
			msg:  model.Message{SenderEmail: "teammate@corp.example", Subject: "notes"},
			want: model.CategoryInformative,
		},
		{
			name: "newsletter is low",
			msg:  model.Message{SenderEmail: "hello@shop.example", Subject: "Weekly newsletter"},
			want: model.CategoryLow,
		},
		{
			name: "empty message defaults to routine",
			msg:  model.Message{},
			want: model.CategoryRoutine,
		},
	}

	s := testStatic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, why := s.Importance(tt.msg, "corp.example")
			if got != tt.want {
				t.Errorf("Importance() = %s (%s), want %s", got, why, tt.want)
			}
			if why == "" {
				t.Error("Importance() returned empty rationale")
			}
		})
	}
}

func TestStatic_Disposition(t *testing.T) {
	tests := []struct {
		name     string
		msg      model.Message
		category model.Category
		want     model.Disposition
	}{
		{
			name: "sink recipient beats everything",
			msg: model.Message{
				RecipientEmail: "sink@corp.example",
				SenderEmail:    "boss@corp.example",
				Subject:        "Please respond",
			},
			category: model.CategoryUrgent,
			want:     model.DispositionDelete,
		},
		{
			name: "deny domain beats schedule pattern",
			msg: model.Message{
				SenderEmail: "noreply@spam.example.net",
				Subject:     "Your meeting schedule",
			},
			category: model.CategoryRoutine,
			want:     model.DispositionDelete,
		},
		{
			name:     "defer domain",
			msg:      model.Message{SenderEmail: "author@substack.com", Subject: "New post"},
			category: model.CategoryRoutine,
			want:     model.DispositionReadLater,
		},
		{
			name:     "schedule beats reply needed",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "Zoom call tomorrow, let me know"},
			category: model.CategoryRoutine,
			want:     model.DispositionSchedule,
		},
		{
			name:     "trailing question mark",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "Did you get my note?"},
			category: model.CategoryRoutine,
			want:     model.DispositionReplyNeeded,
		},
		{
			name:     "delegate",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "Can someone take this over"},
			category: model.CategoryRoutine,
			want:     model.DispositionDelegate,
		},
		{
			name:     "track",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "Your tracking number inside"},
			category: model.CategoryRoutine,
			want:     model.DispositionTrack,
		},
		{
			name:     "urgent category fallback",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "fire"},
			category: model.CategoryUrgent,
			want:     model.DispositionReplyNeeded,
		},
		{
			name:     "actionable category fallback",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "x"},
			category: model.CategoryActionable,
			want:     model.DispositionTrack,
		},
		{
			name:     "informative category fallback",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "x"},
			category: model.CategoryInformative,
			want:     model.DispositionReadLater,
		},
		{
			name:     "low category fallback",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "x"},
			category: model.CategoryLow,
			want:     model.DispositionDelete,
		},
		{
			name:     "conference files",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "x"},
			category: model.CategoryConference,
			want:     model.DispositionFile,
		},
		{
			name:     "routine files",
			msg:      model.Message{SenderEmail: "a@b.example", Subject: "x"},
			category: model.CategoryRoutine,
			want:     model.DispositionFile,
		},
	}

	s := testStatic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, why := s.Disposition(tt.msg, tt.category)
			if got != tt.want {
				t.Errorf("Disposition() = %s (%s), want %s", got, why, tt.want)
			}
		})
	}
}

func TestStatic_DispositionNoSinkConfigured(t *testing.T) {
	s := NewStatic("", DomainLists{})
	got, _ := s.Disposition(model.Message{RecipientEmail: ""}, model.CategoryRoutine)
	if got != model.DispositionFile {
		t.Errorf("Disposition() = %s, want %s", got, model.DispositionFile)
	}
}
