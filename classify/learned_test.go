package classify

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/codemarc/mailmind/model"
)

func learnedTable(t *testing.T) *CategoryTable {
	t.Helper()
	table := NewCategoryTable()
	table.Set("finance", CategoryRule{
		Domains:  []string{"bank.example"},
		Keywords: []string{"invoice", "statement"},
	})
	table.Set("travel", CategoryRule{
		Domains:  []string{"airline.example"},
		Keywords: []string{"itinerary", "boarding"},
	})
	return table
}

func TestLearned_Importance(t *testing.T) {
	l := NewLearned(learnedTable(t))

	tests := []struct {
		name    string
		msg     model.Message
		want    model.Category
		wantWhy string
	}{
		{
			name:    "domain outweighs keyword",
			msg:     model.Message{SenderEmail: "fly@airline.example", Subject: "your invoice"},
			want:    "travel",
			wantWhy: "learned table score 5",
		},
		{
			name:    "domain plus keyword",
			msg:     model.Message{SenderEmail: "billing@bank.example", Subject: "monthly statement"},
			want:    "finance",
			wantWhy: "learned table score 8",
		},
		{
			name:    "no match is undefined",
			msg:     model.Message{SenderEmail: "someone@else.example", Subject: "hello"},
			want:    model.CategoryUndefined,
			wantWhy: "no learned domain or keyword match",
		},
		{
			name: "tie keeps earliest category",
			// One keyword each: finance (declared first) wins the 3-3 tie.
			msg:  model.Message{SenderEmail: "x@else.example", Subject: "invoice for your itinerary"},
			want: "finance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, why := l.Importance(tt.msg, "corp.example")
			if got != tt.want {
				t.Errorf("Importance() = %s (%s), want %s", got, why, tt.want)
			}
			if tt.wantWhy != "" && why != tt.wantWhy {
				t.Errorf("Importance() rationale = %q, want %q", why, tt.wantWhy)
			}
		})
	}
}

func TestLearned_NilTable(t *testing.T) {
	l := NewLearned(nil)
	got, _ := l.Importance(model.Message{Subject: "anything"}, "")
	if got != model.CategoryUndefined {
		t.Errorf("Importance() = %s, want %s", got, model.CategoryUndefined)
	}
}

func TestCategoryTable_OrderPreserved(t *testing.T) {
	src := "beta:\n  domains: [b.example]\n  keywords: []\nalpha:\n  domains: [a.example]\n  keywords: []\n"

	table := NewCategoryTable()
	if err := yaml.Unmarshal([]byte(src), table); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	names := table.Names()
	if len(names) != 2 || names[0] != "beta" || names[1] != "alpha" {
		t.Errorf("Names() = %v, want [beta alpha]", names)
	}

	// A tie between beta and alpha goes to beta, the earlier declaration.
	l := NewLearned(table)
	got, _ := l.Importance(model.Message{SenderEmail: "x@a.example.b.example"}, "")
	if got != "beta" {
		t.Errorf("Importance() tie = %s, want beta", got)
	}
}

func TestCategoryTable_RoundTrip(t *testing.T) {
	table := learnedTable(t)

	data, err := yaml.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	decoded := NewCategoryTable()
	if err := yaml.Unmarshal(data, decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := table.Names()
	got := decoded.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
