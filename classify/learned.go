package classify

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codemarc/mailmind/model"
)

const (
	domainWeight  = 5
	keywordWeight = 3

	// MinCategories and MaxCategories bound the size of a learned table.
	MinCategories = 7
	MaxCategories = 12
)

// CategoryRule is the learned evidence for one category.
type CategoryRule struct {
	Domains  []string `yaml:"domains"`
	Keywords []string `yaml:"keywords"`
}

// CategoryTable is an ordered category -> rule mapping. Declaration order is
// preserved because score ties go to the earliest category.
type CategoryTable struct {
	names   []string
	entries map[string]CategoryRule
}

// NewCategoryTable returns an empty table containing only the mandatory
// undefined bucket.
func NewCategoryTable() *CategoryTable {
	t := &CategoryTable{entries: make(map[string]CategoryRule)}
	t.Set(string(model.CategoryUndefined), CategoryRule{})
	return t
}

// Names returns the category names in first-seen order.
func (t *CategoryTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of categories, the undefined bucket included.
func (t *CategoryTable) Len() int {
	return len(t.names)
}

// Has reports whether the table already carries the named category.
func (t *CategoryTable) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Set adds or replaces a category rule, preserving first-seen order.
func (t *CategoryTable) Set(name string, rule CategoryRule) {
	if _, ok := t.entries[name]; !ok {
		t.names = append(t.names, name)
	}
	t.entries[name] = rule
}

// UnmarshalYAML decodes the mapping while keeping document order, which a
// plain map would lose.
func (t *CategoryTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: category table must be a mapping", value.Line)
	}
	t.names = nil
	t.entries = make(map[string]CategoryRule, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var rule CategoryRule
		if err := value.Content[i+1].Decode(&rule); err != nil {
			return fmt.Errorf("category %s: %w", value.Content[i].Value, err)
		}
		t.Set(value.Content[i].Value, rule)
	}
	return nil
}

// MarshalYAML emits the mapping in first-seen order.
func (t *CategoryTable) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range t.names {
		var key, val yaml.Node
		if err := key.Encode(name); err != nil {
			return nil, err
		}
		if err := val.Encode(t.entries[name]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

// Learned scores messages against a category table instead of the static
// pattern cascade. It satisfies Strategy and is a drop-in replacement for
// Static.Importance inside a ruleset; disposition is unaffected.
type Learned struct {
	table *CategoryTable
}

// NewLearned wraps a category table in a classifier.
func NewLearned(table *CategoryTable) *Learned {
	if table == nil {
		table = NewCategoryTable()
	}
	return &Learned{table: table}
}

// Importance picks the strictly highest-scoring category: each matching
// domain substring scores 5, each matching content keyword 3. Ties keep the
// earliest category; a total of zero classifies as undefined. orgDomain is
// unused by this strategy.
func (l *Learned) Importance(msg model.Message, orgDomain string) (model.Category, string) {
	content := msg.Content()
	senderDomain := msg.SenderDomain()

	best := model.CategoryUndefined
	bestScore := 0
	for _, name := range l.table.names {
		if name == string(model.CategoryUndefined) {
			continue
		}
		rule := l.table.entries[name]

		score := 0
		for _, domain := range rule.Domains {
			if domain != "" && strings.Contains(senderDomain, strings.ToLower(domain)) {
				score += domainWeight
			}
		}
		for _, keyword := range rule.Keywords {
			if keyword != "" && strings.Contains(content, strings.ToLower(keyword)) {
				score += keywordWeight
			}
		}
		if score > bestScore {
			bestScore = score
			best = model.Category(name)
		}
	}

	if bestScore == 0 {
		return model.CategoryUndefined, "no learned domain or keyword match"
	}
	return best, fmt.Sprintf("learned table score %d", bestScore)
}
