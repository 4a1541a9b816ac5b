package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codemarc/mailmind/model"
)

// sampleLimit caps how many messages feed one discovery round.
const sampleLimit = 100

// CategoryDetails is the evidence an external categorizer proposes for a new
// category.
type CategoryDetails struct {
	Domains  []string
	Keywords []string
}

// Categorizer is the external text-categorization collaborator. It is only
// ever called from the explicit discovery routine below, never from the
// classification path.
type Categorizer interface {
	// SuggestCategories proposes up to needed new single-word category names
	// distinct from existing, based on the sample content.
	SuggestCategories(ctx context.Context, samples string, existing []string, needed int) ([]string, error)

	// SuggestDetails proposes sender domains and keywords for one category.
	SuggestDetails(ctx context.Context, samples string, category string) (CategoryDetails, error)
}

// UpdateCategories grows the table toward MinCategories by sampling msgs and
// asking the categorizer for new categories and their evidence. It reports
// whether the table changed. The table never exceeds MaxCategories and
// always keeps its undefined bucket.
func UpdateCategories(ctx context.Context, cat Categorizer, table *CategoryTable, msgs []model.Message, logger *slog.Logger) (bool, error) {
	if table.Len() >= MaxCategories {
		return false, nil
	}
	if table.Len() >= MinCategories {
		return false, nil
	}

	samples := sampleContent(msgs)
	existing := table.Names()
	needed := MinCategories - table.Len()
	if room := MaxCategories - table.Len(); needed > room {
		needed = room
	}

	suggested, err := cat.SuggestCategories(ctx, samples, existing, needed)
	if err != nil {
		return false, fmt.Errorf("suggest categories: %w", err)
	}

	changed := false
	for _, name := range suggested {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || table.Has(name) {
			continue
		}
		if table.Len() >= MaxCategories {
			break
		}

		details, err := cat.SuggestDetails(ctx, samples, name)
		if err != nil {
			logger.Error("suggest category details", "category", name, "err", err)
			continue
		}
		table.Set(name, CategoryRule{Domains: details.Domains, Keywords: details.Keywords})
		logger.Debug("discovered category", "category", name,
			"domains", len(details.Domains), "keywords", len(details.Keywords))
		changed = true
	}

	if !table.Has(string(model.CategoryUndefined)) {
		table.Set(string(model.CategoryUndefined), CategoryRule{})
		changed = true
	}
	return changed, nil
}

func sampleContent(msgs []model.Message) string {
	limit := len(msgs)
	if limit > sampleLimit {
		limit = sampleLimit
	}

	var b strings.Builder
	for _, msg := range msgs[:limit] {
		text := strings.Join(msg.Text, "\n")
		if len(text) > 200 {
			text = text[:200]
		}
		fmt.Fprintf(&b, "Subject: %s\nFrom: %s\nText: %s\n---\n", msg.Subject, msg.From, text)
	}
	return b.String()
}
