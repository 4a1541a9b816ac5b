package classify

import (
	"context"
	"sort"
	"strings"

	"github.com/codemarc/mailmind/model"
)

const (
	// minOccurrences keeps one-off senders from becoming categories.
	minOccurrences = 2
	maxKeywords    = 5
)

// FrequencySuggester is the built-in Categorizer: it proposes categories
// from the sampled messages themselves, named after the sender organizations
// that recur most. A remote text-categorization backend can stand in behind
// the same interface without touching the discovery routine.
type FrequencySuggester struct {
	msgs []model.Message
}

// NewFrequencySuggester builds a suggester over a sampled batch.
func NewFrequencySuggester(msgs []model.Message) *FrequencySuggester {
	return &FrequencySuggester{msgs: msgs}
}

// SuggestCategories proposes the most frequent sender organizations not yet
// in the table, most frequent first.
func (s *FrequencySuggester) SuggestCategories(ctx context.Context, samples string, existing []string, needed int) ([]string, error) {
	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}

	counts := make(map[string]int)
	var order []string
	for _, msg := range s.msgs {
		label := orgLabel(msg.SenderDomain())
		if label == "" || taken[label] {
			continue
		}
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	var out []string
	for _, label := range order {
		if counts[label] < minOccurrences {
			continue
		}
		out = append(out, label)
		if len(out) == needed {
			break
		}
	}
	return out, nil
}

// SuggestDetails collects the sender domains behind a proposed category and
// the recurring subject words of their messages.
func (s *FrequencySuggester) SuggestDetails(ctx context.Context, samples string, category string) (CategoryDetails, error) {
	var details CategoryDetails
	seenDomain := make(map[string]bool)
	wordCounts := make(map[string]int)
	var wordOrder []string

	for _, msg := range s.msgs {
		domain := msg.SenderDomain()
		if orgLabel(domain) != category {
			continue
		}
		if !seenDomain[domain] {
			seenDomain[domain] = true
			details.Domains = append(details.Domains, domain)
		}
		for _, word := range strings.Fields(strings.ToLower(msg.Subject)) {
			word = strings.Trim(word, `.,:;!?()[]"'`)
			if len(word) < 4 || subjectStopWords[word] {
				continue
			}
			if wordCounts[word] == 0 {
				wordOrder = append(wordOrder, word)
			}
			wordCounts[word]++
		}
	}

	sort.SliceStable(wordOrder, func(i, j int) bool {
		return wordCounts[wordOrder[i]] > wordCounts[wordOrder[j]]
	})
	if len(wordOrder) > maxKeywords {
		wordOrder = wordOrder[:maxKeywords]
	}
	details.Keywords = wordOrder
	return details, nil
}

var subjectStopWords = map[string]bool{
	"your": true, "from": true, "with": true, "this": true,
	"that": true, "have": true, "about": true, "their": true,
}

// orgLabel guesses the organization behind a sender domain: the label left
// of the top-level one, so news.linkedin.com and mail.linkedin.com collapse
// to linkedin.
func orgLabel(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
