// Package classify assigns an importance category and a handling disposition
// to parsed messages. Two category strategies exist: the static pattern
// cascade in this file and the learned per-account table in learned.go.
// Disposition always comes from the static classifier.
package classify

import (
	"strings"

	"github.com/codemarc/mailmind/model"
)

// Strategy scores a message into an importance category together with a
// rationale. orgDomain is the account's own organization domain.
type Strategy interface {
	Importance(msg model.Message, orgDomain string) (model.Category, string)
}

// Static is the pattern-table classifier. It is a pure function of its
// inputs: no I/O, never fails, absent message fields degrade to "".
type Static struct {
	sink    string
	domains DomainLists
}

// NewStatic builds a static classifier. sink is the operator sink address
// whose mail is always deleted; empty disables that check.
func NewStatic(sink string, domains DomainLists) *Static {
	return &Static{sink: sink, domains: domains}
}

// Importance classifies msg with a first-match-wins cascade. The order of
// the checks is the priority order and must not be rearranged.
func (s *Static) Importance(msg model.Message, orgDomain string) (model.Category, string) {
	content := msg.Content()
	senderDomain := msg.SenderDomain()

	for _, domain := range professionalNetworkDomains {
		if senderDomain == domain || strings.HasSuffix(senderDomain, "."+domain) {
			return model.CategoryRoutine, domain + " domain"
		}
	}

	orgSender := orgDomain != "" && senderDomain == orgDomain

	if matchAny(conferencePatterns, content) {
		return model.CategoryConference, "conference pattern match"
	}
	if matchAny(urgentPatterns, content) {
		return model.CategoryUrgent, "urgent pattern match"
	}
	if orgSender && matchAny(importantPatterns, content) {
		return model.CategoryImportant, "important pattern match from organization sender"
	}
	if matchAny(actionablePatterns, content) {
		return model.CategoryActionable, "actionable pattern match"
	}
	if orgSender {
		return model.CategoryInformative, "sender from same organization"
	}
	if matchAny(noisePatterns, content) || matchAny(newsPatterns, content) {
		return model.CategoryLow, "marketing/promotional pattern match"
	}

	return model.CategoryRoutine, "default category"
}

// Disposition maps a classified message to its handling action. It never
// re-derives the category; callers pass the one already assigned.
func (s *Static) Disposition(msg model.Message, category model.Category) (model.Disposition, string) {
	if s.sink != "" && msg.RecipientEmail == s.sink {
		return model.DispositionDelete, "sink address recipient"
	}

	senderDomain := msg.SenderDomain()
	if suffixMatch(senderDomain, s.domains.Deny) {
		return model.DispositionDelete, "deny-list domain match"
	}
	if suffixMatch(senderDomain, s.domains.Defer) {
		return model.DispositionReadLater, "read later domain match"
	}

	content := msg.Content()

	// Scheduling first: those patterns are the most specific.
	if matchAny(schedulePatterns, content) {
		return model.DispositionSchedule, "schedule pattern match"
	}
	if matchAny(replyNeededPatterns, content) {
		return model.DispositionReplyNeeded, "reply needed pattern match"
	}
	if matchAny(delegatePatterns, content) {
		return model.DispositionDelegate, "delegation pattern match"
	}
	if matchAny(trackPatterns, content) {
		return model.DispositionTrack, "tracking pattern match"
	}

	switch category {
	case model.CategoryUrgent, model.CategoryImportant:
		return model.DispositionReplyNeeded, "based on urgent/important category"
	case model.CategoryActionable:
		return model.DispositionTrack, "based on actionable category"
	case model.CategoryInformative:
		return model.DispositionReadLater, "based on informative category"
	case model.CategoryLow:
		return model.DispositionDelete, "based on low category"
	default:
		// conference and routine included: archive for record keeping.
		return model.DispositionFile, "default disposition"
	}
}
