package model

import (
	"strings"
	"time"
)

// Category is the importance label assigned to a message. The static
// classifier only ever produces one of the constants below; the learned
// classifier may produce account-specific category names.
type Category string

const (
	CategoryUrgent      Category = "urgent"
	CategoryImportant   Category = "important"
	CategoryActionable  Category = "actionable"
	CategoryInformative Category = "informative"
	CategoryRoutine     Category = "routine"
	CategoryLow         Category = "low"
	CategoryConference  Category = "conference"

	// CategoryUndefined is the learned classifier's zero-score bucket.
	CategoryUndefined Category = "undefined"
)

// Disposition is the handling action assigned to a message.
type Disposition string

const (
	DispositionReplyNeeded Disposition = "reply_needed"
	DispositionDelegate    Disposition = "delegate"
	DispositionSchedule    Disposition = "schedule"
	DispositionTrack       Disposition = "track"
	DispositionReadLater   Disposition = "read_later"
	DispositionFile        Disposition = "file"
	DispositionDelete      Disposition = "delete"
)

// NoSubject is the subject sentinel for messages without one.
const NoSubject = "(no subject)"

// Message represents a single mailbox entry as it flows through a rule
// pipeline. SeqNum is the mailbox-assigned sequence number: unique within one
// fetched batch and stable for the duration of a connected session, but not
// across reconnects.
type Message struct {
	Index          int         `json:"index,omitempty"`
	SeqNum         uint32      `json:"seq"`
	SenderEmail    string      `json:"senderEmail,omitempty"`
	RecipientEmail string      `json:"recipientEmail,omitempty"`
	From           string      `json:"from,omitempty"`
	To             string      `json:"to,omitempty"`
	Subject        string      `json:"subject,omitempty"`
	Text           []string    `json:"text,omitempty"`
	Date           time.Time   `json:"date,omitempty"`
	Category       Category    `json:"category,omitempty"`
	Disposition    Disposition `json:"disposition,omitempty"`

	// CategoryWhy and DispositionWhy record why the classifiers chose what
	// they chose. Needed for audit logs and fixtures, not for routing.
	CategoryWhy    string `json:"categoryWhy,omitempty"`
	DispositionWhy string `json:"dispositionWhy,omitempty"`

	// Source holds the raw RFC 5322 bytes between the select and parse
	// rules. Session transient, never persisted.
	Source []byte `json:"-"`
}

// Parsed reports whether the message has been through the parse rule (or was
// loaded from a saved artifact, which only ever contains parsed messages).
func (m Message) Parsed() bool {
	return m.Source == nil
}

// SenderDomain returns the domain part of the sender address, or "" when the
// sender is unknown.
func (m Message) SenderDomain() string {
	_, domain, found := strings.Cut(m.SenderEmail, "@")
	if !found {
		return ""
	}
	return domain
}

// Content returns the case-folded concatenation of subject and body lines,
// the signal both classifiers match patterns against. Absent fields degrade
// to the empty string.
func (m Message) Content() string {
	parts := make([]string, 0, len(m.Text)+1)
	parts = append(parts, m.Subject)
	parts = append(parts, m.Text...)
	return strings.ToLower(strings.Join(parts, " "))
}

// SeqNums returns the sequence numbers of all messages in list, in order.
func SeqNums(list []Message) []uint32 {
	seqs := make([]uint32, 0, len(list))
	for _, msg := range list {
		seqs = append(seqs, msg.SeqNum)
	}
	return seqs
}

// RoundToMinute discards the seconds and sub-second parts of t. The zero
// time stands in for missing or unparseable dates.
func RoundToMinute(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.Truncate(time.Minute)
}
