package rules

import (
	"errors"
	"testing"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/mailbox"
)

func TestRun_EmptyRuleset(t *testing.T) {
	ctx := newTestContext(t, newFakeClient(), config.RuleSet{Set: "empty"})

	result, err := Run(ctx)
	if err == nil {
		t.Fatal("Run() with no rules should error")
	}
	if result.Status != StatusIdle {
		t.Errorf("Status = %s, want %s", result.Status, StatusIdle)
	}
}

func TestRun_UnknownRuleAborts(t *testing.T) {
	ruleset := config.RuleSet{
		Set:  "bad",
		Rule: []config.RuleRef{{Name: "transmogrify"}},
	}
	ctx := newTestContext(t, newFakeClient(), ruleset)

	result, err := Run(ctx)
	if !errors.Is(err, ErrUnknownRule) {
		t.Fatalf("Run() error = %v, want ErrUnknownRule", err)
	}
	if result.Status != StatusAborted {
		t.Errorf("Status = %s, want %s", result.Status, StatusAborted)
	}
	if len(result.Messages) != 0 {
		t.Errorf("aborted run should discard messages, got %d", len(result.Messages))
	}
}

func TestRun_ExitRuleCompletes(t *testing.T) {
	code := 3
	ruleset := config.RuleSet{
		Set: "quit",
		Rule: []config.RuleRef{
			{Name: "check"},
			{Name: "exit", Exit: &code},
			{Name: "parse"}, // never reached
		},
	}
	ctx := newTestContext(t, newFakeClient(), ruleset)

	result, err := Run(ctx)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.Code)
	}
	if result.Status != StatusCompleted {
		t.Errorf("Status = %s, want %s", result.Status, StatusCompleted)
	}
	if len(result.Report) != 2 {
		t.Errorf("report has %d records, want 2", len(result.Report))
	}
}

func TestRun_SelectParseClassify(t *testing.T) {
	client := newFakeClient()
	client.searched = []uint32{1, 2, 3}
	client.fetched = fetchFixtures()

	ruleset := config.RuleSet{
		Set: "triage",
		Rule: []config.RuleRef{
			{Name: "select", Pick: config.StringList{"all"}},
			{Name: "parse"},
			{Name: "classify"},
		},
	}
	ctx := newTestContext(t, client, ruleset)

	result, err := Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("Status = %s, want %s", result.Status, StatusCompleted)
	}
	if len(result.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(result.Messages))
	}

	// Newest first, numbered from one, fully classified.
	for i, msg := range result.Messages {
		if msg.Index != i+1 {
			t.Errorf("message %d has index %d", i, msg.Index)
		}
		if !msg.Parsed() {
			t.Errorf("message %d still carries raw source", i)
		}
		if msg.Category == "" || msg.Disposition == "" {
			t.Errorf("message %d not classified: %q/%q", i, msg.Category, msg.Disposition)
		}
	}
	if result.Messages[0].SeqNum != 3 {
		t.Errorf("first message seq = %d, want newest (3)", result.Messages[0].SeqNum)
	}
}

func TestRun_SourceFolderBinding(t *testing.T) {
	ruleset := config.RuleSet{
		Set:     "bound",
		Folders: map[string]string{"src": "Reading"},
		Rule:    []config.RuleRef{{Name: "check"}},
	}
	ctx := newTestContext(t, newFakeClient("Reading"), ruleset)

	if _, err := Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ctx.Options.Folder != "Reading" {
		t.Errorf("Options.Folder = %q, want Reading", ctx.Options.Folder)
	}
}

func fetchFixtures() []mailbox.RawMessage {
	raw := func(from, subject string) []byte {
		return []byte("From: " + from + "\r\n" +
			"To: Me <me@corp.example>\r\n" +
			"Subject: " + subject + "\r\n" +
			"Date: Mon, 02 Feb 2026 10:30:45 +0000\r\n" +
			"Content-Type: text/plain\r\n" +
			"\r\n" +
			"Hello there.\r\n")
	}
	return []mailbox.RawMessage{
		{SeqNum: 1, Source: raw("Ann <ann@corp.example>", "weekly notes")},
		{SeqNum: 2, Source: raw("Shop <deals@shop.example>", "Big sale newsletter")},
		{SeqNum: 3, Source: raw("Bob <bob@corp.example>", "Urgent: deadline today")},
	}
}
