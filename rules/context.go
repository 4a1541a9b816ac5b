package rules

import (
	"log/slog"
	"time"

	"github.com/codemarc/mailmind/classify"
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/mailbox"
	"github.com/codemarc/mailmind/model"
	"github.com/codemarc/mailmind/store"
)

// handlerFunc is the uniform rule contract: the working list in, the new
// working list out. A returned error aborts the ruleset; collaborator
// failures are recorded instead and the rule fails open.
type handlerFunc func(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error)

// Context carries everything one pipeline run needs. It is constructed once
// per (account, ruleset) run and passed explicitly; nothing here is process
// global. Only Options.Folder is mutated mid-run, by the save/load rules
// redirecting later rules to a different artifact or folder.
type Context struct {
	Account  config.Account
	Options  *config.Options
	Client   mailbox.Client
	RuleSet  config.RuleSet
	Strategy classify.Strategy
	Static   *classify.Static
	Store    *store.Store
	Logger   *slog.Logger

	failures []Failure
}

// Failure records one non-fatal collaborator error: the rule that hit it
// failed open and the pipeline kept going.
type Failure struct {
	Rule string
	Err  error
}

// recordFailure logs a collaborator error and notes it for the run result.
func (c *Context) recordFailure(rule string, err error) {
	c.Logger.Error("rule failed open", "rule", rule, "err", err)
	c.failures = append(c.failures, Failure{Rule: rule, Err: err})
}

// sourceFolder is the folder the pipeline currently works against.
func (c *Context) sourceFolder() string {
	if c.Options.Folder != "" {
		return c.Options.Folder
	}
	return "INBOX"
}

// artifactName is the saved-artifact name for this run: the redirected
// folder when one is set, the ruleset name otherwise.
func (c *Context) artifactName() string {
	if c.Options.Folder != "" {
		return c.Options.Folder
	}
	return c.RuleSet.Set
}

// Record is one executed rule in a run report.
type Record struct {
	Rule     string
	In       int
	Out      int
	Duration time.Duration
	Err      error
}

// Status is the executor state after a run.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result is what one ruleset run produced: the final working list, the
// per-rule report, and any fail-open collaborator failures.
type Result struct {
	Status   Status
	Messages []model.Message
	Report   []Record
	Failures []Failure
}
