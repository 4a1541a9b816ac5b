package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/codemarc/mailmind/model"
)

// ExitError is how the exit rule terminates a run: an intentional
// full-process termination, not an error abort. It carries the process
// status code for the caller to exit with.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("pipeline exit with status %d", e.Code)
}

// Run executes the ruleset in ctx: rules strictly in declared order, each
// rule's returned list feeding the next. An unknown rule name or a rule
// error aborts the run and discards the partial result; callers running
// multiple rulesets continue with the next one. An *ExitError passes
// through for the caller to act on.
func Run(ctx *Context) (*Result, error) {
	result := &Result{Status: StatusIdle}

	if len(ctx.RuleSet.Rule) == 0 {
		return result, fmt.Errorf("ruleset %s has no rules", ctx.RuleSet.Set)
	}
	if ctx.Client == nil {
		return result, fmt.Errorf("ruleset %s: no mail client", ctx.RuleSet.Set)
	}

	// A ruleset bound to a source folder redirects the whole run there.
	if src := ctx.RuleSet.Folder("src"); src != "" {
		ctx.Options.Folder = src
	}

	result.Status = StatusRunning
	ctx.Logger.Debug("ruleset starting", "ruleset", ctx.RuleSet.Set, "desc", ctx.RuleSet.Desc)

	list := []model.Message{}
	for _, ref := range ctx.RuleSet.Rule {
		kind, err := ParseKind(ref.Name)
		if err != nil {
			result.Status = StatusAborted
			result.Failures = ctx.failures
			return result, fmt.Errorf("ruleset %s: %w", ctx.RuleSet.Set, err)
		}

		start := time.Now()
		out, err := kind.handler()(ctx, list, ref)
		record := Record{
			Rule:     kind.String(),
			In:       len(list),
			Out:      len(out),
			Duration: time.Since(start),
			Err:      err,
		}
		result.Report = append(result.Report, record)
		ctx.Logger.Debug("rule executed",
			"rule", record.Rule, "in", record.In, "out", record.Out, "duration", record.Duration)

		if err != nil {
			result.Failures = ctx.failures
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				result.Status = StatusCompleted
				result.Messages = out
				return result, err
			}
			result.Status = StatusAborted
			return result, fmt.Errorf("ruleset %s rule %s: %w", ctx.RuleSet.Set, kind, err)
		}
		list = out
	}

	result.Status = StatusCompleted
	result.Messages = list
	result.Failures = ctx.failures
	return result, nil
}
