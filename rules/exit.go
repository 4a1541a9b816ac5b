package rules

import (
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
)

// runExit terminates the run with an *ExitError carrying the configured
// status code (0 when none is given). The working list survives into the
// result so the caller can still report on it.
func runExit(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	code := 0
	if ref.Exit != nil {
		code = *ref.Exit
	}
	ctx.Logger.Debug("rule:exit", "code", code)
	return list, &ExitError{Code: code}
}
