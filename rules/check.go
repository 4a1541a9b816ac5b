package rules

import (
	"sort"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
)

// runCheck verifies that every folder the ruleset binds exists on the
// server, logging each one. It never creates folders and never changes the
// working list.
func runCheck(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	names := make([]string, 0, len(ctx.RuleSet.Folders))
	for name := range ctx.RuleSet.Folders {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		folder := ctx.RuleSet.Folders[name]
		path, err := ctx.Client.FolderPath(folder)
		if err != nil {
			ctx.Logger.Warn("folder missing", "binding", name, "folder", folder)
			continue
		}
		status, err := ctx.Client.Status(path)
		if err != nil {
			ctx.recordFailure("check", err)
			continue
		}
		ctx.Logger.Info("folder ok",
			"binding", name, "folder", path, "messages", status.Messages, "unseen", status.Unseen)
	}
	return list, nil
}
