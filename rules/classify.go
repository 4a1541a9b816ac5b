package rules

import (
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
)

// runClassify assigns a category and disposition to every message in the
// list. The category comes from the configured strategy; the disposition
// always comes from the static classifier.
func runClassify(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if len(list) == 0 {
		return list, nil
	}

	out := make([]model.Message, 0, len(list))
	for _, msg := range list {
		category, why := ctx.Strategy.Importance(msg, ctx.Account.Domain)
		msg.Category = category
		msg.CategoryWhy = why

		disposition, why := ctx.Static.Disposition(msg, category)
		msg.Disposition = disposition
		msg.DispositionWhy = why

		out = append(out, msg)
	}
	ctx.Logger.Debug("rule:classify", "messages", len(out))
	return out, nil
}
