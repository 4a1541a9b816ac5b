package rules

import (
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
)

// runMatch keeps only the messages whose sender matches at least one term
// of the rule's allow-list. An empty allow-list keeps nothing.
func runMatch(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if len(list) == 0 {
		return list, nil
	}

	out := make([]model.Message, 0, len(list))
	for _, msg := range list {
		for _, term := range ref.Match.SenderEmail {
			if term.Matches(msg.SenderEmail) {
				out = append(out, msg)
				break
			}
		}
	}
	ctx.Logger.Debug("rule:match", "in", len(list), "out", len(out))
	return out, nil
}
