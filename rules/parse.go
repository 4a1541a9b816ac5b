package rules

import (
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
	"github.com/codemarc/mailmind/parser"
)

// runParse extracts structured fields from raw message source. A list that
// is already parsed (loaded from an artifact) passes through untouched:
// reparsing would reorder and renumber it.
func runParse(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if len(list) == 0 {
		return list, nil
	}
	if list[0].Parsed() {
		return list, nil
	}
	return parseList(list), nil
}

// parseList parses every raw message, reverses the batch to newest-first,
// and numbers it 1..n. Raw source is dropped after parsing.
func parseList(list []model.Message) []model.Message {
	out := make([]model.Message, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		msg := list[i]
		if !msg.Parsed() {
			parsed := parser.Parse(msg.Source)
			msg.SenderEmail = parsed.SenderEmail
			msg.RecipientEmail = parsed.RecipientEmail
			msg.From = parsed.From
			msg.To = parsed.To
			msg.Subject = parsed.Subject
			msg.Text = parsed.Text
			msg.Date = parsed.Date
			msg.Source = nil
		}
		msg.Index = len(out) + 1
		out = append(out, msg)
	}
	return out
}
