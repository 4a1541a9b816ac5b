package rules

import (
	"fmt"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/mailbox"
	"github.com/codemarc/mailmind/model"
)

// markTokens maps the user-facing mark tokens to a flag and whether the
// token adds or removes it.
var markTokens = map[string]struct {
	flag string
	add  bool
}{
	"read":   {mailbox.FlagSeen, true},
	"unread": {mailbox.FlagSeen, false},
	"star":   {mailbox.FlagFlagged, true},
	"flag":   {mailbox.FlagFlagged, true},
	"unstar": {mailbox.FlagFlagged, false},
	"unflag": {mailbox.FlagFlagged, false},
	"delete": {mailbox.FlagDeleted, true},
}

// runMark applies flag changes to every message in the list. An unknown
// token is a configuration error and aborts the ruleset; server failures
// fail open with the list unchanged.
func runMark(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if len(list) == 0 {
		return list, nil
	}

	var add, remove []string
	for _, token := range ref.Mark {
		op, ok := markTokens[token]
		if !ok {
			return list, fmt.Errorf("mark: unknown token %q", token)
		}
		if op.add {
			add = appendFlag(add, op.flag)
		} else {
			remove = appendFlag(remove, op.flag)
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		return list, nil
	}

	if err := markList(ctx, model.SeqNums(list), add, remove); err != nil {
		ctx.recordFailure("mark", err)
		return list, nil
	}
	ctx.Logger.Debug("rule:mark", "messages", len(list), "add", add, "remove", remove)
	return list, nil
}

func markList(ctx *Context, seqs []uint32, add, remove []string) error {
	src, err := ctx.Client.FolderPath(ctx.sourceFolder())
	if err != nil {
		return err
	}
	lock, err := ctx.Client.Lock(src)
	if err != nil {
		return err
	}
	defer lock.Release()

	if len(add) > 0 {
		if err := ctx.Client.FlagsAdd(seqs, add); err != nil {
			return err
		}
	}
	if len(remove) > 0 {
		if err := ctx.Client.FlagsRemove(seqs, remove); err != nil {
			return err
		}
	}
	return nil
}

// appendFlag appends flag unless it is already present. Duplicate tokens in
// a mark list collapse to one store operation.
func appendFlag(flags []string, flag string) []string {
	for _, f := range flags {
		if f == flag {
			return flags
		}
	}
	return append(flags, flag)
}
