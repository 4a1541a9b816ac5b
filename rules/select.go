package rules

import (
	"strconv"
	"time"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/mailbox"
	"github.com/codemarc/mailmind/model"
)

// runSelect ignores the incoming list and fetches a fresh batch of raw
// messages from the working folder. A collaborator failure keeps the
// previous list.
func runSelect(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	pick := ref.Pick
	if len(pick) == 0 {
		pick = config.StringList{"unread"}
	}
	ctx.Logger.Debug("rule:select", "pick", []string(pick))

	unread := contains(pick, "unread")
	tagged := contains(pick, "tagged")
	if contains(pick, "all") {
		unread, tagged = false, false
	}

	fetched, err := fetchWindow(ctx, unread, tagged)
	if err != nil {
		ctx.recordFailure("select", err)
		return list, nil
	}
	return fetched, nil
}

// fetchWindow locks the working folder, searches it, and fetches the most
// recent window of matches with their raw source.
func fetchWindow(ctx *Context, unread, tagged bool) ([]model.Message, error) {
	src, err := ctx.Client.FolderPath(ctx.sourceFolder())
	if err != nil {
		return nil, err
	}

	lock, err := ctx.Client.Lock(src)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	criteria := mailbox.SearchCriteria{
		Unread:  unread || ctx.Options.Unread,
		Flagged: tagged || ctx.Options.Tagged,
	}
	applyDate(&criteria, ctx.Options.Date)

	seqs, err := ctx.Client.Search(criteria)
	if err != nil {
		return nil, err
	}

	window := tailWindow(seqs, ctx.Options.Limit, ctx.Options.Skip)
	raw, err := ctx.Client.Fetch(window, true)
	if err != nil {
		return nil, err
	}

	list := make([]model.Message, 0, len(raw))
	for _, r := range raw {
		list = append(list, model.Message{SeqNum: r.SeqNum, Source: r.Source})
	}
	ctx.Logger.Debug("fetched messages", "folder", src, "matched", len(seqs), "fetched", len(list))
	return list, nil
}

// tailWindow picks the last limit matches, skipping the skip most recent.
func tailWindow(seqs []uint32, limit, skip int) []uint32 {
	if limit <= 0 {
		limit = config.DefaultLimit
	}
	if skip < 0 {
		skip = 0
	}
	end := len(seqs) - skip
	if end <= 0 {
		return nil
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	return seqs[start:end]
}

func applyDate(criteria *mailbox.SearchCriteria, date string) {
	switch date {
	case "":
	case "today":
		criteria.On = time.Now()
	case "yesterday":
		criteria.On = time.Now().AddDate(0, 0, -1)
	default:
		if n, err := strconv.Atoi(date); err == nil && n < 0 {
			criteria.Since = time.Now().AddDate(0, 0, n)
		}
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
