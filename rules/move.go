package rules

import (
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
)

// runMove moves messages out of the source folder and drops them from the
// working list. With an explicit destination the whole list moves there;
// without one each message moves to the folder its category is bound to,
// and messages with no binding stay put.
func runMove(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if len(list) == 0 {
		return list, nil
	}

	source := ref.Move.From
	if source == "" {
		source = ctx.sourceFolder()
	}
	srcPath, err := ctx.Client.FolderPath(source)
	if err != nil {
		ctx.recordFailure("move", err)
		return list, nil
	}
	lock, err := ctx.Client.Lock(srcPath)
	if err != nil {
		ctx.recordFailure("move", err)
		return list, nil
	}
	defer lock.Release()

	if ref.Move.To != "" {
		return moveBucket(ctx, list, list, ref.Move.To)
	}

	// Group by destination so each folder gets a single move.
	remaining := list
	buckets := map[string][]model.Message{}
	var order []string
	for _, msg := range list {
		dest := ctx.RuleSet.Folder(string(msg.Category))
		if dest == "" {
			continue
		}
		if _, seen := buckets[dest]; !seen {
			order = append(order, dest)
		}
		buckets[dest] = append(buckets[dest], msg)
	}
	for _, dest := range order {
		remaining, _ = moveBucket(ctx, remaining, buckets[dest], dest)
	}
	ctx.Logger.Debug("rule:move", "in", len(list), "remaining", len(remaining))
	return remaining, nil
}

// moveBucket moves the bucket's messages to dest and returns list without
// them. A failed move keeps the bucket in the list.
func moveBucket(ctx *Context, list, bucket []model.Message, dest string) ([]model.Message, error) {
	destPath, err := ctx.Client.FolderPath(dest)
	if err != nil {
		ctx.recordFailure("move", err)
		return list, nil
	}
	if err := ctx.Client.Move(model.SeqNums(bucket), destPath); err != nil {
		ctx.recordFailure("move", err)
		return list, nil
	}
	return without(list, bucket), nil
}

// without returns list minus the messages in moved, by sequence number.
func without(list, moved []model.Message) []model.Message {
	gone := make(map[uint32]bool, len(moved))
	for _, msg := range moved {
		gone[msg.SeqNum] = true
	}
	out := make([]model.Message, 0, len(list))
	for _, msg := range list {
		if !gone[msg.SeqNum] {
			out = append(out, msg)
		}
	}
	return out
}
