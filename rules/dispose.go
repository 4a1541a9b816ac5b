package rules

import (
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
)

// disposeOrder routes each disposition to a logical folder binding, in the
// fixed order the buckets are processed. Delegated messages are deliberately
// absent: they stay where they are for a human to hand off.
var disposeOrder = []struct {
	disposition model.Disposition
	binding     string
	fallback    string
}{
	{model.DispositionDelete, "trash", "Trash"},
	{model.DispositionTrack, "track", "INBOX/_mm/Track"},
	{model.DispositionFile, "review", "INBOX/_mm/Review"},
	{model.DispositionSchedule, "schedule", "INBOX/_mm/Schedule"},
	{model.DispositionReplyNeeded, "now", "INBOX/_mm/Now"},
	{model.DispositionReadLater, "later", "INBOX/_mm/Later"},
}

// runDispose routes every classified message to the folder bound to its
// disposition, bucket by bucket in fixed order under a single source-folder
// lock. A failed bucket stays in the returned list; delegated and unmoved
// messages also remain.
func runDispose(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if len(list) == 0 {
		return list, nil
	}

	srcPath, err := ctx.Client.FolderPath(ctx.sourceFolder())
	if err != nil {
		ctx.recordFailure("dispose", err)
		return list, nil
	}
	lock, err := ctx.Client.Lock(srcPath)
	if err != nil {
		ctx.recordFailure("dispose", err)
		return list, nil
	}
	defer lock.Release()

	remaining := list
	for _, route := range disposeOrder {
		var bucket []model.Message
		for _, msg := range remaining {
			if msg.Disposition == route.disposition {
				bucket = append(bucket, msg)
			}
		}
		if len(bucket) == 0 {
			continue
		}

		dest := ctx.RuleSet.Folder(route.binding)
		if dest == "" {
			dest = route.fallback
		}
		remaining, _ = moveBucket(ctx, remaining, bucket, dest)
		ctx.Logger.Debug("rule:dispose",
			"disposition", string(route.disposition), "folder", dest, "messages", len(bucket))
	}
	return remaining, nil
}
