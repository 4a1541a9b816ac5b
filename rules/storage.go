package rules

import (
	"errors"
	"strings"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
	"github.com/codemarc/mailmind/store"
)

// runSave persists the working list. A bare "save" writes the run's default
// artifact; a name parameter redirects the run (and later rules) to that
// name unless a folder is already bound; a path ending in .json or .mbox
// writes exactly there.
func runSave(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if len(list) == 0 {
		return list, nil
	}

	var err error
	switch {
	case strings.HasSuffix(ref.Save, ".json") || strings.HasSuffix(ref.Save, ".mbox"):
		err = ctx.Store.SaveFile(ref.Save, list)
	default:
		if ref.Save != "" && ctx.Options.Folder == "" {
			ctx.Options.Folder = ref.Save
		}
		err = ctx.Store.Save(ctx.Account.Name, ctx.artifactName(), list)
	}
	if err != nil {
		ctx.recordFailure("save", err)
	}
	return list, nil
}

// runLoad replaces the working list with a previously saved artifact. A
// missing artifact keeps the current list; a malformed one degrades to
// empty.
func runLoad(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if ref.Load != "" && ctx.Options.Folder == "" {
		ctx.Options.Folder = ref.Load
	}

	loaded, err := ctx.Store.Load(ctx.Account.Name, ctx.artifactName())
	if errors.Is(err, store.ErrMissingArtifact) {
		ctx.recordFailure("load", err)
		return list, nil
	}
	if err != nil {
		ctx.recordFailure("load", err)
		return []model.Message{}, nil
	}
	ctx.Logger.Debug("rule:load", "artifact", ctx.artifactName(), "messages", len(loaded))
	return loaded, nil
}

// runDrop removes the working list's messages from the saved artifact and
// rewrites it. The working list itself passes through unchanged.
func runDrop(ctx *Context, list []model.Message, ref config.RuleRef) ([]model.Message, error) {
	if len(list) == 0 {
		return list, nil
	}

	saved, err := ctx.Store.Load(ctx.Account.Name, ctx.artifactName())
	if err != nil {
		ctx.recordFailure("drop", err)
		return list, nil
	}

	kept := without(saved, list)
	if len(kept) == len(saved) {
		return list, nil
	}
	if err := ctx.Store.Save(ctx.Account.Name, ctx.artifactName(), kept); err != nil {
		ctx.recordFailure("drop", err)
		return list, nil
	}
	ctx.Logger.Debug("rule:drop", "artifact", ctx.artifactName(), "dropped", len(saved)-len(kept), "kept", len(kept))
	return list, nil
}
