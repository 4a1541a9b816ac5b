package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/codemarc/mailmind/classify"
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/rules"
	"github.com/codemarc/mailmind/store"
)

// learnSampleLimit widens the fetch window for discovery runs: the regular
// triage default is far too small a sample to name categories from.
const learnSampleLimit = 100

func newLearnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "learn",
		Short: "Grow the learned category tables from a sample of recent mail",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.cleanup()
			}()
			return learnAccounts(cmd.Context(), env)
		},
	}
}

func learnAccounts(ctx context.Context, env *environment) error {
	accounts, err := env.selectAccounts()
	if err != nil {
		return err
	}
	artifacts := store.New(env.opts.DataDir, env.logger)

	for _, account := range accounts {
		if err := learnAccount(ctx, env, account, artifacts); err != nil {
			env.logger.Error("learn failed", "account", account.Name, "err", err)
		}
	}
	return nil
}

func learnAccount(ctx context.Context, env *environment, account config.Account, artifacts *store.Store) error {
	client, err := connect(account, env.logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Logout()
	}()

	// Sample the working folder through the regular pipeline front half.
	ruleset := config.RuleSet{
		Set: "learn",
		Rule: []config.RuleRef{
			{Name: "select", Pick: config.StringList{"all"}},
			{Name: "parse"},
		},
	}
	runOpts := *env.opts
	if runOpts.Limit == config.DefaultLimit {
		runOpts.Limit = learnSampleLimit
	}

	static := classify.NewStatic(account.Sink, classify.DomainLists{})
	rctx := &rules.Context{
		Account:  account,
		Options:  &runOpts,
		Client:   client,
		RuleSet:  ruleset,
		Strategy: static,
		Static:   static,
		Store:    artifacts,
		Logger:   env.logger.With("account", account.Name, "ruleset", ruleset.Set),
	}
	result, err := rules.Run(rctx)
	if err != nil {
		return err
	}

	path := classify.CategoryFilePath(env.opts.DataDir, account.Name)
	table := classify.LoadCategoryTable(path, env.logger)

	suggester := classify.NewFrequencySuggester(result.Messages)
	changed, err := classify.UpdateCategories(ctx, suggester, table, result.Messages, env.logger)
	if err != nil {
		return err
	}
	if !changed {
		env.logger.Info("category table already complete",
			"account", account.Name, "categories", table.Len())
		return nil
	}

	if err := classify.SaveCategoryTable(path, table); err != nil {
		return err
	}
	env.logger.Info("category table updated",
		"account", account.Name, "categories", table.Len(), "sampled", len(result.Messages))
	return nil
}
