package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codemarc/mailmind/classify"
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/display"
	"github.com/codemarc/mailmind/rules"
	"github.com/codemarc/mailmind/store"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run rulesets against the selected accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.cleanup()
			}()
			return runRulesets(env)
		},
	}
}

func runRulesets(env *environment) error {
	accounts, err := env.selectAccounts()
	if err != nil {
		return err
	}

	domains, err := classify.LoadDomainLists(filepath.Join(env.opts.ConfigDir, "domains.yml"))
	if err != nil {
		return err
	}

	printer := display.New(env.opts.LogLevel)
	artifacts := store.New(env.opts.DataDir, env.logger)

	for _, account := range accounts {
		if err := runAccount(env, account, domains, artifacts, printer); err != nil {
			var exitErr *rules.ExitError
			if errors.As(err, &exitErr) {
				return err
			}
			env.logger.Error("account run failed", "account", account.Name, "err", err)
		}
	}
	return nil
}

func runAccount(env *environment, account config.Account, domains classify.DomainLists, artifacts *store.Store, printer *display.Printer) error {
	rulesets, err := pickRulesets(account, env.opts.RuleSet)
	if err != nil {
		return err
	}

	client, err := connect(account, env.logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Logout()
	}()

	static := classify.NewStatic(account.Sink, domains)

	for _, ruleset := range rulesets {
		var strategy classify.Strategy = static
		if ruleset.Strategy == "learned" {
			path := classify.CategoryFilePath(env.opts.DataDir, account.Name)
			strategy = classify.NewLearned(classify.LoadCategoryTable(path, env.logger))
		}

		// Each run gets its own options copy: the save/load rules may
		// redirect Folder mid-pipeline.
		runOpts := *env.opts

		ctx := &rules.Context{
			Account:  account,
			Options:  &runOpts,
			Client:   client,
			RuleSet:  ruleset,
			Strategy: strategy,
			Static:   static,
			Store:    artifacts,
			Logger:   env.logger.With("account", account.Name, "ruleset", ruleset.Set),
		}

		result, err := rules.Run(ctx)
		printer.Report(account.Name, ruleset.Set, result)
		printer.Messages(result.Messages)

		if err != nil {
			var exitErr *rules.ExitError
			if errors.As(err, &exitErr) {
				return err
			}
			env.logger.Error("ruleset aborted", "account", account.Name, "ruleset", ruleset.Set, "err", err)
			continue
		}
		env.logger.Info("ruleset completed",
			"account", account.Name, "ruleset", ruleset.Set,
			"messages", len(result.Messages), "failures", len(result.Failures))
	}
	return nil
}

// pickRulesets resolves the --ruleset flag against the account: a name picks
// that ruleset regardless of its active flag, "" or "all" picks every active
// one.
func pickRulesets(account config.Account, name string) ([]config.RuleSet, error) {
	if name != "" && name != "all" {
		ruleset, ok := account.RuleSetByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s (account %s)", config.ErrRulesetNotFound, name, account.Name)
		}
		return []config.RuleSet{ruleset}, nil
	}

	var active []config.RuleSet
	for _, ruleset := range account.Rules {
		if ruleset.Active {
			active = append(active, ruleset)
		}
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("account %s has no active rulesets", account.Name)
	}
	return active, nil
}
