package main

import (
	"github.com/spf13/cobra"

	"github.com/codemarc/mailmind/display"
)

func newAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the configured accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.cleanup()
			}()

			display.New(env.opts.LogLevel).Accounts(env.accounts)
			env.logger.Debug("accounts listed", "count", len(env.accounts))
			return nil
		},
	}
}
