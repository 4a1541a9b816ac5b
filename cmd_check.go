package main

import (
	"github.com/spf13/cobra"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/display"
	"github.com/codemarc/mailmind/mailbox"
)

// triageFolders is the folder tree the disposition mover files into, rooted
// under the inbox so every IMAP server can host it.
var triageFolders = []string{
	"INBOX/_mm/Delegate",
	"INBOX/_mm/Later",
	"INBOX/_mm/Now",
	"INBOX/_mm/Reply",
	"INBOX/_mm/Review",
	"INBOX/_mm/Schedule",
	"INBOX/_mm/Track",
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the triage folder tree, creating it for active accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.cleanup()
			}()
			return checkAccounts(env)
		},
	}
}

func checkAccounts(env *environment) error {
	accounts, err := env.selectAccounts()
	if err != nil {
		return err
	}
	printer := display.New(env.opts.LogLevel)

	for _, account := range accounts {
		if err := checkAccount(env, account, printer); err != nil {
			env.logger.Error("check failed", "account", account.Name, "err", err)
		}
	}
	return nil
}

func checkAccount(env *environment, account config.Account, printer *display.Printer) error {
	client, err := connect(account, env.logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Logout()
	}()

	statuses := make(map[string]mailbox.FolderStatus, len(triageFolders)+1)
	order := make([]string, 0, len(triageFolders)+1)

	for _, path := range append([]string{"INBOX"}, triageFolders...) {
		resolved, err := client.FolderPath(path)
		if err != nil {
			if !account.Active {
				env.logger.Warn("folder missing, account inactive, not creating",
					"account", account.Name, "folder", path)
				continue
			}
			if err := client.Create(path); err != nil {
				env.logger.Error("create folder", "account", account.Name, "folder", path, "err", err)
				continue
			}
			resolved = path
		}

		status, err := client.Status(resolved)
		if err != nil {
			env.logger.Error("folder status", "account", account.Name, "folder", resolved, "err", err)
			continue
		}
		statuses[resolved] = status
		order = append(order, resolved)
	}

	printer.Folders(statuses, order)
	printer.Success("%s: %d folders checked", account.Name, len(order))
	return nil
}
