package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/mailbox"
)

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Mark the archive read and empty Trash, Spam, and Drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.cleanup()
			}()
			return cleanAccounts(env)
		},
	}
}

func cleanAccounts(env *environment) error {
	accounts, err := env.selectAccounts()
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if err := cleanAccount(env, account); err != nil {
			env.logger.Error("clean failed", "account", account.Name, "err", err)
		}
	}
	return nil
}

func cleanAccount(env *environment, account config.Account) error {
	client, err := connect(account, env.logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Logout()
	}()

	logger := env.logger.With("account", account.Name)

	if n, err := markFolderRead(client, "Archive"); err != nil {
		logger.Warn("archive not cleaned", "err", err)
	} else {
		logger.Info("archive marked read", "messages", n)
	}

	for _, folder := range []string{"Trash", "Spam", "Drafts"} {
		n, err := emptyFolder(client, folder)
		if errors.Is(err, mailbox.ErrFolderNotFound) {
			logger.Debug("folder absent, skipping", "folder", folder)
			continue
		}
		if err != nil {
			logger.Warn("folder not emptied", "folder", folder, "err", err)
			continue
		}
		logger.Info("folder emptied", "folder", folder, "messages", n)
	}
	return nil
}

// markFolderRead flags every unread message in the folder seen.
func markFolderRead(client mailbox.Client, folder string) (int, error) {
	path, err := client.FolderPath(folder)
	if err != nil {
		return 0, err
	}
	lock, err := client.Lock(path)
	if err != nil {
		return 0, err
	}
	defer lock.Release()

	seqs, err := client.Search(mailbox.SearchCriteria{Unread: true})
	if err != nil {
		return 0, err
	}
	if len(seqs) == 0 {
		return 0, nil
	}
	if err := client.FlagsAdd(seqs, []string{mailbox.FlagSeen}); err != nil {
		return 0, err
	}
	return len(seqs), nil
}

// emptyFolder expunges every message in the folder.
func emptyFolder(client mailbox.Client, folder string) (int, error) {
	path, err := client.FolderPath(folder)
	if err != nil {
		return 0, err
	}
	lock, err := client.Lock(path)
	if err != nil {
		return 0, err
	}
	defer lock.Release()

	seqs, err := client.Search(mailbox.SearchCriteria{})
	if err != nil {
		return 0, err
	}
	if len(seqs) == 0 {
		return 0, nil
	}
	if err := client.Delete(seqs); err != nil {
		return 0, err
	}
	return len(seqs), nil
}
