package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/crypt"
)

func newProtectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protect",
		Short: "Encrypt account passwords at rest (or decrypt with --decrypt)",
		RunE: func(cmd *cobra.Command, args []string) error {
			decrypt, err := cmd.Flags().GetBool("decrypt")
			if err != nil {
				return err
			}

			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.cleanup()
			}()
			return protectAccounts(env, decrypt)
		},
	}
	cmd.Flags().Bool("decrypt", false, "Rewrite passwords as plaintext instead of encrypting")
	return cmd
}

// protectAccounts rewrites the selected account files with their password
// encrypted (or, with decrypt, in plaintext). Loading already decrypted the
// in-memory copies, so encrypting is idempotent.
func protectAccounts(env *environment, decrypt bool) error {
	if env.opts.Key == "" {
		return fmt.Errorf("protect requires --key or %s", config.KeyEnvVar)
	}

	accounts, err := env.selectAccounts()
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if !decrypt {
			encrypted, err := crypt.Encrypt(account.Password, env.opts.Key)
			if err != nil {
				env.logger.Error("encrypt password", "account", account.Name, "err", err)
				continue
			}
			account.Password = encrypted
		}

		if err := config.SaveAccount(env.opts.ConfigDir, account); err != nil {
			env.logger.Error("rewrite account file", "account", account.Name, "err", err)
			continue
		}
		env.logger.Info("account rewritten", "account", account.Name, "encrypted", !decrypt)
	}
	return nil
}
