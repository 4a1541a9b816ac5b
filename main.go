package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/mailbox"
	"github.com/codemarc/mailmind/rules"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mailmind",
		Short:         "Rule-driven triage for IMAP mailboxes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := config.RegisterFlags(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register CLI flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(
		newRunCommand(),
		newCheckCommand(),
		newCleanCommand(),
		newLearnCommand(),
		newAccountsCommand(),
		newProtectCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *rules.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// environment is everything a subcommand needs before it can touch an
// account: parsed options, a configured logger, and the loaded accounts.
type environment struct {
	opts     *config.Options
	logger   *slog.Logger
	accounts []config.Account
	cleanup  func() error
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	opts, err := config.LoadOptions(cmd)
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := setupLogger(opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	accounts, err := config.LoadAccounts(opts.ConfigDir, opts.Key, logger)
	if err != nil {
		_ = cleanup()
		return nil, err
	}

	return &environment{opts: opts, logger: logger, accounts: accounts, cleanup: cleanup}, nil
}

// selectAccounts resolves the --account flag: a name or index picks one
// account, "all" picks every active account (every account with --all).
func (env *environment) selectAccounts() ([]config.Account, error) {
	if env.opts.Account != "all" {
		account, ok := config.FindAccount(env.accounts, env.opts.Account)
		if !ok {
			return nil, fmt.Errorf("unknown account: %s", env.opts.Account)
		}
		return []config.Account{account}, nil
	}

	var selected []config.Account
	for _, account := range env.accounts {
		if account.Active || env.opts.All {
			selected = append(selected, account)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no accounts configured under %s", env.opts.ConfigDir)
	}
	return selected, nil
}

// connect opens an IMAP session for the account.
func connect(account config.Account, logger *slog.Logger) (mailbox.Client, error) {
	session, err := mailbox.NewSession(mailbox.Options{
		Host:               account.Host,
		Port:               account.Port,
		Username:           account.User,
		Password:           account.Password,
		UseTLS:             account.UseTLS(),
		InsecureSkipVerify: account.Insecure,
	}, logger.With("account", account.Name))
	if err != nil {
		return nil, err
	}
	if err := session.Connect(); err != nil {
		return nil, err
	}
	return session, nil
}

func setupLogger(opts *config.Options) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	switch opts.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	cleanup := func() error { return nil }

	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return nil, cleanup, err
		}

		logFilePath := filepath.Join(opts.LogDir, fmt.Sprintf("mailmind-%s.log", time.Now().Format("20060102T150405")))
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, cleanup, err
		}

		handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, file), handlerOpts)
		cleanup = func() error {
			return file.Close()
		}
		return slog.New(handler), cleanup, nil
	}

	handler := slog.NewTextHandler(os.Stdout, handlerOpts)
	return slog.New(handler), cleanup, nil
}
