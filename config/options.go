package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// KeyEnvVar is the environment variable consulted for the credential
// passphrase when --key is not given.
const KeyEnvVar = "MAILMIND_KEY"

// DefaultLimit bounds how many messages a select rule fetches when no
// explicit limit is configured.
const DefaultLimit = 12

// Options captures the runtime options shared by all commands. One Options
// value is constructed per run and passed explicitly; the only field rules
// may mutate mid-pipeline is Folder.
type Options struct {
	Account   string
	RuleSet   string
	Folder    string
	Limit     int
	Skip      int
	Unread    bool
	Tagged    bool
	Date      string
	All       bool
	ConfigDir string
	DataDir   string
	LogLevel  string
	LogDir    string
	Key       string
}

// RegisterFlags attaches the shared CLI flags to the root command.
func RegisterFlags(cmd *cobra.Command) error {
	defaultConfigDir, defaultDataDir, err := defaultDirs()
	if err != nil {
		return err
	}

	flags := cmd.PersistentFlags()
	flags.String("account", "all", "Account name or index, or 'all'")
	flags.String("ruleset", "", "Ruleset name to run, or 'all' for every active ruleset")
	flags.String("folder", "", "Source folder override (defaults to INBOX)")
	flags.Int("limit", DefaultLimit, "Maximum number of messages a select rule fetches")
	flags.Int("skip", 0, "Number of most recent messages a select rule skips")
	flags.Bool("unread", false, "Restrict select rules to unread messages")
	flags.Bool("tagged", false, "Restrict select rules to flagged messages")
	flags.String("date", "", "Date filter: today, yesterday, or -N for the last N days")
	flags.Bool("all", false, "Include inactive accounts")
	flags.String("config-dir", defaultConfigDir, "Directory holding per-account YAML files")
	flags.String("data-dir", defaultDataDir, "Directory for saved message and category artifacts")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error")
	flags.String("log-dir", "", "Directory for log files (stdout only when empty)")
	flags.String("key", "", "Credential passphrase (falls back to "+KeyEnvVar+" env var)")

	return nil
}

// LoadOptions converts the parsed Cobra flags into an Options value with
// validation.
func LoadOptions(cmd *cobra.Command) (*Options, error) {
	flags := cmd.Flags()

	account, err := flags.GetString("account")
	if err != nil {
		return nil, err
	}
	ruleset, err := flags.GetString("ruleset")
	if err != nil {
		return nil, err
	}
	folder, err := flags.GetString("folder")
	if err != nil {
		return nil, err
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return nil, err
	}
	skip, err := flags.GetInt("skip")
	if err != nil {
		return nil, err
	}
	unread, err := flags.GetBool("unread")
	if err != nil {
		return nil, err
	}
	tagged, err := flags.GetBool("tagged")
	if err != nil {
		return nil, err
	}
	date, err := flags.GetString("date")
	if err != nil {
		return nil, err
	}
	all, err := flags.GetBool("all")
	if err != nil {
		return nil, err
	}
	configDir, err := flags.GetString("config-dir")
	if err != nil {
		return nil, err
	}
	dataDir, err := flags.GetString("data-dir")
	if err != nil {
		return nil, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}
	logDir, err := flags.GetString("log-dir")
	if err != nil {
		return nil, err
	}
	key, err := flags.GetString("key")
	if err != nil {
		return nil, err
	}

	if key == "" {
		key = os.Getenv(KeyEnvVar)
	}

	logLevel = strings.ToLower(logLevel)
	if logLevel == "warning" {
		logLevel = "warn"
	}

	opts := &Options{
		Account:   account,
		RuleSet:   ruleset,
		Folder:    folder,
		Limit:     limit,
		Skip:      skip,
		Unread:    unread,
		Tagged:    tagged,
		Date:      date,
		All:       all,
		ConfigDir: filepath.Clean(configDir),
		DataDir:   filepath.Clean(dataDir),
		LogLevel:  logLevel,
		LogDir:    logDir,
		Key:       key,
	}

	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	return opts, nil
}

func validateOptions(opts *Options) error {
	if opts.Limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}
	if opts.Skip < 0 {
		return fmt.Errorf("--skip must not be negative")
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", opts.LogLevel)
	}

	switch opts.Date {
	case "", "today", "yesterday":
	default:
		if !strings.HasPrefix(opts.Date, "-") {
			return fmt.Errorf("invalid --date: %s", opts.Date)
		}
	}

	return nil
}

func defaultDirs() (configDir, dataDir string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", err
	}
	base := filepath.Join(home, ".mailmind")
	return filepath.Join(base, "config"), filepath.Join(base, "data"), nil
}
