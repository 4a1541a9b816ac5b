package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codemarc/mailmind/crypt"
)

// Account is one mail account, loaded from a YAML file in the config
// directory. The file basename is the account name.
type Account struct {
	Name     string    `yaml:"-"`
	Index    int       `yaml:"index"`
	Active   bool      `yaml:"active"`
	Host     string    `yaml:"host"`
	Port     int       `yaml:"port"`
	User     string    `yaml:"user"`
	Password string    `yaml:"password"`
	TLS      *bool     `yaml:"tls,omitempty"`
	Insecure bool      `yaml:"insecure,omitempty"`
	Domain   string    `yaml:"domain"`
	Sink     string    `yaml:"sink,omitempty"`
	Rules    []RuleSet `yaml:"rules,omitempty"`
}

// UseTLS reports whether the IMAP connection should use TLS. Unset means yes.
func (a Account) UseTLS() bool {
	return a.TLS == nil || *a.TLS
}

// RuleSetByName returns the account ruleset with the given set name.
func (a Account) RuleSetByName(name string) (RuleSet, bool) {
	for _, rs := range a.Rules {
		if rs.Set == name {
			return rs, true
		}
	}
	return RuleSet{}, false
}

// LoadAccounts reads every *.yml / *.yaml file in dir. A malformed file is
// logged and skipped rather than failing the whole load. Encrypted passwords
// are decrypted with key when one is provided.
func LoadAccounts(dir, key string, logger *slog.Logger) ([]Account, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config directory: %w", err)
	}

	var accounts []Account
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		account, err := loadAccountFile(path, key)
		if err != nil {
			logger.Error("skipping account config", "file", path, "err", err)
			continue
		}
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Index < accounts[j].Index
	})
	return accounts, nil
}

func loadAccountFile(path, key string) (Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Account{}, fmt.Errorf("read account file: %w", err)
	}

	var account Account
	if err := yaml.Unmarshal(data, &account); err != nil {
		return Account{}, fmt.Errorf("parse account file: %w", err)
	}
	account.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if crypt.IsEncrypted(account.Password) {
		if key == "" {
			return Account{}, crypt.ErrNoKey
		}
		plain, err := crypt.Decrypt(account.Password, key)
		if err != nil {
			return Account{}, fmt.Errorf("decrypt password: %w", err)
		}
		account.Password = plain
	}

	if account.Host == "" {
		return Account{}, fmt.Errorf("account %s has no host", account.Name)
	}
	if account.Port == 0 {
		account.Port = 993
	}
	return account, nil
}

// SaveAccount rewrites the account's YAML file in place. Used by the protect
// command after encrypting or decrypting the password.
func SaveAccount(dir string, account Account) error {
	data, err := yaml.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	path := filepath.Join(dir, account.Name+".yml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write account file: %w", err)
	}
	return nil
}

// FindAccount resolves an account by name or by index-as-string, the way
// accounts are addressed on the command line.
func FindAccount(accounts []Account, alias string) (Account, bool) {
	if alias == "" {
		return Account{}, false
	}
	for _, account := range accounts {
		if account.Name == alias {
			return account, true
		}
	}
	index, err := strconv.Atoi(alias)
	if err != nil {
		return Account{}, false
	}
	for _, account := range accounts {
		if account.Index == index {
			return account, true
		}
	}
	return Account{}, false
}
