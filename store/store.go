// Package store persists working message lists between pipeline runs as
// flat per-(account, ruleset) JSON artifacts, with an mbox export variant
// for raw sources.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	mboxlib "github.com/emersion/go-mbox"

	"github.com/codemarc/mailmind/model"
)

var (
	// ErrMissingArtifact marks a load of an artifact that was never saved.
	// Rules treat it as a local, non-fatal condition.
	ErrMissingArtifact = errors.New("saved message artifact not found")

	// ErrNoSource marks an mbox export of messages whose raw source is no
	// longer attached.
	ErrNoSource = errors.New("message carries no raw source")
)

// Store reads and writes message artifacts under one data directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New returns a store rooted at dir.
func New(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Path returns the artifact path for an (account, name) pair:
// {dir}/{account}.{name}.json.
func (s *Store) Path(account, name string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.%s.json", account, name))
}

// Save writes the list to the artifact for (account, name).
func (s *Store) Save(account, name string, list []model.Message) error {
	return s.SaveFile(s.Path(account, name), list)
}

// SaveFile writes the list to an explicit path. A path ending in .mbox gets
// the raw-source mbox format instead of JSON.
func (s *Store) SaveFile(path string, list []model.Message) error {
	if strings.HasSuffix(path, ".mbox") {
		return s.exportMbox(path, list)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode message list: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("saved message artifact", "file", path, "messages", len(list))
	return nil
}

// Load reads the artifact for (account, name). A missing file returns
// ErrMissingArtifact; a malformed one returns a decode error (callers
// degrade to an empty list).
func (s *Store) Load(account, name string) ([]model.Message, error) {
	return s.LoadFile(s.Path(account, name))
}

// LoadFile reads an explicit artifact path.
func (s *Store) LoadFile(path string) ([]model.Message, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var list []model.Message
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

// exportMbox writes the raw sources of the list as an mbox archive. Only
// freshly fetched, unparsed messages still carry their source.
func (s *Store) exportMbox(path string, list []model.Message) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := mboxlib.NewWriter(file)
	for _, msg := range list {
		if msg.Source == nil {
			return fmt.Errorf("%w: seq %d", ErrNoSource, msg.SeqNum)
		}
		mw, err := w.CreateMessage(msg.SenderEmail, msg.Date)
		if err != nil {
			return fmt.Errorf("mbox message: %w", err)
		}
		if _, err := mw.Write(msg.Source); err != nil {
			return fmt.Errorf("mbox write: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mbox close: %w", err)
	}
	s.logger.Debug("exported mbox artifact", "file", path, "messages", len(list))
	return nil
}
