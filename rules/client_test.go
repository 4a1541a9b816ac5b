package rules

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/codemarc/mailmind/classify"
	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/mailbox"
	"github.com/codemarc/mailmind/store"
)

// fakeClient is an in-memory mailbox.Client for handler tests. Folder paths
// are taken at face value; moves and flag changes are recorded per call.
type fakeClient struct {
	folders  []mailbox.Folder
	searched []uint32
	fetched  []mailbox.RawMessage

	moves      map[string][]uint32
	moveOrder  []string
	failMoveTo map[string]bool
	flagsAdded map[string][]uint32
	flagsCut   map[string][]uint32
	deleted    []uint32
	created    []string
	locked     []string
}

func newFakeClient(folders ...string) *fakeClient {
	f := &fakeClient{
		moves:      make(map[string][]uint32),
		failMoveTo: make(map[string]bool),
		flagsAdded: make(map[string][]uint32),
		flagsCut:   make(map[string][]uint32),
	}
	for _, path := range append([]string{"INBOX"}, folders...) {
		f.folders = append(f.folders, mailbox.Folder{Name: path, Path: path})
	}
	return f
}

func (f *fakeClient) Connect() error                  { return nil }
func (f *fakeClient) List() ([]mailbox.Folder, error) { return f.folders, nil }
func (f *fakeClient) Logout() error                   { return nil }
func (f *fakeClient) Create(path string) error {
	f.created = append(f.created, path)
	return nil
}

func (f *fakeClient) FolderPath(name string) (string, error) {
	if path, ok := mailbox.ResolvePath(f.folders, name); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", mailbox.ErrFolderNotFound, name)
}

type fakeLock struct{}

func (fakeLock) Release() {}

func (f *fakeClient) Lock(path string) (mailbox.Lock, error) {
	f.locked = append(f.locked, path)
	return fakeLock{}, nil
}

func (f *fakeClient) Search(criteria mailbox.SearchCriteria) ([]uint32, error) {
	return f.searched, nil
}

func (f *fakeClient) Fetch(seqs []uint32, withSource bool) ([]mailbox.RawMessage, error) {
	out := make([]mailbox.RawMessage, 0, len(seqs))
	for _, seq := range seqs {
		for _, raw := range f.fetched {
			if raw.SeqNum == seq {
				out = append(out, raw)
			}
		}
	}
	return out, nil
}

func (f *fakeClient) Move(seqs []uint32, destPath string) error {
	if f.failMoveTo[destPath] {
		return fmt.Errorf("move to %s rejected", destPath)
	}
	f.moves[destPath] = append(f.moves[destPath], seqs...)
	f.moveOrder = append(f.moveOrder, destPath)
	return nil
}

func (f *fakeClient) FlagsAdd(seqs []uint32, flags []string) error {
	for _, flag := range flags {
		f.flagsAdded[flag] = append(f.flagsAdded[flag], seqs...)
	}
	return nil
}

func (f *fakeClient) FlagsRemove(seqs []uint32, flags []string) error {
	for _, flag := range flags {
		f.flagsCut[flag] = append(f.flagsCut[flag], seqs...)
	}
	return nil
}

func (f *fakeClient) Delete(seqs []uint32) error {
	f.deleted = append(f.deleted, seqs...)
	return nil
}

func (f *fakeClient) Status(path string) (mailbox.FolderStatus, error) {
	return mailbox.FolderStatus{}, nil
}

// newTestContext wires a Context around the fake client with throwaway
// options and an artifact store under t.TempDir().
func newTestContext(t *testing.T, client mailbox.Client, ruleset config.RuleSet) *Context {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	static := classify.NewStatic("", classify.DomainLists{})
	return &Context{
		Account:  config.Account{Name: "test", Domain: "corp.example"},
		Options:  &config.Options{Limit: config.DefaultLimit, DataDir: t.TempDir()},
		Client:   client,
		RuleSet:  ruleset,
		Strategy: static,
		Static:   static,
		Store:    store.New(t.TempDir(), logger),
		Logger:   logger,
	}
}
