package mailbox

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	imapv2 "github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Options configures an IMAP session.
type Options struct {
	Host               string
	Port               int
	Username           string
	Password           string
	UseTLS             bool
	InsecureSkipVerify bool
}

// Session is the go-imap implementation of Client. It is not safe for
// concurrent use; the single-threaded pipeline executor is what guarantees
// two runs never hold overlapping folder locks.
type Session struct {
	opts   Options
	logger *slog.Logger
	cli    *imapclient.Client

	mu      sync.Mutex
	locks   map[string]*sync.Mutex
	folders []Folder
}

// NewSession builds an unconnected session.
func NewSession(opts Options, logger *slog.Logger) (*Session, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("imap host is empty")
	}
	if opts.Port <= 0 {
		return nil, fmt.Errorf("imap port must be positive")
	}
	return &Session{
		opts:   opts,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// Connect dials the server and logs in.
func (s *Session) Connect() error {
	address := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	options := &imapclient.Options{}

	var (
		client *imapclient.Client
		err    error
	)
	if s.opts.UseTLS {
		options.TLSConfig = &tls.Config{
			ServerName:         s.opts.Host,
			InsecureSkipVerify: s.opts.InsecureSkipVerify,
		}
		client, err = imapclient.DialTLS(address, options)
	} else {
		client, err = imapclient.DialInsecure(address, options)
	}
	if err != nil {
		return fmt.Errorf("dial imap %s: %w", address, err)
	}

	if err := client.Login(s.opts.Username, s.opts.Password).Wait(); err != nil {
		_ = client.Close()
		return fmt.Errorf("imap login failed: %w", err)
	}

	s.cli = client
	s.logger.Debug("imap connection established",
		"address", address, "user", s.opts.Username, "tls", s.opts.UseTLS)
	return nil
}

// List returns all folders on the server.
func (s *Session) List() ([]Folder, error) {
	items, err := s.cli.List("", "*", nil).Collect()
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	folders := make([]Folder, 0, len(items))
	for _, item := range items {
		name := item.Mailbox
		if item.Delim != 0 {
			if idx := strings.LastIndex(name, string(item.Delim)); idx >= 0 {
				name = name[idx+1:]
			}
		}
		folders = append(folders, Folder{Name: name, Path: item.Mailbox})
	}

	s.mu.Lock()
	s.folders = folders
	s.mu.Unlock()
	return folders, nil
}

// FolderPath resolves a folder name against the cached folder list,
// refreshing the cache once on a miss.
func (s *Session) FolderPath(name string) (string, error) {
	s.mu.Lock()
	cached := s.folders
	s.mu.Unlock()

	if cached == nil {
		var err error
		if cached, err = s.List(); err != nil {
			return "", err
		}
	}
	if path, ok := ResolvePath(cached, name); ok {
		return path, nil
	}

	refreshed, err := s.List()
	if err != nil {
		return "", err
	}
	if path, ok := ResolvePath(refreshed, name); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrFolderNotFound, name)
}

type sessionLock struct {
	release func()
}

func (l *sessionLock) Release() { l.release() }

// Lock takes the per-folder mutex and selects the folder, making subsequent
// search/fetch/move/flag calls operate on it exclusively.
func (s *Session) Lock(path string) (Lock, error) {
	s.mu.Lock()
	mu, ok := s.locks[path]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[path] = mu
	}
	s.mu.Unlock()

	mu.Lock()
	if _, err := s.cli.Select(path, nil).Wait(); err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("select %s: %w", path, err)
	}
	s.logger.Debug("mailbox locked", "folder", path)

	var once sync.Once
	return &sessionLock{release: func() {
		once.Do(func() {
			mu.Unlock()
			s.logger.Debug("mailbox unlocked", "folder", path)
		})
	}}, nil
}

// Search returns the sequence numbers matching criteria in the currently
// locked folder.
func (s *Session) Search(criteria SearchCriteria) ([]uint32, error) {
	sc := &imapv2.SearchCriteria{}
	if criteria.Unread {
		sc.NotFlag = append(sc.NotFlag, imapv2.FlagSeen)
	}
	if criteria.Flagged {
		sc.Flag = append(sc.Flag, imapv2.FlagFlagged)
	}
	if !criteria.On.IsZero() {
		day := time.Date(criteria.On.Year(), criteria.On.Month(), criteria.On.Day(), 0, 0, 0, 0, criteria.On.Location())
		sc.Since = day
		sc.Before = day.AddDate(0, 0, 1)
	} else if !criteria.Since.IsZero() {
		sc.Since = criteria.Since
	}

	data, err := s.cli.Search(sc, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return data.AllSeqNums(), nil
}

// Fetch retrieves the given messages from the currently locked folder.
func (s *Session) Fetch(seqs []uint32, withSource bool) ([]RawMessage, error) {
	if len(seqs) == 0 {
		return nil, nil
	}

	options := &imapv2.FetchOptions{Envelope: true}
	var section *imapv2.FetchItemBodySection
	if withSource {
		section = &imapv2.FetchItemBodySection{}
		options.BodySection = []*imapv2.FetchItemBodySection{section}
	}

	bufs, err := s.cli.Fetch(imapv2.SeqSetNum(seqs...), options).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	out := make([]RawMessage, 0, len(bufs))
	for _, buf := range bufs {
		raw := RawMessage{SeqNum: buf.SeqNum}
		if section != nil {
			raw.Source = buf.FindBodySection(section)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Move relocates the given messages into destPath.
func (s *Session) Move(seqs []uint32, destPath string) error {
	if len(seqs) == 0 {
		return nil
	}
	if _, err := s.cli.Move(imapv2.SeqSetNum(seqs...), destPath).Wait(); err != nil {
		return fmt.Errorf("move to %s: %w", destPath, err)
	}
	return nil
}

// FlagsAdd adds flags to the given messages.
func (s *Session) FlagsAdd(seqs []uint32, flags []string) error {
	return s.store(seqs, flags, imapv2.StoreFlagsAdd)
}

// FlagsRemove removes flags from the given messages.
func (s *Session) FlagsRemove(seqs []uint32, flags []string) error {
	return s.store(seqs, flags, imapv2.StoreFlagsDel)
}

func (s *Session) store(seqs []uint32, flags []string, op imapv2.StoreFlagsOp) error {
	if len(seqs) == 0 || len(flags) == 0 {
		return nil
	}
	imapFlags := make([]imapv2.Flag, 0, len(flags))
	for _, flag := range flags {
		imapFlags = append(imapFlags, imapv2.Flag(flag))
	}
	store := &imapv2.StoreFlags{Op: op, Silent: true, Flags: imapFlags}
	if err := s.cli.Store(imapv2.SeqSetNum(seqs...), store, nil).Close(); err != nil {
		return fmt.Errorf("store flags: %w", err)
	}
	return nil
}

// Delete flags the given messages deleted and expunges the folder.
func (s *Session) Delete(seqs []uint32) error {
	if len(seqs) == 0 {
		return nil
	}
	if err := s.FlagsAdd(seqs, []string{FlagDeleted}); err != nil {
		return err
	}
	if err := s.cli.Expunge().Close(); err != nil {
		return fmt.Errorf("expunge: %w", err)
	}
	return nil
}

// Status returns message counters for a folder.
func (s *Session) Status(path string) (FolderStatus, error) {
	data, err := s.cli.Status(path, &imapv2.StatusOptions{
		NumMessages: true,
		NumUnseen:   true,
	}).Wait()
	if err != nil {
		return FolderStatus{}, fmt.Errorf("status %s: %w", path, err)
	}

	var status FolderStatus
	if data.NumMessages != nil {
		status.Messages = *data.NumMessages
	}
	if data.NumUnseen != nil {
		status.Unseen = *data.NumUnseen
	}
	return status, nil
}

// Create makes a folder, tolerating one that already exists.
func (s *Session) Create(path string) error {
	if err := s.cli.Create(path, nil).Wait(); err != nil {
		var respErr *imapv2.Error
		if errors.As(err, &respErr) && respErr.Code == imapv2.ResponseCodeAlreadyExists {
			s.logger.Debug("imap mailbox already exists", "mailbox", path)
			return nil
		}
		return fmt.Errorf("create mailbox %s: %w", path, err)
	}

	s.mu.Lock()
	s.folders = nil // path cache is stale now
	s.mu.Unlock()
	s.logger.Info("imap mailbox created", "mailbox", path)
	return nil
}

// Logout ends the session.
func (s *Session) Logout() error {
	if s.cli == nil {
		return nil
	}
	if err := s.cli.Logout().Wait(); err != nil {
		s.logger.Warn("imap logout failed", "err", err)
	}
	if err := s.cli.Close(); err != nil {
		s.logger.Debug("imap connection closed", "err", err)
	}
	s.cli = nil
	return nil
}
