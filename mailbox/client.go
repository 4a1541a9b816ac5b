// Package mailbox is the wire-level mail collaborator: the Client interface
// the rule pipeline consumes, and its go-imap implementation.
package mailbox

import (
	"errors"
	"time"
)

// Flag names as they appear on the wire. The mark rule maps its user-facing
// tokens onto these.
const (
	FlagSeen    = `\Seen`
	FlagFlagged = `\Flagged`
	FlagDeleted = `\Deleted`
)

var ErrFolderNotFound = errors.New("folder not found")

// Folder is one mailbox folder as reported by the server.
type Folder struct {
	Name string
	Path string
}

// FolderStatus is a folder's message counters.
type FolderStatus struct {
	Messages uint32
	Unseen   uint32
}

// SearchCriteria narrows a folder search. Zero value means all messages.
type SearchCriteria struct {
	Unread  bool
	Flagged bool
	On      time.Time
	Since   time.Time
}

// Lock is a scoped exclusive-access token for one folder. Release must be
// called on every exit path.
type Lock interface {
	Release()
}

// Client is the mail collaborator contract. All methods that touch the
// server may block on network I/O; the caller imposes timeouts.
//
// Search, Fetch and flag/move operations address messages by sequence
// number and operate against the most recently locked folder.
type Client interface {
	Connect() error
	List() ([]Folder, error)

	// FolderPath resolves a folder by name or path, special-casing the
	// inbox root and the Gmail all-mail archive alias. Returns
	// ErrFolderNotFound when the server has no such folder.
	FolderPath(name string) (string, error)

	// Lock selects folder (by resolved path) and takes exclusive access to
	// it for the duration of the returned token.
	Lock(path string) (Lock, error)

	Search(criteria SearchCriteria) ([]uint32, error)

	// Fetch retrieves the given messages. When withSource is set each
	// result carries the raw message source for parsing.
	Fetch(seqs []uint32, withSource bool) ([]RawMessage, error)

	Move(seqs []uint32, destPath string) error
	FlagsAdd(seqs []uint32, flags []string) error
	FlagsRemove(seqs []uint32, flags []string) error

	// Delete marks the given messages deleted and expunges them.
	Delete(seqs []uint32) error

	Status(path string) (FolderStatus, error)
	Create(path string) error
	Logout() error
}

// RawMessage is one fetched mailbox entry before parsing.
type RawMessage struct {
	SeqNum uint32
	Source []byte
}
