// Package ledger stands in for the account service: it holds the player's
// balance and a log of settled rounds in a local JSON file.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// DefaultKeep is how many rounds the file retains
const DefaultKeep = 100

// Document is the on-disk layout
type Document struct {
	Balance   rules.Amount `json:"balance"`
	UpdatedAt time.Time    `json:"updated_at"`
	Rounds    []Record     `json:"rounds"`
}

// FileStore is a file-backed account. It is safe for concurrent use.
type FileStore struct {
	path    string
	initial rules.Amount
	keep    int
	clock   quartz.Clock

	mu sync.Mutex
}

// NewFileStore opens the ledger at path. initial is the balance reported
// before any round has been recorded.
func NewFileStore(path string, initial rules.Amount, clock quartz.Clock) *FileStore {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &FileStore{path: path, initial: initial, keep: DefaultKeep, clock: clock}
}

// Path returns the ledger file location
func (s *FileStore) Path() string {
	return s.path
}

// Balance implements game.BalanceSource
func (s *FileStore) Balance(ctx context.Context) (rules.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return 0, err
	}
	return doc.Balance, nil
}

// RecordRound appends a settled round and stores its closing balance
func (s *FileStore) RecordRound(ctx context.Context, r game.RoundResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Rounds = append(doc.Rounds, NewRecord(r))
	if over := len(doc.Rounds) - s.keep; over > 0 {
		doc.Rounds = doc.Rounds[over:]
	}
	doc.Balance = r.Balance
	doc.UpdatedAt = s.clock.Now().UTC()
	return fileutil.WriteJSONAtomic(s.path, doc, 0o600)
}

// Rounds returns up to limit of the most recent rounds, oldest first. A
// limit of zero returns everything kept.
func (s *FileStore) Rounds(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(doc.Rounds) > limit {
		return doc.Rounds[len(doc.Rounds)-limit:], nil
	}
	return doc.Rounds, nil
}

func (s *FileStore) load() (Document, error) {
	var doc Document
	found, err := fileutil.ReadJSON(s.path, &doc)
	if err != nil {
		return Document{}, fmt.Errorf("failed to load ledger: %w", err)
	}
	if !found {
		return Document{Balance: s.initial}, nil
	}
	return doc, nil
}
