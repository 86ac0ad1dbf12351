package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/congo-pay/cardbank/internal/card"
)

const snapshotVersion = 1

type snapshotMeta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

type snapshot struct {
	Meta   snapshotMeta `json:"_meta"`
	NextID int64        `json:"next_id"`
	Card   []Account    `json:"card"`
}

// OpenFile returns a store persisted to a single local JSON file. The file is
// created on the first mutation and rewritten atomically after each one.
func OpenFile(path string) (Store, error) {
	s := newInMemory()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read store file: %w", err)
	default:
		var snap snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, fmt.Errorf("decode store file %s: %w", path, err)
		}
		for _, acct := range snap.Card {
			if err := validateRow(acct, s.accounts); err != nil {
				return nil, fmt.Errorf("decode store file %s: card id %d: %w", path, acct.ID, err)
			}
			s.accounts[acct.Number] = acct
			if acct.ID >= s.nextID {
				s.nextID = acct.ID + 1
			}
		}
		if snap.NextID > s.nextID {
			s.nextID = snap.NextID
		}
	}

	s.afterWrite = func() error { return writeSnapshot(path, s) }
	return s, nil
}

// validateRow rejects snapshot rows no store operation could have written.
func validateRow(acct Account, loaded map[string]Account) error {
	switch {
	case !card.LuhnValid(acct.Number):
		return fmt.Errorf("number %q fails the Luhn check", card.Mask(acct.Number))
	case acct.PIN == "":
		return errors.New("empty PIN")
	case acct.Balance < 0:
		return fmt.Errorf("negative balance %d", acct.Balance)
	}
	if _, dup := loaded[acct.Number]; dup {
		return fmt.Errorf("number %q listed twice", card.Mask(acct.Number))
	}
	return nil
}

// writeSnapshot expects s.mu to be held.
func writeSnapshot(path string, s *inMemoryStore) error {
	snap := snapshot{
		Meta:   snapshotMeta{Storage: "json_snapshot", Version: snapshotVersion, Timestamp: time.Now().UTC()},
		NextID: s.nextID,
		Card:   make([]Account, 0, len(s.accounts)),
	}
	for _, acct := range s.accounts {
		snap.Card = append(snap.Card, acct)
	}
	sort.Slice(snap.Card, func(i, j int) bool { return snap.Card[i].ID < snap.Card[j].ID })

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
