package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/crytic/hypcheck/utils"
	"go.etcd.io/bbolt"
)

// StoreFileName is the name of the baseline database within a baseline directory.
const StoreFileName = "baseline.db"

// bucketName is the bbolt bucket holding all baseline entries.
var bucketName = []byte("baselines")

// ErrBaselineMiss is returned by Store.Get when no baseline was recorded for a key.
var ErrBaselineMiss = errors.New("no baseline recorded")

// Entry is a bytecode digest recorded by a passing run.
type Entry struct {
	// Digest is the bytecode digest the run observed.
	Digest string `json:"digest"`

	// CompilerVersion is the version of the compiler that produced the bytecode.
	CompilerVersion string `json:"compilerVersion"`

	// RunID identifies the run that recorded the entry.
	RunID string `json:"runId"`

	// RecordedAt is the time the entry was written.
	RecordedAt time.Time `json:"recordedAt"`
}

// Store persists baseline entries to a bbolt database so digests can be compared across separate runs.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens, or creates, the baseline database within directory.
func OpenStore(directory string) (*Store, error) {
	if err := utils.MakeDirectory(directory); err != nil {
		return nil, fmt.Errorf("failed to create baseline directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(directory, StoreFileName), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open baseline database: %w", err)
	}

	// create the bucket if it doesn't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get returns the entry recorded for key, or ErrBaselineMiss.
func (s *Store) Get(key []byte) (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketName).Get(key)
		if data == nil {
			return nil
		}
		entry = &Entry{}
		return json.Unmarshal(data, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("could not read baseline: %w", err)
	}
	if entry == nil {
		return nil, ErrBaselineMiss
	}
	return entry, nil
}

// Put records entry under key, replacing any previous entry.
func (s *Store) Put(key []byte, entry Entry) error {
	serialized, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, serialized)
	})
}

// Len returns the number of recorded entries.
func (s *Store) Len() (int, error) {
	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketName).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
