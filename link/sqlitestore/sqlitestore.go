// Package sqlitestore persists link records in a SQLite database.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pion/logging"

	"xdao.co/mam/link"
	"xdao.co/mam/spongos"
)

const schema = `
	CREATE TABLE IF NOT EXISTS links (
		cid TEXT PRIMARY KEY,
		record BLOB NOT NULL
	);
`

// Config configures a Store.
type Config struct {
	// Path is the database file; ":memory:" keeps the database in memory.
	Path string

	// Permutation restores stored sponge states.
	Permutation spongos.Permutation

	LoggerFactory logging.LoggerFactory
}

// Store is a link.Store backed by SQLite.
type Store struct {
	db  *sql.DB
	f   spongos.Permutation
	log logging.LeveledLogger
}

var _ link.Store = (*Store)(nil)

// Open opens (creating if needed) the database at cfg.Path.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlitestore: path is required")
	}
	if cfg.Permutation == nil {
		return nil, errors.New("sqlitestore: permutation is required")
	}
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{
		db:  db,
		f:   cfg.Permutation,
		log: cfg.LoggerFactory.NewLogger("sqlitestore"),
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Lookup(l link.Link) (*spongos.Spongos, link.Info, error) {
	if !l.Defined() {
		return nil, link.Info{}, link.ErrInvalidLink
	}
	var rec []byte
	err := s.db.QueryRow(`SELECT record FROM links WHERE cid = ?`, l.String()).Scan(&rec)
	if err == sql.ErrNoRows {
		s.log.Tracef("lookup %s: not found", l)
		return nil, link.Info{}, link.ErrNotFound
	}
	if err != nil {
		return nil, link.Info{}, fmt.Errorf("failed to retrieve link: %w", err)
	}
	return link.UnmarshalRecord(s.f, rec)
}

func (s *Store) Update(l link.Link, st *spongos.Spongos, info link.Info) error {
	if !l.Defined() {
		return link.ErrInvalidLink
	}
	rec, err := link.MarshalRecord(st, info)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO links (cid, record) VALUES (?, ?)`, l.String(), rec); err != nil {
		return fmt.Errorf("failed to store link: %w", err)
	}
	s.log.Debugf("stored link %s (size=%d)", l, info.Size)
	return nil
}

// Len returns the number of stored links.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
