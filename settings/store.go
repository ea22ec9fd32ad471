// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package settings persists named effect configurations in SQLite.
//
// A profile is an effect.Config saved under a name. Profiles are validated
// before they are written and again when they are read, so a hand-edited
// database can never yield an out-of-range configuration.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/effect"
)

// ErrNotFound is returned when a profile does not exist.
var ErrNotFound = errors.New("settings: profile not found")

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS profiles (
    name    TEXT PRIMARY KEY,
    config  TEXT NOT NULL,   -- JSON encoded effect.Config
    updated INTEGER NOT NULL -- UnixNano
);
`

// Profile is a stored configuration.
type Profile struct {
	Name    string
	Config  effect.Config
	Updated time.Time
}

// Store is a SQLite-backed profile store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path. MemoryPath opens a store that
// lives as long as the returned Store.
func Open(path string) (*Store, error) {
	dsn := path
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("settings: create directory: %w", err)
			}
		}
		dsn = path +
			"?_pragma=journal_mode(WAL)" +
			"&_pragma=synchronous(NORMAL)" +
			"&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("settings: open database: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("settings: connect: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("settings: create schema: %w", err)
	}
	var current int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("settings: read schema version: %w", err)
	}
	if current == schemaVersion {
		return nil
	}
	if current > schemaVersion {
		return fmt.Errorf("settings: database schema %d is newer than supported %d", current, schemaVersion)
	}
	postfx.Logger().Info("settings: migrating schema", "from", current, "to", schemaVersion)
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("settings: reset schema version: %w", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("settings: write schema version: %w", err)
	}
	return nil
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("settings: empty profile name")
	}
	return nil
}

// Save validates cfg and stores it under name, replacing any previous
// profile of that name.
func (s *Store) Save(ctx context.Context, name string, cfg effect.Config) error {
	if err := validName(name); err != nil {
		return err
	}
	cfg.Validate()
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("settings: encode %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (name, config, updated) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET config = excluded.config, updated = excluded.updated`,
		name, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("settings: save %q: %w", name, err)
	}
	return nil
}

// Load returns the profile stored under name, or ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (effect.Config, error) {
	p, err := s.profile(ctx, name)
	if err != nil {
		return effect.Config{}, err
	}
	return p.Config, nil
}

// Profile returns the named profile with its update time.
func (s *Store) Profile(ctx context.Context, name string) (Profile, error) {
	return s.profile(ctx, name)
}

func (s *Store) profile(ctx context.Context, name string) (Profile, error) {
	var (
		data    string
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT config, updated FROM profiles WHERE name = ?", name).Scan(&data, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("settings: load %q: %w", name, err)
	}
	cfg, err := decode(data)
	if err != nil {
		return Profile{}, fmt.Errorf("settings: decode %q: %w", name, err)
	}
	return Profile{Name: name, Config: cfg, Updated: time.Unix(0, updated)}, nil
}

// decode starts from the defaults so that fields missing from older
// profiles keep their default value.
func decode(data string) (effect.Config, error) {
	cfg := effect.Default()
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return effect.Config{}, err
	}
	cfg.Validate()
	return cfg, nil
}

// List returns the stored profile names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM profiles ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("settings: list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("settings: list: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("settings: list: %w", err)
	}
	return names, nil
}

// Delete removes the named profile. Deleting a missing profile returns
// ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("settings: delete %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
