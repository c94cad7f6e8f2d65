package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/pickgraph/internal/logger"
)

// storeSchema holds one table per entity kind. Rows are read back in rowid
// order, which preserves catalog order.
const storeSchema = `
CREATE TABLE IF NOT EXISTS topics (
    id   TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS pipelines (
    id       TEXT NOT NULL,
    name     TEXT NOT NULL DEFAULT '',
    topic_id TEXT NOT NULL DEFAULT '',
    stages   TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS spaces (
    id   TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS space_topics (
    space_id TEXT NOT NULL,
    topic_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS connected_spaces (
    id       TEXT NOT NULL,
    name     TEXT NOT NULL DEFAULT '',
    space_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS subjects (
    connected_space_id TEXT NOT NULL,
    id                 TEXT NOT NULL,
    name               TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS indicators (
    id                  TEXT NOT NULL,
    name                TEXT NOT NULL DEFAULT '',
    base_on             TEXT NOT NULL DEFAULT '',
    topic_or_subject_id TEXT NOT NULL DEFAULT ''
);
`

var storeTables = []string{
	"topics", "pipelines", "spaces", "space_topics",
	"connected_spaces", "subjects", "indicators",
}

// IsStorePath reports whether path names a SQLite catalog store.
func IsStorePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Store is a catalog kept in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite catalog at path and creates the
// schema if it does not exist.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open store: %w", err)
	}
	// SQLite has a single writer; one connection avoids SQLITE_BUSY between
	// pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored catalog with c in a single transaction.
func (s *Store) Save(ctx context.Context, c *Catalog) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range storeTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("catalog: clear %s: %w", table, err)
		}
	}

	exec := func(q string, args ...any) error {
		_, err := tx.ExecContext(ctx, q, args...)
		return err
	}
	for _, t := range c.Topics {
		if err := exec("INSERT INTO topics (id, name) VALUES (?, ?)", t.ID, t.Name); err != nil {
			return fmt.Errorf("catalog: insert topic %q: %w", t.ID, err)
		}
	}
	for _, p := range c.Pipelines {
		stages, err := json.Marshal(p.Stages)
		if err != nil {
			return fmt.Errorf("catalog: encode stages of pipeline %q: %w", p.ID, err)
		}
		if err := exec("INSERT INTO pipelines (id, name, topic_id, stages) VALUES (?, ?, ?, ?)",
			p.ID, p.Name, p.TopicID, string(stages)); err != nil {
			return fmt.Errorf("catalog: insert pipeline %q: %w", p.ID, err)
		}
	}
	for _, sp := range c.Spaces {
		if err := exec("INSERT INTO spaces (id, name) VALUES (?, ?)", sp.ID, sp.Name); err != nil {
			return fmt.Errorf("catalog: insert space %q: %w", sp.ID, err)
		}
		for _, tid := range sp.TopicIDs {
			if err := exec("INSERT INTO space_topics (space_id, topic_id) VALUES (?, ?)", sp.ID, tid); err != nil {
				return fmt.Errorf("catalog: insert topic of space %q: %w", sp.ID, err)
			}
		}
	}
	for _, cs := range c.ConnectedSpaces {
		if err := exec("INSERT INTO connected_spaces (id, name, space_id) VALUES (?, ?, ?)",
			cs.ID, cs.Name, cs.SpaceID); err != nil {
			return fmt.Errorf("catalog: insert connected space %q: %w", cs.ID, err)
		}
		for _, sub := range cs.Subjects {
			if err := exec("INSERT INTO subjects (connected_space_id, id, name) VALUES (?, ?, ?)",
				cs.ID, sub.ID, sub.Name); err != nil {
				return fmt.Errorf("catalog: insert subject %q: %w", sub.ID, err)
			}
		}
	}
	for _, ind := range c.Indicators {
		if err := exec("INSERT INTO indicators (id, name, base_on, topic_or_subject_id) VALUES (?, ?, ?, ?)",
			ind.ID, ind.Name, string(ind.BaseOn), ind.TopicOrSubjectID); err != nil {
			return fmt.Errorf("catalog: insert indicator %q: %w", ind.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit save: %w", err)
	}
	return nil
}

// Load reads the stored catalog and normalizes it. A nil log discards
// warnings.
func (s *Store) Load(ctx context.Context, log *logger.Logger) (*Catalog, error) {
	var c Catalog

	err := s.each(ctx, "SELECT id, name FROM topics ORDER BY rowid", func(rows *sql.Rows) error {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return err
		}
		c.Topics = append(c.Topics, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load topics: %w", err)
	}

	err = s.each(ctx, "SELECT id, name, topic_id, stages FROM pipelines ORDER BY rowid", func(rows *sql.Rows) error {
		var p Pipeline
		var stages string
		if err := rows.Scan(&p.ID, &p.Name, &p.TopicID, &stages); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(stages), &p.Stages); err != nil {
			return fmt.Errorf("stages of pipeline %q: %w", p.ID, err)
		}
		c.Pipelines = append(c.Pipelines, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load pipelines: %w", err)
	}

	spaceTopics := make(map[string][]string)
	err = s.each(ctx, "SELECT space_id, topic_id FROM space_topics ORDER BY rowid", func(rows *sql.Rows) error {
		var sid, tid string
		if err := rows.Scan(&sid, &tid); err != nil {
			return err
		}
		spaceTopics[sid] = append(spaceTopics[sid], tid)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load space topics: %w", err)
	}
	err = s.each(ctx, "SELECT id, name FROM spaces ORDER BY rowid", func(rows *sql.Rows) error {
		var sp Space
		if err := rows.Scan(&sp.ID, &sp.Name); err != nil {
			return err
		}
		sp.TopicIDs = spaceTopics[sp.ID]
		c.Spaces = append(c.Spaces, sp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load spaces: %w", err)
	}

	subjects := make(map[string][]Subject)
	err = s.each(ctx, "SELECT connected_space_id, id, name FROM subjects ORDER BY rowid", func(rows *sql.Rows) error {
		var csID string
		var sub Subject
		if err := rows.Scan(&csID, &sub.ID, &sub.Name); err != nil {
			return err
		}
		subjects[csID] = append(subjects[csID], sub)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load subjects: %w", err)
	}
	err = s.each(ctx, "SELECT id, name, space_id FROM connected_spaces ORDER BY rowid", func(rows *sql.Rows) error {
		var cs ConnectedSpace
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.SpaceID); err != nil {
			return err
		}
		cs.Subjects = subjects[cs.ID]
		c.ConnectedSpaces = append(c.ConnectedSpaces, cs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load connected spaces: %w", err)
	}

	err = s.each(ctx, "SELECT id, name, base_on, topic_or_subject_id FROM indicators ORDER BY rowid", func(rows *sql.Rows) error {
		var ind Indicator
		var baseOn string
		if err := rows.Scan(&ind.ID, &ind.Name, &baseOn, &ind.TopicOrSubjectID); err != nil {
			return err
		}
		ind.BaseOn = BaseOn(baseOn)
		c.Indicators = append(c.Indicators, ind)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load indicators: %w", err)
	}

	if log == nil {
		log = logger.Nop()
	}
	Normalize(&c, log)
	return &c, nil
}

func (s *Store) each(ctx context.Context, q string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// LoadStore reads a catalog from the SQLite store at path.
func LoadStore(ctx context.Context, path string, log *logger.Logger) (*Catalog, error) {
	s, err := OpenStore(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Load(ctx, log)
}

// SaveStore writes c to the SQLite store at path, replacing its contents.
func SaveStore(ctx context.Context, path string, c *Catalog) error {
	s, err := OpenStore(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Save(ctx, c)
}
