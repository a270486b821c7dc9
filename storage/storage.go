// Package storage holds the content database that assigns script ids, and
// the audit log.
package storage

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pkgz/expirable-cache/v3"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/scriptmgr"

	_ "modernc.org/sqlite"
)

const (
	nameCacheTTL  = 5 * time.Minute
	nameCacheKeys = 65536
)

// Storage maps script names to the ids the content database assigns them.
type Storage struct {
	db    *sqlx.DB
	names cache.Cache[string, uint32]
}

type scriptName struct {
	ID   uint32 `db:"id"`
	Name string `db:"name"`
}

type spellScriptName struct {
	SpellID    uint32 `db:"spell_id"`
	ScriptName string `db:"script_name"`
	Enabled    bool   `db:"enabled"`
	ScriptID   uint32 `db:"script_id"`
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Storage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, scriptcore.WithStack(err)
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, scriptcore.WithStack(err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := initPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Storage{
		db:    db,
		names: cache.NewCache[string, uint32]().WithTTL(nameCacheTTL).WithMaxKeys(nameCacheKeys),
	}, nil
}

func initPragmas(db *sqlx.DB) error {
	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(p); err != nil {
			return scriptcore.WithStack(err)
		}
	}
	return nil
}

func initSchema(db *sqlx.DB) error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS script_names (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS spell_script_names (
			spell_id INTEGER NOT NULL,
			script_name TEXT NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (spell_id, script_name)
		);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return scriptcore.WithStack(err)
		}
	}
	return nil
}

func (s *Storage) Close() error {
	return scriptcore.WithStack(s.db.Close())
}

// SetScriptName assigns id to name, replacing any earlier assignment of
// either.
func (s *Storage) SetScriptName(id uint32, name string) error {
	if _, err := s.db.NamedExec(
		"INSERT OR REPLACE INTO script_names (id, name) VALUES (:id, :name)",
		scriptName{ID: id, Name: name}); err != nil {
		return scriptcore.WithStack(err)
	}
	s.names.Purge()
	return nil
}

// BindSpellScript binds the script called name to spellID.
func (s *Storage) BindSpellScript(spellID uint32, name string, enabled bool) error {
	if _, err := s.db.NamedExec(
		"INSERT OR REPLACE INTO spell_script_names (spell_id, script_name, enabled) VALUES (:spell_id, :script_name, :enabled)",
		spellScriptName{SpellID: spellID, ScriptName: name, Enabled: enabled}); err != nil {
		return scriptcore.WithStack(err)
	}
	return nil
}

// ScriptID returns the id assigned to name, or zero.
func (s *Storage) ScriptID(name string) uint32 {
	if id, found := s.names.Get(name); found {
		return id
	}
	id := uint32(0)
	if err := s.db.Get(&id, "SELECT id FROM script_names WHERE name = ?", name); err != nil && !errors.Is(err, sql.ErrNoRows) {
		err = scriptcore.WithStack(err)
		log.Printf("Looking up script id of %q: %v\n%s", name, err, scriptcore.StackTrace(err))
		return 0
	}
	s.names.Set(name, id, 0)
	return id
}

func (s *Storage) AllScriptNames() []string {
	result := []string{}
	if err := s.db.Select(&result, `
		SELECT name FROM script_names
		UNION
		SELECT script_name FROM spell_script_names
		ORDER BY 1`); err != nil {
		err = scriptcore.WithStack(err)
		log.Printf("Listing script names: %v\n%s", err, scriptcore.StackTrace(err))
		return nil
	}
	return result
}

func (s *Storage) SpellScriptBindings(spellID uint32) []scriptmgr.SpellScriptBinding {
	rows := []spellScriptName{}
	if err := s.db.Select(&rows, `
		SELECT s.spell_id, s.script_name, s.enabled, COALESCE(n.id, 0) AS script_id
		FROM spell_script_names s
		LEFT JOIN script_names n ON n.name = s.script_name
		WHERE s.spell_id = ?
		ORDER BY s.rowid`, spellID); err != nil {
		err = scriptcore.WithStack(err)
		log.Printf("Listing spell scripts of %v: %v\n%s", spellID, err, scriptcore.StackTrace(err))
		return nil
	}
	result := make([]scriptmgr.SpellScriptBinding, 0, len(rows))
	for _, row := range rows {
		if row.ScriptID == 0 {
			continue
		}
		result = append(result, scriptmgr.SpellScriptBinding{
			ScriptID: row.ScriptID,
			Enabled:  row.Enabled,
		})
	}
	return result
}

var _ scriptmgr.IDSource = (*Storage)(nil)
