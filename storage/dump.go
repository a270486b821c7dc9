package storage

import (
	"github.com/zond/scriptcore"
)

type SpellScriptDump struct {
	SpellID    uint32 `db:"spell_id" json:"spell_id"`
	ScriptName string `db:"script_name" json:"script_name"`
	Enabled    bool   `db:"enabled" json:"enabled"`
}

// Dump is the whole content database.
type Dump struct {
	ScriptNames  map[string]uint32 `json:"script_names"`
	SpellScripts []SpellScriptDump `json:"spell_scripts"`
}

func (s *Storage) Dump() (*Dump, error) {
	names := []scriptName{}
	if err := s.db.Select(&names, "SELECT id, name FROM script_names ORDER BY id"); err != nil {
		return nil, scriptcore.WithStack(err)
	}
	result := &Dump{
		ScriptNames:  map[string]uint32{},
		SpellScripts: []SpellScriptDump{},
	}
	for _, name := range names {
		result.ScriptNames[name.Name] = name.ID
	}
	if err := s.db.Select(&result.SpellScripts, "SELECT spell_id, script_name, enabled FROM spell_script_names ORDER BY rowid"); err != nil {
		return nil, scriptcore.WithStack(err)
	}
	return result, nil
}

// Restore writes every row of d in one transaction, replacing rows with the
// same keys.
func (s *Storage) Restore(d *Dump) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return scriptcore.WithStack(err)
	}
	defer tx.Rollback()
	for name, id := range d.ScriptNames {
		if _, err := tx.NamedExec(
			"INSERT OR REPLACE INTO script_names (id, name) VALUES (:id, :name)",
			scriptName{ID: id, Name: name}); err != nil {
			return scriptcore.WithStack(err)
		}
	}
	for _, spellScript := range d.SpellScripts {
		if _, err := tx.NamedExec(
			"INSERT OR REPLACE INTO spell_script_names (spell_id, script_name, enabled) VALUES (:spell_id, :script_name, :enabled)",
			spellScript); err != nil {
			return scriptcore.WithStack(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return scriptcore.WithStack(err)
	}
	s.names.Purge()
	return nil
}
