// Package config loads the server configuration.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/zond/scriptcore/world"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Scripts  Scripts  `yaml:"scripts"`
	Database Database `yaml:"database"`
	Audit    Audit    `yaml:"audit"`
	World    World    `yaml:"world"`
	Admin    Admin    `yaml:"admin"`
	Log      Log      `yaml:"log"`
	Content  Content  `yaml:"content"`
}

type Scripts struct {
	// Dir holds one JS file per dynamic context. Empty disables dynamic
	// contexts.
	Dir      string        `yaml:"dir"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
	Timeout  time.Duration `yaml:"timeout"`
	// ReloadInterval and ReloadBurst throttle reload requests from the
	// watcher and the admin console.
	ReloadInterval time.Duration `yaml:"reload_interval"`
	ReloadBurst    int           `yaml:"reload_burst"`
}

type Database struct {
	Path string `yaml:"path"`
}

type Audit struct {
	// Path of the audit log. Empty disables auditing.
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type World struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

type Admin struct {
	// Addr is where the SSH admin console listens. Empty disables it.
	Addr string `yaml:"addr"`
	// KeyDir holds the host key, generated on first start.
	KeyDir string `yaml:"key_dir"`
	// AuthorizedKeys is an authorized_keys file of admins allowed in by
	// public key.
	AuthorizedKeys string `yaml:"authorized_keys"`
	// Users maps admin names to bcrypt password hashes.
	Users map[string]string `yaml:"users"`
}

type Log struct {
	// File receives a copy of the server log, rotated at MaxSizeMB.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Content is seed data written to the database at startup.
type Content struct {
	ScriptNames  map[string]uint32 `yaml:"script_names"`
	SpellScripts []SpellScript     `yaml:"spell_scripts"`
	Spells       []Spell           `yaml:"spells"`
	Maps         []Map             `yaml:"maps"`
	OutdoorPvP   []string          `yaml:"outdoor_pvp"`
}

type SpellScript struct {
	Spell    uint32 `yaml:"spell"`
	Script   string `yaml:"script"`
	Disabled bool   `yaml:"disabled"`
}

type SpellEffect struct {
	Effect  uint8 `yaml:"effect"`
	TargetA uint8 `yaml:"target_a"`
}

type Spell struct {
	ID      uint32        `yaml:"id"`
	Name    string        `yaml:"name"`
	Effects []SpellEffect `yaml:"effects"`
}

type Spawn struct {
	Entry  uint32 `yaml:"entry"`
	Script string `yaml:"script"`
}

type Map struct {
	ID          uint32  `yaml:"id"`
	Script      string  `yaml:"script"`
	Creatures   []Spawn `yaml:"creatures"`
	GameObjects []Spawn `yaml:"game_objects"`
}

func Default() Config {
	return Config{
		Scripts: Scripts{
			Debounce:       200 * time.Millisecond,
			Timeout:        200 * time.Millisecond,
			ReloadInterval: time.Second,
			ReloadBurst:    5,
		},
		Database: Database{
			Path: "scriptcore.db",
		},
		Audit: Audit{
			MaxSizeMB:  100,
			MaxBackups: 10,
		},
		World: World{
			TickInterval: 50 * time.Millisecond,
		},
		Admin: Admin{
			Addr:   "127.0.0.1:15000",
			KeyDir: ".",
		},
		Log: Log{
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		Content: Content{
			Spells: []Spell{
				{ID: world.SpellHotswapVisual, Name: "Hot swap visual"},
			},
		},
	}
}

// Load reads path on top of Default.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, errors.WithStack(err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, errors.Wrapf(err, "parsing %s", path)
	}
	if err := c.Validate(); err != nil {
		return c, errors.Wrapf(err, "validating %s", path)
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.World.TickInterval <= 0 {
		return errors.Errorf("world.tick_interval must be positive, got %v", c.World.TickInterval)
	}
	if c.Scripts.Timeout <= 0 {
		return errors.Errorf("scripts.timeout must be positive, got %v", c.Scripts.Timeout)
	}
	if c.Scripts.Watch && c.Scripts.Dir == "" {
		return errors.New("scripts.watch requires scripts.dir")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	ids := map[uint32]string{}
	for name, id := range c.Content.ScriptNames {
		if id == 0 {
			return errors.Errorf("script %q has id 0", name)
		}
		if other, found := ids[id]; found {
			return errors.Errorf("scripts %q and %q share id %v", name, other, id)
		}
		ids[id] = name
	}
	return nil
}

// SpellStore returns the configured spells.
func (c Content) SpellStore() world.Spells {
	result := world.Spells{}
	for _, spell := range c.Spells {
		info := &world.SpellInfo{
			ID:   spell.ID,
			Name: spell.Name,
		}
		for _, effect := range spell.Effects {
			info.Effects = append(info.Effects, world.SpellEffect{
				Effect:  effect.Effect,
				TargetA: effect.TargetA,
			})
		}
		result[spell.ID] = info
	}
	return result
}
