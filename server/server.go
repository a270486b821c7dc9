// Package server wires the script manager, the content database, the
// dynamic script contexts and the admin console into a running world.
package server

import (
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/hako/durafmt"
	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/config"
	"github.com/zond/scriptcore/content"
	"github.com/zond/scriptcore/registry"
	"github.com/zond/scriptcore/reload"
	"github.com/zond/scriptcore/scriptmgr"
	"github.com/zond/scriptcore/storage"
	"github.com/zond/scriptcore/world"
)

const (
	auditScriptsLoaded = "SCRIPTS_LOADED"
	auditAdminLogin    = "ADMIN_LOGIN"
	auditAdminCommand  = "ADMIN_COMMAND"
)

type Options struct {
	// Loader registers the static scripts. Defaults to content.Register.
	Loader func(*scriptmgr.Mgr)
	Logger registry.Logger
	// Console receives the output of the JS log function.
	Console io.Writer
}

type Server struct {
	config   config.Config
	logger   registry.Logger
	storage  *storage.Storage
	audit    *storage.AuditLogger
	mgr      *scriptmgr.Mgr
	reload   *reload.Mgr
	commands chan *command
	report   scriptmgr.LoadReport

	closeOnce sync.Once
}

// New opens the database, loads every script and spawns the configured
// maps. The world does not tick until Run.
func New(cfg config.Config, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Console == nil {
		opts.Console = os.Stdout
	}
	if opts.Loader == nil {
		opts.Loader = func(m *scriptmgr.Mgr) {
			content.Register(m, opts.Logger)
		}
	}
	s := &Server{
		config:   cfg,
		logger:   opts.Logger,
		commands: make(chan *command),
	}
	var err error
	if s.storage, err = storage.Open(cfg.Database.Path); err != nil {
		return nil, err
	}
	if err := s.seed(); err != nil {
		s.storage.Close()
		return nil, err
	}
	if cfg.Audit.Path != "" {
		s.audit = storage.NewAuditLogger(cfg.Audit.Path, cfg.Audit.MaxSizeMB, cfg.Audit.MaxBackups)
	}

	outdoorPvPIDs := []uint32{}
	for _, name := range cfg.Content.OutdoorPvP {
		if id := s.storage.ScriptID(name); id != 0 {
			outdoorPvPIDs = append(outdoorPvPIDs, id)
		} else {
			s.logger.Printf("OutdoorPvP script %q has no id, skipping", name)
		}
	}
	s.mgr = scriptmgr.New(scriptmgr.Options{
		IDs:        s.storage,
		Logger:     s.logger,
		OutdoorPvP: world.NewOutdoorPvPMgr(nil, outdoorPvPIDs...),
		Spells:     cfg.Content.SpellStore(),
	})
	s.mgr.SetScriptLoader(opts.Loader)
	s.mgr.Initialize()

	if cfg.Scripts.Dir != "" {
		reloadOpts := reload.Options{
			Dir:             cfg.Scripts.Dir,
			Host:            s.mgr,
			Timeout:         cfg.Scripts.Timeout,
			Console:         opts.Console,
			Logger:          s.logger,
			RequestInterval: cfg.Scripts.ReloadInterval,
			RequestBurst:    cfg.Scripts.ReloadBurst,
		}
		if s.audit != nil {
			reloadOpts.Audit = s.audit
		}
		s.reload = reload.New(reloadOpts)
		s.mgr.SetReloadMgr(s.reload)
	}

	s.report = s.mgr.LoadDatabase()
	s.auditLog(auditScriptsLoaded, storage.AuditScriptsLoaded{
		Scripts:      s.report.Scripts,
		Unused:       s.report.Unused,
		Unreferenced: s.report.Unreferenced,
		Took:         durafmt.Parse(s.report.Took).String(),
	})

	s.spawn()
	s.mgr.OutdoorPvP().InitOutdoorPvP()
	s.mgr.OnStartup()
	return s, nil
}

func (s *Server) seed() error {
	for name, id := range s.config.Content.ScriptNames {
		if err := s.storage.SetScriptName(id, name); err != nil {
			return err
		}
	}
	for _, binding := range s.config.Content.SpellScripts {
		if err := s.storage.BindSpellScript(binding.Spell, binding.Script, !binding.Disabled); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) spawn() {
	for _, m := range s.config.Content.Maps {
		mp := s.mgr.CreateInstanceMap(m.ID, m.Script)
		for _, spawn := range m.Creatures {
			mp.SpawnCreature(spawn.Entry, s.storage.ScriptID(spawn.Script))
		}
		for _, spawn := range m.GameObjects {
			mp.SpawnGameObject(spawn.Entry, s.storage.ScriptID(spawn.Script))
		}
	}
}

func (s *Server) auditLog(event string, data storage.AuditData) {
	if s.audit != nil {
		s.audit.Log(event, data)
	}
}

func (s *Server) Mgr() *scriptmgr.Mgr {
	return s.mgr
}

func (s *Server) Report() scriptmgr.LoadReport {
	return s.report
}

// Tick advances the world by diff. Reload requests and admin commands
// queued since the last tick run first.
func (s *Server) Tick(diff time.Duration) {
	s.runCommands()
	if s.reload != nil {
		s.reload.Drain()
	}
	s.mgr.OnWorldUpdate(diff)
	s.mgr.Maps().Update(diff)
	s.mgr.OutdoorPvP().Update(diff)
}

// Run ticks the world, watches the scripts directory and serves the admin
// console until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.reload != nil && s.config.Scripts.Watch {
		go func() {
			if err := s.reload.Watch(ctx, s.config.Scripts.Debounce); err != nil {
				s.logger.Printf("Watching %s: %v\n%s", s.config.Scripts.Dir, err, scriptcore.StackTrace(err))
			}
		}()
	}
	if s.config.Admin.Addr != "" {
		console, err := s.newConsole()
		if err != nil {
			return err
		}
		if console != nil {
			go func() {
				if err := console.ListenAndServe(); err != nil && ctx.Err() == nil {
					s.logger.Printf("Admin console: %v", err)
				}
			}()
			go func() {
				<-ctx.Done()
				console.Close()
			}()
		}
	}

	ticker := time.NewTicker(s.config.World.TickInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.mgr.OnShutdown()
			return nil
		case now := <-ticker.C:
			s.Tick(now.Sub(last))
			last = now
		}
	}
}

// Close unloads every script and closes the database and audit log.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mgr.Unload()
		if s.audit != nil {
			if auditErr := s.audit.Close(); auditErr != nil {
				s.logger.Printf("Closing audit log: %v", auditErr)
			}
		}
		err = s.storage.Close()
	})
	return err
}
