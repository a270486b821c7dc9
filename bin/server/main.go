package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/zond/scriptcore/config"
	"github.com/zond/scriptcore/server"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file. Defaults are used if empty.")
	sshAddr := flag.String("ssh", "", "Where to listen to admin SSH connections, overriding the configuration.")
	scriptsDir := flag.String("scripts", "", "Directory of dynamic JS script contexts, overriding the configuration.")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *sshAddr != "" {
		cfg.Admin.Addr = *sshAddr
	}
	if *scriptsDir != "" {
		cfg.Scripts.Dir = *scriptsDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if cfg.Log.File != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}))
	}

	srv, err := server.New(cfg, server.Options{})
	if err != nil {
		log.Fatal(err)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		log.Print(err)
	}
}
