package storage

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditLogger writes script lifecycle and admin events to a rotated log
// file as JSON lines.
type AuditLogger struct {
	mu  sync.Mutex
	out io.WriteCloser
	enc *json.Encoder
}

// AuditData is the interface for typed audit event data.
type AuditData interface {
	auditData()
}

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	Time  string    `json:"time"`
	Event string    `json:"event"`
	Data  AuditData `json:"data"`
}

// AuditScriptsLoaded is logged when the database load completes.
type AuditScriptsLoaded struct {
	Scripts      int      `json:"scripts"`
	Unused       []string `json:"unused,omitempty"`
	Unreferenced []string `json:"unreferenced,omitempty"`
	Took         string   `json:"took"`
}

func (AuditScriptsLoaded) auditData() {}

// AuditContextReleased is logged when a dynamic context is released.
type AuditContextReleased struct {
	Context string `json:"context"`
}

func (AuditContextReleased) auditData() {}

// AuditContextSwapped is logged after the swap that completes a reload.
type AuditContextSwapped struct {
	Context    string `json:"context"`
	Generation uint64 `json:"generation"`
	Scripts    int    `json:"scripts"`
}

func (AuditContextSwapped) auditData() {}

// AuditReloadFailed is logged when a context could not be reloaded.
type AuditReloadFailed struct {
	Context string `json:"context"`
	Error   string `json:"error"`
}

func (AuditReloadFailed) auditData() {}

// AuditAdminLogin is logged when someone opens the admin console.
type AuditAdminLogin struct {
	User   string `json:"user"`
	Remote string `json:"remote"`
}

func (AuditAdminLogin) auditData() {}

// AuditAdminCommand is logged for every admin console command.
type AuditAdminCommand struct {
	User    string `json:"user"`
	Command string `json:"command"`
}

func (AuditAdminCommand) auditData() {}

// NewAuditLogger creates a new audit logger writing to path, rotated at
// maxSizeMB and keeping maxBackups old files.
func NewAuditLogger(path string, maxSizeMB int, maxBackups int) *AuditLogger {
	return NewAuditLoggerTo(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	})
}

// NewAuditLoggerTo creates an audit logger writing to out.
func NewAuditLoggerTo(out io.WriteCloser) *AuditLogger {
	return &AuditLogger{
		out: out,
		enc: json.NewEncoder(out),
	}
}

// Log writes a structured audit entry as JSON.
// Panics if encoding fails (indicates a bug in the typed AuditData structs).
func (a *AuditLogger) Log(event string, data AuditData) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.enc.Encode(AuditEntry{
		Time:  time.Now().UTC().Format(time.RFC3339Nano),
		Event: event,
		Data:  data,
	}); err != nil {
		panic(fmt.Sprintf("audit log encode failed: %v", err))
	}
}

func (a *AuditLogger) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.out.Close()
}
