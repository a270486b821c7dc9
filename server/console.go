package server

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gliderlabs/ssh"
	"github.com/pkg/errors"
	"github.com/zond/scriptcore"
	"github.com/zond/scriptcore/pemfile"
	"github.com/zond/scriptcore/storage"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	gossh "golang.org/x/crypto/ssh"
)

func loadAuthorizedKeys(path string) ([]ssh.PublicKey, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, scriptcore.WithStack(err)
	}
	result := []ssh.PublicKey{}
	for len(raw) > 0 {
		key, _, _, rest, err := gossh.ParseAuthorizedKey(raw)
		if err != nil {
			if onlyComments(raw) {
				break
			}
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
		result = append(result, key)
		raw = rest
	}
	return result, nil
}

func onlyComments(raw []byte) bool {
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			return false
		}
	}
	return true
}

// newConsole returns nil if no admin can log in.
func (s *Server) newConsole() (*ssh.Server, error) {
	keys, err := loadAuthorizedKeys(s.config.Admin.AuthorizedKeys)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 && len(s.config.Admin.Users) == 0 {
		s.logger.Printf("Admin console has no users or authorized keys, not listening on %q", s.config.Admin.Addr)
		return nil, nil
	}
	signer, generated, err := pemfile.InDir(s.config.Admin.KeyDir).Signer()
	if err != nil {
		return nil, err
	}
	if generated {
		s.logger.Printf("Generated admin console host key in %q", s.config.Admin.KeyDir)
	}
	srv := &ssh.Server{
		Addr:    s.config.Admin.Addr,
		Handler: s.handleSession,
	}
	if len(keys) > 0 {
		srv.PublicKeyHandler = func(_ ssh.Context, key ssh.PublicKey) bool {
			for _, authorized := range keys {
				if ssh.KeysEqual(key, authorized) {
					return true
				}
			}
			return false
		}
	}
	if len(s.config.Admin.Users) > 0 {
		srv.PasswordHandler = func(ctx ssh.Context, password string) bool {
			hash, found := s.config.Admin.Users[ctx.User()]
			return found && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
		}
	}
	srv.AddHostKey(signer)
	s.logger.Printf("Admin console listening on %q with public key %q", s.config.Admin.Addr, gossh.FingerprintSHA256(signer.PublicKey()))
	return srv, nil
}

func (s *Server) handleSession(sess ssh.Session) {
	s.auditLog(auditAdminLogin, storage.AuditAdminLogin{
		User:   sess.User(),
		Remote: sess.RemoteAddr().String(),
	})
	if line := strings.TrimSpace(sess.RawCommand()); line != "" {
		s.execSession(sess, line)
		return
	}
	t := term.NewTerminal(sess, "> ")
	if err := s.console(sess, t); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(t, "InternalServerError: %v\n", err)
		s.logger.Printf("Admin console of %q: %v\n%s", sess.User(), err, scriptcore.StackTrace(err))
	}
}

func (s *Server) console(sess ssh.Session, t *term.Terminal) error {
	fmt.Fprintf(t, "Welcome %s, type help for a list of commands.\n", sess.User())
	for {
		line, err := t.ReadLine()
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		}
		s.auditLog(auditAdminCommand, storage.AuditAdminCommand{
			User:    sess.User(),
			Command: line,
		})
		output, err := s.Exec(sess.Context(), line)
		fmt.Fprint(t, output)
		if err != nil {
			if sess.Context().Err() != nil {
				return nil
			}
			fmt.Fprintf(t, "Error: %v\n", err)
		}
	}
}

// execSession runs the single command of a non-interactive session.
func (s *Server) execSession(sess ssh.Session, line string) {
	s.auditLog(auditAdminCommand, storage.AuditAdminCommand{
		User:    sess.User(),
		Command: line,
	})
	output, err := s.Exec(sess.Context(), line)
	io.WriteString(sess, output)
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "Error: %v\n", err)
		sess.Exit(1)
		return
	}
	sess.Exit(0)
}
