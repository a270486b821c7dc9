package server

import (
	"bytes"
	"context"
)

type command struct {
	line   string
	output bytes.Buffer
	err    error
	done   chan struct{}
}

// Exec runs a command line at the next tick, and returns what it wrote.
func (s *Server) Exec(ctx context.Context, line string) (string, error) {
	cmd := &command{
		line: line,
		done: make(chan struct{}),
	}
	select {
	case s.commands <- cmd:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case <-cmd.done:
		return cmd.output.String(), cmd.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Server) runCommands() {
	for {
		select {
		case cmd := <-s.commands:
			cmd.err = s.mgr.RunCommand(&cmd.output, cmd.line)
			close(cmd.done)
		default:
			return
		}
	}
}
