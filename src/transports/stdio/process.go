package stdio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ServerProcess is a spawned tool-provider child process with its stdio
// pipes attached.
type ServerProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// StartServer launches the provider command and wires up its pipes. The
// process is killed when Close is called or ctx is canceled.
func StartServer(ctx context.Context, command []string, env map[string]string) (*ServerProcess, error) {
	if len(command) == 0 {
		return nil, errors.New("server command is empty")
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return nil, fmt.Errorf("failed to start server process: %w", err)
	}

	return &ServerProcess{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// Transport builds a StdioTransport over the process pipes.
func (p *ServerProcess) Transport(opts ...Option) *StdioTransport {
	return NewStdioTransport(p.stdin, p.stdout, opts...)
}

// Stderr exposes the child's stderr stream for log forwarding.
func (p *ServerProcess) Stderr() io.Reader { return p.stderr }

// Close shuts the pipes and terminates the process. Closing stdin first
// gives a well-behaved server the chance to exit on EOF.
func (p *ServerProcess) Close() error {
	if p.stdin != nil {
		p.stdin.Close()
	}
	if p.stdout != nil {
		p.stdout.Close()
	}
	if p.stderr != nil {
		p.stderr.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
		return p.cmd.Wait()
	}
	return nil
}
