package ssh

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/melbahja/goph"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

const connectTestCommand = "echo 'connection test'"

// Executor owns one live authenticated SSH session to a single host. A
// session is owned by exactly one pipeline invocation at a time; the owning
// pipeline is responsible for calling Disconnect on every exit path.
type Executor struct {
	client    *goph.Client
	creds     *Credentials
	connected bool
	logger    zerolog.Logger
}

func NewExecutor(logger zerolog.Logger) *Executor {
	return &Executor{
		logger: logger.With().Str("component", "ssh").Logger(),
	}
}

func authMethods(creds *Credentials) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	switch {
	case creds.PrivateKeyPath != "":
		keyBytes, err := os.ReadFile(creds.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToCreateAuth, err)
		}
		signer, err := parseSigner(keyBytes, creds.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToCreateAuth, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	case len(creds.PrivateKeyData) > 0:
		signer, err := parseSigner(creds.PrivateKeyData, creds.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToCreateAuth, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	case creds.Password != "":
		methods = append(methods, ssh.Password(creds.Password))
	default:
		return nil, ErrNoAuthMethodProvided
	}

	return methods, nil
}

func parseSigner(keyBytes []byte, passphrase string) (ssh.Signer, error) {
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(keyBytes, []byte(passphrase))
	}
	return ssh.ParsePrivateKey(keyBytes)
}

// Connect establishes the session, closing any previous one first. Every
// failure cause (bad credentials, protocol error, unreachable host) is
// logged with its specifics but reported to the caller uniformly as false:
// in this domain "cannot connect" is an expected, recoverable outcome and
// the caller decides whether to retry.
func (e *Executor) Connect(creds *Credentials, timeout time.Duration) bool {
	if e.connected {
		e.Disconnect()
	}

	methods, err := authMethods(creds)
	if err != nil {
		e.logger.Error().Err(err).Str("host", creds.Host).Msg("could not build auth methods")
		return false
	}

	sshConfig := &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            methods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	hostPort := net.JoinHostPort(creds.Host, fmt.Sprintf("%d", creds.Port))

	conn, err := net.DialTimeout("tcp", hostPort, timeout)
	if err != nil {
		e.logger.Error().Err(err).Str("host", hostPort).Msg("tcp dial failed")
		return false
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, hostPort, sshConfig)
	if err != nil {
		conn.Close()
		e.logger.Error().Err(err).Str("host", hostPort).Msg("ssh handshake failed")
		return false
	}

	client := ssh.NewClient(sshConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		e.logger.Error().Err(fmt.Errorf("%w: %v", ErrFailedToTestSSHConnection, err)).Str("host", hostPort).Msg("could not open test session")
		return false
	}

	err = session.Run(connectTestCommand)
	session.Close()
	if err != nil {
		client.Close()
		e.logger.Error().Err(fmt.Errorf("%w: %v", ErrFailedToTestSSHConnection, err)).Str("host", hostPort).Msg("test command failed")
		return false
	}

	e.client = &goph.Client{Client: client}
	e.creds = creds
	e.connected = true
	e.logger.Info().Str("host", creds.Host).Str("user", creds.Username).Msg("connected")
	return true
}

// Run executes a command to completion and captures its full output.
// Command-level failures surface inside the result, never as an error value,
// so callers can inspect partial output even on failure. A closed session
// yields a synthetic -1 result without attempting any I/O.
func (e *Executor) Run(command string, wantsPty bool, timeout time.Duration) CommandResult {
	if !e.connected || e.client == nil {
		e.logger.Error().Msg("no active session")
		return CommandResult{Stderr: ErrSessionNotEstablished.Error(), ExitCode: -1}
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd, err := e.client.CommandContext(ctx, command)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to open command session")
		return CommandResult{Stderr: err.Error(), ExitCode: -1}
	}

	if wantsPty {
		if err := cmd.RequestPty("xterm", 40, 80, ssh.TerminalModes{ssh.ECHO: 0}); err != nil {
			e.logger.Warn().Err(err).Msg("pty request failed, running without pty")
		}
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug().Str("command", truncate(command, 100)).Msg("executing command")

	err = cmd.Run()
	result := newResult(stdout.String(), stderr.String(), err)

	if !result.Success {
		e.logger.Warn().Int("exit_code", result.ExitCode).Str("stderr", truncate(result.Stderr, 100)).Msg("command failed")
	}

	return result
}

// RunStream executes a command under a pseudo-terminal, invoking onLine once
// per line of output while the command is still running. The callback is
// invoked synchronously from the read loop, so a blocking callback stalls
// the remote read; callbacks must be quick or hand off themselves. The final
// result is returned once the remote process exits.
func (e *Executor) RunStream(command string, onLine func(string)) CommandResult {
	if !e.connected || e.client == nil {
		e.logger.Error().Msg("no active session")
		return CommandResult{Stderr: ErrSessionNotEstablished.Error(), ExitCode: -1}
	}

	cmd, err := e.client.Command(command)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to open command session")
		return CommandResult{Stderr: err.Error(), ExitCode: -1}
	}

	if err := cmd.RequestPty("xterm", 40, 80, ssh.TerminalModes{ssh.ECHO: 0}); err != nil {
		e.logger.Warn().Err(err).Msg("pty request failed, running without pty")
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return CommandResult{Stderr: err.Error(), ExitCode: -1}
	}

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		e.logger.Error().Err(err).Msg("failed to start command")
		return CommandResult{Stderr: err.Error(), ExitCode: -1}
	}

	var lines []string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := sanitize(scanner.Text())
		lines = append(lines, line)
		if onLine != nil {
			onLine(line)
		}
	}

	err = cmd.Wait()
	return newResult(strings.Join(lines, "\n"), stderr.String(), err)
}

// Disconnect closes the session. It is idempotent: safe to call on an
// already-closed or never-opened session.
func (e *Executor) Disconnect() {
	if e.client != nil {
		if err := e.client.Close(); err != nil {
			e.logger.Debug().Err(err).Msg("error closing ssh client")
		}
		e.logger.Info().Str("host", e.Host()).Msg("disconnected")
	}
	e.client = nil
	e.connected = false
}

func (e *Executor) Connected() bool {
	return e.connected
}

// Host reports the last-known target host, for logging.
func (e *Executor) Host() string {
	if e.creds != nil {
		return e.creds.Host
	}
	return ""
}

func newResult(stdout, stderr string, err error) CommandResult {
	result := CommandResult{
		Stdout: sanitize(stdout),
		Stderr: sanitize(stderr),
	}

	if err == nil {
		result.Success = true
		return result
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitStatus()
	} else {
		result.ExitCode = -1
		if result.Stderr == "" {
			result.Stderr = err.Error()
		}
	}

	return result
}

// sanitize replaces undecodable bytes; remote output must never be fatal.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "�")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
