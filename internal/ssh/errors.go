package ssh

import "errors"

// SSH connection errors
var (
	ErrNoAuthMethodProvided      = errors.New("no valid authentication method provided")
	ErrFailedToCreateAuth        = errors.New("failed to create auth")
	ErrFailedToCreateSSHClient   = errors.New("failed to create SSH client")
	ErrFailedToTestSSHConnection = errors.New("failed to test SSH connection")
	ErrSessionNotEstablished     = errors.New("SSH session not established")
)
