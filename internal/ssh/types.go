package ssh

// Credentials represents different types of SSH authentication
type Credentials struct {
	Host     string
	Port     uint
	Username string
	// Password authentication
	Password string
	// Key-based authentication
	PrivateKeyPath string
	PrivateKeyData []byte
	// Passphrase for private key (if encrypted)
	Passphrase string
}

// CommandResult is the outcome of running one remote command to completion.
// It is constructed once per invocation and never mutated afterwards.
// ExitCode -1 is reserved for commands that never ran on the remote side
// (no active session, stream setup failure, connection dropped mid-run).
type CommandResult struct {
	Success  bool
	Stdout   string
	Stderr   string
	ExitCode int
}
