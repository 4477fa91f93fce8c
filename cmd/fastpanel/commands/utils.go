package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vf552639/fastpanel/internal/progress"
	"github.com/vf552639/fastpanel/internal/servers"
	"github.com/vf552639/fastpanel/internal/ssh"
)

// readPasswordSecurely reads a password from the terminal without echoing.
func readPasswordSecurely(prompt string, out io.Writer) (string, error) {
	fmt.Fprintf(out, "%s", prompt)

	bytePassword, err := term.ReadPassword(int(syscall.Stdin))

	fmt.Fprintf(out, "\n")

	if err != nil {
		return "", err
	}
	return string(bytePassword), nil
}

// parseSSHURL parses an SSH URL in the format username@hostname[:port].
func parseSSHURL(sshURL string) (username, hostname string, port uint, err error) {
	port = 22

	if strings.Contains(sshURL, ":") {
		parts := strings.Split(sshURL, ":")
		if len(parts) != 2 {
			return "", "", 0, fmt.Errorf("invalid SSH URL format: %s", sshURL)
		}

		if portStr := parts[1]; portStr != "" {
			parsedPort, err := strconv.ParseUint(portStr, 10, 32)

			if err != nil {
				return "", "", 0, fmt.Errorf("invalid port number: %s", portStr)
			}

			if parsedPort > 65535 {
				return "", "", 0, fmt.Errorf("port number must be between 0 and 65535")
			}

			port = uint(parsedPort)
		}

		sshURL = parts[0]
	}

	if strings.Contains(sshURL, "@") {
		parts := strings.Split(sshURL, "@")
		if len(parts) != 2 {
			return "", "", 0, fmt.Errorf("invalid SSH URL format: %s", sshURL)
		}
		username = parts[0]
		hostname = parts[1]
	} else {
		return "", "", 0, fmt.Errorf("username is required in SSH URL format: username@hostname[:port]")
	}

	if username == "" {
		return "", "", 0, fmt.Errorf("username cannot be empty")
	}
	if hostname == "" {
		return "", "", 0, fmt.Errorf("hostname cannot be empty")
	}

	return username, hostname, port, nil
}

// credentialsForServer builds SSH credentials from a stored server record,
// honoring an --ssh-key-path flag when the command defines one and prompting
// for a password when nothing else is available.
func credentialsForServer(cmd *cobra.Command, server *servers.Server) (*ssh.Credentials, error) {
	creds := &ssh.Credentials{
		Host:     server.Host,
		Port:     server.SSHPort,
		Username: server.SSHUser,
		Password: server.SSHPassword,
	}

	if flag := cmd.Flag("ssh-key-path"); flag != nil && flag.Value.String() != "" {
		creds.PrivateKeyPath = flag.Value.String()
		creds.Password = ""

		if passphrase, err := readPasswordSecurely("🔒 Enter SSH key passphrase (leave empty if none): ", cmd.ErrOrStderr()); err == nil && passphrase != "" {
			creds.Passphrase = passphrase
		}

		return creds, nil
	}

	if creds.Password == "" {
		password, err := readPasswordSecurely(fmt.Sprintf("🔒 Enter SSH password for %s@%s: ", creds.Username, creds.Host), cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %v", err)
		}
		creds.Password = password
	}

	if creds.Password == "" && creds.PrivateKeyPath == "" {
		return nil, fmt.Errorf("SSH authentication is required. Use --ssh-key-path flag or provide password interactively")
	}

	return creds, nil
}

// progressPrinter renders pipeline progress events as percentage-prefixed
// lines on the given writer.
func progressPrinter(out io.Writer) progress.Func {
	return func(message string, fraction float64) {
		fmt.Fprintf(out, "[%3.0f%%] %s\n", fraction*100, message)
	}
}
