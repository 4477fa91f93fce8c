package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vf552639/fastpanel/internal/install"
	"github.com/vf552639/fastpanel/internal/servers"
	"github.com/vf552639/fastpanel/internal/ssh"
)

var ServerInstallForce = false

var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage remote servers",
	Long:  `Register remote servers, install the FastPanel control panel on them, and check their status.`,
}

var AddServerCmd = &cobra.Command{
	Use:   "add name username@hostname[:port]",
	Short: "Register a remote server",
	Long:  `Register a remote server by name and SSH address. The SSH password is prompted for and stored for later install and automation runs.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		username, hostname, port, err := parseSSHURL(args[1])
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if existing, err := serversRepository.GetByHost(hostname); err == nil {
			cmd.PrintErrf("❌ Error: host %s is already registered as %q\n", hostname, existing.Name)
			return
		}

		password, err := readPasswordSecurely(fmt.Sprintf("🔒 Enter SSH password for %s@%s: ", username, hostname), cmd.ErrOrStderr())
		if err != nil {
			cmd.PrintErrf("❌ Error: failed to read password: %v\n", err)
			return
		}

		server := &servers.Server{
			Name:        name,
			Host:        hostname,
			SSHPort:     port,
			SSHUser:     username,
			SSHPassword: password,
		}

		if err := serversRepository.Save(server); err != nil {
			cmd.PrintErrf("❌ Error: failed to save server: %v\n", err)
			return
		}

		cmd.Printf("✅ Server %q registered (%s@%s:%d)\n", name, username, hostname, port)
	},
}

var ListServersCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered servers",
	Run: func(cmd *cobra.Command, _ []string) {
		all, err := serversRepository.GetAll()
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if len(all) == 0 {
			cmd.Printf("No servers registered. Use 'fastpanel server add' first.\n")
			return
		}

		for _, server := range all {
			status := "panel not installed"
			if server.PanelInstalled {
				status = "panel installed, " + server.AdminURL
			}
			cmd.Printf("%s\t%s@%s:%d\t%s\n", server.Name, server.SSHUser, server.Host, server.SSHPort, status)
		}
	},
}

var RemoveServerCmd = &cobra.Command{
	Use:   "remove name-or-host",
	Short: "Remove a registered server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		server, err := serversRepository.Get(args[0])
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if err := serversRepository.Delete(server.ID); err != nil {
			cmd.PrintErrf("❌ Error: failed to remove server: %v\n", err)
			return
		}

		cmd.Printf("✅ Server %q removed\n", server.Name)
	},
}

var InstallServerCmd = &cobra.Command{
	Use:   "install name-or-host",
	Short: "Install FastPanel on a registered server",
	Long: `Install the FastPanel control panel on a registered server: probe the
operating system, download and run the official installer, open the admin
port in the firewall on Debian-family hosts, and store the resulting admin
URL and password.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		server, err := serversRepository.Get(args[0])
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if server.PanelInstalled && !ServerInstallForce {
			cmd.PrintErrf("❌ Error: panel is already installed on %q (%s). Use --force to reinstall.\n", server.Name, server.AdminURL)
			return
		}

		creds, err := credentialsForServer(cmd, server)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		executor := ssh.NewExecutor(logger)
		pipeline := install.New(executor, cfg, logger, progressPrinter(cmd.OutOrStdout()))

		result := pipeline.Run(creds)

		if !result.Success {
			cmd.PrintErrf("❌ Installation failed: %s\n", result.Error)
			return
		}

		if err := serversRepository.MarkInstalled(server.ID, result.AdminURL, result.AdminPassword, result.InstalledAt); err != nil {
			cmd.PrintErrf("⚠️  Installation succeeded but could not be recorded: %v\n", err)
		}

		cmd.Printf("✅ FastPanel installed on %q\n", server.Name)
		cmd.Printf("   Admin URL:      %s\n", result.AdminURL)
		cmd.Printf("   Admin password: %s\n", result.AdminPassword)
	},
}

var StatusServerCmd = &cobra.Command{
	Use:   "status name-or-host",
	Short: "Check panel status on a registered server",
	Long:  `Connect to a registered server and report whether the panel binary is present, its version, and the state of its services.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		server, err := serversRepository.Get(args[0])
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		creds, err := credentialsForServer(cmd, server)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		executor := ssh.NewExecutor(logger)
		if !executor.Connect(creds, cfg.SSHTimeout) {
			cmd.PrintErrf("❌ Error: could not connect to %s\n", server.Host)
			return
		}
		defer executor.Disconnect()

		info := install.Inspect(executor, cfg, server.Host)

		if !info.Installed {
			cmd.Printf("Panel is not installed on %q\n", server.Name)
			return
		}

		cmd.Printf("Panel installed on %q\n", server.Name)
		if info.Version != "" {
			cmd.Printf("   Version:   %s\n", info.Version)
		}
		cmd.Printf("   Admin URL: %s\n", info.AdminURL)
		for service, active := range info.Services {
			state := "inactive"
			if active {
				state = "active"
			}
			cmd.Printf("   %-10s %s\n", service+":", state)
		}
	},
}

func init() {
	ServerCmd.AddCommand(AddServerCmd)
	ServerCmd.AddCommand(ListServersCmd)
	ServerCmd.AddCommand(RemoveServerCmd)
	ServerCmd.AddCommand(InstallServerCmd)
	ServerCmd.AddCommand(StatusServerCmd)

	InstallServerCmd.Flags().String("ssh-key-path", "", "Path to SSH private key file (for passwordless authentication)")
	InstallServerCmd.Flags().BoolVar(&ServerInstallForce, "force", false, "Reinstall even if the panel is already recorded as installed")

	StatusServerCmd.Flags().String("ssh-key-path", "", "Path to SSH private key file (for passwordless authentication)")
}
