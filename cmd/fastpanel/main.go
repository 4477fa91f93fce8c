package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vf552639/fastpanel/cmd/fastpanel/commands"
	"github.com/vf552639/fastpanel/internal/config"
	"github.com/vf552639/fastpanel/internal/database"
	"github.com/vf552639/fastpanel/version"
)

var rootCmd = &cobra.Command{
	Use:   "fastpanel",
	Short: "Remote FastPanel provisioning over SSH",
	Long: `fastpanel provisions the FastPanel hosting control panel onto remote Linux
servers over SSH and automates per-domain setup on the provisioned hosts.

Typical flow:

1. Register a server:

   fastpanel server add vps1 root@203.0.113.10

2. Install the panel on it:

   fastpanel server install vps1

   The command probes the OS, downloads and runs the official installer,
   opens the admin port in the firewall (Debian-family hosts), and stores
   the resulting admin URL and password.

3. Add domains and automate their setup:

   fastpanel domain add example.com --server vps1
   fastpanel domain automate --server vps1

   Each domain gets a site, an FTP account, and a Let's Encrypt
   certificate.

4. Optionally point DNS at the server:

   fastpanel dns point example.com --server vps1

   Creates the Cloudflare zone and A records and switches the domain's
   nameservers at Namecheap. API credentials are stored with
   'fastpanel settings set'.

Configuration is read from the file named by FASTPANEL_CONFIG (YAML),
FASTPANEL_-prefixed environment variables, and an optional .env file.`,
	Version: fmt.Sprintf("%s (commit: %s, date: %s)", version.Version, version.Commit, version.Date),
}

func main() {
	cfg, err := config.NewLoader().Load(os.Getenv("FASTPANEL_CONFIG"))
	if err != nil {
		rootCmd.PrintErrf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Init(cfg.DatabasePath)
	if err != nil {
		rootCmd.PrintErrf("Failed to initialize database at %s: %v\n", cfg.DatabasePath, err)
		os.Exit(1)
	}

	commands.RegisterCommands(rootCmd, db, cfg)

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrf("%v\n", err)
	}

	defer func() {
		if err := database.Close(db); err != nil {
			rootCmd.PrintErrf("Failed to close database: %v\n", err)
		}
	}()
}
