package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vf552639/fastpanel/internal/domains"
	"github.com/vf552639/fastpanel/internal/settings"
	"github.com/vf552639/fastpanel/internal/sites"
	"github.com/vf552639/fastpanel/internal/ssh"
)

var (
	DomainServer    string
	AutomateLEEmail string
)

var DomainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Manage hosted domains",
	Long:  `Assign domains to servers and automate their setup: site creation, FTP accounts, and Let's Encrypt certificates.`,
}

var AddDomainCmd = &cobra.Command{
	Use:   "add domain --server name-or-host",
	Short: "Assign a domain to a server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.ToLower(strings.TrimSpace(args[0]))

		server, err := serversRepository.Get(DomainServer)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if _, err := domainsRepository.GetByName(name); err == nil {
			cmd.PrintErrf("❌ Error: domain %s is already registered\n", name)
			return
		}

		domain := &domains.Domain{
			Name:      name,
			ServerID:  server.ID,
			SSLStatus: sites.SSLStatusNotAttempted,
		}

		if err := domainsRepository.Save(domain); err != nil {
			cmd.PrintErrf("❌ Error: failed to save domain: %v\n", err)
			return
		}

		cmd.Printf("✅ Domain %s assigned to server %q\n", name, server.Name)
	},
}

var ListDomainsCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered domains",
	Run: func(cmd *cobra.Command, _ []string) {
		var all []domains.Domain
		var err error

		if DomainServer != "" {
			server, lookupErr := serversRepository.Get(DomainServer)
			if lookupErr != nil {
				cmd.PrintErrf("❌ Error: %v\n", lookupErr)
				return
			}
			all, err = domainsRepository.GetByServer(server.ID)
		} else {
			all, err = domainsRepository.GetAll()
		}

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if len(all) == 0 {
			cmd.Printf("No domains registered. Use 'fastpanel domain add' first.\n")
			return
		}

		for _, domain := range all {
			site := "no site"
			if domain.SitePath != "" {
				site = domain.SitePath
			}
			cmd.Printf("%s\tssl: %s\t%s\n", domain.Name, domain.SSLStatus, site)
		}
	},
}

var RemoveDomainCmd = &cobra.Command{
	Use:   "remove domain",
	Short: "Remove a registered domain",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.ToLower(strings.TrimSpace(args[0]))

		if _, err := domainsRepository.GetByName(name); err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if err := domainsRepository.Delete(name); err != nil {
			cmd.PrintErrf("❌ Error: failed to remove domain: %v\n", err)
			return
		}

		cmd.Printf("✅ Domain %s removed\n", name)
	},
}

var AutomateDomainsCmd = &cobra.Command{
	Use:   "automate [domain...] --server name-or-host",
	Short: "Create sites, FTP accounts, and certificates for domains",
	Long: `Run the site automation pipeline on a server: for each domain, create the
site, create an FTP account with a generated password, and issue a Let's
Encrypt certificate. Without positional arguments, all domains assigned to
the server are processed. Step failures are reported per domain and never
abort the run.`,
	Run: func(cmd *cobra.Command, args []string) {
		server, err := serversRepository.Get(DomainServer)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		records, err := automationTargets(server.ID, args)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}
		if len(records) == 0 {
			cmd.Printf("No domains to automate on server %q\n", server.Name)
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

		email := AutomateLEEmail
		if email == "" {
			email = settingsRepository.Get(settings.KeyLEEmail)
		}

		pipeline := sites.New(executor, cfg, settingsRepository.Get(settings.KeyPanelCLIPath), logger, progressPrinter(cmd.OutOrStdout()))

		names := make([]string, 0, len(records))
		byName := make(map[string]*domains.Domain, len(records))
		for i := range records {
			names = append(names, records[i].Name)
			byName[records[i].Name] = &records[i]
		}

		results := pipeline.Automate(names, email)

		failed := 0
		for _, result := range results {
			record := byName[result.Domain]
			if record != nil {
				record.Account = result.Account
				record.SitePath = result.SitePath
				if result.FTPLogin != "" {
					record.FTPLogin = result.FTPLogin
					record.FTPPassword = result.FTPPassword
				}
				record.SSLStatus = result.SSLStatus
				if err := domainsRepository.Save(record); err != nil {
					cmd.PrintErrf("⚠️  Could not record results for %s: %v\n", result.Domain, err)
				}
			}

			if len(result.Failures) > 0 {
				failed++
				cmd.PrintErrf("⚠️  %s finished with problems:\n", result.Domain)
				for _, failure := range result.Failures {
					cmd.PrintErrf("   - %s\n", failure)
				}
				continue
			}

			cmd.Printf("✅ %s: site %s, FTP login %s, ssl %s\n", result.Domain, result.SitePath, result.FTPLogin, result.SSLStatus)
		}

		if failed > 0 {
			cmd.PrintErrf("Finished: %d of %d domains had problems\n", failed, len(results))
		}
	},
}

// automationTargets resolves the domain records to process: the named ones
// when positional arguments were given (all of which must belong to the
// server), otherwise every domain assigned to the server.
func automationTargets(serverID string, args []string) ([]domains.Domain, error) {
	if len(args) == 0 {
		return domainsRepository.GetByServer(serverID)
	}

	records := make([]domains.Domain, 0, len(args))
	for _, arg := range args {
		name := strings.ToLower(strings.TrimSpace(arg))
		record, err := domainsRepository.GetByName(name)
		if err != nil {
			return nil, err
		}
		if record.ServerID != serverID {
			return nil, domains.ErrDomainNotFound
		}
		records = append(records, *record)
	}
	return records, nil
}

func init() {
	DomainCmd.AddCommand(AddDomainCmd)
	DomainCmd.AddCommand(ListDomainsCmd)
	DomainCmd.AddCommand(RemoveDomainCmd)
	DomainCmd.AddCommand(AutomateDomainsCmd)

	AddDomainCmd.Flags().StringVar(&DomainServer, "server", "", "Server name or host the domain belongs to")
	_ = AddDomainCmd.MarkFlagRequired("server")

	ListDomainsCmd.Flags().StringVar(&DomainServer, "server", "", "Only list domains assigned to this server")

	AutomateDomainsCmd.Flags().StringVar(&DomainServer, "server", "", "Server name or host to run the automation on")
	_ = AutomateDomainsCmd.MarkFlagRequired("server")
	AutomateDomainsCmd.Flags().StringVar(&AutomateLEEmail, "email", "", "Contact email for Let's Encrypt (defaults to the stored letsencrypt_email setting)")
	AutomateDomainsCmd.Flags().String("ssh-key-path", "", "Path to SSH private key file (for passwordless authentication)")
}
