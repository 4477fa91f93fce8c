package commands

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vf552639/fastpanel/internal/dns/cloudflare"
	"github.com/vf552639/fastpanel/internal/dns/namecheap"
	"github.com/vf552639/fastpanel/internal/servers"
	"github.com/vf552639/fastpanel/internal/settings"
)

var DNSServer string

var DNSCmd = &cobra.Command{
	Use:   "dns",
	Short: "Point domains at servers through Cloudflare",
	Long: `Onboard domains into Cloudflare and switch their registrar nameservers.

Requires Cloudflare credentials in settings (cloudflare_api_token,
cloudflare_email). When Namecheap credentials (namecheap_api_user,
namecheap_api_key) are present the nameserver switch happens automatically;
otherwise the assigned nameservers are printed for a manual change.`,
}

var PointDNSCmd = &cobra.Command{
	Use:   "point domain --server name-or-host",
	Short: "Create a Cloudflare zone and A records for a domain",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.ToLower(strings.TrimSpace(args[0]))

		domain, err := domainsRepository.GetByName(name)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		var server *servers.Server
		if DNSServer != "" {
			server, err = serversRepository.Get(DNSServer)
		} else {
			server, err = serversRepository.GetByID(domain.ServerID)
		}
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		apiKey := settingsRepository.Get(settings.KeyCloudflareToken)
		email := settingsRepository.Get(settings.KeyCloudflareEmail)

		service, err := cloudflare.NewService(apiKey, email, logger)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v (set cloudflare_api_token and cloudflare_email with 'fastpanel settings set')\n", err)
			return
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		cmd.Printf("🌐 Creating Cloudflare zone for %s...\n", name)
		zone, err := service.AddZone(ctx, name)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Printf("🌐 Creating A records pointing at %s...\n", server.Host)
		created, err := service.CreateARecords(ctx, zone.ID, name, server.Host)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}
		cmd.Printf("✅ %d A records in place\n", created)

		domain.CloudflareZoneID = zone.ID
		domain.CloudflareNS = strings.Join(zone.NameServers, ",")
		domain.CloudflareStatus = zone.Status
		if err := domainsRepository.Save(domain); err != nil {
			cmd.PrintErrf("⚠️  Could not record zone details: %v\n", err)
		}

		ncUser := settingsRepository.Get(settings.KeyNamecheapUser)
		ncKey := settingsRepository.Get(settings.KeyNamecheapKey)
		if ncUser == "" || ncKey == "" {
			cmd.Printf("ℹ️  Namecheap credentials not configured; set these nameservers at your registrar manually:\n")
			for _, ns := range zone.NameServers {
				cmd.Printf("   %s\n", ns)
			}
			return
		}

		registrar, err := namecheap.NewService(ncUser, ncKey, logger)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Printf("🌐 Switching nameservers at Namecheap...\n")
		if err := registrar.SetCustomNameservers(name, zone.NameServers); err != nil {
			cmd.PrintErrf("⚠️  Nameserver switch failed: %v\n", err)
			cmd.Printf("Set these nameservers at your registrar manually:\n")
			for _, ns := range zone.NameServers {
				cmd.Printf("   %s\n", ns)
			}
			return
		}

		cmd.Printf("✅ %s now points at %s via Cloudflare (zone status: %s)\n", name, server.Host, zone.Status)
	},
}

var DNSStatusCmd = &cobra.Command{
	Use:   "status domain",
	Short: "Check a domain's Cloudflare zone activation status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.ToLower(strings.TrimSpace(args[0]))

		domain, err := domainsRepository.GetByName(name)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		apiKey := settingsRepository.Get(settings.KeyCloudflareToken)
		email := settingsRepository.Get(settings.KeyCloudflareEmail)

		service, err := cloudflare.NewService(apiKey, email, logger)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		status, err := service.ZoneStatus(ctx, name)
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if status != domain.CloudflareStatus {
			domain.CloudflareStatus = status
			if err := domainsRepository.Save(domain); err != nil {
				cmd.PrintErrf("⚠️  Could not record zone status: %v\n", err)
			}
		}

		cmd.Printf("%s zone status: %s\n", name, status)
	},
}

func init() {
	DNSCmd.AddCommand(PointDNSCmd)
	DNSCmd.AddCommand(DNSStatusCmd)

	PointDNSCmd.Flags().StringVar(&DNSServer, "server", "", "Server name or host to point the domain at (defaults to the domain's assigned server)")
}
