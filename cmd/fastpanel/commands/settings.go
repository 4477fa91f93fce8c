package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

var SettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage stored settings",
	Long: `Store and inspect settings used by the DNS and automation commands.

Well-known keys:

  cloudflare_api_token   Cloudflare global API key
  cloudflare_email       Cloudflare account email
  namecheap_api_user     Namecheap API username
  namecheap_api_key      Namecheap API key
  letsencrypt_email      Default contact email for certificates
  panel_cli_path         Override for the panel CLI path on servers`,
}

var SetSettingCmd = &cobra.Command{
	Use:   "set key [value]",
	Short: "Store a setting",
	Long:  `Store a setting. When the value is omitted it is prompted for without echoing, which keeps API keys out of shell history.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		key := strings.ToLower(strings.TrimSpace(args[0]))

		var value string
		if len(args) == 2 {
			value = args[1]
		} else {
			secret, err := readPasswordSecurely("🔒 Enter value: ", cmd.ErrOrStderr())
			if err != nil {
				cmd.PrintErrf("❌ Error: failed to read value: %v\n", err)
				return
			}
			value = secret
		}

		if err := settingsRepository.Save(key, value); err != nil {
			cmd.PrintErrf("❌ Error: failed to save setting: %v\n", err)
			return
		}

		cmd.Printf("✅ Setting %s saved\n", key)
	},
}

var GetSettingCmd = &cobra.Command{
	Use:   "get key",
	Short: "Print a stored setting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := strings.ToLower(strings.TrimSpace(args[0]))

		value := settingsRepository.Get(key)
		if value == "" {
			cmd.PrintErrf("Setting %s is not set\n", key)
			return
		}

		cmd.Printf("%s\n", value)
	},
}

var ListSettingsCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored settings",
	Long:  `List stored settings. Values of keys that look secret are masked.`,
	Run: func(cmd *cobra.Command, _ []string) {
		all, err := settingsRepository.GetAll()
		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		if len(all) == 0 {
			cmd.Printf("No settings stored\n")
			return
		}

		for _, setting := range all {
			cmd.Printf("%s\t%s\n", setting.Key, maskSecret(setting.Key, setting.Value))
		}
	},
}

func maskSecret(key, value string) string {
	if strings.Contains(key, "key") || strings.Contains(key, "token") || strings.Contains(key, "password") {
		if len(value) <= 4 {
			return "****"
		}
		return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
	}
	return value
}

func init() {
	SettingsCmd.AddCommand(SetSettingCmd)
	SettingsCmd.AddCommand(GetSettingCmd)
	SettingsCmd.AddCommand(ListSettingsCmd)
}
