package install

import (
	"fmt"
	"strings"

	"github.com/vf552639/fastpanel/internal/config"
)

// PanelInfo describes an existing panel installation on a host.
type PanelInfo struct {
	Installed bool
	Version   string
	AdminURL  string
	Services  map[string]bool
}

var panelServices = []string{"nginx", "mysql", "php-fpm", "fastpanel"}

// Inspect checks whether the panel is already installed on the host behind
// an open session. Used both by the status command and as a pre-install
// guard: installing over an existing panel is refused.
func Inspect(executor Executor, cfg *config.Config, host string) PanelInfo {
	info := PanelInfo{}

	lookup := executor.Run("command -v "+cfg.PanelCLIBinary, false, cfg.CommandTimeout)
	if !lookup.Success || strings.TrimSpace(lookup.Stdout) == "" {
		fallback := executor.Run("test -x "+cfg.PanelCLIFallbackPath, false, cfg.CommandTimeout)
		if !fallback.Success {
			return info
		}
	}

	info.Installed = true
	info.AdminURL = fmt.Sprintf("https://%s:%d", host, cfg.AdminPort)

	version := executor.Run(cfg.PanelCLIBinary+" --version 2>/dev/null || echo unknown", false, cfg.CommandTimeout)
	if version.Success {
		info.Version = strings.TrimSpace(version.Stdout)
	}

	info.Services = map[string]bool{}
	for _, service := range panelServices {
		outcome := executor.Run("systemctl is-active "+service, false, cfg.CommandTimeout)
		info.Services[service] = strings.TrimSpace(outcome.Stdout) == "active"
	}

	return info
}
