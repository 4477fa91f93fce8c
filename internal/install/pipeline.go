// Package install drives the remote provisioning of the FastPanel control
// panel over one SSH session: OS detection, package preparation, installer
// download with bounded retries, streamed installer execution with output
// parsing, firewall adjustment, and cleanup. Steps execute strictly
// sequentially; the session is torn down on every exit path.
package install

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vf552639/fastpanel/internal/config"
	"github.com/vf552639/fastpanel/internal/osprobe"
	"github.com/vf552639/fastpanel/internal/progress"
	"github.com/vf552639/fastpanel/internal/ssh"
	"github.com/vf552639/fastpanel/internal/templates"
)

// Executor is the slice of the SSH executor the pipeline drives. The
// pipeline owns the session for the whole run.
type Executor interface {
	Connect(creds *ssh.Credentials, timeout time.Duration) bool
	Run(command string, wantsPty bool, timeout time.Duration) ssh.CommandResult
	RunStream(command string, onLine func(string)) ssh.CommandResult
	Disconnect()
}

// Result is the terminal outcome of one pipeline run. It is created once at
// pipeline end and never mutated afterwards.
type Result struct {
	Success       bool
	AdminURL      string
	AdminPassword string
	Error         string
	InstalledAt   time.Time
}

type Pipeline struct {
	executor Executor
	cfg      *config.Config
	logger   zerolog.Logger
	report   progress.Func
	sleep    func(time.Duration)
}

func New(executor Executor, cfg *config.Config, logger zerolog.Logger, report progress.Func) *Pipeline {
	if report == nil {
		report = progress.Nop
	}
	return &Pipeline{
		executor: executor,
		cfg:      cfg,
		logger:   logger.With().Str("component", "install").Logger(),
		report:   report,
		sleep:    time.Sleep,
	}
}

// Run executes the full install sequence against one host. Failures are
// folded into the result; no remote I/O error escapes this boundary. The
// admin URL is synthesized from host and the fixed admin port by convention:
// the installer's own URL announcements are not machine-stable.
func (p *Pipeline) Run(creds *ssh.Credentials) *Result {
	result := &Result{}

	p.report(fmt.Sprintf("Connecting to %s:%d as %s", creds.Host, creds.Port, creds.Username), 0.05)
	if !p.executor.Connect(creds, p.cfg.SSHTimeout) {
		result.Error = fmt.Sprintf("%v: %s", ErrCouldNotConnect, creds.Host)
		p.report(result.Error, 0.05)
		return result
	}
	defer p.executor.Disconnect()

	p.report("Detecting operating system", 0.1)
	profile, err := osprobe.Probe(p.executor)
	if err != nil {
		result.Error = err.Error()
		p.report("OS detection failed: "+err.Error(), 0.1)
		return result
	}
	p.report(fmt.Sprintf("Detected %s (%s, %s)", profile.Name, profile.Family, profile.PackageManager), 0.15)

	p.preparePackages(profile)

	if err := p.downloadInstaller(); err != nil {
		result.Error = err.Error()
		p.report(err.Error(), 0.3)
		p.cleanup()
		return result
	}

	parser := newOutputParser(p.cfg.FailureMarkers)
	outcome := p.executeInstaller(parser)
	p.classify(creds.Host, parser, outcome, result)

	if result.Success && profile.Family == osprobe.FamilyDebian {
		p.configureFirewall()
	}

	p.cleanup()

	if result.Success {
		p.report("Installation completed: "+result.AdminURL, 1.0)
	} else {
		p.report("Installation failed: "+result.Error, 1.0)
	}

	return result
}

// preparePackages runs the family-specific update+install command. A failure
// here is soft: package-index staleness is common and often harmless, and
// the download step fails loudly if prerequisites are truly missing.
func (p *Pipeline) preparePackages(profile *osprobe.Profile) {
	p.report("Preparing system packages ("+profile.PackageManager+")", 0.2)

	tplPath := "scripts/prepare/apt.hbs"
	if profile.Family == osprobe.FamilyCentOS {
		tplPath = "scripts/prepare/yum.hbs"
	}

	cmd, err := templates.Render(tplPath, nil)
	if err != nil {
		p.logger.Warn().Err(err).Msg("could not render package prepare command")
		return
	}

	outcome := p.executor.Run(cmd, false, p.cfg.CommandTimeout)
	if !outcome.Success {
		p.logger.Warn().Int("exit_code", outcome.ExitCode).Msg("package preparation failed, continuing")
		p.report("Package preparation failed, continuing anyway", 0.2)
	}
}

func (p *Pipeline) downloadInstaller() error {
	cmd, err := templates.Render("scripts/install/download.hbs", map[string]string{
		"installerURL":  p.cfg.InstallerURL,
		"installerPath": p.cfg.InstallerPath,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	var last ssh.CommandResult
	for attempt := 1; attempt <= p.cfg.DownloadRetries; attempt++ {
		p.report(fmt.Sprintf("Downloading installer (attempt %d/%d)", attempt, p.cfg.DownloadRetries), 0.25)

		last = p.executor.Run(cmd, false, p.cfg.CommandTimeout)
		if last.Success {
			p.report("Installer downloaded", 0.35)
			return nil
		}

		p.logger.Warn().Int("attempt", attempt).Int("exit_code", last.ExitCode).Msg("installer download failed")

		if attempt < p.cfg.DownloadRetries {
			p.report(fmt.Sprintf("Download failed (exit code %d), retrying in %s", last.ExitCode, p.cfg.DownloadRetryDelay), 0.25)
			p.sleep(p.cfg.DownloadRetryDelay)
		}
	}

	return fmt.Errorf("%w after %d attempts (last exit code %d)", ErrDownloadFailed, p.cfg.DownloadRetries, last.ExitCode)
}

func (p *Pipeline) executeInstaller(parser *outputParser) ssh.CommandResult {
	cmd, err := templates.Render("scripts/install/run.hbs", map[string]string{
		"installerPath": p.cfg.InstallerPath,
	})
	if err != nil {
		return ssh.CommandResult{Stderr: err.Error(), ExitCode: -1}
	}

	p.report("Running installer, this can take several minutes", 0.4)

	lineCount := 0
	return p.executor.RunStream(cmd, func(line string) {
		parser.feed(line)
		lineCount++
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			p.report(truncate(trimmed, 100), installFraction(lineCount))
		}
	})
}

// installFraction creeps the completion fraction forward as installer output
// arrives; the installer gives no usable percentage of its own.
func installFraction(lineCount int) float64 {
	fraction := 0.4 + float64(lineCount)*0.005
	if fraction > 0.9 {
		return 0.9
	}
	return fraction
}

// classify decides the terminal outcome. Exit code alone is not trusted:
// success requires both a clean process outcome and an extracted credential.
// The two failure sub-cases imply different remediation and are reported
// distinctly.
func (p *Pipeline) classify(host string, parser *outputParser, outcome ssh.CommandResult, result *Result) {
	switch {
	case parser.failed:
		result.Error = ErrInstallerFailed.Error()
	case outcome.ExitCode == -1:
		result.Error = fmt.Sprintf("%v: %s", ErrInstallerDidNotRun, strings.TrimSpace(outcome.Stderr))
	case !outcome.Success:
		result.Error = fmt.Sprintf("%v: %d", ErrInstallerExitedWith, outcome.ExitCode)
	case parser.password == "":
		result.Error = ErrPasswordNotFound.Error()
	default:
		result.Success = true
		result.AdminURL = fmt.Sprintf("https://%s:%d", host, p.cfg.AdminPort)
		result.AdminPassword = parser.password
		result.InstalledAt = time.Now()
	}
}

// configureFirewall opens the admin port when ufw is active. Every sub-step
// failure is a warning, never an overall pipeline failure: firewall-off is
// the common case and the panel is usually reachable regardless.
func (p *Pipeline) configureFirewall() {
	p.report("Checking firewall rules", 0.92)

	statusCmd, err := templates.Render("scripts/firewall/status.hbs", nil)
	if err != nil {
		p.logger.Warn().Err(err).Msg("could not render firewall status command")
		return
	}

	status := p.executor.Run(statusCmd, false, p.cfg.CommandTimeout)
	if !status.Success {
		p.logger.Warn().Int("exit_code", status.ExitCode).Msg("firewall status check failed")
		return
	}

	if !strings.Contains(strings.ToLower(status.Stdout), "status: active") {
		p.logger.Info().Msg("firewall inactive, no rule needed")
		return
	}

	port := fmt.Sprintf("%d", p.cfg.AdminPort)
	if strings.Contains(status.Stdout, port+"/tcp") {
		p.logger.Info().Str("port", port).Msg("admin port already allowed")
		return
	}

	allowCmd, err := templates.Render("scripts/firewall/allow.hbs", map[string]string{"port": port})
	if err != nil {
		p.logger.Warn().Err(err).Msg("could not render firewall allow command")
		return
	}

	if outcome := p.executor.Run(allowCmd, false, p.cfg.CommandTimeout); !outcome.Success {
		p.logger.Warn().Int("exit_code", outcome.ExitCode).Msg("could not add firewall rule")
		p.report("Could not open firewall port "+port, 0.93)
	} else {
		p.report("Firewall rule added for port "+port, 0.93)
	}
}

func (p *Pipeline) cleanup() {
	cmd, err := templates.Render("scripts/install/cleanup.hbs", map[string]string{
		"installerPath": p.cfg.InstallerPath,
	})
	if err != nil {
		return
	}

	if outcome := p.executor.Run(cmd, false, p.cfg.CommandTimeout); !outcome.Success {
		p.logger.Debug().Int("exit_code", outcome.ExitCode).Msg("could not remove installer script")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
