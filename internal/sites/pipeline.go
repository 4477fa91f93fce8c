// Package sites automates per-domain setup on an already-provisioned host:
// site creation, FTP account creation, and TLS issuance through the panel
// CLI, over one shared SSH session. Domains are processed sequentially in
// caller order; the panel CLI is not assumed safe for concurrent invocation.
package sites

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vf552639/fastpanel/internal/config"
	"github.com/vf552639/fastpanel/internal/progress"
	"github.com/vf552639/fastpanel/internal/ssh"
	"github.com/vf552639/fastpanel/internal/templates"
)

// TLS issuance status values for DomainResult.SSLStatus.
const (
	SSLStatusActive       = "active"
	SSLStatusError        = "error"
	SSLStatusNotAttempted = "not-attempted"
)

// Executor is the slice of the SSH executor the pipeline needs. The caller
// owns the session; this pipeline never connects or disconnects.
type Executor interface {
	Run(command string, wantsPty bool, timeout time.Duration) ssh.CommandResult
}

// DomainResult is the per-domain outcome. All remote errors are captured in
// Failures; the pipeline never raises past its own boundary.
type DomainResult struct {
	Domain      string
	Account     string
	SitePath    string
	SiteCreated bool
	FTPLogin    string
	FTPPassword string
	SSLStatus   string
	Failures    []string
}

type Pipeline struct {
	executor    Executor
	cfg         *config.Config
	cliOverride string
	logger      zerolog.Logger
	report      progress.Func
}

// New creates the pipeline. cliOverride, when non-empty, takes precedence
// over CLI path discovery on the host (typically a user setting).
func New(executor Executor, cfg *config.Config, cliOverride string, logger zerolog.Logger, report progress.Func) *Pipeline {
	if report == nil {
		report = progress.Nop
	}
	return &Pipeline{
		executor:    executor,
		cfg:         cfg,
		cliOverride: cliOverride,
		logger:      logger.With().Str("component", "sites").Logger(),
		report:      report,
	}
}

// Automate runs the per-domain step sequence for every domain, in the given
// order. Steps are independent: a failed FTP or certificate step neither
// aborts the remaining steps for that domain nor the remaining domains. Only
// a missing panel CLI fails a domain entirely, since nothing can proceed
// without it.
func (p *Pipeline) Automate(domainNames []string, email string) []DomainResult {
	cli, cliErr := p.resolveCLI()
	if cliErr != nil {
		p.logger.Error().Err(cliErr).Msg("panel CLI resolution failed")
	}

	results := make([]DomainResult, 0, len(domainNames))
	total := len(domainNames)

	for i, domain := range domainNames {
		result := DomainResult{Domain: domain, SSLStatus: SSLStatusNotAttempted}

		if cliErr != nil {
			result.Failures = append(result.Failures, cliErr.Error())
			p.emit(domain, "skipped: "+cliErr.Error(), i, 3, total)
			results = append(results, result)
			continue
		}

		p.createSite(cli, domain, &result, i, total)
		p.createFTPAccount(cli, domain, &result, i, total)
		p.issueCertificate(cli, domain, email, &result, i, total)

		results = append(results, result)
	}

	return results
}

// emit prefixes every progress line with the domain so a multi-domain run's
// log stays attributable.
func (p *Pipeline) emit(domain, message string, index, step, total int) {
	fraction := 1.0
	if total > 0 {
		fraction = (float64(index)*3 + float64(step)) / (float64(total) * 3)
	}
	p.report(fmt.Sprintf("[%s] %s", domain, message), fraction)
}

func (p *Pipeline) resolveCLI() (string, error) {
	if p.cliOverride != "" {
		return p.cliOverride, nil
	}

	lookup := p.executor.Run("command -v "+p.cfg.PanelCLIBinary, false, p.cfg.CommandTimeout)
	if lookup.Success {
		if path := firstLine(lookup.Stdout); path != "" {
			return path, nil
		}
	}

	fallback := p.executor.Run("test -x "+p.cfg.PanelCLIFallbackPath, false, p.cfg.CommandTimeout)
	if fallback.Success {
		return p.cfg.PanelCLIFallbackPath, nil
	}

	return "", ErrPanelCLINotFound
}

// createSite invokes the panel's site-creation command, then verifies the
// site directory actually exists before declaring success: the CLI is known
// to exit zero without doing anything.
func (p *Pipeline) createSite(cli, domain string, result *DomainResult, index, total int) {
	account := AccountName(domain)
	result.Account = account

	p.emit(domain, "creating site (account "+account+")", index, 0, total)

	cmd, err := templates.Render("scripts/sites/create.hbs", map[string]string{
		"cli":     cli,
		"domain":  domain,
		"account": account,
	})
	if err != nil {
		result.Failures = append(result.Failures, "site creation: "+err.Error())
		return
	}

	outcome := p.executor.Run(cmd, false, p.cfg.CommandTimeout)

	sitePath := fmt.Sprintf("/var/www/%s/data/www/%s", account, domain)
	verify := p.executor.Run("test -d "+sitePath, false, p.cfg.CommandTimeout)
	if !verify.Success {
		message := fmt.Sprintf("site directory %s missing after create (exit code %d)", sitePath, outcome.ExitCode)
		result.Failures = append(result.Failures, message)
		p.emit(domain, message, index, 0, total)
		p.logger.Warn().Str("domain", domain).Int("exit_code", outcome.ExitCode).Msg("site creation not verified")
		return
	}

	result.SiteCreated = true
	result.SitePath = sitePath
	p.emit(domain, "site created at "+sitePath, index, 0, total)
}

func (p *Pipeline) createFTPAccount(cli, domain string, result *DomainResult, index, total int) {
	login := AccountName(domain)

	p.emit(domain, "creating FTP account "+login, index, 1, total)

	password, err := GeneratePassword(p.cfg.FTPPasswordLength)
	if err != nil {
		result.Failures = append(result.Failures, "ftp password generation: "+err.Error())
		return
	}

	cmd, err := templates.Render("scripts/sites/ftp.hbs", map[string]string{
		"cli":      cli,
		"domain":   domain,
		"login":    login,
		"password": password,
	})
	if err != nil {
		result.Failures = append(result.Failures, "ftp creation: "+err.Error())
		return
	}

	outcome := p.executor.Run(cmd, false, p.cfg.CommandTimeout)
	if !outcome.Success {
		message := fmt.Sprintf("FTP account creation failed (exit code %d)", outcome.ExitCode)
		result.Failures = append(result.Failures, message)
		p.emit(domain, message, index, 1, total)
		return
	}

	result.FTPLogin = login
	result.FTPPassword = password
	p.emit(domain, "FTP account created", index, 1, total)
}

func (p *Pipeline) issueCertificate(cli, domain, email string, result *DomainResult, index, total int) {
	if email == "" {
		email = p.cfg.DefaultLEEmail
	}
	if email == "" {
		result.SSLStatus = SSLStatusNotAttempted
		result.Failures = append(result.Failures, "certificate issuance skipped: no contact email configured")
		p.emit(domain, "certificate skipped: no contact email", index, 2, total)
		return
	}

	p.emit(domain, "requesting Let's Encrypt certificate", index, 2, total)

	cmd, err := templates.Render("scripts/sites/cert.hbs", map[string]string{
		"cli":    cli,
		"domain": domain,
		"email":  email,
	})
	if err != nil {
		result.SSLStatus = SSLStatusError
		result.Failures = append(result.Failures, "certificate issuance: "+err.Error())
		return
	}

	outcome := p.executor.Run(cmd, false, p.cfg.CommandTimeout)
	if !outcome.Success {
		result.SSLStatus = SSLStatusError
		message := fmt.Sprintf("certificate issuance failed (exit code %d)", outcome.ExitCode)
		result.Failures = append(result.Failures, message)
		p.emit(domain, message, index, 2, total)
		return
	}

	result.SSLStatus = SSLStatusActive
	p.emit(domain, "certificate issued", index, 2, total)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
