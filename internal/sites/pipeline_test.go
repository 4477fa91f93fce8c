package sites

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vf552639/fastpanel/internal/config"
	"github.com/vf552639/fastpanel/internal/ssh"
)

type fakeExecutor struct {
	commands []string
	onRun    func(command string) ssh.CommandResult
}

func (f *fakeExecutor) Run(command string, wantsPty bool, timeout time.Duration) ssh.CommandResult {
	f.commands = append(f.commands, command)
	if f.onRun != nil {
		return f.onRun(command)
	}
	return ssh.CommandResult{Success: true, ExitCode: 0}
}

func (f *fakeExecutor) count(substr string) int {
	n := 0
	for _, cmd := range f.commands {
		if strings.Contains(cmd, substr) {
			n++
		}
	}
	return n
}

type eventRecorder struct {
	messages []string
}

func (r *eventRecorder) report(message string, fraction float64) {
	r.messages = append(r.messages, message)
}

func testPipeline(executor Executor, cliOverride string) (*Pipeline, *eventRecorder) {
	recorder := &eventRecorder{}
	cfg := config.Default()
	cfg.DefaultLEEmail = "admin@example.com"
	logger := zerolog.New(io.Discard)
	return New(executor, cfg, cliOverride, logger, recorder.report), recorder
}

// allOK answers every command with success, including the CLI lookup and the
// site directory check.
func allOK(command string) ssh.CommandResult {
	if strings.HasPrefix(command, "command -v") {
		return ssh.CommandResult{Success: true, Stdout: "/usr/bin/fastpanel\n", ExitCode: 0}
	}
	return ssh.CommandResult{Success: true, ExitCode: 0}
}

func TestAutomateHappyPath(t *testing.T) {
	executor := &fakeExecutor{onRun: allOK}
	pipeline, recorder := testPipeline(executor, "")

	results := pipeline.Automate([]string{"example.com"}, "")

	require.Len(t, results, 1)
	result := results[0]

	assert.True(t, result.SiteCreated)
	assert.Equal(t, "example", result.Account)
	assert.Equal(t, "/var/www/example/data/www/example.com", result.SitePath)
	assert.Equal(t, "example", result.FTPLogin)
	assert.Len(t, result.FTPPassword, 16)
	assert.Equal(t, SSLStatusActive, result.SSLStatus)
	assert.Empty(t, result.Failures)

	assert.Equal(t, 1, executor.count("site create --domain example.com"))
	assert.Equal(t, 1, executor.count("ftp create --domain example.com"))
	assert.Equal(t, 1, executor.count("certificate issue --domain example.com"))
	assert.Equal(t, 1, executor.count("--email admin@example.com"))

	for _, msg := range recorder.messages {
		assert.True(t, strings.HasPrefix(msg, "[example.com]"), "message %q lacks domain prefix", msg)
	}
}

func TestAutomateFTPFailureDoesNotStopCertificate(t *testing.T) {
	executor := &fakeExecutor{onRun: func(command string) ssh.CommandResult {
		if strings.Contains(command, "ftp create") {
			return ssh.CommandResult{Success: false, ExitCode: 1}
		}
		return allOK(command)
	}}
	pipeline, _ := testPipeline(executor, "")

	results := pipeline.Automate([]string{"example.com", "other.net"}, "")

	require.Len(t, results, 2)

	first := results[0]
	assert.True(t, first.SiteCreated)
	assert.Empty(t, first.FTPLogin)
	assert.Empty(t, first.FTPPassword)
	assert.Equal(t, SSLStatusActive, first.SSLStatus)
	require.Len(t, first.Failures, 1)
	assert.Contains(t, first.Failures[0], "FTP account creation failed")

	// the second domain is still processed in full
	assert.Equal(t, 1, executor.count("site create --domain other.net"))
	assert.Equal(t, 1, executor.count("certificate issue --domain other.net"))
}

func TestAutomateSiteVerificationFailure(t *testing.T) {
	executor := &fakeExecutor{onRun: func(command string) ssh.CommandResult {
		if strings.HasPrefix(command, "test -d ") {
			return ssh.CommandResult{Success: false, ExitCode: 1}
		}
		return allOK(command)
	}}
	pipeline, _ := testPipeline(executor, "")

	results := pipeline.Automate([]string{"example.com"}, "")

	require.Len(t, results, 1)
	result := results[0]

	assert.False(t, result.SiteCreated)
	assert.Empty(t, result.SitePath)
	require.NotEmpty(t, result.Failures)
	assert.Contains(t, result.Failures[0], "site directory /var/www/example/data/www/example.com missing")

	// the remaining steps still run
	assert.Equal(t, 1, executor.count("ftp create"))
	assert.Equal(t, 1, executor.count("certificate issue"))
}

func TestResolveCLIUsesOverride(t *testing.T) {
	executor := &fakeExecutor{onRun: allOK}
	pipeline, _ := testPipeline(executor, "/opt/custom/fastpanel")

	pipeline.Automate([]string{"example.com"}, "")

	assert.Zero(t, executor.count("command -v"))
	assert.Equal(t, 1, executor.count("/opt/custom/fastpanel site create"))
}

func TestResolveCLIFallsBackToFixedPath(t *testing.T) {
	executor := &fakeExecutor{onRun: func(command string) ssh.CommandResult {
		if strings.HasPrefix(command, "command -v") {
			return ssh.CommandResult{Success: false, ExitCode: 1}
		}
		return allOK(command)
	}}
	pipeline, _ := testPipeline(executor, "")

	results := pipeline.Automate([]string{"example.com"}, "")

	require.Len(t, results, 1)
	assert.Empty(t, results[0].Failures)
	assert.Equal(t, 1, executor.count("test -x /usr/local/fastpanel2/fastpanel"))
	assert.Equal(t, 1, executor.count("/usr/local/fastpanel2/fastpanel site create"))
}

func TestResolveCLINotFoundSkipsEverything(t *testing.T) {
	executor := &fakeExecutor{onRun: func(command string) ssh.CommandResult {
		return ssh.CommandResult{Success: false, ExitCode: 1}
	}}
	pipeline, recorder := testPipeline(executor, "")

	results := pipeline.Automate([]string{"example.com", "other.net"}, "")

	require.Len(t, results, 2)
	for _, result := range results {
		assert.False(t, result.SiteCreated)
		assert.Equal(t, SSLStatusNotAttempted, result.SSLStatus)
		require.Len(t, result.Failures, 1)
		assert.Contains(t, result.Failures[0], "panel CLI not found")
	}

	assert.Zero(t, executor.count("site create"))
	assert.Zero(t, executor.count("ftp create"))

	skipped := 0
	for _, msg := range recorder.messages {
		if strings.Contains(msg, "skipped") {
			skipped++
		}
	}
	assert.Equal(t, 2, skipped)
}

func TestAutomateNoEmailSkipsCertificate(t *testing.T) {
	executor := &fakeExecutor{onRun: allOK}
	recorder := &eventRecorder{}
	cfg := config.Default()
	pipeline := New(executor, cfg, "", zerolog.New(io.Discard), recorder.report)

	results := pipeline.Automate([]string{"example.com"}, "")

	require.Len(t, results, 1)
	assert.Equal(t, SSLStatusNotAttempted, results[0].SSLStatus)
	assert.Zero(t, executor.count("certificate issue"))
	require.Len(t, results[0].Failures, 1)
	assert.Contains(t, results[0].Failures[0], "no contact email")
}

func TestAutomateExplicitEmailOverridesDefault(t *testing.T) {
	executor := &fakeExecutor{onRun: allOK}
	pipeline, _ := testPipeline(executor, "")

	pipeline.Automate([]string{"example.com"}, "ops@corp.io")

	assert.Equal(t, 1, executor.count("--email ops@corp.io"))
	assert.Zero(t, executor.count("--email admin@example.com"))
}
