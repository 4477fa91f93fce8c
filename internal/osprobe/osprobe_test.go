package osprobe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vf552639/fastpanel/internal/ssh"
)

type fakeRunner struct {
	result  ssh.CommandResult
	command string
}

func (f *fakeRunner) Run(command string, wantsPty bool, timeout time.Duration) ssh.CommandResult {
	f.command = command
	return f.result
}

func releaseRunner(stdout string) *fakeRunner {
	return &fakeRunner{result: ssh.CommandResult{Success: true, Stdout: stdout}}
}

func TestProbeClassification(t *testing.T) {
	tests := []struct {
		name    string
		release string
		family  Family
		manager string
	}{
		{
			name:    "ubuntu 22",
			release: "NAME=\"Ubuntu\"\nID=ubuntu\nVERSION_ID=\"22.04\"\nPRETTY_NAME=\"Ubuntu 22.04.4 LTS\"",
			family:  FamilyDebian,
			manager: "apt",
		},
		{
			name:    "debian 12",
			release: "ID=debian\nNAME=\"Debian GNU/Linux\"\nVERSION_ID=\"12\"",
			family:  FamilyDebian,
			manager: "apt",
		},
		{
			name:    "centos 7",
			release: "ID=\"centos\"\nNAME=\"CentOS Linux\"\nVERSION_ID=\"7\"",
			family:  FamilyCentOS,
			manager: "yum",
		},
		{
			name:    "almalinux 9",
			release: "ID=\"almalinux\"\nNAME=\"AlmaLinux\"\nVERSION_ID=\"9.3\"",
			family:  FamilyCentOS,
			manager: "yum",
		},
		{
			name:    "rocky 8",
			release: "ID=\"rocky\"\nNAME=\"Rocky Linux\"\nVERSION_ID=\"8.9\"",
			family:  FamilyCentOS,
			manager: "yum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := Probe(releaseRunner(tt.release))

			require.NoError(t, err)
			assert.Equal(t, tt.family, profile.Family)
			assert.Equal(t, tt.manager, profile.PackageManager)
		})
	}
}

func TestProbeUnrecognizedDistribution(t *testing.T) {
	runner := releaseRunner("NAME=\"Windows Server\"\nVERSION_ID=\"2022\"")

	profile, err := Probe(runner)

	require.ErrorIs(t, err, ErrUnrecognizedDistribution)
	assert.Contains(t, err.Error(), "Windows Server")
	assert.Equal(t, FamilyUnknown, profile.Family)
	assert.Empty(t, profile.PackageManager)
}

func TestProbeUnsupportedVersion(t *testing.T) {
	runner := releaseRunner("ID=ubuntu\nNAME=\"Ubuntu\"\nVERSION_ID=\"18.04\"\nPRETTY_NAME=\"Ubuntu 18.04.6 LTS\"")

	profile, err := Probe(runner)

	require.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.Contains(t, err.Error(), "Ubuntu")
	assert.Contains(t, err.Error(), "18.04")
	assert.Equal(t, FamilyUnknown, profile.Family)
}

func TestProbeUnreadableFile(t *testing.T) {
	runner := &fakeRunner{result: ssh.CommandResult{ExitCode: 1, Stderr: "cat: /etc/os-release: No such file or directory"}}

	_, err := Probe(runner)

	require.ErrorIs(t, err, ErrReleaseFileUnreadable)
	assert.Contains(t, err.Error(), "No such file")
}

func TestProbeUnparseableOutput(t *testing.T) {
	runner := releaseRunner("   \n\n")

	_, err := Probe(runner)

	require.ErrorIs(t, err, ErrReleaseFileUnparseable)
}

func TestProbeRunsFixedCommand(t *testing.T) {
	runner := releaseRunner("ID=debian\nVERSION_ID=\"12\"")

	_, err := Probe(runner)

	require.NoError(t, err)
	assert.Equal(t, "cat /etc/os-release", runner.command)
}

func TestParseReleaseQuoting(t *testing.T) {
	fields := parseRelease("ID='ubuntu'\nPRETTY_NAME=\"Ubuntu 22.04\"\nEMPTY=\n# comment\nbroken line")

	assert.Equal(t, "ubuntu", fields["ID"])
	assert.Equal(t, "Ubuntu 22.04", fields["PRETTY_NAME"])
	assert.Equal(t, "", fields["EMPTY"])
	assert.NotContains(t, fields, "# comment")
}
