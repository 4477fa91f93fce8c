// Package osprobe classifies the operating system of a remote host from its
// /etc/os-release file. Family and package manager are a pure function of the
// parsed key-value text; an unrecognized distribution is reported as a
// detection failure, never silently defaulted.
package osprobe

import (
	"fmt"
	"strings"
	"time"

	"github.com/vf552639/fastpanel/internal/ssh"
)

type Family string

const (
	FamilyDebian  Family = "debian"
	FamilyCentOS  Family = "centos"
	FamilyUnknown Family = "unknown"
)

const releaseCommand = "cat /etc/os-release"

const probeTimeout = 30 * time.Second

// Profile is the result of OS detection, derived fresh on each pipeline run.
type Profile struct {
	Name           string
	Family         Family
	Version        string
	PackageManager string
}

// Runner is the slice of the command executor the prober needs.
type Runner interface {
	Run(command string, wantsPty bool, timeout time.Duration) ssh.CommandResult
}

type classification struct {
	id      string
	family  Family
	manager string
	// supported version-majors; empty means any recognized version passes
	versions []string
}

var classifications = []classification{
	{id: "ubuntu", family: FamilyDebian, manager: "apt", versions: []string{"20", "22", "24"}},
	{id: "debian", family: FamilyDebian, manager: "apt", versions: []string{"9", "10", "11", "12"}},
	{id: "centos", family: FamilyCentOS, manager: "yum", versions: []string{"7"}},
	{id: "almalinux", family: FamilyCentOS, manager: "yum", versions: []string{"8", "9"}},
	{id: "rocky", family: FamilyCentOS, manager: "yum", versions: []string{"8", "9"}},
}

// Probe runs the fixed OS-identification command and classifies the result.
// On any error the returned profile still carries the detected name and
// version (when available) so the failure can name the actual system.
func Probe(runner Runner) (*Profile, error) {
	result := runner.Run(releaseCommand, false, probeTimeout)
	if !result.Success {
		return nil, fmt.Errorf("%w: exit code %d: %s", ErrReleaseFileUnreadable, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	fields := parseRelease(result.Stdout)
	if len(fields) == 0 {
		return nil, ErrReleaseFileUnparseable
	}

	profile := &Profile{
		Name:    displayName(fields),
		Family:  FamilyUnknown,
		Version: fields["VERSION_ID"],
	}

	id := strings.ToLower(fields["ID"])
	for _, c := range classifications {
		if !strings.Contains(id, c.id) {
			continue
		}
		if len(c.versions) > 0 && !contains(c.versions, versionMajor(profile.Version)) {
			return profile, fmt.Errorf("%w: %s %s", ErrUnsupportedVersion, profile.Name, profile.Version)
		}
		profile.Family = c.family
		profile.PackageManager = c.manager
		return profile, nil
	}

	return profile, fmt.Errorf("%w: %s %s", ErrUnrecognizedDistribution, profile.Name, profile.Version)
}

// parseRelease parses KEY=VALUE lines with optionally quoted values.
func parseRelease(text string) map[string]string {
	fields := map[string]string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	return fields
}

func displayName(fields map[string]string) string {
	for _, key := range []string{"PRETTY_NAME", "NAME", "ID"} {
		if fields[key] != "" {
			return fields[key]
		}
	}
	return "unknown"
}

func versionMajor(version string) string {
	major, _, _ := strings.Cut(version, ".")
	return major
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
