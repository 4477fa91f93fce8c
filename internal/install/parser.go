package install

import (
	"regexp"
	"strings"
)

var (
	ansiPattern     = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	passwordPattern = regexp.MustCompile(`(?i)password:\s*(\S+)`)
)

// outputParser accumulates what matters from the installer's streamed
// output: the generated admin credential and any explicit failure marker.
// The wrapped installer is known to sometimes exit zero after a partial
// failure, so a marker taints the run regardless of the final exit code.
type outputParser struct {
	markers  []string
	password string
	failed   bool
}

func newOutputParser(markers []string) *outputParser {
	if len(markers) == 0 {
		markers = []string{"[failed]"}
	}

	lowered := make([]string, 0, len(markers))
	for _, marker := range markers {
		lowered = append(lowered, strings.ToLower(marker))
	}

	return &outputParser{markers: lowered}
}

func (p *outputParser) feed(line string) {
	clean := strings.TrimSpace(ansiPattern.ReplaceAllString(line, ""))
	if clean == "" {
		return
	}

	lower := strings.ToLower(clean)
	for _, marker := range p.markers {
		if strings.Contains(lower, marker) {
			p.failed = true
		}
	}

	if m := passwordPattern.FindStringSubmatch(clean); m != nil {
		p.password = m[1]
	}
}
