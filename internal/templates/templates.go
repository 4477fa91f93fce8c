// Package templates embeds the handlebars templates for every shell command
// the pipelines send onto the wire. The command shapes are contracts owned by
// the remote panel and system tooling, not designed here.
package templates

import (
	"embed"
	"strings"

	"github.com/aymerick/raymond"
)

//go:embed scripts
var Scripts embed.FS

// Render reads an embedded template and executes it with the given params.
func Render(path string, params map[string]string) (string, error) {
	raw, err := Scripts.ReadFile(path)
	if err != nil {
		return "", err
	}

	tpl, err := raymond.Parse(string(raw))
	if err != nil {
		return "", err
	}

	out, err := tpl.Exec(params)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}
