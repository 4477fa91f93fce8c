package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDownload(t *testing.T) {
	cmd, err := Render("scripts/install/download.hbs", map[string]string{
		"installerPath": "/tmp/fp_install.sh",
		"installerURL":  "http://fastpanel.direct/install_ru.sh",
	})

	require.NoError(t, err)
	assert.Equal(t, "wget -q -O /tmp/fp_install.sh http://fastpanel.direct/install_ru.sh", cmd)
}

func TestRenderSiteCreate(t *testing.T) {
	cmd, err := Render("scripts/sites/create.hbs", map[string]string{
		"cli":     "/usr/local/fastpanel2/fastpanel",
		"domain":  "example.com",
		"account": "example",
	})

	require.NoError(t, err)
	assert.Contains(t, cmd, "--domain example.com")
	assert.Contains(t, cmd, "--user example")
}

func TestRenderMissingTemplate(t *testing.T) {
	_, err := Render("scripts/nope.hbs", nil)

	assert.Error(t, err)
}
