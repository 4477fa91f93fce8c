package install

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParserExtractsPassword(t *testing.T) {
	parser := newOutputParser(nil)

	parser.feed("Password: Xk9$mTqw")

	assert.Equal(t, "Xk9$mTqw", parser.password)
	assert.False(t, parser.failed)
}

func TestParserExtractsPasswordWithANSIPrefix(t *testing.T) {
	parser := newOutputParser(nil)

	parser.feed("\x1b[32mPassword: Xk9$mTqw\x1b[0m")

	assert.Equal(t, "Xk9$mTqw", parser.password)
}

func TestParserExtractsAdminPasswordLabel(t *testing.T) {
	parser := newOutputParser(nil)

	parser.feed("Admin password: hunter2secret")

	assert.Equal(t, "hunter2secret", parser.password)
}

func TestParserLastPasswordWins(t *testing.T) {
	parser := newOutputParser(nil)

	parser.feed("Password: first")
	parser.feed("Password: second")

	assert.Equal(t, "second", parser.password)
}

func TestParserDetectsFailureMarker(t *testing.T) {
	parser := newOutputParser(nil)

	parser.feed("Configuring nginx ... [FAILED]")
	parser.feed("Done.")

	assert.True(t, parser.failed)
}

func TestParserCustomMarkers(t *testing.T) {
	parser := newOutputParser([]string{"[error]", "installation aborted"})

	parser.feed("something went wrong: Installation Aborted")

	assert.True(t, parser.failed)
}

func TestParserIgnoresPlainLines(t *testing.T) {
	parser := newOutputParser(nil)

	parser.feed("Installing packages...")
	parser.feed("")

	assert.Empty(t, parser.password)
	assert.False(t, parser.failed)
}
